// Package memory is an in-process store for the Deposit Registry. Units of
// work run against a staged copy that is published only when they succeed.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"deposit-reconciler/internal/core/domain"
	"deposit-reconciler/internal/core/ports"

	"github.com/google/uuid"
)

var errDuplicateDeposit = errors.New("deposit already exists")

type state struct {
	deposits  []domain.DepositRequest // insertion order
	index     map[uuid.UUID]int
	approvals map[uuid.UUID]domain.ApprovalRecord
}

func newState() *state {
	return &state{
		index:     make(map[uuid.UUID]int),
		approvals: make(map[uuid.UUID]domain.ApprovalRecord),
	}
}

func (s *state) clone() *state {
	c := &state{
		deposits:  make([]domain.DepositRequest, len(s.deposits)),
		index:     make(map[uuid.UUID]int, len(s.index)),
		approvals: make(map[uuid.UUID]domain.ApprovalRecord, len(s.approvals)),
	}
	copy(c.deposits, s.deposits)
	for k, v := range s.index {
		c.index[k] = v
	}
	for k, v := range s.approvals {
		c.approvals[k] = v
	}
	return c
}

type txKey struct{}

type tx struct {
	store  *Store
	staged *state
}

// Store implements ports.DepositRepository, ports.ApprovalRepository,
// ports.AuditRepository and ports.Transactor.
type Store struct {
	writeMu sync.Mutex // one writer (unit of work or single write) at a time
	mu      sync.RWMutex
	cur     *state
	audit   []domain.AuditLog
	now     func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{cur: newState(), now: time.Now}
}

func (s *Store) txFrom(ctx context.Context) *tx {
	if t, ok := ctx.Value(txKey{}).(*tx); ok && t.store == s {
		return t
	}
	return nil
}

// read runs fn against the state visible to ctx.
func (s *Store) read(ctx context.Context, fn func(st *state)) {
	if t := s.txFrom(ctx); t != nil {
		fn(t.staged)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.cur)
}

// write runs fn against the staged state, or applies it directly outside a unit of work.
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if t := s.txFrom(ctx); t != nil {
		return fn(t.staged)
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	staged := s.snapshot()
	if err := fn(staged); err != nil {
		return err
	}
	s.publish(staged)
	return nil
}

func (s *Store) snapshot() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur.clone()
}

func (s *Store) publish(st *state) {
	s.mu.Lock()
	s.cur = st
	s.mu.Unlock()
}

// WithinTx runs fn on a staged copy and publishes it only if fn succeeds.
// Nested calls join the outer unit of work.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txFrom(ctx) != nil {
		return fn(ctx)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	t := &tx{store: s, staged: s.snapshot()}
	if err := fn(context.WithValue(ctx, txKey{}, t)); err != nil {
		return err
	}
	s.publish(t.staged)
	return nil
}

// Create inserts a new claim.
func (s *Store) Create(ctx context.Context, d *domain.DepositRequest) error {
	return s.write(ctx, func(st *state) error {
		if _, ok := st.index[d.ID]; ok {
			return errDuplicateDeposit
		}
		st.index[d.ID] = len(st.deposits)
		st.deposits = append(st.deposits, *d)
		return nil
	})
}

// List returns every claim in insertion order.
func (s *Store) List(ctx context.Context) ([]domain.DepositRequest, error) {
	var out []domain.DepositRequest
	s.read(ctx, func(st *state) {
		out = make([]domain.DepositRequest, len(st.deposits))
		copy(out, st.deposits)
	})
	return out, nil
}

// GetByID returns a copy of the claim, or nil when missing.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*domain.DepositRequest, error) {
	var out *domain.DepositRequest
	s.read(ctx, func(st *state) {
		if i, ok := st.index[id]; ok {
			d := st.deposits[i]
			out = &d
		}
	})
	return out, nil
}

// UpdateStatus moves the claim from -> to only if it is currently in from.
func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.DepositStatus) (bool, error) {
	var updated bool
	err := s.write(ctx, func(st *state) error {
		i, ok := st.index[id]
		if !ok || st.deposits[i].Status != from {
			return nil
		}
		st.deposits[i].Status = to
		s.touch(&st.deposits[i])
		updated = true
		return nil
	})
	return updated, err
}

// UpdateTransactionID rewrites the reference of a pending claim.
func (s *Store) UpdateTransactionID(ctx context.Context, id uuid.UUID, transactionID string) (bool, error) {
	var updated bool
	err := s.write(ctx, func(st *state) error {
		i, ok := st.index[id]
		if !ok || !st.deposits[i].IsPending() {
			return nil
		}
		st.deposits[i].TransactionID = transactionID
		s.touch(&st.deposits[i])
		updated = true
		return nil
	})
	return updated, err
}

// touch moves UpdatedAt strictly forward so every write is a new revision.
func (s *Store) touch(d *domain.DepositRequest) {
	now := s.now().UTC()
	if !now.After(d.UpdatedAt) {
		now = d.UpdatedAt.Add(time.Microsecond)
	}
	d.UpdatedAt = now
}

// Approvals returns the store as a ports.ApprovalRepository.
func (s *Store) Approvals() ports.ApprovalRepository { return approvalRepo{s} }

// Audit returns the store as a ports.AuditRepository.
func (s *Store) Audit() ports.AuditRepository { return auditRepo{s} }

// AuditLogs returns a copy of every audit entry written so far.
func (s *Store) AuditLogs() []domain.AuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.AuditLog, len(s.audit))
	copy(out, s.audit)
	return out
}

type approvalRepo struct{ s *Store }

func (r approvalRepo) Create(ctx context.Context, rec *domain.ApprovalRecord) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.approvals[rec.DepositID]; ok {
			return ports.ErrDuplicateApproval
		}
		st.approvals[rec.DepositID] = *rec
		return nil
	})
}

func (r approvalRepo) GetByDepositID(ctx context.Context, depositID uuid.UUID) (*domain.ApprovalRecord, error) {
	var out *domain.ApprovalRecord
	r.s.read(ctx, func(st *state) {
		if rec, ok := st.approvals[depositID]; ok {
			out = &rec
		}
	})
	return out, nil
}

type auditRepo struct{ s *Store }

// Audit entries are a journal, not part of any unit of work.
func (r auditRepo) Create(_ context.Context, log *domain.AuditLog) error {
	r.s.mu.Lock()
	r.s.audit = append(r.s.audit, *log)
	r.s.mu.Unlock()
	return nil
}
