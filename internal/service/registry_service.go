package service

import (
	"context"
	"time"

	"deposit-reconciler/internal/core/domain"
	"deposit-reconciler/internal/core/ports"
	"deposit-reconciler/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Registry implements ports.RegistryService.
type Registry struct {
	deposits  ports.DepositRepository
	approvals ports.ApprovalRepository
	log       zerolog.Logger
	now       func() time.Time
}

// NewRegistry creates a new Registry.
func NewRegistry(deposits ports.DepositRepository, approvals ports.ApprovalRepository, log zerolog.Logger) *Registry {
	return &Registry{deposits: deposits, approvals: approvals, log: log, now: time.Now}
}

// Submit records a new pending claim.
func (s *Registry) Submit(ctx context.Context, req ports.SubmitDepositRequest) (*domain.DepositRequest, error) {
	txID, err := NormalizeTransactionID(req.TransactionID)
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, apperror.Validation("Amount must be positive")
	}
	if req.ChatID == "" {
		return nil, apperror.Validation("Chat ID is required")
	}

	now := s.now().UTC()
	d := &domain.DepositRequest{
		ID:            uuid.New(),
		Amount:        req.Amount,
		TransactionID: txID,
		ChatID:        req.ChatID,
		Bank:          req.Bank,
		Status:        domain.DepositStatusPendingApproval,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.deposits.Create(ctx, d); err != nil {
		return nil, storeError("create deposit", err)
	}

	s.log.Info().
		Str("deposit_id", d.ID.String()).
		Str("chat_id", d.ChatID).
		Str("amount", d.Amount.String()).
		Msg("Deposit request submitted")
	return d, nil
}

// List returns claims in insertion order, optionally filtered by status.
func (s *Registry) List(ctx context.Context, status *domain.DepositStatus) ([]domain.DepositRequest, error) {
	if status != nil && !status.IsValid() {
		return nil, apperror.Validation("Unknown status " + string(*status))
	}
	all, err := s.deposits.List(ctx)
	if err != nil {
		return nil, storeError("list deposits", err)
	}
	if status == nil {
		return all, nil
	}

	filtered := make([]domain.DepositRequest, 0, len(all))
	for _, d := range all {
		if d.Status == *status {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}

// Get returns one claim and, once approved, its approval record.
func (s *Registry) Get(ctx context.Context, id uuid.UUID) (*ports.DepositDetails, error) {
	d, err := s.deposits.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get deposit", err)
	}
	if d == nil {
		return nil, apperror.ErrNotFound("deposit")
	}

	details := &ports.DepositDetails{Deposit: *d}
	if d.Status == domain.DepositStatusApproved {
		rec, err := s.approvals.GetByDepositID(ctx, id)
		if err != nil {
			return nil, storeError("get approval record", err)
		}
		if rec != nil && !rec.VerifyDigest() {
			s.log.Warn().
				Str("deposit_id", id.String()).
				Str("approval_id", rec.ID.String()).
				Msg("Approval record digest mismatch")
		}
		details.Approval = rec
	}
	return details, nil
}
