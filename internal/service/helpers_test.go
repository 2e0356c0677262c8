package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"deposit-reconciler/internal/adapter/storage/memory"
	"deposit-reconciler/internal/core/domain"
	"deposit-reconciler/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// stubProvider answers with a fixed result. When gate is set, each call
// blocks until gate is closed or ctx ends.
type stubProvider struct {
	choice domain.ProviderChoice
	result *ports.ProviderResult
	err    error
	gate   chan struct{}

	mu      sync.Mutex
	calls   []ports.ProviderRequest
	entered chan struct{}
}

func newStubProvider(choice domain.ProviderChoice, receiverAccount string) *stubProvider {
	return &stubProvider{
		choice:  choice,
		entered: make(chan struct{}, 16),
		result: &ports.ProviderResult{
			Success: true,
			Outcome: &domain.VerificationOutcome{
				Success:           true,
				Payer:             "Abebe Kebede",
				Receiver:          "Casino PLC",
				ReceiverAccount:   receiverAccount,
				TransferredAmount: decimal.NewFromInt(100),
				Reference:         "TX1",
			},
			Claimant: &domain.ClaimantSnapshot{ChatID: "chat-1", Username: "abebe", Balance: decimal.NewFromInt(5)},
		},
	}
}

func (p *stubProvider) Choice() domain.ProviderChoice { return p.choice }

func (p *stubProvider) Verify(ctx context.Context, req ports.ProviderRequest) (*ports.ProviderResult, error) {
	p.mu.Lock()
	p.calls = append(p.calls, req)
	p.mu.Unlock()
	select {
	case p.entered <- struct{}{}:
	default:
	}

	if p.gate != nil {
		select {
		case <-p.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	// Hand out a copy: the dispatcher stamps provenance on it.
	res := *p.result
	if res.Outcome != nil {
		o := *res.Outcome
		res.Outcome = &o
	}
	return &res, nil
}

func (p *stubProvider) lastRequest() ports.ProviderRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[len(p.calls)-1]
}

// fixture wires every service over the memory store.
type fixture struct {
	store       *memory.Store
	locker      *LocalClaimLocker
	sameBank    *stubProvider
	sameWallet  *stubProvider
	cross       *stubProvider
	dispatcher  *Dispatcher
	approvals   *ApprovalOrchestrator
	rejections  *RejectionHandler
	corrections *CorrectionHandler
	registry    *Registry
	controller  *WorkflowControllerImpl
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := newTestLogger()
	f := &fixture{
		store:      memory.NewStore(),
		locker:     NewLocalClaimLocker(time.Second),
		sameBank:   newStubProvider(domain.ProviderSameBank, "1000987654321"),
		sameWallet: newStubProvider(domain.ProviderSameWallet, "251911000000"),
		cross:      newStubProvider(domain.ProviderCrossProvider, "1000987654321"),
	}
	f.dispatcher = NewDispatcher(f.store, f.locker,
		[]ports.VerifyProvider{f.sameBank, f.sameWallet, f.cross}, nil, log)
	f.approvals = NewApprovalOrchestrator(f.store, f.store.Approvals(), f.store, f.locker, nil, 15*time.Minute, log)
	f.rejections = NewRejectionHandler(f.store, f.locker, nil, log)
	f.corrections = NewCorrectionHandler(f.store, f.locker, nil, log)
	f.registry = NewRegistry(f.store, f.store.Approvals(), log)
	f.controller = NewWorkflowController(WorkflowDeps{
		Deposits:    f.store,
		Dispatcher:  f.dispatcher,
		Approvals:   f.approvals,
		Rejections:  f.rejections,
		Corrections: f.corrections,
	}, 30*time.Minute, log)
	return f
}

// seed inserts a pending claim with the given reference.
func (f *fixture) seed(t *testing.T, txID string) *domain.DepositRequest {
	t.Helper()
	d, err := f.registry.Submit(context.Background(), ports.SubmitDepositRequest{
		Amount:        decimal.NewFromInt(100),
		TransactionID: txID,
		ChatID:        "chat-1",
		Bank:          "CBE",
	})
	require.NoError(t, err)
	return d
}

func (f *fixture) status(t *testing.T, id uuid.UUID) domain.DepositStatus {
	t.Helper()
	d, err := f.store.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, d)
	return d.Status
}

// verified runs a same-bank verification of the claim.
func (f *fixture) verified(t *testing.T, id uuid.UUID) *ports.VerificationResult {
	t.Helper()
	res, err := f.dispatcher.Verify(context.Background(), id, domain.ProviderSameBank)
	require.NoError(t, err)
	return res
}
