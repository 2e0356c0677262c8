package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"deposit-reconciler/internal/core/domain"
	"deposit-reconciler/internal/core/ports"
	"deposit-reconciler/internal/core/ports/mocks"
	"deposit-reconciler/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func (f *fixture) start(t *testing.T, id uuid.UUID, kind domain.WorkflowKind, newTxID string) *domain.Workflow {
	t.Helper()
	wf, err := f.controller.Start(context.Background(), ports.StartWorkflowRequest{
		DepositID:        id,
		Kind:             kind,
		NewTransactionID: newTxID,
		OperatorID:       "op-1",
	})
	require.NoError(t, err)
	return wf
}

func waitEntered(t *testing.T, p *stubProvider) {
	t.Helper()
	select {
	case <-p.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("provider was not called")
	}
}

func TestWorkflow_ApprovalHappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	claim := f.seed(t, "TX1")

	wf := f.start(t, claim.ID, domain.WorkflowKindApproval, "")
	assert.Equal(t, domain.WorkflowAwaitingProvider, wf.State)

	wf, err := f.controller.SelectProvider(ctx, wf.ID, domain.ProviderSameBank)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkflowAwaitingConfirmation, wf.State)
	require.NotNil(t, wf.Outcome)
	assert.Equal(t, claim.ID, wf.Outcome.DepositID)

	wf, err = f.controller.Confirm(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkflowCompleted, wf.State)
	assert.Equal(t, domain.DepositStatusApproved, f.status(t, claim.ID))

	_, err = f.controller.Confirm(ctx, wf.ID)
	assert.True(t, apperror.IsConflict(err))
}

func TestWorkflow_ConfirmBeforeVerifyIsInvalid(t *testing.T) {
	f := newFixture(t)
	claim := f.seed(t, "TX1")
	wf := f.start(t, claim.ID, domain.WorkflowKindApproval, "")

	_, err := f.controller.Confirm(context.Background(), wf.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidStep))
	assert.Equal(t, domain.DepositStatusPendingApproval, f.status(t, claim.ID))
}

// D2 through the controller: the degenerate receiver fails, cross-provider succeeds.
func TestWorkflow_FailedVerificationAllowsRetry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.sameWallet.result.Outcome.ReceiverAccount = "12"
	claim := f.seed(t, "TX2")
	wf := f.start(t, claim.ID, domain.WorkflowKindApproval, "")

	_, err := f.controller.SelectProvider(ctx, wf.ID, domain.ProviderSameWallet)
	assert.True(t, apperror.HasCode(err, apperror.CodeVerificationFailure))

	got, err := f.controller.Get(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkflowAwaitingProvider, got.State)
	assert.Contains(t, got.LastError, "CROSS_PROVIDER")
	assert.Nil(t, got.Outcome)
	assert.Equal(t, domain.DepositStatusPendingApproval, f.status(t, claim.ID))

	got, err = f.controller.SelectProvider(ctx, wf.ID, domain.ProviderCrossProvider)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkflowAwaitingConfirmation, got.State)
	assert.Equal(t, 2, got.Attempt)
}

func TestWorkflow_CancelAbortsVerification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.sameBank.gate = make(chan struct{})
	claim := f.seed(t, "TX1")
	wf := f.start(t, claim.ID, domain.WorkflowKindApproval, "")

	done := make(chan error, 1)
	go func() {
		_, err := f.controller.SelectProvider(ctx, wf.ID, domain.ProviderSameBank)
		done <- err
	}()
	waitEntered(t, f.sameBank)

	got, err := f.controller.Cancel(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkflowCancelled, got.State)

	select {
	case err := <-done:
		assert.True(t, apperror.HasCode(err, apperror.CodeConfirmationAborted))
	case <-time.After(2 * time.Second):
		t.Fatal("verification was not aborted")
	}

	_, err = f.controller.Confirm(ctx, wf.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeConfirmationAborted))
	_, err = f.controller.SelectProvider(ctx, wf.ID, domain.ProviderSameBank)
	assert.True(t, apperror.HasCode(err, apperror.CodeConfirmationAborted))
	_, err = f.controller.Cancel(ctx, wf.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeConfirmationAborted))

	assert.Equal(t, domain.DepositStatusPendingApproval, f.status(t, claim.ID))
}

// D3 through the controller: nothing happens until the rejection is confirmed.
func TestWorkflow_RejectionNeedsConfirmation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	claim := f.seed(t, "TX3")

	abandoned := f.start(t, claim.ID, domain.WorkflowKindRejection, "")
	assert.Equal(t, domain.WorkflowAwaitingConfirmation, abandoned.State)
	_, err := f.controller.Cancel(ctx, abandoned.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DepositStatusPendingApproval, f.status(t, claim.ID))

	wf := f.start(t, claim.ID, domain.WorkflowKindRejection, "")
	wf, err = f.controller.Confirm(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkflowCompleted, wf.State)
	assert.Equal(t, domain.DepositStatusRejected, f.status(t, claim.ID))

	_, err = f.controller.Start(ctx, ports.StartWorkflowRequest{DepositID: claim.ID, Kind: domain.WorkflowKindApproval})
	assert.True(t, apperror.IsConflict(err))
}

func TestWorkflow_CorrectionInvalidatesHeldOutcome(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	claim := f.seed(t, "TX1")

	approval := f.start(t, claim.ID, domain.WorkflowKindApproval, "")
	_, err := f.controller.SelectProvider(ctx, approval.ID, domain.ProviderSameBank)
	require.NoError(t, err)

	correction := f.start(t, claim.ID, domain.WorkflowKindCorrection, "TX1-fixed")
	_, err = f.controller.Confirm(ctx, correction.ID)
	require.NoError(t, err)

	got, err := f.controller.Get(ctx, approval.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkflowAwaitingProvider, got.State)
	assert.Nil(t, got.Outcome)

	_, err = f.controller.Confirm(ctx, approval.ID)
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidStep))

	_, err = f.controller.SelectProvider(ctx, approval.ID, domain.ProviderSameBank)
	require.NoError(t, err)
	assert.Equal(t, "TX1-fixed", f.sameBank.lastRequest().TransactionReference)
	_, err = f.controller.Confirm(ctx, approval.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DepositStatusApproved, f.status(t, claim.ID))
}

func TestWorkflow_StaleOutcomeReturnsToProviderStep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.controller.approvals = NewApprovalOrchestrator(f.store, f.store.Approvals(), f.store, f.locker, nil, time.Nanosecond, newTestLogger())
	claim := f.seed(t, "TX1")

	wf := f.start(t, claim.ID, domain.WorkflowKindApproval, "")
	_, err := f.controller.SelectProvider(ctx, wf.ID, domain.ProviderSameBank)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	_, err = f.controller.Confirm(ctx, wf.ID)
	assert.ErrorIs(t, err, ErrStaleOutcome)

	got, _ := f.controller.Get(ctx, wf.ID)
	assert.Equal(t, domain.WorkflowAwaitingProvider, got.State)
	assert.Nil(t, got.Outcome)
	assert.NotEmpty(t, got.LastError)
}

// D4 through the controller: two operators approve the same claim at once.
func TestWorkflow_ConcurrentApprovalsOneFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	claim := f.seed(t, "TX4")

	var ids []uuid.UUID
	for i := 0; i < 2; i++ {
		wf := f.start(t, claim.ID, domain.WorkflowKindApproval, "")
		_, err := f.controller.SelectProvider(ctx, wf.ID, domain.ProviderSameBank)
		require.NoError(t, err)
		ids = append(ids, wf.ID)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(ids))
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			_, errs[i] = f.controller.Confirm(ctx, id)
		}(i, id)
	}
	wg.Wait()

	states := map[domain.WorkflowState]int{}
	for i, id := range ids {
		got, err := f.controller.Get(ctx, id)
		require.NoError(t, err)
		states[got.State]++
		if errs[i] != nil {
			assert.True(t, apperror.IsConflict(errs[i]))
		}
	}
	assert.Equal(t, 1, states[domain.WorkflowCompleted])
	assert.Equal(t, 1, states[domain.WorkflowFailed])
	assert.Equal(t, domain.DepositStatusApproved, f.status(t, claim.ID))

	rec, err := f.store.Approvals().GetByDepositID(ctx, claim.ID)
	require.NoError(t, err)
	assert.NotNil(t, rec)
}

func TestWorkflow_CancelDuringCommitStillCommits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	rejections := mocks.NewMockRejectionService(ctrl)
	f.controller.rejections = rejections
	claim := f.seed(t, "TX1")

	entered := make(chan struct{})
	release := make(chan struct{})
	rejections.EXPECT().Reject(gomock.Any(), claim.ID, "op-1").DoAndReturn(
		func(ctx context.Context, id uuid.UUID, operatorID string) error {
			close(entered)
			<-release
			return f.rejections.Reject(ctx, id, operatorID)
		},
	)

	wf := f.start(t, claim.ID, domain.WorkflowKindRejection, "")
	done := make(chan *domain.Workflow, 1)
	go func() {
		got, err := f.controller.Confirm(ctx, wf.ID)
		assert.NoError(t, err)
		done <- got
	}()
	<-entered

	cancelled, err := f.controller.Cancel(ctx, wf.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkflowCancelled, cancelled.State)
	close(release)

	select {
	case got := <-done:
		require.NotNil(t, got)
		assert.Equal(t, domain.WorkflowCancelled, got.State)
	case <-time.After(2 * time.Second):
		t.Fatal("commit did not finish")
	}
	assert.Equal(t, domain.DepositStatusRejected, f.status(t, claim.ID))
}

func TestWorkflow_StartChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	claim := f.seed(t, "TX1")

	_, err := f.controller.Start(ctx, ports.StartWorkflowRequest{DepositID: uuid.New(), Kind: domain.WorkflowKindApproval})
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.controller.Start(ctx, ports.StartWorkflowRequest{DepositID: claim.ID, Kind: "REFUND"})
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))

	_, err = f.controller.Start(ctx, ports.StartWorkflowRequest{DepositID: claim.ID, Kind: domain.WorkflowKindCorrection, NewTransactionID: " "})
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))

	_, err = f.controller.Get(ctx, uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestWorkflow_SweepDropsIdle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	claim := f.seed(t, "TX1")
	wf := f.start(t, claim.ID, domain.WorkflowKindApproval, "")

	assert.Equal(t, 0, f.controller.Sweep(time.Now()))
	assert.Equal(t, 1, f.controller.Sweep(time.Now().Add(time.Hour)))

	_, err := f.controller.Get(ctx, wf.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestWorkflow_RunStopsWithContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.controller.Run(ctx, time.Millisecond) }()

	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
