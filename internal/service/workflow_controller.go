package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"deposit-reconciler/internal/core/domain"
	"deposit-reconciler/internal/core/ports"
	"deposit-reconciler/pkg/apperror"
	"deposit-reconciler/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const correctedReason = "Deposit was corrected; verify again"

// workflowInstance is one live operator interaction. wf is guarded by mu.
type workflowInstance struct {
	mu            sync.Mutex
	wf            domain.Workflow
	cancelAttempt context.CancelFunc
}

func (i *workflowInstance) snapshot() *domain.Workflow {
	wf := i.wf
	return &wf
}

// WorkflowControllerImpl implements ports.WorkflowController. Workflows live
// in memory only; a restart drops interactions in progress, never commits.
type WorkflowControllerImpl struct {
	mu        sync.RWMutex
	instances map[uuid.UUID]*workflowInstance

	deposits    ports.DepositRepository
	dispatcher  ports.VerificationDispatcher
	approvals   ports.ApprovalService
	rejections  ports.RejectionService
	corrections ports.CorrectionService
	metrics     *metrics.Collector
	ttl         time.Duration
	log         zerolog.Logger
	now         func() time.Time
}

// WorkflowDeps groups the services a workflow drives.
type WorkflowDeps struct {
	Deposits    ports.DepositRepository
	Dispatcher  ports.VerificationDispatcher
	Approvals   ports.ApprovalService
	Rejections  ports.RejectionService
	Corrections ports.CorrectionService
	Metrics     *metrics.Collector
}

// NewWorkflowController creates a controller. Idle workflows older than ttl
// are dropped by Sweep.
func NewWorkflowController(deps WorkflowDeps, ttl time.Duration, log zerolog.Logger) *WorkflowControllerImpl {
	return &WorkflowControllerImpl{
		instances:   make(map[uuid.UUID]*workflowInstance),
		deposits:    deps.Deposits,
		dispatcher:  deps.Dispatcher,
		approvals:   deps.Approvals,
		rejections:  deps.Rejections,
		corrections: deps.Corrections,
		metrics:     deps.Metrics,
		ttl:         ttl,
		log:         log,
		now:         time.Now,
	}
}

// Start proposes an interaction with a pending claim.
func (c *WorkflowControllerImpl) Start(ctx context.Context, req ports.StartWorkflowRequest) (*domain.Workflow, error) {
	if !req.Kind.IsValid() {
		return nil, apperror.Validation("Unknown workflow kind " + string(req.Kind))
	}
	var newTxID string
	if req.Kind == domain.WorkflowKindCorrection {
		id, err := NormalizeTransactionID(req.NewTransactionID)
		if err != nil {
			return nil, err
		}
		newTxID = id
	}

	claim, err := c.deposits.GetByID(ctx, req.DepositID)
	if err != nil {
		return nil, storeError("get deposit", err)
	}
	if claim == nil {
		return nil, apperror.ErrNotFound("deposit")
	}
	if !claim.IsPending() {
		return nil, apperror.ErrClaimNotPending()
	}

	wf := domain.NewWorkflow(req.DepositID, req.Kind, req.OperatorID, c.now().UTC())
	wf.NewTransactionID = newTxID
	inst := &workflowInstance{wf: *wf}

	c.mu.Lock()
	c.instances[wf.ID] = inst
	active := len(c.instances)
	c.mu.Unlock()
	c.metrics.SetActiveWorkflows(active)

	c.logger(wf).Info().Str("kind", string(wf.Kind)).Msg("Workflow started")
	return inst.snapshot(), nil
}

// Get returns the current state of a workflow.
func (c *WorkflowControllerImpl) Get(_ context.Context, id uuid.UUID) (*domain.Workflow, error) {
	inst, err := c.lookup(id)
	if err != nil {
		return nil, err
	}
	inst.mu.Lock()
	defer inst.mu.Unlock()
	return inst.snapshot(), nil
}

// SelectProvider runs a verification for an approval workflow. The instance
// is unlocked while the provider is called, so Cancel can abort it.
func (c *WorkflowControllerImpl) SelectProvider(ctx context.Context, id uuid.UUID, choice domain.ProviderChoice) (*domain.Workflow, error) {
	inst, err := c.lookup(id)
	if err != nil {
		return nil, err
	}

	inst.mu.Lock()
	if err := checkOpen(&inst.wf); err != nil {
		inst.mu.Unlock()
		return nil, err
	}
	if err := inst.wf.Apply(domain.WorkflowEvent{Type: domain.EventProviderSelected, Provider: choice}, c.now().UTC()); err != nil {
		inst.mu.Unlock()
		return nil, apperror.ErrInvalidStep(err)
	}
	attempt := inst.wf.Attempt
	depositID := inst.wf.DepositID
	attemptCtx, cancel := context.WithCancel(ctx)
	inst.cancelAttempt = cancel
	inst.mu.Unlock()

	res, verr := c.dispatcher.Verify(attemptCtx, depositID, choice)
	cancel()

	inst.mu.Lock()
	defer inst.mu.Unlock()

	if inst.wf.State == domain.WorkflowCancelled {
		return nil, apperror.ErrConfirmationAborted()
	}
	if inst.wf.Attempt != attempt || inst.wf.State != domain.WorkflowVerifying {
		c.logger(&inst.wf).Debug().Int("attempt", attempt).Msg("Discarding superseded verification")
		return nil, apperror.ErrConflict("Verification was superseded by a newer attempt")
	}
	inst.cancelAttempt = nil

	ev := domain.WorkflowEvent{Type: domain.EventOutcomeReceived, Err: verr}
	if verr == nil {
		ev.Outcome = res.Outcome
		ev.Claimant = res.Claimant
	}
	if err := inst.wf.Apply(ev, c.now().UTC()); err != nil {
		return nil, apperror.InternalError(err)
	}
	if verr != nil {
		return nil, verr
	}
	return inst.snapshot(), nil
}

// Confirm commits the proposed decision. An approval uses only the outcome
// held by this workflow.
func (c *WorkflowControllerImpl) Confirm(ctx context.Context, id uuid.UUID) (*domain.Workflow, error) {
	inst, err := c.lookup(id)
	if err != nil {
		return nil, err
	}

	inst.mu.Lock()
	if err := checkOpen(&inst.wf); err != nil {
		inst.mu.Unlock()
		return nil, err
	}
	if err := inst.wf.Apply(domain.WorkflowEvent{Type: domain.EventConfirmed}, c.now().UTC()); err != nil {
		inst.mu.Unlock()
		return nil, apperror.ErrInvalidStep(err)
	}
	wf := inst.wf
	inst.mu.Unlock()

	commitErr := c.commit(context.WithoutCancel(ctx), wf)

	if commitErr == nil && wf.Kind == domain.WorkflowKindCorrection {
		c.InvalidateClaim(wf.DepositID)
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()
	log := c.logger(&inst.wf)

	if inst.wf.State == domain.WorkflowCancelled {
		// Cancelled mid-commit: the commit already ran to completion.
		log.Info().AnErr("commit_error", commitErr).Msg("Workflow cancelled while committing")
		if commitErr != nil {
			return nil, commitErr
		}
		return inst.snapshot(), nil
	}

	stale := errors.Is(commitErr, ErrStaleOutcome)
	ev := domain.WorkflowEvent{
		Type:     domain.EventCommitFinished,
		Err:      commitErr,
		Conflict: !stale && (apperror.IsConflict(commitErr) || apperror.IsNotFound(commitErr)),
	}
	if err := inst.wf.Apply(ev, c.now().UTC()); err != nil {
		return nil, apperror.InternalError(err)
	}
	if stale {
		inst.wf.DropOutcome(errText(commitErr))
	}

	if commitErr != nil {
		log.Warn().Err(commitErr).Str("state", string(inst.wf.State)).Msg("Workflow commit failed")
		return nil, commitErr
	}
	log.Info().Str("kind", string(inst.wf.Kind)).Msg("Workflow completed")
	return inst.snapshot(), nil
}

// Cancel abandons the interaction. An in-flight verification is aborted; a
// commit already under way still completes.
func (c *WorkflowControllerImpl) Cancel(_ context.Context, id uuid.UUID) (*domain.Workflow, error) {
	inst, err := c.lookup(id)
	if err != nil {
		return nil, err
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()

	if err := checkOpen(&inst.wf); err != nil {
		return nil, err
	}
	if err := inst.wf.Apply(domain.WorkflowEvent{Type: domain.EventCancelled}, c.now().UTC()); err != nil {
		return nil, apperror.ErrInvalidStep(err)
	}
	if inst.cancelAttempt != nil {
		inst.cancelAttempt()
		inst.cancelAttempt = nil
	}

	c.logger(&inst.wf).Info().Msg("Workflow cancelled")
	return inst.snapshot(), nil
}

// InvalidateClaim drops the verification held by every live workflow of the
// claim, forcing a fresh verify before approval.
func (c *WorkflowControllerImpl) InvalidateClaim(depositID uuid.UUID) {
	c.mu.RLock()
	var affected []*workflowInstance
	for _, inst := range c.instances {
		affected = append(affected, inst)
	}
	c.mu.RUnlock()

	for _, inst := range affected {
		inst.mu.Lock()
		if inst.wf.DepositID == depositID && !inst.wf.State.IsTerminal() && inst.wf.State != domain.WorkflowCommitting {
			inst.wf.DropOutcome(correctedReason)
		}
		inst.mu.Unlock()
	}
}

// Sweep forgets workflows idle for longer than the TTL and returns how many
// were removed. Committing workflows are never swept.
func (c *WorkflowControllerImpl) Sweep(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for id, inst := range c.instances {
		inst.mu.Lock()
		idle := now.Sub(inst.wf.UpdatedAt) > c.ttl && inst.wf.State != domain.WorkflowCommitting
		if idle && inst.cancelAttempt != nil {
			inst.cancelAttempt()
		}
		inst.mu.Unlock()
		if idle {
			delete(c.instances, id)
			removed++
		}
	}
	c.metrics.SetActiveWorkflows(len(c.instances))
	return removed
}

// Run sweeps idle workflows every interval until ctx ends.
func (c *WorkflowControllerImpl) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := c.Sweep(c.now().UTC()); n > 0 {
				c.log.Debug().Int("removed", n).Msg("Swept idle workflows")
			}
		}
	}
}

func (c *WorkflowControllerImpl) commit(ctx context.Context, wf domain.Workflow) error {
	switch wf.Kind {
	case domain.WorkflowKindApproval:
		_, err := c.approvals.Approve(ctx, ports.ApproveRequest{
			DepositID:  wf.DepositID,
			Outcome:    wf.Outcome,
			Claimant:   wf.Claimant,
			OperatorID: wf.OperatorID,
		})
		return err
	case domain.WorkflowKindRejection:
		return c.rejections.Reject(ctx, wf.DepositID, wf.OperatorID)
	case domain.WorkflowKindCorrection:
		return c.corrections.Correct(ctx, wf.DepositID, wf.NewTransactionID, wf.OperatorID)
	}
	return apperror.Validation("Unknown workflow kind " + string(wf.Kind))
}

func (c *WorkflowControllerImpl) lookup(id uuid.UUID) (*workflowInstance, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	inst, ok := c.instances[id]
	if !ok {
		return nil, apperror.ErrNotFound("workflow")
	}
	return inst, nil
}

func (c *WorkflowControllerImpl) logger(wf *domain.Workflow) *zerolog.Logger {
	l := c.log.With().
		Str("workflow_id", wf.ID.String()).
		Str("deposit_id", wf.DepositID.String()).
		Str("operator_id", wf.OperatorID).
		Logger()
	return &l
}

// checkOpen rejects operations on finished workflows.
func checkOpen(wf *domain.Workflow) error {
	switch wf.State {
	case domain.WorkflowCancelled:
		return apperror.ErrConfirmationAborted()
	case domain.WorkflowCompleted, domain.WorkflowFailed:
		return apperror.ErrConflict("Workflow already finished")
	}
	return nil
}

func errText(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
