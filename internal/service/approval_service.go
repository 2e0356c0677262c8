package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"deposit-reconciler/internal/core/domain"
	"deposit-reconciler/internal/core/ports"
	"deposit-reconciler/pkg/apperror"
	"deposit-reconciler/pkg/metrics"

	"github.com/rs/zerolog"
)

// ApprovalOrchestrator implements ports.ApprovalService.
type ApprovalOrchestrator struct {
	guard         claimGuard
	deposits      ports.DepositRepository
	approvals     ports.ApprovalRepository
	transactor    ports.Transactor
	metrics       *metrics.Collector
	maxOutcomeAge time.Duration
	log           zerolog.Logger
	now           func() time.Time
}

// NewApprovalOrchestrator creates a new ApprovalOrchestrator.
func NewApprovalOrchestrator(
	deposits ports.DepositRepository,
	approvals ports.ApprovalRepository,
	transactor ports.Transactor,
	locker ports.ClaimLocker,
	m *metrics.Collector,
	maxOutcomeAge time.Duration,
	log zerolog.Logger,
) *ApprovalOrchestrator {
	return &ApprovalOrchestrator{
		guard:         claimGuard{deposits: deposits, locker: locker},
		deposits:      deposits,
		approvals:     approvals,
		transactor:    transactor,
		metrics:       m,
		maxOutcomeAge: maxOutcomeAge,
		log:           log,
		now:           time.Now,
	}
}

// Approve commits a successful verification: one approval record plus the
// PENDING_APPROVAL -> APPROVED transition, both or neither.
func (s *ApprovalOrchestrator) Approve(ctx context.Context, req ports.ApproveRequest) (*domain.ApprovalRecord, error) {
	if err := s.checkOutcome(req); err != nil {
		s.metrics.RecordApproval("rejected")
		return nil, err
	}

	// Once submitted, the commit runs to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	claim, unlock, err := s.guard.lockPending(ctx, req.DepositID)
	if err != nil {
		s.metrics.RecordApproval(approvalResult(err))
		return nil, err
	}
	defer unlock()

	// A correction A -> B -> A restores the reference but not the revision.
	if req.Outcome.VerifiedReference != claim.TransactionID || !req.Outcome.ClaimRevision.Equal(claim.UpdatedAt) {
		s.metrics.RecordApproval("stale")
		return nil, apperror.ErrReverify("Deposit was corrected after verification; verify again", ErrStaleOutcome)
	}

	claimant := domain.ClaimantSnapshot{}
	if req.Claimant != nil {
		claimant = *req.Claimant
	}
	rec, err := domain.NewApprovalRecord(req.DepositID, *req.Outcome, claimant, req.OperatorID, s.now())
	if err != nil {
		s.metrics.RecordApproval("error")
		return nil, apperror.InternalError(err)
	}

	err = s.transactor.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.approvals.Create(ctx, rec); err != nil {
			if errors.Is(err, ports.ErrDuplicateApproval) {
				return apperror.ErrConflict("Deposit already has an approval record")
			}
			return fmt.Errorf("create approval record: %w", err)
		}
		ok, err := s.deposits.UpdateStatus(ctx, req.DepositID,
			domain.DepositStatusPendingApproval, domain.DepositStatusApproved)
		if err != nil {
			return fmt.Errorf("mark deposit approved: %w", err)
		}
		if !ok {
			return apperror.ErrClaimNotPending()
		}
		return nil
	})
	if err != nil {
		err = storeError("approve deposit", err)
		s.metrics.RecordApproval(approvalResult(err))
		s.log.Warn().Err(err).
			Str("deposit_id", req.DepositID.String()).
			Msg("Approval rolled back")
		return nil, err
	}

	s.metrics.RecordApproval("approved")
	s.metrics.RecordTransition(string(domain.DepositStatusApproved))
	s.log.Info().
		Str("deposit_id", req.DepositID.String()).
		Str("approval_id", rec.ID.String()).
		Str("operator_id", req.OperatorID).
		Str("provider", string(req.Outcome.Provider)).
		Msg("Deposit approved")
	return rec, nil
}

func (s *ApprovalOrchestrator) checkOutcome(req ports.ApproveRequest) error {
	o := req.Outcome
	if o == nil || !o.Success {
		return apperror.ErrVerificationFailure("")
	}
	if o.DepositID != req.DepositID {
		return apperror.Validation("Verification outcome belongs to another deposit")
	}
	if s.maxOutcomeAge > 0 && s.now().Sub(o.ObtainedAt) > s.maxOutcomeAge {
		return apperror.ErrReverify("Verification is too old; verify again", ErrStaleOutcome)
	}
	return nil
}

func approvalResult(err error) string {
	switch {
	case errors.Is(err, ErrStaleOutcome):
		return "stale"
	case apperror.IsConflict(err):
		return "conflict"
	case apperror.IsNotFound(err):
		return "not_found"
	}
	return "error"
}
