package service

import (
	"context"
	"fmt"

	"deposit-reconciler/internal/core/domain"
	"deposit-reconciler/internal/core/ports"
	"deposit-reconciler/pkg/apperror"
	"deposit-reconciler/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RejectionHandler implements ports.RejectionService. Rejected claims are
// kept and marked REJECTED.
type RejectionHandler struct {
	guard    claimGuard
	deposits ports.DepositRepository
	metrics  *metrics.Collector
	log      zerolog.Logger
}

// NewRejectionHandler creates a new RejectionHandler.
func NewRejectionHandler(deposits ports.DepositRepository, locker ports.ClaimLocker, m *metrics.Collector, log zerolog.Logger) *RejectionHandler {
	return &RejectionHandler{
		guard:    claimGuard{deposits: deposits, locker: locker},
		deposits: deposits,
		metrics:  m,
		log:      log,
	}
}

// Reject moves a pending claim to REJECTED.
func (s *RejectionHandler) Reject(ctx context.Context, depositID uuid.UUID, operatorID string) error {
	ctx = context.WithoutCancel(ctx)

	_, unlock, err := s.guard.lockPending(ctx, depositID)
	if err != nil {
		return err
	}
	defer unlock()

	ok, err := s.deposits.UpdateStatus(ctx, depositID,
		domain.DepositStatusPendingApproval, domain.DepositStatusRejected)
	if err != nil {
		return storeError("reject deposit", fmt.Errorf("update status: %w", err))
	}
	if !ok {
		return apperror.ErrClaimNotPending()
	}

	s.metrics.RecordTransition(string(domain.DepositStatusRejected))
	s.log.Info().
		Str("deposit_id", depositID.String()).
		Str("operator_id", operatorID).
		Msg("Deposit rejected")
	return nil
}
