package service

import (
	"context"
	"fmt"
	"strings"

	"deposit-reconciler/internal/core/domain"
	"deposit-reconciler/internal/core/ports"
	"deposit-reconciler/pkg/apperror"
	"deposit-reconciler/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CorrectionHandler implements ports.CorrectionService.
type CorrectionHandler struct {
	guard    claimGuard
	deposits ports.DepositRepository
	metrics  *metrics.Collector
	log      zerolog.Logger
}

// NewCorrectionHandler creates a new CorrectionHandler.
func NewCorrectionHandler(deposits ports.DepositRepository, locker ports.ClaimLocker, m *metrics.Collector, log zerolog.Logger) *CorrectionHandler {
	return &CorrectionHandler{
		guard:    claimGuard{deposits: deposits, locker: locker},
		deposits: deposits,
		metrics:  m,
		log:      log,
	}
}

// NormalizeTransactionID trims a claimed reference and rejects empty or oversized ones.
func NormalizeTransactionID(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", apperror.Validation("Transaction ID is required")
	}
	if len(id) > maxTransactionIDLen {
		return "", apperror.Validation(fmt.Sprintf("Transaction ID must be at most %d characters", maxTransactionIDLen))
	}
	return id, nil
}

// Correct rewrites the claimed reference of a pending claim. Status is untouched.
func (s *CorrectionHandler) Correct(ctx context.Context, depositID uuid.UUID, newTransactionID string, operatorID string) error {
	txID, err := NormalizeTransactionID(newTransactionID)
	if err != nil {
		return err
	}
	ctx = context.WithoutCancel(ctx)

	claim, unlock, err := s.guard.lockPending(ctx, depositID)
	if err != nil {
		return err
	}
	defer unlock()

	ok, err := s.deposits.UpdateTransactionID(ctx, depositID, txID)
	if err != nil {
		return storeError("correct deposit", fmt.Errorf("update transaction id: %w", err))
	}
	if !ok {
		return apperror.ErrClaimNotPending()
	}

	s.metrics.RecordTransition(string(domain.DepositStatusPendingApproval))
	s.log.Info().
		Str("deposit_id", depositID.String()).
		Str("operator_id", operatorID).
		Str("old_transaction_id", claim.TransactionID).
		Str("new_transaction_id", txID).
		Msg("Deposit transaction id corrected")
	return nil
}
