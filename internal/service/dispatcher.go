package service

import (
	"context"
	"errors"
	"time"

	"deposit-reconciler/internal/core/domain"
	"deposit-reconciler/internal/core/ports"
	"deposit-reconciler/pkg/apperror"
	"deposit-reconciler/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DegenerateReceiverMessage is shown when the same-wallet provider returns a
// receiver account too short to be real.
const DegenerateReceiverMessage = "Verification failed: receiver account looks incomplete. Retry using CROSS_PROVIDER."

// Verification results as recorded in metrics.
const (
	resultSuccess         = "success"
	resultFailure         = "failure"
	resultNetworkError    = "network_error"
	resultValidationError = "validation_error"
	resultError           = "error"
)

// Dispatcher implements ports.VerificationDispatcher. It never writes to the registry.
type Dispatcher struct {
	deposits  ports.DepositRepository
	locker    ports.ClaimLocker
	providers map[domain.ProviderChoice]ports.VerifyProvider
	metrics   *metrics.Collector
	log       zerolog.Logger
	now       func() time.Time
}

// NewDispatcher creates a Dispatcher over the given provider adapters.
func NewDispatcher(
	deposits ports.DepositRepository,
	locker ports.ClaimLocker,
	providers []ports.VerifyProvider,
	m *metrics.Collector,
	log zerolog.Logger,
) *Dispatcher {
	byChoice := make(map[domain.ProviderChoice]ports.VerifyProvider, len(providers))
	for _, p := range providers {
		byChoice[p.Choice()] = p
	}
	return &Dispatcher{
		deposits:  deposits,
		locker:    locker,
		providers: byChoice,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

// Verify checks a pending claim against the chosen provider and returns a
// normalized outcome stamped with its provenance.
func (d *Dispatcher) Verify(ctx context.Context, depositID uuid.UUID, choice domain.ProviderChoice) (*ports.VerificationResult, error) {
	provider, ok := d.providers[choice]
	if !ok {
		return nil, apperror.Validation("unknown provider " + string(choice))
	}

	if _, err := d.loadPending(ctx, depositID); err != nil {
		return nil, err
	}

	unlock, err := d.locker.Lock(ctx, depositID)
	if err != nil {
		return nil, lockError(err)
	}
	defer unlock()

	// Re-read under the lock: the claim may have been decided or corrected.
	claim, err := d.loadPending(ctx, depositID)
	if err != nil {
		return nil, err
	}

	log := d.log.With().
		Str("deposit_id", depositID.String()).
		Str("provider", string(choice)).
		Logger()

	started := d.now()
	res, err := provider.Verify(ctx, ports.ProviderRequest{
		TransactionReference: claim.TransactionID,
		ClaimantID:           claim.ChatID,
	})
	took := d.now().Sub(started)

	result, err := d.normalize(choice, res, err)
	d.metrics.RecordVerification(string(choice), resultLabel(err), took)
	if err != nil {
		logFailure(log, err)
		return nil, err
	}

	result.Outcome.DepositID = depositID
	result.Outcome.Provider = choice
	result.Outcome.VerifiedReference = claim.TransactionID
	result.Outcome.ClaimRevision = claim.UpdatedAt
	result.Outcome.ObtainedAt = d.now().UTC()

	log.Info().
		Str("reference", result.Outcome.Reference).
		Str("amount", result.Outcome.TransferredAmount.String()).
		Dur("took", took).
		Msg("Deposit verified")
	return result, nil
}

func (d *Dispatcher) normalize(choice domain.ProviderChoice, res *ports.ProviderResult, err error) (*ports.VerificationResult, error) {
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperror.ErrNetwork(err)
	}
	if res == nil || !res.Success || res.Outcome == nil {
		msg := ""
		if res != nil {
			msg = res.Message
		}
		return nil, apperror.ErrVerificationFailure(msg)
	}
	if choice == domain.ProviderSameWallet && res.Outcome.HasDegenerateReceiver() {
		return nil, apperror.ErrVerificationFailure(DegenerateReceiverMessage)
	}

	outcome := *res.Outcome
	outcome.Success = true
	claimant := domain.ClaimantSnapshot{}
	if res.Claimant != nil {
		claimant = *res.Claimant
	}
	return &ports.VerificationResult{Outcome: &outcome, Claimant: &claimant}, nil
}

func (d *Dispatcher) loadPending(ctx context.Context, id uuid.UUID) (*domain.DepositRequest, error) {
	claim, err := d.deposits.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get deposit", err)
	}
	if claim == nil {
		return nil, apperror.ErrNotFound("deposit")
	}
	if !claim.IsPending() {
		return nil, apperror.ErrClaimNotPending()
	}
	return claim, nil
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return resultSuccess
	case apperror.HasCode(err, apperror.CodeVerificationFailure):
		return resultFailure
	case apperror.HasCode(err, apperror.CodeNetwork):
		return resultNetworkError
	case apperror.HasCode(err, apperror.CodeValidation):
		return resultValidationError
	}
	return resultError
}

func logFailure(log zerolog.Logger, err error) {
	switch {
	case apperror.HasCode(err, apperror.CodeValidation):
		log.Error().Err(err).Msg("Provider returned a malformed verification response")
	case apperror.HasCode(err, apperror.CodeVerificationFailure):
		log.Info().Err(err).Msg("Deposit verification failed")
	default:
		log.Warn().Err(err).Msg("Deposit verification errored")
	}
}
