package service

import (
	"context"

	"deposit-reconciler/internal/core/domain"
	"deposit-reconciler/internal/core/ports"
	"deposit-reconciler/pkg/apperror"

	"github.com/google/uuid"
)

// claimGuard serializes mutations of one claim and re-reads it under the lock.
type claimGuard struct {
	deposits ports.DepositRepository
	locker   ports.ClaimLocker
}

// lockPending returns the freshly read claim and the lock release. The caller
// must call unlock when err is nil.
func (g claimGuard) lockPending(ctx context.Context, id uuid.UUID) (*domain.DepositRequest, func(), error) {
	unlock, err := g.locker.Lock(ctx, id)
	if err != nil {
		return nil, nil, lockError(err)
	}

	claim, err := g.deposits.GetByID(ctx, id)
	if err != nil {
		unlock()
		return nil, nil, storeError("get deposit", err)
	}
	if claim == nil {
		unlock()
		return nil, nil, apperror.ErrNotFound("deposit")
	}
	if !claim.IsPending() {
		unlock()
		return nil, nil, apperror.ErrClaimNotPending()
	}
	return claim, unlock, nil
}
