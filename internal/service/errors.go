package service

import (
	"errors"
	"fmt"

	"deposit-reconciler/pkg/apperror"
)

// ErrStaleOutcome marks an approval whose verification no longer matches the
// claim (too old, or the claim was corrected since). Verifying again fixes it.
var ErrStaleOutcome = errors.New("verification outcome is stale")

const maxTransactionIDLen = 128

// lockError maps a ClaimLocker failure to an AppError.
func lockError(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.ErrLockTimeout(err)
}

// storeError maps a repository failure to an AppError, keeping AppErrors intact.
func storeError(op string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.ErrDatabaseError(fmt.Errorf("%s: %w", op, err))
}
