package ports

import (
	"context"
	"errors"

	"deposit-reconciler/internal/core/domain"

	"github.com/google/uuid"
)

// ErrDuplicateApproval is returned when a claim already has an approval record.
var ErrDuplicateApproval = errors.New("approval record already exists for deposit")

//go:generate mockgen -source=repositories.go -destination=mocks/repositories_mock.go -package=mocks

// DepositRepository is the persistence boundary of the Deposit Registry.
// Conditional writes return false when the claim was not in the expected state.
type DepositRepository interface {
	Create(ctx context.Context, deposit *domain.DepositRequest) error
	// List returns every claim in insertion order.
	List(ctx context.Context) ([]domain.DepositRequest, error)
	// GetByID returns nil, nil when the claim does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DepositRequest, error)
	// UpdateStatus moves the claim from -> to only if it is currently in from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.DepositStatus) (bool, error)
	// UpdateTransactionID rewrites the claimed reference only while pending.
	UpdateTransactionID(ctx context.Context, id uuid.UUID, transactionID string) (bool, error)
}

// ApprovalRepository stores approval records, at most one per claim.
type ApprovalRepository interface {
	// Create returns ErrDuplicateApproval when the claim already has a record.
	Create(ctx context.Context, record *domain.ApprovalRecord) error
	// GetByDepositID returns nil, nil when the claim has no record.
	GetByDepositID(ctx context.Context, depositID uuid.UUID) (*domain.ApprovalRecord, error)
}

// AuditRepository persists operator audit entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// Transactor runs a unit of work atomically. Repositories called with the
// context passed to fn take part in the same transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ClaimLocker grants exclusive access to one claim at a time.
type ClaimLocker interface {
	// Lock blocks until the claim is held or ctx ends. The returned func releases it.
	Lock(ctx context.Context, depositID uuid.UUID) (unlock func(), err error)
}
