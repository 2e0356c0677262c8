package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DepositStatus represents the approval lifecycle state of a deposit claim.
type DepositStatus string

const (
	DepositStatusPendingApproval DepositStatus = "PENDING_APPROVAL"
	DepositStatusApproved        DepositStatus = "APPROVED"
	DepositStatusRejected        DepositStatus = "REJECTED"
)

// IsValid reports whether s is one of the known statuses.
func (s DepositStatus) IsValid() bool {
	switch s {
	case DepositStatusPendingApproval, DepositStatusApproved, DepositStatusRejected:
		return true
	}
	return false
}

// DepositRequest is a user-submitted claim that money was deposited through an
// external bank or mobile-money provider.
type DepositRequest struct {
	ID            uuid.UUID       `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id"` // Claimed external reference, mutable while pending
	ChatID        string          `json:"chat_id"`        // Claimant identifier
	Bank          string          `json:"bank"`
	Status        DepositStatus   `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// IsPending returns true while the claim still awaits a decision.
func (d *DepositRequest) IsPending() bool {
	return d.Status == DepositStatusPendingApproval
}

// IsTerminal returns true once the claim was approved or rejected.
func (d *DepositRequest) IsTerminal() bool {
	return d.Status == DepositStatusApproved || d.Status == DepositStatusRejected
}

// CanTransitionTo reports whether the claim may move to the given status.
// Only pending claims move; a pending claim may stay pending (correction).
func (d *DepositRequest) CanTransitionTo(to DepositStatus) bool {
	if !d.IsPending() {
		return false
	}
	return to.IsValid()
}
