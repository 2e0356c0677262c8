package domain

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// ApprovalRecord is the durable audit artifact committed once per approved claim.
type ApprovalRecord struct {
	ID         uuid.UUID           `json:"id"`
	DepositID  uuid.UUID           `json:"deposit_id"`
	Outcome    VerificationOutcome `json:"outcome"`
	Claimant   ClaimantSnapshot    `json:"claimant"`
	ApprovedBy string              `json:"approved_by,omitempty"`
	Digest     string              `json:"digest"` // BLAKE2b-256 over the frozen fields
	CreatedAt  time.Time           `json:"created_at"`
}

// NewApprovalRecord freezes the outcome and snapshot into a record and seals it.
func NewApprovalRecord(depositID uuid.UUID, outcome VerificationOutcome, claimant ClaimantSnapshot, approvedBy string, now time.Time) (*ApprovalRecord, error) {
	rec := &ApprovalRecord{
		ID:         uuid.New(),
		DepositID:  depositID,
		Outcome:    outcome,
		Claimant:   claimant,
		ApprovedBy: approvedBy,
		CreatedAt:  now.UTC(),
	}
	digest, err := rec.computeDigest()
	if err != nil {
		return nil, err
	}
	rec.Digest = digest
	return rec, nil
}

// VerifyDigest reports whether the record still matches its seal.
func (r *ApprovalRecord) VerifyDigest() bool {
	digest, err := r.computeDigest()
	if err != nil {
		return false
	}
	return digest == r.Digest
}

func (r *ApprovalRecord) computeDigest() (string, error) {
	payload, err := json.Marshal(struct {
		ID         uuid.UUID           `json:"id"`
		DepositID  uuid.UUID           `json:"deposit_id"`
		Outcome    VerificationOutcome `json:"outcome"`
		Claimant   ClaimantSnapshot    `json:"claimant"`
		ApprovedBy string              `json:"approved_by"`
		CreatedAt  int64               `json:"created_at"`
	}{r.ID, r.DepositID, r.Outcome, r.Claimant, r.ApprovedBy, r.CreatedAt.UnixMicro()})
	if err != nil {
		return "", fmt.Errorf("marshal approval record: %w", err)
	}
	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
