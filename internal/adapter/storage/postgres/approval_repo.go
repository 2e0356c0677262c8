package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"deposit-reconciler/internal/core/domain"
	"deposit-reconciler/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// ApprovalRepo implements ports.ApprovalRepository.
type ApprovalRepo struct {
	pool Pool
}

// NewApprovalRepo creates a new ApprovalRepo.
func NewApprovalRepo(pool Pool) *ApprovalRepo {
	return &ApprovalRepo{pool: pool}
}

// Create inserts an approval record. A second record for the same claim
// fails with ports.ErrDuplicateApproval.
func (r *ApprovalRepo) Create(ctx context.Context, rec *domain.ApprovalRecord) error {
	outcome, err := json.Marshal(rec.Outcome)
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}
	claimant, err := json.Marshal(rec.Claimant)
	if err != nil {
		return fmt.Errorf("marshal claimant: %w", err)
	}

	query := `INSERT INTO approval_records (id, deposit_id, outcome, claimant, approved_by, digest, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = conn(ctx, r.pool).Exec(ctx, query,
		rec.ID, rec.DepositID, outcome, claimant, rec.ApprovedBy, rec.Digest, rec.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ports.ErrDuplicateApproval
		}
		return fmt.Errorf("insert approval record: %w", err)
	}
	return nil
}

// GetByDepositID fetches the approval record of a claim.
func (r *ApprovalRepo) GetByDepositID(ctx context.Context, depositID uuid.UUID) (*domain.ApprovalRecord, error) {
	query := `SELECT id, deposit_id, outcome, claimant, approved_by, digest, created_at
		FROM approval_records WHERE deposit_id = $1`

	var outcome, claimant []byte
	rec := &domain.ApprovalRecord{}
	err := conn(ctx, r.pool).QueryRow(ctx, query, depositID).Scan(
		&rec.ID, &rec.DepositID, &outcome, &claimant, &rec.ApprovedBy, &rec.Digest, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get approval record: %w", err)
	}

	if err := json.Unmarshal(outcome, &rec.Outcome); err != nil {
		return nil, fmt.Errorf("decode approval outcome: %w", err)
	}
	if err := json.Unmarshal(claimant, &rec.Claimant); err != nil {
		return nil, fmt.Errorf("decode approval claimant: %w", err)
	}
	return rec, nil
}
