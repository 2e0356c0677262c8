package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"deposit-reconciler/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const depositColumns = `id, amount, transaction_id, chat_id, bank, status, created_at, updated_at`

// DepositRepo implements ports.DepositRepository.
type DepositRepo struct {
	pool Pool
}

// NewDepositRepo creates a new DepositRepo.
func NewDepositRepo(pool Pool) *DepositRepo {
	return &DepositRepo{pool: pool}
}

// Create inserts a new deposit claim.
func (r *DepositRepo) Create(ctx context.Context, d *domain.DepositRequest) error {
	query := `INSERT INTO deposit_requests (` + depositColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := conn(ctx, r.pool).Exec(ctx, query,
		d.ID, d.Amount, d.TransactionID, d.ChatID, d.Bank, d.Status,
		d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert deposit: %w", err)
	}
	return nil
}

// List returns every claim in insertion order.
func (r *DepositRepo) List(ctx context.Context) ([]domain.DepositRequest, error) {
	query := `SELECT ` + depositColumns + ` FROM deposit_requests ORDER BY seq`

	rows, err := conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list deposits: %w", err)
	}
	defer rows.Close()

	var deposits []domain.DepositRequest
	for rows.Next() {
		d := domain.DepositRequest{}
		if err := rows.Scan(
			&d.ID, &d.Amount, &d.TransactionID, &d.ChatID, &d.Bank, &d.Status,
			&d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan deposit row: %w", err)
		}
		deposits = append(deposits, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deposit rows: %w", err)
	}
	return deposits, nil
}

// GetByID fetches a claim by its UUID.
func (r *DepositRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.DepositRequest, error) {
	query := `SELECT ` + depositColumns + ` FROM deposit_requests WHERE id = $1`

	d := &domain.DepositRequest{}
	err := conn(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Amount, &d.TransactionID, &d.ChatID, &d.Bank, &d.Status,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deposit by id: %w", err)
	}
	return d, nil
}

// UpdateStatus moves the claim from -> to. It reports false when the claim
// was not in from.
func (r *DepositRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.DepositStatus) (bool, error) {
	query := `UPDATE deposit_requests SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`

	tag, err := conn(ctx, r.pool).Exec(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		return false, fmt.Errorf("update deposit status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateTransactionID rewrites the claimed reference of a pending claim.
func (r *DepositRepo) UpdateTransactionID(ctx context.Context, id uuid.UUID, transactionID string) (bool, error) {
	query := `UPDATE deposit_requests SET transaction_id = $1, updated_at = $2 WHERE id = $3 AND status = $4`

	tag, err := conn(ctx, r.pool).Exec(ctx, query,
		transactionID, time.Now().UTC(), id, domain.DepositStatusPendingApproval,
	)
	if err != nil {
		return false, fmt.Errorf("update deposit transaction id: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
