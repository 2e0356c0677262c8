package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"deposit-reconciler/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDeposit() *domain.DepositRequest {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.DepositRequest{
		ID:            uuid.New(),
		Amount:        decimal.RequireFromString("1500.00"),
		TransactionID: "FT24123ABC",
		ChatID:        "chat-42",
		Bank:          "CBE",
		Status:        domain.DepositStatusPendingApproval,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func depositColumnNames() []string {
	return []string{"id", "amount", "transaction_id", "chat_id", "bank", "status", "created_at", "updated_at"}
}

func addDepositRow(rows *pgxmock.Rows, d *domain.DepositRequest) *pgxmock.Rows {
	return rows.AddRow(d.ID, d.Amount, d.TransactionID, d.ChatID, d.Bank, d.Status, d.CreatedAt, d.UpdatedAt)
}

func TestDepositRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDepositRepo(mock)
	d := newTestDeposit()

	mock.ExpectExec("INSERT INTO deposit_requests").
		WithArgs(d.ID, d.Amount, d.TransactionID, d.ChatID, d.Bank, d.Status, d.CreatedAt, d.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), d)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositRepo_List_OrderedBySeq(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDepositRepo(mock)
	first, second := newTestDeposit(), newTestDeposit()
	second.Status = domain.DepositStatusApproved

	rows := pgxmock.NewRows(depositColumnNames())
	addDepositRow(rows, first)
	addDepositRow(rows, second)
	mock.ExpectQuery("SELECT .+ FROM deposit_requests ORDER BY seq").WillReturnRows(rows)

	result, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, first.ID, result[0].ID)
	assert.Equal(t, second.ID, result[1].ID)
	assert.Equal(t, domain.DepositStatusApproved, result[1].Status)
	assert.True(t, first.Amount.Equal(result[0].Amount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDepositRepo(mock)
	d := newTestDeposit()

	mock.ExpectQuery("SELECT .+ FROM deposit_requests WHERE id").
		WithArgs(d.ID).
		WillReturnRows(addDepositRow(pgxmock.NewRows(depositColumnNames()), d))

	result, err := repo.GetByID(context.Background(), d.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, d.TransactionID, result.TransactionID)
	assert.Equal(t, d.ChatID, result.ChatID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDepositRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM deposit_requests WHERE id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(depositColumnNames()))

	result, err := repo.GetByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositRepo_UpdateStatus(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{"claim was pending", 1, true},
		{"claim already decided", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			repo := NewDepositRepo(mock)
			id := uuid.New()

			mock.ExpectExec("UPDATE deposit_requests SET status").
				WithArgs(domain.DepositStatusApproved, pgxmock.AnyArg(), id, domain.DepositStatusPendingApproval).
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))

			ok, err := repo.UpdateStatus(context.Background(), id,
				domain.DepositStatusPendingApproval, domain.DepositStatusApproved)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDepositRepo_UpdateTransactionID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDepositRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE deposit_requests SET transaction_id").
		WithArgs("FT-NEW", pgxmock.AnyArg(), id, domain.DepositStatusPendingApproval).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	ok, err := repo.UpdateTransactionID(context.Background(), id, "FT-NEW")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositRepo_UpdateTransactionID_DBError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDepositRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE deposit_requests SET transaction_id").
		WithArgs("FT-NEW", pgxmock.AnyArg(), id, domain.DepositStatusPendingApproval).
		WillReturnError(errors.New("connection reset"))

	ok, err := repo.UpdateTransactionID(context.Background(), id, "FT-NEW")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "update deposit transaction id")
}
