package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"deposit-reconciler/internal/core/domain"
	"deposit-reconciler/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApproval(t *testing.T) *domain.ApprovalRecord {
	t.Helper()
	depositID := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)
	outcome := domain.VerificationOutcome{
		Success:           true,
		Payer:             "Abebe Kebede",
		PayerAccount:      "1000123456789",
		Receiver:          "Casino PLC",
		ReceiverAccount:   "1000987654321",
		TransferredAmount: decimal.RequireFromString("1500"),
		Reference:         "FT24123ABC",
		PaymentDate:       now.Add(-time.Hour),
		DepositID:         depositID,
		Provider:          domain.ProviderSameBank,
		VerifiedReference: "FT24123ABC",
		ObtainedAt:        now,
	}
	claimant := domain.ClaimantSnapshot{ChatID: "chat-42", Username: "abebe", Balance: decimal.RequireFromString("20")}
	rec, err := domain.NewApprovalRecord(depositID, outcome, claimant, "op-1", now)
	require.NoError(t, err)
	return rec
}

func TestApprovalRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewApprovalRepo(mock)
	rec := newTestApproval(t)

	mock.ExpectExec("INSERT INTO approval_records").
		WithArgs(rec.ID, rec.DepositID, pgxmock.AnyArg(), pgxmock.AnyArg(), rec.ApprovedBy, rec.Digest, rec.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), rec)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApprovalRepo_Create_Duplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewApprovalRepo(mock)
	rec := newTestApproval(t)

	mock.ExpectExec("INSERT INTO approval_records").
		WithArgs(rec.ID, rec.DepositID, pgxmock.AnyArg(), pgxmock.AnyArg(), rec.ApprovedBy, rec.Digest, rec.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "approval_records_deposit_id_key"})

	err = repo.Create(context.Background(), rec)
	assert.ErrorIs(t, err, ports.ErrDuplicateApproval)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApprovalRepo_GetByDepositID_RoundTripsDigest(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewApprovalRepo(mock)
	rec := newTestApproval(t)
	outcome, _ := json.Marshal(rec.Outcome)
	claimant, _ := json.Marshal(rec.Claimant)

	mock.ExpectQuery("SELECT .+ FROM approval_records WHERE deposit_id").
		WithArgs(rec.DepositID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "deposit_id", "outcome", "claimant", "approved_by", "digest", "created_at"}).
			AddRow(rec.ID, rec.DepositID, outcome, claimant, rec.ApprovedBy, rec.Digest, rec.CreatedAt))

	result, err := repo.GetByDepositID(context.Background(), rec.DepositID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, rec.Outcome.ReceiverAccount, result.Outcome.ReceiverAccount)
	assert.Equal(t, "abebe", result.Claimant.Username)
	assert.True(t, result.VerifyDigest())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApprovalRepo_GetByDepositID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewApprovalRepo(mock)
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM approval_records WHERE deposit_id").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "deposit_id", "outcome", "claimant", "approved_by", "digest", "created_at"}))

	result, err := repo.GetByDepositID(context.Background(), id)
	assert.NoError(t, err)
	assert.Nil(t, result)
}
