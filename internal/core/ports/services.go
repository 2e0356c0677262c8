package ports

import (
	"context"
	"time"

	"deposit-reconciler/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=services.go -destination=mocks/services_mock.go -package=mocks

// ProviderRequest is what a provider needs to look up one transfer.
type ProviderRequest struct {
	TransactionReference string
	ClaimantID           string
}

// ProviderResult is a provider's answer. Success=false carries the provider
// message; a malformed response is an error, never a result.
type ProviderResult struct {
	Success  bool
	Message  string
	Outcome  *domain.VerificationOutcome
	Claimant *domain.ClaimantSnapshot
}

// VerifyProvider is one external verification endpoint.
type VerifyProvider interface {
	Choice() domain.ProviderChoice
	Verify(ctx context.Context, req ProviderRequest) (*ProviderResult, error)
}

// VerificationResult is a normalized, successful verification.
type VerificationResult struct {
	Outcome  *domain.VerificationOutcome
	Claimant *domain.ClaimantSnapshot
}

// VerificationDispatcher picks the provider for a claim and validates its answer.
type VerificationDispatcher interface {
	Verify(ctx context.Context, depositID uuid.UUID, choice domain.ProviderChoice) (*VerificationResult, error)
}

// ApproveRequest holds the inputs of an approval commit.
type ApproveRequest struct {
	DepositID  uuid.UUID
	Outcome    *domain.VerificationOutcome
	Claimant   *domain.ClaimantSnapshot
	OperatorID string
}

// ApprovalService commits approvals.
type ApprovalService interface {
	Approve(ctx context.Context, req ApproveRequest) (*domain.ApprovalRecord, error)
}

// RejectionService commits rejections. Callers confirm before calling.
type RejectionService interface {
	Reject(ctx context.Context, depositID uuid.UUID, operatorID string) error
}

// CorrectionService rewrites the claimed reference. Callers confirm before calling.
type CorrectionService interface {
	Correct(ctx context.Context, depositID uuid.UUID, newTransactionID string, operatorID string) error
}

// DepositDetails is one claim plus its approval record, if any.
type DepositDetails struct {
	Deposit  domain.DepositRequest
	Approval *domain.ApprovalRecord
}

// SubmitDepositRequest is a new claim pushed by the intake channel.
type SubmitDepositRequest struct {
	Amount        decimal.Decimal
	TransactionID string
	ChatID        string
	Bank          string
}

// RegistryService reads the Deposit Registry and accepts new claims.
type RegistryService interface {
	Submit(ctx context.Context, req SubmitDepositRequest) (*domain.DepositRequest, error)
	List(ctx context.Context, status *domain.DepositStatus) ([]domain.DepositRequest, error)
	Get(ctx context.Context, id uuid.UUID) (*DepositDetails, error)
}

// StartWorkflowRequest proposes an operator interaction with a claim.
type StartWorkflowRequest struct {
	DepositID        uuid.UUID
	Kind             domain.WorkflowKind
	NewTransactionID string // Correction only
	OperatorID       string
}

// WorkflowController sequences propose, dispatch, confirm and cancel.
type WorkflowController interface {
	Start(ctx context.Context, req StartWorkflowRequest) (*domain.Workflow, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Workflow, error)
	SelectProvider(ctx context.Context, id uuid.UUID, choice domain.ProviderChoice) (*domain.Workflow, error)
	Confirm(ctx context.Context, id uuid.UUID) (*domain.Workflow, error)
	Cancel(ctx context.Context, id uuid.UUID) (*domain.Workflow, error)
}

// AuditService records operator actions.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// TokenService handles operator JWT tokens.
type TokenService interface {
	Generate(operatorID string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	OperatorID string
}
