package dto

import (
	"time"

	"deposit-reconciler/internal/core/domain"
	"deposit-reconciler/internal/core/ports"

	"github.com/shopspring/decimal"
)

const timeFormat = time.RFC3339

// SubmitDepositRequest is the body of POST /deposits, sent by the intake bot.
type SubmitDepositRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id" binding:"required,max=128"`
	ChatID        string          `json:"chat_id" binding:"required,max=64,safe_id" sanitize:"html"`
	Bank          string          `json:"bank" binding:"required,max=50" sanitize:"html"`
}

// VerifyRequest selects the provider for a one-shot verification.
type VerifyRequest struct {
	Provider string `json:"provider" binding:"required,provider"`
}

// StartWorkflowRequest proposes an operator interaction.
type StartWorkflowRequest struct {
	DepositID        string `json:"deposit_id" binding:"required,uuid"`
	Kind             string `json:"kind" binding:"required,oneof=APPROVAL REJECTION CORRECTION"`
	NewTransactionID string `json:"new_transaction_id,omitempty" binding:"max=128"`
}

// SelectProviderRequest is the body of POST /workflows/:id/provider.
type SelectProviderRequest struct {
	Provider string `json:"provider" binding:"required,provider"`
}

// DepositResponse is one claim as shown to operators.
type DepositResponse struct {
	ID            string `json:"id"`
	Amount        string `json:"amount"`
	TransactionID string `json:"transaction_id"`
	ChatID        string `json:"chat_id"`
	Bank          string `json:"bank"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// DepositListResponse wraps the claim listing.
type DepositListResponse struct {
	Deposits []DepositResponse `json:"deposits"`
	Total    int               `json:"total"`
}

// OutcomeResponse is a provider's verification result.
type OutcomeResponse struct {
	Provider          string `json:"provider"`
	Payer             string `json:"payer"`
	PayerAccount      string `json:"payer_account"`
	Receiver          string `json:"receiver"`
	ReceiverAccount   string `json:"receiver_account"`
	TransferredAmount string `json:"transferred_amount"`
	Reference         string `json:"reference"`
	PaymentDate       string `json:"payment_date,omitempty"`
	VerifiedReference string `json:"verified_reference"`
	ObtainedAt        string `json:"obtained_at"`
}

// ClaimantResponse is the claimant snapshot returned with an outcome.
type ClaimantResponse struct {
	ChatID      string `json:"chat_id"`
	Username    string `json:"username"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Balance     string `json:"balance"`
}

// VerificationResponse is the result of a one-shot verification.
type VerificationResponse struct {
	Outcome  OutcomeResponse   `json:"outcome"`
	Claimant *ClaimantResponse `json:"claimant,omitempty"`
}

// ApprovalResponse is the record written when a claim was approved.
type ApprovalResponse struct {
	ID         string           `json:"id"`
	ApprovedBy string           `json:"approved_by,omitempty"`
	Digest     string           `json:"digest"`
	Outcome    OutcomeResponse  `json:"outcome"`
	Claimant   ClaimantResponse `json:"claimant"`
	CreatedAt  string           `json:"created_at"`
}

// DepositDetailsResponse is one claim with its approval record, if any.
type DepositDetailsResponse struct {
	DepositResponse
	Approval *ApprovalResponse `json:"approval,omitempty"`
}

// WorkflowResponse is the state of one operator interaction.
type WorkflowResponse struct {
	ID               string            `json:"id"`
	DepositID        string            `json:"deposit_id"`
	Kind             string            `json:"kind"`
	State            string            `json:"state"`
	Provider         string            `json:"provider,omitempty"`
	NewTransactionID string            `json:"new_transaction_id,omitempty"`
	Outcome          *OutcomeResponse  `json:"outcome,omitempty"`
	Claimant         *ClaimantResponse `json:"claimant,omitempty"`
	LastError        string            `json:"last_error,omitempty"`
	Attempt          int               `json:"attempt"`
	CreatedAt        string            `json:"created_at"`
	UpdatedAt        string            `json:"updated_at"`
}

// ToDepositResponse converts a claim to its DTO.
func ToDepositResponse(d *domain.DepositRequest) DepositResponse {
	return DepositResponse{
		ID:            d.ID.String(),
		Amount:        d.Amount.StringFixed(2),
		TransactionID: d.TransactionID,
		ChatID:        d.ChatID,
		Bank:          d.Bank,
		Status:        string(d.Status),
		CreatedAt:     d.CreatedAt.Format(timeFormat),
		UpdatedAt:     d.UpdatedAt.Format(timeFormat),
	}
}

// ToDepositDetailsResponse converts a claim and its approval record.
func ToDepositDetailsResponse(d *ports.DepositDetails) DepositDetailsResponse {
	resp := DepositDetailsResponse{DepositResponse: ToDepositResponse(&d.Deposit)}
	if a := d.Approval; a != nil {
		resp.Approval = &ApprovalResponse{
			ID:         a.ID.String(),
			ApprovedBy: a.ApprovedBy,
			Digest:     a.Digest,
			Outcome:    ToOutcomeResponse(&a.Outcome),
			Claimant:   ToClaimantResponse(&a.Claimant),
			CreatedAt:  a.CreatedAt.Format(timeFormat),
		}
	}
	return resp
}

// ToOutcomeResponse converts a verification outcome.
func ToOutcomeResponse(o *domain.VerificationOutcome) OutcomeResponse {
	resp := OutcomeResponse{
		Provider:          string(o.Provider),
		Payer:             o.Payer,
		PayerAccount:      o.PayerAccount,
		Receiver:          o.Receiver,
		ReceiverAccount:   o.ReceiverAccount,
		TransferredAmount: o.TransferredAmount.StringFixed(2),
		Reference:         o.Reference,
		VerifiedReference: o.VerifiedReference,
		ObtainedAt:        o.ObtainedAt.Format(timeFormat),
	}
	if !o.PaymentDate.IsZero() {
		resp.PaymentDate = o.PaymentDate.Format(timeFormat)
	}
	return resp
}

// ToClaimantResponse converts a claimant snapshot.
func ToClaimantResponse(c *domain.ClaimantSnapshot) ClaimantResponse {
	return ClaimantResponse{
		ChatID:      c.ChatID,
		Username:    c.Username,
		PhoneNumber: c.PhoneNumber,
		Balance:     c.Balance.StringFixed(2),
	}
}

// ToVerificationResponse converts a dispatcher result.
func ToVerificationResponse(r *ports.VerificationResult) VerificationResponse {
	resp := VerificationResponse{Outcome: ToOutcomeResponse(r.Outcome)}
	if r.Claimant != nil {
		c := ToClaimantResponse(r.Claimant)
		resp.Claimant = &c
	}
	return resp
}

// ToWorkflowResponse converts a workflow snapshot.
func ToWorkflowResponse(wf *domain.Workflow) WorkflowResponse {
	resp := WorkflowResponse{
		ID:               wf.ID.String(),
		DepositID:        wf.DepositID.String(),
		Kind:             string(wf.Kind),
		State:            string(wf.State),
		Provider:         string(wf.Provider),
		NewTransactionID: wf.NewTransactionID,
		LastError:        wf.LastError,
		Attempt:          wf.Attempt,
		CreatedAt:        wf.CreatedAt.Format(timeFormat),
		UpdatedAt:        wf.UpdatedAt.Format(timeFormat),
	}
	if wf.Outcome != nil {
		o := ToOutcomeResponse(wf.Outcome)
		resp.Outcome = &o
	}
	if wf.Claimant != nil {
		c := ToClaimantResponse(wf.Claimant)
		resp.Claimant = &c
	}
	return resp
}
