package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidWorkflowTransition is returned when an event does not apply to
// the workflow's current state.
var ErrInvalidWorkflowTransition = errors.New("invalid workflow transition")

// WorkflowKind is the decision an operator interaction is heading for.
type WorkflowKind string

const (
	WorkflowKindApproval   WorkflowKind = "APPROVAL"
	WorkflowKindRejection  WorkflowKind = "REJECTION"
	WorkflowKindCorrection WorkflowKind = "CORRECTION"
)

// IsValid reports whether k is a known workflow kind.
func (k WorkflowKind) IsValid() bool {
	switch k {
	case WorkflowKindApproval, WorkflowKindRejection, WorkflowKindCorrection:
		return true
	}
	return false
}

// WorkflowState is a node of the per-interaction state machine.
type WorkflowState string

const (
	WorkflowAwaitingProvider     WorkflowState = "AWAITING_PROVIDER"
	WorkflowVerifying            WorkflowState = "VERIFYING"
	WorkflowAwaitingConfirmation WorkflowState = "AWAITING_CONFIRMATION"
	WorkflowCommitting           WorkflowState = "COMMITTING"
	WorkflowCompleted            WorkflowState = "COMPLETED"
	WorkflowCancelled            WorkflowState = "CANCELLED"
	WorkflowFailed               WorkflowState = "FAILED"
)

// IsTerminal returns true for states no event can leave.
func (s WorkflowState) IsTerminal() bool {
	return s == WorkflowCompleted || s == WorkflowCancelled || s == WorkflowFailed
}

// WorkflowEventType identifies an event driving a workflow.
type WorkflowEventType string

const (
	EventProviderSelected WorkflowEventType = "PROVIDER_SELECTED"
	EventOutcomeReceived  WorkflowEventType = "OUTCOME_RECEIVED"
	EventConfirmed        WorkflowEventType = "CONFIRMED"
	EventCancelled        WorkflowEventType = "CANCELLED"
	EventCommitFinished   WorkflowEventType = "COMMIT_FINISHED"
)

// WorkflowEvent is one discrete input to the workflow state machine.
type WorkflowEvent struct {
	Type     WorkflowEventType
	Provider ProviderChoice       // ProviderSelected
	Outcome  *VerificationOutcome // OutcomeReceived on success
	Claimant *ClaimantSnapshot    // OutcomeReceived on success
	Err      error                // OutcomeReceived / CommitFinished on failure
	Conflict bool                 // CommitFinished: claim no longer pending
}

// Workflow is one operator interaction with one claim: propose, confirm,
// dispatch, then commit or cancel.
type Workflow struct {
	ID               uuid.UUID            `json:"id"`
	DepositID        uuid.UUID            `json:"deposit_id"`
	Kind             WorkflowKind         `json:"kind"`
	State            WorkflowState        `json:"state"`
	OperatorID       string               `json:"operator_id,omitempty"`
	Provider         ProviderChoice       `json:"provider,omitempty"`
	NewTransactionID string               `json:"new_transaction_id,omitempty"`
	Outcome          *VerificationOutcome `json:"outcome,omitempty"`
	Claimant         *ClaimantSnapshot    `json:"claimant,omitempty"`
	LastError        string               `json:"last_error,omitempty"`
	Attempt          int                  `json:"attempt"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// NewWorkflow creates a workflow in the initial state for its kind.
func NewWorkflow(depositID uuid.UUID, kind WorkflowKind, operatorID string, now time.Time) *Workflow {
	state := WorkflowAwaitingConfirmation
	if kind == WorkflowKindApproval {
		state = WorkflowAwaitingProvider
	}
	return &Workflow{
		ID:         uuid.New(),
		DepositID:  depositID,
		Kind:       kind,
		State:      state,
		OperatorID: operatorID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Apply advances the workflow by one event.
func (w *Workflow) Apply(ev WorkflowEvent, now time.Time) error {
	if ev.Type == EventCancelled {
		if w.State.IsTerminal() {
			return w.invalid(ev)
		}
		w.State = WorkflowCancelled
		w.UpdatedAt = now
		return nil
	}

	switch w.State {
	case WorkflowAwaitingProvider:
		if ev.Type != EventProviderSelected {
			return w.invalid(ev)
		}
		w.startVerification(ev.Provider)

	case WorkflowVerifying:
		if ev.Type != EventOutcomeReceived {
			return w.invalid(ev)
		}
		if ev.Err != nil || ev.Outcome == nil {
			w.State = WorkflowAwaitingProvider
			w.LastError = errorText(ev.Err, "verification failed")
			break
		}
		w.Outcome = ev.Outcome
		w.Claimant = ev.Claimant
		w.LastError = ""
		w.State = WorkflowAwaitingConfirmation

	case WorkflowAwaitingConfirmation:
		switch {
		case ev.Type == EventConfirmed:
			if w.Kind == WorkflowKindApproval && w.Outcome == nil {
				return w.invalid(ev)
			}
			w.State = WorkflowCommitting
		case ev.Type == EventProviderSelected && w.Kind == WorkflowKindApproval:
			w.startVerification(ev.Provider)
		default:
			return w.invalid(ev)
		}

	case WorkflowCommitting:
		if ev.Type != EventCommitFinished {
			return w.invalid(ev)
		}
		switch {
		case ev.Err == nil:
			w.State = WorkflowCompleted
			w.LastError = ""
		case ev.Conflict:
			w.State = WorkflowFailed
			w.LastError = ev.Err.Error()
		default:
			w.State = WorkflowAwaitingConfirmation
			w.LastError = ev.Err.Error()
		}

	default:
		return w.invalid(ev)
	}

	w.UpdatedAt = now
	return nil
}

// DropOutcome forgets a held verification result, forcing a fresh verify.
func (w *Workflow) DropOutcome(reason string) {
	if w.Kind != WorkflowKindApproval || w.Outcome == nil {
		return
	}
	w.Outcome = nil
	w.Claimant = nil
	w.LastError = reason
	if w.State == WorkflowAwaitingConfirmation {
		w.State = WorkflowAwaitingProvider
	}
}

func (w *Workflow) startVerification(p ProviderChoice) {
	w.Provider = p
	w.Outcome = nil
	w.Claimant = nil
	w.LastError = ""
	w.Attempt++
	w.State = WorkflowVerifying
}

func (w *Workflow) invalid(ev WorkflowEvent) error {
	return fmt.Errorf("%w: %s in state %s", ErrInvalidWorkflowTransition, ev.Type, w.State)
}

func errorText(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	return err.Error()
}
