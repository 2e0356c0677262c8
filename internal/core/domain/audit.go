package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited operator action.
type AuditAction string

const (
	AuditActionVerify  AuditAction = "VERIFY"
	AuditActionApprove AuditAction = "APPROVE"
	AuditActionReject  AuditAction = "REJECT"
	AuditActionCorrect AuditAction = "CORRECT"
	AuditActionCancel  AuditAction = "CANCEL"
)

// AuditLog records a single operator action against a claim.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	OperatorID   string      `json:"operator_id,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
