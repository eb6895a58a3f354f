package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionRegister       AuditAction = "REGISTER"
	AuditActionLogin          AuditAction = "LOGIN"
	AuditActionPurchase       AuditAction = "PURCHASE"
	AuditActionFund           AuditAction = "FUND"
	AuditActionTogglePause    AuditAction = "TOGGLE_PAUSE"
	AuditActionAddMerchant    AuditAction = "ADD_MERCHANT"
	AuditActionRemoveMerchant AuditAction = "REMOVE_MERCHANT"
)

// AuditLog records a single audited action in the system.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	AgentID      *uuid.UUID  `json:"agent_id,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resource_type"`
	ResourceID   string      `json:"resource_id,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ip_address"`
	CreatedAt    time.Time   `json:"created_at"`
}
