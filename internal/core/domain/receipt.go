package domain

import (
	"time"

	"github.com/google/uuid"
)

// PurchaseReceipt is the immutable record of one successful
// authorization. Receipts are append-only and survive merchant
// removal; the journal is the audit trail and the replay-detection
// source for repeated reference IDs.
type PurchaseReceipt struct {
	ID          uuid.UUID `json:"id"`
	AgentID     uuid.UUID `json:"agent_id"`
	MerchantID  uuid.UUID `json:"merchant_id"`
	ReferenceID string    `json:"reference_id"`
	Amount      int64     `json:"amount"` // In smallest currency unit
	Purpose     string    `json:"purpose"`
	CreatedAt   time.Time `json:"created_at"`
}

// BuildReplayKey constructs the cache key for idempotent replay detection.
func BuildReplayKey(agentID uuid.UUID, referenceID string) string {
	return agentID.String() + ":" + referenceID
}
