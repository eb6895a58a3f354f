package domain

import (
	"time"

	"github.com/google/uuid"
)

// Merchant is an allow-listed counterparty the agent may pay.
// Removal is a soft delete: a disabled merchant is treated as not
// found for new authorizations while past receipts stay valid.
type Merchant struct {
	ID            uuid.UUID `json:"id"`
	AgentID       uuid.UUID `json:"agent_id"`
	Name          string    `json:"name"`
	WalletAddress string    `json:"wallet_address"`
	PerTxLimit    int64     `json:"per_tx_limit"` // In smallest currency unit
	Enabled       bool      `json:"enabled"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Allows reports whether a single purchase of amount is within the
// merchant's per-transaction limit.
func (m *Merchant) Allows(amount int64) bool {
	return amount <= m.PerTxLimit
}
