package domain

import (
	"time"

	"github.com/google/uuid"
)

// Agent is the autonomous spending principal under governance.
// There is exactly one agent per deployment; every purchase it
// attempts is authorized against this record.
type Agent struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	OwnerUsername   string    `json:"owner_username"`
	PasswordHash    string    `json:"-"` // Owner credential, never expose
	AccessKey       string    `json:"access_key"`
	SecretKeyEnc    string    `json:"-"` // AES-256 encrypted, never expose
	RemainingBudget int64     `json:"remaining_budget"` // In smallest currency unit
	CooldownUntil   time.Time `json:"cooldown_until"`
	Paused          bool      `json:"paused"`
	WebhookURL      *string   `json:"webhook_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// InCooldown reports whether the agent may not transact yet at the given time.
func (a *Agent) InCooldown(now time.Time) bool {
	return now.Before(a.CooldownUntil)
}

// CanAfford reports whether the remaining budget covers the amount.
func (a *Agent) CanAfford(amount int64) bool {
	return amount <= a.RemainingBudget
}
