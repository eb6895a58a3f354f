package ports

import (
	"context"
	"time"

	"agent-spend-governor/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AgentRepository defines persistence operations for the governed agent.
// Methods accepting pgx.Tx are used inside transaction blocks for
// pessimistic locking of the agent row.
type AgentRepository interface {
	Create(ctx context.Context, agent *domain.Agent) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error)
	GetByUsername(ctx context.Context, username string) (*domain.Agent, error)
	GetByAccessKey(ctx context.Context, accessKey string) (*domain.Agent, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Agent, error)
	// UpdateGovernanceState writes budget, cooldown deadline and pause flag
	// as one statement inside the surrounding transaction.
	UpdateGovernanceState(ctx context.Context, tx pgx.Tx, id uuid.UUID, remainingBudget int64, cooldownUntil time.Time, paused bool) error
}

// MerchantRepository defines persistence operations for the allow-list.
type MerchantRepository interface {
	Create(ctx context.Context, merchant *domain.Merchant) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error)
	// GetEnabledByWallet finds a live (enabled) merchant by wallet address
	// within an agent's allow-list. Returns nil, nil when absent.
	GetEnabledByWallet(ctx context.Context, agentID uuid.UUID, walletAddress string) (*domain.Merchant, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID) ([]domain.Merchant, error)
	SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error
}

// ReceiptRepository defines persistence for the append-only purchase journal.
type ReceiptRepository interface {
	Create(ctx context.Context, tx pgx.Tx, receipt *domain.PurchaseReceipt) error
	GetByReference(ctx context.Context, agentID uuid.UUID, referenceID string) (*domain.PurchaseReceipt, error)
	List(ctx context.Context, params ReceiptListParams) ([]domain.PurchaseReceipt, int64, error)
}

// ReceiptListParams holds filter + pagination for listing receipts.
// Results are ordered newest first.
type ReceiptListParams struct {
	AgentID    uuid.UUID
	MerchantID *uuid.UUID
	From       *int64 // Unix timestamp
	To         *int64 // Unix timestamp
	Page       int
	PageSize   int
}

// AuditRepository defines persistence for audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
