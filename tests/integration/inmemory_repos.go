package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"agent-spend-governor/internal/core/domain"
	"agent-spend-governor/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Agent Repo ---

type inMemoryAgentRepo struct {
	mu     sync.RWMutex
	agents map[uuid.UUID]*domain.Agent
}

func newInMemoryAgentRepo() *inMemoryAgentRepo {
	return &inMemoryAgentRepo{agents: make(map[uuid.UUID]*domain.Agent)}
}

func (r *inMemoryAgentRepo) Create(ctx context.Context, a *domain.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.agents {
		if existing.OwnerUsername == a.OwnerUsername {
			return fmt.Errorf("username already exists")
		}
	}
	cp := *a
	r.agents[a.ID] = &cp
	return nil
}

func (r *inMemoryAgentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *inMemoryAgentRepo) GetByUsername(ctx context.Context, username string) (*domain.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.agents {
		if a.OwnerUsername == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryAgentRepo) GetByAccessKey(ctx context.Context, accessKey string) (*domain.Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.agents {
		if a.AccessKey == accessKey {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryAgentRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Agent, error) {
	return r.GetByID(ctx, id)
}

func (r *inMemoryAgentRepo) UpdateGovernanceState(ctx context.Context, tx pgx.Tx, id uuid.UUID, remainingBudget int64, cooldownUntil time.Time, paused bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.agents[id]
	if !ok {
		return fmt.Errorf("agent not found")
	}
	a.RemainingBudget = remainingBudget
	a.CooldownUntil = cooldownUntil
	a.Paused = paused
	return nil
}

// --- In-Memory Merchant Repo ---

type inMemoryMerchantRepo struct {
	mu        sync.RWMutex
	merchants map[uuid.UUID]*domain.Merchant
}

func newInMemoryMerchantRepo() *inMemoryMerchantRepo {
	return &inMemoryMerchantRepo{merchants: make(map[uuid.UUID]*domain.Merchant)}
}

func (r *inMemoryMerchantRepo) Create(ctx context.Context, m *domain.Merchant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.merchants[m.ID] = &cp
	return nil
}

func (r *inMemoryMerchantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.merchants[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *inMemoryMerchantRepo) GetEnabledByWallet(ctx context.Context, agentID uuid.UUID, walletAddress string) (*domain.Merchant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.merchants {
		if m.AgentID == agentID && m.WalletAddress == walletAddress && m.Enabled {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryMerchantRepo) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]domain.Merchant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Merchant
	for _, m := range r.merchants {
		if m.AgentID == agentID && m.Enabled {
			result = append(result, *m)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *inMemoryMerchantRepo) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.merchants[id]
	if !ok {
		return fmt.Errorf("merchant not found")
	}
	m.Enabled = enabled
	return nil
}

// --- In-Memory Receipt Repo ---

type inMemoryReceiptRepo struct {
	mu       sync.RWMutex
	receipts []domain.PurchaseReceipt
}

func newInMemoryReceiptRepo() *inMemoryReceiptRepo {
	return &inMemoryReceiptRepo{}
}

func (r *inMemoryReceiptRepo) Create(ctx context.Context, tx pgx.Tx, receipt *domain.PurchaseReceipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.receipts = append(r.receipts, *receipt)
	return nil
}

func (r *inMemoryReceiptRepo) GetByReference(ctx context.Context, agentID uuid.UUID, referenceID string) (*domain.PurchaseReceipt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.receipts {
		if r.receipts[i].AgentID == agentID && r.receipts[i].ReferenceID == referenceID {
			cp := r.receipts[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryReceiptRepo) List(ctx context.Context, params ports.ReceiptListParams) ([]domain.PurchaseReceipt, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.PurchaseReceipt
	for i := range r.receipts {
		rc := r.receipts[i]
		if rc.AgentID != params.AgentID {
			continue
		}
		if params.MerchantID != nil && rc.MerchantID != *params.MerchantID {
			continue
		}
		if params.From != nil && rc.CreatedAt.Unix() < *params.From {
			continue
		}
		if params.To != nil && rc.CreatedAt.Unix() > *params.To {
			continue
		}
		result = append(result, rc)
	}
	// Newest first
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	total := int64(len(result))

	start := (params.Page - 1) * params.PageSize
	if start >= len(result) {
		return []domain.PurchaseReceipt{}, total, nil
	}
	end := start + params.PageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu      sync.RWMutex
	entries []domain.AuditLog
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{}
}

func (r *inMemoryAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
