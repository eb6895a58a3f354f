package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agent-spend-governor/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AgentRepo implements ports.AgentRepository.
type AgentRepo struct {
	pool Pool
}

// NewAgentRepo creates a new AgentRepo.
func NewAgentRepo(pool Pool) *AgentRepo {
	return &AgentRepo{pool: pool}
}

const agentColumns = `id, name, owner_username, password_hash, access_key, secret_key_enc,
	remaining_budget, cooldown_until, paused, webhook_url, created_at, updated_at`

// Create inserts a new agent into the database.
func (r *AgentRepo) Create(ctx context.Context, a *domain.Agent) error {
	query := `INSERT INTO agents (` + agentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.Name, a.OwnerUsername, a.PasswordHash, a.AccessKey, a.SecretKeyEnc,
		a.RemainingBudget, a.CooldownUntil, a.Paused, a.WebhookURL,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert agent: %w", err)
	}
	return nil
}

// GetByID fetches an agent by its UUID (without locking).
func (r *AgentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE id = $1`
	return r.scanAgent(r.pool.QueryRow(ctx, query, id))
}

// GetByUsername fetches an agent by its owner's username.
func (r *AgentRepo) GetByUsername(ctx context.Context, username string) (*domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE owner_username = $1`
	return r.scanAgent(r.pool.QueryRow(ctx, query, username))
}

// GetByAccessKey fetches an agent by its API access key.
func (r *AgentRepo) GetByAccessKey(ctx context.Context, accessKey string) (*domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE access_key = $1`
	return r.scanAgent(r.pool.QueryRow(ctx, query, accessKey))
}

// GetByIDForUpdate fetches an agent by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *AgentRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Agent, error) {
	query := `SELECT ` + agentColumns + ` FROM agents WHERE id = $1 FOR UPDATE`
	return r.scanAgent(tx.QueryRow(ctx, query, id))
}

// UpdateGovernanceState writes budget, cooldown deadline and pause flag
// in one statement within a transaction.
func (r *AgentRepo) UpdateGovernanceState(ctx context.Context, tx pgx.Tx, id uuid.UUID, remainingBudget int64, cooldownUntil time.Time, paused bool) error {
	query := `UPDATE agents SET remaining_budget = $1, cooldown_until = $2, paused = $3, updated_at = NOW()
		WHERE id = $4`

	tag, err := tx.Exec(ctx, query, remainingBudget, cooldownUntil, paused, id)
	if err != nil {
		return fmt.Errorf("update governance state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("agent not found: %s", id)
	}
	return nil
}

// scanAgent is a helper to scan a single row into an Agent.
func (r *AgentRepo) scanAgent(row pgx.Row) (*domain.Agent, error) {
	a := &domain.Agent{}
	err := row.Scan(
		&a.ID, &a.Name, &a.OwnerUsername, &a.PasswordHash, &a.AccessKey, &a.SecretKeyEnc,
		&a.RemainingBudget, &a.CooldownUntil, &a.Paused, &a.WebhookURL,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan agent: %w", err)
	}
	return a, nil
}
