package postgres

import (
	"context"
	"errors"
	"fmt"

	"agent-spend-governor/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MerchantRepo implements ports.MerchantRepository.
type MerchantRepo struct {
	pool Pool
}

// NewMerchantRepo creates a new MerchantRepo.
func NewMerchantRepo(pool Pool) *MerchantRepo {
	return &MerchantRepo{pool: pool}
}

const merchantColumns = `id, agent_id, name, wallet_address, per_tx_limit, enabled, created_at, updated_at`

// Create inserts a new merchant into the allow-list.
func (r *MerchantRepo) Create(ctx context.Context, m *domain.Merchant) error {
	query := `INSERT INTO merchants (` + merchantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		m.ID, m.AgentID, m.Name, m.WalletAddress, m.PerTxLimit, m.Enabled,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert merchant: %w", err)
	}
	return nil
}

// GetByID fetches a merchant by its UUID, enabled or not.
func (r *MerchantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error) {
	query := `SELECT ` + merchantColumns + ` FROM merchants WHERE id = $1`
	return r.scanMerchant(r.pool.QueryRow(ctx, query, id))
}

// GetEnabledByWallet finds a live merchant by wallet address within an
// agent's allow-list. Returns nil, nil when absent.
func (r *MerchantRepo) GetEnabledByWallet(ctx context.Context, agentID uuid.UUID, walletAddress string) (*domain.Merchant, error) {
	query := `SELECT ` + merchantColumns + ` FROM merchants
		WHERE agent_id = $1 AND wallet_address = $2 AND enabled = TRUE`
	return r.scanMerchant(r.pool.QueryRow(ctx, query, agentID, walletAddress))
}

// ListByAgent fetches the enabled merchants of an agent, oldest first.
func (r *MerchantRepo) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]domain.Merchant, error) {
	query := `SELECT ` + merchantColumns + ` FROM merchants
		WHERE agent_id = $1 AND enabled = TRUE ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, agentID)
	if err != nil {
		return nil, fmt.Errorf("list merchants: %w", err)
	}
	defer rows.Close()

	var merchants []domain.Merchant
	for rows.Next() {
		m := domain.Merchant{}
		err := rows.Scan(
			&m.ID, &m.AgentID, &m.Name, &m.WalletAddress, &m.PerTxLimit, &m.Enabled,
			&m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan merchant row: %w", err)
		}
		merchants = append(merchants, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate merchant rows: %w", err)
	}
	return merchants, nil
}

// SetEnabled flips a merchant's enabled flag (soft delete / restore).
func (r *MerchantRepo) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	query := `UPDATE merchants SET enabled = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, enabled, id)
	if err != nil {
		return fmt.Errorf("set merchant enabled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("merchant not found: %s", id)
	}
	return nil
}

// scanMerchant is a helper to scan a single row into a Merchant.
func (r *MerchantRepo) scanMerchant(row pgx.Row) (*domain.Merchant, error) {
	m := &domain.Merchant{}
	err := row.Scan(
		&m.ID, &m.AgentID, &m.Name, &m.WalletAddress, &m.PerTxLimit, &m.Enabled,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan merchant: %w", err)
	}
	return m, nil
}
