package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"agent-spend-governor/internal/core/domain"
	"agent-spend-governor/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ReceiptRepo implements ports.ReceiptRepository. The receipts table is
// append-only; there are no update or delete statements.
type ReceiptRepo struct {
	pool Pool
}

// NewReceiptRepo creates a new ReceiptRepo.
func NewReceiptRepo(pool Pool) *ReceiptRepo {
	return &ReceiptRepo{pool: pool}
}

const receiptColumns = `id, agent_id, merchant_id, reference_id, amount, purpose, created_at`

// Create appends a receipt within a database transaction.
func (r *ReceiptRepo) Create(ctx context.Context, tx pgx.Tx, receipt *domain.PurchaseReceipt) error {
	query := `INSERT INTO receipts (` + receiptColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		receipt.ID, receipt.AgentID, receipt.MerchantID, receipt.ReferenceID,
		receipt.Amount, receipt.Purpose, receipt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert receipt: %w", err)
	}
	return nil
}

// GetByReference fetches a receipt by agent ID and reference ID.
// Returns nil, nil when absent.
func (r *ReceiptRepo) GetByReference(ctx context.Context, agentID uuid.UUID, referenceID string) (*domain.PurchaseReceipt, error) {
	query := `SELECT ` + receiptColumns + ` FROM receipts
		WHERE agent_id = $1 AND reference_id = $2`

	receipt := &domain.PurchaseReceipt{}
	err := r.pool.QueryRow(ctx, query, agentID, referenceID).Scan(
		&receipt.ID, &receipt.AgentID, &receipt.MerchantID, &receipt.ReferenceID,
		&receipt.Amount, &receipt.Purpose, &receipt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receipt by reference: %w", err)
	}
	return receipt, nil
}

// List fetches receipts with filtering and pagination, newest first.
func (r *ReceiptRepo) List(ctx context.Context, params ports.ReceiptListParams) ([]domain.PurchaseReceipt, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	conditions = append(conditions, fmt.Sprintf("agent_id = $%d", argIdx))
	args = append(args, params.AgentID)
	argIdx++

	if params.MerchantID != nil {
		conditions = append(conditions, fmt.Sprintf("merchant_id = $%d", argIdx))
		args = append(args, *params.MerchantID)
		argIdx++
	}
	if params.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= to_timestamp($%d)", argIdx))
		args = append(args, *params.From)
		argIdx++
	}
	if params.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= to_timestamp($%d)", argIdx))
		args = append(args, *params.To)
		argIdx++
	}

	where := "WHERE " + strings.Join(conditions, " AND ")

	// Count total
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM receipts %s", where)
	var total int64
	err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count receipts: %w", err)
	}

	// Fetch page
	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT `+receiptColumns+` FROM receipts %s
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	var receipts []domain.PurchaseReceipt
	for rows.Next() {
		rec := domain.PurchaseReceipt{}
		err := rows.Scan(
			&rec.ID, &rec.AgentID, &rec.MerchantID, &rec.ReferenceID,
			&rec.Amount, &rec.Purpose, &rec.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan receipt row: %w", err)
		}
		receipts = append(receipts, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate receipt rows: %w", err)
	}
	return receipts, total, nil
}
