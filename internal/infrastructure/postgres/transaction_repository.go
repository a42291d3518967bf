package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bibbank/bib/services/credit-risk-service/internal/domain/model"
)

// TransactionRepository implements port.TransactionSource using PostgreSQL.
type TransactionRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewTransactionRepository creates a PostgreSQL-backed transaction source.
func NewTransactionRepository(pool *pgxpool.Pool, logger *slog.Logger) *TransactionRepository {
	return &TransactionRepository{pool: pool, logger: logger}
}

// LoadAll materializes the full transaction table, ordered by occurrence
// time so batch runs are deterministic.
func (r *TransactionRepository) LoadAll(ctx context.Context) ([]model.Transaction, error) {
	query := `
		SELECT transaction_id, customer_id, amount, value, occurred_at, product_category, channel_id
		FROM transactions
		ORDER BY occurred_at, transaction_id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		var (
			txn        model.Transaction
			amount     decimal.Decimal
			value      decimal.Decimal
			occurredAt time.Time
		)
		if err := rows.Scan(&txn.ID, &txn.CustomerID, &amount, &value, &occurredAt, &txn.ProductCategory, &txn.ChannelID); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txn.Amount = amount
		txn.Value = value
		txn.Timestamp = occurredAt
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	r.logger.Info("raw transactions loaded", slog.Int("rows", len(txns)))
	return txns, nil
}
