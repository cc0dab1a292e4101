package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// List retrieves the full ledger, newest first (ties broken by insertion
// order, also newest first)
func (r *transactionRepository) List(ctx context.Context) ([]domain.Transaction, error) {
	query := `
		SELECT id, side, symbol, quantity, price, executed_at
		FROM transactions
		ORDER BY executed_at DESC, seq DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0)
	for rows.Next() {
		var tx domain.Transaction
		var priceStr string

		if err := rows.Scan(&tx.ID, &tx.Side, &tx.Symbol, &tx.Quantity, &priceStr, &tx.ExecutedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse transaction price: %w", err)
		}
		tx.Price = price

		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}
