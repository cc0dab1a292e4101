package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
)

// accountRepository implements domain.AccountRepository
type accountRepository struct {
	db *DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *DB) domain.AccountRepository {
	return &accountRepository{db: db}
}

// GetBalance retrieves the current cash balance
func (r *accountRepository) GetBalance(ctx context.Context) (decimal.Decimal, error) {
	query := `SELECT amount FROM balance WHERE id = 1`

	var amountStr string
	err := r.db.QueryRowContext(ctx, query).Scan(&amountStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Decimal{}, domain.ErrBalanceNotFound
		}
		return decimal.Decimal{}, fmt.Errorf("failed to get balance: %w", err)
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse balance: %w", err)
	}

	return amount, nil
}

// Reset restores the balance and clears holdings and transactions in one
// database transaction
func (r *accountRepository) Reset(ctx context.Context, balance decimal.Decimal) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, `UPDATE balance SET amount = $1 WHERE id = 1`, balance.String()); err != nil {
		return fmt.Errorf("failed to reset balance: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM holdings`); err != nil {
		return fmt.Errorf("failed to clear holdings: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
