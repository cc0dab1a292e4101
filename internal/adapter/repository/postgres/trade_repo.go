package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
)

// tradeRepository implements domain.TradeRepository
type tradeRepository struct {
	db *DB
}

// NewTradeRepository creates a new trade repository
func NewTradeRepository(db *DB) domain.TradeRepository {
	return &tradeRepository{db: db}
}

// Execute applies a trade atomically: balance check and update, holding
// upsert (or delete when the position closes), and ledger append all happen
// in one database transaction, with the balance row locked for the duration.
func (r *tradeRepository) Execute(ctx context.Context, t *domain.Transaction) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	// Lock the balance row so concurrent trades serialize.
	var balanceStr string
	err = dbTx.QueryRowContext(ctx, `SELECT amount FROM balance WHERE id = 1 FOR UPDATE`).Scan(&balanceStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrBalanceNotFound
		}
		return fmt.Errorf("failed to get balance: %w", err)
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return fmt.Errorf("failed to parse balance: %w", err)
	}

	total := t.Price.Mul(decimal.NewFromInt(t.Quantity))

	switch t.Side {
	case domain.SideBuy:
		if balance.LessThan(total) {
			return domain.ErrInsufficientFunds
		}

		updateBalance := `UPDATE balance SET amount = $1 WHERE id = 1`
		if _, err := dbTx.ExecContext(ctx, updateBalance, balance.Sub(total).String()); err != nil {
			return fmt.Errorf("failed to debit balance: %w", err)
		}

		upsertHolding := `
			INSERT INTO holdings (symbol, quantity)
			VALUES ($1, $2)
			ON CONFLICT (symbol) DO UPDATE SET quantity = holdings.quantity + EXCLUDED.quantity
		`
		if _, err := dbTx.ExecContext(ctx, upsertHolding, t.Symbol, t.Quantity); err != nil {
			return fmt.Errorf("failed to update holding: %w", err)
		}

	case domain.SideSell:
		var held int64
		err := dbTx.QueryRowContext(ctx, `SELECT quantity FROM holdings WHERE symbol = $1 FOR UPDATE`, t.Symbol).Scan(&held)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to get holding: %w", err)
		}
		if held < t.Quantity {
			return domain.ErrInsufficientShares
		}

		updateBalance := `UPDATE balance SET amount = $1 WHERE id = 1`
		if _, err := dbTx.ExecContext(ctx, updateBalance, balance.Add(total).String()); err != nil {
			return fmt.Errorf("failed to credit balance: %w", err)
		}

		if held == t.Quantity {
			// Fully closed positions are removed, never kept at zero.
			if _, err := dbTx.ExecContext(ctx, `DELETE FROM holdings WHERE symbol = $1`, t.Symbol); err != nil {
				return fmt.Errorf("failed to close holding: %w", err)
			}
		} else {
			reduceHolding := `UPDATE holdings SET quantity = quantity - $2 WHERE symbol = $1`
			if _, err := dbTx.ExecContext(ctx, reduceHolding, t.Symbol, t.Quantity); err != nil {
				return fmt.Errorf("failed to reduce holding: %w", err)
			}
		}

	default:
		return fmt.Errorf("unknown transaction side %q", t.Side)
	}

	insertTx := `
		INSERT INTO transactions (id, side, symbol, quantity, price, executed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = dbTx.ExecContext(ctx, insertTx,
		t.ID,
		string(t.Side),
		t.Symbol,
		t.Quantity,
		t.Price.String(),
		t.ExecutedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
