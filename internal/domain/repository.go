package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for cash balance persistence.
type AccountRepository interface {
	// GetBalance retrieves the current cash balance.
	// Returns ErrBalanceNotFound if the account has not been seeded.
	GetBalance(ctx context.Context) (decimal.Decimal, error)

	// Reset restores the balance to the given amount and clears all
	// holdings and transactions atomically.
	Reset(ctx context.Context, balance decimal.Decimal) error
}

// HoldingRepository defines the interface for open position persistence.
type HoldingRepository interface {
	// List retrieves all open positions.
	List(ctx context.Context) ([]Holding, error)
}

// TransactionRepository defines the interface for ledger persistence.
type TransactionRepository interface {
	// List retrieves the full ledger, newest first.
	List(ctx context.Context) ([]Transaction, error)
}

// TradeRepository executes validated trades against the account.
type TradeRepository interface {
	// Execute atomically applies a trade: it adjusts the cash balance,
	// updates the holding for the symbol (removing it when the position
	// closes to zero) and appends the transaction to the ledger.
	// Returns ErrInsufficientFunds or ErrInsufficientShares when the
	// account cannot cover the trade.
	Execute(ctx context.Context, t *Transaction) error
}
