package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side represents the direction of a trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Transaction represents a single executed trade in the ledger.
// Transactions are immutable once recorded; the ledger is append-only.
// Chronological order is ExecutedAt, with insertion order breaking ties.
type Transaction struct {
	ID         uuid.UUID
	Side       Side
	Symbol     string
	Quantity   int64 // whole shares, always positive
	Price      decimal.Decimal
	ExecutedAt time.Time
}

// Validate ensures the transaction adheres to domain rules.
// Returns an error if validation fails.
func (t *Transaction) Validate() error {
	if t.Side != SideBuy && t.Side != SideSell {
		return errors.New("transaction side must be buy or sell")
	}

	if t.Symbol == "" {
		return errors.New("transaction symbol must not be empty")
	}

	if t.Quantity < 1 {
		return errors.New("transaction quantity must be at least 1")
	}

	if t.Price.LessThanOrEqual(decimal.Zero) {
		return errors.New("transaction price must be positive")
	}

	return nil
}
