package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// HoldingsSnapshot is the state of all open positions immediately after one
// ledger transaction was applied. Symbols with a zero balance are removed,
// never kept as zero entries.
type HoldingsSnapshot struct {
	At       time.Time
	Holdings map[string]int64
}

// HoldingValue is one priced position inside a valuation snapshot.
type HoldingValue struct {
	Quantity int64
	Price    decimal.Decimal
}

// ValuationSnapshot is the portfolio value on one calendar date: every
// priced position and the sum over quantity times price. A symbol without a
// known price on or before the date is omitted from Holdings rather than
// failing the snapshot. TotalValue of an empty holdings set is exactly zero.
type ValuationSnapshot struct {
	Date       Day
	Holdings   map[string]HoldingValue
	TotalValue decimal.Decimal
}
