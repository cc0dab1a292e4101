package domain

import "github.com/shopspring/decimal"

// StartingBalance is the simulated cash every fresh (or reset) account holds.
var StartingBalance = decimal.NewFromInt(100000)

// Holding represents a currently held position.
// A symbol that has been fully sold has no holding row at all; quantities
// are never zero or negative.
type Holding struct {
	Symbol   string
	Quantity int64
}

// AccountSummary is the current state of the single trading account:
// its cash balance and its open positions keyed by symbol.
type AccountSummary struct {
	Balance   decimal.Decimal
	Portfolio map[string]int64
}
