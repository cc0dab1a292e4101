package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Quote is the current market price of an instrument.
type Quote struct {
	Symbol string
	Price  decimal.Decimal
}

// PricePoint is one daily closing price. Price series are sparse:
// weekends, holidays and provider gaps are simply absent points.
type PricePoint struct {
	Day   Day
	Close decimal.Decimal
}

// QuoteSource provides market data from an external provider.
// Implementations are fallible, rate-limited and latency-bearing; retry
// policy, if any, belongs to the implementation, not to callers.
type QuoteSource interface {
	// Quote returns the current price of a symbol.
	Quote(ctx context.Context, symbol string) (Quote, error)

	// History returns daily closing prices for the closed interval
	// [from, to]. interval defaults to "1d" when empty.
	History(ctx context.Context, symbol string, from, to Day, interval string) ([]PricePoint, error)
}
