package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInsufficientFunds is returned when a buy costs more than the
	// account's cash balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientShares is returned when a sell exceeds the currently
	// held quantity of the symbol.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrBalanceNotFound is returned when the account balance row is missing.
	ErrBalanceNotFound = errors.New("balance not found")
)

// MalformedLedgerError reports a ledger that sells a symbol it does not
// hold, or sells more than it holds. A well-formed ledger can never contain
// such a transaction because oversell is rejected at execution time, so this
// is fatal and not retryable.
type MalformedLedgerError struct {
	Symbol    string
	At        time.Time
	Held      int64
	Requested int64
}

func (e *MalformedLedgerError) Error() string {
	return fmt.Sprintf("malformed ledger: sell of %d %s at %s but only %d held",
		e.Requested, e.Symbol, e.At.Format(time.RFC3339), e.Held)
}

// PriceFetchError reports that the historical price fetch for a symbol
// failed. One failing symbol fails the whole valuation; the caller should
// retry the entire operation.
type PriceFetchError struct {
	Symbol string
	Err    error
}

func (e *PriceFetchError) Error() string {
	return fmt.Sprintf("failed to fetch prices for %s: %v", e.Symbol, e.Err)
}

func (e *PriceFetchError) Unwrap() error {
	return e.Err
}
