package valuation

import (
	"fmt"
	"sort"

	"papertrade/internal/domain"
)

// BuildHoldingsHistory folds a transaction ledger into a chronological
// sequence of holdings snapshots, one per transaction.
// Logic:
//  1. Stable-sort a copy of the ledger by execution time (the input is not
//     mutated; ties keep their original insertion order)
//  2. Apply each transaction to a running position map: buys add, sells
//     subtract, and a position that closes to exactly zero is removed
//  3. After each transaction, record a snapshot owning its own copy of the
//     map, so later transactions never alias into earlier snapshots
//
// A sell of a symbol that is not held, or of more than is held, fails with
// MalformedLedgerError: the trading endpoint rejects oversell at execution
// time, so such a ledger can only come from corrupted data.
func BuildHoldingsHistory(transactions []domain.Transaction) ([]domain.HoldingsSnapshot, error) {
	sorted := make([]domain.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ExecutedAt.Before(sorted[j].ExecutedAt)
	})

	history := make([]domain.HoldingsSnapshot, 0, len(sorted))
	holdings := make(map[string]int64)

	for _, tx := range sorted {
		switch tx.Side {
		case domain.SideBuy:
			holdings[tx.Symbol] += tx.Quantity

		case domain.SideSell:
			held := holdings[tx.Symbol]
			if held < tx.Quantity {
				return nil, &domain.MalformedLedgerError{
					Symbol:    tx.Symbol,
					At:        tx.ExecutedAt,
					Held:      held,
					Requested: tx.Quantity,
				}
			}
			if held == tx.Quantity {
				delete(holdings, tx.Symbol)
			} else {
				holdings[tx.Symbol] = held - tx.Quantity
			}

		default:
			return nil, fmt.Errorf("unknown transaction side %q", tx.Side)
		}

		snapshot := make(map[string]int64, len(holdings))
		for symbol, quantity := range holdings {
			snapshot[symbol] = quantity
		}
		history = append(history, domain.HoldingsSnapshot{
			At:       tx.ExecutedAt,
			Holdings: snapshot,
		})
	}

	return history, nil
}

// UniqueSymbols returns every symbol referenced by the ledger, in first
// appearance order.
func UniqueSymbols(transactions []domain.Transaction) []string {
	seen := make(map[string]struct{}, len(transactions))
	symbols := make([]string, 0, len(transactions))
	for _, tx := range transactions {
		if _, ok := seen[tx.Symbol]; ok {
			continue
		}
		seen[tx.Symbol] = struct{}{}
		symbols = append(symbols, tx.Symbol)
	}
	return symbols
}
