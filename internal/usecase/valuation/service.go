package valuation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
)

// Mode selects how valuation snapshots are laid out over time.
type Mode string

const (
	// ModePerEvent produces one snapshot per ledger transaction: a sparse
	// event list.
	ModePerEvent Mode = "events"

	// ModeDaily produces exactly one snapshot per calendar day between the
	// first transaction and today, carrying holdings forward over days with
	// no trades: a continuous series suitable for a daily chart.
	ModeDaily Mode = "daily"
)

// ParseMode validates a mode string from a request.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePerEvent, ModeDaily:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown valuation mode %q", s)
	}
}

// lookbackDays widens the fetched price span before the first transaction,
// so the first holding has a carried-forward price even when it was bought
// on a weekend or holiday.
const lookbackDays = 7

// Service reconstructs historical portfolio value from the transaction
// ledger joined with historical prices. Every call recomputes from scratch;
// nothing is cached across requests.
type Service struct {
	TransactionRepo domain.TransactionRepository
	Quotes          domain.QuoteSource

	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new valuation Service instance.
func NewService(transactionRepo domain.TransactionRepository, quotes domain.QuoteSource, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		TransactionRepo: transactionRepo,
		Quotes:          quotes,
		logger:          logger,
		now:             time.Now,
	}
}

// PortfolioHistory computes the valuation snapshot sequence for the full
// ledger, ordered ascending by date.
// Logic:
//  1. Fold the ledger into holdings snapshots; an empty ledger yields an
//     empty sequence, not an error
//  2. Build the price index for every ledger symbol over the span from the
//     first transaction (minus a lookback margin) through today
//  3. Lay out snapshots per event or per calendar day depending on mode
//  4. Price each held symbol with the most recent close on or before the
//     snapshot date; a symbol with no such price is omitted from that
//     snapshot with a diagnostic, never failing the request
func (s *Service) PortfolioHistory(ctx context.Context, mode Mode) ([]domain.ValuationSnapshot, error) {
	transactions, err := s.TransactionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	// The repository returns the ledger newest first. The fold breaks
	// timestamp ties by input order, so reverse into chronological order
	// first; otherwise two same-instant trades would replay backwards.
	ordered := make([]domain.Transaction, len(transactions))
	for i, tx := range transactions {
		ordered[len(ordered)-1-i] = tx
	}

	history, err := BuildHoldingsHistory(ordered)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return []domain.ValuationSnapshot{}, nil
	}

	firstDay := domain.DayOf(history[0].At)
	today := domain.DayOf(s.now())

	index, err := BuildPriceIndex(ctx, s.Quotes, UniqueSymbols(ordered),
		firstDay.AddDays(-lookbackDays), today)
	if err != nil {
		return nil, err
	}

	var snapshots []domain.ValuationSnapshot
	switch mode {
	case ModePerEvent:
		snapshots = make([]domain.ValuationSnapshot, 0, len(history))
		for _, snap := range history {
			snapshots = append(snapshots, s.valueAt(index, domain.DayOf(snap.At), snap.Holdings))
		}

	case ModeDaily:
		for day, next := firstDay, 0; !day.After(today); day = day.AddDays(1) {
			// Advance to the last holdings snapshot on or before this day.
			for next < len(history) && !domain.DayOf(history[next].At).After(day) {
				next++
			}
			snapshots = append(snapshots, s.valueAt(index, day, history[next-1].Holdings))
		}

	default:
		return nil, fmt.Errorf("unknown valuation mode %q", mode)
	}

	return snapshots, nil
}

// valueAt prices one holdings map on one calendar day.
func (s *Service) valueAt(index *PriceIndex, day domain.Day, holdings map[string]int64) domain.ValuationSnapshot {
	snapshot := domain.ValuationSnapshot{
		Date:       day,
		Holdings:   make(map[string]domain.HoldingValue, len(holdings)),
		TotalValue: decimal.Zero,
	}

	for symbol, quantity := range holdings {
		if quantity == 0 {
			continue
		}

		price, ok := index.AsOf(symbol, day)
		if !ok {
			// Deliberate partial degradation: one missing price must not
			// blank the whole day's valuation.
			s.logger.Warn("no price on or before date, omitting symbol from snapshot",
				"symbol", symbol, "date", day.String())
			continue
		}

		snapshot.Holdings[symbol] = domain.HoldingValue{Quantity: quantity, Price: price}
		snapshot.TotalValue = snapshot.TotalValue.Add(price.Mul(decimal.NewFromInt(quantity)))
	}

	return snapshot
}
