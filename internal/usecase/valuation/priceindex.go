package valuation

import (
	"context"
	"slices"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"papertrade/internal/domain"
)

// PriceIndex maps each symbol to its sparse series of daily closing prices,
// sorted by date. It is built once per valuation request and never shared
// across requests.
type PriceIndex struct {
	series map[string]*daySeries
}

// daySeries keeps days and closes in two parallel slices sorted ascending
// by day, so lookups can binary-search.
type daySeries struct {
	days   []domain.Day
	closes []decimal.Decimal
}

func newDaySeries(points []domain.PricePoint) *daySeries {
	sorted := make([]domain.PricePoint, len(points))
	copy(sorted, points)
	slices.SortStableFunc(sorted, func(a, b domain.PricePoint) int {
		return a.Day.Compare(b.Day)
	})

	s := &daySeries{
		days:   make([]domain.Day, 0, len(sorted)),
		closes: make([]decimal.Decimal, 0, len(sorted)),
	}
	for _, p := range sorted {
		// Duplicate days keep the last point reported by the provider.
		if n := len(s.days); n > 0 && s.days[n-1].Equal(p.Day) {
			s.closes[n-1] = p.Close
			continue
		}
		s.days = append(s.days, p.Day)
		s.closes = append(s.closes, p.Close)
	}
	return s
}

// BuildPriceIndex fetches daily closing prices for every symbol over the
// closed interval [from, to]. The per-symbol fetches fan out concurrently
// and join all-or-nothing: the first failure cancels the remaining fetches
// and fails the whole build with a PriceFetchError.
func BuildPriceIndex(ctx context.Context, source domain.QuoteSource, symbols []string, from, to domain.Day) (*PriceIndex, error) {
	index := &PriceIndex{series: make(map[string]*daySeries, len(symbols))}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			points, err := source.History(ctx, symbol, from, to, "1d")
			if err != nil {
				return &domain.PriceFetchError{Symbol: symbol, Err: err}
			}
			series := newDaySeries(points)
			mu.Lock()
			index.series[symbol] = series
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return index, nil
}

// AsOf returns the most recent known price for the symbol on or before the
// given day. It returns false when the symbol has no price on or before
// that day at all.
func (idx *PriceIndex) AsOf(symbol string, day domain.Day) (decimal.Decimal, bool) {
	series, ok := idx.series[symbol]
	if !ok {
		return decimal.Decimal{}, false
	}

	i, found := slices.BinarySearchFunc(series.days, day, domain.Day.Compare)
	if found {
		return series.closes[i], true
	}
	// i is the insertion point; the carry-forward price is the entry just
	// before it.
	if i == 0 {
		return decimal.Decimal{}, false
	}
	return series.closes[i-1], true
}
