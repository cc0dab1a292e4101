// Package yahoo implements domain.QuoteSource against the Yahoo Finance v8
// chart API, the provider the trading endpoints and the history proxy use.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"papertrade/internal/domain"
)

// DefaultBaseURL is the public Yahoo Finance query host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Yahoo rejects requests with Go's default User-Agent.
const userAgent = "Mozilla/5.0 (compatible; papertrade/1.0)"

// Client fetches quotes and daily price history.
// BaseURL and HTTPClient are overridable for tests.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client against the public Yahoo Finance API.
func NewClient() *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// chartResponse is the subset of the v8 chart payload we read.
//
//	{"chart": {"result": [{"meta": {...}, "timestamp": [...],
//	  "indicators": {"quote": [{"close": [...]}]}}], "error": null}}
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol             string   `json:"symbol"`
		RegularMarketPrice *float64 `json:"regularMarketPrice"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

func (c *Client) chart(ctx context.Context, symbol string, query url.Values) (*chartResult, error) {
	addr := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.BaseURL, url.PathEscape(symbol), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chart for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart request for %s returned status %d", symbol, resp.StatusCode)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode chart for %s: %w", symbol, err)
	}

	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("chart request for %s failed: %s (%s)",
			symbol, payload.Chart.Error.Description, payload.Chart.Error.Code)
	}
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart data for %s", symbol)
	}

	return &payload.Chart.Result[0], nil
}

// Quote returns the current market price from the chart metadata.
func (c *Client) Quote(ctx context.Context, symbol string) (domain.Quote, error) {
	query := url.Values{}
	query.Set("range", "1d")
	query.Set("interval", "1d")

	result, err := c.chart(ctx, symbol, query)
	if err != nil {
		return domain.Quote{}, err
	}

	if result.Meta.RegularMarketPrice == nil {
		return domain.Quote{}, fmt.Errorf("no price data for %s", symbol)
	}

	return domain.Quote{
		Symbol: symbol,
		Price:  decimal.NewFromFloat(*result.Meta.RegularMarketPrice),
	}, nil
}

// History returns daily closing prices over the closed interval [from, to].
// Days the provider has no close for (weekends, holidays, outages) are
// skipped, leaving the series sparse as callers expect.
func (c *Client) History(ctx context.Context, symbol string, from, to domain.Day, interval string) ([]domain.PricePoint, error) {
	if interval == "" {
		interval = "1d"
	}

	query := url.Values{}
	query.Set("period1", fmt.Sprintf("%d", from.Time().Unix()))
	// period2 is exclusive; push it one day past the requested end.
	query.Set("period2", fmt.Sprintf("%d", to.AddDays(1).Time().Unix()))
	query.Set("interval", interval)

	result, err := c.chart(ctx, symbol, query)
	if err != nil {
		return nil, err
	}

	if len(result.Indicators.Quote) == 0 {
		return []domain.PricePoint{}, nil
	}
	closes := result.Indicators.Quote[0].Close

	points := make([]domain.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		points = append(points, domain.PricePoint{
			Day:   domain.DayOf(time.Unix(ts, 0)),
			Close: decimal.NewFromFloat(*closes[i]),
		})
	}

	return points, nil
}
