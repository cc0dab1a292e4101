// Package httpapi exposes the trading and valuation services as the JSON
// API the browser client consumes.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"papertrade/internal/domain"
	"papertrade/internal/usecase/valuation"
)

// TradingService is the slice of the trading usecase the handlers need.
type TradingService interface {
	Buy(ctx context.Context, symbol string, quantity int64) (*domain.Transaction, error)
	Sell(ctx context.Context, symbol string, quantity int64) (*domain.Transaction, error)
	Account(ctx context.Context) (*domain.AccountSummary, error)
	Transactions(ctx context.Context) ([]domain.Transaction, error)
	Reset(ctx context.Context) error
}

// ValuationService is the slice of the valuation usecase the handlers need.
type ValuationService interface {
	PortfolioHistory(ctx context.Context, mode valuation.Mode) ([]domain.ValuationSnapshot, error)
}

// Handler holds the API's dependencies.
type Handler struct {
	trading   TradingService
	valuation ValuationService
	quotes    domain.QuoteSource
	logger    *slog.Logger
}

// NewHandler creates a new Handler instance.
func NewHandler(trading TradingService, valuationSvc ValuationService, quotes domain.QuoteSource, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		trading:   trading,
		valuation: valuationSvc,
		quotes:    quotes,
		logger:    logger,
	}
}

// RegisterRoutes mounts every endpoint under /api.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	api := r.Group("/api")
	{
		api.POST("/reset", h.Reset)
		api.GET("/account", h.GetAccount)
		api.GET("/transactions", h.ListTransactions)
		api.POST("/buy", h.Buy)
		api.POST("/sell", h.Sell)
		api.GET("/price/:symbol", h.GetPrice)
		api.GET("/history/:symbol", h.GetHistory)
		api.GET("/portfolio/history", h.GetPortfolioHistory)
	}
}

type tradeRequest struct {
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
}

type transactionResponse struct {
	Type     string    `json:"type"`
	Symbol   string    `json:"symbol"`
	Price    float64   `json:"price"`
	Quantity int64     `json:"quantity"`
	Date     time.Time `json:"date"`
}

type pricePointResponse struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

type holdingValueResponse struct {
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
}

type valuationSnapshotResponse struct {
	Date       string                          `json:"date"`
	Holdings   map[string]holdingValueResponse `json:"holdings"`
	TotalValue float64                         `json:"totalValue"`
}

// Reset handles POST /api/reset
func (h *Handler) Reset(c *gin.Context) {
	if err := h.trading.Reset(c.Request.Context()); err != nil {
		h.logger.Error("failed to reset account", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset account."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account has been reset."})
}

// GetAccount handles GET /api/account
func (h *Handler) GetAccount(c *gin.Context) {
	summary, err := h.trading.Account(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to fetch account", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch account data."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"balance":   summary.Balance.InexactFloat64(),
		"portfolio": summary.Portfolio,
	})
}

// ListTransactions handles GET /api/transactions
func (h *Handler) ListTransactions(c *gin.Context) {
	transactions, err := h.trading.Transactions(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list transactions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions."})
		return
	}

	out := make([]transactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		out = append(out, transactionResponse{
			Type:     string(tx.Side),
			Symbol:   tx.Symbol,
			Price:    tx.Price.InexactFloat64(),
			Quantity: tx.Quantity,
			Date:     tx.ExecutedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

// Buy handles POST /api/buy
func (h *Handler) Buy(c *gin.Context) {
	h.trade(c, h.trading.Buy, "Purchase successful.")
}

// Sell handles POST /api/sell
func (h *Handler) Sell(c *gin.Context) {
	h.trade(c, h.trading.Sell, "Sale successful.")
}

func (h *Handler) trade(c *gin.Context, execute func(context.Context, string, int64) (*domain.Transaction, error), message string) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body."})
		return
	}
	if req.Symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid symbol."})
		return
	}
	if req.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity."})
		return
	}

	tx, err := execute(c.Request.Context(), req.Symbol, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientFunds):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient funds."})
		case errors.Is(err, domain.ErrInsufficientShares):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient shares."})
		default:
			h.logger.Error("failed to execute trade", "symbol", req.Symbol, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete trade."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message, "price": tx.Price.InexactFloat64()})
}

// GetPrice handles GET /api/price/:symbol
func (h *Handler) GetPrice(c *gin.Context) {
	symbol := c.Param("symbol")

	quote, err := h.quotes.Quote(c.Request.Context(), symbol)
	if err != nil {
		h.logger.Error("failed to fetch price", "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching price data."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"price": quote.Price.InexactFloat64()})
}

// GetHistory handles GET /api/history/:symbol?period1=...&period2=...&interval=1d
func (h *Handler) GetHistory(c *gin.Context) {
	symbol := c.Param("symbol")

	from, err := dayQuery(c, "period1", domain.NewDay(2020, time.January, 1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	to, err := dayQuery(c, "period2", domain.DayOf(time.Now()))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	interval := c.DefaultQuery("interval", "1d")

	points, err := h.quotes.History(c.Request.Context(), symbol, from, to, interval)
	if err != nil {
		h.logger.Error("failed to fetch history", "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching historical data."})
		return
	}

	quotes := make([]pricePointResponse, 0, len(points))
	for _, p := range points {
		quotes = append(quotes, pricePointResponse{Date: p.Day.String(), Close: p.Close.InexactFloat64()})
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "quotes": quotes})
}

// GetPortfolioHistory handles GET /api/portfolio/history?mode=daily|events
func (h *Handler) GetPortfolioHistory(c *gin.Context) {
	mode, err := valuation.ParseMode(c.DefaultQuery("mode", string(valuation.ModeDaily)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshots, err := h.valuation.PortfolioHistory(c.Request.Context(), mode)
	if err != nil {
		var malformed *domain.MalformedLedgerError
		if errors.As(err, &malformed) {
			h.logger.Error("transaction ledger is malformed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction history is corrupted."})
			return
		}
		h.logger.Error("failed to compute portfolio history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute portfolio history."})
		return
	}

	out := make([]valuationSnapshotResponse, 0, len(snapshots))
	for _, snap := range snapshots {
		holdings := make(map[string]holdingValueResponse, len(snap.Holdings))
		for symbol, hv := range snap.Holdings {
			holdings[symbol] = holdingValueResponse{Quantity: hv.Quantity, Price: hv.Price.InexactFloat64()}
		}
		out = append(out, valuationSnapshotResponse{
			Date:       snap.Date.String(),
			Holdings:   holdings,
			TotalValue: snap.TotalValue.InexactFloat64(),
		})
	}
	c.JSON(http.StatusOK, out)
}

// dayQuery parses an optional YYYY-MM-DD query parameter.
func dayQuery(c *gin.Context, name string, fallback domain.Day) (domain.Day, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return domain.ParseDay(raw)
}
