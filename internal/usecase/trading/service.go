package trading

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"papertrade/internal/domain"
)

// Service handles trade execution and account queries for the single
// simulated account.
type Service struct {
	AccountRepo     domain.AccountRepository
	HoldingRepo     domain.HoldingRepository
	TransactionRepo domain.TransactionRepository
	TradeRepo       domain.TradeRepository
	Quotes          domain.QuoteSource

	now func() time.Time
}

// NewService creates a new trading Service instance.
func NewService(
	accountRepo domain.AccountRepository,
	holdingRepo domain.HoldingRepository,
	transactionRepo domain.TransactionRepository,
	tradeRepo domain.TradeRepository,
	quotes domain.QuoteSource,
) *Service {
	return &Service{
		AccountRepo:     accountRepo,
		HoldingRepo:     holdingRepo,
		TransactionRepo: transactionRepo,
		TradeRepo:       tradeRepo,
		Quotes:          quotes,
		now:             time.Now,
	}
}

// Buy purchases quantity shares of symbol at the current market price.
// Logic:
//  1. Validate the order input
//  2. Quote the current price
//  3. Execute atomically: debit cash, increase the holding, append to the
//     ledger. Fails with ErrInsufficientFunds when cash cannot cover it.
func (s *Service) Buy(ctx context.Context, symbol string, quantity int64) (*domain.Transaction, error) {
	return s.trade(ctx, domain.SideBuy, symbol, quantity)
}

// Sell sells quantity shares of symbol at the current market price.
// Fails with ErrInsufficientShares when the position cannot cover it;
// rejecting oversell here is what keeps the ledger well-formed for the
// valuation fold.
func (s *Service) Sell(ctx context.Context, symbol string, quantity int64) (*domain.Transaction, error) {
	return s.trade(ctx, domain.SideSell, symbol, quantity)
}

func (s *Service) trade(ctx context.Context, side domain.Side, symbol string, quantity int64) (*domain.Transaction, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, errors.New("symbol must not be empty")
	}
	if quantity < 1 {
		return nil, errors.New("quantity must be at least 1")
	}

	quote, err := s.Quotes.Quote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		ID:         uuid.New(),
		Side:       side,
		Symbol:     symbol,
		Quantity:   quantity,
		Price:      quote.Price,
		ExecutedAt: s.now().UTC(),
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	if err := s.TradeRepo.Execute(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// Account returns the current cash balance and open positions.
func (s *Service) Account(ctx context.Context) (*domain.AccountSummary, error) {
	balance, err := s.AccountRepo.GetBalance(ctx)
	if err != nil {
		return nil, err
	}

	holdings, err := s.HoldingRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	portfolio := make(map[string]int64, len(holdings))
	for _, h := range holdings {
		portfolio[h.Symbol] = h.Quantity
	}

	return &domain.AccountSummary{Balance: balance, Portfolio: portfolio}, nil
}

// Transactions returns the full ledger, newest first.
func (s *Service) Transactions(ctx context.Context) ([]domain.Transaction, error) {
	return s.TransactionRepo.List(ctx)
}

// Reset restores the account to its starting cash balance and clears all
// holdings and transaction history.
func (s *Service) Reset(ctx context.Context) error {
	return s.AccountRepo.Reset(ctx, domain.StartingBalance)
}
