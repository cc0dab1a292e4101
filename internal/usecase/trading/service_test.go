package trading

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"papertrade/internal/domain"
)

// MockAccountRepository is a mock implementation of AccountRepository for testing
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetBalance(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountRepository) Reset(ctx context.Context, balance decimal.Decimal) error {
	args := m.Called(ctx, balance)
	return args.Error(0)
}

// MockHoldingRepository is a mock implementation of HoldingRepository for testing
type MockHoldingRepository struct {
	mock.Mock
}

func (m *MockHoldingRepository) List(ctx context.Context) ([]domain.Holding, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Holding), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepository for testing
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) List(ctx context.Context) ([]domain.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// MockTradeRepository is a mock implementation of TradeRepository for testing
type MockTradeRepository struct {
	mock.Mock
}

func (m *MockTradeRepository) Execute(ctx context.Context, t *domain.Transaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

// MockQuoteSource is a mock implementation of QuoteSource for testing
type MockQuoteSource struct {
	mock.Mock
}

func (m *MockQuoteSource) Quote(ctx context.Context, symbol string) (domain.Quote, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(domain.Quote), args.Error(1)
}

func (m *MockQuoteSource) History(ctx context.Context, symbol string, from, to domain.Day, interval string) ([]domain.PricePoint, error) {
	args := m.Called(ctx, symbol, from, to, interval)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PricePoint), args.Error(1)
}

type testMocks struct {
	account *MockAccountRepository
	holding *MockHoldingRepository
	txs     *MockTransactionRepository
	trades  *MockTradeRepository
	quotes  *MockQuoteSource
}

func newTestService() (*Service, *testMocks) {
	m := &testMocks{
		account: new(MockAccountRepository),
		holding: new(MockHoldingRepository),
		txs:     new(MockTransactionRepository),
		trades:  new(MockTradeRepository),
		quotes:  new(MockQuoteSource),
	}
	svc := NewService(m.account, m.holding, m.txs, m.trades, m.quotes)
	svc.now = func() time.Time {
		return time.Date(2024, time.March, 4, 14, 30, 0, 0, time.UTC)
	}
	return svc, m
}

func TestBuy_StandardFlow(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService()

	price := decimal.NewFromFloat(187.50)
	m.quotes.On("Quote", ctx, "AAPL").Return(domain.Quote{Symbol: "AAPL", Price: price}, nil)
	m.trades.On("Execute", ctx, mock.AnythingOfType("*domain.Transaction")).Return(nil)

	tx, err := svc.Buy(ctx, "aapl", 10)
	require.NoError(t, err)

	assert.Equal(t, domain.SideBuy, tx.Side)
	assert.Equal(t, "AAPL", tx.Symbol, "symbol is normalized to upper case")
	assert.Equal(t, int64(10), tx.Quantity)
	assert.True(t, tx.Price.Equal(price), "trade executes at the quoted price")
	assert.Equal(t, time.Date(2024, time.March, 4, 14, 30, 0, 0, time.UTC), tx.ExecutedAt)

	m.quotes.AssertExpectations(t)
	m.trades.AssertExpectations(t)
}

func TestBuy_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService()

	m.quotes.On("Quote", ctx, "AAPL").Return(domain.Quote{Symbol: "AAPL", Price: decimal.NewFromInt(200)}, nil)
	m.trades.On("Execute", ctx, mock.Anything).Return(domain.ErrInsufficientFunds)

	tx, err := svc.Buy(ctx, "AAPL", 1000)
	assert.Nil(t, tx)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestSell_StandardFlow(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService()

	m.quotes.On("Quote", ctx, "AAPL").Return(domain.Quote{Symbol: "AAPL", Price: decimal.NewFromInt(190)}, nil)
	m.trades.On("Execute", ctx, mock.AnythingOfType("*domain.Transaction")).Return(nil)

	tx, err := svc.Sell(ctx, " AAPL ", 5)
	require.NoError(t, err)
	assert.Equal(t, domain.SideSell, tx.Side)
	assert.Equal(t, "AAPL", tx.Symbol)
}

func TestSell_InsufficientShares(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService()

	m.quotes.On("Quote", ctx, "AAPL").Return(domain.Quote{Symbol: "AAPL", Price: decimal.NewFromInt(190)}, nil)
	m.trades.On("Execute", ctx, mock.Anything).Return(domain.ErrInsufficientShares)

	tx, err := svc.Sell(ctx, "AAPL", 50)
	assert.Nil(t, tx)
	assert.ErrorIs(t, err, domain.ErrInsufficientShares)
}

func TestTrade_RejectsBadInputBeforeQuoting(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService()

	_, err := svc.Buy(ctx, "", 10)
	assert.Error(t, err)

	_, err = svc.Buy(ctx, "   ", 10)
	assert.Error(t, err)

	_, err = svc.Buy(ctx, "AAPL", 0)
	assert.Error(t, err)

	_, err = svc.Sell(ctx, "AAPL", -1)
	assert.Error(t, err)

	// No quote was ever requested for an invalid order.
	m.quotes.AssertNotCalled(t, "Quote", mock.Anything, mock.Anything)
	m.trades.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestTrade_QuoteFailure(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService()

	m.quotes.On("Quote", ctx, "AAPL").Return(domain.Quote{}, errors.New("provider unavailable"))

	tx, err := svc.Buy(ctx, "AAPL", 10)
	assert.Nil(t, tx)
	assert.ErrorContains(t, err, "provider unavailable")
	m.trades.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestAccount_StandardFlow(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService()

	m.account.On("GetBalance", ctx).Return(decimal.NewFromInt(95000), nil)
	m.holding.On("List", ctx).Return([]domain.Holding{
		{Symbol: "AAPL", Quantity: 10},
		{Symbol: "MSFT", Quantity: 3},
	}, nil)

	summary, err := svc.Account(ctx)
	require.NoError(t, err)

	assert.True(t, summary.Balance.Equal(decimal.NewFromInt(95000)))
	assert.Equal(t, map[string]int64{"AAPL": 10, "MSFT": 3}, summary.Portfolio)
}

func TestAccount_BalanceError(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService()

	m.account.On("GetBalance", ctx).Return(decimal.Decimal{}, domain.ErrBalanceNotFound)

	summary, err := svc.Account(ctx)
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, domain.ErrBalanceNotFound)
	m.holding.AssertNotCalled(t, "List", mock.Anything)
}

func TestTransactions_DelegatesToRepository(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService()

	ledger := []domain.Transaction{{Symbol: "AAPL"}}
	m.txs.On("List", ctx).Return(ledger, nil)

	got, err := svc.Transactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, ledger, got)
}

func TestReset_RestoresStartingBalance(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestService()

	m.account.On("Reset", ctx, domain.StartingBalance).Return(nil)

	require.NoError(t, svc.Reset(ctx))
	m.account.AssertExpectations(t)
}
