package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"papertrade/internal/adapter/httpapi"
	"papertrade/internal/adapter/marketdata/yahoo"
	"papertrade/internal/adapter/repository/postgres"
	"papertrade/internal/domain"
	"papertrade/internal/usecase/trading"
	"papertrade/internal/usecase/valuation"
)

const defaultHTTPAddr = ":5001"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 1. Setup Database
	db, err := postgres.NewDB(dbConnectionString())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.InitSchema(ctx, domain.StartingBalance); err != nil {
		logger.Error("failed to initialize schema", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Repositories (Postgres)
	accountRepo := postgres.NewAccountRepository(db)
	holdingRepo := postgres.NewHoldingRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	tradeRepo := postgres.NewTradeRepository(db)

	// 3. Initialize market data provider and Services (Use Cases)
	quotes := yahoo.NewClient()
	tradingService := trading.NewService(accountRepo, holdingRepo, transactionRepo, tradeRepo, quotes)
	valuationService := valuation.NewService(transactionRepo, quotes, logger)

	// 4. Start HTTP Server
	router := gin.Default()
	router.Use(cors.Default())

	handler := httpapi.NewHandler(tradingService, valuationService, quotes, logger)
	handler.RegisterRoutes(router)

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = defaultHTTPAddr
	}

	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	waitForShutdown(srv, logger)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(srv *http.Server, logger *slog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("shutting down gracefully", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("HTTP server stopped")
}

// dbConnectionString builds the connection string from DB_CONN_STR or from
// individual vars (Docker friendly).
func dbConnectionString() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}

	host := os.Getenv("DB_HOST")
	if host == "" {
		host = "localhost" // Default for local run without docker
	}
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}
	user := os.Getenv("DB_USER")
	if user == "" {
		user = "postgres"
	}
	password := os.Getenv("DB_PASSWORD")
	if password == "" {
		password = "postgres"
	}
	dbname := os.Getenv("DB_NAME")
	if dbname == "" {
		dbname = "papertrade"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
}
