package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/shopspring/decimal"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=papertrade sslmode=disable"
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// schema creates the three tables the account needs. The seq column on
// transactions preserves insertion order so that timestamp ties replay in
// the order they were executed.
const schema = `
	CREATE TABLE IF NOT EXISTS balance (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		amount DECIMAL(18, 4) NOT NULL
	);

	CREATE TABLE IF NOT EXISTS holdings (
		symbol TEXT PRIMARY KEY,
		quantity BIGINT NOT NULL CHECK (quantity > 0)
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id UUID PRIMARY KEY,
		seq BIGSERIAL UNIQUE,
		side TEXT NOT NULL CHECK (side IN ('buy', 'sell')),
		symbol TEXT NOT NULL,
		quantity BIGINT NOT NULL CHECK (quantity > 0),
		price DECIMAL(18, 4) NOT NULL,
		executed_at TIMESTAMPTZ NOT NULL
	);
`

// InitSchema creates the tables if needed and seeds the single balance row
// with the starting amount. Seeding is idempotent: an existing balance is
// left untouched.
func (db *DB) InitSchema(ctx context.Context, startingBalance decimal.Decimal) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	seedQuery := `
		INSERT INTO balance (id, amount)
		VALUES (1, $1)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := db.ExecContext(ctx, seedQuery, startingBalance.String()); err != nil {
		return fmt.Errorf("failed to seed balance: %w", err)
	}

	return nil
}
