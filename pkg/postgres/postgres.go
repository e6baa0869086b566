// Package postgres persists solve runs: the status, phase, relaxation
// level, target average, seed and message of each invocation of the core,
// the assignment it produced, and any diagnoses. Settings other than the
// seed, and metrics, are not stored.
// Persistence is optional; the CLI only opens a store when a DSN is
// configured.
package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// DB provides run-store operations on PostgreSQL.
type DB struct {
	pool *pgxpool.Pool
}

// NewDB connects to PostgreSQL and ensures the run-store schema exists.
func NewDB(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the database connection pool.
func (db *DB) Close() {
	db.pool.Close()
}
