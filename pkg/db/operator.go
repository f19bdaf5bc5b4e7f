// Package db defines the operator of the reporting PostgreSQL database.
package db

import (
	"context"

	"github.com/fishresearch/trapdb/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operator defines the interface for basic database management operations.
// It manages the connection and exposes the pgxpool.Pool for components
// (SchemaManager, Exporter) that run their own SQL.
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool. It is nil before Connect.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// TruncateTables removes all rows from the given tables.
	TruncateTables(ctx context.Context, tables ...string) error
}
