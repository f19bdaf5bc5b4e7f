// Package ioschema implements the SchemaManager interface for the
// reporting database. This is an impure I/O package that wraps GORM
// AutoMigrate functionality.
package ioschema

import (
	"context"
	"log/slog"

	"github.com/fishresearch/trapdb/pkg/db"
	"github.com/fishresearch/trapdb/pkg/schema"
	"github.com/fishresearch/trapdb/pkg/trapdb"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// manager implements the trapdb.SchemaManager interface
// using GORM AutoMigrate.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager. The operator must be
// connected before Migrate is called.
func NewManager(op db.Operator) trapdb.SchemaManager {
	return &manager{operator: op}
}

// Migrate creates missing tables and columns of the reporting database.
// Existing data is kept.
func (m *manager) Migrate(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Discard},
	)
	if err != nil {
		return GORMConnectionError(err)
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return MigrateSchemaError(err)
	}

	slog.Info("Reporting schema is up to date",
		"tables", len(schema.AllModels()))
	return nil
}
