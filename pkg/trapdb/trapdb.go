// Package trapdb defines the high-level components behind trapdb
// commands. Implementations live in internal/ packages and receive their
// store or database handle at construction.
package trapdb

import (
	"context"

	"github.com/fishresearch/trapdb/pkg/migration"
	"github.com/fishresearch/trapdb/pkg/report"
	"github.com/fishresearch/trapdb/pkg/sample"
)

// Migrator rewrites sample records into the target generation.
// Configuration is provided during construction.
type Migrator interface {
	// Migrate connects to the store, classifies every record of the
	// plan's source collection, and previews or commits the
	// transformation. The returned report is not nil when the run got
	// past classification, even if an error is returned.
	Migrate(ctx context.Context, mode migration.Mode) (*migration.Report, error)
}

// Census counts records per generation without changing anything.
type Census interface {
	// Classify returns classified records of a collection.
	Classify(ctx context.Context, coll string) ([]sample.Sample, error)
}

// Reporter calculates season totals over Merged and Legacy records.
type Reporter interface {
	// Totals returns sums of counts for records inside the date range.
	Totals(ctx context.Context, r report.Range) (*report.Totals, error)
}

// SchemaManager creates and updates tables of the reporting database.
// It uses GORM AutoMigrate and is safe to run multiple times.
type SchemaManager interface {
	// Migrate creates missing tables and columns.
	Migrate(ctx context.Context) error
}

// Exporter copies Merged and Legacy records into the reporting database.
type Exporter interface {
	// Export copies records and returns the number of exported samples.
	Export(ctx context.Context) (int, error)
}
