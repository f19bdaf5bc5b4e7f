// Package docstore defines the contract of the document database that
// keeps sample records.
package docstore

import (
	"context"

	"github.com/fishresearch/trapdb/pkg/config"
	"github.com/fishresearch/trapdb/pkg/sample"
)

// Store provides the operations the migration driver and the reports
// need from the document database. Implementations keep field order of
// records in both directions.
//
// Connect is called once at start and Close once at the end of a
// command, on success and failure paths alike.
type Store interface {
	// Connect opens a connection and checks it with a ping.
	Connect(context.Context, *config.MongoConfig) error

	// Close releases the connection.
	Close() error

	// Database returns the name of the database in use.
	Database() string

	// CollectionExists checks if a collection exists in the database.
	CollectionExists(ctx context.Context, coll string) (bool, error)

	// FindAll loads every record of a collection into memory.
	FindAll(ctx context.Context, coll string) ([]sample.Record, error)

	// IDs returns identity values of every record of a collection.
	IDs(ctx context.Context, coll string) ([]any, error)

	// Replace replaces the whole document that has the record's identity.
	// It never inserts: a missing document is an error.
	Replace(ctx context.Context, coll string, rec sample.Record) error

	// InsertMany adds records to a collection.
	InsertMany(ctx context.Context, coll string, recs []sample.Record) error
}

// Backup saves original records before they are changed.
type Backup interface {
	// Write saves records and returns the location of the backup.
	Write(coll string, recs []sample.Record) (string, error)
}
