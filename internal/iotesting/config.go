// Package iotesting provides shared test utilities.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"os"
	"testing"

	"github.com/fishresearch/trapdb/pkg/config"
)

const (
	// TestDatabaseName is the database name used by all integration tests,
	// in MongoDB and in PostgreSQL. Tests never run against production
	// databases.
	TestDatabaseName = "trapdb_test"
)

// GetTestConfig returns a configuration suitable for integration tests.
// The MongoDB URI comes from TRAPDB_TEST_MONGO_URI, PostgreSQL settings
// from TRAPDB_TEST_POSTGRES_HOST and TRAPDB_TEST_POSTGRES_PORT (or the
// defaults). Database names are always TestDatabaseName.
//
// Usage in integration tests:
//
//	func TestSomething(t *testing.T) {
//	    cfg := iotesting.GetTestConfig(t)
//	    // ... use cfg for database operations
//	}
func GetTestConfig(t *testing.T) *config.Config {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cfg := config.New()
	opts := []config.Option{
		config.OptMongoURI(os.Getenv("TRAPDB_TEST_MONGO_URI")),
		config.OptMongoDatabase(TestDatabaseName),
		config.OptPostgresHost(os.Getenv("TRAPDB_TEST_POSTGRES_HOST")),
		config.OptPostgresDatabase(TestDatabaseName),
		config.OptMigrateCommitDelay(0),
	}
	cfg.Update(opts)
	return cfg
}

// RequireMongo skips the test when no test MongoDB is configured.
func RequireMongo(t *testing.T, cfg *config.Config) {
	t.Helper()
	if cfg.Mongo.URI == "" {
		t.Skip("TRAPDB_TEST_MONGO_URI is not set")
	}
}

// RequirePostgres skips the test when no test PostgreSQL is configured.
func RequirePostgres(t *testing.T) {
	t.Helper()
	if os.Getenv("TRAPDB_TEST_POSTGRES_HOST") == "" {
		t.Skip("TRAPDB_TEST_POSTGRES_HOST is not set")
	}
}
