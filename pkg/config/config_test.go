package config_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/fishresearch/trapdb/pkg/config"
	"github.com/fishresearch/trapdb/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "trapdb"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "trapdb", "logs"),
		},
		{
			msg: "backup dir",
			fn:  config.BackupDir,
			res: filepath.Join(tempHome, ".local", "share", "trapdb", "backups"),
		},
		{
			msg: "config file",
			fn:  config.ConfigFilePath,
			res: filepath.Join(tempHome, ".config", "trapdb", "config.yaml"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()

	t.Run("creates valid default config", func(t *testing.T) {
		require.NotNil(t, cfg)

		// Mongo defaults
		assert.Equal(t, "", cfg.Mongo.URI)
		assert.Equal(t, "", cfg.Mongo.Database)
		assert.Equal(t, "Union_Outmigration", cfg.Mongo.Collection)
		assert.Equal(t, "trap-samples", cfg.Mongo.LegacyCollection)
		assert.Equal(t, 10, cfg.Mongo.Timeout)

		// Postgres defaults
		assert.Equal(t, "localhost", cfg.Postgres.Host)
		assert.Equal(t, 5432, cfg.Postgres.Port)
		assert.Equal(t, "trapdb", cfg.Postgres.Database)
		assert.Equal(t, "disable", cfg.Postgres.SSLMode)
		assert.Equal(t, 5_000, cfg.Postgres.BatchSize)

		// Migrate defaults
		assert.Equal(t, "merge", cfg.Migrate.Plan)
		assert.Equal(t, 5, cfg.Migrate.CommitDelay)
		assert.False(t, cfg.Migrate.IncludeLegacy)
		assert.False(t, cfg.Migrate.Backup)
		assert.False(t, cfg.Migrate.FailFast)

		// Log defaults
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "file", cfg.Log.Destination)
	})
}

func TestOptionMongoURI(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid uri",
			input:    "mongodb://localhost:27017/fish",
			expected: "mongodb://localhost:27017/fish",
		},
		{
			name:     "trims whitespace",
			input:    "  mongodb://db:27017  ",
			expected: "mongodb://db:27017",
		},
		{
			name:     "ignores empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "ignores whitespace-only",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptMongoURI(tt.input)})
			assert.Equal(t, tt.expected, cfg.Mongo.URI)
		})
	}
}

func TestOptionMongoCollection(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptMongoCollection("Union_Outmigration_2025"),
		config.OptMongoLegacyCollection(""),
	})
	assert.Equal(t, "Union_Outmigration_2025", cfg.Mongo.Collection)
	assert.Equal(t, "trap-samples", cfg.Mongo.LegacyCollection,
		"empty legacy collection should keep default")
}

func TestOptionPostgresPort(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{
			name:     "sets valid port",
			input:    6543,
			expected: 6543,
		},
		{
			name:     "ignores zero",
			input:    0,
			expected: 5432,
		},
		{
			name:     "ignores negative",
			input:    -100,
			expected: 5432,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptPostgresPort(tt.input)})
			assert.Equal(t, tt.expected, cfg.Postgres.Port)
		})
	}
}

func TestOptionPostgresSSLMode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sets require", "require", "require"},
		{"sets verify-full", "verify-full", "verify-full"},
		{"normalizes to lowercase", "REQUIRE", "require"},
		{"ignores invalid value", "invalid", "disable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptPostgresSSLMode(tt.input)})
			assert.Equal(t, tt.expected, cfg.Postgres.SSLMode)
		})
	}
}

func TestOptionMigratePlan(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sets merge", "merge", "merge"},
		{"sets legacy", "legacy", "legacy"},
		{"normalizes case", " Legacy ", "legacy"},
		{"ignores unknown plan", "reverse", "merge"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptMigratePlan(tt.input)})
			assert.Equal(t, tt.expected, cfg.Migrate.Plan)
		})
	}
}

func TestOptionMigrateCommitDelay(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"sets delay", 10, 10},
		{"allows zero", 0, 0},
		{"ignores negative", -1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptMigrateCommitDelay(tt.input)})
			assert.Equal(t, tt.expected, cfg.Migrate.CommitDelay)
		})
	}
}

func TestOptionLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sets debug", "debug", "debug"},
		{"sets error", "error", "error"},
		{"normalizes to lowercase", "DEBUG", "debug"},
		{"ignores invalid value", "trace", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptLogLevel(tt.input)})
			assert.Equal(t, tt.expected, cfg.Log.Level)
		})
	}
}

func TestOptionLogDestination(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sets stdout", "stdout", "stdout"},
		{"sets stderr", "stderr", "stderr"},
		{"ignores invalid value", "syslog", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptLogDestination(tt.input)})
			assert.Equal(t, tt.expected, cfg.Log.Destination)
		})
	}
}

func TestMultipleOptions(t *testing.T) {
	t.Run("applies multiple options in order", func(t *testing.T) {
		cfg := config.New()

		opts := []config.Option{
			config.OptMongoURI("mongodb://db:27017"),
			config.OptMongoDatabase("fish"),
			config.OptPostgresHost("reports.local"),
			config.OptLogLevel("debug"),
			config.OptMigrateFailFast(true),
		}

		cfg.Update(opts)

		assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
		assert.Equal(t, "fish", cfg.Mongo.Database)
		assert.Equal(t, "reports.local", cfg.Postgres.Host)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.True(t, cfg.Migrate.FailFast)

		// Unchanged fields keep defaults
		assert.Equal(t, "postgres", cfg.Postgres.Password)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("later options override earlier ones", func(t *testing.T) {
		cfg := config.New()

		cfg.Update([]config.Option{
			config.OptMongoDatabase("first"),
			config.OptMongoDatabase("second"),
		})

		assert.Equal(t, "second", cfg.Mongo.Database)
	})
}

func TestToOptions(t *testing.T) {
	t.Run("converts config to options correctly", func(t *testing.T) {
		original := config.New()
		original.Update([]config.Option{
			config.OptMongoURI("mongodb://db:27017"),
			config.OptMongoDatabase("fish"),
			config.OptMongoCollection("samples"),
			config.OptMongoTimeout(30),
			config.OptPostgresHost("reports.local"),
			config.OptPostgresPort(6543),
			config.OptPostgresSSLMode("require"),
			config.OptPostgresBatchSize(100),
			config.OptMigrateCommitDelay(0),
			config.OptMigrateBackup(true),
			config.OptMigrateFailFast(true),
			config.OptLogLevel("debug"),
			config.OptLogFormat("text"),
			config.OptLogDestination("stdout"),
		})

		newCfg := config.New()
		newCfg.Update(original.ToOptions())

		assert.Equal(t, original.Mongo, newCfg.Mongo)
		assert.Equal(t, original.Postgres, newCfg.Postgres)
		assert.Equal(t, original.Migrate.CommitDelay, newCfg.Migrate.CommitDelay)
		assert.Equal(t, original.Migrate.Backup, newCfg.Migrate.Backup)
		assert.Equal(t, original.Migrate.FailFast, newCfg.Migrate.FailFast)
		assert.Equal(t, original.Log, newCfg.Log)
	})

	t.Run("excludes runtime-only fields", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{
			config.OptHomeDir("/custom/home"),
			config.OptMigratePlan("legacy"),
			config.OptMigrateIncludeLegacy(true),
		})

		newCfg := config.New()
		newCfg.Update(cfg.ToOptions())

		assert.Equal(t, "", newCfg.HomeDir)
		assert.Equal(t, "merge", newCfg.Migrate.Plan)
		assert.False(t, newCfg.Migrate.IncludeLegacy)
	})
}

func TestRequireMongoURI(t *testing.T) {
	cfg := config.New()
	err := cfg.RequireMongoURI()
	require.Error(t, err)

	var gnErr *gn.Error
	require.True(t, errors.As(err, &gnErr))
	assert.Equal(t, errcode.ConfigMissingURIError, gnErr.Code)
	assert.Contains(t, gnErr.Msg, "MONGODB_URI")

	cfg.Update([]config.Option{config.OptMongoURI("mongodb://localhost")})
	assert.NoError(t, cfg.RequireMongoURI())
}
