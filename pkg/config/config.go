// Package config provides configuration management for trapdb.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Mongo: uri, database, collection, legacy_collection, timeout
//   - Postgres: host, port, user, password, database, ssl_mode, batch_size
//   - Migrate: commit_delay, backup, fail_fast
//   - Log: level, format, destination
//
// Runtime-only fields (CLI flags only):
//   - Migrate.Plan, Migrate.IncludeLegacy (per-command)
//   - HomeDir (set once at startup)
//
// A MongoDB URI has no default. Commands that need the document store
// check it with RequireMongoURI before connecting.
//
// # Environment Variables
//
// Use TRAPDB_ prefix with underscores for nesting:
//
//	TRAPDB_MONGO_URI=mongodb://localhost:27017/fish
//	TRAPDB_MONGO_DATABASE=fish
//	TRAPDB_MIGRATE_COMMIT_DELAY=5
//	TRAPDB_LOG_LEVEL=info
//
// The variables used by the field applications are honored as well:
// MONGODB_URI (or MONGODB_URI_DEV) and MONGODB_DB (or MONGODB_DB_DEV).
package config

// Config represents the complete trapdb configuration.
type Config struct {
	// Mongo contains the document store settings.
	Mongo MongoConfig `mapstructure:"mongo" yaml:"mongo"`

	// Postgres contains connection settings of the reporting database
	// used by the export command.
	Postgres DatabaseConfig `mapstructure:"postgres" yaml:"postgres"`

	// Migrate contains settings of the migrate command.
	Migrate MigrateConfig `mapstructure:"migrate" yaml:"migrate"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// HomeDir determines where config, backups and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// MongoConfig contains MongoDB connection parameters.
type MongoConfig struct {
	// URI is the MongoDB connection string.
	URI string `mapstructure:"uri" yaml:"uri"`

	// Database overrides the database name given in URI.
	Database string `mapstructure:"database" yaml:"database"`

	// Collection keeps sample records written by the current applications.
	Collection string `mapstructure:"collection" yaml:"collection"`

	// LegacyCollection keeps historical sample records of the first
	// field application.
	LegacyCollection string `mapstructure:"legacy_collection" yaml:"legacy_collection"`

	// Timeout in seconds for connecting to the server.
	Timeout int `mapstructure:"timeout" yaml:"timeout"`
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize is the number of rows sent to PostgreSQL in one COPY.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// MigrateConfig contains settings of the migrate command.
type MigrateConfig struct {
	// Plan is the name of the migration plan: "merge" or "legacy".
	Plan string `mapstructure:"plan" yaml:"plan"`

	// IncludeLegacy makes the merge plan rewrite Legacy records as well.
	// By default historical Legacy records are left untouched.
	IncludeLegacy bool `mapstructure:"include_legacy" yaml:"include_legacy"`

	// CommitDelay is the number of seconds between the commit warning
	// and the first write. Zero means no delay.
	CommitDelay int `mapstructure:"commit_delay" yaml:"commit_delay"`

	// Backup saves original documents to a backup file before they
	// are replaced.
	Backup bool `mapstructure:"backup" yaml:"backup"`

	// FailFast aborts commit on the first failed write. Otherwise failed
	// documents are reported and the rest of the batch is written.
	FailFast bool `mapstructure:"fail_fast" yaml:"fail_fast"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Mongo: MongoConfig{
			Collection:       "Union_Outmigration",
			LegacyCollection: "trap-samples",
			Timeout:          10,
		},
		Postgres: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "trapdb",
			SSLMode:   "disable",
			BatchSize: 5_000,
		},
		Migrate: MigrateConfig{
			Plan:        "merge",
			CommitDelay: 5,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
	}

	return res
}
