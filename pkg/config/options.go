package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptMongoURI sets the MongoDB connection string.
func OptMongoURI(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Mongo URI", s) {
			c.Mongo.URI = s
		}
	}
}

// OptMongoDatabase overrides the database name from the connection string.
func OptMongoDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Mongo Database", s) {
			c.Mongo.Database = s
		}
	}
}

// OptMongoCollection sets the collection of current sample records.
func OptMongoCollection(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Mongo Collection", s) {
			c.Mongo.Collection = s
		}
	}
}

// OptMongoLegacyCollection sets the collection of historical records.
func OptMongoLegacyCollection(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Mongo Legacy Collection", s) {
			c.Mongo.LegacyCollection = s
		}
	}
}

// OptMongoTimeout sets connection timeout in seconds.
func OptMongoTimeout(i int) Option {
	return func(c *Config) {
		if isValidInt("Mongo Timeout", i) {
			c.Mongo.Timeout = i
		}
	}
}

// OptPostgresHost sets the PostgreSQL server hostname or IP address.
func OptPostgresHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Postgres Host", s) {
			c.Postgres.Host = s
		}
	}
}

// OptPostgresPort sets the PostgreSQL server port number.
func OptPostgresPort(i int) Option {
	return func(c *Config) {
		if isValidInt("Postgres Port", i) {
			c.Postgres.Port = i
		}
	}
}

// OptPostgresUser sets the PostgreSQL database username.
func OptPostgresUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Postgres User", s) {
			c.Postgres.User = s
		}
	}
}

// OptPostgresPassword sets the PostgreSQL database password.
func OptPostgresPassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Postgres Password", s) {
			c.Postgres.Password = s
		}
	}
}

// OptPostgresDatabase sets the PostgreSQL database name to connect to.
func OptPostgresDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Postgres Database", s) {
			c.Postgres.Database = s
		}
	}
}

// OptPostgresSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptPostgresSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Postgres.SSLMode", s) {
			c.Postgres.SSLMode = s
		}
	}
}

// OptPostgresBatchSize sets the number of rows per COPY batch.
func OptPostgresBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Postgres.BatchSize = i
		}
	}
}

// OptMigratePlan sets the migration plan.
// Valid values: "merge", "legacy".
// Runtime-only field - not in ToOptions().
func OptMigratePlan(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Migrate.Plan", s) {
			c.Migrate.Plan = s
		}
	}
}

// OptMigrateIncludeLegacy makes the merge plan rewrite Legacy records.
// Runtime-only field - not in ToOptions().
func OptMigrateIncludeLegacy(b bool) Option {
	return func(c *Config) {
		c.Migrate.IncludeLegacy = b
	}
}

// OptMigrateCommitDelay sets the pause in seconds before the first write.
// Zero disables the pause.
func OptMigrateCommitDelay(i int) Option {
	return func(c *Config) {
		if isValidNonNegativeInt("Commit Delay", i) {
			c.Migrate.CommitDelay = i
		}
	}
}

// OptMigrateBackup enables backups of replaced documents.
func OptMigrateBackup(b bool) Option {
	return func(c *Config) {
		c.Migrate.Backup = b
	}
}

// OptMigrateFailFast makes commit stop on the first failed write.
func OptMigrateFailFast(b bool) Option {
	return func(c *Config) {
		c.Migrate.FailFast = b
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptHomeDir sets the home directory for config, backup, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
