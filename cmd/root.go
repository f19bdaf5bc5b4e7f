/*
Copyright © 2026 The trapdb Authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fishresearch/trapdb/internal/iofs"
	"github.com/fishresearch/trapdb/internal/iologger"
	trapdb "github.com/fishresearch/trapdb/pkg"
	"github.com/fishresearch/trapdb/pkg/config"
	"github.com/gnames/gn"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir  string
	opts     []config.Option
	cfg      *config.Config
	logClose func() error
)

// getRootCmd returns the root command with all subcommands.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", trapdb.Version, trapdb.Build),
		Use:     "trapdb",
		Short:   "Reconciles fish-trap sample records of the outmigration study",
		Long: `trapdb keeps the fish-trap sample records of the outmigration
study in one schema.

Three generations of field applications wrote sample records with
different field names. trapdb detects the generation of every record,
renames fields to the merged schema and writes the result back.

Commands:
  migrate    preview (--dry-run) or apply (--commit) a migration
  classify   count records per generation
  mappings   show mapping tables and notes for review
  totals     season totals over merged records
  export     copy merged records into the PostgreSQL reporting database

Configuration precedence (highest to lowest):
  1. Command line flags
  2. Environment variables (TRAPDB_*, MONGODB_URI, MONGODB_DB)
  3. .env file in the working directory
  4. Config file (~/.config/trapdb/config.yaml)
  5. Built-in defaults`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "trapdb version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for trapdb")

	rootCmd.AddCommand(
		getMigrateCmd(),
		getClassifyCmd(),
		getMappingsCmd(),
		getTotalsCmd(),
		getExportCmd(),
	)
	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	logClose, err = iologger.Init(config.LogDir(homeDir), defaultLog, false)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// .env is optional
	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Cannot read .env file", "error", err)
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings, keeping bootstrap records
	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"command", cmd.Name(),
	)
	return nil
}

// reconfigureLogging reinitializes the logger with the loaded configuration.
func reconfigureLogging(cfg *config.Config) error {
	if logClose != nil {
		_ = logClose()
	}
	var err error
	logDir := config.LogDir(cfg.HomeDir)
	logClose, err = iologger.Init(logDir, cfg.Log, true)
	return err
}

func runRoot(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := getRootCmd().Execute()
	if logClose != nil {
		_ = logClose()
	}
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Environment variables are bound one by one, so it is clear which of
	// them are allowed. They match the fields of config.ToOptions().
	v.SetEnvPrefix("TRAPDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// MongoDB, the names used by the field applications come last
	v.BindEnv("mongo.uri", "TRAPDB_MONGO_URI", "MONGODB_URI", "MONGODB_URI_DEV")
	v.BindEnv("mongo.database", "TRAPDB_MONGO_DATABASE", "MONGODB_DB", "MONGODB_DB_DEV")
	v.BindEnv("mongo.collection", "TRAPDB_MONGO_COLLECTION")
	v.BindEnv("mongo.legacy_collection", "TRAPDB_MONGO_LEGACY_COLLECTION")
	v.BindEnv("mongo.timeout", "TRAPDB_MONGO_TIMEOUT")

	// PostgreSQL reporting database
	v.BindEnv("postgres.host", "TRAPDB_POSTGRES_HOST")
	v.BindEnv("postgres.port", "TRAPDB_POSTGRES_PORT")
	v.BindEnv("postgres.user", "TRAPDB_POSTGRES_USER")
	v.BindEnv("postgres.password", "TRAPDB_POSTGRES_PASSWORD")
	v.BindEnv("postgres.database", "TRAPDB_POSTGRES_DATABASE")
	v.BindEnv("postgres.ssl_mode", "TRAPDB_POSTGRES_SSL_MODE")
	v.BindEnv("postgres.batch_size", "TRAPDB_POSTGRES_BATCH_SIZE")

	// Migration
	v.BindEnv("migrate.commit_delay", "TRAPDB_MIGRATE_COMMIT_DELAY")
	v.BindEnv("migrate.backup", "TRAPDB_MIGRATE_BACKUP")
	v.BindEnv("migrate.fail_fast", "TRAPDB_MIGRATE_FAIL_FAST")

	// Log configuration
	v.BindEnv("log.level", "TRAPDB_LOG_LEVEL")
	v.BindEnv("log.format", "TRAPDB_LOG_FORMAT")
	v.BindEnv("log.destination", "TRAPDB_LOG_DESTINATION")

	v.AutomaticEnv()
}

// commandContext is cancelled by Ctrl+C or SIGTERM.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
}

// requireMongo checks that a MongoDB connection string is configured.
func requireMongo() error {
	if err := cfg.RequireMongoURI(); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	return nil
}
