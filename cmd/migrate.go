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
	"github.com/fishresearch/trapdb/internal/iomigrate"
	"github.com/fishresearch/trapdb/internal/iomongo"
	"github.com/fishresearch/trapdb/pkg/config"
	"github.com/fishresearch/trapdb/pkg/migration"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// migrateFlags keeps flags of the migrate command.
type migrateFlags struct {
	dryRun        bool
	commit        bool
	plan          string
	includeLegacy bool
	failFast      bool
	backup        bool
	delay         int
	collection    string
}

// getMigrateCmd returns the migrate command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getMigrateCmd() *cobra.Command {
	var flags migrateFlags

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate sample records to the merged schema",
		Long: `Migrate classifies every sample record and rewrites records of
older generations with the field names of the merged schema.

Exactly one mode is required:
  --dry-run   report what would change and show one transformed record
  --commit    write transformed records

Plans:
  merge   (default) rewrite Intermediate records of the current collection
          in place; Legacy records stay as they are unless --include-legacy
  legacy  copy Legacy records of the legacy collection into the current
          collection with camelCase field names; copied records are skipped
          on the next run

Records with signals of several generations, or without signals, are
never written. They are listed for manual review.

Before the first write --commit waits a few seconds (--delay); press
Ctrl+C to abort.

Examples:
  trapdb migrate --dry-run
  trapdb migrate --commit --backup
  trapdb migrate --commit --plan legacy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, flags)
		},
	}

	fl := migrateCmd.Flags()
	fl.BoolVar(&flags.dryRun, "dry-run", false,
		"report changes without writing")
	fl.BoolVar(&flags.commit, "commit", false,
		"write transformed records")
	fl.StringVarP(&flags.plan, "plan", "p", migration.PlanMerge,
		"migration plan: merge or legacy")
	fl.BoolVar(&flags.includeLegacy, "include-legacy", false,
		"merge plan also rewrites Legacy records")
	fl.BoolVar(&flags.failFast, "fail-fast", false,
		"stop at the first failed write")
	fl.BoolVar(&flags.backup, "backup", false,
		"save original records before replacing them")
	fl.IntVar(&flags.delay, "delay", 5,
		"seconds to wait before the first write")
	fl.StringVarP(&flags.collection, "collection", "c", "",
		"collection of current records")

	return migrateCmd
}

// migrateMode returns the mode selected by flags. It is false when
// neither or both modes are given.
func migrateMode(flags migrateFlags) (migration.Mode, bool) {
	switch {
	case flags.dryRun && !flags.commit:
		return migration.Preview, true
	case flags.commit && !flags.dryRun:
		return migration.Commit, true
	}
	return migration.Preview, false
}

// migrateOptions converts flags that were set to config options.
func migrateOptions(cmd *cobra.Command, flags migrateFlags) []config.Option {
	var res []config.Option
	fl := cmd.Flags()
	if fl.Changed("plan") {
		res = append(res, config.OptMigratePlan(flags.plan))
	}
	if fl.Changed("include-legacy") {
		res = append(res, config.OptMigrateIncludeLegacy(flags.includeLegacy))
	}
	if fl.Changed("fail-fast") {
		res = append(res, config.OptMigrateFailFast(flags.failFast))
	}
	if fl.Changed("backup") {
		res = append(res, config.OptMigrateBackup(flags.backup))
	}
	if fl.Changed("delay") {
		res = append(res, config.OptMigrateCommitDelay(flags.delay))
	}
	if fl.Changed("collection") {
		res = append(res, config.OptMongoCollection(flags.collection))
	}
	return res
}

func runMigrate(cmd *cobra.Command, flags migrateFlags) error {
	mode, ok := migrateMode(flags)
	if !ok {
		gn.Warn("Use exactly one of <em>--dry-run</em> or <em>--commit</em>")
		return cmd.Usage()
	}

	cfg.Update(migrateOptions(cmd, flags))
	if err := requireMongo(); err != nil {
		return err
	}

	ctx, stop := commandContext()
	defer stop()

	backup := iomongo.NewBackup(config.BackupDir(cfg.HomeDir))
	m := iomigrate.New(cfg, iomongo.NewStore(),
		iomigrate.OptBackup(backup),
		iomigrate.OptProgress(mode == migration.Commit),
	)

	rep, err := m.Migrate(ctx, mode)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if mode == migration.Commit && rep.Written > 0 {
		gn.Info("Migration complete: <em>%d</em> records written", rep.Written)
	}
	return nil
}
