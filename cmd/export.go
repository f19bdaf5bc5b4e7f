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
	"errors"
	"fmt"

	"github.com/fishresearch/trapdb/internal/iodb"
	"github.com/fishresearch/trapdb/internal/ioexport"
	"github.com/fishresearch/trapdb/internal/iomongo"
	"github.com/fishresearch/trapdb/internal/ioschema"
	"github.com/gnames/gn"
	"github.com/gnames/gnlib"
	"github.com/spf13/cobra"
)

// getExportCmd returns the export command.
func getExportCmd() *cobra.Command {
	var force bool

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Copy merged and historical sample records into PostgreSQL",
		Long: `Export copies merged and historical (legacy) sample records into the
PostgreSQL reporting database, where they can be queried with SQL.
Legacy records are renamed with the legacy-to-merged table on the way;
the stored documents are not changed.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Creates or updates tables with GORM AutoMigrate (non-destructive)
  3. Copies merged and legacy records that are not exported yet
  4. Saves a summary row in export_runs

Scalar fields go to the samples table, counts to sample_counts (one row
per sample and field). Intermediate records are skipped until they are
converted; run 'trapdb migrate --commit' first.

Use --force to truncate export tables and copy every record again.

Examples:
  trapdb export
  trapdb export --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(force)
		},
	}

	exportCmd.Flags().BoolVarP(&force, "force", "f", false,
		"truncate export tables before copying")
	return exportCmd
}

func runExport(force bool) error {
	if err := requireMongo(); err != nil {
		return err
	}

	ctx, stop := commandContext()
	defer stop()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Postgres); err != nil {
		printExportError(err)
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Postgres.User, cfg.Postgres.Host,
		cfg.Postgres.Port, cfg.Postgres.Database)

	if err := ioschema.NewManager(op).Migrate(ctx); err != nil {
		printExportError(err)
		return err
	}

	exp := ioexport.New(cfg, iomongo.NewStore(), op,
		ioexport.OptForce(force),
		ioexport.OptProgress(true),
	)
	num, err := exp.Export(ctx)
	if err != nil {
		printExportError(err)
		return err
	}

	msg := gnlib.FormatMessage(`
<em>Export is complete: %d new samples.</em>
Query them in the <em>samples</em> and <em>sample_counts</em> tables.
`,
		[]any{num},
	)
	fmt.Println(msg)
	return nil
}

// printExportError prints coded errors with gn and user messages of the
// exporter with gnlib.
func printExportError(err error) {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		gn.PrintErrorMessage(err)
		return
	}
	gnlib.PrintUserMessage(err)
}
