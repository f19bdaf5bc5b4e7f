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
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/fishresearch/trapdb/internal/iomongo"
	"github.com/fishresearch/trapdb/internal/ioreport"
	"github.com/fishresearch/trapdb/pkg/report"
	"github.com/gnames/gn"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// getTotalsCmd returns the totals command.
func getTotalsCmd() *cobra.Command {
	var start, end string

	totalsCmd := &cobra.Command{
		Use:   "totals",
		Short: "Show season totals of sample records",
		Long: `Totals sums catch, mark, recapture and mortality counts of merged
and historical (legacy) records in a date range. Fields are summed by
name, the same way the field application does it. It also counts days when the trap was not
fishing and lists records with chum DNA samples.

Date range (YYYY-MM-DD, days in local time):
  no dates     the last 30 days, today included
  --start      only that day
  --end        30 days ending with that day
  both         from start to end, both included

Intermediate records are not counted until they are converted; run
'trapdb migrate --commit' first. Records of unknown generation are never
counted, see 'trapdb classify'.

Examples:
  trapdb totals
  trapdb totals --start 2024-03-01 --end 2024-06-30`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTotals(start, end)
		},
	}

	totalsCmd.Flags().StringVarP(&start, "start", "s", "",
		"first day of the range")
	totalsCmd.Flags().StringVarP(&end, "end", "e", "",
		"last day of the range")
	return totalsCmd
}

func runTotals(start, end string) error {
	rng, err := report.ParseRange(start, end, time.Now())
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if err = requireMongo(); err != nil {
		return err
	}

	ctx, stop := commandContext()
	defer stop()

	r := ioreport.NewReporter(cfg, iomongo.NewStore())
	res, err := r.Totals(ctx, rng)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	printTotals(os.Stdout, res)
	return nil
}

func printTotals(w io.Writer, res *report.Totals) {
	yellow := color.New(color.FgYellow)
	yellow.Fprintf(w, "\nTotals from %s to %s\n",
		res.Range.StartDate(), res.Range.EndDate())
	fmt.Fprintf(w, "Records: %s (historical: %s)\n",
		humanize.Comma(int64(res.Records)),
		humanize.Comma(int64(res.Historical)))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Total"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, s := range res.Sums {
		table.Append([]string{s.Field, report.FormatNumber(s.Total)})
	}
	table.Render()

	yellow.Fprintf(w, "\nTrap not fishing: %d\n", res.TrapNotFishing)
	for _, d := range res.NotFishingDates {
		fmt.Fprintf(w, "  %s\n", d.Format(time.DateOnly))
	}

	yellow.Fprintf(w, "\nChum DNA samples: %d records\n", len(res.DNARecords))
	if len(res.DNARecords) > 0 {
		table = tablewriter.NewWriter(w)
		table.SetHeader([]string{"Date", "Chum DNA Taken", "Chum DNA IDs"})
		for _, d := range res.DNARecords {
			ids := ""
			if d.IDs != nil {
				ids = fmt.Sprint(d.IDs)
			}
			table.Append([]string{
				d.Date.Format(time.DateOnly),
				report.FormatNumber(d.Taken),
				ids,
			})
		}
		table.Render()
	}

	if res.NoDate > 0 {
		gn.Warn("<em>%d</em> records have no readable date", res.NoDate)
	}
	if res.Pending > 0 {
		gn.Warn("<em>%d</em> records are not migrated yet and were skipped",
			res.Pending)
	}
}
