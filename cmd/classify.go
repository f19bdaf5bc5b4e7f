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
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/fishresearch/trapdb/internal/iomongo"
	"github.com/fishresearch/trapdb/internal/ioreport"
	"github.com/fishresearch/trapdb/pkg/sample"
	"github.com/gnames/gn"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// getClassifyCmd returns the classify command.
func getClassifyCmd() *cobra.Command {
	var collection string

	classifyCmd := &cobra.Command{
		Use:   "classify",
		Short: "Count sample records per schema generation",
		Long: `Classify reads all records of a collection and counts them per
generation (legacy, intermediate, merged). Records that cannot be
classified are counted as unknown; records with signals of several
generations are listed. Nothing is written.

Examples:
  trapdb classify
  trapdb classify --collection trap-samples`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, collection)
		},
	}

	classifyCmd.Flags().StringVarP(&collection, "collection", "c", "",
		"collection to classify (default: collection of current records)")
	return classifyCmd
}

func runClassify(_ *cobra.Command, collection string) error {
	if err := requireMongo(); err != nil {
		return err
	}
	if collection == "" {
		collection = cfg.Mongo.Collection
	}

	ctx, stop := commandContext()
	defer stop()

	census := ioreport.NewCensus(cfg, iomongo.NewStore())
	samples, err := census.Classify(ctx, collection)
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	printCensus(os.Stdout, collection, samples)
	return nil
}

func printCensus(w io.Writer, collection string, samples []sample.Sample) {
	count := ioreport.Count(samples)

	color.New(color.FgYellow).Fprintf(w, "\nRecords of %s\n", collection)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Generation", "Records"})
	gens := append([]sample.Generation{}, sample.Generations...)
	gens = append(gens, sample.Unknown)
	for _, g := range gens {
		table.Append([]string{
			g.String(),
			humanize.Comma(int64(count[g])),
		})
	}
	table.SetFooter([]string{"total", humanize.Comma(int64(len(samples)))})
	table.Render()
	fmt.Fprintf(w, "Signals version: %d\n", sample.SignalsVersion)

	conflicts := ioreport.Conflicts(samples)
	if len(conflicts) == 0 {
		return
	}
	color.New(color.FgYellow).Fprintf(w, "\nRecords with conflicting signals\n")
	table = tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Generations"})
	for _, u := range conflicts {
		names := make([]string, len(u.Conflicts))
		for i, g := range u.Conflicts {
			names[i] = g.String()
		}
		table.Append([]string{fmt.Sprint(u.ID()), strings.Join(names, ", ")})
	}
	table.Render()
}
