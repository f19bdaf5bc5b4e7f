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

	"github.com/fatih/color"
	"github.com/fishresearch/trapdb/pkg/mapping"
	"github.com/gnames/gn"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// getMappingsCmd returns the mappings command.
func getMappingsCmd() *cobra.Command {
	var name string
	var notesOnly bool

	mappingsCmd := &cobra.Command{
		Use:   "mappings",
		Short: "Show field mapping tables",
		Long: `Mappings prints the built-in field mapping tables with their
versions and fingerprints. Entries with notes are assumptions that wait
for review by the field crew; use --notes to print only them.

Examples:
  trapdb mappings
  trapdb mappings --table legacy-to-merged --notes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMappings(name, notesOnly)
		},
	}

	mappingsCmd.Flags().StringVarP(&name, "table", "t", "",
		"show only this table")
	mappingsCmd.Flags().BoolVarP(&notesOnly, "notes", "n", false,
		"show only entries with review notes")
	return mappingsCmd
}

func runMappings(name string, notesOnly bool) error {
	names := []string{name}
	if name == "" {
		var err error
		if names, err = mapping.Names(); err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
	}

	for _, n := range names {
		t, err := mapping.Get(n)
		if err != nil {
			gn.PrintErrorMessage(err)
			return err
		}
		printMapping(os.Stdout, t, notesOnly)
	}
	return nil
}

func printMapping(w io.Writer, t *mapping.Table, notesOnly bool) {
	color.New(color.FgYellow).Fprintf(w, "\n%s v%d (%s -> %s)\n",
		t.Name, t.Version, t.From, t.To)
	fmt.Fprintf(w, "Fingerprint: %s\n", t.Fingerprint())
	if len(t.ComposedOf) > 0 {
		fmt.Fprintf(w, "Composed of: %s\n", strings.Join(t.ComposedOf, ", "))
	}

	entries := t.Entries
	if notesOnly {
		entries = t.ReviewNotes()
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Source", "Target", "Note"})
	table.SetAutoWrapText(true)
	table.SetColWidth(50)
	for _, e := range entries {
		target := e.Target
		if e.Dropped() {
			target = "(dropped)"
		}
		table.Append([]string{e.Source, target, e.Note})
	}
	table.Render()
	fmt.Fprintf(w, "%d entries, %d with notes\n",
		len(t.Entries), len(t.ReviewNotes()))
}
