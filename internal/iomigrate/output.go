package iomigrate

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fishresearch/trapdb/pkg/migration"
	"github.com/fishresearch/trapdb/pkg/sample"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
)

// FormatRecord returns an indented JSON view of a record with fields in
// record order.
func FormatRecord(rec sample.Record) string {
	enc := gnfmt.GNjson{Pretty: true}
	res, err := enc.Encode(rec)
	if err != nil {
		return fmt.Sprintf("%v", []sample.Field(rec))
	}
	return string(res)
}

func (m *migrator) summary(rep *migration.Report) {
	w := m.out
	line := func(label string, n int) {
		fmt.Fprintf(w, "  %-24s %s\n", label+":", humanize.Comma(int64(n)))
	}

	fmt.Fprintf(w, "Migration summary (plan %s, %s)\n", rep.Plan, rep.Mode)
	if rep.Source == rep.Target {
		fmt.Fprintf(w, "  %-24s %s\n", "Collection:", rep.Source)
	} else {
		fmt.Fprintf(w, "  %-24s %s -> %s\n", "Collections:", rep.Source, rep.Target)
	}
	line("Records read", rep.Total)
	line("Already correct", rep.AlreadyCorrect)
	line("Needs transformation", rep.NeedsTransform)
	if rep.Source != rep.Target {
		line("Already copied", rep.AlreadyCopied)
	}
	line("Unknown (review)", len(rep.Unknown))
	if rep.Mode == migration.Commit {
		line("Written", rep.Written)
		line("Failed", len(rep.Failures))
	}
	if rep.BackupFile != "" {
		fmt.Fprintf(w, "  %-24s %s\n", "Backup:", rep.BackupFile)
	}
	for _, t := range rep.Tables {
		fmt.Fprintf(w, "  Table %s v%d (%s)\n", t.Name, t.Version, t.Fingerprint)
	}

	if len(rep.Unknown) > 0 {
		fmt.Fprintln(w, "Records that need manual review:")
		for _, u := range rep.Unknown {
			fmt.Fprintf(w, "  - %v: %s\n", u.ID, unknownReason(u))
		}
	}
	if len(rep.Failures) > 0 {
		fmt.Fprintln(w, "Records that could not be written:")
		for _, f := range rep.Failures {
			fmt.Fprintf(w, "  - %v: %v\n", f.ID, f.Err)
		}
	}

	slog.Info("Migration finished",
		"plan", rep.Plan,
		"mode", rep.Mode.String(),
		"total", rep.Total,
		"already_correct", rep.AlreadyCorrect,
		"needs_transform", rep.NeedsTransform,
		"already_copied", rep.AlreadyCopied,
		"unknown", len(rep.Unknown),
		"written", rep.Written,
		"failed", len(rep.Failures),
		"duration", gnfmt.TimeString(rep.Duration.Seconds()),
	)

	if rep.Mode == migration.Preview {
		gn.Info("Dry run complete. No changes were written.")
	}
}

func unknownReason(u migration.UnknownRecord) string {
	if len(u.Conflicts) > 0 {
		gens := make([]string, len(u.Conflicts))
		for i := range u.Conflicts {
			gens[i] = u.Conflicts[i].String()
		}
		return "conflicting signals of " + strings.Join(gens, ", ")
	}
	if u.Generation != sample.Unknown {
		return u.Generation.String() + " record is not handled by the plan"
	}
	return "no generation signals"
}
