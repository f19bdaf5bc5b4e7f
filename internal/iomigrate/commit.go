package iomigrate

import (
	"context"
	"log/slog"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fishresearch/trapdb/pkg/migration"
	"github.com/fishresearch/trapdb/pkg/sample"
	"github.com/gnames/gn"
)

// commit writes transformed records. In-place plans replace whole
// documents by identity, cross-collection plans insert them into the
// target collection. A failed write is recorded in the report; with
// FailFast it stops the run.
func (m *migrator) commit(
	ctx context.Context,
	plan migration.Plan,
	pt migration.Partition,
	rep *migration.Report,
) error {
	items := pt.Transform
	if len(items) == 0 {
		gn.Info("Nothing to migrate, all records are up to date.")
		return nil
	}

	delay := m.cfg.Migrate.CommitDelay
	warnCommit(plan, len(items), delay)
	if err := m.wait(ctx, time.Duration(delay)*time.Second); err != nil {
		return CancelledError(err)
	}

	if m.cfg.Migrate.Backup && plan.InPlace() {
		path, err := m.saveBackup(plan, items)
		if err != nil {
			return err
		}
		rep.BackupFile = path
	}

	var bar *pb.ProgressBar
	if m.progress {
		bar = newProgressBar(len(items), "Writing: ")
		defer bar.Finish()
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return CancelledError(err)
		}

		err := m.write(ctx, plan, item.Result)
		if bar != nil {
			bar.Increment()
		}
		if err == nil {
			rep.Written++
			continue
		}

		id := item.Sample.ID()
		slog.Error("Cannot write record", "id", id, "error", err)
		rep.Failures = append(rep.Failures, migration.Failure{ID: id, Err: err})
		if m.cfg.Migrate.FailFast {
			return WriteError(id, err)
		}
	}

	slog.Info("Records written", "count", rep.Written, "failed", len(rep.Failures))
	return nil
}

func (m *migrator) write(
	ctx context.Context,
	plan migration.Plan,
	rec sample.Record,
) error {
	if plan.InPlace() {
		return m.store.Replace(ctx, plan.Target, rec)
	}
	return m.store.InsertMany(ctx, plan.Target, []sample.Record{rec})
}

func (m *migrator) saveBackup(
	plan migration.Plan,
	items []migration.Item,
) (string, error) {
	if m.backup == nil {
		slog.Warn("Backup requested, but no backup writer is set")
		return "", nil
	}

	originals := make([]sample.Record, len(items))
	for i := range items {
		originals[i] = items[i].Sample.Record()
	}
	path, err := m.backup.Write(plan.Source, originals)
	if err != nil {
		return "", err
	}
	gn.Info("Original records saved to <em>%s</em>", path)
	slog.Info("Backup written", "path", path, "count", len(originals))
	return path, nil
}

// newProgressBar creates a new progress bar with consistent
// settings.
func newProgressBar(total int, prefix string) *pb.ProgressBar {
	bar := pb.Full.Start(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return bar
}
