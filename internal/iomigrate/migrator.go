// Package iomigrate implements the Migrator interface: it reads sample
// records from the document store, classifies them, and previews or
// writes their transformation.
// This is an impure I/O package.
package iomigrate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fishresearch/trapdb/pkg/config"
	"github.com/fishresearch/trapdb/pkg/docstore"
	"github.com/fishresearch/trapdb/pkg/migration"
	"github.com/fishresearch/trapdb/pkg/sample"
	"github.com/fishresearch/trapdb/pkg/trapdb"
	"github.com/gnames/gn"
)

// state is a step of a migration run.
type state int

const (
	stConnecting state = iota
	stEnumerating
	stClassifying
	stPreview
	stCommitting
	stReporting
	stDone
)

var stateNames = [...]string{
	"connecting", "enumerating", "classifying",
	"preview", "committing", "reporting", "done",
}

func (s state) String() string {
	return stateNames[s]
}

// migrator implements trapdb.Migrator.
type migrator struct {
	cfg      *config.Config
	store    docstore.Store
	backup   docstore.Backup
	out      io.Writer
	now      func() time.Time
	wait     func(context.Context, time.Duration) error
	progress bool
}

// Option changes optional dependencies of the migrator.
type Option func(*migrator)

// OptBackup sets the backup writer used with Migrate.Backup.
func OptBackup(b docstore.Backup) Option {
	return func(m *migrator) { m.backup = b }
}

// OptOutput sets where previews and summaries are printed.
func OptOutput(w io.Writer) Option {
	return func(m *migrator) { m.out = w }
}

// OptClock sets the clock used for missing creation timestamps.
func OptClock(now func() time.Time) Option {
	return func(m *migrator) { m.now = now }
}

// OptProgress shows a progress bar during commit.
func OptProgress(b bool) Option {
	return func(m *migrator) { m.progress = b }
}

// New creates a Migrator. The store must not be connected yet: the
// migrator opens and closes the connection itself.
func New(cfg *config.Config, store docstore.Store, opts ...Option) trapdb.Migrator {
	res := &migrator{
		cfg:   cfg,
		store: store,
		out:   os.Stdout,
		now:   time.Now,
		wait:  sleep,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Migrate runs one migration in the given mode.
func (m *migrator) Migrate(
	ctx context.Context,
	mode migration.Mode,
) (*migration.Report, error) {
	startTime := time.Now()

	plan, err := migration.NewPlan(m.cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("Starting migration",
		"plan", plan.Name,
		"mode", mode.String(),
		"source", plan.Source,
		"target", plan.Target,
	)

	m.enter(stConnecting)
	if err = m.store.Connect(ctx, &m.cfg.Mongo); err != nil {
		return nil, err
	}
	defer m.store.Close()

	m.enter(stEnumerating)
	recs, copied, err := m.enumerate(ctx, plan)
	if err != nil {
		return nil, err
	}

	m.enter(stClassifying)
	pt := migration.Split(plan, recs, copied)
	pt.Remap(plan, m.now().UTC())
	rep := migration.NewReport(plan, mode, pt)

	switch mode {
	case migration.Preview:
		m.enter(stPreview)
		m.preview(pt)
	case migration.Commit:
		m.enter(stCommitting)
		err = m.commit(ctx, plan, pt, rep)
	}

	m.enter(stReporting)
	rep.Duration = time.Since(startTime)
	m.summary(rep)
	m.enter(stDone)

	if err != nil {
		return rep, err
	}
	if rep.Failed() {
		return rep, PartialError(len(rep.Failures), rep.NeedsTransform)
	}
	return rep, nil
}

func (m *migrator) enter(s state) {
	slog.Debug("Migration state", "state", s.String())
}

// enumerate loads all records of the source collection. For
// cross-collection plans it also loads identity values that are already
// in the target collection.
func (m *migrator) enumerate(
	ctx context.Context,
	plan migration.Plan,
) ([]sample.Record, migration.IDSet, error) {
	exists, err := m.store.CollectionExists(ctx, plan.Source)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		return nil, nil, CollectionMissingError(plan.Source, m.store.Database())
	}

	recs, err := m.store.FindAll(ctx, plan.Source)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("Records loaded", "collection", plan.Source, "count", len(recs))

	if plan.InPlace() {
		return recs, nil, nil
	}

	ids, err := m.store.IDs(ctx, plan.Target)
	if err != nil {
		return nil, nil, err
	}
	return recs, migration.NewIDSet(ids), nil
}

func (m *migrator) preview(pt migration.Partition) {
	if len(pt.Transform) == 0 {
		return
	}
	item := pt.Transform[0]
	fmt.Fprintln(m.out, "Sample transformed record:")
	fmt.Fprintln(m.out, FormatRecord(item.Result))
	fmt.Fprintln(m.out)
}

// sleep waits for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func warnCommit(plan migration.Plan, num, delay int) {
	action := "replace"
	if !plan.InPlace() {
		action = "insert"
	}
	gn.Warn(
		"COMMIT mode: about to %s <em>%d</em> records in <em>%s</em>. "+
			"Press Ctrl+C within %d seconds to abort.",
		action, num, plan.Target, delay,
	)
}
