// Package ioexport implements the Exporter interface: Merged and Legacy
// sample records are copied from the document store into the reporting
// PostgreSQL database. Legacy records are converted in memory with the
// legacy-to-merged table, the stored documents stay untouched.
// This is an impure I/O package.
package ioexport

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fishresearch/trapdb/pkg/config"
	"github.com/fishresearch/trapdb/pkg/db"
	"github.com/fishresearch/trapdb/pkg/docstore"
	"github.com/fishresearch/trapdb/pkg/mapping"
	"github.com/fishresearch/trapdb/pkg/sample"
	"github.com/fishresearch/trapdb/pkg/schema"
	"github.com/fishresearch/trapdb/pkg/trapdb"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
)

// copyFunc bulk-inserts rows into a table.
type copyFunc func(
	ctx context.Context,
	table string,
	columns []string,
	rows [][]any,
) error

type exporter struct {
	cfg      *config.Config
	store    docstore.Store
	operator db.Operator
	force    bool
	progress bool
	now      func() time.Time
	copy     copyFunc
}

// Option changes optional settings of the exporter.
type Option func(*exporter)

// OptForce truncates export tables before copying.
func OptForce(b bool) Option {
	return func(e *exporter) { e.force = b }
}

// OptProgress shows a progress bar.
func OptProgress(b bool) Option {
	return func(e *exporter) { e.progress = b }
}

// New creates an Exporter. The store must not be connected yet, the
// operator must be connected and the schema must be up to date.
func New(
	cfg *config.Config,
	store docstore.Store,
	op db.Operator,
	opts ...Option,
) trapdb.Exporter {
	res := &exporter{
		cfg:      cfg,
		store:    store,
		operator: op,
		now:      time.Now,
	}
	res.copy = res.copyFrom
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// stats keeps counters of one export.
type stats struct {
	read       int
	historical int
	pending    int
	skipped    int
	samples    int
	counts     int
}

// Export copies Merged and Legacy records that are not exported yet.
// With force the export tables are truncated first and every such record
// is copied.
func (e *exporter) Export(ctx context.Context) (int, error) {
	start := e.now()
	if err := e.checkReady(ctx); err != nil {
		return 0, err
	}

	if e.force {
		tables := schema.ExportTables()
		if err := e.operator.TruncateTables(ctx, tables...); err != nil {
			return 0, NewTruncateError(err)
		}
		slog.Info("Export tables truncated", "tables", tables)
	}

	exported, err := e.exportedIDs(ctx)
	if err != nil {
		return 0, err
	}

	if err = e.store.Connect(ctx, &e.cfg.Mongo); err != nil {
		return 0, err
	}
	defer e.store.Close()

	coll := e.cfg.Mongo.Collection
	recs, err := e.store.FindAll(ctx, coll)
	if err != nil {
		return 0, err
	}
	gn.Info("Exporting <em>%d</em> records of <em>%s</em>", len(recs), coll)

	runID := uuid.NewString()
	st, err := e.run(ctx, recs, exported, runID)
	if err != nil {
		return st.samples, err
	}

	run := schema.ExportRun{
		ID:         runID,
		Collection: coll,
		StartedAt:  start,
		FinishedAt: e.now(),
		Forced:     e.force,
		Samples:    st.samples,
		Counts:     st.counts,
		Skipped:    st.skipped,
		Historical: st.historical,
		Pending:    st.pending,
	}
	if err = e.saveRun(ctx, run); err != nil {
		return st.samples, err
	}

	slog.Info("Export finished",
		"run", runID,
		"read", st.read,
		"samples", st.samples,
		"counts", st.counts,
		"skipped", st.skipped,
		"historical", st.historical,
		"pending", st.pending,
		"duration", gnfmt.TimeString(run.FinishedAt.Sub(start).Seconds()),
	)
	if st.skipped > 0 {
		gn.Info("Skipped <em>%d</em> records exported earlier", st.skipped)
	}
	if st.pending > 0 {
		gn.Warn("Skipped <em>%d</em> records that are not migrated yet", st.pending)
	}
	return st.samples, nil
}

func (e *exporter) checkReady(ctx context.Context) error {
	if e.operator.Pool() == nil {
		return NewNotReadyError("no database connection")
	}
	for _, m := range schema.AllModels() {
		tbl := m.(interface{ TableName() string }).TableName()
		exists, err := e.operator.TableExists(ctx, tbl)
		if err != nil {
			return err
		}
		if !exists {
			return NewNotReadyError("table " + tbl + " is missing")
		}
	}
	return nil
}

// exportedIDs returns identities of samples that are already in the
// samples table.
func (e *exporter) exportedIDs(ctx context.Context) (map[string]struct{}, error) {
	res := make(map[string]struct{})
	rows, err := e.operator.Pool().Query(ctx, "SELECT id FROM samples")
	if err != nil {
		return nil, QueryError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, QueryError(err)
		}
		res[id] = struct{}{}
	}
	if err = rows.Err(); err != nil {
		return nil, QueryError(err)
	}
	return res, nil
}

// run is a pipeline of a reader, a converter and a writer.
func (e *exporter) run(
	ctx context.Context,
	recs []sample.Record,
	exported map[string]struct{},
	runID string,
) (stats, error) {
	st := stats{read: len(recs)}
	legacy, err := mapping.Find(sample.Legacy, sample.Merged)
	if err != nil {
		return st, err
	}
	batchSize := e.cfg.Postgres.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}

	var bar *pb.ProgressBar
	if e.progress {
		bar = pb.Full.Start(len(recs))
		bar.Set("prefix", "Exporting: ")
		bar.Set(pb.CleanOnFinish, true)
		defer bar.Finish()
	}

	chIn := make(chan sample.Record)
	chOut := make(chan row)
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		for _, rec := range recs {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			case chIn <- rec:
			}
		}
		return nil
	})

	g.Go(func() error {
		defer close(chOut)
		for rec := range chIn {
			switch s := sample.Classify(rec).(type) {
			case sample.MergedSample:
			case sample.LegacySample:
				// zero time keeps Created At empty in the export
				rec = legacy.Remap(s.Record(), time.Time{})
				st.historical++
			default:
				st.pending++
				if bar != nil {
					bar.Increment()
				}
				continue
			}
			r := convert(rec, runID)
			if _, ok := exported[r.sample.ID]; ok {
				st.skipped++
				if bar != nil {
					bar.Increment()
				}
				continue
			}
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			case chOut <- r:
			}
		}
		return nil
	})

	g.Go(func() error {
		batch := make([]row, 0, batchSize)
		for r := range chOut {
			batch = append(batch, r)
			if len(batch) < batchSize {
				continue
			}
			if err := e.flush(gCtx, batch, &st); err != nil {
				return err
			}
			if bar != nil {
				bar.Add(len(batch))
			}
			batch = batch[:0]
		}
		if len(batch) == 0 {
			return nil
		}
		if err := e.flush(gCtx, batch, &st); err != nil {
			return err
		}
		if bar != nil {
			bar.Add(len(batch))
		}
		return nil
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return st, ctx.Err()
	}
	return st, err
}

// flush copies samples first, then their counts.
func (e *exporter) flush(ctx context.Context, batch []row, st *stats) error {
	samples := make([][]any, len(batch))
	var counts [][]any
	for i := range batch {
		samples[i] = batch[i].sample.Row()
		for _, c := range batch[i].counts {
			counts = append(counts, c.Row())
		}
	}

	if err := e.copy(ctx, "samples", schema.SampleColumns, samples); err != nil {
		return err
	}
	if len(counts) > 0 {
		err := e.copy(ctx, "sample_counts", schema.CountColumns, counts)
		if err != nil {
			return err
		}
	}
	st.samples += len(samples)
	st.counts += len(counts)
	return nil
}

func (e *exporter) copyFrom(
	ctx context.Context,
	table string,
	columns []string,
	rows [][]any,
) error {
	_, err := e.operator.Pool().CopyFrom(
		ctx,
		pgx.Identifier{table},
		columns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return CopyError(table, len(rows), err)
	}
	return nil
}

func (e *exporter) saveRun(ctx context.Context, run schema.ExportRun) error {
	q := `INSERT INTO export_runs
	(id, collection, started_at, finished_at, forced,
		samples, counts, skipped, historical, pending)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := e.operator.Pool().Exec(ctx, q,
		run.ID, run.Collection, run.StartedAt, run.FinishedAt, run.Forced,
		run.Samples, run.Counts, run.Skipped, run.Historical, run.Pending,
	)
	if err != nil {
		return RunRecordError(run.ID, err)
	}
	return nil
}
