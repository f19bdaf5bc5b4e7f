// Package ioreport implements read-only components over the document
// store: the generation census and season totals.
// This is an impure I/O package.
package ioreport

import (
	"context"
	"log/slog"

	"github.com/fishresearch/trapdb/pkg/config"
	"github.com/fishresearch/trapdb/pkg/docstore"
	"github.com/fishresearch/trapdb/pkg/report"
	"github.com/fishresearch/trapdb/pkg/sample"
	"github.com/fishresearch/trapdb/pkg/trapdb"
)

type ioreport struct {
	cfg   *config.Config
	store docstore.Store
}

// NewCensus creates a Census. The store must not be connected yet.
func NewCensus(cfg *config.Config, store docstore.Store) trapdb.Census {
	return &ioreport{cfg: cfg, store: store}
}

// NewReporter creates a Reporter over the collection of current
// records. The store must not be connected yet.
func NewReporter(cfg *config.Config, store docstore.Store) trapdb.Reporter {
	return &ioreport{cfg: cfg, store: store}
}

// Classify reads all records of a collection and classifies them.
func (r *ioreport) Classify(
	ctx context.Context,
	coll string,
) ([]sample.Sample, error) {
	if err := r.store.Connect(ctx, &r.cfg.Mongo); err != nil {
		return nil, err
	}
	defer r.store.Close()

	return r.classify(ctx, coll)
}

// Totals calculates season totals over Merged and Legacy records of the
// collection of current records.
func (r *ioreport) Totals(
	ctx context.Context,
	rng report.Range,
) (*report.Totals, error) {
	if err := r.store.Connect(ctx, &r.cfg.Mongo); err != nil {
		return nil, err
	}
	defer r.store.Close()

	samples, err := r.classify(ctx, r.cfg.Mongo.Collection)
	if err != nil {
		return nil, err
	}

	res := report.Compute(samples, rng)
	slog.Info("Totals calculated",
		"start", rng.StartDate(),
		"end", rng.EndDate(),
		"records", res.Records,
		"historical", res.Historical,
		"pending", res.Pending,
		"no_date", res.NoDate,
	)
	return res, nil
}

func (r *ioreport) classify(
	ctx context.Context,
	coll string,
) ([]sample.Sample, error) {
	exists, err := r.store.CollectionExists(ctx, coll)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, CollectionMissingError(coll, r.store.Database())
	}

	recs, err := r.store.FindAll(ctx, coll)
	if err != nil {
		return nil, err
	}

	res := make([]sample.Sample, len(recs))
	for i := range recs {
		res[i] = sample.Classify(recs[i])
	}
	return res, nil
}

// Count returns the number of samples per generation. Every generation,
// Unknown included, has an entry.
func Count(samples []sample.Sample) map[sample.Generation]int {
	res := map[sample.Generation]int{sample.Unknown: 0}
	for _, g := range sample.Generations {
		res[g] = 0
	}
	for _, s := range samples {
		res[s.Generation()]++
	}
	return res
}

// Conflicts returns Unknown samples whose signals belong to more than
// one generation.
func Conflicts(samples []sample.Sample) []sample.UnknownSample {
	var res []sample.UnknownSample
	for _, s := range samples {
		if u, ok := s.(sample.UnknownSample); ok && len(u.Conflicts) > 1 {
			res = append(res, u)
		}
	}
	return res
}
