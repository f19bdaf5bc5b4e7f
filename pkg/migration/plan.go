// Package migration decides what a migration run has to do with every
// record of a collection. It has no I/O: the driver in
// internal/iomigrate reads and writes records, this package only
// partitions them and keeps the counts.
package migration

import (
	"fmt"
	"slices"

	"github.com/fishresearch/trapdb/pkg/config"
	"github.com/fishresearch/trapdb/pkg/mapping"
	"github.com/fishresearch/trapdb/pkg/sample"
)

// Mode selects what happens with transformed records.
type Mode int

const (
	// Preview computes transformations without writing anything.
	Preview Mode = iota
	// Commit writes transformed records back to the store.
	Commit
)

func (m Mode) String() string {
	switch m {
	case Preview:
		return "dry-run"
	case Commit:
		return "commit"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Names of migration plans.
const (
	PlanMerge  = "merge"
	PlanLegacy = "legacy"
)

// Plan describes one migration: where records come from, where they go,
// which generations are rewritten and with which tables, and which
// generations are left as they are.
type Plan struct {
	// Name of the plan.
	Name string

	// Source is the collection that is read.
	Source string

	// Target is the collection that receives transformed records. When
	// it is the same as Source, records are replaced in place.
	Target string

	// Transforms maps generations that need rewriting to their tables.
	Transforms map[sample.Generation]*mapping.Table

	// Accept lists generations that are already correct for the plan.
	Accept []sample.Generation
}

// InPlace reports whether records are replaced in their own collection.
func (p Plan) InPlace() bool {
	return p.Source == p.Target
}

// NewPlan creates a plan from the migrate settings.
//
// The merge plan rewrites Intermediate records of the main collection to
// Merged. Legacy records there are historical data and are accepted as
// they are unless includeLegacy is true.
//
// The legacy plan copies Legacy records of the legacy collection into the
// main collection in the Intermediate generation, which the merge plan
// can then finish.
func NewPlan(cfg *config.Config) (Plan, error) {
	mcfg := cfg.Migrate
	switch mcfg.Plan {
	case PlanMerge:
		i2m, err := mapping.Get(mapping.IntermediateToMerged)
		if err != nil {
			return Plan{}, err
		}
		res := Plan{
			Name:   PlanMerge,
			Source: cfg.Mongo.Collection,
			Target: cfg.Mongo.Collection,
			Transforms: map[sample.Generation]*mapping.Table{
				sample.Intermediate: i2m,
			},
			Accept: []sample.Generation{sample.Merged, sample.Legacy},
		}
		if mcfg.IncludeLegacy {
			l2m, err := mapping.Get(mapping.LegacyToMerged)
			if err != nil {
				return Plan{}, err
			}
			res.Transforms[sample.Legacy] = l2m
			res.Accept = []sample.Generation{sample.Merged}
		}
		return res, nil
	case PlanLegacy:
		l2i, err := mapping.Get(mapping.LegacyToIntermediate)
		if err != nil {
			return Plan{}, err
		}
		return Plan{
			Name:   PlanLegacy,
			Source: cfg.Mongo.LegacyCollection,
			Target: cfg.Mongo.Collection,
			Transforms: map[sample.Generation]*mapping.Table{
				sample.Legacy: l2i,
			},
		}, nil
	}
	return Plan{}, PlanError(mcfg.Plan)
}

// Table returns the transformation table for a generation, nil if the
// plan does not transform it.
func (p Plan) Table(g sample.Generation) *mapping.Table {
	return p.Transforms[g]
}

// Accepts reports whether records of a generation are already correct.
func (p Plan) Accepts(g sample.Generation) bool {
	return slices.Contains(p.Accept, g)
}

// Tables returns the plan's tables ordered by source generation.
func (p Plan) Tables() []*mapping.Table {
	var res []*mapping.Table
	for _, g := range sample.Generations {
		if t, ok := p.Transforms[g]; ok {
			res = append(res, t)
		}
	}
	return res
}
