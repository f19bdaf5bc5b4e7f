package migration_test

import (
	"testing"
	"time"

	"github.com/fishresearch/trapdb/pkg/config"
	"github.com/fishresearch/trapdb/pkg/errcode"
	"github.com/fishresearch/trapdb/pkg/migration"
	"github.com/fishresearch/trapdb/pkg/sample"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records() []sample.Record {
	return []sample.Record{
		{{Key: "_id", Value: "i1"}, {Key: "chumCaught", Value: 12}},
		{{Key: "_id", Value: "i2"}, {Key: "date", Value: "2024-05-02"}},
		{{Key: "_id", Value: "m1"}, {Key: "Coho Smolt", Value: 3}},
		{{Key: "_id", Value: "l1"}, {Key: "Pink Fry", Value: 9}},
		{
			{Key: "_id", Value: "u1"},
			{Key: "chumCaught", Value: 1},
			{Key: "Created At", Value: "2024-05-01"},
		},
		{{Key: "_id", Value: "u2"}, {Key: "Date", Value: "2024-05-03"}},
	}
}

func newPlan(t *testing.T, opts ...config.Option) migration.Plan {
	t.Helper()
	cfg := config.New()
	cfg.Update(opts)
	res, err := migration.NewPlan(cfg)
	require.NoError(t, err)
	return res
}

func TestNewPlan(t *testing.T) {
	t.Run("merge", func(t *testing.T) {
		p := newPlan(t)
		assert.Equal(t, migration.PlanMerge, p.Name)
		assert.True(t, p.InPlace())
		assert.Equal(t, "Union_Outmigration", p.Source)
		assert.NotNil(t, p.Table(sample.Intermediate))
		assert.Nil(t, p.Table(sample.Legacy))
		assert.True(t, p.Accepts(sample.Legacy))
		assert.True(t, p.Accepts(sample.Merged))
	})

	t.Run("merge with legacy", func(t *testing.T) {
		p := newPlan(t, config.OptMigrateIncludeLegacy(true))
		require.NotNil(t, p.Table(sample.Legacy))
		assert.Equal(t, "legacy-to-merged", p.Table(sample.Legacy).Name)
		assert.False(t, p.Accepts(sample.Legacy))
		assert.Len(t, p.Tables(), 2)
	})

	t.Run("legacy", func(t *testing.T) {
		p := newPlan(t, config.OptMigratePlan("legacy"))
		assert.False(t, p.InPlace())
		assert.Equal(t, "trap-samples", p.Source)
		assert.Equal(t, "Union_Outmigration", p.Target)
		assert.Equal(t, "legacy-to-intermediate", p.Table(sample.Legacy).Name)
		assert.Empty(t, p.Accept)
	})

	t.Run("unknown plan", func(t *testing.T) {
		cfg := config.New()
		cfg.Migrate.Plan = "reverse"
		_, err := migration.NewPlan(cfg)
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok)
		assert.Equal(t, errcode.MigrationPlanError, gnErr.Code)
	})
}

func ids(ss []sample.Sample) []any {
	res := make([]any, len(ss))
	for i := range ss {
		res[i] = ss[i].ID()
	}
	return res
}

func TestSplitMerge(t *testing.T) {
	p := newPlan(t)
	pt := migration.Split(p, records(), nil)

	require.Len(t, pt.Transform, 2)
	assert.Equal(t, "i1", pt.Transform[0].Sample.ID())
	assert.Equal(t, "i2", pt.Transform[1].Sample.ID())
	assert.Equal(t, []any{"m1", "l1"}, ids(pt.Correct))
	assert.Equal(t, []any{"u1", "u2"}, ids(pt.Unknown))
	assert.Empty(t, pt.Copied)
	assert.Equal(t, len(records()), pt.Len())

	now := time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC)
	pt.Remap(p, now)
	res := pt.Transform[0].Result
	assert.Equal(t, []string{"_id", "Chum Fry", "Created At"}, res.Keys())
	assert.Equal(t, sample.Merged, sample.Classify(res).Generation())
}

func TestSplitLegacy(t *testing.T) {
	p := newPlan(t, config.OptMigratePlan("legacy"))
	recs := []sample.Record{
		{{Key: "_id", Value: "l1"}, {Key: "Pink Fry", Value: 9}},
		{{Key: "_id", Value: "l2"}, {Key: "Chinook Fry", Value: 2}},
		{{Key: "_id", Value: "m1"}, {Key: "Coho Smolt", Value: 3}},
	}
	copied := migration.NewIDSet([]any{"l2"})
	pt := migration.Split(p, recs, copied)

	require.Len(t, pt.Transform, 1)
	assert.Equal(t, "l1", pt.Transform[0].Sample.ID())
	assert.Equal(t, []any{"l2"}, ids(pt.Copied))
	assert.Equal(t, []any{"m1"}, ids(pt.Unknown),
		"generation the plan cannot handle needs review")
}

func TestIDSet(t *testing.T) {
	s := migration.NewIDSet([]any{"1", 2})
	assert.True(t, s.Has("1"))
	assert.True(t, s.Has(2))
	assert.False(t, s.Has(1), "int and string ids differ")
	assert.False(t, s.Has(nil))

	var empty migration.IDSet
	assert.False(t, empty.Has("1"))
}

func TestNewReport(t *testing.T) {
	p := newPlan(t)
	pt := migration.Split(p, records(), nil)
	r := migration.NewReport(p, migration.Preview, pt)

	assert.Equal(t, "merge", r.Plan)
	assert.Equal(t, "dry-run", r.Mode.String())
	assert.Equal(t, 6, r.Total)
	assert.Equal(t, 2, r.NeedsTransform)
	assert.Equal(t, 2, r.AlreadyCorrect)
	assert.Equal(t, 0, r.AlreadyCopied)
	require.Len(t, r.Unknown, 2)
	assert.Equal(t, "u1", r.Unknown[0].ID)
	assert.Equal(t,
		[]sample.Generation{sample.Intermediate, sample.Merged},
		r.Unknown[0].Conflicts)
	assert.Empty(t, r.Unknown[1].Conflicts)
	assert.Equal(t, 2, r.ByGeneration[sample.Intermediate])
	assert.Equal(t, 2, r.ByGeneration[sample.Unknown])
	require.Len(t, r.Tables, 1)
	assert.Equal(t, "intermediate-to-merged", r.Tables[0].Name)
	assert.Len(t, r.Tables[0].Fingerprint, 36)
	assert.False(t, r.Failed())
}
