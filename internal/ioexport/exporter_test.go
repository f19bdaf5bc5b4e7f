package ioexport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fishresearch/trapdb/pkg/config"
	"github.com/fishresearch/trapdb/pkg/sample"
	"github.com/fishresearch/trapdb/pkg/schema"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func mergedRecord(id any, chum int) sample.Record {
	return sample.Record{
		{Key: "_id", Value: id},
		{Key: "Date", Value: "2024-05-01"},
		{Key: "Trap Operating", Value: "Y"},
		{Key: "Chum Fry", Value: chum},
		{Key: "Coho Smolt", Value: 2},
		{Key: "Created At", Value: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)},
	}
}

func TestConvert(t *testing.T) {
	oid := primitive.NewObjectID()
	rec := sample.Record{
		{Key: "_id", Value: oid},
		{Key: "Date", Value: "2024-05-01"},
		{Key: "Time", Value: "09:30"},
		{Key: "Trap Operating", Value: "N"},
		{Key: "RPM", Value: "3.5"},
		{Key: "Water Temp", Value: 7.25},
		{Key: "Chum Fry", Value: 12},
		{Key: "Chum DNA IDs", Value: "V1, V2"},
		{Key: "Coho Smolt", Value: "n/a"},
		{Key: "Chinook", Value: int64(4)},
		{Key: "Created At", Value: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)},
	}
	r := convert(rec, "run-1")
	s := r.sample
	assert.Equal(t, oid.Hex(), s.ID)
	require.NotNil(t, s.SampleDate)
	assert.Equal(t, "2024-05-01", s.SampleDate.Format(time.DateOnly))
	assert.Equal(t, "09:30", s.SampleTime)
	assert.Equal(t, "N", s.TrapOperating)
	require.NotNil(t, s.RPM)
	assert.Equal(t, 3.5, *s.RPM)
	require.NotNil(t, s.WaterTemp)
	assert.Equal(t, 7.25, *s.WaterTemp)
	assert.Nil(t, s.HoboTemp)
	assert.Equal(t, "V1, V2", s.ChumDNAIDs)
	require.NotNil(t, s.CreatedAt)
	assert.Equal(t, "run-1", s.ExportRunID)

	assert.Equal(t, []schema.SampleCount{
		{SampleID: oid.Hex(), Field: "Chum Fry", Count: 12},
		{SampleID: oid.Hex(), Field: "Chinook", Count: 4},
	}, r.counts)
}

func TestIDText(t *testing.T) {
	assert.Equal(t, "X1", idText("X1"))
	assert.Equal(t, "42", idText(int32(42)))
	assert.Equal(t, "", idText(nil))
}

// fakeCopy collects copied rows.
type fakeCopy struct {
	mu     sync.Mutex
	tables map[string]int
	calls  int
	failAt int
}

func (f *fakeCopy) copy(
	ctx context.Context,
	table string,
	_ []string,
	rows [][]any,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failAt > 0 && f.calls >= f.failAt {
		return CopyError(table, len(rows), errors.New("disk full"))
	}
	if f.tables == nil {
		f.tables = make(map[string]int)
	}
	f.tables[table] += len(rows)
	return nil
}

func testExporter(fc *fakeCopy, batch int) *exporter {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptPostgresBatchSize(batch)})
	return &exporter{cfg: cfg, now: time.Now, copy: fc.copy}
}

func testRecords() []sample.Record {
	var res []sample.Record
	for i := range 7 {
		res = append(res, mergedRecord(fmt.Sprintf("M%d", i), i))
	}
	res = append(res,
		sample.Record{{Key: "_id", Value: "I1"}, {Key: "chumCaught", Value: 1}},
		sample.Record{{Key: "_id", Value: "U1"}, {Key: "Chum Fry", Value: 1}},
	)
	return res
}

func TestRun(t *testing.T) {
	fc := &fakeCopy{}
	e := testExporter(fc, 3)
	exported := map[string]struct{}{"M0": {}, "M1": {}}

	st, err := e.run(context.Background(), testRecords(), exported, "run")
	require.NoError(t, err)
	assert.Equal(t, 9, st.read)
	assert.Equal(t, 5, st.samples)
	assert.Equal(t, 2, st.skipped)
	assert.Equal(t, 2, st.pending)
	assert.Equal(t, 0, st.historical)
	// Chum Fry and Coho Smolt for every sample
	assert.Equal(t, 10, st.counts)
	assert.Equal(t, 5, fc.tables["samples"])
	assert.Equal(t, 10, fc.tables["sample_counts"])
	// batches of 3 and 2, two copies each
	assert.Equal(t, 4, fc.calls)
}

// rowsCopy keeps copied rows by table.
type rowsCopy struct {
	mu   sync.Mutex
	rows map[string][][]any
}

func (c *rowsCopy) copy(
	_ context.Context,
	table string,
	_ []string,
	rows [][]any,
) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.rows == nil {
		c.rows = make(map[string][][]any)
	}
	c.rows[table] = append(c.rows[table], rows...)
	return nil
}

func TestRunHistorical(t *testing.T) {
	rc := &rowsCopy{}
	cfg := config.New()
	e := &exporter{cfg: cfg, now: time.Now, copy: rc.copy}
	recs := []sample.Record{
		{
			{Key: "_id", Value: "L1"},
			{Key: "Date", Value: "2024-05-20"},
			{Key: "Trap Operating", Value: "N"},
			{Key: "Water (°C)", Value: 9.5},
			{Key: "Chum Fry", Value: 100},
			{Key: "Pink Fry", Value: 3},
		},
		mergedRecord("M1", 5),
	}
	require.Equal(t, sample.Legacy, sample.Classify(recs[0]).Generation())

	st, err := e.run(context.Background(), recs, nil, "run")
	require.NoError(t, err)
	assert.Equal(t, 2, st.samples)
	assert.Equal(t, 1, st.historical)
	assert.Equal(t, 0, st.pending)

	require.Len(t, rc.rows["samples"], 2)
	var legacy []any
	for _, r := range rc.rows["samples"] {
		if r[0] == "L1" {
			legacy = r
		}
	}
	require.NotNil(t, legacy)
	assert.Equal(t, "N", legacy[3])
	temp, ok := legacy[6].(*float64)
	require.True(t, ok)
	require.NotNil(t, temp)
	assert.Equal(t, 9.5, *temp)
	assert.Nil(t, legacy[14], "legacy records have no creation time")

	var counts []string
	for _, c := range rc.rows["sample_counts"] {
		if c[0] == "L1" {
			counts = append(counts, fmt.Sprintf("%v=%v", c[1], c[2]))
		}
	}
	assert.Equal(t, []string{"Chum Fry=100"}, counts, "Pink Fry has no target")
	assert.Equal(t, "L1", recs[0][0].Value, "stored record is untouched")
	assert.Len(t, recs[0], 6)
}

func TestConvertLegacyCreatedAt(t *testing.T) {
	rec := sample.Record{
		{Key: "_id", Value: "L1"},
		{Key: "Date", Value: "2024-05-20"},
		{Key: "Water Temp", Value: 9.5},
		{Key: "Created At", Value: time.Time{}},
	}
	r := convert(rec, "run")
	assert.Nil(t, r.sample.CreatedAt)
	require.NotNil(t, r.sample.WaterTemp)
	assert.Equal(t, 9.5, *r.sample.WaterTemp)
	assert.Empty(t, r.counts)
}

func TestRunCopyError(t *testing.T) {
	fc := &fakeCopy{failAt: 1}
	e := testExporter(fc, 2)

	st, err := e.run(context.Background(), testRecords(), nil, "run")
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Contains(t, gnErr.Err.Error(), "disk full")
	assert.Equal(t, 0, st.samples)
}

func TestRunCancelled(t *testing.T) {
	fc := &fakeCopy{}
	e := testExporter(fc, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.run(ctx, testRecords(), nil, "run")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUserErrors(t *testing.T) {
	base := errors.New("permission denied")

	err := NewTruncateError(base)
	assert.Contains(t, err.Error(), "permission denied")
	var te TruncateError
	require.ErrorAs(t, err, &te)
	assert.NotEmpty(t, te.Msg)

	err = NewNotReadyError("table samples is missing")
	var nr NotReadyError
	require.ErrorAs(t, err, &nr)
	assert.Equal(t, []any{"table samples is missing"}, nr.Vars)
	assert.Contains(t, err.Error(), "table samples is missing")
}
