package report_test

import (
	"testing"
	"time"

	"github.com/fishresearch/trapdb/pkg/errcode"
	"github.com/fishresearch/trapdb/pkg/report"
	"github.com/fishresearch/trapdb/pkg/sample"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, 5, 30, 15, 4, 5, 0, time.UTC)

func TestParseRange(t *testing.T) {
	tests := []struct {
		msg        string
		start, end string
		resStart   string
		resEnd     string
	}{
		{"default window", "", "", "2024-05-01", "2024-05-30"},
		{"start only", "2024-04-10", "", "2024-04-10", "2024-04-10"},
		{"end only", "", "2024-04-30", "2024-04-01", "2024-04-30"},
		{"both", "2024-03-01", "2024-04-15", "2024-03-01", "2024-04-15"},
		{"same day", "2024-03-01", "2024-03-01", "2024-03-01", "2024-03-01"},
	}

	for _, v := range tests {
		r, err := report.ParseRange(v.start, v.end, today)
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.resStart, r.StartDate(), v.msg)
		assert.Equal(t, v.resEnd, r.EndDate(), v.msg)
		assert.Equal(t, 0, r.Start.Hour(), v.msg)
		assert.Equal(t, 23, r.End.Hour(), v.msg)
		assert.Equal(t, 999, r.End.Nanosecond()/int(time.Millisecond), v.msg)
	}
}

func TestParseRangeErrors(t *testing.T) {
	tests := []struct {
		msg        string
		start, end string
	}{
		{"bad start", "05/01/2024", ""},
		{"bad end", "", "2024-13-01"},
		{"reversed", "2024-05-02", "2024-05-01"},
	}

	for _, v := range tests {
		_, err := report.ParseRange(v.start, v.end, today)
		require.Error(t, err, v.msg)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok, v.msg)
		assert.Equal(t, errcode.ReportDateRangeError, gnErr.Code, v.msg)
	}
}

func merged(id string, fields ...sample.Field) sample.Sample {
	rec := sample.Record{
		{Key: "_id", Value: id},
		{Key: "Created At", Value: today},
	}
	rec = append(rec, fields...)
	return sample.Classify(rec)
}

func TestCompute(t *testing.T) {
	day := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	samples := []sample.Sample{
		merged("a",
			sample.Field{Key: "Date", Value: day},
			sample.Field{Key: "Trap Operating", Value: "Y"},
			sample.Field{Key: "Chum Fry", Value: int32(12)},
			sample.Field{Key: "Coho Smolt", Value: 2.5},
			sample.Field{Key: "Chum DNA Taken", Value: int32(2)},
			sample.Field{Key: "Chum DNA IDs", Value: "D1,D2"},
		),
		merged("b",
			sample.Field{Key: "Date", Value: "2024-05-21"},
			sample.Field{Key: "Trap Operating", Value: "N"},
			sample.Field{Key: "Chum Fry", Value: 3},
			sample.Field{Key: "Chinook", Value: "n/a"},
		),
		merged("old",
			sample.Field{Key: "Date", Value: "2023-05-21"},
			sample.Field{Key: "Chum Fry", Value: 100},
		),
		merged("nodate", sample.Field{Key: "Chum Fry", Value: 1000}),
		sample.Classify(sample.Record{
			{Key: "chumCaught", Value: 7},
			{Key: "date", Value: "2024-05-21"},
		}),
	}

	r, err := report.ParseRange("", "", today)
	require.NoError(t, err)
	res := report.Compute(samples, r)

	assert.Equal(t, 2, res.Records)
	assert.Equal(t, 1, res.NoDate)
	assert.Equal(t, 1, res.Pending)
	assert.Equal(t, 0, res.Historical)
	assert.Equal(t, 15.0, res.Total("Chum Fry"))
	assert.Equal(t, 2.5, res.Total("Coho Smolt"))
	assert.Equal(t, 0.0, res.Total("Chinook"), "strings are not summed")
	assert.Equal(t, 2.0, res.Total("Chum DNA Taken"))
	assert.Len(t, res.Sums, len(report.Fields))

	assert.Equal(t, 1, res.TrapNotFishing)
	require.Len(t, res.NotFishingDates, 1)
	assert.Equal(t, "2024-05-21", res.NotFishingDates[0].Format(time.DateOnly))

	require.Len(t, res.DNARecords, 1)
	assert.Equal(t, "a", res.DNARecords[0].ID)
	assert.Equal(t, "D1,D2", res.DNARecords[0].IDs)
}

func TestComputeHistorical(t *testing.T) {
	samples := []sample.Sample{
		sample.Classify(sample.Record{
			{Key: "_id", Value: "L1"},
			{Key: "Date", Value: "2024-05-20"},
			{Key: "Trap Operating", Value: "N"},
			{Key: "Water (°C)", Value: 9.5},
			{Key: "Chum Fry", Value: 100},
			{Key: "Coho Fry", Value: 7},
		}),
		merged("M1",
			sample.Field{Key: "Date", Value: "2024-05-20"},
			sample.Field{Key: "Chum Fry", Value: 5},
		),
	}
	require.Equal(t, sample.Legacy, samples[0].Generation())

	r, err := report.ParseRange("", "", today)
	require.NoError(t, err)
	res := report.Compute(samples, r)

	assert.Equal(t, 2, res.Records)
	assert.Equal(t, 1, res.Historical)
	assert.Equal(t, 0, res.Pending)
	assert.Equal(t, 105.0, res.Total("Chum Fry"))
	assert.Equal(t, 7.0, res.Total("Coho Fry"))
	assert.Equal(t, 1, res.TrapNotFishing)
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in  any
		out float64
		ok  bool
	}{
		{1, 1, true},
		{int32(2), 2, true},
		{int64(3), 3, true},
		{float32(1.5), 1.5, true},
		{2.25, 2.25, true},
		{"4", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, v := range tests {
		res, ok := report.Number(v.in)
		assert.Equal(t, v.ok, ok, "%v", v.in)
		assert.Equal(t, v.out, res, "%v", v.in)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "12", report.FormatNumber(12))
	assert.Equal(t, "2.50", report.FormatNumber(2.5))
}
