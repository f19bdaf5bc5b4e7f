// Package report calculates season totals over Merged and Legacy sample
// records. It reproduces the "common queries" page of the field
// application: sums of counts in a date range, days when the trap was not
// fishing, and records with chum DNA samples. Fields are summed by name,
// so historical records add to every total whose name they share.
package report

import (
	"math"
	"strconv"
	"time"

	"github.com/fishresearch/trapdb/pkg/sample"
)

// Fields summed by Totals, in display order.
var Fields = []string{
	"Chum Fry",
	"Chum Fry Mort",
	"Chum Marked",
	"Chum Recap",
	"Chum Recap Mort",
	"Steelhead Marked",
	"Steelhead Recap",
	"Coho Smolt Marked",
	"Coho Smolt Recap",
	"Chum DNA Taken",
	"Coho Fry",
	"Coho Smolt",
	"Coho Parr",
	"Steelhead",
	"Cutthroat",
	"Chinook",
	"Sculpin",
	"Lamprey",
}

const (
	dnaTakenKey = "Chum DNA Taken"
	dnaIDsKey   = "Chum DNA IDs"
	notFishing  = "N"
)

// Sum is the total of one field.
type Sum struct {
	Field string
	Total float64
}

// DNARecord is a record with chum DNA samples.
type DNARecord struct {
	ID    any
	Date  time.Time
	Taken float64
	IDs   any
}

// Totals keeps results for one date range.
type Totals struct {
	Range Range

	// Records is the number of Merged and Legacy records in the range.
	Records int

	// Historical is the number of Legacy records among Records.
	Historical int

	// Sums follow the order of Fields. Non-numeric values are ignored.
	Sums []Sum

	// TrapNotFishing counts records with "Trap Operating" set to "N".
	TrapNotFishing int

	// NotFishingDates are dates of those records.
	NotFishingDates []time.Time

	// DNARecords are records with "Chum DNA Taken" above zero.
	DNARecords []DNARecord

	// NoDate counts records without a readable date.
	NoDate int

	// Pending counts Intermediate and Unknown records. They are skipped
	// until a migration converts them.
	Pending int
}

// reportable samples keep totals under the Title Case field names.
type reportable interface {
	sample.Sample
	Date() (any, bool)
	TrapOperating() string
}

// Total returns the sum of a field.
func (t *Totals) Total(field string) float64 {
	for _, v := range t.Sums {
		if v.Field == field {
			return v.Total
		}
	}
	return 0
}

// Compute calculates totals for classified samples inside the range.
func Compute(samples []sample.Sample, r Range) *Totals {
	res := &Totals{Range: r, Sums: make([]Sum, len(Fields))}
	for i, f := range Fields {
		res.Sums[i].Field = f
	}

	for _, s := range samples {
		var m reportable
		switch v := s.(type) {
		case sample.MergedSample:
			m = v
		case sample.LegacySample:
			m = v
		default:
			res.Pending++
			continue
		}

		dv, _ := m.Date()
		date, ok := ParseDate(dv, r.Start.Location())
		if !ok {
			res.NoDate++
			continue
		}
		if !r.Contains(date) {
			continue
		}

		res.Records++
		if m.Generation() == sample.Legacy {
			res.Historical++
		}
		rec := m.Record()
		for i, f := range Fields {
			v, _ := rec.Get(f)
			if n, ok := Number(v); ok {
				res.Sums[i].Total += n
			}
		}

		if m.TrapOperating() == notFishing {
			res.TrapNotFishing++
			res.NotFishingDates = append(res.NotFishingDates, date)
		}

		v, _ := rec.Get(dnaTakenKey)
		if n, ok := Number(v); ok && n > 0 {
			ids, _ := rec.Get(dnaIDsKey)
			res.DNARecords = append(res.DNARecords, DNARecord{
				ID:    m.ID(),
				Date:  date,
				Taken: n,
				IDs:   ids,
			})
		}
	}
	return res
}

// Number converts numeric values to float64. Strings, booleans and nil
// are not numbers, the same way a MongoDB $sum skips them.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		if math.IsNaN(n) {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// ParseDate reads a stored date. Dates are kept as BSON dates or as
// strings written by the forms.
func ParseDate(v any, loc *time.Location) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case string:
		layouts := []string{time.DateOnly, time.RFC3339Nano, "2006-01-02T15:04"}
		for _, l := range layouts {
			if t, err := time.ParseInLocation(l, d, loc); err == nil {
				return t, true
			}
		}
	case int64:
		// milliseconds since epoch
		return time.UnixMilli(d).In(loc), true
	}
	return time.Time{}, false
}

// FormatNumber prints whole numbers without a fraction.
func FormatNumber(f float64) string {
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}
