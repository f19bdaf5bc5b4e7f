package ioexport

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fishresearch/trapdb/pkg/report"
	"github.com/fishresearch/trapdb/pkg/sample"
	"github.com/fishresearch/trapdb/pkg/schema"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// row is one exported sample with its counts.
type row struct {
	sample schema.Sample
	counts []schema.SampleCount
}

// scalar fields of Merged records that go to the samples table. All
// other numeric fields become sample_counts rows.
var scalarKeys = map[string]func(*schema.Sample, any){
	"Date": func(s *schema.Sample, v any) { s.SampleDate = dateOf(v) },
	"Time": func(s *schema.Sample, v any) { s.SampleTime = text(v) },
	"Trap Operating": func(s *schema.Sample, v any) {
		s.TrapOperating = text(v)
	},
	"RPM":          func(s *schema.Sample, v any) { s.RPM = number(v) },
	"Debris":       func(s *schema.Sample, v any) { s.Debris = text(v) },
	"Water Temp":   func(s *schema.Sample, v any) { s.WaterTemp = number(v) },
	"Hobo Temp":    func(s *schema.Sample, v any) { s.HoboTemp = number(v) },
	"Visibility":   func(s *schema.Sample, v any) { s.Visibility = text(v) },
	"Flow":         func(s *schema.Sample, v any) { s.Flow = text(v) },
	"Comments":     func(s *schema.Sample, v any) { s.Comments = text(v) },
	"Chum DNA IDs": func(s *schema.Sample, v any) { s.ChumDNAIDs = text(v) },
	"User ID":      func(s *schema.Sample, v any) { s.UserID = text(v) },
	"Submitted By": func(s *schema.Sample, v any) { s.SubmittedBy = text(v) },
	"Created At":   func(s *schema.Sample, v any) { s.CreatedAt = dateOf(v) },
}

// convert turns a record with Merged field names into database rows.
// Non-numeric values of count fields are skipped.
func convert(rec sample.Record, runID string) row {
	idv, _ := rec.ID()
	id := idText(idv)
	res := row{
		sample: schema.Sample{ID: id, ExportRunID: runID},
	}
	for _, f := range rec {
		if f.Key == sample.IDKey {
			continue
		}
		if set, ok := scalarKeys[f.Key]; ok {
			set(&res.sample, f.Value)
			continue
		}
		if n := number(f.Value); n != nil {
			res.counts = append(res.counts, schema.SampleCount{
				SampleID: id,
				Field:    f.Key,
				Count:    *n,
			})
		}
	}
	return res
}

// idText converts a document identity to the text key of the samples
// table.
func idText(id any) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	case nil:
		return ""
	}
	return fmt.Sprint(id)
}

func text(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	}
	return fmt.Sprint(v)
}

// number reads numbers and numeric strings entered in forms.
func number(v any) *float64 {
	if n, ok := report.Number(v); ok {
		return &n
	}
	if s, ok := v.(string); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil {
			return &n
		}
	}
	return nil
}

func dateOf(v any) *time.Time {
	if t, ok := report.ParseDate(v, time.UTC); ok && !t.IsZero() {
		return &t
	}
	return nil
}
