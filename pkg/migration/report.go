package migration

import (
	"time"

	"github.com/fishresearch/trapdb/pkg/sample"
)

// UnknownRecord describes a record left for manual review.
type UnknownRecord struct {
	ID any

	// Generation is set when the record was classified, but the plan
	// has no use for its generation.
	Generation sample.Generation

	// Conflicts lists generations whose signals were all found.
	Conflicts []sample.Generation
}

// Failure describes a record that could not be written.
type Failure struct {
	ID  any
	Err error
}

// TableInfo names the table revision used by a run.
type TableInfo struct {
	Name        string
	Version     int
	Fingerprint string
}

// Report summarizes a migration run.
type Report struct {
	Plan   string
	Mode   Mode
	Source string
	Target string

	// Total is the number of records read.
	Total int

	NeedsTransform int
	AlreadyCorrect int
	AlreadyCopied  int

	// Unknown lists every record that was not transformed because its
	// generation could not be decided or the plan cannot handle it.
	Unknown []UnknownRecord

	// ByGeneration counts records per classified generation.
	ByGeneration map[sample.Generation]int

	// Written is the number of records replaced or inserted.
	Written int

	// Failures lists records that could not be written.
	Failures []Failure

	// BackupFile is the path of the backup of replaced records.
	BackupFile string

	Tables   []TableInfo
	Duration time.Duration
}

// NewReport fills in counts of a partition.
func NewReport(p Plan, mode Mode, pt Partition) *Report {
	res := &Report{
		Plan:           p.Name,
		Mode:           mode,
		Source:         p.Source,
		Target:         p.Target,
		Total:          pt.Len(),
		NeedsTransform: len(pt.Transform),
		AlreadyCorrect: len(pt.Correct),
		AlreadyCopied:  len(pt.Copied),
		ByGeneration:   make(map[sample.Generation]int),
	}

	for _, v := range pt.Transform {
		res.ByGeneration[v.Sample.Generation()]++
	}
	for _, v := range pt.Correct {
		res.ByGeneration[v.Generation()]++
	}
	for _, v := range pt.Copied {
		res.ByGeneration[v.Generation()]++
	}
	for _, v := range pt.Unknown {
		res.ByGeneration[v.Generation()]++
		u := UnknownRecord{ID: v.ID(), Generation: v.Generation()}
		if unk, ok := v.(sample.UnknownSample); ok {
			u.Conflicts = unk.Conflicts
		}
		res.Unknown = append(res.Unknown, u)
	}

	for _, t := range p.Tables() {
		res.Tables = append(res.Tables, TableInfo{
			Name:        t.Name,
			Version:     t.Version,
			Fingerprint: t.Fingerprint(),
		})
	}
	return res
}

// Failed reports whether some records could not be written.
func (r *Report) Failed() bool {
	return len(r.Failures) > 0
}
