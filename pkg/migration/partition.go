package migration

import (
	"fmt"
	"time"

	"github.com/fishresearch/trapdb/pkg/sample"
)

// Item is a classified record that needs a transformation.
type Item struct {
	Sample sample.Sample

	// Result is the transformed record, empty until Transform runs.
	Result sample.Record
}

// Partition splits classified records into buckets. Every input record
// ends up in exactly one bucket.
type Partition struct {
	// Transform keeps records the plan rewrites.
	Transform []Item

	// Correct keeps records of accepted generations.
	Correct []sample.Sample

	// Unknown keeps records without a decidable generation and records
	// of generations the plan neither transforms nor accepts. They are
	// never written.
	Unknown []sample.Sample

	// Copied keeps records that a cross-collection plan already copied.
	Copied []sample.Sample
}

// Split classifies records and partitions them according to the plan.
// The copied set contains identity values already present in the target
// collection; it is only used by cross-collection plans.
func Split(p Plan, recs []sample.Record, copied IDSet) Partition {
	var res Partition
	for _, rec := range recs {
		s := sample.Classify(rec)
		g := s.Generation()
		switch {
		case g == sample.Unknown:
			res.Unknown = append(res.Unknown, s)
		case p.Table(g) != nil:
			if !p.InPlace() && copied.Has(s.ID()) {
				res.Copied = append(res.Copied, s)
				continue
			}
			res.Transform = append(res.Transform, Item{Sample: s})
		case p.Accepts(g):
			res.Correct = append(res.Correct, s)
		default:
			res.Unknown = append(res.Unknown, s)
		}
	}
	return res
}

// Remap transforms every item of the Transform bucket with the plan's
// tables. Missing creation timestamps are set to now.
func (pt *Partition) Remap(p Plan, now time.Time) {
	for i := range pt.Transform {
		s := pt.Transform[i].Sample
		tbl := p.Table(s.Generation())
		pt.Transform[i].Result = tbl.Remap(s.Record(), now)
	}
}

// Len returns the number of partitioned records.
func (pt Partition) Len() int {
	return len(pt.Transform) + len(pt.Correct) + len(pt.Unknown) + len(pt.Copied)
}

// IDString converts an identity value to a comparable string. Values of
// different types never collide.
func IDString(id any) string {
	return fmt.Sprintf("%T/%v", id, id)
}

// IDSet keeps identity values. Keys are produced by IDString.
type IDSet map[string]struct{}

// NewIDSet creates a set from identity values.
func NewIDSet(ids []any) IDSet {
	res := make(IDSet, len(ids))
	for _, id := range ids {
		res[IDString(id)] = struct{}{}
	}
	return res
}

// Has reports whether the identity value is in the set.
func (s IDSet) Has(id any) bool {
	if s == nil || id == nil {
		return false
	}
	_, ok := s[IDString(id)]
	return ok
}
