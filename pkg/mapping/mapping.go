// Package mapping renames the fields of sample records from one
// generation to another.
//
// Mapping tables are declared in YAML and embedded into the binary. Each
// table is an ordered list of entries. An entry without a target tells
// that the source field is dropped on purpose. Entries with a note are
// assumptions of the field crew that are kept visible for review.
//
// Remapping is lossy and never fails: fields that a table does not know
// are left out of the result.
package mapping

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/fishresearch/trapdb/pkg/sample"
	"github.com/gnames/gnuuid"
)

// Entry maps one source field name.
type Entry struct {
	// Source is the field name in the source generation.
	Source string `yaml:"source"`

	// Target is the field name in the target generation. Empty target
	// means the field is dropped.
	Target string `yaml:"target"`

	// Note describes an assumption behind the entry.
	Note string `yaml:"note,omitempty"`
}

// Dropped reports whether the entry removes its source field.
func (e Entry) Dropped() bool {
	return e.Target == ""
}

// Table is a versioned mapping between two generations.
type Table struct {
	// Name identifies the table, for example "intermediate-to-merged".
	Name string

	// Version changes every time entries change.
	Version int

	// From is the generation of source records.
	From sample.Generation

	// To is the generation of produced records.
	To sample.Generation

	// Entries keep the order of the table declaration.
	Entries []Entry

	// ComposedOf lists names of tables this table was derived from.
	ComposedOf []string

	index map[string]string
}

// New creates a validated table.
func New(
	name string,
	version int,
	from, to sample.Generation,
	entries []Entry,
) (*Table, error) {
	res := &Table{
		Name:    name,
		Version: version,
		From:    from,
		To:      to,
		Entries: entries,
	}
	if err := res.Validate(); err != nil {
		return nil, err
	}
	return res, nil
}

// Validate checks generations and looks for duplicate source or target
// names.
func (t *Table) Validate() error {
	known := func(g sample.Generation) bool {
		return slices.Contains(sample.Generations, g)
	}
	if !known(t.From) || !known(t.To) || t.From == t.To {
		return GenerationError(t.Name, t.From, t.To)
	}

	index := make(map[string]string, len(t.Entries))
	targets := make(map[string]struct{}, len(t.Entries))
	for _, e := range t.Entries {
		if e.Source == "" || e.Source == sample.IDKey {
			return EntryError(t.Name, e.Source)
		}
		if _, ok := index[e.Source]; ok {
			return DuplicateError(t.Name, "source", e.Source)
		}
		index[e.Source] = e.Target
		if e.Dropped() {
			continue
		}
		if _, ok := targets[e.Target]; ok || e.Target == sample.IDKey {
			return DuplicateError(t.Name, "target", e.Target)
		}
		targets[e.Target] = struct{}{}
	}
	t.index = index
	return nil
}

// Target returns the target name of a source field. The second value is
// false when the table has no entry for the field.
func (t *Table) Target(source string) (string, bool) {
	idx := t.index
	if idx == nil {
		idx = t.buildIndex()
	}
	res, ok := idx[source]
	return res, ok
}

func (t *Table) buildIndex() map[string]string {
	res := make(map[string]string, len(t.Entries))
	for _, e := range t.Entries {
		res[e.Source] = e.Target
	}
	return res
}

// Remap builds a new record in the target generation.
//
// Fields come out in the order of the input record. Values are copied
// unchanged. The identity field is copied verbatim at its input
// position. Unknown and dropped fields are left out. When the result has
// no creation timestamp, or the timestamp is null, it is set to now. Other
// values, an empty string included, are kept.
func (t *Table) Remap(rec sample.Record, now time.Time) sample.Record {
	idx := t.index
	if idx == nil {
		idx = t.buildIndex()
	}

	res := make(sample.Record, 0, len(rec)+1)
	for _, f := range rec {
		if f.Key == sample.IDKey {
			res = append(res, f)
			continue
		}
		target := idx[f.Key]
		if target == "" {
			continue
		}
		res = append(res, sample.Field{Key: target, Value: f.Value})
	}

	tsKey := sample.KeysOf(t.To).CreatedAt
	if tsKey == "" {
		return res
	}
	if v, ok := res.Get(tsKey); !ok || v == nil {
		res = res.Set(tsKey, now)
	}
	return res
}

// Remap converts a record with the table, using the current time for a
// missing creation timestamp.
func Remap(rec sample.Record, t *Table) sample.Record {
	return t.Remap(rec, time.Now())
}

// ReviewNotes returns entries that carry a note.
func (t *Table) ReviewNotes() []Entry {
	var res []Entry
	for _, e := range t.Entries {
		if e.Note != "" {
			res = append(res, e)
		}
	}
	return res
}

// Fingerprint is a UUIDv5 of the table content. It changes with any
// change of generations or entries, so reports can name the exact
// table revision that produced a record.
func (t *Table) Fingerprint() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s>%s", t.From, t.To)
	for _, e := range t.Entries {
		fmt.Fprintf(&sb, "|%s=%s", e.Source, e.Target)
	}
	return gnuuid.New(sb.String()).String()
}

// Compose creates a table that maps a.From directly to b.To. A source of
// a is dropped when a drops it or when b drops or does not know its
// intermediate name. Notes of both steps are carried over.
func Compose(name string, a, b *Table) (*Table, error) {
	if a.To != b.From {
		return nil, GenerationError(name, a.To, b.From)
	}

	entries := make([]Entry, 0, len(a.Entries))
	for _, ea := range a.Entries {
		e := Entry{Source: ea.Source, Note: ea.Note}
		if !ea.Dropped() {
			target, ok := b.Target(ea.Target)
			e.Target = target
			if !ok {
				e.Note = joinNotes(e.Note,
					fmt.Sprintf("%s is unknown to %s.", ea.Target, b.Name))
			}
			if note := b.note(ea.Target); note != "" {
				e.Note = joinNotes(e.Note, note)
			}
		}
		entries = append(entries, e)
	}

	res, err := New(name, max(a.Version, b.Version), a.From, b.To, entries)
	if err != nil {
		return nil, err
	}
	res.ComposedOf = []string{a.Name, b.Name}
	return res, nil
}

func (t *Table) note(source string) string {
	for _, e := range t.Entries {
		if e.Source == source {
			return e.Note
		}
	}
	return ""
}

func joinNotes(a, b string) string {
	if a == "" {
		return b
	}
	return a + " " + b
}
