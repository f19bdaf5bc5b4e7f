// Package sample describes fish-trap sample records and decides which
// field-naming generation a stored record belongs to.
//
// Classify is the only way to turn an untyped stored record into a
// typed variant. Each variant keeps the original record untouched.
package sample

// Sample is a classified record. The set of implementations is closed:
// Legacy, Intermediate, Merged and Unknown samples.
type Sample interface {
	// Generation returns the generation of the record.
	Generation() Generation

	// Record returns the record as it was read.
	Record() Record

	// ID returns the identity value, nil if the record has none.
	ID() any

	sealed()
}

type base struct {
	rec Record
}

func (b base) Record() Record { return b.rec }

func (b base) ID() any {
	id, _ := b.rec.ID()
	return id
}

func (b base) sealed() {}

func (b base) value(key string) (any, bool) {
	if key == "" {
		return nil, false
	}
	return b.rec.Get(key)
}

// LegacySample is a record of the first field application.
type LegacySample struct{ base }

// Generation implements Sample.
func (LegacySample) Generation() Generation { return Legacy }

// Date returns the sampling date as stored.
func (s LegacySample) Date() (any, bool) {
	return s.value(KeysOf(Legacy).Date)
}

// TrapOperating returns the trap status, usually "Y" or "N".
func (s LegacySample) TrapOperating() string {
	v, _ := s.value(KeysOf(Legacy).TrapOperating)
	res, _ := v.(string)
	return res
}

// IntermediateSample is a camelCase record.
type IntermediateSample struct{ base }

// Generation implements Sample.
func (IntermediateSample) Generation() Generation { return Intermediate }

// Date returns the sampling date as stored.
func (s IntermediateSample) Date() (any, bool) {
	return s.value(KeysOf(Intermediate).Date)
}

// CreatedAt returns the creation timestamp as stored.
func (s IntermediateSample) CreatedAt() (any, bool) {
	return s.value(KeysOf(Intermediate).CreatedAt)
}

// MergedSample is a record in the reconciled schema.
type MergedSample struct{ base }

// Generation implements Sample.
func (MergedSample) Generation() Generation { return Merged }

// Date returns the sampling date as stored.
func (s MergedSample) Date() (any, bool) {
	return s.value(KeysOf(Merged).Date)
}

// TrapOperating returns the trap status, usually "Y" or "N".
func (s MergedSample) TrapOperating() string {
	v, _ := s.value(KeysOf(Merged).TrapOperating)
	res, _ := v.(string)
	return res
}

// CreatedAt returns the creation timestamp as stored.
func (s MergedSample) CreatedAt() (any, bool) {
	return s.value(KeysOf(Merged).CreatedAt)
}

// UnknownSample is a record that needs manual review.
type UnknownSample struct {
	base

	// Conflicts lists generations whose signals were all found in the
	// record. It is empty when no signal was found.
	Conflicts []Generation
}

// Generation implements Sample.
func (UnknownSample) Generation() Generation { return Unknown }

// Classify decides the generation of a record by the presence of signal
// keys. A record with signals of exactly one generation gets that
// generation. A record without signals, or with signals of several
// generations, is Unknown.
func Classify(rec Record) Sample {
	b := base{rec: rec}
	gens := Matches(rec)
	if len(gens) != 1 {
		return UnknownSample{base: b, Conflicts: gens}
	}
	switch gens[0] {
	case Legacy:
		return LegacySample{b}
	case Intermediate:
		return IntermediateSample{b}
	case Merged:
		return MergedSample{b}
	}
	return UnknownSample{base: b}
}
