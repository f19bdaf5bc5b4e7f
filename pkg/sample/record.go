package sample

import (
	"bytes"
	"encoding/json"
	"slices"
)

// IDKey is the identity field of every stored record.
const IDKey = "_id"

// Field is one key/value pair of a record.
type Field struct {
	Key   string
	Value any
}

// Record is a flat sample record. Fields keep the order in which they
// were read from the store.
type Record []Field

// Get returns the value of a key and whether the key is present.
func (r Record) Get(key string) (any, bool) {
	for i := range r {
		if r[i].Key == key {
			return r[i].Value, true
		}
	}
	return nil, false
}

// Has reports whether the key is present.
func (r Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Set replaces the value of an existing key in place, or appends the key
// at the end of the record.
func (r Record) Set(key string, val any) Record {
	for i := range r {
		if r[i].Key == key {
			r[i].Value = val
			return r
		}
	}
	return append(r, Field{Key: key, Value: val})
}

// Keys returns field names in record order.
func (r Record) Keys() []string {
	res := make([]string, len(r))
	for i := range r {
		res[i] = r[i].Key
	}
	return res
}

// ID returns the identity value of the record.
func (r Record) ID() (any, bool) {
	return r.Get(IDKey)
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	return slices.Clone(r)
}

// MarshalJSON writes the record as a JSON object with keys in record
// order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
