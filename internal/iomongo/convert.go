package iomongo

import (
	"github.com/fishresearch/trapdb/pkg/sample"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ToRecord converts a decoded document to a record. Field order is kept.
// BSON dates become UTC time.Time values; other values are kept as the
// driver decoded them.
func ToRecord(doc bson.D) sample.Record {
	res := make(sample.Record, len(doc))
	for i, e := range doc {
		res[i] = sample.Field{Key: e.Key, Value: fromBSON(e.Value)}
	}
	return res
}

// ToDocument converts a record to a document with the same field order.
func ToDocument(rec sample.Record) bson.D {
	res := make(bson.D, len(rec))
	for i, f := range rec {
		res[i] = bson.E{Key: f.Key, Value: f.Value}
	}
	return res
}

func fromBSON(v any) any {
	switch val := v.(type) {
	case primitive.DateTime:
		return val.Time().UTC()
	default:
		return v
	}
}
