// Package iomongo implements docstore.Store with the MongoDB driver.
// This is an impure I/O package that implements contracts defined in
// pkg/.
package iomongo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fishresearch/trapdb/pkg/config"
	"github.com/fishresearch/trapdb/pkg/docstore"
	"github.com/fishresearch/trapdb/pkg/sample"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

// defaultDatabase is used when neither the URI nor the configuration
// names a database. The MongoDB shell uses the same default.
const defaultDatabase = "test"

var errNotFound = errors.New("document not found")

// mongoStore implements docstore.Store.
type mongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	hosts  []string
}

// NewStore creates a MongoDB store (without connecting).
func NewStore() docstore.Store {
	return &mongoStore{}
}

// Connect opens the client and checks the connection with a ping.
// The database name comes from configuration, then from the URI path.
func (m *mongoStore) Connect(
	ctx context.Context,
	cfg *config.MongoConfig,
) error {
	cs, err := connstring.ParseAndValidate(cfg.URI)
	if err != nil {
		return ConnectionError(nil, err)
	}
	m.hosts = cs.Hosts

	timeout := time.Duration(cfg.Timeout) * time.Second
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return ConnectionError(m.hosts, err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return ConnectionError(m.hosts, err)
	}

	dbName := cfg.Database
	if dbName == "" {
		dbName = cs.Database
	}
	if dbName == "" {
		dbName = defaultDatabase
	}

	m.client = client
	m.db = client.Database(dbName)
	slog.Info("Connected to MongoDB", "hosts", m.hosts, "database", dbName)
	return nil
}

// Close disconnects the client.
func (m *mongoStore) Close() error {
	if m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := m.client.Disconnect(ctx)
	m.client = nil
	m.db = nil
	return err
}

// Database returns the name of the database in use.
func (m *mongoStore) Database() string {
	if m.db == nil {
		return ""
	}
	return m.db.Name()
}

// CollectionExists checks if a collection exists in the database.
func (m *mongoStore) CollectionExists(
	ctx context.Context,
	coll string,
) (bool, error) {
	if m.db == nil {
		return false, NotConnectedError()
	}

	names, err := m.db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: coll}})
	if err != nil {
		return false, ListCollectionsError(m.db.Name(), err)
	}
	return len(names) > 0, nil
}

// FindAll loads every record of a collection into memory.
func (m *mongoStore) FindAll(
	ctx context.Context,
	coll string,
) ([]sample.Record, error) {
	if m.db == nil {
		return nil, NotConnectedError()
	}

	cursor, err := m.db.Collection(coll).Find(ctx, bson.D{})
	if err != nil {
		return nil, FindError(coll, err)
	}
	defer cursor.Close(ctx)

	var res []sample.Record
	for cursor.Next(ctx) {
		var doc bson.D
		if err = cursor.Decode(&doc); err != nil {
			return nil, DecodeError(coll, err)
		}
		res = append(res, ToRecord(doc))
	}
	if err = cursor.Err(); err != nil {
		return nil, FindError(coll, err)
	}
	return res, nil
}

// IDs returns identity values of every record of a collection.
func (m *mongoStore) IDs(ctx context.Context, coll string) ([]any, error) {
	if m.db == nil {
		return nil, NotConnectedError()
	}

	opts := options.Find().SetProjection(bson.D{{Key: sample.IDKey, Value: 1}})
	cursor, err := m.db.Collection(coll).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, FindError(coll, err)
	}
	defer cursor.Close(ctx)

	var res []any
	for cursor.Next(ctx) {
		id, err := cursor.Current.LookupErr(sample.IDKey)
		if err != nil {
			return nil, DecodeError(coll, err)
		}
		var v any
		if err = id.Unmarshal(&v); err != nil {
			return nil, DecodeError(coll, err)
		}
		res = append(res, v)
	}
	if err = cursor.Err(); err != nil {
		return nil, FindError(coll, err)
	}
	return res, nil
}

// Replace replaces the whole document with the record's identity. It
// never upserts.
func (m *mongoStore) Replace(
	ctx context.Context,
	coll string,
	rec sample.Record,
) error {
	if m.db == nil {
		return NotConnectedError()
	}

	id, ok := rec.ID()
	if !ok {
		return ReplaceError(coll, nil, errNotFound)
	}

	filter := bson.D{{Key: sample.IDKey, Value: id}}
	res, err := m.db.Collection(coll).ReplaceOne(ctx, filter, ToDocument(rec))
	if err != nil {
		return ReplaceError(coll, id, err)
	}
	if res.MatchedCount == 0 {
		return ReplaceError(coll, id, errNotFound)
	}
	return nil
}

// InsertMany adds records to a collection.
func (m *mongoStore) InsertMany(
	ctx context.Context,
	coll string,
	recs []sample.Record,
) error {
	if m.db == nil {
		return NotConnectedError()
	}
	if len(recs) == 0 {
		return nil
	}

	docs := make([]any, len(recs))
	for i := range recs {
		docs[i] = ToDocument(recs[i])
	}
	_, err := m.db.Collection(coll).InsertMany(ctx, docs)
	if err != nil {
		return InsertError(coll, len(recs), err)
	}
	return nil
}
