package iotesting

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fishresearch/trapdb/pkg/config"
	"github.com/fishresearch/trapdb/pkg/docstore"
	"github.com/fishresearch/trapdb/pkg/migration"
	"github.com/fishresearch/trapdb/pkg/sample"
)

// ErrInjected is returned by MemStore for records listed in FailIDs.
var ErrInjected = errors.New("injected failure")

// MemStore is an in-memory docstore.Store. Collections keep insertion
// order. A replaced record keeps its position.
type MemStore struct {
	mu          sync.Mutex
	collections map[string][]sample.Record

	// FailIDs makes Replace and InsertMany fail for these identity values.
	FailIDs migration.IDSet

	// ConnectErr is returned by Connect when set.
	ConnectErr error

	// Replaced counts successful Replace calls.
	Replaced int

	// Inserted counts records added by InsertMany.
	Inserted int

	connected bool
	closed    bool
}

var _ docstore.Store = (*MemStore)(nil)

// NewMemStore creates a store with collections filled with copies of
// the given records.
func NewMemStore(data map[string][]sample.Record) *MemStore {
	res := &MemStore{collections: make(map[string][]sample.Record)}
	for k, recs := range data {
		for _, rec := range recs {
			res.collections[k] = append(res.collections[k], rec.Clone())
		}
	}
	return res
}

func (m *MemStore) Connect(context.Context, *config.MongoConfig) error {
	if m.ConnectErr != nil {
		return m.ConnectErr
	}
	m.connected = true
	return nil
}

func (m *MemStore) Close() error {
	m.connected = false
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MemStore) Closed() bool {
	return m.closed
}

func (m *MemStore) Database() string {
	return TestDatabaseName
}

func (m *MemStore) CollectionExists(_ context.Context, coll string) (bool, error) {
	if err := m.check(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.collections[coll]
	return ok, nil
}

func (m *MemStore) FindAll(_ context.Context, coll string) ([]sample.Record, error) {
	if err := m.check(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]sample.Record, 0, len(m.collections[coll]))
	for _, rec := range m.collections[coll] {
		res = append(res, rec.Clone())
	}
	return res, nil
}

func (m *MemStore) IDs(_ context.Context, coll string) ([]any, error) {
	if err := m.check(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []any
	for _, rec := range m.collections[coll] {
		if id, ok := rec.ID(); ok {
			res = append(res, id)
		}
	}
	return res, nil
}

func (m *MemStore) Replace(_ context.Context, coll string, rec sample.Record) error {
	if err := m.check(); err != nil {
		return err
	}
	id, _ := rec.ID()
	if m.FailIDs.Has(id) {
		return fmt.Errorf("replace %v: %w", id, ErrInjected)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := migration.IDString(id)
	for i, v := range m.collections[coll] {
		vid, ok := v.ID()
		if ok && migration.IDString(vid) == key {
			m.collections[coll][i] = rec.Clone()
			m.Replaced++
			return nil
		}
	}
	return fmt.Errorf("replace %v: document not found", id)
}

func (m *MemStore) InsertMany(_ context.Context, coll string, recs []sample.Record) error {
	if err := m.check(); err != nil {
		return err
	}
	for _, rec := range recs {
		id, _ := rec.ID()
		if m.FailIDs.Has(id) {
			return fmt.Errorf("insert %v: %w", id, ErrInjected)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range recs {
		m.collections[coll] = append(m.collections[coll], rec.Clone())
		m.Inserted++
	}
	return nil
}

// Records returns a copy of a collection.
func (m *MemStore) Records(coll string) []sample.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []sample.Record
	for _, rec := range m.collections[coll] {
		res = append(res, rec.Clone())
	}
	return res
}

func (m *MemStore) check() error {
	if !m.connected {
		return errors.New("memstore is not connected")
	}
	return nil
}
