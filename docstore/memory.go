package docstore

import (
	"context"
	"sync"

	"github.com/nisimpson/dynaroute"
)

// Memory keeps everything in memory. Data is lost on restart.
// Safe for concurrent use.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]dynaroute.Record
}

var _ dynaroute.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string]dynaroute.Record),
	}
}

func (m *Memory) Get(ctx context.Context, collection, key string) (dynaroute.Record, error) {
	if err := requireKey(key); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.collections[collection][key]
	if !ok {
		return nil, notFound(collection, key)
	}
	return rec.Clone(), nil
}

func (m *Memory) Put(ctx context.Context, collection string, rec dynaroute.Record) error {
	if err := requireKey(rec.ID()); err != nil {
		return err
	}
	stored := rec.Clone()

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[collection]; !ok {
		m.collections[collection] = make(map[string]dynaroute.Record)
	}
	m.collections[collection][stored.ID()] = stored
	return nil
}

func (m *Memory) Scan(ctx context.Context, collection string) ([]dynaroute.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	coll := m.collections[collection]
	records := make([]dynaroute.Record, 0, len(coll))
	for _, rec := range coll {
		records = append(records, rec.Clone())
	}
	return records, nil
}

func (m *Memory) Delete(ctx context.Context, collection, key string) error {
	if err := requireKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections[collection], key)
	return nil
}

// Len returns the number of records in a collection.
func (m *Memory) Len(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collection])
}

func (m *Memory) Close() error { return nil }
