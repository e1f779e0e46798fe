package connection

import (
	"context"
	"sort"
	"sync"
)

// MemoryRegistry is an in-process registry. It is safe for concurrent use.
type MemoryRegistry struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryRegistry creates a registry holding the given records.
func NewMemoryRegistry(records ...Record) *MemoryRegistry {
	m := &MemoryRegistry{
		records: make(map[string]Record, len(records)),
	}
	for _, r := range records {
		m.records[r.ID] = r
	}
	return m
}

// Put adds or replaces a record.
func (m *MemoryRegistry) Put(r Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.ID] = r
}

// Lookup implements Lookup.
func (m *MemoryRegistry) Lookup(ctx context.Context, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.records[id]
	if !ok {
		return Record{}, NotFoundError{ID: id, Source: "memory"}
	}
	return r, nil
}

// List returns all records sorted by ID.
func (m *MemoryRegistry) List(ctx context.Context) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Record, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
