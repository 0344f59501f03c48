// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used by tests and by the server when no durable driver is configured.
//
// Characteristics:
//   - Records keyed by player and key in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Values are copied in and out so callers cannot alias stored bytes.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sync"
)

type recordKey struct{ player, key string }

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex
	records map[recordKey][]byte
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{records: make(map[recordKey][]byte)}
}

func (m *memory) Get(ctx context.Context, player, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.records[recordKey{player, key}]; ok {
		return append([]byte(nil), v...), nil
	}
	return nil, ErrNotFound
}

func (m *memory) Put(ctx context.Context, player, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[recordKey{player, key}] = append([]byte(nil), value...)
	return nil
}

func (m *memory) Delete(ctx context.Context, player, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, recordKey{player, key})
	return nil
}
