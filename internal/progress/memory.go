package progress

import (
	"maps"
	"sync"
)

// MemoryBackend is a Backend held in a map. It is used when the database
// cannot be opened, so play continues without persistence.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]string)}
}

// Get implements Backend.
func (m *MemoryBackend) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// PutBatch implements Backend.
func (m *MemoryBackend) PutBatch(entries map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	maps.Copy(m.data, entries)
	return nil
}

// Put stores a single key.
func (m *MemoryBackend) Put(key, value string) error {
	return m.PutBatch(map[string]string{key: value})
}
