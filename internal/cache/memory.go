package cache

import "sync"

// Memory is an in-memory store. It is the default when no cache path
// is configured, and doubles as the test store.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get retrieves a cached response by key.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Put stores a response by key.
func (m *Memory) Put(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Close is a no-op for the memory store.
func (m *Memory) Close() error {
	return nil
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
