package store

import "sync"

// Memory is an in-process Store and Backend. It is used by tests and as the
// fallback when the database cannot be opened.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

var (
	_ Store   = (*Memory)(nil)
	_ Backend = (*Memory)(nil)
)

// Get implements Store.
func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

// Set implements Store.
func (m *Memory) Set(key, value string) {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
}

// Load implements Backend.
func (m *Memory) Load(key string) (string, bool, error) {
	v, ok := m.Get(key)
	return v, ok, nil
}

// Save implements Backend.
func (m *Memory) Save(key, value string) error {
	m.Set(key, value)
	return nil
}
