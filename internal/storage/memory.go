package storage

import "sync"

// Memory is an in-process Adapter used by tests and as a fallback when no
// store file can be opened.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ Adapter = (*Memory)(nil)

// NewMemory creates an empty in-memory adapter.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *Memory) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
