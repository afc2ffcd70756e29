package storage

import (
	"context"
	"sync"
)

// MemoryArea is the default in-process area.
type MemoryArea struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryArea() *MemoryArea {
	return &MemoryArea{data: make(map[string][]byte)}
}

func (m *MemoryArea) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return clone(v), true, nil
}

func (m *MemoryArea) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = clone(value)
	return nil
}

func (m *MemoryArea) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
