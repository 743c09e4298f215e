package kv

import (
	"context"
	"sort"
	"sync"
)

// MemoryBackend keeps everything in a map. A positive quota limits the total
// size of keys and values in bytes, like a browser's localStorage budget.
type MemoryBackend struct {
	mu    sync.RWMutex
	data  map[string]string
	size  int
	quota int
}

// NewMemoryBackend creates an empty backend. quota <= 0 means unlimited.
func NewMemoryBackend(quota int) *MemoryBackend {
	return &MemoryBackend{
		data:  make(map[string]string),
		quota: quota,
	}
}

func (m *MemoryBackend) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryBackend) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	newSize := m.size + len(key) + len(value)
	if old, ok := m.data[key]; ok {
		newSize -= len(key) + len(old)
	}
	if m.quota > 0 && newSize > m.quota {
		return ErrQuotaExceeded
	}

	m.data[key] = value
	m.size = newSize
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.data[key]; ok {
		m.size -= len(key) + len(old)
		delete(m.data, key)
	}
	return nil
}

func (m *MemoryBackend) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = make(map[string]string)
	m.size = 0
	return nil
}

func (m *MemoryBackend) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Size returns the bytes currently used.
func (m *MemoryBackend) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.size
}

func (m *MemoryBackend) Close() error { return nil }
