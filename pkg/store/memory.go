package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Store. Safe for concurrent use; each request
// context still owns its own value trees.
type Memory struct {
	mu    sync.RWMutex
	items map[uuid.UUID]map[string]any
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{items: make(map[uuid.UUID]map[string]any)}
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, item uuid.UUID, key string) (any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	values, ok := m.items[item]
	if !ok {
		return nil, ErrNotFound
	}
	value, ok := values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

// Set implements Store.
func (m *Memory) Set(_ context.Context, item uuid.UUID, key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	values, ok := m.items[item]
	if !ok {
		values = make(map[string]any)
		m.items[item] = values
	}
	values[key] = value
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, item uuid.UUID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if values, ok := m.items[item]; ok {
		delete(values, key)
	}
	return nil
}

// Keys implements Store.
func (m *Memory) Keys(_ context.Context, item uuid.UUID) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	values := m.items[item]
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
