// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"sync"
)

type memoryKeyValueStorage struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemoryKeyValueStorage returns a process-local [KeyValueStorage]. Values
// are copied on the way in and out. Nothing survives a restart.
func NewMemoryKeyValueStorage() KeyValueStorage {
	return &memoryKeyValueStorage{items: make(map[string][]byte)}
}

func (m *memoryKeyValueStorage) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.items[key]
	if !ok {
		return nil, nil
	}
	return append([]byte{}, v...), nil
}

func (m *memoryKeyValueStorage) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = append([]byte{}, value...)
	return nil
}

func (m *memoryKeyValueStorage) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}
