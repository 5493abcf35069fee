package blobstore

import (
	"context"
	"sync"
)

// MemoryStore is a simple in-process store used for initial wiring and unit
// tests. A quota of zero means unlimited.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
	quota int64
}

func NewMemoryStore(quotaBytes int64) *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte), quota: quotaBytes}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.quota > 0 {
		var total int64
		for k, b := range m.blobs {
			if k == key {
				continue
			}
			total += int64(len(b))
		}
		if total+int64(len(data)) > m.quota {
			return ErrQuotaExceeded
		}
	}
	b := make([]byte, len(data))
	copy(b, data)
	m.blobs[key] = b
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}
