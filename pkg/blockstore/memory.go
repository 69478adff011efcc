package blockstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/ipfs/go-cid"
)

// Memory is an in-process Store backed by a map. Used by tests; the
// CLI always uses SQLite. Never persists across process restarts.
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemory returns an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

// Put hashes object and stores it under that key.
func (m *Memory) Put(_ context.Context, object []byte) (cid.Cid, error) {
	hash, err := ContentHash(object)
	if err != nil {
		return cid.Undef, err
	}
	buf := make([]byte, len(object))
	copy(buf, object)

	m.mu.Lock()
	m.objects[hash.String()] = buf
	m.mu.Unlock()

	return hash, nil
}

// Get returns the object stored under hash, or ErrNotFound.
func (m *Memory) Get(_ context.Context, hash cid.Cid) ([]byte, error) {
	m.mu.RLock()
	obj, ok := m.objects[hash.String()]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("blockstore: get %s: %w", hash, ErrNotFound)
	}
	out := make([]byte, len(obj))
	copy(out, obj)
	return out, nil
}

// Has reports whether hash is present.
func (m *Memory) Has(_ context.Context, hash cid.Cid) (bool, error) {
	m.mu.RLock()
	_, ok := m.objects[hash.String()]
	m.mu.RUnlock()
	return ok, nil
}

// Close is a no-op; Memory has nothing to release.
func (m *Memory) Close() error { return nil }

// Len returns the number of stored objects. The CLI's stat subcommand
// uses SQLite.Count instead.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

var _ Store = (*Memory)(nil)
