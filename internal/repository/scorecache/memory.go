package scorecache

import (
	"context"
	"sync"

	"github.com/kailas-cloud/propmatch/internal/domain/score"
)

// DefaultMaxEntries bounds the in-process cache when no limit is configured.
const DefaultMaxEntries = 100_000

// Memory is an in-process cache backed by a map under a read-write lock.
// When full, Put evicts an arbitrary entry.
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]score.Result
	maxEntries int
}

// NewMemory creates an in-process cache. maxEntries <= 0 selects DefaultMaxEntries.
func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Memory{entries: make(map[string]score.Result), maxEntries: maxEntries}
}

// Get returns the cached result for key.
func (m *Memory) Get(_ context.Context, key string) (score.Result, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.entries[key]
	return r, ok
}

// Put stores r under key.
func (m *Memory) Put(_ context.Context, key string, r score.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxEntries {
		for k := range m.entries {
			delete(m.entries, k)
			break
		}
	}
	m.entries[key] = r
}

// Clear drops every entry.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
	return nil
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
