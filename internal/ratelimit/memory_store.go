package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for tests and single-instance runs.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
}

type memoryEntry struct {
	count     int64
	expiresAt time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*memoryEntry)}
}

// Incr increments the counter for key, resetting it once its window lapses.
func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	entry, ok := s.entries[key]
	if !ok || now.After(entry.expiresAt) {
		entry = &memoryEntry{expiresAt: now.Add(window)}
		s.entries[key] = entry
	}
	entry.count++
	return entry.count, nil
}
