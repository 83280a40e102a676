package cache

import (
	"context"
	"sync"
	"time"

	"github.com/cargoexpress/cargoexpress/domain"
)

type memoryEntry struct {
	value    []byte
	deadline time.Time // zero means no expiry
}

// MemoryStore is an in-process domain.KeyValueStore for tests and
// single-node development. Expired entries are dropped lazily on read and
// by Sweep.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry

	// Hit and miss counters let tests observe whether a read was served
	// from the cache.
	hits   int
	misses int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		s.misses++
		return nil, false, nil
	}
	if !e.deadline.IsZero() && time.Now().After(e.deadline) {
		delete(s.entries, key)
		s.misses++
		return nil, false, nil
	}
	s.hits++
	cp := make([]byte, len(e.value))
	copy(cp, e.value)
	return cp, true, nil
}

func (s *MemoryStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ttl <= 0 {
		delete(s.entries, key)
		return nil
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	s.entries[key] = memoryEntry{value: cp, deadline: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Sweep removes every expired entry and returns how many were dropped.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, e := range s.entries {
		if !e.deadline.IsZero() && now.After(e.deadline) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// Hits returns the number of reads served from the store.
func (s *MemoryStore) Hits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits
}

// Misses returns the number of reads that found nothing.
func (s *MemoryStore) Misses() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.misses
}

// Len returns the number of live entries.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

var _ domain.KeyValueStore = (*MemoryStore)(nil)
