// Package ratelimit provides sliding-window rate limiting for bot commands
// and dashboard endpoints.
//
// MemoryLimiter serves tests and single-node development; RedisLimiter
// shares counters across processes. Both use a sliding window log.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is the rate limiting contract.
type Limiter interface {
	// Allow checks whether the request under key should proceed. remaining
	// is how many requests are left in the current window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, remaining int, err error)

	// Reset clears the counter for the key.
	Reset(ctx context.Context, key string) error
}

type slidingWindowEntry struct {
	timestamps []time.Time
}

// MemoryLimiter implements Limiter with an in-memory sliding window log.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*slidingWindowEntry
}

// NewMemoryLimiter creates an empty memory-based limiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{entries: make(map[string]*slidingWindowEntry)}
}

func (r *MemoryLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-window)

	entry, ok := r.entries[key]
	if !ok {
		entry = &slidingWindowEntry{}
		r.entries[key] = entry
	}

	// Drop timestamps outside the window.
	kept := entry.timestamps[:0]
	for _, ts := range entry.timestamps {
		if ts.After(windowStart) {
			kept = append(kept, ts)
		}
	}
	entry.timestamps = kept

	if len(entry.timestamps) >= limit {
		return false, 0, nil
	}

	entry.timestamps = append(entry.timestamps, now)
	return true, limit - len(entry.timestamps), nil
}

func (r *MemoryLimiter) Reset(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
	return nil
}
