// Package janitor runs the best-effort sweep that deletes expired
// session-like keys.
//
// The sweep is a low-priority cleanup, not a correctness mechanism: every
// read independently re-checks its absolute deadline, and Redis evicts by
// TTL on its own. The janitor exists so in-memory stores do not accumulate
// dead entries between reads.
package janitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/cargoexpress/cargoexpress/logger"
)

// Sweeper removes expired entries relative to now and reports how many
// were dropped. cache.MemoryStore satisfies it.
type Sweeper interface {
	Sweep(now time.Time) int
}

// Janitor periodically sweeps its registered stores.
type Janitor struct {
	interval time.Duration
	sweepers []Sweeper
	now      func() time.Time
}

// New creates a janitor. A non-positive interval falls back to ten minutes.
func New(interval time.Duration, sweepers ...Sweeper) *Janitor {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Janitor{
		interval: interval,
		sweepers: sweepers,
		now:      time.Now,
	}
}

// Run sweeps on every tick until the context is cancelled. It is meant to
// be launched as a goroutine by the process entry point.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := j.RunOnce(); removed > 0 {
				logger.Log.Debug("janitor sweep", zap.Int("removed", removed))
			}
		}
	}
}

// RunOnce sweeps all registered stores immediately and returns the total
// number of removed entries.
func (j *Janitor) RunOnce() int {
	now := j.now()
	total := 0
	for _, s := range j.sweepers {
		total += s.Sweep(now)
	}
	return total
}
