package janitor

import (
	"context"
	"testing"
	"time"

	"github.com/cargoexpress/cargoexpress/cache"
)

func TestRunOnceSweepsExpiredEntries(t *testing.T) {
	store := cache.NewMemoryStore()
	ctx := context.Background()

	store.SetWithTTL(ctx, "live", []byte("v"), time.Hour)
	store.SetWithTTL(ctx, "dead", []byte("v"), time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	j := New(time.Minute, store)
	if removed := j.RunOnce(); removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 live entry, got %d", store.Len())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	j := New(time.Millisecond, cache.NewMemoryStore())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Run(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop on cancel")
	}
}

func TestRunSweepsOnTick(t *testing.T) {
	store := cache.NewMemoryStore()
	ctx := context.Background()

	store.SetWithTTL(ctx, "dead", []byte("v"), time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	j := New(5*time.Millisecond, store)
	go j.Run(runCtx)

	deadline := time.After(time.Second)
	for store.Len() != 0 {
		select {
		case <-deadline:
			t.Fatal("janitor never swept the expired entry")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
