package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_SetGetDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.SetWithTTL(ctx, "k1", []byte("v1"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, ok, err := store.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected hit for k1")
	}
	if string(val) != "v1" {
		t.Errorf("expected v1, got %q", val)
	}

	if err := store.Delete(ctx, "k1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	_, ok, _ = store.Get(ctx, "k1")
	if ok {
		t.Error("expected miss after delete")
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.SetWithTTL(ctx, "short", []byte("x"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, ok, err := store.Get(ctx, "short")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ok {
		t.Error("expected expired key to miss")
	}
	if store.Len() != 0 {
		t.Errorf("expected lazy removal, %d entries left", store.Len())
	}
}

func TestMemoryStore_NonPositiveTTLDeletes(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.SetWithTTL(ctx, "k", []byte("v"), time.Minute)
	store.SetWithTTL(ctx, "k", []byte("v"), 0)

	_, ok, _ := store.Get(ctx, "k")
	if ok {
		t.Error("zero TTL should remove the key")
	}
}

func TestMemoryStore_Counters(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Get(ctx, "absent")
	store.SetWithTTL(ctx, "k", []byte("v"), time.Minute)
	store.Get(ctx, "k")
	store.Get(ctx, "k")

	if store.Hits() != 2 {
		t.Errorf("expected 2 hits, got %d", store.Hits())
	}
	if store.Misses() != 1 {
		t.Errorf("expected 1 miss, got %d", store.Misses())
	}
}

func TestMemoryStore_Sweep(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.SetWithTTL(ctx, "live", []byte("v"), time.Hour)
	store.SetWithTTL(ctx, "dead1", []byte("v"), time.Millisecond)
	store.SetWithTTL(ctx, "dead2", []byte("v"), time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	removed := store.Sweep(time.Now())
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 live entry, got %d", store.Len())
	}
}
