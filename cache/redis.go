// Package cache provides the ephemeral key-value store used for cache
// mirrors, web sessions and counters.
//
// Two implementations are provided: RedisStore for deployments and
// MemoryStore for tests and single-node development. Both satisfy
// domain.KeyValueStore and report a clean miss as (nil, false, nil);
// connectivity failures are wrapped errors the caller propagates.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cargoexpress/cargoexpress/domain"
)

// RedisStore implements domain.KeyValueStore on a Redis client.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed store. All keys are namespaced under
// the prefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "cargo:"
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis cache: get failed: %w", err)
	}
	return val, true, nil
}

func (s *RedisStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return s.Delete(ctx, key)
	}
	if err := s.client.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("redis cache: set failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis cache: delete failed: %w", err)
	}
	return nil
}

var _ domain.KeyValueStore = (*RedisStore)(nil)
