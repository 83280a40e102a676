package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter implements Limiter using Redis for multi-process
// deployments.
type RedisLimiter struct {
	client *redis.Client
	prefix string
}

// NewRedisLimiter creates a Redis-based limiter.
func NewRedisLimiter(client *redis.Client, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "cargo:ratelimit:"
	}
	return &RedisLimiter{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisLimiter) key(k string) string {
	return r.prefix + k
}

// Allow checks the request with a sliding window log held in a sorted set.
func (r *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	redisKey := r.key(key)
	now := time.Now()
	windowStart := now.Add(-window)

	// Lua keeps the prune-count-add sequence atomic.
	script := redis.NewScript(`
		local key = KEYS[1]
		local now = tonumber(ARGV[1])
		local window_start = tonumber(ARGV[2])
		local limit = tonumber(ARGV[3])
		local window_ms = tonumber(ARGV[4])

		redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

		local count = redis.call('ZCARD', key)

		if count >= limit then
			return {0, 0}
		end

		redis.call('ZADD', key, now, now .. ':' .. math.random())
		redis.call('PEXPIRE', key, window_ms)

		local remaining = limit - count - 1
		return {1, remaining}
	`)

	result, err := script.Run(ctx, r.client, []string{redisKey},
		now.UnixMilli(),
		windowStart.UnixMilli(),
		limit,
		window.Milliseconds(),
	).Result()
	if err != nil {
		return false, 0, fmt.Errorf("redis rate limit: allow check failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) != 2 {
		return false, 0, fmt.Errorf("redis rate limit: unexpected result format")
	}

	allowed := arr[0].(int64) == 1
	remaining := int(arr[1].(int64))

	return allowed, remaining, nil
}

func (r *RedisLimiter) Reset(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis rate limit: reset failed: %w", err)
	}
	return nil
}

var _ Limiter = (*RedisLimiter)(nil)
