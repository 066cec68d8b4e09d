package guard

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// hitScript implements the same window semantics as MemoryRateLimitStore
// atomically on the Redis side. State per key is a hash of
// {count, reset_at (unix millis), blocked}; expiry is handled with PEXPIRE so
// Redis sweeps stale entries itself.
var hitScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max_attempts = tonumber(ARGV[3])
local block = tonumber(ARGV[4])

local fields = redis.call('HMGET', KEYS[1], 'count', 'reset_at', 'blocked')
local count = tonumber(fields[1])
local reset_at = tonumber(fields[2])
local blocked = fields[3] == '1'

if not count or now > reset_at then
  reset_at = now + window
  redis.call('HSET', KEYS[1], 'count', 1, 'reset_at', reset_at, 'blocked', 0)
  redis.call('PEXPIRE', KEYS[1], window + block)
  return {1, max_attempts - 1, reset_at}
end

if blocked then
  return {0, 0, reset_at}
end

count = count + 1
if count > max_attempts then
  reset_at = reset_at + block
  redis.call('HSET', KEYS[1], 'count', count, 'reset_at', reset_at, 'blocked', 1)
  redis.call('PEXPIRE', KEYS[1], reset_at - now)
  return {0, 0, reset_at}
end

redis.call('HSET', KEYS[1], 'count', count)
return {1, max_attempts - count, reset_at}
`)

// RedisRateLimitStore implements RateLimitStore on Redis so multiple
// instances share one attempt window per identifier.
type RedisRateLimitStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisRateLimitStore creates a Redis-backed store. Keys are namespaced
// with the given prefix ("ratelimit" when empty).
func NewRedisRateLimitStore(client redis.UniversalClient, prefix string) *RedisRateLimitStore {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisRateLimitStore{client: client, prefix: prefix}
}

// Hit implements RateLimitStore via a Lua script, keeping the
// check-then-increment atomic per key across instances.
func (s *RedisRateLimitStore) Hit(ctx context.Context, key string, now time.Time, cfg RateLimitConfig) (*RateLimitResult, error) {
	res, err := hitScript.Run(ctx, s.client, []string{s.key(key)},
		now.UnixMilli(),
		cfg.Window.Milliseconds(),
		cfg.MaxAttempts,
		cfg.BlockDuration.Milliseconds(),
	).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit script: %w", err)
	}

	values, ok := res.([]any)
	if !ok || len(values) != 3 {
		return nil, fmt.Errorf("rate limit script: unexpected reply %v", res)
	}

	allowed, ok1 := values[0].(int64)
	remaining, ok2 := values[1].(int64)
	resetAt, ok3 := values[2].(int64)
	if !ok1 || !ok2 || !ok3 {
		return nil, fmt.Errorf("rate limit script: unexpected reply types %v", res)
	}

	return &RateLimitResult{
		Allowed:   allowed == 1,
		Remaining: int(remaining),
		ResetAt:   time.UnixMilli(resetAt),
	}, nil
}

// Reset implements RateLimitStore.
func (s *RedisRateLimitStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("rate limit reset: %w", err)
	}
	return nil
}

func (s *RedisRateLimitStore) key(key string) string {
	return s.prefix + ":" + key
}
