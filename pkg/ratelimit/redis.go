package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// tokenBucketScript refills and consumes atomically on the Redis side.
// KEYS[1] bucket key; ARGV capacity, refill per second, now in ms, ttl in ms.
var tokenBucketScript = redis.NewScript(`
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local tokens = tonumber(redis.call('HGET', KEYS[1], 'tokens'))
local ts = tonumber(redis.call('HGET', KEYS[1], 'ts'))
if tokens == nil or ts == nil then
  tokens = capacity
  ts = now
end

local elapsed = math.max(0, now - ts) / 1000
tokens = math.min(capacity, tokens + elapsed * rate)

local allowed = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
end

redis.call('HSET', KEYS[1], 'tokens', tostring(tokens))
redis.call('HSET', KEYS[1], 'ts', tostring(now))
redis.call('PEXPIRE', KEYS[1], ttl)
return allowed
`)

// RedisLimiter shares token buckets between console instances through Redis.
type RedisLimiter struct {
	client     redis.UniversalClient
	prefix     string
	capacity   float64
	refillRate float64
	now        func() time.Time
}

// NewRedis creates a Redis-backed token bucket limiter.
func NewRedis(client redis.UniversalClient, prefix string, capacity, refillPerSec float64) *RedisLimiter {
	return &RedisLimiter{
		client:     client,
		prefix:     prefix,
		capacity:   capacity,
		refillRate: refillPerSec,
		now:        time.Now,
	}
}

// Allow consumes one token for key when available.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	// Keep idle buckets around until they would be full again.
	ttl := int64(math.Ceil(l.capacity/l.refillRate*1000)) + 1000
	now := l.now().UnixMilli()

	res, err := tokenBucketScript.Run(ctx, l.client, []string{l.wrapKey(key)},
		l.capacity, l.refillRate, now, ttl).Int()
	if err != nil {
		return false, fmt.Errorf("ratelimit script: %w", err)
	}
	return res == 1, nil
}

func (l *RedisLimiter) wrapKey(key string) string {
	if l.prefix == "" {
		return key
	}
	return l.prefix + ":" + key
}
