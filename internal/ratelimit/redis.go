package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// admitScript runs eviction, count and append as one server-side step, so
// concurrent requests for the same key can never both sneak under the limit.
// KEYS[1] bucket, ARGV: cutoff-ms, max, now-ms, member, ttl-ms.
var admitScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
if redis.call('ZCARD', KEYS[1]) < tonumber(ARGV[2]) then
    redis.call('ZADD', KEYS[1], ARGV[3], ARGV[4])
    redis.call('PEXPIRE', KEYS[1], ARGV[5])
    return 1
end
return 0
`)

// RedisStore keeps each bucket as a sorted set scored by attempt time, with
// the bucket TTL'd to the window so idle identifiers expire on their own.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

type RedisOption func(*RedisStore)

func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = strings.Trim(prefix, ":") }
}

func NewRedisStore(rdb *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{rdb: rdb, prefix: "ratelimit:bucket"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) Admit(ctx context.Context, key string, now time.Time, window time.Duration, max int) (bool, error) {
	nowMs := now.UnixMilli()
	cutoffMs := now.Add(-window).UnixMilli()
	// Member must be unique even when two attempts share a millisecond.
	member := fmt.Sprintf("%d-%s", nowMs, uuid.NewString())

	res, err := admitScript.Run(ctx, s.rdb,
		[]string{s.prefix + ":" + key},
		cutoffMs, max, nowMs, member, window.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit admit failed: %w", err)
	}
	return res == 1, nil
}
