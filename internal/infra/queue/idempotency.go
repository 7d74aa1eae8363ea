package queue

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyStore remembers which dispatch keys already completed, so a
// redelivered task is acked instead of re-sent.
type IdempotencyStore interface {
	Done(ctx context.Context, key string) (bool, error)
	MarkDone(ctx context.Context, key string) error
}

type RedisIdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisIdempotencyStore(rdb *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{rdb: rdb, ttl: ttl}
}

func (s *RedisIdempotencyStore) key(k string) string {
	return "dispatch:done:" + k
}

func (s *RedisIdempotencyStore) Done(ctx context.Context, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, s.key(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisIdempotencyStore) MarkDone(ctx context.Context, key string) error {
	return s.rdb.Set(ctx, s.key(key), 1, s.ttl).Err()
}

// MemoryIdempotencyStore backs tests and single-instance deployments
// without redis.
type MemoryIdempotencyStore struct {
	mu   sync.Mutex
	done map[string]struct{}
}

func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{done: make(map[string]struct{})}
}

func (s *MemoryIdempotencyStore) Done(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.done[key]
	return ok, nil
}

func (s *MemoryIdempotencyStore) MarkDone(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done[key] = struct{}{}
	return nil
}
