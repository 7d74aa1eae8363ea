package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps buckets in process. Admit runs under one mutex, which
// is what makes check-and-append atomic here. Fine for a single instance
// and for tests; multi-instance deployments use the redis store.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string][]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string][]time.Time)}
}

func (s *MemoryStore) Admit(_ context.Context, key string, now time.Time, window time.Duration, max int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-window)
	kept := s.buckets[key][:0]
	for _, ts := range s.buckets[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= max {
		s.buckets[key] = kept
		return false, nil
	}
	s.buckets[key] = append(kept, now)
	return true, nil
}

// Cleanup drops buckets whose newest attempt has aged out of the window.
func (s *MemoryStore) Cleanup(now time.Time, window time.Duration) {
	cutoff := now.Add(-window)

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, bucket := range s.buckets {
		if len(bucket) == 0 || !bucket[len(bucket)-1].After(cutoff) {
			delete(s.buckets, key)
		}
	}
}

// StartJanitor expires idle buckets periodically until ctx is done.
func (s *MemoryStore) StartJanitor(ctx context.Context, window time.Duration) {
	t := time.NewTicker(window)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				s.Cleanup(now, window)
			}
		}
	}()
}
