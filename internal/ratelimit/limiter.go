// Package ratelimit holds the sliding-window admission control that gates
// every inbound submission. The decision logic lives here; stores carry the
// bucket state and must make check-and-append a single atomic step.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Store persists one bucket of attempt timestamps per key.
type Store interface {
	// Admit evicts entries older than the window, then appends now and
	// returns true iff fewer than max remain. Eviction, count and append
	// happen atomically per key; a denied call leaves the bucket untouched.
	Admit(ctx context.Context, key string, now time.Time, window time.Duration, max int) (bool, error)
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SlidingWindow admits at most max attempts per identifier inside a trailing
// window. Identifiers are hashed before they become store keys, so raw IPs
// never land in redis or logs.
type SlidingWindow struct {
	store  Store
	max    int
	window time.Duration
	clock  Clock
}

type Option func(*SlidingWindow)

func WithClock(c Clock) Option {
	return func(l *SlidingWindow) { l.clock = c }
}

func New(store Store, max int, window time.Duration, opts ...Option) *SlidingWindow {
	l := &SlidingWindow{store: store, max: max, window: window, clock: systemClock{}}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *SlidingWindow) Allow(ctx context.Context, identifier string) (bool, error) {
	return l.store.Admit(ctx, HashIdentifier(identifier), l.clock.Now(), l.window, l.max)
}

func HashIdentifier(identifier string) string {
	sum := sha256.Sum256([]byte(identifier))
	return hex.EncodeToString(sum[:])
}
