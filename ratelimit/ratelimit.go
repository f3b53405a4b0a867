// Package ratelimit implements per-key sliding-window admission control.
// Windows are pruned lazily on every check, so the limiter is self-cleaning
// and needs no background sweep.
package ratelimit

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Limiter admits at most maxRequests calls per key within a trailing window.
// Keys are typically "provider:query" pairs, so one throttled provider-query
// combination never blocks unrelated traffic.
type Limiter struct {
	mu          sync.Mutex
	maxRequests int
	window      time.Duration
	windows     map[string][]time.Time
	log         zerolog.Logger
}

// New creates a limiter admitting maxRequests calls per key per window.
func New(maxRequests int, window time.Duration, logger zerolog.Logger) *Limiter {
	return &Limiter{
		maxRequests: maxRequests,
		window:      window,
		windows:     make(map[string][]time.Time),
		log:         logger.With().Str("component", "ratelimit").Logger(),
	}
}

// Allow reports whether a call for key is admitted right now. An admitted
// call is recorded in the key's window; a rejected call leaves the window
// untouched.
func (l *Limiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.pruneLocked(key, now)
	if len(kept) >= l.maxRequests {
		l.log.Warn().
			Str("key", key).
			Int("count", len(kept)).
			Int("max", l.maxRequests).
			Msg("rate limit exceeded")
		return false
	}

	l.windows[key] = append(kept, now)
	return true
}

// WaitTime returns how long the caller has to wait before a call for key
// would be admitted. Zero means the key is under its limit.
func (l *Limiter) WaitTime(key string) time.Duration {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.pruneLocked(key, now)
	if len(kept) < l.maxRequests {
		return 0
	}

	wait := kept[0].Add(l.window).Sub(now)
	if wait < 0 {
		wait = 0
	}
	return wait
}

// pruneLocked drops timestamps older than the window and stores the kept
// slice back. Caller must hold l.mu. Timestamps are appended in order, so
// the kept slice stays sorted and its first element is the oldest.
func (l *Limiter) pruneLocked(key string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	kept := l.windows[key][:0]
	for _, t := range l.windows[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	l.windows[key] = kept
	return kept
}

// Reset clears the window for one key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
	l.log.Info().Str("key", key).Msg("rate limiter reset")
}

// ResetAll clears every window.
func (l *Limiter) ResetAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.windows = make(map[string][]time.Time)
	l.log.Info().Msg("rate limiter reset for all keys")
}
