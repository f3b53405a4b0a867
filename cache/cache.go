// Package cache provides an in-memory result cache with TTL-based
// expiration and a fixed capacity. Expired entries are dropped lazily on
// access; there is no background sweeper.
package cache

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// entry is one cached result set with its lifetime metadata.
// Entries are immutable once stored; a refresh writes a new entry.
type entry[T any] struct {
	results   []T
	createdAt time.Time
	expiresAt time.Time
}

// Stats is a snapshot of the cache state and its lifetime counters.
type Stats struct {
	TotalEntries   int     `json:"total_entries"`
	ActiveEntries  int     `json:"active_entries"`
	ExpiredEntries int     `json:"expired_entries"`
	Hits           int64   `json:"hits"`
	Misses         int64   `json:"misses"`
	HitRate        float64 `json:"hit_rate"`
	MaxSize        int     `json:"max_size"`
	TTLSeconds     int     `json:"ttl_seconds"`
}

// Cache is a mutex-guarded map from a stable request key to a result set.
// Hit and miss counters are monotonic for the process lifetime.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]entry[T]
	ttl     time.Duration
	maxSize int
	hits    int64
	misses  int64
	log     zerolog.Logger
}

// New creates a cache holding at most maxSize entries, each valid for ttl.
func New[T any](ttl time.Duration, maxSize int, logger zerolog.Logger) *Cache[T] {
	return &Cache[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
		maxSize: maxSize,
		log:     logger.With().Str("component", "cache").Logger(),
	}
}

// Get retrieves the cached results for a (provider, query, options) request.
// An expired entry is deleted and reported as a miss.
func (c *Cache[T]) Get(provider, query string, opts map[string]any) ([]T, bool) {
	key := Key(provider, query, opts)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if !time.Now().Before(e.expiresAt) {
		delete(c.entries, key)
		c.misses++
		c.log.Debug().Str("provider", provider).Str("query", query).Msg("cache entry expired")
		return nil, false
	}

	c.hits++
	c.log.Debug().Str("provider", provider).Str("query", query).Msg("cache hit")
	return e.results, true
}

// Put stores the results for a (provider, query, options) request. When the
// cache is full, the single oldest entry by creation time is evicted first.
func (c *Cache[T]) Put(provider, query string, opts map[string]any, results []T) {
	key := Key(provider, query, opts)
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		c.evictOldestLocked()
	}

	c.entries[key] = entry[T]{
		results:   results,
		createdAt: now,
		expiresAt: now.Add(c.ttl),
	}
}

// evictOldestLocked removes the entry with the smallest createdAt.
// Caller must hold c.mu.
func (c *Cache[T]) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.createdAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.createdAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
		c.log.Debug().Msg("cache full, evicted oldest entry")
	}
}

// Clear drops all entries and returns how many were removed.
// The hit/miss counters are not reset.
func (c *Cache[T]) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.entries)
	c.entries = make(map[string]entry[T])
	c.log.Info().Int("removed", n).Msg("cache cleared")
	return n
}

// Stats returns a snapshot of the cache contents and counters. Entries that
// have expired but have not been touched since are counted as expired.
func (c *Cache[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	expired := 0
	for _, e := range c.entries {
		if !now.Before(e.expiresAt) {
			expired++
		}
	}

	total := len(c.entries)
	requests := c.hits + c.misses
	rate := 0.0
	if requests > 0 {
		rate = float64(c.hits) / float64(requests) * 100
	}

	return Stats{
		TotalEntries:   total,
		ActiveEntries:  total - expired,
		ExpiredEntries: expired,
		Hits:           c.hits,
		Misses:         c.misses,
		HitRate:        rate,
		MaxSize:        c.maxSize,
		TTLSeconds:     int(c.ttl.Seconds()),
	}
}
