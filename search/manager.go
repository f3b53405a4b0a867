package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pcrawfurd/metasearch/cache"
	"github.com/pcrawfurd/metasearch/ratelimit"
)

// Manager coordinates the registered providers behind two execution
// strategies: serial failover (try providers in priority order, first
// non-empty wins) and parallel fan-out (query all providers concurrently,
// merge). It owns the result cache and the rate limiter shared by both.
type Manager struct {
	cache    *cache.Cache[Result]
	limiter  *ratelimit.Limiter
	registry *Registry
	log      zerolog.Logger
}

// ManagerOptions holds the dependencies for a Manager.
type ManagerOptions struct {
	Cache    *cache.Cache[Result]
	Limiter  *ratelimit.Limiter
	Registry *Registry
	Logger   zerolog.Logger
}

// NewManager creates a manager from its options.
func NewManager(opts ManagerOptions) *Manager {
	return &Manager{
		cache:    opts.Cache,
		limiter:  opts.Limiter,
		registry: opts.Registry,
		log:      opts.Logger.With().Str("component", "search").Logger(),
	}
}

// Search runs a request against the requested providers. It never returns
// an error: every failure (unknown provider, rate limit, transport, parse)
// becomes an entry in the response's Errors list and the search degrades to
// whatever providers did succeed. Success is true iff at least one result
// was produced.
func (m *Manager) Search(ctx context.Context, req Request) Response {
	requestID := uuid.NewString()
	log := m.log.With().Str("request_id", requestID).Str("query", req.Query).Logger()

	var (
		results   []Result
		used      []string
		errs      []string
		fromCache bool
	)

	if req.Parallel && len(req.Providers) > 1 {
		results, used, errs = m.searchParallel(ctx, req, log)
	} else {
		results, used, fromCache, errs = m.searchSerial(ctx, req, log)
	}

	if len(results) > 0 {
		before := len(results)
		results = Deduplicate(results)
		log.Debug().Int("before", before).Int("after", len(results)).Msg("deduplicated results")
	}

	return Response{
		Success:       len(results) > 0,
		Results:       results,
		Count:         len(results),
		Query:         req.Query,
		ProvidersUsed: used,
		Parallel:      req.Parallel,
		FromCache:     fromCache,
		Cached:        req.UseCache && len(results) > 0,
		Errors:        errs,
		RequestID:     requestID,
	}
}

// cacheOpts is the canonical option set used for cache keys. Both
// strategies must build it identically or hits would be lost.
func cacheOpts(req Request) map[string]any {
	return map[string]any{
		"max_results": req.MaxResults,
		"news":        req.News,
	}
}

func rateKey(provider, query string) string {
	return provider + ":" + query
}

// searchSerial tries providers in request order and stops at the first one
// that produces results, from cache or live.
func (m *Manager) searchSerial(ctx context.Context, req Request, log zerolog.Logger) (results []Result, used []string, fromCache bool, errs []string) {
	opts := cacheOpts(req)

	for _, name := range req.Providers {
		provider, ok := m.registry.Get(name)
		if !ok {
			errs = append(errs, fmt.Sprintf("unknown provider: %s", name))
			continue
		}

		if !m.limiter.Allow(rateKey(name, req.Query)) {
			wait := m.limiter.WaitTime(rateKey(name, req.Query))
			errs = append(errs, fmt.Sprintf("%s: rate limit exceeded (wait %.1fs)", name, wait.Seconds()))
			log.Warn().Str("provider", name).Dur("wait", wait).Msg("provider rate limited")
			continue
		}

		if req.UseCache {
			if cached, ok := m.cache.Get(name, req.Query, opts); ok {
				log.Info().Str("provider", name).Int("count", len(cached)).Msg("serving from cache")
				return cached, []string{name}, true, errs
			}
		}

		found := provider.Search(ctx, req.Query, req.MaxResults, req.News)
		if len(found) == 0 {
			log.Info().Str("provider", name).Msg("provider returned no results, trying next")
			continue
		}

		if req.UseCache {
			m.cache.Put(name, req.Query, opts, found)
		}
		log.Info().Str("provider", name).Int("count", len(found)).Msg("provider search succeeded")
		return found, []string{name}, false, errs
	}

	return nil, nil, false, errs
}

// contribution is one provider's outcome in the parallel strategy.
type contribution struct {
	provider string
	results  []Result
	err      string
}

// searchParallel queries every requested provider concurrently, one worker
// per provider, and aggregates non-empty contributions in completion order.
// The aggregate is truncated to MaxResults before deduplication.
func (m *Manager) searchParallel(ctx context.Context, req Request, log zerolog.Logger) (results []Result, used []string, errs []string) {
	opts := cacheOpts(req)
	contributions := make(chan contribution, len(req.Providers))

	var wg sync.WaitGroup
	for _, name := range req.Providers {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			// A panic inside result handling must not take down the
			// whole search; it becomes an errors entry like any other
			// provider failure.
			defer func() {
				if r := recover(); r != nil {
					log.Error().Str("provider", name).Interface("panic", r).Msg("provider worker panicked")
					contributions <- contribution{provider: name, err: fmt.Sprintf("%s: %v", name, r)}
				}
			}()
			contributions <- m.searchOne(ctx, name, req, opts, log)
		}(name)
	}
	wg.Wait()
	close(contributions)

	for c := range contributions {
		if c.err != "" {
			errs = append(errs, c.err)
		}
		if len(c.results) == 0 {
			continue
		}
		results = append(results, c.results...)
		used = appendUnique(used, c.provider)
	}

	if req.MaxResults > 0 && len(results) > req.MaxResults {
		results = results[:req.MaxResults]
	}
	return results, used, errs
}

// searchOne performs the rate-check, cache-check, provider-call, cache-store
// sequence for a single provider. Failures never abort sibling workers.
func (m *Manager) searchOne(ctx context.Context, name string, req Request, opts map[string]any, log zerolog.Logger) contribution {
	provider, ok := m.registry.Get(name)
	if !ok {
		return contribution{provider: name, err: fmt.Sprintf("unknown provider: %s", name)}
	}

	if !m.limiter.Allow(rateKey(name, req.Query)) {
		wait := m.limiter.WaitTime(rateKey(name, req.Query))
		log.Warn().Str("provider", name).Dur("wait", wait).Msg("provider rate limited")
		return contribution{
			provider: name,
			err:      fmt.Sprintf("%s: rate limit exceeded (wait %.1fs)", name, wait.Seconds()),
		}
	}

	if req.UseCache {
		if cached, ok := m.cache.Get(name, req.Query, opts); ok {
			return contribution{provider: name, results: cached}
		}
	}

	found := provider.Search(ctx, req.Query, req.MaxResults, req.News)
	if len(found) > 0 && req.UseCache {
		m.cache.Put(name, req.Query, opts, found)
	}
	return contribution{provider: name, results: found}
}

func appendUnique(names []string, name string) []string {
	for _, n := range names {
		if n == name {
			return names
		}
	}
	return append(names, name)
}

// CacheStats returns a snapshot of the result cache.
func (m *Manager) CacheStats() cache.Stats {
	return m.cache.Stats()
}

// ClearCache drops every cached result set and returns the removed count.
func (m *Manager) ClearCache() int {
	return m.cache.Clear()
}
