package enrich

import (
	"context"
	"sync"
	"time"
)

// DefaultCacheTTL bounds how long a run snapshot is served before recompute.
const DefaultCacheTTL = 10 * time.Minute

// Runner executes an enrichment run; satisfied by *Pipeline.
type Runner interface {
	Run(ctx context.Context, since time.Time) (*Result, error)
}

// Cache serves run snapshots keyed by the run's lower-bound date. Entries are
// superseded on expiry; there is no partial invalidation.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	sf      singleFlightGroup

	runner Runner
	ttl    time.Duration
}

type cacheEntry struct {
	result   *Result
	loadedAt time.Time
}

// singleFlightGroup prevents thundering herd on concurrent lookups of the
// same expired key. A custom type instead of golang.org/x/sync/singleflight
// so the load can run on a dedicated context rather than the first caller's.
type singleFlightGroup struct {
	mu    sync.Mutex
	calls map[string]*singleFlightCall
}

type singleFlightCall struct {
	wg  sync.WaitGroup
	val *Result
	err error
}

// NewCache wraps a runner with a TTL snapshot cache.
func NewCache(runner Runner, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		entries: make(map[string]*cacheEntry),
		runner:  runner,
		ttl:     ttl,
	}
}

// Get returns the cached run for the given lower-bound date, recomputing it
// when absent or expired. Concurrent callers for the same key share one run.
func (c *Cache) Get(ctx context.Context, since time.Time) (*Result, error) {
	key := since.UTC().Format("2006-01-02")

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		if time.Since(entry.loadedAt) < c.ttl {
			cacheRequests.WithLabelValues("hit").Inc()
			return entry.result, nil
		}
		cacheRequests.WithLabelValues("stale").Inc()
	} else {
		cacheRequests.WithLabelValues("miss").Inc()
	}

	return c.sf.do(key, func() (*Result, error) {
		// Re-check under singleflight: another caller may have just loaded.
		c.mu.RLock()
		entry, ok := c.entries[key]
		c.mu.RUnlock()
		if ok && time.Since(entry.loadedAt) < c.ttl {
			return entry.result, nil
		}

		result, err := c.runner.Run(ctx, since)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = &cacheEntry{result: result, loadedAt: time.Now()}
		c.mu.Unlock()
		return result, nil
	})
}

// Invalidate drops the snapshot for the given lower-bound date, forcing the
// next lookup to recompute. Used by the explicit refresh endpoint.
func (c *Cache) Invalidate(since time.Time) {
	key := since.UTC().Format("2006-01-02")
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (g *singleFlightGroup) do(key string, fn func() (*Result, error)) (*Result, error) {
	g.mu.Lock()
	if g.calls == nil {
		g.calls = make(map[string]*singleFlightCall)
	}
	if call, ok := g.calls[key]; ok {
		g.mu.Unlock()
		call.wg.Wait()
		return call.val, call.err
	}

	call := &singleFlightCall{}
	call.wg.Add(1)
	g.calls[key] = call
	g.mu.Unlock()

	call.val, call.err = fn()
	call.wg.Done()

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()

	return call.val, call.err
}
