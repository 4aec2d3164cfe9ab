package forex

import (
	"sync"
	"time"
)

type cachedRate struct {
	rate      *Rate
	expiresAt time.Time
}

// rateCache is the per-service in-memory TTL cache keyed by currency pair.
// Concurrent writes for the same key are idempotent (last-write-wins on a
// near-identical value), so a plain RWMutex suffices.
type rateCache struct {
	mu      sync.RWMutex
	entries map[string]cachedRate
	ttl     time.Duration

	hitCount  int64
	missCount int64
}

func newRateCache(ttl time.Duration) *rateCache {
	return &rateCache{
		entries: make(map[string]cachedRate),
		ttl:     ttl,
	}
}

func cacheKey(base, quote string) string {
	return base + "/" + quote
}

// get returns the cached rate if present and unexpired.
func (c *rateCache) get(base, quote string) *Rate {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[cacheKey(base, quote)]
	if !ok || time.Now().After(entry.expiresAt) {
		c.missCount++
		return nil
	}
	c.hitCount++
	return entry.rate
}

func (c *rateCache) set(rate *Rate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey(rate.BaseCurrency, rate.QuoteCurrency)] = cachedRate{
		rate:      rate,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Stats returns hit/miss counters for the health endpoint.
func (c *rateCache) stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hitCount, c.missCount
}

func (c *rateCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cachedRate)
}
