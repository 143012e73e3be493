package deepseek

import (
	"sync"
	"time"

	"NewsPulse/internal/domain"
)

type cacheEntry struct {
	result   domain.AnalysisResult
	storedAt time.Time
}

// ResultCache memoizes analysis results for a bounded TTL. In-process only;
// nothing survives a restart, which is fine because the store holds the
// durable copy.
type ResultCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	cap     int
	now     func() time.Time
}

func newResultCache(ttl time.Duration, size int) *ResultCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if size <= 0 {
		size = 512
	}
	return &ResultCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		cap:     size,
		now:     time.Now,
	}
}

// Get returns a still-valid memoized result.
func (c *ResultCache) Get(key string) (domain.AnalysisResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return domain.AnalysisResult{}, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, key)
		return domain.AnalysisResult{}, false
	}
	return entry.result, true
}

// Put stores a result, evicting expired entries first and the oldest entry
// when the cache is still at capacity.
func (c *ResultCache) Put(key string, result domain.AnalysisResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.cap {
		c.evictLocked()
	}
	c.entries[key] = cacheEntry{result: result, storedAt: c.now()}
}

// Len reports the number of held entries, expired or not.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ResultCache) evictLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.Sub(entry.storedAt) > c.ttl {
			delete(c.entries, key)
		}
	}
	if len(c.entries) < c.cap {
		return
	}

	var (
		oldestKey string
		oldestAt  time.Time
	)
	for key, entry := range c.entries {
		if oldestKey == "" || entry.storedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.storedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
