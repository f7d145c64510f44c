package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/franciiscocg/Trading212/internal/domain/models"
)

type entry struct {
	rec      models.SentimentRecord
	storedAt time.Time
	ttl      time.Duration
}

func (e entry) expired(now time.Time) bool {
	return e.ttl > 0 && !now.Before(e.storedAt.Add(e.ttl))
}

// MemoryCache is the default in-process ResultCache.
type MemoryCache struct {
	mu     sync.RWMutex
	m      map[string]entry
	hits   int64
	misses int64
	now    func() time.Time
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{m: make(map[string]entry), now: time.Now}
}

// WithClock overrides the time source, for tests.
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.now = now
	return c
}

func (c *MemoryCache) Get(key string) (models.SentimentRecord, bool) {
	now := c.now()
	c.mu.RLock()
	e, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		c.miss()
		return models.SentimentRecord{}, false
	}
	if e.expired(now) {
		// lazy eviction
		c.mu.Lock()
		if cur, still := c.m[key]; still && cur.expired(now) {
			delete(c.m, key)
		}
		c.mu.Unlock()
		c.miss()
		return models.SentimentRecord{}, false
	}
	c.hit()
	return e.rec, true
}

func (c *MemoryCache) Put(key string, rec models.SentimentRecord, ttl time.Duration) {
	c.mu.Lock()
	c.m[key] = entry{rec: rec, storedAt: c.now(), ttl: ttl}
	c.mu.Unlock()
}

func (c *MemoryCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.m, key)
	c.mu.Unlock()
}

func (c *MemoryCache) Clear(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prefix == "" {
		c.m = make(map[string]entry)
		return
	}
	for k := range c.m {
		if strings.HasPrefix(k, prefix) {
			delete(c.m, k)
		}
	}
}

func (c *MemoryCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Entries: len(c.m), Hits: c.hits, Misses: c.misses}
}

func (c *MemoryCache) hit() {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
}

func (c *MemoryCache) miss() {
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
}
