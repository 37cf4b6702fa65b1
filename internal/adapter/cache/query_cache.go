package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"newsir/internal/domain"
	"newsir/internal/port"
)

// QueryCache is an LRU cache of solved queries with a time-to-live. Entries
// written before the last Invalidate are never returned.
type QueryCache struct {
	mu       sync.RWMutex
	entries  map[string]*cacheEntry
	order    []string
	maxSize  int
	ttl      time.Duration
	indexGen uint64
}

type cacheEntry struct {
	result    domain.Result
	timestamp time.Time
	indexGen  uint64
}

func NewQueryCache(maxSize int, ttl time.Duration) *QueryCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &QueryCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func cacheKey(query string, variant string) string {
	data := []byte(query)
	data = append(data, 0)
	data = append(data, variant...)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:16])
}

func (c *QueryCache) Get(query string, variant string) (domain.Result, bool) {
	c.mu.RLock()
	key := cacheKey(query, variant)
	entry, exists := c.entries[key]
	currentGen := c.indexGen
	c.mu.RUnlock()

	if !exists {
		return domain.Result{}, false
	}

	if time.Since(entry.timestamp) > c.ttl || entry.indexGen != currentGen {
		c.mu.Lock()
		if c.entries[key] == entry {
			delete(c.entries, key)
			c.removeFromOrder(key)
		}
		c.mu.Unlock()
		return domain.Result{}, false
	}

	c.mu.Lock()
	c.moveToEnd(key)
	c.mu.Unlock()

	return entry.result, true
}

func (c *QueryCache) Put(query string, variant string, result domain.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(query, variant)

	if _, exists := c.entries[key]; exists {
		c.entries[key] = &cacheEntry{
			result:    result,
			timestamp: time.Now(),
			indexGen:  c.indexGen,
		}
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = &cacheEntry{
		result:    result,
		timestamp: time.Now(),
		indexGen:  c.indexGen,
	}
	c.order = append(c.order, key)
}

// Invalidate drops every entry. It is called when a new index replaces the
// one the cached results were computed from.
func (c *QueryCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.order = c.order[:0]
	c.indexGen++
}

func (c *QueryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *QueryCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *QueryCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *QueryCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// CachedSearcher memoizes a Searcher. variant distinguishes searchers whose
// answers differ for the same query text, such as stemmed and exact lookup.
// Failed queries are not cached.
type CachedSearcher struct {
	searcher port.Searcher
	cache    *QueryCache
	variant  string
}

func NewCachedSearcher(searcher port.Searcher, cache *QueryCache, variant string) *CachedSearcher {
	return &CachedSearcher{
		searcher: searcher,
		cache:    cache,
		variant:  variant,
	}
}

func (s *CachedSearcher) Solve(query string) (domain.Result, error) {
	if result, hit := s.cache.Get(query, s.variant); hit {
		return result, nil
	}

	result, err := s.searcher.Solve(query)
	if err != nil {
		return result, err
	}

	s.cache.Put(query, s.variant, result)

	return result, nil
}
