package embcache

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits   uint64
	Misses uint64
	Size   int
}

// Cache is a bounded LRU for text embeddings with per-entry TTL. It is the
// only state shared across concurrent requests, created once at startup.
type Cache struct {
	maxEntries int
	ttl        time.Duration

	mu      sync.Mutex
	entries map[string]*list.Element
	lru     *list.List
	hits    uint64
	misses  uint64

	now func() time.Time // injectable for TTL tests
}

type cacheEntry struct {
	key       string
	vec       []float32
	expiresAt time.Time
}

// NewCache creates an empty cache bounded at maxEntries with the given TTL.
func NewCache(maxEntries int, ttl time.Duration) *Cache {
	return &Cache{
		maxEntries: maxEntries,
		ttl:        ttl,
		entries:    make(map[string]*list.Element),
		lru:        list.New(),
		now:        time.Now,
	}
}

// Key normalizes query text so texts differing only in case or surrounding
// whitespace share a cache entry.
func Key(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Get returns the cached embedding for the normalized text, if present and
// not expired.
func (c *Cache) Get(text string) ([]float32, bool) {
	key := Key(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}

	entry := elem.Value.(*cacheEntry)
	if c.now().After(entry.expiresAt) {
		c.lru.Remove(elem)
		delete(c.entries, key)
		c.misses++
		return nil, false
	}

	c.lru.MoveToFront(elem)
	c.hits++
	return entry.vec, true
}

// Put stores the embedding under the normalized text, evicting the
// least-recently-used entry when at capacity.
func (c *Cache) Put(text string, vec []float32) {
	key := Key(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	expires := c.now().Add(c.ttl)

	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		entry := elem.Value.(*cacheEntry)
		entry.vec = vec
		entry.expiresAt = expires
		return
	}

	elem := c.lru.PushFront(&cacheEntry{key: key, vec: vec, expiresAt: expires})
	c.entries[key] = elem

	if c.lru.Len() > c.maxEntries {
		oldest := c.lru.Back()
		if oldest != nil {
			c.lru.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}
}

// Stats returns a snapshot of hit/miss counters and current size.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Hits: c.hits, Misses: c.misses, Size: c.lru.Len()}
}
