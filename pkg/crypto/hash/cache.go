package hash

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// DefaultTTL is the default lifetime of a cached entry.
const DefaultTTL = time.Hour

type cacheEntry struct {
	value     util256Bytes
	size      int
	expiresAt time.Time
}

type util256Bytes = []byte

// Cache is a thread-safe, count- and byte-bounded, TTL-expiring cache for
// already-computed hashes. It is an optimization only: correctness of any
// caller never depends on a hit. The zero value is not usable; use
// NewCache.
type Cache struct {
	mu        sync.Mutex
	lru       *lru.Cache
	ttl       time.Duration
	maxBytes  int
	curBytes  int
}

// NewCache creates a Cache bounded by maxEntries (LRU eviction by last
// access) and maxBytes (total value size, evicting oldest entries once
// exceeded). A zero ttl means DefaultTTL.
func NewCache(maxEntries, maxBytes int, ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{ttl: ttl, maxBytes: maxBytes}
	inner, err := lru.NewWithEvict(maxEntries, c.onEvict)
	if err != nil {
		return nil, err
	}
	c.lru = inner
	return c, nil
}

func (c *Cache) onEvict(_ interface{}, value interface{}) {
	if e, ok := value.(*cacheEntry); ok {
		c.curBytes -= e.size
	}
}

// Get returns the cached value for key, or (nil, false) if absent or
// expired. An expired entry is evicted lazily on lookup.
func (c *Cache) Get(key interface{}) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	e := v.(*cacheEntry)
	if time.Now().After(e.expiresAt) {
		c.lru.Remove(key)
		return nil, false
	}
	return e.value, true
}

// Put inserts or replaces the value for key, evicting older entries if
// the byte budget is exceeded.
func (c *Cache) Put(key interface{}, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := &cacheEntry{value: value, size: len(value), expiresAt: time.Now().Add(c.ttl)}
	if old, ok := c.lru.Peek(key); ok {
		c.curBytes -= old.(*cacheEntry).size
	}
	c.lru.Add(key, e)
	c.curBytes += len(value)
	for c.maxBytes > 0 && c.curBytes > c.maxBytes && c.lru.Len() > 1 {
		c.lru.RemoveOldest()
	}
}

// Len returns the number of entries currently cached (including any not
// yet lazily expired).
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
