package team

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CacheStats is a point-in-time snapshot of cache counters.
type CacheStats struct {
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
	Size      int    `json:"size"`
}

// Cache stores team records by id. Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the record for id and counts a hit or a miss.
	Get(id string) (*Record, bool)
	// Peek returns the record for id without touching recency or counters.
	Peek(id string) (*Record, bool)
	Add(id string, rec *Record)
	Remove(id string)
	Keys() []string
	Len() int
	Stats() CacheStats
}

// LRUCache is a size-bounded cache whose entries expire after a fixed TTL.
type LRUCache struct {
	lru       *expirable.LRU[string, *Record]
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewLRUCache creates a cache holding at most size entries. A ttl of zero
// keeps entries until they are evicted for capacity.
func NewLRUCache(size int, ttl time.Duration) (*LRUCache, error) {
	if size <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", size)
	}
	if ttl < 0 {
		return nil, fmt.Errorf("cache ttl must not be negative, got %s", ttl)
	}
	return &LRUCache{lru: expirable.NewLRU[string, *Record](size, nil, ttl)}, nil
}

// Get returns the record for id and counts a hit or a miss.
func (c *LRUCache) Get(id string) (*Record, bool) {
	rec, ok := c.lru.Get(id)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return rec, ok
}

// Peek returns the record for id without touching recency or counters.
func (c *LRUCache) Peek(id string) (*Record, bool) {
	return c.lru.Peek(id)
}

// Add stores rec under id, evicting the least recently used entry when full.
func (c *LRUCache) Add(id string, rec *Record) {
	if c.lru.Add(id, rec) {
		c.evictions.Add(1)
	}
}

func (c *LRUCache) Remove(id string) {
	c.lru.Remove(id)
}

// Keys returns the ids of live entries, oldest first.
func (c *LRUCache) Keys() []string {
	return c.lru.Keys()
}

func (c *LRUCache) Len() int {
	return c.lru.Len()
}

// Stats returns a snapshot of the cache counters.
func (c *LRUCache) Stats() CacheStats {
	return CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Size:      c.lru.Len(),
	}
}
