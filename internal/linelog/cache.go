package linelog

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of checkout results kept by DefaultCache.
const DefaultCacheSize = 4096

// DefaultCache is shared by every LineLog that was not given its own cache.
var DefaultCache = mustNewCache(DefaultCacheSize)

// cacheKey identifies one execution result. Single-revision and range
// queries never share a key.
type cacheKey struct {
	program uint64
	rev     Rev
	start   Rev
	ranged  bool
}

// Stats counts cache lookups since the last reset.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// Cache memoizes execution results by program identity and query. It is
// safe for concurrent use; racing computations of the same key store
// identical values.
type Cache struct {
	entries *lru.Cache[cacheKey, []Line]
	hits    atomic.Int64
	misses  atomic.Int64
}

// NewCache returns a cache holding at most size results.
func NewCache(size int) (*Cache, error) {
	entries, err := lru.New[cacheKey, []Line](size)
	if err != nil {
		return nil, fmt.Errorf("create execution cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

func mustNewCache(size int) *Cache {
	c, err := NewCache(size)
	if err != nil {
		panic(err)
	}
	return c
}

// get returns the stored lines for key. The slice is shared and must not be
// modified.
func (c *Cache) get(key cacheKey) ([]Line, bool) {
	lines, ok := c.entries.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return lines, ok
}

func (c *Cache) put(key cacheKey, lines []Line) {
	c.entries.Add(key, lines)
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// ResetStats zeroes the hit and miss counters.
func (c *Cache) ResetStats() {
	c.hits.Store(0)
	c.misses.Store(0)
}

// Purge drops every stored result. Counters are kept.
func (c *Cache) Purge() {
	c.entries.Purge()
}

// Len returns the number of stored results.
func (c *Cache) Len() int {
	return c.entries.Len()
}
