package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/GriffinCanCode/AgentFS/types"
)

// Construction defaults.
const (
	DefaultMaxEntries = 256
	DefaultMaxBytes   = 64 * 1024 * 1024
	DefaultTTL        = time.Hour
)

type entry struct {
	key         string
	data        []byte
	timestamp   time.Time
	accessCount int64
}

// ByteCache is a bounded LRU cache of raw file bytes keyed by
// sandbox-relative path. Bounded by entry count, total bytes, and per-entry
// TTL; expired entries read as absent.
type ByteCache struct {
	mu         sync.Mutex
	maxEntries int
	maxBytes   int64
	ttl        time.Duration
	order      *list.List // front is least recently used
	index      map[string]*list.Element
	totalBytes int64
	hits       int64
	misses     int64
}

// New creates a cache with the given bounds.
func New(maxEntries int, maxBytes int64, ttl time.Duration) *ByteCache {
	return &ByteCache{
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
		ttl:        ttl,
		order:      list.New(),
		index:      make(map[string]*list.Element),
	}
}

// NewDefault creates a cache with the default bounds.
func NewDefault() *ByteCache {
	return New(DefaultMaxEntries, DefaultMaxBytes, DefaultTTL)
}

// Get returns the cached bytes for key. Expired entries are removed and
// reported as a miss. A hit refreshes the entry's recency.
func (c *ByteCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[key]
	if !ok {
		c.misses++
		return nil, false
	}
	ent := el.Value.(*entry)
	if time.Since(ent.timestamp) > c.ttl {
		c.removeElement(el)
		c.misses++
		return nil, false
	}
	ent.accessCount++
	c.order.MoveToBack(el)
	c.hits++
	return ent.data, true
}

// Put stores data under key, replacing any previous entry, then evicts until
// the bounds hold: expired entries first, then by count, then by total bytes,
// least recently used first.
func (c *ByteCache) Put(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[key]; ok {
		c.removeElement(el)
	}
	el := c.order.PushBack(&entry{key: key, data: data, timestamp: time.Now()})
	c.index[key] = el
	c.totalBytes += int64(len(data))

	c.evict()
}

// Delete removes key if present.
func (c *ByteCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[key]; ok {
		c.removeElement(el)
	}
}

// Clear drops every entry and resets the hit/miss counters.
func (c *ByteCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.index = make(map[string]*list.Element)
	c.totalBytes = 0
	c.hits = 0
	c.misses = 0
}

// Len reports the current entry count.
func (c *ByteCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

// Stats snapshots the cache counters. HitRate is a percentage.
func (c *ByteCache) Stats() types.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var hitRate float64
	if total := c.hits + c.misses; total > 0 {
		hitRate = float64(c.hits) / float64(total) * 100
	}
	return types.CacheStats{
		Entries:    len(c.index),
		TotalBytes: c.totalBytes,
		MaxEntries: c.maxEntries,
		MaxBytes:   c.maxBytes,
		Hits:       c.hits,
		Misses:     c.misses,
		HitRate:    hitRate,
		TTLSeconds: int(c.ttl / time.Second),
	}
}

func (c *ByteCache) removeElement(el *list.Element) {
	ent := c.order.Remove(el).(*entry)
	delete(c.index, ent.key)
	c.totalBytes -= int64(len(ent.data))
}

func (c *ByteCache) evict() {
	for el := c.order.Front(); el != nil; {
		next := el.Next()
		if time.Since(el.Value.(*entry).timestamp) > c.ttl {
			c.removeElement(el)
		}
		el = next
	}
	for len(c.index) > c.maxEntries {
		c.removeElement(c.order.Front())
	}
	for c.totalBytes > c.maxBytes && c.order.Len() > 0 {
		c.removeElement(c.order.Front())
	}
}
