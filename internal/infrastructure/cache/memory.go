package cache

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/bharatpricing/backend/internal/domain"
)

// maxKeyLength bounds cache key size; longer keys collapse to a hash.
const maxKeyLength = 100

// cacheItem represents a single item in the cache with expiration
type cacheItem struct {
	Value      interface{}
	Expiration time.Time
}

// Stats is a point-in-time snapshot of cache effectiveness counters.
type Stats struct {
	Enabled bool    `json:"enabled"`
	Size    int     `json:"size"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// MemoryCache is a thread-safe in-memory cache with TTL support. When
// disabled, every Get is a miss and every Set a no-op, so identical
// queries always re-run the full pipeline.
type MemoryCache struct {
	data    map[string]cacheItem
	mutex   sync.RWMutex
	enabled bool
	hits    int64
	misses  int64
}

// NewMemoryCache creates a new in-memory cache. A background goroutine
// sweeps expired entries every 10 minutes.
func NewMemoryCache(enabled bool) *MemoryCache {
	cache := &MemoryCache{
		data:    make(map[string]cacheItem),
		enabled: enabled,
	}

	go cache.sweepLoop()

	return cache
}

// Key builds a cache key from a prefix and parts, normalized to lowercase.
// Keys past maxKeyLength are replaced by prefix:xxhash to stay bounded.
func Key(prefix string, parts ...string) string {
	normalized := make([]string, 0, len(parts)+1)
	normalized = append(normalized, prefix)
	for _, p := range parts {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(p)))
	}
	key := strings.Join(normalized, ":")
	if len(key) > maxKeyLength {
		key = fmt.Sprintf("%s:%x", prefix, xxhash.Sum64String(key))
	}
	return key
}

// Get retrieves a value from the cache. Expired entries are never served.
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	if !c.enabled {
		return nil, domain.ErrCacheMiss
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	item, exists := c.data[key]
	if !exists || time.Now().After(item.Expiration) {
		c.misses++
		return nil, domain.ErrCacheMiss
	}

	c.hits++
	return item.Value, nil
}

// Set stores a value in the cache with TTL
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.enabled {
		return nil
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		Value:      value,
		Expiration: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Clear removes all items from the cache and returns the count removed
func (c *MemoryCache) Clear() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	count := len(c.data)
	c.data = make(map[string]cacheItem)
	log.Printf("[CACHE] Cleared %d items", count)
	return count
}

// CleanupExpired removes all expired entries and returns the count removed
func (c *MemoryCache) CleanupExpired() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	removed := 0
	for key, item := range c.data {
		if now.After(item.Expiration) {
			delete(c.data, key)
			removed++
		}
	}
	return removed
}

// Stats returns hit/miss counters and current size
func (c *MemoryCache) Stats() Stats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	total := c.hits + c.misses
	rate := 0.0
	if total > 0 {
		rate = float64(c.hits) / float64(total)
	}
	return Stats{
		Enabled: c.enabled,
		Size:    len(c.data),
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: rate,
	}
}

// Size returns the current number of items in the cache
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// sweepLoop removes expired entries from the cache periodically
func (c *MemoryCache) sweepLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.CleanupExpired()
	}
}
