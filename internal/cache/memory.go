package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/labelcheck/labelcheck/internal/model"
)

// MemoryCache keeps canonical block sets in process memory with a TTL.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get returns the cached block set for the key, if present. Callers receive
// a copy; mutating it does not touch the cached entry.
func (c *MemoryCache) Get(key string) ([]model.CanonicalBlock, bool) {
	val, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	blocks, ok := val.([]model.CanonicalBlock)
	if !ok {
		// Foreign entry under our key: drop it and report a miss.
		c.cache.Delete(key)
		return nil, false
	}
	out := make([]model.CanonicalBlock, len(blocks))
	copy(out, blocks)
	return out, true
}

// Set stores a copy of the block set under the key with the given TTL.
func (c *MemoryCache) Set(key string, blocks []model.CanonicalBlock, ttl time.Duration) error {
	stored := make([]model.CanonicalBlock, len(blocks))
	copy(stored, blocks)
	c.cache.Set(key, stored, ttl)
	return nil
}

// Delete removes a block set from the cache
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes all block sets from the cache
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}
