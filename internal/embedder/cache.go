package embedder

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rosterhq/talentsearch/pkg/types"
)

// CacheKey identifies a cached embedding. The same text embedded under a
// different role or provider is semantically different and must not collide.
type CacheKey struct {
	TextHash string
	Role     types.EmbeddingRole
	Provider string
}

type cacheEntry struct {
	vector    types.EmbeddingVector
	expiresAt time.Time // zero means no expiry
}

// Cache is the in-process LRU layer of the embedding cache. Expiry is lazy:
// an expired entry reads as a miss and is removed.
type Cache struct {
	cache *lru.Cache[CacheKey, *cacheEntry]
}

// NewCache creates an embedding cache with LRU eviction
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = 10000
	}
	cache, err := lru.New[CacheKey, *cacheEntry](maxLen)
	if err != nil {
		// Only possible with a non-positive size
		cache, _ = lru.New[CacheKey, *cacheEntry](10000)
	}
	return &Cache{cache: cache}
}

// Get retrieves a deep copy of a cached embedding, or reports a miss.
// Copies keep caller mutations from polluting cached values.
func (c *Cache) Get(key CacheKey) (*types.EmbeddingVector, bool) {
	entry, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}

	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.cache.Remove(key)
		return nil, false
	}

	vec := entry.vector.Clone()
	return &vec, true
}

// Put stores an embedding. A zero ttl means the entry never expires (used
// for document-role vectors, which live as long as the corpus version).
func (c *Cache) Put(key CacheKey, vector types.EmbeddingVector, ttl time.Duration) {
	entry := &cacheEntry{vector: vector.Clone()}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	c.cache.Add(key, entry)
}

// Len returns the current cache size
func (c *Cache) Len() int {
	return c.cache.Len()
}

// Purge empties the cache
func (c *Cache) Purge() {
	c.cache.Purge()
}
