// Package querycache caches whole retrieval outcomes for repeated queries.
// Keys are the normalized query text plus top_k; entries expire on a short
// ttl so roster edits surface quickly even without an explicit purge.
package querycache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rosterhq/talentsearch/pkg/types"
)

// DefaultTTL bounds how long a cached outcome may serve
const DefaultTTL = 5 * time.Minute

var whitespace = strings.Fields

// Normalize canonicalizes a query for cache keying: lowercase with
// whitespace runs folded to single spaces. Queries differing only in case
// or spacing share an entry.
func Normalize(query string) string {
	return strings.Join(whitespace(strings.ToLower(query)), " ")
}

// Key derives the cache key for a query and top_k
func Key(query string, topK int) string {
	h := sha256.Sum256([]byte(Normalize(query) + "|" + strconv.Itoa(topK)))
	return hex.EncodeToString(h[:])
}

type entry struct {
	outcome   types.RetrievalOutcome
	expiresAt time.Time
}

// Cache is an LRU of retrieval outcomes with lazy ttl expiry
type Cache struct {
	cache *lru.Cache[string, *entry]
	ttl   time.Duration
}

// New creates a query cache. Non-positive ttl falls back to DefaultTTL.
func New(maxLen int, ttl time.Duration) *Cache {
	if maxLen <= 0 {
		maxLen = 1000
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cache, err := lru.New[string, *entry](maxLen)
	if err != nil {
		cache, _ = lru.New[string, *entry](1000)
	}
	return &Cache{cache: cache, ttl: ttl}
}

// Get returns a deep copy of the cached outcome for the query, or a miss.
// An expired entry reads as a miss and is removed.
func (c *Cache) Get(query string, topK int) (*types.RetrievalOutcome, bool) {
	key := Key(query, topK)
	e, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}

	if time.Now().After(e.expiresAt) {
		c.cache.Remove(key)
		return nil, false
	}

	return e.outcome.Clone(), true
}

// Put stores a deep copy of the outcome so later caller mutations cannot
// pollute the cached value.
func (c *Cache) Put(query string, topK int, outcome *types.RetrievalOutcome) {
	c.cache.Add(Key(query, topK), &entry{
		outcome:   *outcome.Clone(),
		expiresAt: time.Now().Add(c.ttl),
	})
}

// Len returns the current cache size
func (c *Cache) Len() int {
	return c.cache.Len()
}

// Purge empties the cache. Called on reindex so stale rankings never
// outlive the corpus version that produced them.
func (c *Cache) Purge() {
	c.cache.Purge()
}
