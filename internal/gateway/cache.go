package gateway

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MetadataTTL is how long an analyze result stays servable from cache.
const MetadataTTL = 600 * time.Second

// DefaultCacheCapacity bounds the cache when no capacity is configured.
const DefaultCacheCapacity = 256

// MetadataCache maps the raw submitted video URL to its extracted metadata.
// Entries expire after the TTL and the least recently used entry is evicted
// when the capacity is reached, so memory stays bounded under churn.
type MetadataCache struct {
	lru *expirable.LRU[string, *VideoMetadata]
}

// NewMetadataCache returns a cache holding at most capacity entries, each
// valid for ttl after being stored. A non-positive capacity falls back to
// DefaultCacheCapacity.
func NewMetadataCache(capacity int, ttl time.Duration) *MetadataCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &MetadataCache{
		lru: expirable.NewLRU[string, *VideoMetadata](capacity, nil, ttl),
	}
}

// Get returns the cached metadata for url if present and not expired.
func (c *MetadataCache) Get(url string) (*VideoMetadata, bool) {
	return c.lru.Get(url)
}

// Put stores meta for url, replacing any previous entry and resetting its TTL.
func (c *MetadataCache) Put(url string, meta *VideoMetadata) {
	c.lru.Add(url, meta)
}

// Len returns the number of live entries.
func (c *MetadataCache) Len() int {
	return c.lru.Len()
}
