// Package cache provides caching infrastructure.
package cache

import (
	"context"
	"sync"
	"time"

	"homestock/internal/domain/product"
)

// CachedLookup wraps a product.Lookup with a thread-safe in-memory TTL
// cache keyed by barcode. Catalog data changes rarely and item creation
// re-scans the same barcodes often, so a short-lived cache cuts most of
// the upstream traffic.
//
// Only barcode lookups are cached; free-text search goes straight
// through. Misses (nil results) are cached too, so a barcode unknown to
// the catalog is not re-queried on every create.
type CachedLookup struct {
	next product.Lookup
	ttl  time.Duration

	mu         sync.RWMutex
	entries    map[string]lookupEntry
	maxEntries int
}

type lookupEntry struct {
	product   *product.Product
	expiresAt time.Time
}

// Compile-time check.
var _ product.Lookup = (*CachedLookup)(nil)

// NewCachedLookup wraps next with a TTL cache.
func NewCachedLookup(next product.Lookup, ttl time.Duration) *CachedLookup {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedLookup{
		next:       next,
		ttl:        ttl,
		entries:    make(map[string]lookupEntry),
		maxEntries: 4096,
	}
}

// ByBarcode returns the cached product or queries the underlying lookup.
// Upstream errors are never cached.
func (c *CachedLookup) ByBarcode(ctx context.Context, barcode string) (*product.Product, error) {
	c.mu.RLock()
	entry, ok := c.entries[barcode]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.product, nil
	}

	found, err := c.next.ByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if len(c.entries) >= c.maxEntries {
		c.evictExpiredLocked()
	}
	if len(c.entries) < c.maxEntries {
		c.entries[barcode] = lookupEntry{product: found, expiresAt: time.Now().Add(c.ttl)}
	}
	c.mu.Unlock()

	return found, nil
}

// Search delegates to the underlying lookup without caching.
func (c *CachedLookup) Search(ctx context.Context, term string) ([]product.Product, error) {
	return c.next.Search(ctx, term)
}

// evictExpiredLocked drops expired entries. Caller holds the write lock.
func (c *CachedLookup) evictExpiredLocked() {
	now := time.Now()
	for barcode, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, barcode)
		}
	}
}
