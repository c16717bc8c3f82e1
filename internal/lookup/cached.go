package lookup

import (
	"context"

	"github.com/lepinkainen/mediacat/internal/cache"
)

// cachedResult wraps a Record so "not found" can be cached too.
type cachedResult struct {
	Record   *Record `json:"record"`
	NotFound bool    `json:"not_found"`
}

// CachedProvider serves repeated lookups from a cache table. Found records
// use the cache TTL, "not found" uses the shorter negative TTL, and errors
// are never cached.
type CachedProvider struct {
	next  Provider
	db    *cache.CacheDB
	table string
}

var _ Provider = (*CachedProvider)(nil)

// NewCachedProvider wraps next. A nil db returns next unchanged.
func NewCachedProvider(next Provider, db *cache.CacheDB, table string) Provider {
	if db == nil {
		return next
	}
	return &CachedProvider{next: next, db: db, table: table}
}

// Name returns the wrapped provider's name.
func (c *CachedProvider) Name() string {
	return c.next.Name()
}

// Lookup returns the cached record for identifier or fetches it.
func (c *CachedProvider) Lookup(ctx context.Context, identifier string) (*Record, error) {
	result, _, err := cache.GetOrFetch(c.db, c.table, identifier, func() (*cachedResult, error) {
		rec, err := c.next.Lookup(ctx, identifier)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return &cachedResult{NotFound: true}, nil
		}
		return &cachedResult{Record: rec}, nil
	}, cache.SelectNegativeCacheTTL(c.db, func(r *cachedResult) bool {
		return r.NotFound
	}))
	if err != nil {
		return nil, err
	}
	if result == nil || result.NotFound {
		return nil, nil
	}
	return result.Record, nil
}
