package chain

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"recipechain/internal/domain"
)

type cacheKey struct {
	revision uint64
	target   int
}

// CachedResolver memoises ResolveChain per snapshot revision and target.
// It is safe for concurrent use.
type CachedResolver struct {
	cache  *lru.Cache[cacheKey, IDSet]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCachedResolver creates a resolver remembering up to size chains
func NewCachedResolver(size int) (*CachedResolver, error) {
	c, err := lru.New[cacheKey, IDSet](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create chain cache: %w", err)
	}
	return &CachedResolver{cache: c}, nil
}

// Resolve returns the chain of target within snap. The returned set is a
// copy the caller may modify.
func (r *CachedResolver) Resolve(snap *domain.Snapshot, target int) IDSet {
	if snap == nil {
		return NewIDSet(target)
	}
	key := cacheKey{revision: snap.Revision, target: target}
	if ids, ok := r.cache.Get(key); ok {
		r.hits.Add(1)
		return ids.Clone()
	}
	r.misses.Add(1)
	ids := ResolveChain(snap.Recipes, target)
	r.cache.Add(key, ids)
	return ids.Clone()
}

// Purge drops every cached chain
func (r *CachedResolver) Purge() {
	r.cache.Purge()
}

// Len returns the number of cached chains
func (r *CachedResolver) Len() int {
	return r.cache.Len()
}

// Stats returns the hit and miss counts since creation
func (r *CachedResolver) Stats() (hits, misses uint64) {
	return r.hits.Load(), r.misses.Load()
}
