package store

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/kulint/kulint/internal/model"
)

// CachedStore memoizes chunk lookups so knowledge units that cite the same
// chunk do not trigger redundant queries. Negative results are cached too:
// a chunk that is missing once is missing for the whole run.
type CachedStore struct {
	inner Store
	cache *gocache.Cache
}

type cachedLookup struct {
	meta *model.ChunkMetadata // nil means the chunk does not exist
}

// NewCachedStore wraps a store with per-run lookup memoization
func NewCachedStore(inner Store, ttl time.Duration) *CachedStore {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &CachedStore{
		inner: inner,
		cache: gocache.New(ttl, 10*time.Minute),
	}
}

// GetChunkMetadata returns the memoized lookup result for a chunk id.
// Store errors are never cached so a transient failure does not poison
// later lookups.
func (s *CachedStore) GetChunkMetadata(ctx context.Context, chunkID string) (*model.ChunkMetadata, error) {
	if val, found := s.cache.Get(chunkID); found {
		return val.(cachedLookup).meta, nil
	}

	meta, err := s.inner.GetChunkMetadata(ctx, chunkID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(chunkID, cachedLookup{meta: meta}, gocache.DefaultExpiration)
	return meta, nil
}
