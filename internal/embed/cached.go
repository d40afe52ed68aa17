package embed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kulint/kulint/internal/cache"
)

// CachedEmbedder wraps an embedder with a persistent vector cache keyed by
// model name and text. Re-running a check over a mostly unchanged corpus
// then only pays for new or edited claims.
type CachedEmbedder struct {
	inner Embedder
	cache cache.Cache
	model string
	ttl   time.Duration
}

// NewCachedEmbedder wraps an embedder with the given cache
func NewCachedEmbedder(inner Embedder, c cache.Cache, embModel string, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{
		inner: inner,
		cache: c,
		model: embModel,
		ttl:   ttl,
	}
}

// Name returns the underlying provider name
func (e *CachedEmbedder) Name() string {
	return e.inner.Name()
}

// IsAvailable checks the underlying provider
func (e *CachedEmbedder) IsAvailable(ctx context.Context) bool {
	return e.inner.IsAvailable(ctx)
}

// EmbedBatch serves cached vectors where possible and embeds the remaining
// texts in a single batched call to the underlying provider.
func (e *CachedEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if vec, found := e.lookup(text); found {
			vectors[i] = vec
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	fresh, err := e.inner.EmbedBatch(ctx, missing)
	if err != nil {
		return nil, err
	}

	for i, vec := range fresh {
		vectors[missingIdx[i]] = vec
		e.persist(missing[i], vec)
	}

	return vectors, nil
}

func (e *CachedEmbedder) key(text string) string {
	return cache.Key("embed:" + e.model + ":" + text)
}

func (e *CachedEmbedder) lookup(text string) ([]float32, bool) {
	data, found := e.cache.Get(e.key(text))
	if !found {
		return nil, false
	}

	var vec []float32
	if err := json.Unmarshal(data, &vec); err != nil {
		return nil, false
	}
	return vec, true
}

func (e *CachedEmbedder) persist(text string, vec []float32) {
	data, err := json.Marshal(vec)
	if err != nil {
		return
	}
	_ = e.cache.Set(e.key(text), data, e.ttl)
}
