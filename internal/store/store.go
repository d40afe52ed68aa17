// Package store provides read-only access to the vector store that holds
// embedded document chunks. The consistency engine only ever reads chunk
// metadata; ingestion and embedding are owned by a separate pipeline.
package store

import (
	"context"
	"sync"

	"github.com/kulint/kulint/internal/model"
)

// Store is the vector store interface consumed by the consistency checks.
// GetChunkMetadata returns (nil, nil) when the chunk id does not resolve;
// an error means the store itself failed (unreachable, bad response), not
// that the chunk is missing.
type Store interface {
	GetChunkMetadata(ctx context.Context, chunkID string) (*model.ChunkMetadata, error)
}

// Lazy defers store construction until the first lookup and then reuses the
// same client for the rest of the run. This keeps the client scoped to one
// run instead of living as a process-wide singleton, so parallel runs and
// tests stay isolated.
type Lazy struct {
	build func() (Store, error)

	once  sync.Once
	store Store
	err   error
}

// NewLazy wraps a store constructor
func NewLazy(build func() (Store, error)) *Lazy {
	return &Lazy{build: build}
}

// Get returns the underlying store, constructing it on first use
func (l *Lazy) Get() (Store, error) {
	l.once.Do(func() {
		l.store, l.err = l.build()
	})
	return l.store, l.err
}
