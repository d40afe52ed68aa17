// Package embed generates sentence embeddings for claim texts. Duplicate
// detection compares claims in embedding space, so all providers must embed
// a whole corpus in one batched call: model load is the expensive step and
// must be paid at most once per run.
package embed

import (
	"context"
	"fmt"
	"strings"

	"github.com/kulint/kulint/internal/model"
)

// Embedder defines the interface for embedding providers
type Embedder interface {
	// Name returns the provider name
	Name() string

	// EmbedBatch encodes all texts in a single request and returns one
	// vector per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// NewEmbedder creates an embedding provider based on configuration
func NewEmbedder(cfg model.EmbeddingConfig) (Embedder, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIEmbedder(cfg)

	case "ollama":
		return NewOllamaEmbedder(cfg)

	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: openai, ollama)", cfg.Provider)
	}
}
