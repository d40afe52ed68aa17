// Package check implements the consistency verification engine: four
// independent validators over an immutable knowledge-unit snapshot, merged
// into a single severity-classified report.
package check

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kulint/kulint/internal/cache"
	"github.com/kulint/kulint/internal/embed"
	"github.com/kulint/kulint/internal/model"
	"github.com/kulint/kulint/internal/report"
	"github.com/kulint/kulint/internal/store"
)

// Validator is a single consistency check. Implementations capture their own
// per-record failures as issues and never return errors: one malformed unit
// or one store outage must not abort the run.
type Validator interface {
	Name() string
	Check(ctx context.Context, kus []model.KnowledgeUnit) []model.Issue
}

// Checker composes the consistency validators behind a single CheckAll
// entry point. A Checker is scoped to one run configuration; the store
// client and embedding model it owns are constructed lazily on first use
// and reused for all lookups within a run.
type Checker struct {
	validators []Validator
}

// NewChecker wires the four standard validators from configuration. The
// store client is not contacted here: construction failures surface as
// issues on the first lookup, per-record failure policy.
func NewChecker(cfg *model.Config) (*Checker, error) {
	lazyStore := store.NewLazy(func() (store.Store, error) {
		chroma, err := store.NewChromaStore(cfg.Store)
		if err != nil {
			return nil, err
		}
		// Memoize lookups: many units cite the same chunk
		return store.NewCachedStore(chroma, 0), nil
	})

	embedder, err := embed.NewEmbedder(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("configure embedder: %w", err)
	}
	if cfg.Cache.Enabled {
		embedder = embed.NewCachedEmbedder(embedder, embeddingCache(cfg.Cache), cfg.Embedding.Model, cfg.Cache.TTL)
	}

	duplicates := NewDuplicateValidator(embedder, cfg.Checks.DuplicateThreshold)
	duplicates.MaxCorpus = cfg.Checks.MaxDuplicateCorpus

	return &Checker{
		validators: []Validator{
			NewExistenceValidator(lazyStore),
			NewBoundaryValidator(lazyStore),
			duplicates,
			NewConfidenceValidator(),
		},
	}, nil
}

// NewCheckerWith builds a checker over explicit validators
func NewCheckerWith(validators ...Validator) *Checker {
	return &Checker{validators: validators}
}

// CheckAll runs every validator against the same snapshot and merges their
// issues into one report. Validators run unconditionally: earlier findings
// never short-circuit later checks. The only returned error is the run-level
// precondition that a snapshot was provided at all.
func (c *Checker) CheckAll(ctx context.Context, kus []model.KnowledgeUnit) (*model.Report, error) {
	if kus == nil {
		return nil, fmt.Errorf("knowledge unit snapshot is nil")
	}

	var issues []model.Issue
	for _, v := range c.validators {
		issues = append(issues, v.Check(ctx, kus)...)
	}

	return report.Aggregate(issues, len(kus)), nil
}

// embeddingCache builds the layered (memory + disk) embedding cache
func embeddingCache(cfg model.CacheConfig) cache.Cache {
	dir := cfg.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			dir = filepath.Join(home, ".kulint", "cache")
		} else {
			dir = filepath.Join(os.TempDir(), "kulint-cache")
		}
	}
	return cache.NewLayeredCache(cfg.TTL, dir, cfg.TTL)
}
