package check

import (
	"context"
	"fmt"
	"os"

	"github.com/kulint/kulint/internal/embed"
	"github.com/kulint/kulint/internal/model"
)

// CheckDuplicateClaims is the check name for semantic near-duplicate detection
const CheckDuplicateClaims = "duplicate_claims"

// DuplicateValidator flags pairs of knowledge units whose claim texts are
// semantic near-duplicates. Similarity is based purely on claim text;
// overlap in cited chunks is deliberately not considered.
//
// All claims are embedded in one batched call, then compared pairwise. The
// comparison is O(n^2) in the corpus size, so MaxCorpus provides an opt-in
// budget for very large corpora.
type DuplicateValidator struct {
	embedder  embed.Embedder
	threshold float64

	// MaxCorpus skips the pairwise comparison above this corpus size.
	// Zero means no cap.
	MaxCorpus int
}

// NewDuplicateValidator creates a validator using the given embedder.
// A non-positive threshold falls back to the 0.95 default.
func NewDuplicateValidator(embedder embed.Embedder, threshold float64) *DuplicateValidator {
	if threshold <= 0 {
		threshold = 0.95
	}
	return &DuplicateValidator{
		embedder:  embedder,
		threshold: threshold,
	}
}

// Name returns the check name
func (v *DuplicateValidator) Name() string {
	return CheckDuplicateClaims
}

// Check embeds all claims and emits one medium issue per unordered pair at
// or above the similarity threshold. Corpora of size 0 or 1 have no pairs
// and yield no issues. An embedding failure is captured as a single issue
// rather than aborting the run.
func (v *DuplicateValidator) Check(ctx context.Context, kus []model.KnowledgeUnit) []model.Issue {
	if len(kus) < 2 {
		return nil
	}

	if v.MaxCorpus > 0 && len(kus) > v.MaxCorpus {
		fmt.Fprintf(os.Stderr, "Skipping duplicate detection: corpus size %d exceeds budget %d (pairwise comparison is O(n^2))\n", len(kus), v.MaxCorpus)
		return nil
	}

	texts := make([]string, len(kus))
	for i, ku := range kus {
		texts[i] = ku.Claim
	}

	vectors, err := v.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return []model.Issue{{
			Check:    CheckDuplicateClaims,
			Severity: model.SeverityMedium,
			Details: map[string]interface{}{
				"reason": "claim embedding failed, duplicate detection skipped",
				"error":  err.Error(),
			},
		}}
	}

	var issues []model.Issue
	for i := 0; i < len(kus); i++ {
		for j := i + 1; j < len(kus); j++ {
			sim := embed.Cosine(vectors[i], vectors[j])
			if sim >= v.threshold {
				issues = append(issues, model.Issue{
					Check:    CheckDuplicateClaims,
					Severity: model.SeverityMedium,
					KUID:     kus[i].ID,
					Details: map[string]interface{}{
						"duplicate_ku_id":  kus[j].ID,
						"similarity_score": sim,
						"threshold":        v.threshold,
					},
				})
			}
		}
	}

	return issues
}
