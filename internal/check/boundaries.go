package check

import (
	"context"

	"github.com/kulint/kulint/internal/cite"
	"github.com/kulint/kulint/internal/model"
	"github.com/kulint/kulint/internal/store"
)

// CheckPageBoundaries is the check name for citation page validation
const CheckPageBoundaries = "page_boundaries"

// BoundaryValidator confirms that cited pages fall inside the page extent
// the store records for the chunk. A citation outside the extent means the
// claim's provenance is unreliable.
type BoundaryValidator struct {
	store *store.Lazy
}

// NewBoundaryValidator creates a validator over the given store handle
func NewBoundaryValidator(s *store.Lazy) *BoundaryValidator {
	return &BoundaryValidator{store: s}
}

// Name returns the check name
func (v *BoundaryValidator) Name() string {
	return CheckPageBoundaries
}

// Check parses every citation's page range and compares it to the chunk's
// stored extent. Unparsable citations and chunks without page metadata are
// findings in their own right, not errors. Chunks missing from the store
// entirely are left to the existence check.
func (v *BoundaryValidator) Check(ctx context.Context, kus []model.KnowledgeUnit) []model.Issue {
	st, err := v.store.Get()
	if err != nil {
		return []model.Issue{{
			Check:    CheckPageBoundaries,
			Severity: model.SeverityHigh,
			Details: map[string]interface{}{
				"reason": "vector store unreachable",
				"error":  err.Error(),
			},
		}}
	}

	var issues []model.Issue

	for _, ku := range kus {
		for _, src := range ku.Sources {
			start, end, parseErr := cite.ParsePageRange(src.CitedPages)
			if parseErr != nil {
				issues = append(issues, model.Issue{
					Check:    CheckPageBoundaries,
					Severity: model.SeverityHigh,
					KUID:     ku.ID,
					Details: map[string]interface{}{
						"chunk_id":    src.ChunkID,
						"cited_pages": src.CitedPages,
						"reason":      "unparsable page range",
						"error":       parseErr.Error(),
					},
				})
				continue
			}

			meta, lookupErr := st.GetChunkMetadata(ctx, src.ChunkID)
			if lookupErr != nil {
				issues = append(issues, model.Issue{
					Check:    CheckPageBoundaries,
					Severity: model.SeverityHigh,
					Details: map[string]interface{}{
						"reason": "vector store unreachable",
						"error":  lookupErr.Error(),
					},
				})
				return issues
			}
			if meta == nil {
				// Missing chunk is reported as critical by the existence check
				continue
			}

			if !meta.HasPageExtent() {
				issues = append(issues, model.Issue{
					Check:    CheckPageBoundaries,
					Severity: model.SeverityHigh,
					KUID:     ku.ID,
					Details: map[string]interface{}{
						"chunk_id":    src.ChunkID,
						"cited_pages": src.CitedPages,
						"reason":      "chunk has no page metadata",
					},
				})
				continue
			}

			if start < *meta.PageStart || end > *meta.PageEnd {
				issues = append(issues, model.Issue{
					Check:    CheckPageBoundaries,
					Severity: model.SeverityHigh,
					KUID:     ku.ID,
					Details: map[string]interface{}{
						"chunk_id":         src.ChunkID,
						"cited_pages":      src.CitedPages,
						"cited_start":      start,
						"cited_end":        end,
						"chunk_page_start": *meta.PageStart,
						"chunk_page_end":   *meta.PageEnd,
						"reason":           "cited pages outside chunk page extent",
					},
				})
			}
		}
	}

	return issues
}
