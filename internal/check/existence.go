package check

import (
	"context"

	"github.com/kulint/kulint/internal/model"
	"github.com/kulint/kulint/internal/store"
)

// CheckChunkExistence is the check name for chunk reference resolution
const CheckChunkExistence = "chunk_existence"

// ExistenceValidator confirms that every cited chunk id resolves in the
// vector store. A dangling reference means the corpus cannot be trusted, so
// findings are critical.
type ExistenceValidator struct {
	store *store.Lazy
}

// NewExistenceValidator creates a validator over the given store handle
func NewExistenceValidator(s *store.Lazy) *ExistenceValidator {
	return &ExistenceValidator{store: s}
}

// Name returns the check name
func (v *ExistenceValidator) Name() string {
	return CheckChunkExistence
}

// Check looks up every cited chunk id. Lookups are memoized per run so
// units sharing a chunk do not trigger redundant queries. If the store is
// unreachable the run is not aborted: a single critical issue describes the
// connectivity failure instead.
func (v *ExistenceValidator) Check(ctx context.Context, kus []model.KnowledgeUnit) []model.Issue {
	st, err := v.store.Get()
	if err != nil {
		return []model.Issue{connectivityIssue(CheckChunkExistence, err)}
	}

	var issues []model.Issue
	exists := make(map[string]bool)

	for _, ku := range kus {
		for _, src := range ku.Sources {
			found, ok := exists[src.ChunkID]
			if !ok {
				meta, lookupErr := st.GetChunkMetadata(ctx, src.ChunkID)
				if lookupErr != nil {
					issues = append(issues, connectivityIssue(CheckChunkExistence, lookupErr))
					return issues
				}
				found = meta != nil
				exists[src.ChunkID] = found
			}

			if !found {
				issues = append(issues, model.Issue{
					Check:    CheckChunkExistence,
					Severity: model.SeverityCritical,
					KUID:     ku.ID,
					Details: map[string]interface{}{
						"chunk_id": src.ChunkID,
						"reason":   "cited chunk not found in vector store",
					},
				})
			}
		}
	}

	return issues
}

// connectivityIssue captures a store-level failure as a single issue so one
// outage does not abort the whole run.
func connectivityIssue(check string, err error) model.Issue {
	return model.Issue{
		Check:    check,
		Severity: model.SeverityCritical,
		Details: map[string]interface{}{
			"reason": "vector store unreachable",
			"error":  err.Error(),
		},
	}
}
