package check

import (
	"context"

	"github.com/kulint/kulint/internal/model"
)

// CheckConfidenceLevels is the check name for the confidence heuristic
const CheckConfidenceLevels = "confidence_levels"

// ConfidenceValidator compares each unit's declared confidence against the
// source-count heuristic. The heuristic is advisory: mismatches are
// informational and never escalated above low severity. A corpus that
// systematically diverges from the heuristic is not itself a bug.
type ConfidenceValidator struct{}

// NewConfidenceValidator creates the heuristic validator
func NewConfidenceValidator() *ConfidenceValidator {
	return &ConfidenceValidator{}
}

// Name returns the check name
func (v *ConfidenceValidator) Name() string {
	return CheckConfidenceLevels
}

// Check flags units whose declared confidence differs from the expectation
// for their source count.
func (v *ConfidenceValidator) Check(ctx context.Context, kus []model.KnowledgeUnit) []model.Issue {
	var issues []model.Issue

	for _, ku := range kus {
		expected := model.ExpectedConfidence(len(ku.Sources))
		if ku.Confidence == expected {
			continue
		}

		issues = append(issues, model.Issue{
			Check:    CheckConfidenceLevels,
			Severity: model.SeverityLow,
			KUID:     ku.ID,
			Details: map[string]interface{}{
				"actual_confidence":   string(ku.Confidence),
				"expected_confidence": string(expected),
				"source_count":        len(ku.Sources),
			},
		})
	}

	return issues
}
