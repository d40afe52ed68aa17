package check

import (
	"context"
	"testing"

	"github.com/kulint/kulint/internal/model"
)

func sources(n int) []model.SourceRef {
	out := make([]model.SourceRef, n)
	for i := range out {
		out[i] = model.SourceRef{ChunkID: "chunk", CitedPages: "1"}
	}
	return out
}

func TestConfidenceValidator_Heuristic(t *testing.T) {
	tests := []struct {
		name        string
		sourceCount int
		declared    model.Confidence
		wantIssue   bool
		expected    string
	}{
		{"three sources declared low", 3, model.ConfidenceLow, true, "high"},
		{"five sources declared medium", 5, model.ConfidenceMedium, true, "high"},
		{"two sources declared medium", 2, model.ConfidenceMedium, false, ""},
		{"two sources declared high", 2, model.ConfidenceHigh, true, "medium"},
		{"one source declared low", 1, model.ConfidenceLow, false, ""},
		{"one source declared high", 1, model.ConfidenceHigh, true, "low"},
		{"no sources declared low", 0, model.ConfidenceLow, false, ""},
		{"three sources declared high", 3, model.ConfidenceHigh, false, ""},
	}

	v := NewConfidenceValidator()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kus := []model.KnowledgeUnit{{
				ID:         "ku-1",
				Claim:      "claim",
				Sources:    sources(tt.sourceCount),
				Confidence: tt.declared,
			}}

			issues := v.Check(context.Background(), kus)

			if !tt.wantIssue {
				if len(issues) != 0 {
					t.Errorf("Expected no issues, got %v", issues)
				}
				return
			}

			if len(issues) != 1 {
				t.Fatalf("Expected exactly 1 issue, got %d", len(issues))
			}
			issue := issues[0]
			if issue.Severity != model.SeverityLow {
				t.Errorf("Heuristic mismatches are informational, got severity %s", issue.Severity)
			}
			if issue.Details["expected_confidence"] != tt.expected {
				t.Errorf("Expected expected_confidence=%s, got %v", tt.expected, issue.Details["expected_confidence"])
			}
			if issue.Details["actual_confidence"] != string(tt.declared) {
				t.Errorf("Expected actual_confidence=%s, got %v", tt.declared, issue.Details["actual_confidence"])
			}
			if issue.Details["source_count"] != tt.sourceCount {
				t.Errorf("Expected source_count=%d, got %v", tt.sourceCount, issue.Details["source_count"])
			}
		})
	}
}

func TestConfidenceValidator_NeverEscalates(t *testing.T) {
	// A corpus that systematically diverges from the heuristic stays LOW
	kus := make([]model.KnowledgeUnit, 20)
	for i := range kus {
		kus[i] = model.KnowledgeUnit{
			ID:         "ku",
			Sources:    sources(1),
			Confidence: model.ConfidenceHigh,
		}
	}

	issues := NewConfidenceValidator().Check(context.Background(), kus)
	for _, issue := range issues {
		if issue.Severity != model.SeverityLow {
			t.Fatalf("Confidence check must never exceed low severity, got %s", issue.Severity)
		}
	}
}
