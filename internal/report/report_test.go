package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kulint/kulint/internal/model"
)

func TestAggregate_Summary(t *testing.T) {
	issues := []model.Issue{
		{Check: "chunk_existence", Severity: model.SeverityCritical, KUID: "ku-1"},
		{Check: "chunk_existence", Severity: model.SeverityCritical, KUID: "ku-2"},
		{Check: "page_boundaries", Severity: model.SeverityHigh, KUID: "ku-1"},
		{Check: "confidence_levels", Severity: model.SeverityLow, KUID: "ku-3"},
	}

	rep := Aggregate(issues, 10)

	if rep.Summary.Total != 4 {
		t.Errorf("Expected total 4, got %d", rep.Summary.Total)
	}
	if rep.Summary.ByCheck["chunk_existence"] != 2 {
		t.Errorf("Expected 2 chunk_existence issues, got %d", rep.Summary.ByCheck["chunk_existence"])
	}
	if rep.Summary.BySeverity["critical"] != 2 {
		t.Errorf("Expected 2 critical issues, got %d", rep.Summary.BySeverity["critical"])
	}
	if rep.Summary.BySeverity["high"] != 1 || rep.Summary.BySeverity["low"] != 1 {
		t.Errorf("Unexpected severity counts: %v", rep.Summary.BySeverity)
	}
	if rep.TotalUnits != 10 {
		t.Errorf("Expected 10 total units, got %d", rep.TotalUnits)
	}
	if rep.CheckedAt.IsZero() {
		t.Error("Expected CheckedAt to be set")
	}
}

func TestAggregate_NilIssues(t *testing.T) {
	rep := Aggregate(nil, 3)
	if rep.Issues == nil {
		t.Error("Expected non-nil issues slice for a clean corpus")
	}
	if rep.Summary.Total != 0 {
		t.Errorf("Expected zero total, got %d", rep.Summary.Total)
	}
}

func TestRender_AllChecksPassed(t *testing.T) {
	rep := Aggregate(nil, 5)
	out := Render(rep)

	if !strings.Contains(out, "All checks passed") {
		t.Errorf("Clean corpus must render the explicit all-checks-passed line, got:\n%s", out)
	}
	if !strings.Contains(out, "5 knowledge units") {
		t.Errorf("Expected unit count in output, got:\n%s", out)
	}
}

func TestRender_GroupedByCheckThenSeverity(t *testing.T) {
	issues := []model.Issue{
		{Check: "confidence_levels", Severity: model.SeverityLow, KUID: "ku-3"},
		{Check: "chunk_existence", Severity: model.SeverityCritical, KUID: "ku-1",
			Details: map[string]interface{}{"chunk_id": "chunk-9"}},
		{Check: "page_boundaries", Severity: model.SeverityHigh, KUID: "ku-2"},
	}

	out := Render(Aggregate(issues, 3))

	// Canonical check order regardless of issue order
	existIdx := strings.Index(out, "chunk_existence")
	boundIdx := strings.Index(out, "page_boundaries")
	confIdx := strings.Index(out, "confidence_levels")
	if existIdx == -1 || boundIdx == -1 || confIdx == -1 {
		t.Fatalf("Expected all check groups in output, got:\n%s", out)
	}
	if !(existIdx < boundIdx && boundIdx < confIdx) {
		t.Errorf("Checks not rendered in canonical order:\n%s", out)
	}

	if !strings.Contains(out, "[CRITICAL] 1") {
		t.Errorf("Expected per-severity count, got:\n%s", out)
	}
	if !strings.Contains(out, "ku=ku-1") || !strings.Contains(out, "chunk_id=chunk-9") {
		t.Errorf("Expected issue details in output, got:\n%s", out)
	}
}

func TestRender_Deterministic(t *testing.T) {
	issues := []model.Issue{
		{Check: "chunk_existence", Severity: model.SeverityCritical, KUID: "ku-1",
			Details: map[string]interface{}{"chunk_id": "c1", "reason": "missing", "attempt": 1}},
		{Check: "duplicate_claims", Severity: model.SeverityMedium, KUID: "ku-2",
			Details: map[string]interface{}{"duplicate_ku_id": "ku-3", "similarity_score": 0.97}},
	}

	rep := Aggregate(issues, 4)
	first := Render(rep)
	for i := 0; i < 10; i++ {
		if out := Render(rep); out != first {
			t.Fatal("Render output is not deterministic across invocations")
		}
	}
}

func TestRenderJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")

	issues := []model.Issue{
		{Check: "chunk_existence", Severity: model.SeverityCritical, KUID: "ku-1"},
	}
	rep := Aggregate(issues, 2)
	rep.CorpusPath = "corpus.json"

	if err := RenderJSON(rep, path); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Read report: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Report is not valid JSON: %v", err)
	}

	if decoded["corpus_path"] != "corpus.json" {
		t.Errorf("Expected corpus_path in JSON, got %v", decoded["corpus_path"])
	}

	// Severity must serialize as its name, not a bare integer
	if !strings.Contains(string(data), `"severity": "critical"`) {
		t.Errorf("Expected named severity in JSON, got:\n%s", data)
	}
}
