// Package report merges per-check issue lists into a severity-grouped
// report and renders it for humans and for CI consumers.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/kulint/kulint/internal/model"
)

// checkOrder fixes the rendering order of the standard checks so reports
// are deterministic. Unknown checks sort alphabetically after these.
var checkOrder = map[string]int{
	"chunk_existence":   0,
	"page_boundaries":   1,
	"duplicate_claims":  2,
	"confidence_levels": 3,
}

// severityOrder renders most severe first
var severityOrder = []model.Severity{
	model.SeverityCritical,
	model.SeverityHigh,
	model.SeverityMedium,
	model.SeverityLow,
}

// Aggregate merges issues into a fresh report with summary counts
func Aggregate(issues []model.Issue, totalUnits int) *model.Report {
	if issues == nil {
		issues = []model.Issue{}
	}

	summary := model.Summary{
		Total:      len(issues),
		ByCheck:    make(map[string]int),
		BySeverity: make(map[string]int),
	}
	for _, issue := range issues {
		summary.ByCheck[issue.Check]++
		summary.BySeverity[issue.Severity.String()]++
	}

	return &model.Report{
		CheckedAt:  time.Now().UTC(),
		TotalUnits: totalUnits,
		Issues:     issues,
		Summary:    summary,
	}
}

// Render produces the deterministic human-readable report: issues grouped
// first by check name, then by severity, with per-group counts. A clean
// corpus renders an explicit all-checks-passed line, distinct from an
// omitted report.
func Render(r *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Consistency report: %d knowledge units checked\n", r.TotalUnits)

	if len(r.Issues) == 0 {
		b.WriteString("All checks passed: no consistency issues found.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%d issues found\n", len(r.Issues))

	for _, check := range sortedChecks(r) {
		checkIssues := issuesForCheck(r, check)
		fmt.Fprintf(&b, "\n%s (%d issues)\n", check, len(checkIssues))

		for _, sev := range severityOrder {
			group := issuesForSeverity(checkIssues, sev)
			if len(group) == 0 {
				continue
			}
			fmt.Fprintf(&b, "  [%s] %d\n", strings.ToUpper(sev.String()), len(group))
			for _, issue := range group {
				b.WriteString("    - ")
				b.WriteString(formatIssue(issue))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

// RenderJSON writes the machine-readable report to a file
func RenderJSON(r *model.Report, path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// formatIssue renders one issue with enough detail that a human can act
// without re-deriving the numbers.
func formatIssue(issue model.Issue) string {
	var b strings.Builder

	if issue.KUID != "" {
		fmt.Fprintf(&b, "ku=%s", issue.KUID)
	} else {
		b.WriteString("run-level")
	}

	for _, key := range sortedDetailKeys(issue.Details) {
		fmt.Fprintf(&b, " %s=%v", key, issue.Details[key])
	}

	return b.String()
}

func sortedChecks(r *model.Report) []string {
	checks := make([]string, 0, len(r.Summary.ByCheck))
	for check := range r.Summary.ByCheck {
		checks = append(checks, check)
	}
	sort.Slice(checks, func(i, j int) bool {
		oi, iKnown := checkOrder[checks[i]]
		oj, jKnown := checkOrder[checks[j]]
		if iKnown && jKnown {
			return oi < oj
		}
		if iKnown != jKnown {
			return iKnown
		}
		return checks[i] < checks[j]
	})
	return checks
}

func issuesForCheck(r *model.Report, check string) []model.Issue {
	var out []model.Issue
	for _, issue := range r.Issues {
		if issue.Check == check {
			out = append(out, issue)
		}
	}
	return out
}

func issuesForSeverity(issues []model.Issue, sev model.Severity) []model.Issue {
	var out []model.Issue
	for _, issue := range issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}

func sortedDetailKeys(details map[string]interface{}) []string {
	keys := make([]string, 0, len(details))
	for key := range details {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
