package model

import "time"

// Severity classifies how serious a consistency issue is.
// The order is total: Critical > High > Medium > Low.
type Severity int

const (
	SeverityLow Severity = iota + 1
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	case SeverityLow:
		return "low"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the severity as its lowercase name
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Fatal reports whether an issue of this severity should fail a build
// under the conventional CI exit-code mapping.
func (s Severity) Fatal() bool {
	return s >= SeverityHigh
}

// Issue is a single consistency finding. Per-record problems are always
// captured as issues, never propagated as errors: one bad knowledge unit
// must not abort a run.
type Issue struct {
	Check    string                 `json:"check"`
	Severity Severity               `json:"severity"`
	KUID     string                 `json:"ku_id,omitempty"`
	Details  map[string]interface{} `json:"details,omitempty"`
}

// Summary holds programmatic counts for CI consumers
type Summary struct {
	Total      int            `json:"total"`
	ByCheck    map[string]int `json:"by_check"`
	BySeverity map[string]int `json:"by_severity"`
}

// Report is the result of one full consistency run. It is created fresh on
// every run and carries no state between runs.
type Report struct {
	CorpusPath string    `json:"corpus_path,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
	TotalUnits int       `json:"total_units"`
	Issues     []Issue   `json:"issues"`
	Summary    Summary   `json:"summary"`
}

// HasFatal reports whether the report contains any high or critical issue
func (r *Report) HasFatal() bool {
	for _, issue := range r.Issues {
		if issue.Severity.Fatal() {
			return true
		}
	}
	return false
}
