package model

// Confidence is the declared confidence level of a knowledge unit
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// KnowledgeUnit represents an atomic, citable claim derived from source material.
// Units are owned by the external corpus store and are read-only for the
// duration of a check run.
type KnowledgeUnit struct {
	ID               string      `json:"id" yaml:"id"`
	Claim            string      `json:"claim" yaml:"claim"`
	Sources          []SourceRef `json:"sources" yaml:"sources"`
	Tags             []string    `json:"tags,omitempty" yaml:"tags,omitempty"`
	Confidence       Confidence  `json:"confidence" yaml:"confidence"`
	CreatedFromQuery string      `json:"created_from_query,omitempty" yaml:"created_from_query,omitempty"`
}

// SourceRef is a citation from a knowledge unit to a stored document chunk
type SourceRef struct {
	ChunkID    string `json:"chunk_id" yaml:"chunk_id"`
	CitedPages string `json:"cited_pages" yaml:"cited_pages"` // e.g. "42", "42-44", "42, 44"
}

// ExpectedConfidence returns the confidence level the source-count heuristic
// predicts for a unit with the given number of sources. The heuristic is
// advisory: a corpus that diverges from it is flagged, never corrected.
func ExpectedConfidence(sourceCount int) Confidence {
	switch {
	case sourceCount >= 3:
		return ConfidenceHigh
	case sourceCount == 2:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
