// Package cite parses citation page references as they appear in
// knowledge-unit sources. Citation strings come from several generations of
// ingestion tooling and are not uniform: single pages, hyphen ranges,
// en-dash ranges, and comma-separated pairs all occur in real corpora.
package cite

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError describes a citation string that could not be parsed.
// It always names the offending string so a human can locate it.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid page range %q: %s", e.Input, e.Reason)
}

// ParsePageRange parses a cited-pages string into an inclusive (start, end)
// page pair.
//
// Supported forms, all whitespace-tolerant:
//
//	"42"      -> (42, 42)
//	"42-44"   -> (42, 44)
//	"42–44"   -> (42, 44)   en-dash
//	"42, 44"  -> (42, 44)
//
// Any other shape fails with a *ParseError. The function is pure and never
// touches the store.
func ParsePageRange(s string) (start, end int, err error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, 0, &ParseError{Input: s, Reason: "empty string"}
	}

	// Normalize en-dash and comma separators to a single hyphen form
	normalized := strings.ReplaceAll(trimmed, "–", "-")
	normalized = strings.ReplaceAll(normalized, ",", "-")

	parts := strings.Split(normalized, "-")
	if len(parts) > 2 {
		return 0, 0, &ParseError{Input: s, Reason: fmt.Sprintf("expected at most 2 bounds, got %d", len(parts))}
	}

	bounds := make([]int, 0, 2)
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token == "" {
			return 0, 0, &ParseError{Input: s, Reason: "empty page bound"}
		}
		n, convErr := strconv.Atoi(token)
		if convErr != nil {
			return 0, 0, &ParseError{Input: s, Reason: fmt.Sprintf("non-numeric page %q", token)}
		}
		if n < 0 {
			return 0, 0, &ParseError{Input: s, Reason: fmt.Sprintf("negative page %d", n)}
		}
		bounds = append(bounds, n)
	}

	start = bounds[0]
	end = start
	if len(bounds) == 2 {
		end = bounds[1]
	}

	if end < start {
		return 0, 0, &ParseError{Input: s, Reason: fmt.Sprintf("end page %d before start page %d", end, start)}
	}

	return start, end, nil
}
