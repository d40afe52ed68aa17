// Package corpus loads the knowledge-unit artifact produced by the
// extraction pipeline. The loader validates identity fields once at the
// boundary and hands the engine an immutable snapshot; per-record content
// problems are the consistency checks' job, not the loader's.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kulint/kulint/internal/model"
)

// artifact is the on-disk shape of a corpus file. Both a bare list of units
// and a wrapped document are accepted.
type artifact struct {
	KnowledgeUnits []model.KnowledgeUnit `json:"knowledge_units" yaml:"knowledge_units"`
}

// Load reads a corpus snapshot from a JSON or YAML file. Failing to obtain
// the snapshot at all is a run-level precondition failure and is the one
// class of problem reported as an error rather than as issues.
func Load(path string) ([]model.KnowledgeUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	kus, err := parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parse corpus %s: %w", path, err)
	}

	if err := validate(kus); err != nil {
		return nil, fmt.Errorf("corpus %s: %w", path, err)
	}

	return kus, nil
}

func parse(data []byte, ext string) ([]model.KnowledgeUnit, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var units []model.KnowledgeUnit
		if err := yaml.Unmarshal(data, &units); err == nil {
			return units, nil
		}
		var doc artifact
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return doc.KnowledgeUnits, nil

	case ".json":
		var units []model.KnowledgeUnit
		if err := json.Unmarshal(data, &units); err == nil {
			return units, nil
		}
		var doc artifact
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return doc.KnowledgeUnits, nil

	default:
		return nil, fmt.Errorf("unsupported corpus format %q (expected .json, .yaml, or .yml)", ext)
	}
}

// validate checks identity invariants the engine relies on: every unit has
// an id and ids are unique. Anything beyond identity is left to the checks.
func validate(kus []model.KnowledgeUnit) error {
	seen := make(map[string]bool, len(kus))
	for i, ku := range kus {
		if ku.ID == "" {
			return fmt.Errorf("knowledge unit at index %d has no id", i)
		}
		if seen[ku.ID] {
			return fmt.Errorf("duplicate knowledge unit id %q", ku.ID)
		}
		seen[ku.ID] = true
	}
	return nil
}
