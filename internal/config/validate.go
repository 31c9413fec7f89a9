package config

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// schemaJSON mirrors spec section 6.2's key set: mode and compare_mode are
// closed enums (this release supports exactly one value each, per spec's
// "All must be leda for this release" / single compare_mode note), type
// entries are restricted to the two known report dialects, and rpts/type
// must be present and non-empty.
const schemaJSON = `{
  "type": "object",
  "required": ["mode", "type", "rpts", "compare_mode"],
  "properties": {
    "mode": {"type": "string", "enum": ["compare"]},
    "type": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string", "enum": ["leda", "invs"]}
    },
    "rpts": {"type": "array", "minItems": 1, "items": {"type": "string"}},
    "compare_mode": {"type": "string", "enum": ["endpoint"]},
    "analyse_tuples": {
      "type": "array",
      "items": {"type": "array", "minItems": 2, "maxItems": 2, "items": {"type": "string"}}
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(schemaJSON)

// Validate checks Config's structural shape against the compare-run schema,
// catching mismatched rpts/type lengths and malformed analyse_tuples/
// analyse_patterns shapes before the orchestrator ever opens a report file.
func Validate(cfg *Config) error {
	// Config carries only mapstructure tags, so the document checked against
	// the schema is built with the schema's snake_case keys explicitly; an
	// absent analyse_tuples list stays absent.
	doc := map[string]any{
		"mode":         cfg.Mode,
		"type":         cfg.Type,
		"rpts":         cfg.Rpts,
		"compare_mode": cfg.CompareMode,
	}
	if len(cfg.AnalyseTuples) > 0 {
		doc["analyse_tuples"] = cfg.AnalyseTuples
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config: marshal for validation: %w", err)
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("config: schema validation: %w", err)
	}

	if !result.Valid() {
		return fmt.Errorf("config: schema violations: %v", result.Errors())
	}

	if len(cfg.Type) != len(cfg.Rpts) {
		return fmt.Errorf("config: type has %d entries but rpts has %d", len(cfg.Type), len(cfg.Rpts))
	}

	for _, pattern := range cfg.AnalysePatterns {
		if pattern.Target != "path" && pattern.Target != "cell arc" && pattern.Target != "net arc" {
			return fmt.Errorf("config: analyse_patterns %q: invalid target %q", pattern.Name, pattern.Target)
		}

		for _, clause := range pattern.Filters {
			for _, flag := range clause.Type {
				if flag != "delta" && flag != "abs" && flag != "percent" {
					return fmt.Errorf("config: analyse_patterns %q: invalid type flag %q", pattern.Name, flag)
				}
			}
		}
	}

	return nil
}
