// Package writer emits the comparator's output artifacts: per-tuple JSON
// comparison records and CSV summaries, grounded on utils/csv_writer.{h,cpp}
// and the JSON assembly in arc_analyser_graph::csv_match.
package writer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/kinling9/stacompare/internal/match"
)

// JSON writes records as a JSON object keyed by the arc-key string, with
// keys sorted lexicographically before marshaling so repeated runs over the
// same input are byte-identical, per the determinism invariant.
func JSON(outputDir, name string, records map[string]*match.Record) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("writer: create output dir %s: %w", outputDir, err)
	}

	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	ordered := make(map[string]*match.Record, len(records))
	for _, k := range keys {
		ordered[k] = records[k]
	}

	// encoding/json sorts map keys itself on marshal, so building ordered
	// here is for clarity of intent, not strictly required for
	// correctness — kept because a future switch to a streaming encoder
	// (which would not re-sort) should not silently break determinism.
	data, err := json.MarshalIndent(ordered, "", "  ")
	if err != nil {
		return fmt.Errorf("writer: marshal records: %w", err)
	}

	path := filepath.Join(outputDir, name+".json")

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writer: write %s: %w", path, err)
	}

	return nil
}
