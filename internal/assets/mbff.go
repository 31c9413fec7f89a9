// Package assets loads the comparator's external collaborator data:
// MBFF name-rewrite patterns, ignore/ignore-filter regexes, super-arc
// extraction, design-period lookup, and the optional pin-attribute CSV
// side channel. Grounded on utils/mbff_pattern.*, utils/ignore_pattern.*,
// utils/ignore_filter.*, utils/super_arc.*, and utils/design_cons.*.
package assets

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// MBFFPattern expands a multi-bit flip-flop report line into its
// constituent flip-flop endpoint names, via a per-tool pair of merge/split
// regexes. Go's regexp (RE2 engine) drops in directly for the original's
// re2/re2.h use — no hand-rolled backtracking engine needed.
type MBFFPattern struct {
	merge map[string]*regexp.Regexp
	split map[string]*regexp.Regexp
}

// LoadMBFFPattern reads a YAML file shaped as:
//
//	merge:
//	  <tool>: <regex with 4 groups: start, ff0, ff1, end>
//	split:
//	  <tool>: <regex with 3 groups: start, ff0, end>
func LoadMBFFPattern(path string) (*MBFFPattern, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assets: read mbff pattern %s: %w", path, err)
	}

	var doc struct {
		Merge map[string]string `yaml:"merge"`
		Split map[string]string `yaml:"split"`
	}

	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("assets: parse mbff pattern %s: %w", path, err)
	}

	p := &MBFFPattern{merge: make(map[string]*regexp.Regexp), split: make(map[string]*regexp.Regexp)}

	for tool, pattern := range doc.Merge {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("assets: compile mbff merge pattern for %s: %w", tool, err)
		}

		p.merge[tool] = re
	}

	for tool, pattern := range doc.Split {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("assets: compile mbff split pattern for %s: %w", tool, err)
		}

		p.split[tool] = re
	}

	return p, nil
}

// GetFFNames expands line into the flip-flop endpoint names it names, per
// tool dialect. A merge match yields two names (both flops folded into one
// MBFF instance); a split match yields one. No match yields nil.
func (p *MBFFPattern) GetFFNames(tool, line string) []string {
	if re, ok := p.merge[tool]; ok {
		if m := re.FindStringSubmatch(line); m != nil && len(m) == 5 {
			start, ff0, ff1, end := m[1], m[2], m[3], m[4]
			return []string{
				fmt.Sprintf("%s/%s/%s", start, ff0, end),
				fmt.Sprintf("%s/%s/%s", start, ff1, end),
			}
		}
	}

	if re, ok := p.split[tool]; ok {
		if m := re.FindStringSubmatch(line); m != nil && len(m) == 4 {
			return []string{fmt.Sprintf("%s/%s/%s", m[1], m[2], m[3])}
		}
	}

	return nil
}
