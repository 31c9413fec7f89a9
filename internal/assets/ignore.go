package assets

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// IgnorePattern holds per-tool line-drop regexes, grounded on
// utils/ignore_pattern.{h,cpp}. A report line matching any of its tool's
// patterns is excluded from parsing entirely.
type IgnorePattern struct {
	patterns map[string][]*regexp.Regexp
}

// LoadIgnorePattern reads a YAML file shaped as:
//
//	<tool>:
//	  - <regex>
//	  - <regex>
func LoadIgnorePattern(path string) (*IgnorePattern, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assets: read ignore pattern %s: %w", path, err)
	}

	var doc map[string][]string
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("assets: parse ignore pattern %s: %w", path, err)
	}

	ip := &IgnorePattern{patterns: make(map[string][]*regexp.Regexp)}

	for tool, exprs := range doc {
		for _, expr := range exprs {
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("assets: compile ignore pattern for %s: %w", tool, err)
			}

			ip.patterns[tool] = append(ip.patterns[tool], re)
		}
	}

	return ip, nil
}

// CheckIgnore reports whether line should be dropped for the given tool
// dialect. A nil *IgnorePattern (feature disabled) always returns false.
func (ip *IgnorePattern) CheckIgnore(tool, line string) bool {
	if ip == nil {
		return false
	}

	for _, re := range ip.patterns[tool] {
		if re.MatchString(line) {
			return true
		}
	}

	return false
}

// IgnoreFilter holds a single tool-agnostic list of regexes applied to
// already-decoded record lines, grounded on utils/ignore_filter.{h,cpp}.
type IgnoreFilter struct {
	patterns []*regexp.Regexp
}

// LoadIgnoreFilter reads a YAML file that is a flat list of regexes.
func LoadIgnoreFilter(path string) (*IgnoreFilter, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assets: read ignore_filter pattern %s: %w", path, err)
	}

	var exprs []string
	if err := yaml.Unmarshal(raw, &exprs); err != nil {
		return nil, fmt.Errorf("assets: parse ignore_filter pattern %s: %w", path, err)
	}

	f := &IgnoreFilter{}

	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("assets: compile ignore_filter pattern: %w", err)
		}

		f.patterns = append(f.patterns, re)
	}

	return f, nil
}

// CheckIgnoreFilter reports whether line matches any configured pattern. A
// nil *IgnoreFilter (feature disabled) always returns false.
func (f *IgnoreFilter) CheckIgnoreFilter(line string) bool {
	if f == nil {
		return false
	}

	for _, re := range f.patterns {
		if re.MatchString(line) {
			return true
		}
	}

	return false
}
