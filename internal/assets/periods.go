package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Periods is the design->clock-period lookup table, grounded on
// utils/design_cons.{h,cpp}. Unlike the original's get_instance() Meyers
// singleton, this is an ordinary value loaded once by the orchestrator and
// passed to whatever needs it — see SPEC_FULL.md's "design_cons singleton
// -> injected table" design note.
type Periods map[string]float64

// LoadPeriods reads a flat "<design>: <period>" YAML mapping.
func LoadPeriods(path string) (Periods, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assets: read design period table %s: %w", path, err)
	}

	var p Periods
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("assets: parse design period table %s: %w", path, err)
	}

	return p, nil
}

// Period returns the clock period for a design name, and whether it was
// found. The original logged a warning and returned 0 on miss; callers
// here decide for themselves how to treat the zero value.
func (p Periods) Period(design string) (float64, bool) {
	period, ok := p[design]

	return period, ok
}

// NameFromPath matches a report path against every known design name,
// returning the first design whose name appears as a substring of the
// absolute path, mirroring design_cons::get_name's StrContains scan.
func (p Periods) NameFromPath(rptPath string) string {
	abs, err := filepath.Abs(rptPath)
	if err != nil {
		abs = rptPath
	}

	for design := range p {
		if strings.Contains(abs, design) {
			return design
		}
	}

	return ""
}
