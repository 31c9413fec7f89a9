package match

import (
	"fmt"
	"math"
	"sort"

	"github.com/kinling9/stacompare/internal/config"
	"github.com/kinling9/stacompare/internal/filter"
)

// PatternTarget names what an analyse_patterns entry classifies.
type PatternTarget string

const (
	TargetPath    PatternTarget = "path"
	TargetCellArc PatternTarget = "cell arc"
	TargetNetArc  PatternTarget = "net arc"
)

// AttributeFilter is one compiled analyse_patterns filter clause: the
// named record attribute it reads, the compiled comparison expression,
// and the delta/abs/percent transforms applied to the attribute's
// key/value pair before the expression is evaluated, grounded on
// original_source/src/analyser/tns_analyser.cpp's filter chain.
type AttributeFilter struct {
	Attribute string
	Prog      *filter.Program
	Abs       bool
	Percent   bool
}

// Scalar reduces a record's (key, value) attribute pair to the single
// number the compiled expression is evaluated against. "delta" is the
// default reduction (key - value); "percent" rescales that delta against
// the value-side baseline; "abs" takes the magnitude last, so a filter
// combining percent and abs classifies by magnitude of percent change.
func (f *AttributeFilter) Scalar(key, value float64) float64 {
	scalar := key - value

	if f.Percent {
		if value != 0 {
			scalar = scalar / value * 100
		} else {
			scalar = 0
		}
	}

	if f.Abs {
		scalar = math.Abs(scalar)
	}

	return scalar
}

// Accept evaluates the filter against a record's named attribute values.
func (f *AttributeFilter) Accept(key, value float64) bool {
	return filter.Eval(f.Prog, f.Scalar(key, value))
}

// Pattern is one compiled analyse_patterns entry.
type Pattern struct {
	Name    string
	Target  PatternTarget
	Filters []AttributeFilter
}

// Matches reports whether every one of the pattern's filters accepts the
// given attribute table (attribute name -> [key, value] pair). A filter
// referencing an attribute absent from attrs never matches.
func (p *Pattern) Matches(attrs map[string][2]float64) bool {
	for _, f := range p.Filters {
		pair, ok := attrs[f.Attribute]
		if !ok {
			return false
		}

		if !f.Accept(pair[0], pair[1]) {
			return false
		}
	}

	return true
}

// CompilePatterns compiles analyse_patterns config entries into Patterns,
// resolving each filter clause's infix expression and type flags.
func CompilePatterns(patterns []config.Pattern) ([]Pattern, error) {
	out := make([]Pattern, 0, len(patterns))

	for _, p := range patterns {
		filters := make([]AttributeFilter, 0, len(p.Filters))

		for _, clause := range p.Filters {
			prog, err := filter.Compile(clause.Filter)
			if err != nil {
				return nil, fmt.Errorf("match: pattern %q: %w", p.Name, err)
			}

			af := AttributeFilter{Attribute: clause.Attribute, Prog: prog}
			for _, t := range clause.Type {
				switch t {
				case "abs":
					af.Abs = true
				case "percent":
					af.Percent = true
				}
			}

			filters = append(filters, af)
		}

		out = append(out, Pattern{Name: p.Name, Target: PatternTarget(p.Target), Filters: filters})
	}

	return out, nil
}

// attrsForRecord builds the attribute table a Pattern's filters read from
// a Record, covering the attributes spec.md names for analyse_patterns
// classification.
func attrsForRecord(rec *Record) map[string][2]float64 {
	attrs := map[string][2]float64{
		"delay": {rec.Key.Delay, rec.Value.Delay},
	}

	if rec.Key.Slack != nil && rec.Value.Slack != nil {
		attrs["slack"] = [2]float64{*rec.Key.Slack, *rec.Value.Slack}
	}

	if rec.Key.Length != nil && rec.Value.Length != nil {
		attrs["length"] = [2]float64{*rec.Key.Length, *rec.Value.Length}
	}

	if rec.Key.Fanout != nil && rec.Value.Fanout != nil {
		attrs["fanout"] = [2]float64{float64(*rec.Key.Fanout), float64(*rec.Value.Fanout)}
	}

	return attrs
}

// DominantFilter picks, per endpoint (Record.To), the analyse_patterns
// entry whose matching records have the largest absolute sum of
// Contribution(Key.Delay, Value.Delay, *Key.Slack), grounded on
// original_source/src/analyser/tns_analyser.cpp's per-path contribution
// accumulation. Records without a key slack are skipped. Ties are broken
// by pattern declaration order. An endpoint whose arcs match no pattern
// is absent from the result.
func DominantFilter(records map[string]*Record, patterns []Pattern) map[string]string {
	contribution := make(map[string]map[string]float64) // endpoint -> pattern -> total

	for _, rec := range records {
		if rec.Key.Slack == nil {
			continue
		}

		attrs := attrsForRecord(rec)

		for _, p := range patterns {
			if p.Target != TargetPath && string(p.Target) != rec.Type {
				continue
			}

			if !p.Matches(attrs) {
				continue
			}

			share := Contribution(rec.Key.Delay, rec.Value.Delay, *rec.Key.Slack)

			if contribution[rec.To] == nil {
				contribution[rec.To] = make(map[string]float64)
			}

			contribution[rec.To][p.Name] += share
		}
	}

	order := make(map[string]int, len(patterns))
	for i, p := range patterns {
		order[p.Name] = i
	}

	result := make(map[string]string, len(contribution))

	for endpoint, byPattern := range contribution {
		names := make([]string, 0, len(byPattern))
		for name := range byPattern {
			names = append(names, name)
		}

		sort.Slice(names, func(i, j int) bool {
			si, sj := math.Abs(byPattern[names[i]]), math.Abs(byPattern[names[j]])
			if si != sj {
				return si > sj
			}

			return order[names[i]] < order[names[j]]
		})

		result[endpoint] = names[0]
	}

	return result
}
