package match

import "github.com/kinling9/stacompare/internal/model"

// TNSAccumulator sums each arc's total-negative-slack contribution across
// every path that exercises it, grounded on
// tns_analyser::calculate_tns_contribution. The original guards a first
// insert with try_emplace before the first "+=", which means the first
// path's contribution is never itself summed into a starting zero; the
// resolved reading here is that tns_contribute is a 0-initialized
// accumulator, so every contribution — including the first — goes through
// "+=" against a starting value of 0.
type TNSAccumulator struct {
	totals map[model.ArcKey]float64
}

// NewTNSAccumulator creates an empty accumulator.
func NewTNSAccumulator() *TNSAccumulator {
	return &TNSAccumulator{totals: make(map[model.ArcKey]float64)}
}

// Add folds one path's contribution for the arc (from, to, type) into the
// running total. Go's zero value for a missing map key is 0.0, so this is
// naturally the 0-initialized accumulator the open question called for.
func (t *TNSAccumulator) Add(key model.ArcKey, contribute float64) {
	t.totals[key] += contribute
}

// Contribution computes one path's share of an arc's delay against total
// negative slack: delay / path.TotalDelay() * path.Slack, clamped so a
// single arc can never contribute more negative TNS than its own delay.
func Contribution(delay, pathTotalDelay, slack float64) float64 {
	if pathTotalDelay == 0 {
		return 0
	}

	contribute := delay / pathTotalDelay * slack
	if contribute < -delay {
		return -delay
	}

	return contribute
}

// Totals returns the accumulated per-arc TNS contribution.
func (t *TNSAccumulator) Totals() map[model.ArcKey]float64 { return t.totals }

// AccumulatePaths folds every violating path in db into t, grounded on
// tns_analyser::calculate_tns_contribution's db->paths loop: unlike Matcher,
// which cross-references a key Db's arcs against a value Db's graph, this
// walks one Db's own paths directly, so an arc exercised by N paths
// contributes N times, each using that path's own Slack and cumulative
// delay (PathTotalDelay) — no CSV pin-attribute side channel or
// cross-report matching involved. Paths with Slack >= 0 contribute nothing,
// matching the original's "if (path->slack < 0)" guard.
func (t *TNSAccumulator) AccumulatePaths(db *model.Db) {
	for _, path := range db.Paths {
		if path.Slack >= 0 {
			continue
		}

		total := PathTotalDelay(db, path)

		for i := 0; i+1 < len(path.Pins); i++ {
			fromPin, toPin := db.Pin(path.Pins[i]), db.Pin(path.Pins[i+1])
			if fromPin == nil || toPin == nil {
				continue
			}

			arcType := model.NetArc
			if fromPin.IsInput {
				arcType = model.CellArc
			}

			key := model.ArcKey{From: fromPin.Name, To: toPin.Name, Type: arcType}
			t.Add(key, Contribution(toPin.IncrDelay, total, path.Slack))
		}
	}
}
