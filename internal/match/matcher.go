package match

import (
	"fmt"
	"math"

	"github.com/kinling9/stacompare/internal/graph"
	"github.com/kinling9/stacompare/internal/model"
)

// Matcher cross-references one key Db's arcs against one value Db's
// rise/fall graph pair.
type Matcher struct {
	KeyDb         *model.Db
	ValueDb       *model.Db
	ValueGraphs   *graph.Pair
	CSVPinDbKey   map[string]*model.Pin // optional side-channel, may be nil
	CSVPinDbValue map[string]*model.Pin // optional side-channel, may be nil
	AllowUnplaced bool
}

// Result is the outcome of a full match pass: the keyed record map plus a
// count of (arc, polarity) records skipped, either by the unplaced-pin guard
// or for having no value-graph path (QueryMiss); skips are never fatal.
type Result struct {
	Records map[string]*Record
	Skipped int
}

// Match walks every arc in KeyDb.AllArcs and, for each polarity (rise and
// fall), queries ValueGraphs for the shortest path between the arc's
// endpoints, emitting a Record when one exists.
func (m *Matcher) Match() Result {
	records := make(map[string]*Record)

	skipped := 0

	for _, arc := range m.KeyDb.AllArcs {
		fromPin, toPin := m.KeyDb.Pin(arc.From), m.KeyDb.Pin(arc.To)
		if fromPin == nil || toPin == nil {
			continue
		}

		for _, topRise := range []bool{true, false} {
			if !m.AllowUnplaced && !m.placed(fromPin.Name, toPin.Name) {
				skipped++

				continue
			}

			res := m.ValueGraphs.Engine(topRise).Query(fromPin.Name, toPin.Name)
			if res.Distance < 0 {
				skipped++

				continue
			}

			rec, key := m.buildRecord(arc, fromPin, toPin, topRise, res)
			records[key] = rec
		}
	}

	return Result{Records: records, Skipped: skipped}
}

// placed reports whether both from and to have a known pin attribute entry
// on both the key and value side, grounded on arc_analyser_graph.cpp's
// allow_unplaced_pins guard: !csv_pin_db_key.contains(pin_from) ||
// !csv_pin_db_key.contains(pin_to) || !csv_pin_db_value.contains(pin_from)
// || !csv_pin_db_value.contains(pin_to). A nil side-channel map (no
// --pin-attributes configured for that report) treats every pin as
// unplaced, matching the original's always-populated csv_pin_db.
func (m *Matcher) placed(from, to string) bool {
	_, fromKey := m.CSVPinDbKey[from]
	_, toKey := m.CSVPinDbKey[to]
	_, fromValue := m.CSVPinDbValue[from]
	_, toValue := m.CSVPinDbValue[to]

	return fromKey && toKey && fromValue && toValue
}

func (m *Matcher) buildRecord(arc *model.Arc, fromPin, toPin *model.Pin, topRise bool, res graph.QueryResult) (*Record, string) {
	totalDelay := arc.Delay[1]
	if topRise {
		totalDelay = arc.Delay[0]
	}

	// The key report's from-pin polarity for this record tracks the arc's
	// own transition; a cell arc's input side carries the opposite
	// polarity from its output for an inverting path, but the report
	// format already encodes that in toPin.Rise, so the from-side polarity
	// mirrors to-side here (consistent with the original's arc_tuple,
	// which reuses is_topin_rise on both ends of the JSON key string).
	fromRise := topRise

	rec := &Record{
		Type: arc.Type.String(),
		From: fmt.Sprintf("%s %s", fromPin.Name, polaritySuffix(fromRise)),
		To:   fmt.Sprintf("%s %s", toPin.Name, polaritySuffix(topRise)),
	}

	rec.Key.Delay = totalDelay
	rec.Key.Fanout = arc.Fanout
	rec.Key.Pins = []PinDescriptor{
		m.describePin(fromPin.Name, fromRise, 0, m.CSVPinDbKey),
		m.describePin(toPin.Name, topRise, pick(topRise, arc.Delay), m.CSVPinDbKey),
	}

	rec.Value.Delay = res.Distance
	rec.Value.Pins = m.buildValuePath(res.Path, fromRise, topRise, arc.Type)

	deltaDelay := totalDelay - res.Distance
	rec.DeltaDelay = deltaDelay

	m.attachSlack(rec, toPin, topRise)
	m.attachLength(rec, fromPin.Name, toPin.Name, res.Path)

	key := fmt.Sprintf("%s %s-%s %s", fromPin.Name, polaritySuffix(fromRise), toPin.Name, polaritySuffix(topRise))

	return rec, key
}

func pick(rise bool, delay [2]float64) float64 {
	if rise {
		return delay[0]
	}

	return delay[1]
}

func polaritySuffix(rise bool) string {
	if rise {
		return "(rise)"
	}

	return "(fall)"
}

func (m *Matcher) describePin(name string, rise bool, incrDelay float64, csvDb map[string]*model.Pin) PinDescriptor {
	pd := PinDescriptor{Name: name, IsInput: true, IncrDelay: incrDelay, Rise: rise}

	if csvDb == nil {
		return pd
	}

	p, ok := csvDb[name]
	if !ok {
		return pd
	}

	if p.PathDelays != nil {
		v := pick(rise, *p.PathDelays)
		pd.PathDelay = &v
	}

	if p.Location != nil {
		loc := [2]float64{p.Location.X, p.Location.Y}
		pd.Location = &loc
	}

	if p.Transs != nil {
		v := pick(rise, *p.Transs)
		pd.Trans = &v
	}

	if p.Caps != nil {
		v := pick(rise, *p.Caps)
		pd.Cap = &v
	}

	return pd
}

// buildValuePath reconstructs the value-side pin list by walking
// res.Path's consecutive pairs against the value Db's flat arc maps,
// alternating cell/net arc type starting from arc's own type, grounded on
// the `views::adjacent<2>` walk in process_single_connection.
func (m *Matcher) buildValuePath(path []string, fromRise, topRise bool, startType model.ArcType) []PinDescriptor {
	pins := make([]PinDescriptor, 0, len(path))

	if len(path) == 0 {
		return pins
	}

	pins = append(pins, m.describePin(path[0], fromRise, 0, m.CSVPinDbValue))

	isCellArc := startType == model.CellArc

	for i := 0; i+1 < len(path); i++ {
		from, to := path[i], path[i+1]

		table := m.ValueDb.NetArcsFlat
		if isCellArc {
			table = m.ValueDb.CellArcsFlat
		}

		key := model.ArcKey{From: from, To: to, Type: arcTypeOf(isCellArc)}

		var incr float64

		if arc, ok := table[key]; ok {
			incr = pick(topRise, arc.Delay)
		}

		pins = append(pins, m.describePin(to, topRise, incr, m.CSVPinDbValue))
		isCellArc = !isCellArc
	}

	return pins
}

func arcTypeOf(isCellArc bool) model.ArcType {
	if isCellArc {
		return model.CellArc
	}

	return model.NetArc
}

// attachSlack fills Key.Slack, and — when a value-side pin attribute exists
// for the same endpoint — Value.Slack and DeltaSlack. This corrects the
// copy-paste bug in pair_analyser_dij::csv_match where both branches read
// from the key-side pin db: the value side here reads CSVPinDbValue.
func (m *Matcher) attachSlack(rec *Record, toPin *model.Pin, topRise bool) {
	if m.CSVPinDbKey == nil {
		return
	}

	keyAttr, ok := m.CSVPinDbKey[toPin.Name]
	if !ok || keyAttr.PathSlacks == nil {
		return
	}

	keySlack := pick(topRise, *keyAttr.PathSlacks)
	rec.Key.Slack = &keySlack

	if m.CSVPinDbValue == nil {
		return
	}

	valAttr, ok := m.CSVPinDbValue[toPin.Name]
	if !ok || valAttr.PathSlacks == nil {
		return
	}

	valSlack := pick(topRise, *valAttr.PathSlacks)
	rec.Value.Slack = &valSlack

	delta := keySlack - valSlack
	rec.DeltaSlack = &delta
}

// attachLength computes the Manhattan path length on both sides when every
// endpoint involved has a known layout location, grounded on
// manhattan_distance over collect_loc's per-endpoint location lookup.
func (m *Matcher) attachLength(rec *Record, fromName, toName string, valuePath []string) {
	if m.CSVPinDbKey == nil || m.CSVPinDbValue == nil {
		return
	}

	keyLocs, ok := collectLocations(m.CSVPinDbKey, []string{fromName, toName})
	if !ok {
		return
	}

	valueLocs, ok := collectLocations(m.CSVPinDbValue, valuePath)
	if !ok {
		return
	}

	lenKey := manhattanDistance(keyLocs)
	lenValue := manhattanDistance(valueLocs)

	rec.Key.Length = &lenKey
	rec.Value.Length = &lenValue

	delta := lenKey - lenValue
	rec.DeltaLength = &delta
}

func collectLocations(db map[string]*model.Pin, names []string) ([][2]float64, bool) {
	locs := make([][2]float64, 0, len(names))

	for _, name := range names {
		p, ok := db[name]
		if !ok || p.Location == nil {
			return nil, false
		}

		locs = append(locs, [2]float64{p.Location.X, p.Location.Y})
	}

	return locs, true
}

func manhattanDistance(locs [][2]float64) float64 {
	total := 0.0

	for i := 1; i < len(locs); i++ {
		total += math.Abs(locs[i][0]-locs[i-1][0]) + math.Abs(locs[i][1]-locs[i-1][1])
	}

	return total
}
