package match

import "github.com/kinling9/stacompare/internal/model"

// FanoutRecord is one row of the fanout_analyse.csv artifact: a net arc's
// fanout and its delay (the arc's rise and fall delay slots summed).
type FanoutRecord struct {
	From   string
	To     string
	Fanout int
	Delay  float64
}

// FanoutReport collects FanoutRecords for every NetArc carrying a fanout
// count in a Db, grounded on the fanout reporting in arc_analyser_graph's
// "fanout" field plumbing (db.all_arcs entries with Fanout != nil).
func FanoutReport(db *model.Db) []FanoutRecord {
	var rows []FanoutRecord

	for _, arc := range db.AllArcs {
		if arc.Type != model.NetArc || arc.Fanout == nil {
			continue
		}

		fromPin, toPin := db.Pin(arc.From), db.Pin(arc.To)
		if fromPin == nil || toPin == nil {
			continue
		}

		rows = append(rows, FanoutRecord{
			From:   fromPin.Name,
			To:     toPin.Name,
			Fanout: *arc.Fanout,
			Delay:  arc.Delay[0] + arc.Delay[1],
		})
	}

	return rows
}

// PathTotalDelay returns a path's cumulative delay, the last pin's
// path_delay field (startpoint-to-endpoint data arrival time).
func PathTotalDelay(db *model.Db, path *model.Path) float64 {
	if len(path.Pins) == 0 {
		return 0
	}

	last := db.Pin(path.Pins[len(path.Pins)-1])
	if last == nil {
		return 0
	}

	return last.PathDelay
}
