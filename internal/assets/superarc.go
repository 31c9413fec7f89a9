package assets

import (
	"math"

	"github.com/kinling9/stacompare/internal/model"
)

// SuperArc is the pin subsequence between two named endpoints of a path,
// with its accumulated delay and physical length — an "atomic" multi-hop
// arc a caller treats as a single unit, grounded on utils/super_arc.{h,cpp}.
// The original's views::drop_while | take_while pipeline becomes a plain
// index-bounded loop, per SPEC_FULL.md's "index loops with guard
// conditions" design note.
type SuperArc struct {
	Pins     []string
	Delay    float64
	Length   float64
	Endpoint string
	Slack    float64
}

// ExtractSuperArc finds from..to within path's pin sequence (by name) and
// builds the SuperArc spanning them. Returns false if either endpoint name
// is absent from the path, or from appears after to.
func ExtractSuperArc(db *model.Db, path *model.Path, from, to string) (SuperArc, bool) {
	startIdx, endIdx := -1, -1

	for i, id := range path.Pins {
		pin := db.Pin(id)
		if pin == nil {
			continue
		}

		if pin.Name == from && startIdx == -1 {
			startIdx = i
		}

		if pin.Name == to && startIdx != -1 {
			endIdx = i

			break
		}
	}

	if startIdx == -1 || endIdx == -1 {
		return SuperArc{}, false
	}

	sa := SuperArc{Endpoint: path.Endpoint, Slack: path.Slack}

	var locs [][2]float64

	for i := startIdx; i <= endIdx; i++ {
		pin := db.Pin(path.Pins[i])
		if pin == nil {
			continue
		}

		sa.Pins = append(sa.Pins, pin.Name)

		if pin.Location != nil {
			locs = append(locs, [2]float64{pin.Location.X, pin.Location.Y})
		}

		if i > startIdx {
			sa.Delay += pin.IncrDelay
		}
	}

	sa.Length = manhattanDistance(locs)

	return sa, true
}

func manhattanDistance(locs [][2]float64) float64 {
	total := 0.0

	for i := 1; i < len(locs); i++ {
		total += math.Abs(locs[i][0]-locs[i-1][0]) + math.Abs(locs[i][1]-locs[i-1][1])
	}

	return total
}
