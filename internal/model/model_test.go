package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinling9/stacompare/internal/model"
)

func buildSimplePath(t *testing.T, db *model.Db, names []string, rise []bool, incr []float64, slack float64) *model.Path {
	t.Helper()

	pins := make([]model.PinID, len(names))

	for i, name := range names {
		id := db.Intern(name)
		pins[i] = id

		p := db.Pin(id)
		p.IsInput = i%2 == 1
		p.Rise = rise[i]
		p.IncrDelay = incr[i]
	}

	path := &model.Path{
		Startpoint: names[0],
		Endpoint:   names[len(names)-1],
		Slack:      slack,
		Pins:       pins,
	}

	db.AddPath(path)

	return path
}

func TestDb_InternDedupesByName(t *testing.T) {
	t.Parallel()

	db := model.NewDb("leda", "design")

	a := db.Intern("u1/A")
	b := db.Intern("u1/A")

	assert.Equal(t, a, b)
	assert.Equal(t, 1, db.PinCount())
}

func TestDb_AddPathDerivesArcs(t *testing.T) {
	t.Parallel()

	db := model.NewDb("leda", "design")
	buildSimplePath(t, db,
		[]string{"A", "B", "C"},
		[]bool{false, true, false},
		[]float64{0, 1.0, 2.0},
		5.0,
	)

	require.Len(t, db.AllArcs, 2)
	// buildSimplePath marks A as an output and B as an input, so A->B crosses
	// a net and B->C goes through a cell.
	assert.Equal(t, model.NetArc, db.AllArcs[0].Type)
	assert.Equal(t, model.CellArc, db.AllArcs[1].Type)
	assert.NoError(t, db.Validate())
}

func TestDb_FinalizeSortsBySlackAscending(t *testing.T) {
	t.Parallel()

	db := model.NewDb("leda", "design")
	buildSimplePath(t, db, []string{"A1", "B1"}, []bool{false, true}, []float64{0, 1}, -0.5)
	buildSimplePath(t, db, []string{"A2", "B2"}, []bool{false, true}, []float64{0, 1}, 0.1)
	buildSimplePath(t, db, []string{"A3", "B3"}, []bool{false, true}, []float64{0, 1}, -1.2)

	db.Finalize()

	require.Len(t, db.Paths, 3)
	assert.InDelta(t, -1.2, db.Paths[0].Slack, 1e-9)
	assert.InDelta(t, -0.5, db.Paths[1].Slack, 1e-9)
	assert.InDelta(t, 0.1, db.Paths[2].Slack, 1e-9)
}

func TestDb_ValidateCatchesUnsortedPaths(t *testing.T) {
	t.Parallel()

	db := model.NewDb("leda", "design")
	db.Paths = []*model.Path{{Slack: 1}, {Slack: -1}}

	assert.Error(t, db.Validate())
}

func TestDb_SinglePinPathHasNoArcs(t *testing.T) {
	t.Parallel()

	db := model.NewDb("leda", "design")
	buildSimplePath(t, db, []string{"A"}, []bool{false}, []float64{0}, 0)

	assert.Empty(t, db.AllArcs)
	require.Len(t, db.Paths[0].Pins, 1)
}
