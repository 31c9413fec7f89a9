package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinling9/stacompare/internal/graph"
)

type testEdge struct {
	from, to string
	weight   float64
}

func buildEngine(t *testing.T, edges []testEdge) (*graph.Interner, *graph.Engine) {
	t.Helper()

	interner := graph.NewInterner()

	for _, e := range edges {
		interner.Intern(e.from)
		interner.Intern(e.to)
	}

	eng := graph.Build(interner, edges, func(e testEdge) (graph.NodeID, graph.NodeID, float64) {
		from, _ := interner.Lookup(e.from)
		to, _ := interner.Lookup(e.to)

		return from, to, e.weight
	})

	return interner, eng
}

func TestQuery_SameNodeIsZero(t *testing.T) {
	t.Parallel()

	_, eng := buildEngine(t, []testEdge{{"A", "B", 1.0}})

	res := eng.Query("A", "A")
	assert.InDelta(t, 0.0, res.Distance, 1e-9)
	assert.Equal(t, []string{"A"}, res.Path)
}

func TestQuery_UnknownNameIsNegativeOne(t *testing.T) {
	t.Parallel()

	_, eng := buildEngine(t, []testEdge{{"A", "B", 1.0}})

	res := eng.Query("A", "Z")
	assert.Equal(t, -1.0, res.Distance)
	assert.Nil(t, res.Path)
}

func TestQuery_DirectEdge(t *testing.T) {
	t.Parallel()

	_, eng := buildEngine(t, []testEdge{{"A", "B", 2.5}})

	res := eng.Query("A", "B")
	assert.InDelta(t, 2.5, res.Distance, 1e-9)
	assert.Equal(t, []string{"A", "B"}, res.Path)
}

func TestQuery_ShortestOfTwoPaths(t *testing.T) {
	t.Parallel()

	// A -> B -> D (weight 1+1=2), A -> C -> D (weight 0.5+0.5=1)
	_, eng := buildEngine(t, []testEdge{
		{"A", "B", 1}, {"B", "D", 1},
		{"A", "C", 0.5}, {"C", "D", 0.5},
	})

	res := eng.Query("A", "D")
	require.True(t, res.Distance >= 0)
	assert.InDelta(t, 1.0, res.Distance, 1e-9)
	assert.Equal(t, []string{"A", "C", "D"}, res.Path)
}

func TestQuery_DisconnectedComponentsReturnNegativeOne(t *testing.T) {
	t.Parallel()

	_, eng := buildEngine(t, []testEdge{{"A", "B", 1}, {"X", "Y", 1}})

	res := eng.Query("A", "Y")
	assert.Equal(t, -1.0, res.Distance)

	res2 := eng.Query("A", "X")
	assert.Equal(t, -1.0, res2.Distance)
}

func TestQuery_CycleFallsBackToPlainDijkstra(t *testing.T) {
	t.Parallel()

	// A -> B -> C -> A (cycle), plus B -> D so a shortest path exists.
	_, eng := buildEngine(t, []testEdge{
		{"A", "B", 1}, {"B", "C", 1}, {"C", "A", 1}, {"B", "D", 5},
	})

	stats := eng.Stats()
	assert.Equal(t, 1, stats.CyclicComps)

	res := eng.Query("A", "D")
	require.True(t, res.Distance >= 0)
	assert.InDelta(t, 6.0, res.Distance, 1e-9)
	assert.Equal(t, []string{"A", "B", "D"}, res.Path)
}

func TestQuery_NoDirectedPathDespiteSameComponent(t *testing.T) {
	t.Parallel()

	// B -> A is the only edge, so a query A -> B (wrong direction) must fail
	// even though they're in the same weakly-connected component.
	_, eng := buildEngine(t, []testEdge{{"B", "A", 1}})

	res := eng.Query("A", "B")
	assert.Equal(t, -1.0, res.Distance)
}

func TestQuery_PathSumMatchesDistance(t *testing.T) {
	t.Parallel()

	_, eng := buildEngine(t, []testEdge{
		{"A", "B", 1.25}, {"B", "C", 2.75}, {"C", "D", 0.5},
	})

	res := eng.Query("A", "D")
	require.Len(t, res.Path, 4)
	assert.InDelta(t, 4.5, res.Distance, 1e-9)
}
