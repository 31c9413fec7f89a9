// Package graph builds a shortest-path engine over one polarity (rise or
// fall) of a value report's arcs, grounded on
// utils/sparse_graph_shortest_path.{h,cpp}: a dense-integer-id adjacency
// list, weakly-connected components via BFS, per-component topological
// order via Kahn's algorithm, and a topo-pruned Dijkstra for point queries.
// Unlike the original, a component whose Kahn's pass does not fully order
// (a cycle) is explicitly flagged and queries into it fall back to a plain
// (unpruned) Dijkstra, rather than indexing into an incomplete topo map.
package graph

import (
	"container/heap"
	"runtime"
	"sync"
)

// Edge is a weighted directed edge in the adjacency list.
type Edge struct {
	To     NodeID
	Weight float64
}

// Stats counts construction-time outcomes, exposed for observability
// (grounded on sparse_graph_shortest_path's timing_stats / print_stats).
type Stats struct {
	Nodes       int
	Edges       int
	Components  int
	CyclicComps int
}

// Engine is an immutable, read-only-after-Build shortest path index over
// one weighted polarity of a graph.
type Engine struct {
	interner *Interner

	adj [][]Edge

	componentOf []int
	// topoOrder[c] is nil if component c contains a cycle (Kahn's pass did
	// not fully order it); queries into it fall back to plain Dijkstra.
	topoOrder []map[NodeID]int

	stats Stats
}

// WeightFunc extracts the scalar weight for one directed edge from a
// caller-supplied edge record (the matcher feeds CellArc/NetArc delay for
// the requested polarity).
type WeightFunc[E any] func(e E) (from, to NodeID, weight float64)

// Build constructs an Engine from a generic edge list and a weight
// extraction function, so the rise and fall graphs (or any future
// polarity-like parameterization) share this one construction path with
// different WeightFunc closures, per the "two parallel rise/fall graphs"
// design note: one generic engine, two differently-weighted instances.
func Build[E any](interner *Interner, edges []E, weight WeightFunc[E]) *Engine {
	eng := &Engine{interner: interner}

	maxNode := 0

	type rawEdge struct {
		from, to NodeID
		w        float64
	}

	raw := make([]rawEdge, 0, len(edges))

	for _, e := range edges {
		from, to, w := weight(e)
		raw = append(raw, rawEdge{from: from, to: to, w: w})

		if int(from) > maxNode {
			maxNode = int(from)
		}

		if int(to) > maxNode {
			maxNode = int(to)
		}
	}

	n := maxNode + 1
	if interner.Len() > n {
		n = interner.Len()
	}

	eng.adj = make([][]Edge, n)
	revAdj := make([][]Edge, n)

	for _, e := range raw {
		eng.adj[e.from] = append(eng.adj[e.from], Edge{To: e.to, Weight: e.w})
		revAdj[e.to] = append(revAdj[e.to], Edge{To: e.from, Weight: e.w})
		eng.stats.Edges++
	}

	eng.stats.Nodes = n

	components := computeComponents(eng.adj, revAdj, n)
	eng.componentOf = make([]int, n)

	for compID, nodes := range components {
		for _, node := range nodes {
			eng.componentOf[node] = compID
		}
	}

	eng.stats.Components = len(components)
	eng.topoOrder = buildTopoOrders(eng.adj, components)

	for _, ord := range eng.topoOrder {
		if ord == nil {
			eng.stats.CyclicComps++
		}
	}

	return eng
}

// computeComponents finds weakly-connected components via BFS over the
// undirected union of adj and revAdj, grounded on computeComponents in the
// original: a queue-based BFS seeded from every unvisited node.
func computeComponents(adj, revAdj [][]Edge, n int) [][]int {
	visited := make([]bool, n)

	var components [][]int

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}

		var comp []int

		queue := []int{start}
		visited[start] = true

		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			comp = append(comp, curr)

			for _, e := range adj[curr] {
				if !visited[int(e.To)] {
					visited[int(e.To)] = true

					queue = append(queue, int(e.To))
				}
			}

			for _, e := range revAdj[curr] {
				if !visited[int(e.To)] {
					visited[int(e.To)] = true

					queue = append(queue, int(e.To))
				}
			}
		}

		components = append(components, comp)
	}

	return components
}

// buildTopoOrders runs Kahn's algorithm per component in a bounded worker
// pool, grounded on topologicalSort's per-component thread distribution
// (the original launches a fixed 8 OS threads; here a worker pool sized to
// GOMAXPROCS does the same job without over-subscribing on small inputs).
func buildTopoOrders(adj [][]Edge, components [][]int) []map[NodeID]int {
	orders := make([]map[NodeID]int, len(components))

	workers := runtime.GOMAXPROCS(0)
	if workers > len(components) {
		workers = len(components)
	}

	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int, len(components))
	for i := range components {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup

	wg.Add(workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()

			for compID := range jobs {
				orders[compID] = kahnTopoOrder(adj, components[compID])
			}
		}()
	}

	wg.Wait()

	return orders
}

// kahnTopoOrder returns a node -> position map if nodes forms a DAG under
// adj, or nil if a cycle prevents a full ordering.
func kahnTopoOrder(adj [][]Edge, nodes []int) map[NodeID]int {
	if len(nodes) <= 1 {
		order := make(map[NodeID]int, len(nodes))
		for i, n := range nodes {
			order[NodeID(n)] = i
		}

		return order
	}

	inComponent := make(map[int]bool, len(nodes))
	for _, n := range nodes {
		inComponent[n] = true
	}

	inDegree := make(map[int]int, len(nodes))
	for _, n := range nodes {
		inDegree[n] = 0
	}

	for _, n := range nodes {
		for _, e := range adj[n] {
			if inComponent[int(e.To)] {
				inDegree[int(e.To)]++
			}
		}
	}

	queue := make([]int, 0, len(nodes))

	for _, n := range nodes {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	result := make([]int, 0, len(nodes))

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		result = append(result, u)

		for _, e := range adj[u] {
			v := int(e.To)
			if !inComponent[v] {
				continue
			}

			inDegree[v]--
			if inDegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}

	if len(result) != len(nodes) {
		return nil // cycle: no full topological order for this component
	}

	order := make(map[NodeID]int, len(result))
	for i, n := range result {
		order[NodeID(n)] = i
	}

	return order
}

// Stats returns construction-time counters.
func (e *Engine) Stats() Stats { return e.stats }

// QueryResult is the outcome of a point-to-point shortest path query.
type QueryResult struct {
	// Distance is the shortest path weight, or -1 if no directed path exists.
	Distance float64
	// Path is the node names from "from" to "to" inclusive, nil if Distance < 0.
	Path []string
}

// Query returns the shortest directed path from "from" to "to" by name,
// per the exact semantics in the invariants: unknown names report -1/nil,
// from==to reports 0/[from], nodes in different components report -1,
// otherwise a topo-pruned (or, for a cyclic component, plain) Dijkstra runs.
func (e *Engine) Query(from, to string) QueryResult {
	fromID, ok := e.interner.Lookup(from)
	if !ok {
		return QueryResult{Distance: -1}
	}

	toID, ok := e.interner.Lookup(to)
	if !ok {
		return QueryResult{Distance: -1}
	}

	return e.QueryByID(fromID, toID)
}

// QueryByID is Query's NodeID-keyed counterpart, used internally and by
// callers that have already resolved ids once and want to avoid the
// repeated string lookup.
func (e *Engine) QueryByID(from, to NodeID) QueryResult {
	if int(from) < 0 || int(from) >= len(e.adj) || int(to) < 0 || int(to) >= len(e.adj) {
		return QueryResult{Distance: -1}
	}

	if from == to {
		return QueryResult{Distance: 0, Path: []string{e.interner.Name(from)}}
	}

	if e.componentOf[from] != e.componentOf[to] {
		return QueryResult{Distance: -1}
	}

	comp := e.componentOf[from]
	order := e.topoOrder[comp]

	if order != nil {
		return e.dijkstraTopoPruned(from, to, order)
	}

	return e.dijkstraPlain(from, to)
}

type pqItem struct {
	dist float64
	node NodeID
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(pqItem)) }

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}

// dijkstraTopoPruned mirrors dijkstra_topo: it only relaxes edges whose
// target sits at or before to's topological position, bounding the search
// to the prefix of the component that can possibly reach "to".
func (e *Engine) dijkstraTopoPruned(from, to NodeID, order map[NodeID]int) QueryResult {
	toPos, ok := order[to]
	if !ok {
		return QueryResult{Distance: -1}
	}

	dist := map[NodeID]float64{from: 0}
	parent := map[NodeID]NodeID{}
	visited := map[NodeID]bool{}

	pq := &priorityQueue{{dist: 0, node: from}}
	heap.Init(pq)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(pqItem)
		u := item.node

		if visited[u] {
			continue
		}

		visited[u] = true

		if u == to {
			return reconstructPath(e.interner, from, to, parent, item.dist)
		}

		uPos, ok := order[u]
		if !ok || uPos >= toPos {
			continue
		}

		for _, edge := range e.adj[u] {
			v := edge.To

			vPos, ok := order[v]
			if !ok || vPos > toPos {
				continue
			}

			newDist := item.dist + edge.Weight
			if d, seen := dist[v]; !seen || newDist < d {
				dist[v] = newDist
				parent[v] = u
				heap.Push(pq, pqItem{dist: newDist, node: v})
			}
		}
	}

	return QueryResult{Distance: -1}
}

// dijkstraPlain is the fallback for a component where Kahn's pass found a
// cycle: standard Dijkstra with no topological pruning. Arc weights in this
// domain are delays and are never negative, so Dijkstra's non-negative-weight
// precondition holds even on the malformed-input cyclic case.
func (e *Engine) dijkstraPlain(from, to NodeID) QueryResult {
	dist := map[NodeID]float64{from: 0}
	parent := map[NodeID]NodeID{}
	visited := map[NodeID]bool{}

	pq := &priorityQueue{{dist: 0, node: from}}
	heap.Init(pq)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(pqItem)
		u := item.node

		if visited[u] {
			continue
		}

		visited[u] = true

		if u == to {
			return reconstructPath(e.interner, from, to, parent, item.dist)
		}

		for _, edge := range e.adj[u] {
			v := edge.To
			newDist := item.dist + edge.Weight

			if d, seen := dist[v]; !seen || newDist < d {
				dist[v] = newDist
				parent[v] = u
				heap.Push(pq, pqItem{dist: newDist, node: v})
			}
		}
	}

	return QueryResult{Distance: -1}
}

func reconstructPath(in *Interner, from, to NodeID, parent map[NodeID]NodeID, distance float64) QueryResult {
	if to == from {
		return QueryResult{Distance: distance, Path: []string{in.Name(from)}}
	}

	var ids []NodeID

	current := to
	for current != from {
		ids = append(ids, current)

		p, ok := parent[current]
		if !ok {
			return QueryResult{Distance: -1}
		}

		current = p
	}

	ids = append(ids, from)

	names := make([]string, len(ids))
	for i, id := range ids {
		names[len(ids)-1-i] = in.Name(id)
	}

	return QueryResult{Distance: distance, Path: names}
}
