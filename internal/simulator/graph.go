package simulator

import (
	"container/heap"
	"slices"
)

// edge is a dependency producer -> consumer between node indices.
type edge struct {
	from, to int
	soft     bool
}

// graph is an adjacency list over node indices 0..n-1.
type graph struct {
	n     int
	edges []edge
}

func newGraph(n int) *graph { return &graph{n: n} }

func (g *graph) add(from, to int, soft bool) {
	g.edges = append(g.edges, edge{from: from, to: to, soft: soft})
}

// adjacency returns successor lists for the edges accepted by keep.
// Successors are sorted and deduplicated so traversal is deterministic.
func (g *graph) adjacency(keep func(edge) bool) [][]int {
	adj := make([][]int, g.n)
	for _, e := range g.edges {
		if keep(e) {
			adj[e.from] = append(adj[e.from], e.to)
		}
	}
	for i := range adj {
		slices.Sort(adj[i])
		adj[i] = slices.Compact(adj[i])
	}
	return adj
}

// hardLoop returns the first loop made only of hard edges, as a node path
// whose first node is repeated last, or nil when the hard graph is acyclic.
func (g *graph) hardLoop() []int {
	adj := g.adjacency(func(e edge) bool { return !e.soft })
	for _, scc := range tarjanSCC(adj) {
		if len(scc) > 1 || (len(scc) == 1 && slices.Contains(adj[scc[0]], scc[0])) {
			return reconstructCyclePath(scc, adj)
		}
	}
	return nil
}

// schedule returns a topological order of all nodes.
//
// Soft edges inside a strongly connected component are feedback through
// storage and are dropped; every other edge orders the result. Ties are
// broken by node index, i.e. declaration order. The hard graph must be
// acyclic.
func (g *graph) schedule() []int {
	all := g.adjacency(func(edge) bool { return true })
	component := make([]int, g.n)
	for i, scc := range tarjanSCC(all) {
		for _, v := range scc {
			component[v] = i
		}
	}

	adj := g.adjacency(func(e edge) bool {
		return !e.soft || component[e.from] != component[e.to]
	})

	indegree := make([]int, g.n)
	for _, succ := range adj {
		for _, v := range succ {
			indegree[v]++
		}
	}

	ready := &intHeap{}
	for v := 0; v < g.n; v++ {
		if indegree[v] == 0 {
			heap.Push(ready, v)
		}
	}

	order := make([]int, 0, g.n)
	for ready.Len() > 0 {
		v := heap.Pop(ready).(int)
		order = append(order, v)
		for _, w := range adj[v] {
			indegree[w]--
			if indegree[w] == 0 {
				heap.Push(ready, w)
			}
		}
	}
	return order
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in index order, so the result is deterministic.
func tarjanSCC(adj [][]int) [][]int {
	var (
		index   = 0
		stack   []int
		indices = make([]int, len(adj))
		lowlink = make([]int, len(adj))
		onStack = make([]bool, len(adj))
		sccs    [][]int
	)
	for i := range indices {
		indices[i] = -1
	}

	var strongConnect func(int)
	strongConnect = func(v int) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range adj[v] {
			if indices[w] < 0 {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// v is a root node: pop the stack and emit an SCC
		if lowlink[v] == indices[v] {
			var scc []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			slices.Sort(scc)
			sccs = append(sccs, scc)
		}
	}

	for v := range adj {
		if indices[v] < 0 {
			strongConnect(v)
		}
	}
	return sccs
}

// reconstructCyclePath walks an SCC from its lowest node back to itself.
//
// Strategy: breadth-first search inside the SCC for the shortest path
// from start back to start.
func reconstructCyclePath(scc []int, adj [][]int) []int {
	start := scc[0]
	inSCC := make(map[int]bool, len(scc))
	for _, v := range scc {
		inSCC[v] = true
	}

	parent := map[int]int{}
	queue := []int{start}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, w := range adj[v] {
			if !inSCC[w] {
				continue
			}
			if w == start {
				path := []int{start}
				for u := v; u != start; u = parent[u] {
					path = append(path, u)
				}
				slices.Reverse(path[1:])
				return append(path, start)
			}
			if _, seen := parent[w]; !seen {
				parent[w] = v
				queue = append(queue, w)
			}
		}
	}
	return []int{start, start}
}

// intHeap is a min-heap of node indices.
type intHeap []int

func (h intHeap) Len() int           { return len(h) }
func (h intHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
