package graph

import (
	"container/heap"
	"math"
)

// Result is the output of one multi-source shortest-path run: per node, the
// cumulative cost, the nearest source, and the parent on the shortest path
// back toward that source. Produced fresh per run and never mutated after.
type Result struct {
	Cost   []float64
	Source []NodeIndex // None when unreached
	Parent []NodeIndex // None for sources and unreached nodes
}

// Reached reports whether the node was reachable from any source.
func (r *Result) Reached(i NodeIndex) bool {
	return r.Source[i] != None
}

// ShortestPaths runs Dijkstra's algorithm from every source simultaneously.
// All sources seed the frontier at cost 0 labeled with themselves; each
// reachable node ends up labeled with the source it is cheapest to reach
// from.
//
// Ties on exactly equal cost resolve to the lower source index, then the
// lower parent index. Edge costs are strictly positive, so every
// equal-cost predecessor of a node is finalized — and has offered its
// label — before the node itself leaves the frontier; the winning label is
// therefore a pure function of the graph and source set, identical across
// runs.
//
// Unreachable nodes stay at Source == None; that is not an error, callers
// treat absence as "unassigned". The run always goes to completion.
func ShortestPaths(g *Graph, sources []NodeIndex) *Result {
	n := g.NumNodes()
	res := &Result{
		Cost:   make([]float64, n),
		Source: make([]NodeIndex, n),
		Parent: make([]NodeIndex, n),
	}
	for i := 0; i < n; i++ {
		res.Cost[i] = math.Inf(1)
		res.Source[i] = None
		res.Parent[i] = None
	}

	done := make([]bool, n)
	pq := make(frontier, 0, len(sources))
	for _, s := range sources {
		res.Cost[s] = 0
		res.Source[s] = s
		heap.Push(&pq, frontierItem{node: s, src: s, cost: 0})
	}

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(frontierItem)
		u := item.node
		if done[u] {
			continue
		}
		done[u] = true

		for _, e := range g.Edges(u) {
			v := e.To
			if done[v] {
				continue
			}
			next := res.Cost[u] + e.Cost
			switch {
			case next < res.Cost[v]:
			case next == res.Cost[v] && res.Source[u] < res.Source[v]:
			case next == res.Cost[v] && res.Source[u] == res.Source[v] && u < res.Parent[v]:
			default:
				continue
			}
			res.Cost[v] = next
			res.Source[v] = res.Source[u]
			res.Parent[v] = u
			heap.Push(&pq, frontierItem{node: v, src: res.Source[v], cost: next})
		}
	}

	return res
}

type frontierItem struct {
	node NodeIndex
	src  NodeIndex
	cost float64
}

type frontier []frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].cost != f[j].cost {
		return f[i].cost < f[j].cost
	}
	if f[i].src != f[j].src {
		return f[i].src < f[j].src
	}
	return f[i].node < f[j].node
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x interface{}) {
	*f = append(*f, x.(frontierItem))
}

func (f *frontier) Pop() interface{} {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}
