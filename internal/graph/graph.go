// Package graph builds the weighted traversal graph over the world's hex
// regions and runs multi-source shortest-path searches over it.
//
// The graph is built once at world initialization and is read-only
// afterwards. Edge costs — terrain base cost and ocean-current scaling —
// are resolved at build time and baked into the edge records, so nothing
// downstream ever recomputes them.
package graph

import (
	"fmt"
	"math"
	"sort"

	"github.com/kestrelgames/tradewinds/internal/world"
)

// NodeIndex is a dense index into the graph's node arena. Nodes are laid
// out in ascending region-id order, so index order is id order regardless
// of roster order.
type NodeIndex int32

// None marks the absence of a node (unreached, no parent).
const None NodeIndex = -1

// Node is one graph node per map region.
type Node struct {
	Region  world.RegionID
	Coord   world.HexCoord
	Terrain world.Terrain
	Named   bool
}

// Edge is a directed edge to a neighboring node with its baked cost.
type Edge struct {
	To   NodeIndex
	Cost float64
}

// Graph is the immutable weighted world graph. Edges are stored in a flat
// arena indexed by per-node offsets; at a few hundred thousand nodes this
// keeps the adjacency lists in one allocation.
type Graph struct {
	nodes    []Node
	offsets  []int32 // len(nodes)+1; edges of node i are edgeList[offsets[i]:offsets[i+1]]
	edgeList []Edge

	byRegion map[world.RegionID]NodeIndex
	byCoord  map[world.HexCoord]NodeIndex
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumEdges returns the directed edge count.
func (g *Graph) NumEdges() int { return len(g.edgeList) }

// Node returns the node at the given index.
func (g *Graph) Node(i NodeIndex) Node { return g.nodes[i] }

// Edges returns the outgoing edges of the node at the given index.
// The returned slice is shared graph storage — read-only.
func (g *Graph) Edges(i NodeIndex) []Edge {
	return g.edgeList[g.offsets[i]:g.offsets[i+1]]
}

// IndexOf returns the node index for a region id.
func (g *Graph) IndexOf(id world.RegionID) (NodeIndex, bool) {
	i, ok := g.byRegion[id]
	return i, ok
}

// At returns the node index at a hex coordinate.
func (g *Graph) At(coord world.HexCoord) (NodeIndex, bool) {
	i, ok := g.byCoord[coord]
	return i, ok
}

// Build constructs the graph from the full region roster. Each region
// becomes one node; edges run to the up-to-6 hex neighbors present in the
// roster. The dataset edge is a hard boundary — no wraparound.
//
// Fails with *world.DataIntegrityError when two regions claim the same
// coordinate, since a corrupt coordinate index silently breaks every
// search that follows.
func Build(regions []*world.Region, currents []world.OceanCurrent, costs CostTable) (*Graph, error) {
	if err := costs.Validate(); err != nil {
		return nil, fmt.Errorf("cost table: %w", err)
	}
	// Normalization works on a copy so the caller's slice keeps its
	// original direction vectors.
	currents = append([]world.OceanCurrent(nil), currents...)
	for i := range currents {
		if err := currents[i].Validate(); err != nil {
			return nil, fmt.Errorf("ocean current: %w", err)
		}
		currents[i].Normalize()
	}

	ordered := make([]*world.Region, len(regions))
	copy(ordered, regions)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	g := &Graph{
		nodes:    make([]Node, len(ordered)),
		byRegion: make(map[world.RegionID]NodeIndex, len(ordered)),
		byCoord:  make(map[world.HexCoord]NodeIndex, len(ordered)),
	}

	geo := make([]geoRef, len(ordered))
	for i, r := range ordered {
		idx := NodeIndex(i)
		if prev, dup := g.byCoord[r.Coord]; dup {
			return nil, &world.DataIntegrityError{
				Coord:   r.Coord,
				Regions: [2]world.RegionID{g.nodes[prev].Region, r.ID},
			}
		}
		if _, dup := g.byRegion[r.ID]; dup {
			return nil, fmt.Errorf("duplicate region id %d in roster", r.ID)
		}
		g.nodes[idx] = Node{Region: r.ID, Coord: r.Coord, Terrain: r.Terrain, Named: r.Named}
		g.byRegion[r.ID] = idx
		g.byCoord[r.Coord] = idx
		geo[idx] = geoRef{lat: r.Lat, lng: r.Lng, ok: r.HasGeo}
	}

	// Two passes over the adjacency: count, then fill the edge arena.
	g.offsets = make([]int32, len(g.nodes)+1)
	for i := range g.nodes {
		n := 0
		for _, nc := range g.nodes[i].Coord.Neighbors() {
			if _, ok := g.byCoord[nc]; ok {
				n++
			}
		}
		g.offsets[i+1] = g.offsets[i] + int32(n)
	}
	g.edgeList = make([]Edge, g.offsets[len(g.nodes)])

	for i := range g.nodes {
		from := NodeIndex(i)
		pos := g.offsets[i]
		for _, nc := range g.nodes[i].Coord.Neighbors() {
			to, ok := g.byCoord[nc]
			if !ok {
				continue
			}
			cost := costs.edgeCost(g.nodes[from].Terrain, g.nodes[to].Terrain, geo[from], geo[to], currents)
			if cost <= 0 || math.IsInf(cost, 0) || math.IsNaN(cost) {
				return nil, fmt.Errorf("edge %d->%d: non-positive or non-finite cost %v",
					g.nodes[from].Region, g.nodes[to].Region, cost)
			}
			g.edgeList[pos] = Edge{To: to, Cost: cost}
			pos++
		}
	}

	return g, nil
}

type geoRef struct {
	lat, lng float64
	ok       bool
}
