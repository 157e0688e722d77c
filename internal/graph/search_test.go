package graph

import (
	"math"
	"reflect"
	"testing"

	"github.com/kestrelgames/tradewinds/internal/world"
)

func mustBuild(t *testing.T, regions []*world.Region) *Graph {
	t.Helper()
	g, err := Build(regions, nil, DefaultCostTable())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return g
}

func mustIndex(t *testing.T, g *Graph, id world.RegionID) NodeIndex {
	t.Helper()
	ix, ok := g.IndexOf(id)
	if !ok {
		t.Fatalf("region %d not in graph", id)
	}
	return ix
}

// Three nodes in a row, uniform cost, sources at both ends: the middle
// node ties at cost 1 and must join the lower source index.
func TestTieBreaksToLowerSource(t *testing.T) {
	g := mustBuild(t, lineWorld(3))
	a := mustIndex(t, g, 1)
	b := mustIndex(t, g, 2)
	c := mustIndex(t, g, 3)

	res := ShortestPaths(g, []NodeIndex{a, c})

	if res.Source[b] != a {
		t.Fatalf("tied node assigned to source %d, want lower source %d", res.Source[b], a)
	}
	if want := g.Edges(a)[0].Cost; res.Cost[b] != want {
		t.Fatalf("cost(B) = %v, want %v", res.Cost[b], want)
	}

	// Source order in the input must not matter.
	res2 := ShortestPaths(g, []NodeIndex{c, a})
	if res2.Source[b] != a {
		t.Fatalf("source order changed the tie-break: got %d", res2.Source[b])
	}
}

func TestSearchDeterministic(t *testing.T) {
	regions := hexWorld(5, world.TerrainPlains)
	g := mustBuild(t, regions)
	sources := []NodeIndex{
		mustIndex(t, g, 1),
		mustIndex(t, g, 40),
		mustIndex(t, g, 77),
	}

	first := ShortestPaths(g, sources)
	second := ShortestPaths(g, sources)

	if !reflect.DeepEqual(first, second) {
		t.Fatal("two runs over identical input produced different results")
	}
}

// Every node's multi-source label must match the cheapest single-source
// run, with ties to the lower source index.
func TestNearestSourceOptimality(t *testing.T) {
	g := mustBuild(t, hexWorld(4, world.TerrainPlains))
	sources := []NodeIndex{
		mustIndex(t, g, 3),
		mustIndex(t, g, 25),
		mustIndex(t, g, 58),
	}

	multi := ShortestPaths(g, sources)
	single := make([]*Result, len(sources))
	for i, s := range sources {
		single[i] = ShortestPaths(g, []NodeIndex{s})
	}

	for n := 0; n < g.NumNodes(); n++ {
		ix := NodeIndex(n)
		best := math.Inf(1)
		bestSrc := None
		for i, s := range sources {
			if c := single[i].Cost[ix]; c < best {
				best = c
				bestSrc = s
			}
		}
		if multi.Cost[ix] != best {
			t.Fatalf("node %d: multi cost %v, cheapest single-source %v", n, multi.Cost[ix], best)
		}
		if multi.Cost[ix] == best && multi.Source[ix] != bestSrc {
			// Equal-cost sources must resolve to the lowest index.
			for i, s := range sources {
				if single[i].Cost[ix] == best && s < multi.Source[ix] {
					t.Fatalf("node %d: assigned source %d but source %d ties at cost %v",
						n, multi.Source[ix], s, best)
				}
			}
		}
	}
}

func TestUnreachableNodesAbsent(t *testing.T) {
	// Two disconnected line segments.
	regions := lineWorld(2)
	regions = append(regions,
		&world.Region{ID: 10, Coord: world.HexCoord{Q: 100, R: 0}, Terrain: world.TerrainPlains, Named: true},
		&world.Region{ID: 11, Coord: world.HexCoord{Q: 101, R: 0}, Terrain: world.TerrainPlains, Named: true},
	)
	g := mustBuild(t, regions)

	res := ShortestPaths(g, []NodeIndex{mustIndex(t, g, 1)})

	far := mustIndex(t, g, 10)
	if res.Reached(far) {
		t.Fatal("disconnected node reported as reached")
	}
	if res.Source[far] != None || res.Parent[far] != None {
		t.Fatal("unreached node carries a source or parent label")
	}
	if !math.IsInf(res.Cost[far], 1) {
		t.Fatalf("unreached node cost = %v, want +Inf", res.Cost[far])
	}
}

func TestParentPointersWalkBackToSource(t *testing.T) {
	g := mustBuild(t, lineWorld(5))
	src := mustIndex(t, g, 1)
	end := mustIndex(t, g, 5)

	res := ShortestPaths(g, []NodeIndex{src})

	hops := 0
	for cur := end; cur != src; cur = res.Parent[cur] {
		if cur == None {
			t.Fatal("parent walk fell off before reaching the source")
		}
		hops++
		if hops > g.NumNodes() {
			t.Fatal("parent walk does not terminate")
		}
	}
	if hops != 4 {
		t.Fatalf("expected 4 hops along the line, got %d", hops)
	}
}
