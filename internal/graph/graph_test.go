package graph

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"

	"github.com/kestrelgames/tradewinds/internal/world"
)

// lineWorld builds n plains regions in a row along the q axis, ids 1..n.
func lineWorld(n int) []*world.Region {
	regions := make([]*world.Region, 0, n)
	for i := 0; i < n; i++ {
		regions = append(regions, &world.Region{
			ID:      world.RegionID(i + 1),
			Coord:   world.HexCoord{Q: i, R: 0},
			Terrain: world.TerrainPlains,
			Named:   true,
		})
	}
	return regions
}

// hexWorld builds a filled hex grid of the given radius with one terrain.
func hexWorld(radius int, terrain world.Terrain) []*world.Region {
	var regions []*world.Region
	id := world.RegionID(1)
	for q := -radius; q <= radius; q++ {
		for r := -radius; r <= radius; r++ {
			s := -q - r
			if abs(q) > radius || abs(r) > radius || abs(s) > radius {
				continue
			}
			regions = append(regions, &world.Region{
				ID:      id,
				Coord:   world.HexCoord{Q: q, R: r},
				Terrain: terrain,
				Named:   true,
			})
			id++
		}
	}
	return regions
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestBuildEdgeCostsPositive(t *testing.T) {
	g, err := Build(hexWorld(4, world.TerrainPlains), nil, DefaultCostTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.NumNodes() != 61 {
		t.Fatalf("expected 61 nodes for radius 4, got %d", g.NumNodes())
	}
	for i := 0; i < g.NumNodes(); i++ {
		for _, e := range g.Edges(NodeIndex(i)) {
			if e.Cost <= 0 || math.IsInf(e.Cost, 0) || math.IsNaN(e.Cost) {
				t.Fatalf("edge %d->%d has invalid cost %v", i, e.To, e.Cost)
			}
		}
	}
}

func TestBuildHardBoundary(t *testing.T) {
	g, err := Build(lineWorld(3), nil, DefaultCostTable())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Ends of the line have exactly one neighbor; no wraparound.
	first, _ := g.IndexOf(1)
	last, _ := g.IndexOf(3)
	if n := len(g.Edges(first)); n != 1 {
		t.Fatalf("expected 1 edge at line start, got %d", n)
	}
	if n := len(g.Edges(last)); n != 1 {
		t.Fatalf("expected 1 edge at line end, got %d", n)
	}
}

func TestBuildDuplicateCoordinate(t *testing.T) {
	regions := lineWorld(3)
	regions[2].Coord = regions[0].Coord

	_, err := Build(regions, nil, DefaultCostTable())
	if err == nil {
		t.Fatal("expected build to fail on duplicate coordinate")
	}
	var integrity *world.DataIntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected DataIntegrityError, got %T: %v", err, err)
	}
	if integrity.Coord != regions[0].Coord {
		t.Fatalf("error names coordinate %+v, want %+v", integrity.Coord, regions[0].Coord)
	}
}

func TestImpassableTerrainStaysConnected(t *testing.T) {
	regions := lineWorld(3)
	regions[1].Terrain = world.TerrainMountain

	costs := DefaultCostTable()
	g, err := Build(regions, nil, costs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, _ := g.IndexOf(1)
	edges := g.Edges(first)
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge into the mountain, got %d", len(edges))
	}
	plain := costs.Base[world.TerrainPlains]
	mountain := (plain + costs.Base[world.TerrainMountain]) / 2 * costs.ImpassableMult
	if edges[0].Cost != mountain {
		t.Fatalf("mountain edge cost = %v, want %v", edges[0].Cost, mountain)
	}
	if edges[0].Cost <= plain {
		t.Fatal("impassable edge should cost more than plain traversal")
	}
}

func TestCurrentDiscountsAlignedWaterEdges(t *testing.T) {
	regions := lineWorld(2)
	for i, r := range regions {
		r.Terrain = world.TerrainSea
		r.HasGeo = true
		r.Lat = 10
		r.Lng = float64(i) // travel heading due east
	}

	current := world.OceanCurrent{
		Name:       "Test Stream",
		Zone:       orb.Bound{Min: orb.Point{-5, 0}, Max: orb.Point{5, 20}},
		DirEast:    1,
		DirNorth:   0,
		Multiplier: 0.5,
	}

	costs := DefaultCostTable()
	g, err := Build(regions, []world.OceanCurrent{current}, costs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	west, _ := g.IndexOf(1)
	east, _ := g.IndexOf(2)
	base := costs.Base[world.TerrainSea]

	var withCurrent, against float64
	for _, e := range g.Edges(west) {
		if e.To == east {
			withCurrent = e.Cost
		}
	}
	for _, e := range g.Edges(east) {
		if e.To == west {
			against = e.Cost
		}
	}

	if withCurrent != base*0.5 {
		t.Fatalf("with-current cost = %v, want %v", withCurrent, base*0.5)
	}
	if against != base {
		t.Fatalf("against-current cost = %v, want base %v (currents never penalize)", against, base)
	}
}

func TestCheapestOverlappingCurrentWins(t *testing.T) {
	regions := lineWorld(2)
	for i, r := range regions {
		r.Terrain = world.TerrainOcean
		r.HasGeo = true
		r.Lat = 0
		r.Lng = float64(i)
	}

	zone := orb.Bound{Min: orb.Point{-5, -5}, Max: orb.Point{5, 5}}
	currents := []world.OceanCurrent{
		{Name: "Weak", Zone: zone, DirEast: 1, DirNorth: 0, Multiplier: 0.9},
		{Name: "Strong", Zone: zone, DirEast: 1, DirNorth: 0, Multiplier: 0.6},
	}

	costs := DefaultCostTable()
	g, err := Build(regions, currents, costs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	west, _ := g.IndexOf(1)
	want := costs.Base[world.TerrainOcean] * 0.6
	if got := g.Edges(west)[0].Cost; got != want {
		t.Fatalf("overlapping currents: cost = %v, want cheapest %v", got, want)
	}
}

func TestBuildLeavesCallerCurrentsUntouched(t *testing.T) {
	regions := lineWorld(2)
	for i, r := range regions {
		r.Terrain = world.TerrainSea
		r.HasGeo = true
		r.Lat = 10
		r.Lng = float64(i)
	}

	currents := []world.OceanCurrent{{
		Name:       "Unnormalized",
		Zone:       orb.Bound{Min: orb.Point{-5, 0}, Max: orb.Point{5, 20}},
		DirEast:    3,
		DirNorth:   4,
		Multiplier: 0.5,
	}}
	if _, err := Build(regions, currents, DefaultCostTable()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The caller may re-save its currents; the direction vector must come
	// back exactly as authored, not normalized.
	if currents[0].DirEast != 3 || currents[0].DirNorth != 4 {
		t.Fatalf("build mutated caller's current direction to (%v, %v)",
			currents[0].DirEast, currents[0].DirNorth)
	}
}

func TestBuildRejectsBadCurrent(t *testing.T) {
	regions := lineWorld(2)
	bad := world.OceanCurrent{Name: "Broken", Multiplier: 1.5, DirEast: 1}
	if _, err := Build(regions, []world.OceanCurrent{bad}, DefaultCostTable()); err == nil {
		t.Fatal("expected build to reject multiplier > 1")
	}
}
