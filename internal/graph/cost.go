package graph

import (
	"fmt"
	"math"

	"github.com/kestrelgames/tradewinds/internal/world"
)

// CostTable holds the traversal cost policy baked into edges at build time.
// Costs are flat per terrain — settlement size never changes travel cost.
type CostTable struct {
	// Base cost of entering a tile, by terrain.
	Base map[world.Terrain]float64

	// Impassable terrains are never disconnected; edges touching them are
	// scaled up heavily so the search still has an expensive fallback path.
	Impassable     map[world.Terrain]bool
	ImpassableMult float64

	// Minimum dot product between an edge's heading and a current's
	// direction for the current to apply.
	AlignmentThreshold float64
}

// DefaultCostTable returns the standard traversal costs. Sea travel is
// cheaper than land per tile; mountains and deserts are crossable but
// punishing.
func DefaultCostTable() CostTable {
	return CostTable{
		Base: map[world.Terrain]float64{
			world.TerrainPlains:   1.0,
			world.TerrainForest:   1.5,
			world.TerrainMountain: 3.0,
			world.TerrainDesert:   2.5,
			world.TerrainCoast:    1.0,
			world.TerrainRiver:    0.7,
			world.TerrainLake:     0.8,
			world.TerrainSea:      0.5,
			world.TerrainOcean:    0.6,
		},
		Impassable: map[world.Terrain]bool{
			world.TerrainMountain: true,
			world.TerrainDesert:   true,
		},
		ImpassableMult:     4.0,
		AlignmentThreshold: 0.5,
	}
}

// Validate checks the table covers every terrain with a positive cost.
func (t CostTable) Validate() error {
	for terr := world.TerrainPlains; terr <= world.TerrainOcean; terr++ {
		c, ok := t.Base[terr]
		if !ok {
			return fmt.Errorf("no base cost for terrain %s", world.TerrainName(terr))
		}
		if c <= 0 || math.IsInf(c, 0) || math.IsNaN(c) {
			return fmt.Errorf("terrain %s: base cost %v must be positive and finite", world.TerrainName(terr), c)
		}
	}
	if t.ImpassableMult < 1 {
		return fmt.Errorf("impassable multiplier %v must be >= 1", t.ImpassableMult)
	}
	return nil
}

// edgeCost resolves the directed cost from one tile into its neighbor.
// Water-to-water edges running with an ocean current are discounted by the
// cheapest aligned current; currents never raise cost above base.
func (t CostTable) edgeCost(from, to world.Terrain, fromGeo, toGeo geoRef, currents []world.OceanCurrent) float64 {
	cost := (t.Base[from] + t.Base[to]) / 2

	if t.Impassable[from] || t.Impassable[to] {
		cost *= t.ImpassableMult
	}

	if from.Water() && to.Water() && fromGeo.ok && toGeo.ok {
		cost *= t.currentMultiplier(fromGeo, toGeo, currents)
	}

	return cost
}

// currentMultiplier scans the (small, fixed) current list for zones
// containing the edge midpoint whose direction aligns with the edge's
// heading, and returns the minimum applicable multiplier.
func (t CostTable) currentMultiplier(fromGeo, toGeo geoRef, currents []world.OceanCurrent) float64 {
	east := (toGeo.lng - fromGeo.lng) * math.Cos((fromGeo.lat+toGeo.lat)/2*math.Pi/180)
	north := toGeo.lat - fromGeo.lat
	l := math.Hypot(east, north)
	if l == 0 {
		return 1
	}
	east /= l
	north /= l

	midLng := (fromGeo.lng + toGeo.lng) / 2
	midLat := (fromGeo.lat + toGeo.lat) / 2

	mult := 1.0
	for i := range currents {
		c := &currents[i]
		if !c.Contains(midLng, midLat) {
			continue
		}
		if c.Alignment(east, north) < t.AlignmentThreshold {
			continue
		}
		if c.Multiplier < mult {
			mult = c.Multiplier
		}
	}
	return mult
}
