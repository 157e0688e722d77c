package worldgen

import (
	"sort"

	"github.com/paulmach/orb"

	"github.com/kestrelgames/tradewinds/internal/trade"
	"github.com/kestrelgames/tradewinds/internal/world"
)

// PlaceMarkets picks market anchors for a synthesized world: the most
// populous settled regions, spaced at least minSpacing hexes apart, with
// the largest nTerminal of them flagged as terminals. Deterministic for a
// given roster.
func PlaceMarkets(regions []*world.Region, nMarkets, nTerminal, minSpacing int) []trade.MarketSpec {
	candidates := make([]*world.Region, 0, len(regions))
	for _, r := range regions {
		if r.Named && r.Tier >= world.TierVillage {
			candidates = append(candidates, r)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Population != candidates[j].Population {
			return candidates[i].Population > candidates[j].Population
		}
		return candidates[i].ID < candidates[j].ID
	})

	var chosen []*world.Region
	for _, c := range candidates {
		if len(chosen) == nMarkets {
			break
		}
		tooClose := false
		for _, prev := range chosen {
			if world.Distance(c.Coord, prev.Coord) < minSpacing {
				tooClose = true
				break
			}
		}
		if !tooClose {
			chosen = append(chosen, c)
		}
	}

	specs := make([]trade.MarketSpec, 0, len(chosen))
	for i, r := range chosen {
		specs = append(specs, trade.MarketSpec{
			ID:       trade.MarketID(i + 1),
			Name:     r.Name,
			Anchor:   r.ID,
			Terminal: i < nTerminal,
		})
	}
	return specs
}

// DemoPrices returns a base-price table covering every good the generator
// produces.
func DemoPrices() trade.PriceTable {
	return trade.PriceTable{
		"grain":  {Base: 2, DemandWeight: 1.0},
		"fish":   {Base: 2, DemandWeight: 0.8},
		"timber": {Base: 3, DemandWeight: 0.6},
		"iron":   {Base: 4, DemandWeight: 0.5},
		"stone":  {Base: 3, DemandWeight: 0.4},
		"salt":   {Base: 5, DemandWeight: 0.5},
		"cloth":  {Base: 8, DemandWeight: 0.4},
		"furs":   {Base: 6, DemandWeight: 0.2},
		"spices": {Base: 20, DemandWeight: 0.15},
	}
}

// DemoCurrents returns two ocean currents spanning the synthesized world:
// an eastward band across the northern waters and a westward band across
// the southern ones.
func DemoCurrents(cfg GenConfig) []world.OceanCurrent {
	extent := float64(cfg.Radius) * cfg.DegreesPerHex * 1.6
	return []world.OceanCurrent{
		{
			Name:       "Northern Drift",
			Zone:       orb.Bound{Min: orb.Point{-extent, 0}, Max: orb.Point{extent, extent}},
			DirEast:    1,
			DirNorth:   0,
			Multiplier: 0.7,
		},
		{
			Name:       "Southern Gyre",
			Zone:       orb.Bound{Min: orb.Point{-extent, -extent}, Max: orb.Point{extent, 0}},
			DirEast:    -1,
			DirNorth:   0,
			Multiplier: 0.75,
		},
	}
}

// DemoOwnership returns a resolver for the generator's six sovereign
// nations, with one colonial entity chained under the first.
func DemoOwnership() *trade.StaticOwnership {
	own := &trade.StaticOwnership{
		Parent: make(map[world.NationID]world.NationID),
		Tax:    make(map[world.NationID]float64),
	}
	for id := world.NationID(1); id <= 6; id++ {
		own.Parent[id] = world.NationNone
		own.Tax[id] = 0.8
	}
	// Nation 7 is a colonial entity of nation 1.
	own.Parent[7] = 1
	own.Tax[7] = 0.8
	return own
}
