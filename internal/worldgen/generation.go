// Package worldgen synthesizes region rosters from layered simplex noise.
// It stands in for the world-authoring toolchain in the demo binary and in
// large-graph tests; the routing engine itself never generates terrain.
package worldgen

import (
	"fmt"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/kestrelgames/tradewinds/internal/world"
)

// GenConfig holds synthesis parameters.
type GenConfig struct {
	Radius      int     // Hex grid radius (~380 for ~430K hexes)
	Seed        int64   // Random seed (0 = random)
	SeaLevel    float64 // Elevation threshold for water (0.0–1.0)
	MountainLvl float64 // Elevation threshold for mountains (0.0–1.0)

	// DegreesPerHex scales axial coordinates onto a lat/lng plane so
	// ocean currents have geography to match against.
	DegreesPerHex float64
}

// DefaultGenConfig returns a mid-size world suitable for the demo binary.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Radius:        60,
		Seed:          0,
		SeaLevel:      0.30,
		MountainLvl:   0.72,
		DegreesPerHex: 0.25,
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Radius:        8,
		Seed:          42,
		SeaLevel:      0.30,
		MountainLvl:   0.75,
		DegreesPerHex: 0.5,
	}
}

// Generate synthesizes a complete region roster: terrain from layered
// noise with continental edge falloff, lat/lng projected from axial
// coordinates, and population, development, and production derived from
// terrain. Land regions are named provinces; water regions are background
// filler carrying sea routes.
func Generate(cfg GenConfig) []*world.Region {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	elevNoise := opensimplex.NewNormalized(seed)
	rainNoise := opensimplex.NewNormalized(seed + 1)
	rng := rand.New(rand.NewSource(seed + 2))

	var regions []*world.Region
	nextID := world.RegionID(1)

	for q := -cfg.Radius; q <= cfg.Radius; q++ {
		for r := -cfg.Radius; r <= cfg.Radius; r++ {
			s := -q - r
			if maxAbs(q, r, s) > cfg.Radius {
				continue
			}

			coord := world.HexCoord{Q: q, R: r}

			// Hex axial → cartesian: x = q + r*0.5, y = r * sqrt(3)/2
			x := float64(q) + float64(r)*0.5
			y := float64(r) * math.Sqrt(3.0) / 2.0

			elev := octaveNoise(elevNoise, x, y, 4, 0.08, 0.5)
			rain := octaveNoise(rainNoise, x, y, 3, 0.06, 0.5)

			// Continental shaping: lower elevation near the rim so the
			// world is ringed by ocean.
			distFromCenter := math.Sqrt(x*x+y*y) / float64(cfg.Radius)
			falloff := 1.0 - math.Pow(distFromCenter, 3.5)
			if falloff < 0 {
				falloff = 0
			}
			elev *= falloff

			terrain := deriveTerrain(elev, rain, distFromCenter, cfg)

			region := &world.Region{
				ID:      nextID,
				Coord:   coord,
				Lat:     y * cfg.DegreesPerHex,
				Lng:     x * cfg.DegreesPerHex,
				HasGeo:  true,
				Terrain: terrain,
				Named:   !terrain.Water(),
			}
			if region.Named {
				region.Name = fmt.Sprintf("Province %d", nextID)
				populate(region, elev, rain, rng)
			}

			regions = append(regions, region)
			nextID++
		}
	}

	markCoastalRegions(regions)
	return regions
}

// deriveTerrain determines terrain type from environmental parameters.
func deriveTerrain(elev, rain, distFromCenter float64, cfg GenConfig) world.Terrain {
	if elev < cfg.SeaLevel {
		if distFromCenter > 0.75 {
			return world.TerrainOcean
		}
		return world.TerrainSea
	}
	if elev > cfg.MountainLvl {
		return world.TerrainMountain
	}
	if rain < 0.25 {
		return world.TerrainDesert
	}
	if rain > 0.45 && elev > 0.45 {
		return world.TerrainForest
	}
	return world.TerrainPlains
}

// populate derives settlement tier, population, development, ownership,
// and production for a land region.
func populate(r *world.Region, elev, rain float64, rng *rand.Rand) {
	fertility := rain * (1.0 - elev)
	roll := rng.Float64() * fertility

	switch {
	case roll > 0.35:
		r.Tier = world.TierCity
		r.Population = 20000 + rng.Intn(60000)
	case roll > 0.22:
		r.Tier = world.TierTown
		r.Population = 5000 + rng.Intn(15000)
	case roll > 0.12:
		r.Tier = world.TierVillage
		r.Population = 1000 + rng.Intn(4000)
	case roll > 0.05:
		r.Tier = world.TierHamlet
		r.Population = 100 + rng.Intn(900)
	default:
		r.Tier = world.TierUnsettled
	}
	r.Development = 0.5 + roll*4
	r.OwnerID = world.NationID(1 + rng.Intn(6))

	if r.Tier == world.TierUnsettled {
		return
	}
	r.Production = make(map[world.GoodID]float64)
	scale := float64(r.Population) / 1000.0
	switch r.Terrain {
	case world.TerrainPlains:
		r.Production["grain"] = (8 + rain*4) * scale
		r.Production["cloth"] = 2 * scale
	case world.TerrainForest:
		r.Production["timber"] = 10 * scale
		r.Production["furs"] = 2 * scale
	case world.TerrainMountain:
		r.Production["iron"] = 6 * scale
		r.Production["stone"] = 4 * scale
	case world.TerrainDesert:
		r.Production["spices"] = 3 * scale
	case world.TerrainCoast:
		r.Production["fish"] = 8 * scale
		r.Production["salt"] = 3 * scale
	}
}

// markCoastalRegions converts land regions adjacent to water into coast.
func markCoastalRegions(regions []*world.Region) {
	byCoord := make(map[world.HexCoord]*world.Region, len(regions))
	for _, r := range regions {
		byCoord[r.Coord] = r
	}

	for _, r := range regions {
		if r.Terrain != world.TerrainPlains && r.Terrain != world.TerrainForest {
			continue
		}
		for _, nc := range r.Coord.Neighbors() {
			n, ok := byCoord[nc]
			if ok && n.Terrain.Water() {
				r.Terrain = world.TerrainCoast
				if r.Production != nil {
					scale := float64(r.Population) / 1000.0
					r.Production["fish"] = 6 * scale
				}
				break
			}
		}
	}
}

// octaveNoise samples multi-octave noise normalized to [0, 1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, freq, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxValue := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*freq, y*freq) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		freq *= 2
	}
	return total / maxValue
}

func maxAbs(vals ...int) int {
	max := 0
	for _, v := range vals {
		if v < 0 {
			v = -v
		}
		if v > max {
			max = v
		}
	}
	return max
}
