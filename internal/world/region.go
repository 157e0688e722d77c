package world

// RegionID is the stable identifier of a map region (one hex tile).
type RegionID uint32

// Terrain classifies a region for traversal-cost purposes.
type Terrain uint8

const (
	TerrainPlains   Terrain = iota // Open land — baseline overland travel
	TerrainForest                  // Slower overland travel
	TerrainMountain                // Passes only — heavy cost
	TerrainDesert                  // Caravan routes — heavy cost
	TerrainCoast                   // Land with harbor access
	TerrainRiver                   // Navigable river tile
	TerrainLake                    // Inland water
	TerrainSea                     // Coastal water
	TerrainOcean                   // Open ocean
)

// terrainNames is indexed by Terrain.
var terrainNames = [...]string{
	"plains", "forest", "mountain", "desert", "coast",
	"river", "lake", "sea", "ocean",
}

// TerrainName returns a human-readable terrain name.
func TerrainName(t Terrain) string {
	if int(t) < len(terrainNames) {
		return terrainNames[t]
	}
	return "unknown"
}

// Water reports whether the terrain is traversed by ship.
func (t Terrain) Water() bool {
	switch t {
	case TerrainRiver, TerrainLake, TerrainSea, TerrainOcean:
		return true
	}
	return false
}

// SettlementTier classifies how developed a region's settlement is.
// Higher tiers generate proportionally more demand per capita.
type SettlementTier uint8

const (
	TierUnsettled SettlementTier = iota
	TierHamlet
	TierVillage
	TierTown
	TierCity
)

// GoodID identifies a tradeable good. The roster of goods and their base
// prices is data, not code — see trade.PriceTable.
type GoodID string

// NationID identifies a sovereign political entity. Resolution of a
// region's owner to its sovereign (through colonial entities) is supplied
// by an external governance component.
type NationID uint32

// NationNone marks an unowned region or a dangling ownership reference.
const NationNone NationID = 0

// Region is a single map tile: the unit the traversal graph is built over.
// Immutable as far as this engine is concerned — population, development,
// and production are read each tick, never written.
type Region struct {
	ID    RegionID `json:"id"`
	Coord HexCoord `json:"coord"`

	// Geographic position, when the dataset carries one. Regions without
	// geography never match an ocean current zone.
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	HasGeo bool    `json:"has_geo"`

	Terrain Terrain        `json:"terrain"`
	Tier    SettlementTier `json:"tier"`

	// Named marks a playable province, as opposed to background ocean
	// filler tiles that exist only to carry sea routes.
	Named bool   `json:"named"`
	Name  string `json:"name,omitempty"`

	Population  int     `json:"population"`
	Development float64 `json:"development"`

	// Production in abstract units per month, by good.
	Production map[GoodID]float64 `json:"production,omitempty"`

	// Direct owner. May be a colonial entity; the sovereign is resolved
	// externally.
	OwnerID NationID `json:"owner_id"`
}
