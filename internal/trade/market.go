// Package trade resolves the market topology over the world graph and runs
// the monthly market economy tick.
package trade

import (
	"maps"

	"github.com/kestrelgames/tradewinds/internal/world"
)

// MarketID identifies a trade market. Ids start at 1; 0 means "no market".
type MarketID uint32

// MarketNone marks an unassigned province or a market with no upstream.
const MarketNone MarketID = 0

// MarketSpec is one entry of the hand-authored market roster: a named
// anchor region, optionally flagged as a terminal (metropolitan demand
// sink that flow chains resolve toward).
type MarketSpec struct {
	ID       MarketID       `json:"id"`
	Name     string         `json:"name"`
	Anchor   world.RegionID `json:"anchor"`
	Terminal bool           `json:"terminal"`
}

// Market is the live economic state of one trade cluster. Created once at
// world initialization, mutated only by the economy tick, never destroyed.
type Market struct {
	ID       MarketID       `json:"id"`
	Name     string         `json:"name"`
	Anchor   world.RegionID `json:"anchor"`
	Terminal bool           `json:"terminal"`

	// Members are the provinces assigned to this market by the nearest-
	// anchor search, in ascending region-id order. Fixed after topology
	// resolution.
	Members []world.RegionID `json:"members"`

	// Upstream is the market this one feeds into per the flow chain.
	// MarketNone for terminal markets and markets unreachable from any
	// terminal.
	Upstream MarketID `json:"upstream"`

	// Monthly economic state, rewritten each tick.
	Supply map[world.GoodID]float64 `json:"supply"`
	Demand map[world.GoodID]float64 `json:"demand"`
	Price  map[world.GoodID]float64 `json:"price"`

	// Trade power and income by sovereign nation.
	Power  map[world.NationID]float64 `json:"power"`
	Income map[world.NationID]float64 `json:"income"`

	// TotalPower includes power from provinces whose owner could not be
	// resolved; those contributions appear here but not in Power.
	TotalPower float64 `json:"total_power"`
	TradeValue float64 `json:"trade_value"`
}

func newMarket(spec MarketSpec) *Market {
	return &Market{
		ID:       spec.ID,
		Name:     spec.Name,
		Anchor:   spec.Anchor,
		Terminal: spec.Terminal,
		Upstream: MarketNone,
		Supply:   make(map[world.GoodID]float64),
		Demand:   make(map[world.GoodID]float64),
		Price:    make(map[world.GoodID]float64),
		Power:    make(map[world.NationID]float64),
		Income:   make(map[world.NationID]float64),
	}
}

// Clone returns a deep copy of the market's current state. Snapshot
// publication copies markets so readers never alias the maps the next
// tick rewrites in place.
func (m *Market) Clone() *Market {
	c := *m
	c.Members = append([]world.RegionID(nil), m.Members...)
	c.Supply = maps.Clone(m.Supply)
	c.Demand = maps.Clone(m.Demand)
	c.Price = maps.Clone(m.Price)
	c.Power = maps.Clone(m.Power)
	c.Income = maps.Clone(m.Income)
	return &c
}

// Flow is one month's trade movement from a market to its upstream
// neighbor. Flows are a reporting artifact: replaced wholesale each tick,
// never accumulated, never fed back into the tick that produced them.
type Flow struct {
	From   MarketID `json:"from"`
	To     MarketID `json:"to"`
	Value  float64  `json:"value"`
	Volume float64  `json:"volume"`
}

// Route is the renderable geometry of one flow-chain leg: the ordered
// region path from a non-terminal market's anchor to its terminal's
// anchor. To identifies the upstream neighbor — the counterparty monthly
// flows are attached to.
type Route struct {
	From     MarketID         `json:"from"`
	To       MarketID         `json:"to"`
	Terminal MarketID         `json:"terminal"`
	Path     []world.RegionID `json:"path"`
}

// OwnershipResolver supplies political ownership lookups from the
// governance component. Sovereign resolves a direct owner (possibly a
// colonial entity) to its sovereign nation; the second return is false for
// dangling references. TaxRate returns the sovereign's tax-rate modifier
// applied to market income.
type OwnershipResolver interface {
	Sovereign(owner world.NationID) (world.NationID, bool)
	TaxRate(nation world.NationID) float64
}

// StaticOwnership is a table-backed OwnershipResolver: each entity maps to
// its parent (colonial chains resolve transitively) and sovereigns carry a
// tax rate.
type StaticOwnership struct {
	Parent map[world.NationID]world.NationID
	Tax    map[world.NationID]float64
}

// Sovereign follows parent links until it reaches an entity with no
// parent. Unknown entities and broken chains resolve to (NationNone, false).
func (s *StaticOwnership) Sovereign(owner world.NationID) (world.NationID, bool) {
	if owner == world.NationNone {
		return world.NationNone, false
	}
	cur := owner
	for hops := 0; hops < 64; hops++ {
		parent, ok := s.Parent[cur]
		if !ok {
			return world.NationNone, false
		}
		if parent == world.NationNone || parent == cur {
			return cur, true
		}
		cur = parent
	}
	return world.NationNone, false
}

// TaxRate returns the nation's tax modifier, defaulting to 1.
func (s *StaticOwnership) TaxRate(nation world.NationID) float64 {
	if r, ok := s.Tax[nation]; ok {
		return r
	}
	return 1.0
}
