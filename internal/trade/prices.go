package trade

import (
	"fmt"

	"github.com/kestrelgames/tradewinds/internal/world"
)

// GoodPrice is one row of the base-price table.
type GoodPrice struct {
	Base float64 `json:"base"`

	// DemandWeight scales how much of a market's aggregate demand falls
	// on this good.
	DemandWeight float64 `json:"demand_weight"`
}

// PriceTable is the static per-good reference table. Goods absent from the
// table trade at zero value — a data-completeness tolerance, not an error.
type PriceTable map[world.GoodID]GoodPrice

// Validate checks every base price is positive and every weight
// non-negative.
func (p PriceTable) Validate() error {
	for good, gp := range p {
		if gp.Base <= 0 {
			return fmt.Errorf("good %q: base price %v must be positive", good, gp.Base)
		}
		if gp.DemandWeight < 0 {
			return fmt.Errorf("good %q: demand weight %v must be non-negative", good, gp.DemandWeight)
		}
	}
	return nil
}

// Config holds the economy tick's tuning knobs. Explicit state, passed in —
// no package globals.
type Config struct {
	// Price clamp as multiples of base price. Keeps prices from running
	// away to zero or infinity over an unbounded number of ticks.
	PriceFloorMult float64
	PriceCeilMult  float64

	// Fraction of a non-terminal market's total trade value moved to its
	// upstream market each month.
	FlowFraction float64

	// Per-capita demand factor by settlement tier. Higher tiers demand
	// proportionally more per head.
	TierDemand [5]float64

	// DemandScale converts population × tier factor into demand units.
	DemandScale float64
}

// DefaultConfig returns the standard economy tuning.
func DefaultConfig() Config {
	return Config{
		PriceFloorMult: 0.25,
		PriceCeilMult:  4.0,
		FlowFraction:   0.25,
		TierDemand:     [5]float64{0.2, 0.6, 1.0, 1.6, 2.5},
		DemandScale:    0.001,
	}
}

// Validate checks the clamp bounds and flow fraction are sane.
func (c Config) Validate() error {
	if c.PriceFloorMult <= 0 || c.PriceCeilMult < c.PriceFloorMult {
		return fmt.Errorf("price clamp [%v, %v] invalid", c.PriceFloorMult, c.PriceCeilMult)
	}
	if c.FlowFraction < 0 || c.FlowFraction > 1 {
		return fmt.Errorf("flow fraction %v outside [0, 1]", c.FlowFraction)
	}
	return nil
}

// resolvePrice calculates price from supply/demand pressure: surplus
// depresses it, shortage raises it, bounded by the configured floor and
// ceiling so repeated ticks can never drive it to an extreme.
func (c Config) resolvePrice(base, supply, demand float64) float64 {
	if supply < 1 {
		supply = 1 // prevent division by zero and cold-start spikes
	}
	if demand < 1 {
		demand = 1
	}

	price := base * (demand / supply)

	floor := base * c.PriceFloorMult
	ceiling := base * c.PriceCeilMult
	if price < floor {
		price = floor
	}
	if price > ceiling {
		price = ceiling
	}
	return price
}
