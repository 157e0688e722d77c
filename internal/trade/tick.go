package trade

import (
	"fmt"
	"log/slog"

	"github.com/kestrelgames/tradewinds/internal/world"
)

// Ticker runs the monthly market economy tick. It is the single writer of
// Market state: external readers take consistent snapshots between ticks,
// never during one. Each tick runs synchronously to completion —
// supply/demand aggregation, price formation, trade power and income, then
// inter-market flow propagation.
type Ticker struct {
	topo    *Topology
	regions map[world.RegionID]*world.Region
	prices  PriceTable
	cfg     Config
	owners  OwnershipResolver

	// Month counts completed ticks.
	Month int

	// Flows is the latest tick's flow snapshot, replaced wholesale each
	// month.
	Flows []Flow

	warnedGoods  map[world.GoodID]bool
	warnedOwners map[world.NationID]bool
}

// NewTicker wires the economy tick over a resolved topology. The region
// map is live external state read each month; the ticker never writes it.
func NewTicker(topo *Topology, regions map[world.RegionID]*world.Region, prices PriceTable, owners OwnershipResolver, cfg Config) (*Ticker, error) {
	if err := prices.Validate(); err != nil {
		return nil, fmt.Errorf("price table: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &Ticker{
		topo:         topo,
		regions:      regions,
		prices:       prices,
		cfg:          cfg,
		owners:       owners,
		warnedGoods:  make(map[world.GoodID]bool),
		warnedOwners: make(map[world.NationID]bool),
	}, nil
}

// Tick advances the economy by one simulated month.
func (t *Ticker) Tick() {
	for _, m := range t.topo.Markets {
		t.aggregateSupplyDemand(m)
		t.resolvePrices(m)
		t.resolveTradePower(m)
	}
	t.propagateFlows()
	t.Month++
}

// aggregateSupplyDemand sums member production into supply and derives
// demand from population and settlement development.
func (t *Ticker) aggregateSupplyDemand(m *Market) {
	for good := range m.Supply {
		delete(m.Supply, good)
	}
	for good := range m.Demand {
		delete(m.Demand, good)
	}

	population := 0.0
	tierWeight := 0.0
	for _, id := range m.Members {
		r, ok := t.regions[id]
		if !ok {
			continue
		}
		for good, qty := range r.Production {
			if _, priced := t.prices[good]; !priced {
				t.warnUnknownGood(good, id)
				continue
			}
			m.Supply[good] += qty
		}
		tier := int(r.Tier)
		if tier >= len(t.cfg.TierDemand) {
			tier = len(t.cfg.TierDemand) - 1
		}
		population += float64(r.Population)
		tierWeight += float64(r.Population) * t.cfg.TierDemand[tier]
	}

	for good, gp := range t.prices {
		d := tierWeight * t.cfg.DemandScale * gp.DemandWeight
		if d > 0 {
			m.Demand[good] = d
		}
	}
}

// resolvePrices forms each good's price from the market's supply/demand
// ratio, then totals the market's trade value at the new prices.
func (t *Ticker) resolvePrices(m *Market) {
	m.TradeValue = 0
	for good, gp := range t.prices {
		price := t.cfg.resolvePrice(gp.Base, m.Supply[good], m.Demand[good])
		m.Price[good] = price
		m.TradeValue += m.Supply[good] * price
	}
}

// resolveTradePower attributes each member province's trade power to its
// sovereign nation and splits the market's trade value into national
// income by power share, scaled by the sovereign's tax modifier.
//
// Provinces with a dangling owner still count toward the market's total
// power — they dilute everyone's share — but earn no nation income.
func (t *Ticker) resolveTradePower(m *Market) {
	for n := range m.Power {
		delete(m.Power, n)
	}
	for n := range m.Income {
		delete(m.Income, n)
	}
	m.TotalPower = 0

	for _, id := range m.Members {
		r, ok := t.regions[id]
		if !ok {
			continue
		}
		power := r.Development * t.productionValue(r)
		if power <= 0 {
			continue
		}
		m.TotalPower += power

		sovereign, resolved := t.owners.Sovereign(r.OwnerID)
		if !resolved {
			t.warnDanglingOwner(r.OwnerID, id)
			continue
		}
		m.Power[sovereign] += power
	}

	if m.TotalPower <= 0 {
		return
	}
	for nation, power := range m.Power {
		share := power / m.TotalPower
		m.Income[nation] = share * m.TradeValue * t.owners.TaxRate(nation)
	}
}

// productionValue prices a province's monthly production at base prices.
// Goods absent from the price table contribute zero.
func (t *Ticker) productionValue(r *world.Region) float64 {
	total := 0.0
	for good, qty := range r.Production {
		if gp, ok := t.prices[good]; ok {
			total += qty * gp.Base
		}
	}
	return total
}

// propagateFlows moves the configured fraction of every non-terminal
// market's trade value to its upstream market, as this month's flow
// snapshot. Flows are output only — they never feed back into the prices
// computed this tick, so there is no order-dependent double counting.
func (t *Ticker) propagateFlows() {
	flows := make([]Flow, 0, len(t.topo.Markets))
	for _, m := range t.topo.Markets {
		if m.Terminal || m.Upstream == MarketNone || m.TradeValue <= 0 {
			continue
		}
		volume := 0.0
		for _, s := range m.Supply {
			volume += s
		}
		flows = append(flows, Flow{
			From:   m.ID,
			To:     m.Upstream,
			Value:  m.TradeValue * t.cfg.FlowFraction,
			Volume: volume * t.cfg.FlowFraction,
		})
	}
	t.Flows = flows
}

func (t *Ticker) warnUnknownGood(good world.GoodID, region world.RegionID) {
	if t.warnedGoods[good] {
		return
	}
	t.warnedGoods[good] = true
	slog.Warn("good missing from base-price table, producing zero value",
		"good", string(good), "region", region)
}

func (t *Ticker) warnDanglingOwner(owner world.NationID, region world.RegionID) {
	if t.warnedOwners[owner] {
		return
	}
	t.warnedOwners[owner] = true
	slog.Warn("unresolvable province owner, trade power excluded from national totals",
		"owner", owner, "region", region)
}
