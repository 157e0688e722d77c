package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kestrelgames/tradewinds/internal/graph"
	"github.com/kestrelgames/tradewinds/internal/trade"
	"github.com/kestrelgames/tradewinds/internal/world"
)

// World is the fully initialized simulation state: the immutable traversal
// graph, the resolved market topology, the static route geometry, and the
// economy ticker that owns all mutable market state.
type World struct {
	Graph   *graph.Graph
	Topo    *trade.Topology
	Routes  []trade.Route
	Ticker  *trade.Ticker
	Regions map[world.RegionID]*world.Region
}

// BootstrapInput collects everything the initialization pipeline consumes.
// All of it is supplied by external collaborators: the data loader or
// world synthesizer, the governance component, and static configuration.
type BootstrapInput struct {
	Regions  []*world.Region
	Currents []world.OceanCurrent
	Markets  []trade.MarketSpec
	Prices   trade.PriceTable
	Owners   trade.OwnershipResolver
	Costs    graph.CostTable
	Economy  trade.Config
}

// Bootstrap runs the one-time world initialization: graph build, the two
// shortest-path passes, and route materialization. It is synchronous and
// has no checkpoints — if interrupted it restarts from scratch. At full
// map scale the shortest-path passes dominate, so each phase is timed and
// logged.
//
// Build-time integrity failures (duplicate coordinates, bad cost tables)
// are fatal and abort initialization.
func Bootstrap(in BootstrapInput) (*World, error) {
	phase := func(name string) func() {
		start := time.Now()
		return func() {
			slog.Info("bootstrap phase complete", "phase", name,
				"dur_ms", time.Since(start).Milliseconds())
		}
	}

	done := phase("graph build")
	g, err := graph.Build(in.Regions, in.Currents, in.Costs)
	if err != nil {
		return nil, fmt.Errorf("build world graph: %w", err)
	}
	done()

	done = phase("market topology")
	topo, err := trade.ResolveTopology(g, in.Markets)
	if err != nil {
		return nil, fmt.Errorf("resolve market topology: %w", err)
	}
	done()

	done = phase("route materialization")
	routes := trade.MaterializeRoutes(g, topo)
	done()

	regions := make(map[world.RegionID]*world.Region, len(in.Regions))
	for _, r := range in.Regions {
		regions[r.ID] = r
	}

	ticker, err := trade.NewTicker(topo, regions, in.Prices, in.Owners, in.Economy)
	if err != nil {
		return nil, fmt.Errorf("create economy ticker: %w", err)
	}

	return &World{
		Graph:   g,
		Topo:    topo,
		Routes:  routes,
		Ticker:  ticker,
		Regions: regions,
	}, nil
}
