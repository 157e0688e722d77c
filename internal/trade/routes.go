package trade

import (
	"github.com/kestrelgames/tradewinds/internal/graph"
)

// MaterializeRoutes reconstructs the renderable path geometry for every
// non-terminal market in the flow chain: the ordered region sequence from
// the market's anchor to its terminal's anchor, read off the flow-chain
// pass's parent pointers.
//
// Routes are purely geometric. Monthly flow values are attached by (From,
// To) identity from the tick's Flow output, never recomputed from path
// length. Materializing twice from an unchanged topology yields identical
// sequences: markets are visited in id order and parent pointers are fixed.
func MaterializeRoutes(g *graph.Graph, topo *Topology) []Route {
	routes := make([]Route, 0, len(topo.Markets))

	for _, m := range topo.Markets {
		if m.Terminal || m.Upstream == MarketNone {
			continue
		}
		anchor, ok := g.IndexOf(m.Anchor)
		if !ok || !topo.chain.Reached(anchor) {
			continue
		}

		var path []graph.NodeIndex
		for cur := anchor; cur != graph.None; cur = topo.chain.Parent[cur] {
			path = append(path, cur)
		}

		route := Route{
			From:     m.ID,
			To:       m.Upstream,
			Terminal: topo.anchorIx[topo.chain.Source[anchor]],
		}
		for _, ix := range path {
			route.Path = append(route.Path, g.Node(ix).Region)
		}
		routes = append(routes, route)
	}

	return routes
}
