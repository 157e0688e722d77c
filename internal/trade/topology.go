package trade

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/kestrelgames/tradewinds/internal/graph"
	"github.com/kestrelgames/tradewinds/internal/world"
)

// Topology is the resolved market structure over the world graph: which
// market every province belongs to, and which market feeds which. Built
// once at world initialization; the economy tick reads it every month.
type Topology struct {
	Markets []*Market

	// Assignment maps every reachable named province to its market.
	// Provinces absent from the map are unassigned and contribute to no
	// market.
	Assignment map[world.RegionID]MarketID

	byID     map[MarketID]*Market
	anchorIx map[graph.NodeIndex]MarketID

	// chain is the flow-chain pass result, kept for route
	// materialization.
	chain *graph.Result
}

// Market returns the market with the given id, or nil.
func (t *Topology) Market(id MarketID) *Market {
	return t.byID[id]
}

// ResolveTopology runs the two shortest-path passes that structure the
// trade world: the assignment pass (every province joins its nearest
// market) and the flow-chain pass (every non-terminal market discovers the
// upstream market it feeds on the way to its nearest terminal).
//
// Markets whose anchor is missing from the graph, or unreachable by every
// search, still exist as records — they simply contribute zero each month.
func ResolveTopology(g *graph.Graph, specs []MarketSpec) (*Topology, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("empty market roster")
	}

	topo := &Topology{
		Markets:    make([]*Market, 0, len(specs)),
		Assignment: make(map[world.RegionID]MarketID),
		byID:       make(map[MarketID]*Market, len(specs)),
		anchorIx:   make(map[graph.NodeIndex]MarketID, len(specs)),
	}

	ordered := make([]MarketSpec, len(specs))
	copy(ordered, specs)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	var anchors []graph.NodeIndex
	var terminals []graph.NodeIndex
	for _, spec := range ordered {
		if spec.ID == MarketNone {
			return nil, fmt.Errorf("market %q: id 0 is reserved", spec.Name)
		}
		if topo.byID[spec.ID] != nil {
			return nil, fmt.Errorf("duplicate market id %d", spec.ID)
		}
		m := newMarket(spec)
		topo.Markets = append(topo.Markets, m)
		topo.byID[m.ID] = m

		ix, ok := g.IndexOf(spec.Anchor)
		if !ok {
			slog.Warn("market anchor not in region roster, market will stay empty",
				"market", spec.Name, "anchor", spec.Anchor)
			continue
		}
		if prev, taken := topo.anchorIx[ix]; taken {
			return nil, fmt.Errorf("markets %d and %d share anchor region %d", prev, spec.ID, spec.Anchor)
		}
		topo.anchorIx[ix] = spec.ID
		anchors = append(anchors, ix)
		if spec.Terminal {
			terminals = append(terminals, ix)
		}
	}
	if len(anchors) == 0 {
		return nil, fmt.Errorf("no market anchor resolves to a graph node")
	}
	if len(terminals) == 0 {
		return nil, fmt.Errorf("no terminal market in roster")
	}

	topo.assignProvinces(g, anchors)
	topo.resolveFlowChain(g, terminals)
	return topo, nil
}

// assignProvinces runs the multi-source search from every market anchor
// and labels each reachable named province with its nearest market.
func (t *Topology) assignProvinces(g *graph.Graph, anchors []graph.NodeIndex) {
	res := graph.ShortestPaths(g, anchors)

	unreachable := 0
	for i := 0; i < g.NumNodes(); i++ {
		ix := graph.NodeIndex(i)
		node := g.Node(ix)
		if !node.Named {
			continue
		}
		if !res.Reached(ix) {
			unreachable++
			continue
		}
		id := t.anchorIx[res.Source[ix]]
		t.Assignment[node.Region] = id
		m := t.byID[id]
		m.Members = append(m.Members, node.Region)
	}
	if unreachable > 0 {
		slog.Warn("provinces unreachable from every market anchor, excluded from assignment",
			"count", unreachable)
	}

	// Members came out in node-index order, which is region-id order by
	// construction of the graph; keep the sort anyway so the invariant
	// does not depend on it.
	for _, m := range t.Markets {
		sort.Slice(m.Members, func(a, b int) bool { return m.Members[a] < m.Members[b] })
	}
}

// resolveFlowChain runs the multi-source search from the terminal anchors
// and wires each non-terminal market to its upstream neighbor: the first
// other market anchor on the parent walk toward its nearest terminal, or
// that terminal itself. Remaining cost to the terminal strictly decreases
// along the walk, so the result is a forest.
func (t *Topology) resolveFlowChain(g *graph.Graph, terminals []graph.NodeIndex) {
	res := graph.ShortestPaths(g, terminals)
	t.chain = res

	for _, m := range t.Markets {
		if m.Terminal {
			continue
		}
		anchor, ok := g.IndexOf(m.Anchor)
		if !ok {
			continue
		}
		if !res.Reached(anchor) {
			slog.Warn("market unreachable from every terminal, excluded from flow chain",
				"market", m.Name)
			continue
		}
		for cur := res.Parent[anchor]; cur != graph.None; cur = res.Parent[cur] {
			if id, isAnchor := t.anchorIx[cur]; isAnchor {
				m.Upstream = id
				break
			}
		}
		if m.Upstream == MarketNone {
			// Parent walk ended on the terminal source itself.
			m.Upstream = t.anchorIx[res.Source[anchor]]
		}
	}
}

// TerminalOf follows upstream pointers from the given market to the
// terminal its flow ultimately reaches. Returns MarketNone for markets
// outside the flow chain.
func (t *Topology) TerminalOf(id MarketID) MarketID {
	seen := 0
	for cur := t.byID[id]; cur != nil; cur = t.byID[cur.Upstream] {
		if cur.Terminal {
			return cur.ID
		}
		if cur.Upstream == MarketNone {
			return MarketNone
		}
		seen++
		if seen > len(t.Markets) {
			// Cannot happen with a well-formed chain; guard against a
			// corrupted Upstream field set by a caller.
			return MarketNone
		}
	}
	return MarketNone
}
