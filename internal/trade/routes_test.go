package trade

import (
	"reflect"
	"testing"

	"github.com/kestrelgames/tradewinds/internal/world"
)

func TestMaterializeRoutesGeometry(t *testing.T) {
	g, _, specs := lineFixture(t)
	topo, err := ResolveTopology(g, specs)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	routes := MaterializeRoutes(g, topo)
	if len(routes) != 2 {
		t.Fatalf("expected a route per non-terminal market, got %d", len(routes))
	}

	byFrom := make(map[MarketID]Route, len(routes))
	for _, r := range routes {
		byFrom[r.From] = r
	}

	midland := byFrom[2]
	if want := []world.RegionID{4, 3, 2, 1}; !reflect.DeepEqual(midland.Path, want) {
		t.Fatalf("Midland path = %v, want %v", midland.Path, want)
	}
	if midland.To != 1 || midland.Terminal != 1 {
		t.Fatalf("Midland route to=%d terminal=%d, want 1/1", midland.To, midland.Terminal)
	}

	frontier := byFrom[3]
	if want := []world.RegionID{7, 6, 5, 4, 3, 2, 1}; !reflect.DeepEqual(frontier.Path, want) {
		t.Fatalf("Frontier path = %v, want %v", frontier.Path, want)
	}
	if frontier.To != 2 {
		t.Fatalf("Frontier route to=%d, want upstream Midland (2)", frontier.To)
	}
	if _, mirrored := byFrom[1]; mirrored {
		t.Fatal("terminal market materialized a mirrored route")
	}
}

func TestMaterializeRoutesIdempotent(t *testing.T) {
	g, _, specs := lineFixture(t)
	topo, err := ResolveTopology(g, specs)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	first := MaterializeRoutes(g, topo)
	second := MaterializeRoutes(g, topo)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("materializing twice from an unchanged topology produced different routes")
	}
}

func TestRoutesGeoJSON(t *testing.T) {
	g, regions, specs := lineFixture(t)
	for i, r := range regions {
		r.HasGeo = true
		r.Lng = float64(i)
		r.Lat = 10
	}
	topo, err := ResolveTopology(g, specs)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	routes := MaterializeRoutes(g, topo)

	flows := []Flow{{From: 2, To: 1, Value: 120, Volume: 30}}
	fc, err := RoutesGeoJSON(routes, regionMap(regions), flows)
	if err != nil {
		t.Fatalf("geojson: %v", err)
	}
	if len(fc.Features) != len(routes) {
		t.Fatalf("feature count = %d, want %d", len(fc.Features), len(routes))
	}

	for _, f := range fc.Features {
		from, _ := f.PropertyFloat64("from_market")
		if MarketID(from) == 2 {
			value, _ := f.PropertyFloat64("value")
			if value != 120 {
				t.Fatalf("flow value on route = %v, want 120", value)
			}
		}
	}
}

func TestRoutesGeoJSONSkipsUndrawableRoutes(t *testing.T) {
	g, regions, specs := lineFixture(t)
	// No region carries geography, so every route is undrawable.
	topo, err := ResolveTopology(g, specs)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	routes := MaterializeRoutes(g, topo)

	fc, err := RoutesGeoJSON(routes, regionMap(regions), nil)
	if err == nil {
		t.Fatal("expected error when no route has geographic coverage")
	}
	if len(fc.Features) != 0 {
		t.Fatalf("undrawable routes produced %d features", len(fc.Features))
	}
}
