package trade

import (
	"fmt"

	geojson "github.com/paulmach/go.geojson"

	"github.com/kestrelgames/tradewinds/internal/world"
)

// RoutesGeoJSON converts materialized routes into a GeoJSON feature
// collection for the map-rendering layer. Each route becomes a LineString
// of (lng, lat) points with from/to market identity as properties; when a
// flow snapshot is supplied, the matching flow's value and volume are
// attached by route identity.
//
// Routes passing through regions without geographic coordinates are
// skipped — there is nothing to draw them with.
func RoutesGeoJSON(routes []Route, regions map[world.RegionID]*world.Region, flows []Flow) (*geojson.FeatureCollection, error) {
	byIdentity := make(map[[2]MarketID]Flow, len(flows))
	for _, f := range flows {
		byIdentity[[2]MarketID{f.From, f.To}] = f
	}

	fc := geojson.NewFeatureCollection()
	for _, route := range routes {
		coords := make([][]float64, 0, len(route.Path))
		drawable := true
		for _, id := range route.Path {
			r, ok := regions[id]
			if !ok || !r.HasGeo {
				drawable = false
				break
			}
			coords = append(coords, []float64{r.Lng, r.Lat})
		}
		if !drawable || len(coords) < 2 {
			continue
		}

		f := geojson.NewLineStringFeature(coords)
		f.SetProperty("from_market", float64(route.From))
		f.SetProperty("to_market", float64(route.To))
		f.SetProperty("terminal_market", float64(route.Terminal))
		if flow, ok := byIdentity[[2]MarketID{route.From, route.To}]; ok {
			f.SetProperty("value", flow.Value)
			f.SetProperty("volume", flow.Volume)
		}
		fc.AddFeature(f)
	}

	if len(fc.Features) == 0 && len(routes) > 0 {
		return fc, fmt.Errorf("no route had full geographic coverage")
	}
	return fc, nil
}
