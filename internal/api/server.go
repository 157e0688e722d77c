// Package api serves read-only snapshots of the trade world over HTTP for
// the rendering frontend. The simulation publishes a snapshot between
// ticks; handlers only ever read the published copy, never live market
// state, so no request can observe a half-finished tick.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	geojson "github.com/paulmach/go.geojson"

	"github.com/kestrelgames/tradewinds/internal/trade"
	"github.com/kestrelgames/tradewinds/internal/world"
)

// Snapshot is one consistent view of market state, taken between ticks.
type Snapshot struct {
	Month      int                               `json:"month"`
	Date       string                            `json:"date"`
	Markets    []*trade.Market                   `json:"markets"`
	Flows      []trade.Flow                      `json:"flows"`
	Assignment map[world.RegionID]trade.MarketID `json:"assignment"`
}

// Server serves the world's trade state over HTTP.
type Server struct {
	Port   int
	Routes []trade.Route

	// RouteGeo is the static GeoJSON route geometry, computed once at
	// startup.
	RouteGeo *geojson.FeatureCollection

	mu   sync.RWMutex
	snap *Snapshot
}

// Publish installs a new snapshot. Called by the simulation loop between
// ticks — never during one. Market state is deep-copied here: the next tick
// rewrites the live maps in place, so handlers must only ever encode the
// copy. The assignment map is aliased as-is; it is fixed after topology
// resolution and never written again.
func (s *Server) Publish(snap *Snapshot) {
	copied := *snap
	copied.Markets = make([]*trade.Market, len(snap.Markets))
	for i, m := range snap.Markets {
		copied.Markets[i] = m.Clone()
	}
	copied.Flows = append([]trade.Flow(nil), snap.Flows...)

	s.mu.Lock()
	s.snap = &copied
	s.mu.Unlock()
}

func (s *Server) snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()

	// All endpoints are GET, read-only observation.
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/markets", s.handleMarkets)
	mux.HandleFunc("/api/v1/flows", s.handleFlows)
	mux.HandleFunc("/api/v1/routes", s.handleRoutes)
	mux.HandleFunc("/api/v1/routes/geojson", s.handleRouteGeo)
	mux.HandleFunc("/api/v1/assignment", s.handleAssignment)

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		http.Error(w, "world still initializing", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]interface{}{
		"month":   snap.Month,
		"date":    snap.Date,
		"markets": len(snap.Markets),
		"flows":   len(snap.Flows),
	})
}

func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		http.Error(w, "world still initializing", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, snap.Markets)
}

func (s *Server) handleFlows(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		http.Error(w, "world still initializing", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, snap.Flows)
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Routes)
}

func (s *Server) handleRouteGeo(w http.ResponseWriter, r *http.Request) {
	if s.RouteGeo == nil {
		http.Error(w, "no route geometry", http.StatusNotFound)
		return
	}
	writeJSON(w, s.RouteGeo)
}

func (s *Server) handleAssignment(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		http.Error(w, "world still initializing", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, snap.Assignment)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
