// Command tradesim runs the trade routing and market simulation engine
// over a world dataset, or over a synthesized demo world when no dataset
// is configured.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"github.com/kestrelgames/tradewinds/internal/api"
	"github.com/kestrelgames/tradewinds/internal/engine"
	"github.com/kestrelgames/tradewinds/internal/graph"
	"github.com/kestrelgames/tradewinds/internal/trade"
	"github.com/kestrelgames/tradewinds/internal/worlddata"
	"github.com/kestrelgames/tradewinds/internal/worldgen"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	dbPath := os.Getenv("WORLD_DB")
	seed := getEnvInt64("WORLD_SEED", 42)
	apiPort := int(getEnvInt64("API_PORT", 0))
	startYear := int(getEnvInt64("START_YEAR", 1444))
	speed := getEnvFloat("SIM_SPEED", 1.0)

	in := engine.BootstrapInput{
		Costs:   graph.DefaultCostTable(),
		Economy: trade.DefaultConfig(),
	}

	if dbPath != "" {
		if err := loadDataset(dbPath, &in); err != nil {
			slog.Error("failed to load world dataset", "path", dbPath, "error", err)
			os.Exit(1)
		}
		slog.Info("world dataset loaded", "path", dbPath,
			"regions", humanize.Comma(int64(len(in.Regions))),
			"markets", len(in.Markets))
	} else {
		slog.Info("no WORLD_DB configured, synthesizing demo world", "seed", seed)
		cfg := worldgen.DefaultGenConfig()
		cfg.Seed = seed
		in.Regions = worldgen.Generate(cfg)
		in.Currents = worldgen.DemoCurrents(cfg)
		in.Markets = worldgen.PlaceMarkets(in.Regions, 12, 3, 10)
		in.Prices = worldgen.DemoPrices()
		in.Owners = worldgen.DemoOwnership()
	}

	w, err := engine.Bootstrap(in)
	if err != nil {
		slog.Error("world initialization failed", "error", err)
		os.Exit(1)
	}
	slog.Info("world initialized",
		"nodes", humanize.Comma(int64(w.Graph.NumNodes())),
		"edges", humanize.Comma(int64(w.Graph.NumEdges())),
		"markets", len(w.Topo.Markets),
		"routes", len(w.Routes))

	var server *api.Server
	if apiPort > 0 {
		routeGeo, geoErr := trade.RoutesGeoJSON(w.Routes, w.Regions, nil)
		if geoErr != nil {
			slog.Warn("route GeoJSON incomplete", "error", geoErr)
		}
		server = &api.Server{Port: apiPort, Routes: w.Routes, RouteGeo: routeGeo}
		server.Start()
	}

	clock := engine.NewClock()
	clock.Speed = speed
	clock.OnMonth = func(month int) {
		w.Ticker.Tick()
		date := engine.SimDate(month, startYear)
		slog.Info("month complete", "date", date, "flows", len(w.Ticker.Flows))
		if server != nil {
			server.Publish(&api.Snapshot{
				Month:      month,
				Date:       date,
				Markets:    w.Topo.Markets,
				Flows:      w.Ticker.Flows,
				Assignment: w.Topo.Assignment,
			})
		}
	}

	go clock.Run()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	clock.Stop()
	slog.Info("shutting down", "months_simulated", clock.Month())
}

// loadDataset fills the bootstrap input from a world database.
func loadDataset(path string, in *engine.BootstrapInput) error {
	db, err := worlddata.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if in.Regions, err = db.LoadRegions(); err != nil {
		return err
	}
	if in.Currents, err = db.LoadCurrents(); err != nil {
		return err
	}
	if in.Markets, err = db.LoadMarkets(); err != nil {
		return err
	}
	if in.Prices, err = db.LoadPrices(); err != nil {
		return err
	}
	owners, err := db.LoadOwnership()
	if err != nil {
		return err
	}
	in.Owners = owners
	return nil
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		slog.Warn("invalid float in environment, using default", "key", key, "value", v)
	}
	return fallback
}
