// Command route builds a driving itinerary from a JSON list of coordinates.
// Points are visited in input order; the output carries per-segment geometry
// plus total distance, duration, and fuel cost estimates.
//
// Usage:
//
//	go run ./cmd/route -in points.json [-out itinerary.json] [-config roadbook.yaml]
//
// The input is a JSON array of {"lat": ..., "lon": ...} objects, e.g. the
// coordinates field of a geocode results file.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/lebrazwesh/roadbook/internal/adapter/osrm"
	"github.com/lebrazwesh/roadbook/internal/config"
	"github.com/lebrazwesh/roadbook/internal/domain"
	"github.com/lebrazwesh/roadbook/internal/observability"
	"github.com/lebrazwesh/roadbook/internal/route"
)

func main() {
	in := flag.String("in", "", "input points JSON file")
	out := flag.String("out", "", "output itinerary JSON file (default: stdout)")
	configPath := flag.String("config", "", "config file (default: ./roadbook.yaml if present)")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*in, *out, *configPath); code != 0 {
		os.Exit(code)
	}
}

func run(in, out, configPath string) int {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	logger := observability.NewLogger(cfg.Log.Level, "text")
	metrics := observability.NewMetrics()

	data, err := os.ReadFile(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read input: %v\n", err)
		return 1
	}
	var points []domain.Geo
	if err := json.Unmarshal(data, &points); err != nil {
		fmt.Fprintf(os.Stderr, "parse points: %v\n", err)
		return 1
	}
	if len(points) < 2 {
		fmt.Fprintln(os.Stderr, "need at least two points to build an itinerary")
		return 1
	}

	router := osrm.NewClient(osrm.Config{
		BaseURL: cfg.Routing.BaseURL,
		Profile: cfg.Routing.Profile,
		Timeout: cfg.Routing.Timeout,
	}, metrics, logger)
	engine := route.New(router, cfg.Fuel, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	it := engine.BuildItinerary(ctx, points)

	encoded, err := json.MarshalIndent(it, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode itinerary: %v\n", err)
		return 1
	}
	if out == "" {
		fmt.Println(string(encoded))
	} else if err := os.WriteFile(out, append(encoded, '\n'), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write output: %v\n", err)
		return 1
	}

	logger.Info("itinerary built",
		"points", len(points),
		"segments", len(it.Segments),
		"total_km", it.TotalDistanceKm,
		"total_minutes", it.TotalDurationMinutes,
	)
	return 0
}
