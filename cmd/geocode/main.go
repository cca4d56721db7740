// Command geocode resolves a contact CSV export to coordinates in one shot.
// It reads the rows, runs them through the cache-first resolver, writes the
// ordered results as JSON, and saves the updated geocode cache.
//
// Usage:
//
//	go run ./cmd/geocode -in contacts.csv -out results.json [-delim ';'] [-config roadbook.yaml]
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
	"github.com/jonboulle/clockwork"

	"github.com/lebrazwesh/roadbook/internal/adapter/nominatim"
	"github.com/lebrazwesh/roadbook/internal/batch"
	"github.com/lebrazwesh/roadbook/internal/config"
	"github.com/lebrazwesh/roadbook/internal/geocache"
	"github.com/lebrazwesh/roadbook/internal/importer"
	"github.com/lebrazwesh/roadbook/internal/observability"
	"github.com/lebrazwesh/roadbook/internal/resolver"
)

func main() {
	in := flag.String("in", "", "input contacts CSV file")
	out := flag.String("out", "", "output results JSON file (default: stdout)")
	delim := flag.String("delim", ";", "CSV field delimiter")
	configPath := flag.String("config", "", "config file (default: ./roadbook.yaml if present)")
	flag.Parse()

	if *in == "" || len(*delim) != 1 {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*in, *out, rune((*delim)[0]), *configPath); code != 0 {
		os.Exit(code)
	}
}

func run(in, out string, delim rune, configPath string) int {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	logger := observability.NewLogger(cfg.Log.Level, "text")
	metrics := observability.NewMetrics()

	rows, err := importer.ReadCSVFile(in, delim)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read input: %v\n", err)
		return 1
	}

	store, err := geocache.Load(cfg.Cache.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load geocode cache: %v\n", err)
		return 1
	}
	logger.Info("geocode cache loaded", "path", cfg.Cache.Path, "entries", store.Len())

	geocoder := nominatim.NewClient(nominatim.Config{
		BaseURL:        cfg.Geocoder.BaseURL,
		UserAgent:      cfg.Geocoder.UserAgent,
		Timeout:        cfg.Geocoder.Timeout,
		RequestsPerSec: cfg.Geocoder.RequestsPerSec,
	}, metrics, logger)

	res := resolver.New(store, geocoder, cfg.Geocoder.Retries, cfg.Geocoder.RetryDelay,
		clockwork.NewRealClock(), logger, metrics)
	runner := batch.NewRunner(res, store, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	job := runner.Start(ctx, rows)
	for p := range job.Progress() {
		fmt.Fprintf(os.Stderr, "\rgeocoding %d/%d (%.0f%%)", p.Done, p.Total, p.Fraction*100)
	}
	fmt.Fprintln(os.Stderr)

	results, ok := <-job.Results()
	if !ok {
		fmt.Fprintln(os.Stderr, "geocoding interrupted")
		return 1
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode results: %v\n", err)
		return 1
	}
	if out == "" {
		fmt.Println(string(data))
	} else if err := os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write output: %v\n", err)
		return 1
	}

	notFound := 0
	for _, r := range results {
		if r.NotFound {
			notFound++
		}
	}
	logger.Info("geocoding finished", "rows", len(rows), "not_found", notFound, "cache_entries", store.Len())
	return 0
}
