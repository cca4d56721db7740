// Command roadbookd runs the geocoding and routing service the desktop
// client talks to: health, readiness, and metrics endpoints plus the
// /api/v1 geocode, job, and itinerary routes.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/lebrazwesh/roadbook/internal/adapter/httpapi"
	"github.com/lebrazwesh/roadbook/internal/adapter/nominatim"
	"github.com/lebrazwesh/roadbook/internal/adapter/osrm"
	"github.com/lebrazwesh/roadbook/internal/batch"
	"github.com/lebrazwesh/roadbook/internal/config"
	"github.com/lebrazwesh/roadbook/internal/geocache"
	"github.com/lebrazwesh/roadbook/internal/observability"
	"github.com/lebrazwesh/roadbook/internal/resolver"
	"github.com/lebrazwesh/roadbook/internal/route"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("ROADBOOK_CONFIG"))
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Log.Level, cfg.Log.Format)
	metrics := observability.NewMetrics()

	store, err := geocache.Load(cfg.Cache.Path)
	if err != nil {
		logger.Error("failed to load geocode cache", "path", cfg.Cache.Path, "error", err)
		os.Exit(1)
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

	router := osrm.NewClient(osrm.Config{
		BaseURL: cfg.Routing.BaseURL,
		Profile: cfg.Routing.Profile,
		Timeout: cfg.Routing.Timeout,
	}, metrics, logger)

	engine := route.New(router, cfg.Fuel, logger, metrics)
	runner := batch.NewRunner(res, store, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := httpapi.NewServer(ctx, cfg.HTTP.Addr, runner, engine, runner, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := store.Save(); err != nil {
		logger.Error("geocode cache save error", "error", err)
	}

	logger.Info("shutdown complete")
}
