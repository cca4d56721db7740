// Package httpapi exposes the geocoding and routing core to the desktop
// client over HTTP, plus health and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lebrazwesh/roadbook/internal/batch"
	"github.com/lebrazwesh/roadbook/internal/domain"
	"github.com/lebrazwesh/roadbook/internal/route"
)

// ReadinessChecker reports whether the service is warmed up.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server hosts the roadbook HTTP API.
type Server struct {
	httpServer *http.Server
	runner     *batch.Runner
	engine     *route.Engine
	ready      ReadinessChecker
	// baseCtx parents batch jobs so they outlive the request that started
	// them but stop on shutdown.
	baseCtx context.Context
	logger  *slog.Logger
}

// NewServer creates the API server. baseCtx bounds the lifetime of batch
// jobs started over HTTP.
func NewServer(baseCtx context.Context, addr string, runner *batch.Runner, engine *route.Engine, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		runner:  runner,
		engine:  engine,
		ready:   ready,
		baseCtx: baseCtx,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /api/v1/geocode", s.handleGeocode)
	mux.HandleFunc("GET /api/v1/jobs/{id}", s.handleJob)
	mux.HandleFunc("POST /api/v1/itinerary", s.handleItinerary)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.ready.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type geocodeRequest struct {
	Rows []domain.ContactRow `json:"rows"`
}

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	var req geocodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return
	}

	job := s.runner.Start(s.baseCtx, req.Rows)
	s.logger.Info("geocode batch accepted", "job_id", job.ID, "rows", len(req.Rows))
	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": job.ID.String()})
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid job id"})
		return
	}

	job, ok := s.runner.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown job"})
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

type itineraryRequest struct {
	Points []domain.Geo `json:"points"`
}

type itineraryResponse struct {
	Itinerary domain.Itinerary `json:"itinerary"`
	// BBox is [minLon, minLat, maxLon, maxLat], GeoJSON order, for map framing.
	BBox [4]float64 `json:"bbox"`
}

func (s *Server) handleItinerary(w http.ResponseWriter, r *http.Request) {
	var req itineraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return
	}

	it := s.engine.BuildItinerary(r.Context(), req.Points)
	b := domain.Bound(req.Points)
	writeJSON(w, http.StatusOK, itineraryResponse{
		Itinerary: it,
		BBox:      [4]float64{b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat()},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
