// Package osrm fetches driving routes from an OSRM-compatible routing
// service.
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/lebrazwesh/roadbook/internal/domain"
	"github.com/lebrazwesh/roadbook/internal/observability"
)

// Config holds the routing client settings.
type Config struct {
	BaseURL string
	Profile string // e.g. "driving"
	Timeout time.Duration
}

// Client implements route.Service against the OSRM HTTP API.
type Client struct {
	baseURL    string
	profile    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OSRM routing client.
func NewClient(cfg Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if cfg.Profile == "" {
		cfg.Profile = "driving"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		profile:    cfg.Profile,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

// Route fetches the routed path between two points. from and to are
// (lat, lon); OSRM's wire order is lon,lat, converted here and nowhere else.
// The returned segment carries geometry, duration seconds, and distance
// meters; its indices are left for the caller to fill.
func (c *Client) Route(ctx context.Context, from, to domain.Geo) (domain.RouteSegment, error) {
	reqURL := fmt.Sprintf("%s/route/v1/%s/%.6f,%.6f;%.6f,%.6f?overview=full&geometries=geojson",
		c.baseURL, c.profile, from.Lon, from.Lat, to.Lon, to.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.RouteSegment{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.RouteAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.RouteRequests.WithLabelValues("error").Inc()
		return domain.RouteSegment{}, fmt.Errorf("route request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.RouteRequests.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return domain.RouteSegment{}, fmt.Errorf("osrm error: status %d: %s", resp.StatusCode, body)
	}

	var decoded response
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.metrics.RouteRequests.WithLabelValues("error").Inc()
		return domain.RouteSegment{}, fmt.Errorf("decode response: %w", err)
	}

	if decoded.Code != "" && decoded.Code != "Ok" {
		c.metrics.RouteRequests.WithLabelValues("error").Inc()
		return domain.RouteSegment{}, fmt.Errorf("osrm response code %q: %s", decoded.Code, decoded.Message)
	}
	if len(decoded.Routes) == 0 {
		c.metrics.RouteRequests.WithLabelValues("error").Inc()
		return domain.RouteSegment{}, fmt.Errorf("no route between (%.4f,%.4f) and (%.4f,%.4f)",
			from.Lat, from.Lon, to.Lat, to.Lon)
	}

	r := decoded.Routes[0]
	segment := domain.RouteSegment{
		DurationSeconds: r.Duration,
		DistanceMeters:  r.Distance,
	}
	if r.Geometry != nil {
		ls, ok := r.Geometry.Geometry().(orb.LineString)
		if !ok {
			c.metrics.RouteRequests.WithLabelValues("error").Inc()
			return domain.RouteSegment{}, fmt.Errorf("unexpected geometry type %q", r.Geometry.Type)
		}
		segment.Geometry = make([]domain.Geo, len(ls))
		for i, p := range ls {
			segment.Geometry[i] = domain.Geo{Lat: p.Lat(), Lon: p.Lon()}
		}
	}

	c.metrics.RouteRequests.WithLabelValues("success").Inc()
	return segment, nil
}

// OSRM API response types.

type response struct {
	Code    string  `json:"code"`
	Message string  `json:"message,omitempty"`
	Routes  []route `json:"routes"`
}

type route struct {
	Geometry *geojson.Geometry `json:"geometry"`
	Duration float64           `json:"duration"` // seconds
	Distance float64           `json:"distance"` // meters
}
