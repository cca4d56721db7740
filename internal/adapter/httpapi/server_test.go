package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lebrazwesh/roadbook/internal/batch"
	"github.com/lebrazwesh/roadbook/internal/domain"
	"github.com/lebrazwesh/roadbook/internal/observability"
	"github.com/lebrazwesh/roadbook/internal/resolver"
	"github.com/lebrazwesh/roadbook/internal/route"
)

type mapCache struct {
	entries map[string]domain.Geo
}

func (c *mapCache) Get(query string) (domain.Geo, bool) {
	loc, ok := c.entries[query]
	return loc, ok
}

func (c *mapCache) Put(query string, loc domain.Geo) {
	c.entries[query] = loc
}

type lookupGeocoder struct {
	locations map[string]domain.Geo
}

func (g *lookupGeocoder) Geocode(_ context.Context, query string) (domain.Geo, bool, error) {
	loc, ok := g.locations[query]
	return loc, ok, nil
}

type fixedRouter struct {
	segment domain.RouteSegment
	err     error
}

func (r *fixedRouter) Route(_ context.Context, _, _ domain.Geo) (domain.RouteSegment, error) {
	return r.segment, r.err
}

func newTestServer(t *testing.T, geocoder resolver.Geocoder, router route.Service) *Server {
	t.Helper()

	logger := observability.NewTestLogger()
	metrics := observability.NewMetricsForTesting()

	res := resolver.New(&mapCache{entries: map[string]domain.Geo{}}, geocoder, 1, 0, clockwork.NewFakeClock(), logger, metrics)
	runner := batch.NewRunner(res, nil, logger, metrics)
	engine := route.New(router, domain.DefaultFuelParams(), logger, metrics)

	return NewServer(context.Background(), ":0", runner, engine, runner, logger)
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, &lookupGeocoder{}, &fixedRouter{})

	w := doJSON(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestReadyEndpoint_FlipsAfterFirstBatch(t *testing.T) {
	s := newTestServer(t, &lookupGeocoder{}, &fixedRouter{})

	w := doJSON(t, s, http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/v1/geocode", `{"rows":[]}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	require.Eventually(t, func() bool {
		return doJSON(t, s, http.MethodGet, "/readyz", "").Code == http.StatusOK
	}, time.Second, 5*time.Millisecond)
}

func TestGeocodeEndpoint_RunsBatch(t *testing.T) {
	geocoder := &lookupGeocoder{locations: map[string]domain.Geo{
		"10 Rue de Rivoli, Paris, France": {Lat: 48.8606, Lon: 2.3376},
	}}
	s := newTestServer(t, geocoder, &fixedRouter{})

	body := `{"rows":[[
		{"column":"Nom","value":"Olympia"},
		{"column":"Adresse","value":"10 Rue de Rivoli"},
		{"column":"Ville","value":"Paris"},
		{"column":"Pays","value":"France"}
	]]}`
	w := doJSON(t, s, http.MethodPost, "/api/v1/geocode", body)
	require.Equal(t, http.StatusAccepted, w.Code)

	var accepted struct {
		JobID string `json:"job_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accepted))
	require.NotEmpty(t, accepted.JobID)

	var snap batch.Snapshot
	require.Eventually(t, func() bool {
		poll := doJSON(t, s, http.MethodGet, "/api/v1/jobs/"+accepted.JobID, "")
		if poll.Code != http.StatusOK {
			return false
		}
		if err := json.Unmarshal(poll.Body.Bytes(), &snap); err != nil {
			return false
		}
		return snap.State == batch.StateFinished
	}, time.Second, 5*time.Millisecond)

	require.Len(t, snap.Results, 1)
	assert.Equal(t, "Olympia", snap.Results[0].DisplayName)
	assert.False(t, snap.Results[0].NotFound)
	assert.InDelta(t, 48.8606, snap.Results[0].Coordinates.Lat, 1e-9)
}

func TestGeocodeEndpoint_BadBody(t *testing.T) {
	s := newTestServer(t, &lookupGeocoder{}, &fixedRouter{})

	w := doJSON(t, s, http.MethodPost, "/api/v1/geocode", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJobEndpoint_InvalidID(t *testing.T) {
	s := newTestServer(t, &lookupGeocoder{}, &fixedRouter{})

	w := doJSON(t, s, http.MethodGet, "/api/v1/jobs/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJobEndpoint_Unknown(t *testing.T) {
	s := newTestServer(t, &lookupGeocoder{}, &fixedRouter{})

	w := doJSON(t, s, http.MethodGet, "/api/v1/jobs/1b671a64-40d5-491e-99b0-da01ff1f3341", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestItineraryEndpoint(t *testing.T) {
	router := &fixedRouter{segment: domain.RouteSegment{
		DistanceMeters:  400_000,
		DurationSeconds: 14_400,
	}}
	s := newTestServer(t, &lookupGeocoder{}, router)

	body := `{"points":[{"lat":48.8606,"lon":2.3376},{"lat":45.76,"lon":4.84},{"lat":43.2965,"lon":5.3698}]}`
	w := doJSON(t, s, http.MethodPost, "/api/v1/itinerary", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp itineraryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Itinerary.Segments, 2)
	assert.InDelta(t, 800.0, resp.Itinerary.TotalDistanceKm, 1e-9)
	assert.InDelta(t, 240.0, resp.Itinerary.TotalDurationMinutes, 1e-9)
	assert.InDelta(t, 111.0, resp.Itinerary.FuelCostPetrol, 1e-9)
	assert.InDelta(t, 105.0, resp.Itinerary.FuelCostDiesel, 1e-9)

	assert.InDelta(t, 2.3376, resp.BBox[0], 1e-9)
	assert.InDelta(t, 43.2965, resp.BBox[1], 1e-9)
	assert.InDelta(t, 5.3698, resp.BBox[2], 1e-9)
	assert.InDelta(t, 48.8606, resp.BBox[3], 1e-9)
}

func TestItineraryEndpoint_SkipsFailedSegments(t *testing.T) {
	router := &fixedRouter{err: fmt.Errorf("routing unavailable")}
	s := newTestServer(t, &lookupGeocoder{}, router)

	body := `{"points":[{"lat":48.8606,"lon":2.3376},{"lat":45.76,"lon":4.84}]}`
	w := doJSON(t, s, http.MethodPost, "/api/v1/itinerary", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp itineraryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Itinerary.Segments)
	assert.Zero(t, resp.Itinerary.TotalDistanceKm)
}

func TestItineraryEndpoint_BadBody(t *testing.T) {
	s := newTestServer(t, &lookupGeocoder{}, &fixedRouter{})

	w := doJSON(t, s, http.MethodPost, "/api/v1/itinerary", "nope")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, &lookupGeocoder{}, &fixedRouter{})

	w := doJSON(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "go_goroutines") || w.Body.Len() > 0)
}
