// Package route chains resolved points into a routed itinerary with
// aggregated duration, distance, and fuel cost estimates.
package route

import (
	"context"
	"log/slog"

	"github.com/lebrazwesh/roadbook/internal/domain"
	"github.com/lebrazwesh/roadbook/internal/observability"
)

// Service fetches the routed path between two points.
type Service interface {
	Route(ctx context.Context, from, to domain.Geo) (domain.RouteSegment, error)
}

// Engine builds itineraries over a routing service.
type Engine struct {
	service Service
	fuel    domain.FuelParams
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates an Engine using the given fuel parameters for cost estimates.
func New(service Service, fuel domain.FuelParams, logger *slog.Logger, metrics *observability.Metrics) *Engine {
	return &Engine{
		service: service,
		fuel:    fuel,
		logger:  logger,
		metrics: metrics,
	}
}

// RouteBetween fetches one segment. Failures are logged and reported as
// ok=false; they never propagate as errors, so itinerary building degrades
// instead of aborting.
func (e *Engine) RouteBetween(ctx context.Context, from, to domain.Geo) (domain.RouteSegment, bool) {
	segment, err := e.service.Route(ctx, from, to)
	if err != nil {
		e.logger.Warn("route lookup failed",
			"from_lat", from.Lat, "from_lon", from.Lon,
			"to_lat", to.Lat, "to_lon", to.Lon,
			"error", err,
		)
		return domain.RouteSegment{}, false
	}
	return segment, true
}

// BuildItinerary routes each consecutive pair of points (N points, N−1
// lookups) and aggregates totals. Pairs that fail to route are skipped and
// contribute zero distance and duration. Fewer than two points yields a
// zeroed summary.
func (e *Engine) BuildItinerary(ctx context.Context, points []domain.Geo) domain.Itinerary {
	var it domain.Itinerary
	var meters, seconds float64

	for i := 0; i+1 < len(points); i++ {
		segment, ok := e.RouteBetween(ctx, points[i], points[i+1])
		if !ok {
			e.metrics.RouteSegmentsSkipped.Inc()
			continue
		}
		segment.FromIndex = i
		segment.ToIndex = i + 1
		it.Segments = append(it.Segments, segment)
		meters += segment.DistanceMeters
		seconds += segment.DurationSeconds
	}

	it.TotalDistanceKm = meters / 1000
	it.TotalDurationMinutes = seconds / 60
	it.FuelCostPetrol = e.fuel.PetrolCost(it.TotalDistanceKm)
	it.FuelCostDiesel = e.fuel.DieselCost(it.TotalDistanceKm)
	return it
}
