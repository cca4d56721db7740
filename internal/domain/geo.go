package domain

import (
	"math"

	"github.com/paulmach/orb"
)

// Geo is a WGS-84 latitude/longitude pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Point converts to an orb point, which uses (lon, lat) order.
func (g Geo) Point() orb.Point {
	return orb.Point{g.Lon, g.Lat}
}

// RouteSegment is the routed path between two consecutive itinerary points.
type RouteSegment struct {
	FromIndex       int     `json:"from_index"`
	ToIndex         int     `json:"to_index"`
	Geometry        []Geo   `json:"geometry"`
	DurationSeconds float64 `json:"duration_seconds"`
	DistanceMeters  float64 `json:"distance_meters"`
}

// LineString converts the segment geometry for map renderers working with
// orb's (lon, lat) convention.
func (s RouteSegment) LineString() orb.LineString {
	ls := make(orb.LineString, len(s.Geometry))
	for i, g := range s.Geometry {
		ls[i] = g.Point()
	}
	return ls
}

// Itinerary aggregates the routed segments of an ordered point list.
// Segments that could not be routed are absent and contribute zero to the
// totals.
type Itinerary struct {
	Segments             []RouteSegment `json:"segments"`
	TotalDistanceKm      float64        `json:"total_distance_km"`
	TotalDurationMinutes float64        `json:"total_duration_minutes"`
	FuelCostPetrol       float64        `json:"estimated_fuel_cost_petrol"`
	FuelCostDiesel       float64        `json:"estimated_fuel_cost_diesel"`
}

// FuelParams drive the itinerary cost estimate. The defaults mirror the
// desktop application's constants.
type FuelParams struct {
	ConsumptionLPer100Km float64 `json:"consumption_l_per_100km" koanf:"consumption_l_per_100km"`
	PetrolPricePerLiter  float64 `json:"petrol_price_per_liter" koanf:"petrol_price_per_liter"`
	DieselPricePerLiter  float64 `json:"diesel_price_per_liter" koanf:"diesel_price_per_liter"`
}

// DefaultFuelParams returns the constants used by the desktop application:
// 7.5 L/100km, petrol 1.85 €/L, diesel 1.75 €/L.
func DefaultFuelParams() FuelParams {
	return FuelParams{
		ConsumptionLPer100Km: 7.5,
		PetrolPricePerLiter:  1.85,
		DieselPricePerLiter:  1.75,
	}
}

// PetrolCost estimates the petrol cost in euros for a distance, rounded to
// two decimals.
func (p FuelParams) PetrolCost(distanceKm float64) float64 {
	return round2(distanceKm / 100 * p.ConsumptionLPer100Km * p.PetrolPricePerLiter)
}

// DieselCost estimates the diesel cost in euros for a distance, rounded to
// two decimals.
func (p FuelParams) DieselCost(distanceKm float64) float64 {
	return round2(distanceKm / 100 * p.ConsumptionLPer100Km * p.DieselPricePerLiter)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Bound returns the bounding box of a point list for map framing. The zero
// bound is returned for an empty list.
func Bound(points []Geo) orb.Bound {
	if len(points) == 0 {
		return orb.Bound{}
	}
	b := points[0].Point().Bound()
	for _, p := range points[1:] {
		b = b.Extend(p.Point())
	}
	return b
}
