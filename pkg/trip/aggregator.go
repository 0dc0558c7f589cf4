// Package trip combines the two geocoded route legs of a truck trip
// (current→pickup, pickup→dropoff) into one distance/duration total.
package trip

import (
	"github.com/lintang-b-s/eldx/pkg/geo"
	"github.com/lintang-b-s/eldx/pkg/util"
	"go.uber.org/zap"
)

type RouteLeg struct {
	DistanceMiles   float64
	DurationSeconds float64
	Geometry        []geo.Coordinate
	// HasSummary is false when the provider response carried no usable
	// distance/duration for this leg.
	HasSummary bool
}

func NewRouteLeg(distanceMiles, durationSeconds float64, geometry []geo.Coordinate) RouteLeg {
	return RouteLeg{
		DistanceMiles:   distanceMiles,
		DurationSeconds: durationSeconds,
		Geometry:        geometry,
		HasSummary:      true,
	}
}

type Aggregator struct {
	log *zap.Logger
}

func NewAggregator(log *zap.Logger) *Aggregator {
	return &Aggregator{
		log: log,
	}
}

// Combine sums both legs into total miles and driving hours. A leg without a
// usable summary contributes zero instead of failing the trip.
func (a *Aggregator) Combine(toPickup, toDelivery RouteLeg) (float64, float64) {
	pickupDistance, pickupDuration := a.legContribution(toPickup, "to_pickup")
	deliveryDistance, deliveryDuration := a.legContribution(toDelivery, "to_delivery")

	totalDistance := pickupDistance + deliveryDistance
	totalDrivingHours := util.SecondsToHours(pickupDuration + deliveryDuration)

	a.log.Info("route legs combined",
		zap.Float64("total_distance_miles", totalDistance),
		zap.Float64("total_driving_hours", totalDrivingHours))

	return totalDistance, totalDrivingHours
}

func (a *Aggregator) legContribution(leg RouteLeg, name string) (float64, float64) {
	if !leg.HasSummary {
		a.log.Warn("route leg has no usable summary, contributing zero",
			zap.String("leg", name))
		return 0, 0
	}
	return leg.DistanceMiles, leg.DurationSeconds
}

// ConcatGeometry joins both legs' coordinate paths in travel order.
func ConcatGeometry(toPickup, toDelivery RouteLeg) []geo.Coordinate {
	path := make([]geo.Coordinate, 0, len(toPickup.Geometry)+len(toDelivery.Geometry))
	path = append(path, toPickup.Geometry...)
	path = append(path, toDelivery.Geometry...)
	return path
}
