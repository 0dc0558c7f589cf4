package planner

import (
	"github.com/lintang-b-s/eldx/pkg/fuel"
	"github.com/lintang-b-s/eldx/pkg/hos"
)

type TripRequest struct {
	CurrentLocation   string  `json:"current_location" validate:"required"`
	PickupLocation    string  `json:"pickup_location" validate:"required"`
	DropoffLocation   string  `json:"dropoff_location" validate:"required"`
	CurrentCycleHours float64 `json:"current_cycle_hours" validate:"min=0"`
}

type TripStatus string

const (
	STATUS_PLANNED     TripStatus = "planned"
	STATUS_IN_PROGRESS TripStatus = "in_progress"
	STATUS_COMPLETED   TripStatus = "completed"
	STATUS_CANCELLED   TripStatus = "cancelled"
)

// RouteGeometry carries both legs as encoded polylines for display.
type RouteGeometry struct {
	ToPickup   string `json:"to_pickup"`
	ToDelivery string `json:"to_delivery"`
}

// TripPlanResult is the aggregate planning output. Built once per request,
// immutable after construction; persistence belongs to the caller.
type TripPlanResult struct {
	TotalDistanceMiles float64           `json:"total_distance"`
	TotalDrivingHours  float64           `json:"total_duration"`
	RouteGeometry      RouteGeometry     `json:"route_geometry"`
	DailyLogs          []hos.DailyLog    `json:"eld_logs"`
	FuelStopsRequired  int               `json:"fuel_stops_required"`
	FuelStops          []fuel.GasStation `json:"fuel_stops"`
	Violations         []hos.Violation   `json:"violations"`
	Status             TripStatus        `json:"status"`
}
