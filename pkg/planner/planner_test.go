package planner

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/lintang-b-s/eldx/pkg/fuel"
	"github.com/lintang-b-s/eldx/pkg/geo"
	"github.com/lintang-b-s/eldx/pkg/trip"
	"github.com/lintang-b-s/eldx/pkg/util"
	"go.uber.org/zap"
)

type fakeGeocoder struct {
	known map[string]geo.Coordinate
}

func (f *fakeGeocoder) Geocode(_ context.Context, address string) (geo.Coordinate, error) {
	if coord, ok := f.known[address]; ok {
		return coord, nil
	}
	return geo.Coordinate{}, util.WrapErrorf(nil, util.ErrNotFound,
		"no geocoding result for %q", address)
}

type fakeRouteProvider struct {
	legs map[[2]geo.Coordinate]trip.RouteLeg
	err  error
}

func (f *fakeRouteProvider) Directions(_ context.Context, origin, destination geo.Coordinate) (trip.RouteLeg, error) {
	if f.err != nil {
		return trip.RouteLeg{}, f.err
	}
	return f.legs[[2]geo.Coordinate{origin, destination}], nil
}

type fakeStationSource struct {
	err error
}

func (f *fakeStationSource) NearbyFuel(_ context.Context, center geo.Coordinate, _ float64) ([]fuel.GasStation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []fuel.GasStation{{Name: "Truck Stop", Location: center, Address: "Unknown address"}}, nil
}

var (
	chicago      = geo.NewCoordinate(41.8781, -87.6298)
	joliet       = geo.NewCoordinate(41.5250, -88.0817)
	indianapolis = geo.NewCoordinate(39.7684, -86.1581)
)

func legBetween(a, b geo.Coordinate, miles, hours float64) trip.RouteLeg {
	geometry := make([]geo.Coordinate, 5)
	for i := range geometry {
		frac := float64(i) / 4
		geometry[i] = geo.NewCoordinate(
			a.Lat+(b.Lat-a.Lat)*frac, a.Lon+(b.Lon-a.Lon)*frac)
	}
	return trip.NewRouteLeg(miles, hours*3600, geometry)
}

func newTestPlanner(geocoder Geocoder, routes RouteProvider, source fuel.StationSource) *Planner {
	log := zap.NewNop()
	locator := fuel.NewLocator(log, source, 2.0, 2)
	startDate := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	return NewPlanner(log, geocoder, routes, locator, startDate)
}

func validRequest() TripRequest {
	return TripRequest{
		CurrentLocation:   "Chicago, IL",
		PickupLocation:    "Joliet, IL",
		DropoffLocation:   "Indianapolis, IN",
		CurrentCycleHours: 0,
	}
}

func workingProviders() (*fakeGeocoder, *fakeRouteProvider) {
	geocoder := &fakeGeocoder{known: map[string]geo.Coordinate{
		"Chicago, IL":      chicago,
		"Joliet, IL":       joliet,
		"Indianapolis, IN": indianapolis,
	}}
	routes := &fakeRouteProvider{legs: map[[2]geo.Coordinate]trip.RouteLeg{
		{chicago, joliet}:      legBetween(chicago, joliet, 45, 1),
		{joliet, indianapolis}: legBetween(joliet, indianapolis, 555, 9),
	}}
	return geocoder, routes
}

func TestPlanTrip(t *testing.T) {
	geocoder, routes := workingProviders()
	p := newTestPlanner(geocoder, routes, &fakeStationSource{})

	result, err := p.PlanTrip(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	if math.Abs(result.TotalDistanceMiles-600) > 1e-9 {
		t.Errorf("total distance: %f", result.TotalDistanceMiles)
	}
	if math.Abs(result.TotalDrivingHours-10) > 1e-9 {
		t.Errorf("total driving hours: %f", result.TotalDrivingHours)
	}
	if result.FuelStopsRequired != 1 {
		t.Errorf("fuel stops required: %d", result.FuelStopsRequired)
	}
	if len(result.FuelStops) != 1 || result.FuelStops[0].Name != "Truck Stop" {
		t.Errorf("fuel stops: %+v", result.FuelStops)
	}
	if len(result.DailyLogs) == 0 {
		t.Fatal("no daily logs produced")
	}
	if result.DailyLogs[0].Date != "2025-06-02" {
		t.Errorf("first log date: %s", result.DailyLogs[0].Date)
	}
	if result.Status != STATUS_PLANNED {
		t.Errorf("status: %s", result.Status)
	}
	if result.RouteGeometry.ToPickup == "" || result.RouteGeometry.ToDelivery == "" {
		t.Error("route geometry not encoded")
	}
	if len(result.Violations) != 0 {
		t.Errorf("unexpected violations: %+v", result.Violations)
	}

	var loggedDriving float64
	for _, day := range result.DailyLogs {
		loggedDriving += day.DailyTotals.Driving
	}
	if math.Abs(loggedDriving-10) > 1e-9 {
		t.Errorf("logged driving hours: %f", loggedDriving)
	}
}

func TestPlanTripUnresolvedLocations(t *testing.T) {
	geocoder := &fakeGeocoder{known: map[string]geo.Coordinate{
		"Joliet, IL": joliet,
	}}
	_, routes := workingProviders()
	p := newTestPlanner(geocoder, routes, &fakeStationSource{})

	_, err := p.PlanTrip(context.Background(), validRequest())
	if err == nil {
		t.Fatal("want error for unresolved addresses")
	}
	if util.ErrorCode(err) != util.ErrUnresolvedLocation {
		t.Errorf("error code: %v", util.ErrorCode(err))
	}
	for _, want := range []string{"current location 'Chicago, IL'", "dropoff location 'Indianapolis, IN'"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should name %q", err.Error(), want)
		}
	}
	if strings.Contains(err.Error(), "Joliet") {
		t.Errorf("resolved address reported as failed: %q", err.Error())
	}
}

func TestPlanTripMissingFieldsRejected(t *testing.T) {
	geocoder, routes := workingProviders()
	p := newTestPlanner(geocoder, routes, &fakeStationSource{})

	req := validRequest()
	req.PickupLocation = ""
	_, err := p.PlanTrip(context.Background(), req)
	if err == nil {
		t.Fatal("want validation error")
	}
	if util.ErrorCode(err) != util.ErrInvalidInput {
		t.Errorf("error code: %v", util.ErrorCode(err))
	}
}

func TestPlanTripRouteFailure(t *testing.T) {
	geocoder, _ := workingProviders()
	routes := &fakeRouteProvider{
		err: util.WrapErrorf(errors.New("boom"), util.ErrRouteUnavailable, "routing provider error"),
	}
	p := newTestPlanner(geocoder, routes, &fakeStationSource{})

	_, err := p.PlanTrip(context.Background(), validRequest())
	if err == nil {
		t.Fatal("want error when route legs fail")
	}
}

func TestPlanTripStationLookupFailureNonFatal(t *testing.T) {
	geocoder, routes := workingProviders()
	p := newTestPlanner(geocoder, routes, &fakeStationSource{err: errors.New("overpass down")})

	result, err := p.PlanTrip(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("station lookup failure must not fail the plan: %v", err)
	}
	if len(result.FuelStops) != 0 {
		t.Errorf("want zero stations, got %d", len(result.FuelStops))
	}
	if result.FuelStopsRequired != 1 {
		t.Errorf("fuel stop count must still be derived from distance: %d", result.FuelStopsRequired)
	}
}
