// Package planner orchestrates one trip-planning request: geocode the three
// addresses, fetch both route legs, place fuel stops and run the
// hours-of-service engine over the combined totals.
package planner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/lintang-b-s/eldx/pkg/fuel"
	"github.com/lintang-b-s/eldx/pkg/geo"
	"github.com/lintang-b-s/eldx/pkg/hos"
	"github.com/lintang-b-s/eldx/pkg/trip"
	"github.com/lintang-b-s/eldx/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Geocoder interface {
	Geocode(ctx context.Context, address string) (geo.Coordinate, error)
}

type RouteProvider interface {
	Directions(ctx context.Context, origin, destination geo.Coordinate) (trip.RouteLeg, error)
}

type Planner struct {
	log        *zap.Logger
	geocoder   Geocoder
	routes     RouteProvider
	aggregator *trip.Aggregator
	locator    *fuel.Locator
	engine     *hos.Engine
	validate   *validator.Validate
	// startDate pins the first log's calendar day; zero means today.
	startDate time.Time
}

func NewPlanner(log *zap.Logger, geocoder Geocoder, routes RouteProvider,
	locator *fuel.Locator, startDate time.Time) *Planner {
	return &Planner{
		log:        log,
		geocoder:   geocoder,
		routes:     routes,
		aggregator: trip.NewAggregator(log),
		locator:    locator,
		engine:     hos.NewEngine(log),
		validate:   validator.New(),
		startDate:  startDate,
	}
}

// PlanTrip computes a complete HOS-compliant trip plan. Either a fully built
// TripPlanResult is returned or an error before any log is emitted, never a
// partial plan.
func (p *Planner) PlanTrip(ctx context.Context, req TripRequest) (*TripPlanResult, error) {
	p.log.Info("processing trip planning request",
		zap.String("from", req.CurrentLocation), zap.String("to", req.DropoffLocation))

	if err := p.validateRequest(req); err != nil {
		return nil, err
	}

	coords, err := p.geocodeAddresses(ctx, req)
	if err != nil {
		return nil, err
	}

	legs, err := p.fetchRouteLegs(ctx, coords)
	if err != nil {
		return nil, err
	}

	totalDistance, totalDrivingHours := p.aggregator.Combine(legs[0], legs[1])

	fuelStopsRequired := int(math.Floor(totalDistance / fuel.MILES_PER_FUEL_STOP))
	totalOnDutyHours := totalDrivingHours +
		hos.PICKUP_DURATION + hos.DELIVERY_DURATION +
		float64(fuelStopsRequired)*hos.FUEL_STOP_DURATION

	// non-fatal: a failed station lookup degrades to fewer stops
	stations := p.locator.FindStationsAlongRoute(ctx,
		trip.ConcatGeometry(legs[0], legs[1]), fuelStopsRequired)

	dailyLogs, err := p.engine.GenerateDailyLogs(hos.Input{
		TotalDrivingHours: totalDrivingHours,
		TotalOnDutyHours:  totalOnDutyHours,
		CurrentCycleHours: req.CurrentCycleHours,
		FuelStops:         fuelStopsRequired,
		StartDate:         p.startDate,
	})
	if err != nil {
		return nil, err
	}

	violations := make([]hos.Violation, 0)
	for _, day := range dailyLogs {
		violations = append(violations, day.Violations...)
	}

	p.log.Info("trip planning completed successfully",
		zap.Float64("total_distance_miles", totalDistance),
		zap.Float64("total_driving_hours", totalDrivingHours),
		zap.Int("days", len(dailyLogs)),
		zap.Int("violations", len(violations)))

	return &TripPlanResult{
		TotalDistanceMiles: totalDistance,
		TotalDrivingHours:  totalDrivingHours,
		RouteGeometry: RouteGeometry{
			ToPickup:   geo.PolylineFromCoords(legs[0].Geometry),
			ToDelivery: geo.PolylineFromCoords(legs[1].Geometry),
		},
		DailyLogs:         dailyLogs,
		FuelStopsRequired: fuelStopsRequired,
		FuelStops:         stations,
		Violations:        violations,
		Status:            STATUS_PLANNED,
	}, nil
}

func (p *Planner) validateRequest(req TripRequest) error {
	err := p.validate.Struct(req)
	if err == nil {
		return nil
	}

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(p.validate, trans)

	messages := []string{}
	for _, fieldErr := range translateError(err, trans) {
		messages = append(messages, fieldErr.Error())
	}
	p.log.Error("missing required field in trip request", zap.Strings("fields", messages))
	return util.WrapErrorf(err, util.ErrInvalidInput, "validation error: %v", messages)
}

func translateError(err error, trans ut.Translator) []error {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	translated := []error{}
	for _, e := range validatorErrs {
		translated = append(translated, errors.New(e.Translate(trans)))
	}
	return translated
}

// geocodeAddresses resolves current, pickup and dropoff concurrently.
// Not-found addresses are collected and reported together; transport errors
// cancel the sibling lookups.
func (p *Planner) geocodeAddresses(ctx context.Context, req TripRequest) ([3]geo.Coordinate, error) {
	addresses := [3]string{req.CurrentLocation, req.PickupLocation, req.DropoffLocation}
	labels := [3]string{"current location", "pickup location", "dropoff location"}

	var coords [3]geo.Coordinate
	var unresolved [3]string

	g, gctx := errgroup.WithContext(ctx)
	for i := range addresses {
		g.Go(func() error {
			resolved, err := p.geocoder.Geocode(gctx, addresses[i])
			if err != nil {
				if util.ErrorCode(err) == util.ErrNotFound {
					unresolved[i] = fmt.Sprintf("%s '%s'", labels[i], addresses[i])
					return nil
				}
				return err
			}
			coords[i] = resolved
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return coords, util.WrapErrorf(err, util.ErrUnresolvedLocation,
			"geocoding failed: %v", err)
	}

	missing := []string{}
	for _, u := range unresolved {
		if u != "" {
			missing = append(missing, u)
		}
	}
	if len(missing) > 0 {
		return coords, util.WrapErrorf(nil, util.ErrUnresolvedLocation,
			"failed to geocode: %s", strings.Join(missing, ", "))
	}

	return coords, nil
}

// fetchRouteLegs requests current→pickup and pickup→dropoff concurrently;
// the first failure cancels the in-flight sibling.
func (p *Planner) fetchRouteLegs(ctx context.Context, coords [3]geo.Coordinate) ([2]trip.RouteLeg, error) {
	var legs [2]trip.RouteLeg

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		leg, err := p.routes.Directions(gctx, coords[0], coords[1])
		if err != nil {
			return err
		}
		legs[0] = leg
		return nil
	})
	g.Go(func() error {
		leg, err := p.routes.Directions(gctx, coords[1], coords[2])
		if err != nil {
			return err
		}
		legs[1] = leg
		return nil
	})
	if err := g.Wait(); err != nil {
		return legs, err
	}

	return legs, nil
}
