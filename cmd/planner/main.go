package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lintang-b-s/eldx/pkg/fuel"
	"github.com/lintang-b-s/eldx/pkg/logger"
	"github.com/lintang-b-s/eldx/pkg/ors"
	"github.com/lintang-b-s/eldx/pkg/overpass"
	"github.com/lintang-b-s/eldx/pkg/planner"
	"github.com/lintang-b-s/eldx/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	currentLocation = flag.String("current", "", "current truck location (free-text address)")
	pickupLocation  = flag.String("pickup", "", "pickup address")
	dropoffLocation = flag.String("dropoff", "", "dropoff address")
	cycleHours      = flag.Float64("cycle_hours", 0, "hours already used in the rolling 70h/8d cycle")
)

func main() {
	flag.Parse()

	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := util.ReadConfig(); err != nil {
		log.Warn("config file not loaded, using defaults and environment", zap.Error(err))
	}

	viper.SetDefault("PLAN_TIMEOUT", "120s")
	viper.SetDefault("FUEL_SEARCH_RADIUS_KM", fuel.DEFAULT_SEARCH_RADIUS_KM)
	viper.SetDefault("FUEL_LOOKUP_WORKERS", 4)

	orsClient := ors.NewClient(log)
	stationSource := overpass.NewClient(log)
	locator := fuel.NewLocator(log, stationSource,
		viper.GetFloat64("FUEL_SEARCH_RADIUS_KM"), viper.GetInt("FUEL_LOOKUP_WORKERS"))

	tripPlanner := planner.NewPlanner(log, orsClient, orsClient, locator, time.Time{})

	ctx, cancel := context.WithTimeout(context.Background(), viper.GetDuration("PLAN_TIMEOUT"))
	defer cancel()

	result, err := tripPlanner.PlanTrip(ctx, planner.TripRequest{
		CurrentLocation:   *currentLocation,
		PickupLocation:    *pickupLocation,
		DropoffLocation:   *dropoffLocation,
		CurrentCycleHours: *cycleHours,
	})
	if err != nil {
		log.Error("trip planning failed", zap.Error(err))
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Error("encode trip plan", zap.Error(err))
		os.Exit(1)
	}
	fmt.Println(string(out))
}
