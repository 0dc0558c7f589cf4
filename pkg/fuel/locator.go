// Package fuel places fuel stops along a route: it samples the route
// geometry at even intervals and snaps each sample point to the nearest
// fuel station reported by a point-of-interest source.
package fuel

import (
	"context"
	"sort"

	"github.com/lintang-b-s/eldx/pkg/concurrent"
	"github.com/lintang-b-s/eldx/pkg/geo"
	"github.com/lintang-b-s/eldx/pkg/spatialindex"
	"github.com/lintang-b-s/eldx/pkg/util"
	"go.uber.org/zap"
)

const (
	DEFAULT_SEARCH_RADIUS_KM = 2.0
	// one fuel stop per this many route miles
	MILES_PER_FUEL_STOP = 500.0
)

type GasStation struct {
	Name      string         `json:"name"`
	Location  geo.Coordinate `json:"location"`
	Address   string         `json:"address"`
	Amenities []string       `json:"amenities"`
}

// StationSource is the point-of-interest collaborator queried per sample
// point.
type StationSource interface {
	NearbyFuel(ctx context.Context, center geo.Coordinate, radiusKm float64) ([]GasStation, error)
}

type Locator struct {
	log        *zap.Logger
	source     StationSource
	radiusKm   float64
	numWorkers int
}

func NewLocator(log *zap.Logger, source StationSource, radiusKm float64, numWorkers int) *Locator {
	if radiusKm <= 0 {
		radiusKm = DEFAULT_SEARCH_RADIUS_KM
	}
	if numWorkers <= 0 {
		numWorkers = 4
	}
	return &Locator{
		log:        log,
		source:     source,
		radiusKm:   radiusKm,
		numWorkers: numWorkers,
	}
}

type sampleJob struct {
	position int
	point    geo.Coordinate
}

type sampleResult struct {
	position int
	station  GasStation
	found    bool
}

// FindStationsAlongRoute returns up to numberOfStops stations in route
// order. Sample points with no station inside the search radius are skipped,
// never replaced with a placeholder. Lookup failures degrade to fewer stops.
func (l *Locator) FindStationsAlongRoute(ctx context.Context, path []geo.Coordinate,
	numberOfStops int) []GasStation {
	if numberOfStops <= 0 || len(path) == 0 {
		l.log.Warn("invalid parameters for finding gas stations",
			zap.Int("number_of_stops", numberOfStops), zap.Int("path_len", len(path)))
		return []GasStation{}
	}
	if len(path) <= 2 {
		l.log.Warn("route too short to calculate fuel stops", zap.Int("path_len", len(path)))
		return []GasStation{}
	}

	samples := SamplePositions(path, numberOfStops)

	pool := concurrent.NewWorkerPool[sampleJob, sampleResult](
		util.Min(l.numWorkers, len(samples)), len(samples))
	pool.Start(func(job sampleJob) sampleResult {
		return l.nearestStation(ctx, job)
	})
	for i, point := range samples {
		pool.AddJob(sampleJob{position: i, point: point})
	}
	pool.Close()
	pool.Wait()

	results := make([]sampleResult, 0, len(samples))
	for res := range pool.CollectResults() {
		if res.found {
			results = append(results, res)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].position < results[j].position
	})

	stations := make([]GasStation, 0, len(results))
	for _, res := range results {
		stations = append(stations, res.station)
	}

	l.log.Info("gas stations found along route",
		zap.Int("requested", numberOfStops), zap.Int("found", len(stations)))
	return stations
}

// SamplePositions partitions the path into numberOfStops+1 equal index
// segments and returns the coordinate at each internal boundary.
func SamplePositions(path []geo.Coordinate, numberOfStops int) []geo.Coordinate {
	if len(path) == 0 || numberOfStops <= 0 {
		return []geo.Coordinate{}
	}

	segmentLength := float64(len(path)) / float64(numberOfStops+1)

	positions := make([]geo.Coordinate, 0, numberOfStops)
	for i := 1; i <= numberOfStops; i++ {
		index := int(float64(i) * segmentLength)
		if index >= 0 && index < len(path) {
			positions = append(positions, path[index])
		}
	}
	return positions
}

func (l *Locator) nearestStation(ctx context.Context, job sampleJob) sampleResult {
	if util.StopConcurrentOperation(ctx) {
		return sampleResult{position: job.position}
	}

	candidates, err := l.source.NearbyFuel(ctx, job.point, l.radiusKm)
	if err != nil {
		l.log.Warn("fuel station lookup failed, skipping sample point",
			zap.Int("sample", job.position), zap.Error(err))
		return sampleResult{position: job.position}
	}
	if len(candidates) == 0 {
		return sampleResult{position: job.position}
	}

	index := spatialindex.NewIndex[GasStation]()
	for _, station := range candidates {
		index.Insert(station.Location.Lat, station.Location.Lon, station)
	}
	nearby := index.SearchWithinRadius(job.point.Lat, job.point.Lon, l.radiusKm)
	if len(nearby) == 0 {
		return sampleResult{position: job.position}
	}

	sort.Slice(nearby, func(i, j int) bool {
		di := geo.CalculateHaversineDistance(job.point.Lat, job.point.Lon,
			nearby[i].Location.Lat, nearby[i].Location.Lon)
		dj := geo.CalculateHaversineDistance(job.point.Lat, job.point.Lon,
			nearby[j].Location.Lat, nearby[j].Location.Lon)
		return di < dj
	})

	return sampleResult{position: job.position, station: nearby[0], found: true}
}
