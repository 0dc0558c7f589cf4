package trip

import (
	"math"
	"testing"

	"github.com/lintang-b-s/eldx/pkg/geo"
	"go.uber.org/zap"
)

func eq(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func TestCombine(t *testing.T) {
	aggregator := NewAggregator(zap.NewNop())

	testCases := []struct {
		name         string
		toPickup     RouteLeg
		toDelivery   RouteLeg
		wantDistance float64
		wantHours    float64
	}{
		{
			name:         "both legs usable",
			toPickup:     NewRouteLeg(120.5, 7200, nil),
			toDelivery:   NewRouteLeg(430.0, 28800, nil),
			wantDistance: 550.5,
			wantHours:    10,
		},
		{
			name:         "pickup leg missing summary contributes zero",
			toPickup:     RouteLeg{DistanceMiles: 120.5, DurationSeconds: 7200},
			toDelivery:   NewRouteLeg(430.0, 28800, nil),
			wantDistance: 430.0,
			wantHours:    8,
		},
		{
			name:         "both legs missing summaries",
			toPickup:     RouteLeg{},
			toDelivery:   RouteLeg{},
			wantDistance: 0,
			wantHours:    0,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			distance, hours := aggregator.Combine(tt.toPickup, tt.toDelivery)
			if !eq(distance, tt.wantDistance) {
				t.Errorf("distance: got %f want %f", distance, tt.wantDistance)
			}
			if !eq(hours, tt.wantHours) {
				t.Errorf("hours: got %f want %f", hours, tt.wantHours)
			}
		})
	}
}

func TestConcatGeometry(t *testing.T) {
	toPickup := NewRouteLeg(10, 600, []geo.Coordinate{
		geo.NewCoordinate(40, -88), geo.NewCoordinate(40.1, -88),
	})
	toDelivery := NewRouteLeg(10, 600, []geo.Coordinate{
		geo.NewCoordinate(40.1, -88), geo.NewCoordinate(40.2, -88),
	})

	path := ConcatGeometry(toPickup, toDelivery)
	if len(path) != 4 {
		t.Fatalf("want 4 coordinates, got %d", len(path))
	}
	if path[0] != toPickup.Geometry[0] || path[3] != toDelivery.Geometry[1] {
		t.Errorf("geometry not concatenated in travel order")
	}
}
