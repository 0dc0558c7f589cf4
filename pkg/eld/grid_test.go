package eld

import (
	"math"
	"testing"

	"github.com/lintang-b-s/eldx/pkg/hos"
)

func eq(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func TestGenerateLogGridData(t *testing.T) {
	log := hos.DailyLog{
		Date:      "2025-06-02",
		DayNumber: 1,
		Activities: []hos.Activity{
			{StartTime: "06:00", EndTime: "06:15", Status: hos.ON_DUTY_NOT_DRIVING, Duration: 0.25, Description: "Pre-trip inspection"},
			{StartTime: "06:15", EndTime: "10:15", Status: hos.DRIVING, Duration: 4, Location: "En Route"},
			{StartTime: "10:15", EndTime: "20:15", Status: hos.SLEEPER_BERTH, Duration: 10},
		},
		DailyTotals: hos.DailyTotals{Driving: 4, OnDutyNotDriving: 0.25, SleeperBerth: 10},
	}

	grid, err := GenerateLogGridData(log)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	if grid.Date != "2025-06-02" {
		t.Errorf("date not carried through: %s", grid.Date)
	}
	if !eq(grid.Totals.Driving, 4) {
		t.Errorf("totals not carried through: %+v", grid.Totals)
	}
	if len(grid.Segments) != 3 {
		t.Fatalf("want 3 segments, got %d", len(grid.Segments))
	}

	testCases := []struct {
		idx           int
		startPosition float64
		width         float64
	}{
		{idx: 0, startPosition: 24, width: 1},   // 06:00 = 360min = cell 24
		{idx: 1, startPosition: 25, width: 16},  // 4h = 16 cells
		{idx: 2, startPosition: 41, width: 40},  // 10h = 40 cells
	}
	for _, tt := range testCases {
		seg := grid.Segments[tt.idx]
		if !eq(seg.StartPosition, tt.startPosition) || !eq(seg.Width, tt.width) {
			t.Errorf("segment %d: got start %f width %f, want %f/%f",
				tt.idx, seg.StartPosition, seg.Width, tt.startPosition, tt.width)
		}
	}
}

func TestMidnightWrap(t *testing.T) {
	log := hos.DailyLog{
		Activities: []hos.Activity{
			{StartTime: "22:00", EndTime: "01:30", Status: hos.DRIVING, Duration: 3.5},
		},
	}

	grid, err := GenerateLogGridData(log)
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	seg := grid.Segments[0]
	if !eq(seg.StartPosition, 88) { // 22:00 = 1320min
		t.Errorf("start position: %f", seg.StartPosition)
	}
	if !eq(seg.Width, 14) { // 3.5h past midnight = 14 cells
		t.Errorf("wrapped width: %f", seg.Width)
	}
}

func TestMalformedTimeRejected(t *testing.T) {
	testCases := []string{"0600", "six:00", "06:xx", ""}
	for _, clock := range testCases {
		log := hos.DailyLog{
			Activities: []hos.Activity{{StartTime: clock, EndTime: "07:00"}},
		}
		if _, err := GenerateLogGridData(log); err == nil {
			t.Errorf("want error for activity time %q", clock)
		}
	}
}

func TestStatelessAcrossCalls(t *testing.T) {
	log := hos.DailyLog{
		Activities: []hos.Activity{
			{StartTime: "06:00", EndTime: "18:00", Status: hos.DRIVING, Duration: 12},
		},
	}

	first, err := GenerateLogGridData(log)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	second, err := GenerateLogGridData(log)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(first.Segments) != len(second.Segments) ||
		!eq(first.Segments[0].Width, second.Segments[0].Width) {
		t.Errorf("repeated rendering of the same log diverged")
	}
}
