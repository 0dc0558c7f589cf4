// Package eld maps a daily duty log onto the 24-hour ELD paper-log grid.
// Positions and widths are in quarter-hour units from midnight.
package eld

import (
	"strconv"
	"strings"

	"github.com/lintang-b-s/eldx/pkg/hos"
	"github.com/lintang-b-s/eldx/pkg/util"
)

const (
	minutesPerCell = 15
	minutesPerDay  = 24 * 60
)

type GridSegment struct {
	Status        hos.DutyStatus `json:"status"`
	StartPosition float64        `json:"start_position"`
	Width         float64        `json:"width"`
	Description   string         `json:"description"`
	Location      string         `json:"location"`
}

type GridData struct {
	Date     string          `json:"date"`
	Totals   hos.DailyTotals `json:"totals"`
	Segments []GridSegment   `json:"grid_segments"`
}

// GenerateLogGridData converts one daily log into drawable grid segments.
// Stateless: safe to call repeatedly for the same log. An activity whose end
// clock reads earlier than its start wrapped past midnight and is extended
// into the next day's range.
func GenerateLogGridData(log hos.DailyLog) (GridData, error) {
	grid := GridData{
		Date:     log.Date,
		Totals:   log.DailyTotals,
		Segments: make([]GridSegment, 0, len(log.Activities)),
	}

	for _, activity := range log.Activities {
		startMinutes, err := timeToMinutes(activity.StartTime)
		if err != nil {
			return GridData{}, err
		}
		endMinutes, err := timeToMinutes(activity.EndTime)
		if err != nil {
			return GridData{}, err
		}

		if endMinutes < startMinutes {
			endMinutes += minutesPerDay
		}

		grid.Segments = append(grid.Segments, GridSegment{
			Status:        activity.Status,
			StartPosition: float64(startMinutes) / minutesPerCell,
			Width:         float64(endMinutes-startMinutes) / minutesPerCell,
			Description:   activity.Description,
			Location:      activity.Location,
		})
	}

	return grid, nil
}

// timeToMinutes converts HH:MM to minutes since midnight.
func timeToMinutes(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, util.WrapErrorf(nil, util.ErrBadParamInput,
			"activity time %q is not HH:MM", clock)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, util.WrapErrorf(err, util.ErrBadParamInput,
			"activity time %q is not HH:MM", clock)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, util.WrapErrorf(err, util.ErrBadParamInput,
			"activity time %q is not HH:MM", clock)
	}
	return hours*60 + minutes, nil
}
