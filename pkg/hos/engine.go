package hos

import (
	"fmt"
	"math"
	"time"

	"github.com/lintang-b-s/eldx/pkg/util"
	"go.uber.org/zap"
)

type Engine struct {
	log *zap.Logger
}

func NewEngine(log *zap.Logger) *Engine {
	return &Engine{
		log: log,
	}
}

type Input struct {
	TotalDrivingHours float64
	TotalOnDutyHours  float64
	CurrentCycleHours float64
	FuelStops         int
	// StartDate is the calendar day the first duty day is logged on. The
	// simulated clock starts at 06:00 local. Zero value means today.
	StartDate time.Time
}

// engineState carries every counter the daily loop mutates. one value per
// simulation, threaded through each day, never package-level.
type engineState struct {
	remainingDriving    float64
	remainingDuty       float64
	cycleHoursUsed      float64
	pickupTime          float64
	deliveryTime        float64
	fuelStopsRemaining  int
	consecutiveRestarts int
	dayNumber           int
	// firstDutyDay marks the first day the driver actually works: the
	// pre-trip inspection and the pickup block belong to it even when
	// restart days precede it.
	firstDutyDay bool
	clock        time.Time
}

func newEngineState(in Input) *engineState {
	start := in.StartDate
	if start.IsZero() {
		start = time.Now()
	}
	start = time.Date(start.Year(), start.Month(), start.Day(),
		DAY_START_HOUR, 0, 0, 0, start.Location())

	return &engineState{
		remainingDriving:   in.TotalDrivingHours,
		remainingDuty:      in.TotalOnDutyHours,
		cycleHoursUsed:     in.CurrentCycleHours,
		pickupTime:         PICKUP_DURATION,
		deliveryTime:       DELIVERY_DURATION,
		fuelStopsRemaining: in.FuelStops,
		dayNumber:          1,
		firstDutyDay:       true,
		clock:              start,
	}
}

func (st *engineState) nextDay() {
	st.clock = st.clock.AddDate(0, 0, 1)
	st.dayNumber++
}

// GenerateDailyLogs runs the duty-cycle state machine until all on-duty time
// is consumed and returns one DailyLog per simulated day, chronological.
func (e *Engine) GenerateDailyLogs(in Input) ([]DailyLog, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	st := newEngineState(in)
	logs := make([]DailyLog, 0, 4)

	for st.remainingDuty > EPS {
		availableDriving := util.Min(MAX_DRIVING_HOURS_PER_DAY, st.remainingDriving)
		availableDuty := util.Min(MAX_DUTY_HOURS_PER_DAY, st.remainingDuty)
		availableDuty = util.Min(availableDuty, MAX_WEEKLY_HOURS-st.cycleHoursUsed)

		if availableDuty <= 0 {
			// the weekly check still applies: the cycle total that forced
			// this restart is inspected before any reset clears it
			day := e.restartDay(st)
			e.deriveViolations(&day, st.cycleHoursUsed)
			logs = append(logs, day)
			st.consecutiveRestarts++
			if st.consecutiveRestarts >= 2 {
				e.log.Info("cycle hours cleared after consecutive restart days",
					zap.Int("day_number", st.dayNumber))
				st.cycleHoursUsed = 0
			}
			st.nextDay()
			continue
		}
		st.consecutiveRestarts = 0

		day := e.dutyDay(st, availableDriving, availableDuty)
		e.deriveViolations(&day, st.cycleHoursUsed)
		logs = append(logs, day)

		if day.DailyTotals.OnDuty() <= EPS && st.remainingDriving <= EPS {
			// nothing left that can consume duty time: stop instead of
			// emitting empty days forever
			e.log.Warn("no duty progress possible, terminating schedule",
				zap.Float64("remaining_duty", st.remainingDuty))
			st.remainingDuty = 0
		}
		st.nextDay()
	}

	e.log.Info("daily logs generated",
		zap.Int("days", len(logs)),
		zap.Float64("driving_hours", in.TotalDrivingHours),
		zap.Float64("on_duty_hours", in.TotalOnDutyHours))

	return logs, nil
}

func validateInput(in Input) error {
	if in.TotalDrivingHours < 0 {
		return util.WrapErrorf(nil, util.ErrInvalidInput,
			"total driving hours must be >= 0, got %f", in.TotalDrivingHours)
	}
	if in.TotalOnDutyHours < 0 {
		return util.WrapErrorf(nil, util.ErrInvalidInput,
			"total on-duty hours must be >= 0, got %f", in.TotalOnDutyHours)
	}
	if in.TotalOnDutyHours+EPS < in.TotalDrivingHours {
		return util.WrapErrorf(nil, util.ErrInvalidInput,
			"on-duty hours (%f) cannot be less than driving hours (%f)",
			in.TotalOnDutyHours, in.TotalDrivingHours)
	}
	if in.CurrentCycleHours < 0 {
		return util.WrapErrorf(nil, util.ErrInvalidInput,
			"current cycle hours must be >= 0, got %f", in.CurrentCycleHours)
	}
	if in.FuelStops < 0 {
		return util.WrapErrorf(nil, util.ErrInvalidInput,
			"fuel stop count must be >= 0, got %d", in.FuelStops)
	}
	return nil
}

// restartDay. no duty hours left in the rolling window: the whole logged day
// is one 34-hour off-duty restart. the 34.0 duration intentionally spills
// past the 24-hour day boundary to represent an uninterrupted rest.
func (e *Engine) restartDay(st *engineState) DailyLog {
	day := newDailyLog(st.clock, st.dayNumber)
	day.append(newActivity(st.clock, st.clock.Add(RESTART_DURATION*time.Hour),
		OFF_DUTY, RESTART_DURATION, "Rest Area", "34-hour restart required"))
	day.DailyTotals.OffDuty = RESTART_DURATION
	return day
}

func (e *Engine) dutyDay(st *engineState, availableDriving, availableDuty float64) DailyLog {
	day := newDailyLog(st.clock, st.dayNumber)

	cursor := st.clock
	dailyDriving := 0.0
	dailyDuty := 0.0
	continuousDriving := 0.0

	if st.firstDutyDay {
		end := cursor.Add(15 * time.Minute)
		day.append(newActivity(cursor, end, ON_DUTY_NOT_DRIVING, PRETRIP_DURATION,
			st.clock.Format("2006-01-02"), "Pre-trip inspection"))
		cursor = end
		dailyDuty += PRETRIP_DURATION
	}

	for st.remainingDriving > EPS &&
		dailyDriving < availableDriving &&
		dailyDuty < availableDuty &&
		continuousDriving < REST_BREAK_REQUIRED_AFTER {

		segment := util.Min(st.remainingDriving, availableDriving-dailyDriving)
		segment = util.Min(segment, availableDuty-dailyDuty)
		segment = util.Min(segment, REST_BREAK_REQUIRED_AFTER-continuousDriving)
		segment = util.Min(segment, DRIVE_SEGMENT_MAX_HOURS)

		if segment <= 0 {
			break
		}

		end := cursor.Add(hoursToDuration(segment))
		day.append(newActivity(cursor, end, DRIVING, segment, "En Route",
			fmt.Sprintf("Driving - Segment %d", day.countByStatus(DRIVING)+1)))
		cursor = end

		dailyDriving += segment
		dailyDuty += segment
		st.remainingDriving -= segment
		st.remainingDuty -= segment
		continuousDriving += segment

		if continuousDriving >= REST_BREAK_REQUIRED_AFTER && st.remainingDriving > EPS {
			breakEnd := cursor.Add(30 * time.Minute)
			day.append(newActivity(cursor, breakEnd, OFF_DUTY, REST_BREAK_DURATION,
				"Rest Area", "30-minute rest break (required after 8 hours driving)"))
			cursor = breakEnd
			continuousDriving = 0
		}

		if st.fuelStopsRemaining > 0 && dailyDriving > 0 && isMultipleOf(dailyDriving, DRIVE_SEGMENT_MAX_HOURS) {
			fuelEnd := cursor.Add(30 * time.Minute)
			day.append(newActivity(cursor, fuelEnd, ON_DUTY_NOT_DRIVING, FUEL_STOP_DURATION,
				"Fuel Station", "Fueling"))
			cursor = fuelEnd
			dailyDuty += FUEL_STOP_DURATION
			st.remainingDuty -= FUEL_STOP_DURATION
			st.fuelStopsRemaining--
		}
	}

	if st.firstDutyDay && st.pickupTime > 0 {
		end := cursor.Add(hoursToDuration(st.pickupTime))
		day.append(newActivity(cursor, end, ON_DUTY_NOT_DRIVING, st.pickupTime,
			"Pickup Location", "Loading/Pickup"))
		cursor = end
		dailyDuty += st.pickupTime
		st.remainingDuty -= st.pickupTime
		st.pickupTime = 0
	}

	if st.remainingDriving <= EPS && st.deliveryTime > 0 {
		end := cursor.Add(hoursToDuration(st.deliveryTime))
		day.append(newActivity(cursor, end, ON_DUTY_NOT_DRIVING, st.deliveryTime,
			"Delivery Location", "Unloading/Delivery"))
		cursor = end
		dailyDuty += st.deliveryTime
		st.remainingDuty -= st.deliveryTime
		st.deliveryTime = 0
	}

	offDutyHours := HOURS_IN_DAY - day.loggedHours()
	if offDutyHours > 0 {
		status, location, description := OFF_DUTY, "Rest Area", "Off duty"
		if offDutyHours >= MIN_OFF_DUTY_PERIOD {
			status, location, description = SLEEPER_BERTH, "Truck Stop", "Required 10-hour rest"
		}
		endOfDay := time.Date(cursor.Year(), cursor.Month(), cursor.Day(),
			23, 59, 0, 0, cursor.Location())
		day.append(newActivity(cursor, endOfDay, status, offDutyHours, location, description))
	}

	for _, a := range day.Activities {
		day.DailyTotals.add(a.Status, a.Duration)
	}
	st.cycleHoursUsed += dailyDuty
	st.firstDutyDay = false

	return day
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

func isMultipleOf(val, base float64) bool {
	mod := math.Mod(val, base)
	return mod < EPS || base-mod < EPS
}
