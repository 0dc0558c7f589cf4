package hos

import (
	"time"
)

type Activity struct {
	StartTime   string     `json:"start_time"`
	EndTime     string     `json:"end_time"`
	Status      DutyStatus `json:"status"`
	Duration    float64    `json:"duration"`
	Location    string     `json:"location"`
	Description string     `json:"description"`
}

func newActivity(start, end time.Time, status DutyStatus, duration float64,
	location, description string) Activity {
	return Activity{
		StartTime:   start.Format("15:04"),
		EndTime:     end.Format("15:04"),
		Status:      status,
		Duration:    duration,
		Location:    location,
		Description: description,
	}
}

type DailyTotals struct {
	OffDuty          float64 `json:"off_duty"`
	SleeperBerth     float64 `json:"sleeper_berth"`
	Driving          float64 `json:"driving"`
	OnDutyNotDriving float64 `json:"on_duty_not_driving"`
}

func (dt *DailyTotals) add(status DutyStatus, duration float64) {
	switch status {
	case OFF_DUTY:
		dt.OffDuty += duration
	case SLEEPER_BERTH:
		dt.SleeperBerth += duration
	case DRIVING:
		dt.Driving += duration
	case ON_DUTY_NOT_DRIVING:
		dt.OnDutyNotDriving += duration
	}
}

// OnDuty. driving + on-duty-not-driving hours counted against the 14h window
func (dt DailyTotals) OnDuty() float64 {
	return dt.Driving + dt.OnDutyNotDriving
}

type Violation struct {
	Type        string   `json:"violation_type"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

type DailyLog struct {
	Date        string      `json:"date"`
	DayNumber   int         `json:"day_number"`
	Activities  []Activity  `json:"activities"`
	DailyTotals DailyTotals `json:"daily_totals"`
	Violations  []Violation `json:"violations"`
}

func newDailyLog(date time.Time, dayNumber int) DailyLog {
	return DailyLog{
		Date:       date.Format("2006-01-02"),
		DayNumber:  dayNumber,
		Activities: []Activity{},
		Violations: []Violation{},
	}
}

func (dl *DailyLog) append(a Activity) {
	dl.Activities = append(dl.Activities, a)
}

func (dl *DailyLog) loggedHours() float64 {
	total := 0.0
	for _, a := range dl.Activities {
		total += a.Duration
	}
	return total
}

func (dl *DailyLog) countByStatus(status DutyStatus) int {
	n := 0
	for _, a := range dl.Activities {
		if a.Status == status {
			n++
		}
	}
	return n
}
