package hos

import (
	"fmt"
)

// proximity band for warnings: within this many hours of a limit without
// breaching it.
const warningProximity = 0.5

// deriveViolations inspects a completed logged day, restart days included,
// and records every limit breach plus soft proximity warnings. runningCycle
// is the cycle-hour total after this day's on-duty hours were added.
func (e *Engine) deriveViolations(day *DailyLog, runningCycle float64) {
	missedBreak := missedRestBreak(day.Activities)

	breachSeverity := SEVERITY_VIOLATION
	if missedBreak {
		breachSeverity = SEVERITY_CRITICAL
	}

	driving := day.DailyTotals.Driving
	if driving > MAX_DRIVING_HOURS_PER_DAY+EPS {
		day.Violations = append(day.Violations, Violation{
			Type:     VIOLATION_MAX_DRIVING_EXCEEDED,
			Severity: breachSeverity,
			Description: fmt.Sprintf("%.2f hours driven on day %d, limit is %.0f",
				driving, day.DayNumber, MAX_DRIVING_HOURS_PER_DAY),
		})
	} else if driving > MAX_DRIVING_HOURS_PER_DAY-warningProximity {
		day.Violations = append(day.Violations, Violation{
			Type:     VIOLATION_MAX_DRIVING_EXCEEDED,
			Severity: SEVERITY_WARNING,
			Description: fmt.Sprintf("%.2f hours driven on day %d, within %.1f of the %.0f-hour limit",
				driving, day.DayNumber, warningProximity, MAX_DRIVING_HOURS_PER_DAY),
		})
	}

	onDuty := day.DailyTotals.OnDuty()
	if onDuty > MAX_DUTY_HOURS_PER_DAY+EPS {
		day.Violations = append(day.Violations, Violation{
			Type:     VIOLATION_MAX_DUTY_EXCEEDED,
			Severity: breachSeverity,
			Description: fmt.Sprintf("%.2f on-duty hours on day %d, limit is %.0f",
				onDuty, day.DayNumber, MAX_DUTY_HOURS_PER_DAY),
		})
	} else if onDuty > MAX_DUTY_HOURS_PER_DAY-warningProximity {
		day.Violations = append(day.Violations, Violation{
			Type:     VIOLATION_MAX_DUTY_EXCEEDED,
			Severity: SEVERITY_WARNING,
			Description: fmt.Sprintf("%.2f on-duty hours on day %d, within %.1f of the %.0f-hour limit",
				onDuty, day.DayNumber, warningProximity, MAX_DUTY_HOURS_PER_DAY),
		})
	}

	if runningCycle > MAX_WEEKLY_HOURS+EPS {
		day.Violations = append(day.Violations, Violation{
			Type:     VIOLATION_WEEKLY_LIMIT_EXCEEDED,
			Severity: SEVERITY_VIOLATION,
			Description: fmt.Sprintf("%.2f cycle hours used after day %d, limit is %.0f in %d days",
				runningCycle, day.DayNumber, MAX_WEEKLY_HOURS, WEEKLY_PERIOD_DAYS),
		})
	} else if runningCycle > MAX_WEEKLY_HOURS-warningProximity {
		day.Violations = append(day.Violations, Violation{
			Type:     VIOLATION_WEEKLY_LIMIT_EXCEEDED,
			Severity: SEVERITY_WARNING,
			Description: fmt.Sprintf("%.2f cycle hours used after day %d, within %.1f of the %.0f-hour limit",
				runningCycle, day.DayNumber, warningProximity, MAX_WEEKLY_HOURS),
		})
	}

	if missedBreak {
		day.Violations = append(day.Violations, Violation{
			Type:     VIOLATION_MISSING_REST_BREAK,
			Severity: SEVERITY_VIOLATION,
			Description: fmt.Sprintf("more than %.0f continuous driving hours on day %d without a %.0f-minute break",
				REST_BREAK_REQUIRED_AFTER, day.DayNumber, REST_BREAK_DURATION*60),
		})
	}
}

// missedRestBreak reports whether continuous driving ever exceeded the
// 8-hour threshold without a qualifying off-duty break in between.
func missedRestBreak(activities []Activity) bool {
	continuous := 0.0
	for _, a := range activities {
		switch a.Status {
		case DRIVING:
			continuous += a.Duration
			if continuous > REST_BREAK_REQUIRED_AFTER+EPS {
				return true
			}
		case OFF_DUTY, SLEEPER_BERTH:
			if a.Duration >= REST_BREAK_DURATION {
				continuous = 0
			}
		}
	}
	return false
}
