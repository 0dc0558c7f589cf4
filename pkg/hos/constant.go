package hos

// FMCSA property-carrying driver limits (49 CFR 395.3). hours unless stated.
const (
	MAX_DRIVING_HOURS_PER_DAY = 11.0
	MAX_DUTY_HOURS_PER_DAY    = 14.0
	MAX_WEEKLY_HOURS          = 70.0
	WEEKLY_PERIOD_DAYS        = 8

	REST_BREAK_DURATION       = 0.5
	REST_BREAK_REQUIRED_AFTER = 8.0
	MIN_OFF_DUTY_PERIOD       = 10.0
	RESTART_DURATION          = 34.0
)

// scheduling policy, not regulation
const (
	DRIVE_SEGMENT_MAX_HOURS = 4.0 // chunk driving so break/fuel checks interleave
	PRETRIP_DURATION        = 0.25
	PICKUP_DURATION         = 1.0
	DELIVERY_DURATION       = 1.0
	FUEL_STOP_DURATION      = 0.5

	DAY_START_HOUR = 6
)

const (
	HOURS_IN_DAY = 24.0
	EPS          = 1e-9
)

type DutyStatus string

const (
	OFF_DUTY            DutyStatus = "off_duty"
	SLEEPER_BERTH       DutyStatus = "sleeper_berth"
	DRIVING             DutyStatus = "driving"
	ON_DUTY_NOT_DRIVING DutyStatus = "on_duty_not_driving"
)

type Severity string

const (
	SEVERITY_WARNING   Severity = "warning"
	SEVERITY_VIOLATION Severity = "violation"
	SEVERITY_CRITICAL  Severity = "critical"
)

const (
	VIOLATION_MAX_DRIVING_EXCEEDED  = "max_driving_exceeded"
	VIOLATION_MAX_DUTY_EXCEEDED     = "max_duty_exceeded"
	VIOLATION_WEEKLY_LIMIT_EXCEEDED = "weekly_limit_exceeded"
	VIOLATION_MISSING_REST_BREAK    = "missing_rest_break"
)
