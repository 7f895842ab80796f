package core

import "errors"

// Precondition errors. These are raised through panic by record and schedule
// methods; ScheduleManager checks them up front and returns them instead.
var (
	ErrAlarmNotConfigured = errors.New("alarm is not configured for this day")
	ErrUnknownWeekday     = errors.New("unknown weekday")
)

// Validation errors
var (
	ErrInvalidSnoozeMinutes      = errors.New("snooze minutes must be between 0 and 60")
	ErrInvalidSleepReminderHours = errors.New("sleep reminder hours must be between 1 and 23")
	ErrDepartureBeforeFinal      = errors.New("departure time cannot be earlier than the final alarm time")
)

// Persisted state errors
var (
	ErrMalformedSchedule = errors.New("malformed schedule")
	ErrInvalidDayCount   = errors.New("schedule must contain exactly 7 days")
	ErrDuplicateWeekday  = errors.New("schedule contains a weekday more than once")
	ErrScheduleNotFound  = errors.New("schedule not found")
)
