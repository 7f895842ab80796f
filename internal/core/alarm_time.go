package core

import (
	"cmp"
	"encoding/json"
	"fmt"
	"iter"
	"time"
)

const (
	minutesPerHour = 60
	hoursPerDay    = 24
	minutesPerDay  = hoursPerDay * minutesPerHour
	hoursPerWeek   = DaysInWeek * hoursPerDay
	minutesPerWeek = DaysInWeek * minutesPerDay
)

// AlarmTime is a minute within the week: a weekday, an hour and a minute.
// Values are always normalized; constructors carry overflowing minutes and
// hours into the following hour, day and week instead of rejecting them.
type AlarmTime struct {
	day    Weekday
	hour   int
	minute int
}

// NewAlarmTime builds a normalized AlarmTime, e.g. (Monday, 9, 65) becomes Monday 10:05
func NewAlarmTime(day Weekday, hour, minute int) AlarmTime {
	dayMinutes := mod(int(day)-1, DaysInWeek) * minutesPerDay
	hourMinutes := mod(hour, hoursPerWeek) * minutesPerHour
	return alarmTimeAt(dayMinutes + hourMinutes + mod(minute, minutesPerWeek))
}

// AlarmTimeOf decomposes t in its own location
func AlarmTimeOf(t time.Time) AlarmTime {
	return NewAlarmTime(WeekdayOf(t), t.Hour(), t.Minute())
}

// ParseTimeOfDay parses "HH:MM" (24-hour) and places it on day
func ParseTimeOfDay(day Weekday, s string) (AlarmTime, error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return AlarmTime{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return NewAlarmTime(day, parsed.Hour(), parsed.Minute()), nil
}

// alarmTimeAt converts a minute-of-week offset (any integer) into an AlarmTime
func alarmTimeAt(weekMinute int) AlarmTime {
	weekMinute = mod(weekMinute, minutesPerWeek)
	return AlarmTime{
		day:    Weekday(weekMinute/minutesPerDay + 1),
		hour:   weekMinute % minutesPerDay / minutesPerHour,
		minute: weekMinute % minutesPerHour,
	}
}

// Day returns the weekday
func (t AlarmTime) Day() Weekday {
	if !t.day.Valid() {
		return Sunday
	}
	return t.day
}

// Hour returns the hour, 0..23
func (t AlarmTime) Hour() int { return t.hour }

// Minute returns the minute, 0..59
func (t AlarmTime) Minute() int { return t.minute }

// weekMinute returns the offset of t from Sunday 00:00
func (t AlarmTime) weekMinute() int {
	return (int(t.Day())-1)*minutesPerDay + t.hour*minutesPerHour + t.minute
}

// AdvancedBy returns t moved by the given hours and minutes, wrapping across days and weeks
func (t AlarmTime) AdvancedBy(hours, minutes int) AlarmTime {
	return alarmTimeAt(t.weekMinute() + mod(hours, hoursPerWeek)*minutesPerHour + mod(minutes, minutesPerWeek))
}

// StartOfDay returns 00:00 of t's day
func (t AlarmTime) StartOfDay() AlarmTime {
	return AlarmTime{day: t.Day()}
}

// EndOfDay returns 23:59 of t's day, the last representable minute
func (t AlarmTime) EndOfDay() AlarmTime {
	return AlarmTime{day: t.Day(), hour: hoursPerDay - 1, minute: minutesPerHour - 1}
}

// StartOfDay returns 00:00 of day
func StartOfDay(day Weekday) AlarmTime {
	return NewAlarmTime(day, 0, 0)
}

// Compare returns -1, 0 or +1 ordering by day, then hour, then minute
func (t AlarmTime) Compare(other AlarmTime) int {
	return cmp.Compare(t.weekMinute(), other.weekMinute())
}

// Before reports whether t is earlier in the week than other
func (t AlarmTime) Before(other AlarmTime) bool { return t.Compare(other) < 0 }

// After reports whether t is later in the week than other
func (t AlarmTime) After(other AlarmTime) bool { return t.Compare(other) > 0 }

// Equal reports whether day, hour and minute all match
func (t AlarmTime) Equal(other AlarmTime) bool { return t.Compare(other) == 0 }

// MinutesUntil returns how many minutes forward from t other is, within one week cycle
func (t AlarmTime) MinutesUntil(other AlarmTime) int {
	return mod(other.weekMinute()-t.weekMinute(), minutesPerWeek)
}

// TimesBetween yields times from start (inclusive) toward end (exclusive),
// stride minutes apart. The sequence is empty when end <= start+stride or
// stride is not positive. It can be ranged over any number of times.
func TimesBetween(start, end AlarmTime, stride int) iter.Seq[AlarmTime] {
	return strideTimes(start.weekMinute(), end.weekMinute(), stride)
}

// AllDayTimes yields every stride minutes of t's day starting at midnight
func (t AlarmTime) AllDayTimes(stride int) iter.Seq[AlarmTime] {
	from := t.StartOfDay().weekMinute()
	return strideTimes(from, from+minutesPerDay, stride)
}

// TimesUntilEndOfDay yields times from t until midnight, stride minutes apart.
// Departure time pickers are filled from this sequence.
func (t AlarmTime) TimesUntilEndOfDay(stride int) iter.Seq[AlarmTime] {
	return strideTimes(t.weekMinute(), t.StartOfDay().weekMinute()+minutesPerDay, stride)
}

func strideTimes(from, to, stride int) iter.Seq[AlarmTime] {
	return func(yield func(AlarmTime) bool) {
		if stride <= 0 || to <= from+stride {
			return
		}
		for m := from; m < to; m += stride {
			if !yield(alarmTimeAt(m)) {
				return
			}
		}
	}
}

// TimeDescription formats the time of day for display, e.g. "9:05 AM"
func (t AlarmTime) TimeDescription() string {
	suffix := "AM"
	if t.hour >= 12 {
		suffix = "PM"
	}
	hour := t.hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, t.minute, suffix)
}

// String formats as "Monday 09:05"
func (t AlarmTime) String() string {
	return fmt.Sprintf("%s %02d:%02d", t.Day(), t.hour, t.minute)
}

type alarmTimeJSON struct {
	Day    Weekday `json:"day"`
	Hour   int     `json:"hour"`
	Minute int     `json:"minute"`
}

// MarshalJSON encodes as {"day":"monday","hour":9,"minute":5}
func (t AlarmTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(alarmTimeJSON{Day: t.Day(), Hour: t.hour, Minute: t.minute})
}

// UnmarshalJSON decodes and normalizes; the day is required
func (t *AlarmTime) UnmarshalJSON(data []byte) error {
	var raw alarmTimeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Day.Valid() {
		return fmt.Errorf("%w: missing day in alarm time", ErrUnknownWeekday)
	}
	*t = NewAlarmTime(raw.Day, raw.Hour, raw.Minute)
	return nil
}
