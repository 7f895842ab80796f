package core

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Weekday is a day of the week, Sunday through Saturday
type Weekday int

const (
	Sunday Weekday = iota + 1
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// DaysInWeek is the number of day slots in a weekly schedule
const DaysInWeek = 7

var weekdayNames = [...]string{
	Sunday:    "Sunday",
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
}

var weekdayAbbreviations = [...]string{
	Sunday:    "SUN",
	Monday:    "MON",
	Tuesday:   "TUE",
	Wednesday: "WED",
	Thursday:  "THUR",
	Friday:    "FRI",
	Saturday:  "SAT",
}

// AllWeekdays returns every weekday in week order, starting with Sunday
func AllWeekdays() []Weekday {
	return []Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

// WeekdayOf returns the weekday of t in t's location
func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday()) + 1
}

// Valid reports whether d is one of Sunday..Saturday
func (d Weekday) Valid() bool {
	return d >= Sunday && d <= Saturday
}

// Offset returns the weekday n days after d (n may be negative), wrapping within the week
func (d Weekday) Offset(n int) Weekday {
	return Weekday(mod(int(d)-1+n, DaysInWeek) + 1)
}

// Previous returns the day before d
func (d Weekday) Previous() Weekday {
	return d.Offset(-1)
}

// Next returns the day after d
func (d Weekday) Next() Weekday {
	return d.Offset(1)
}

// String returns the full English name of the day
func (d Weekday) String() string {
	if !d.Valid() {
		return "Weekday(" + strconv.Itoa(int(d)) + ")"
	}
	return weekdayNames[d]
}

// Abbreviation returns the short label used in list rows
func (d Weekday) Abbreviation() string {
	if !d.Valid() {
		return "?"
	}
	return weekdayAbbreviations[d]
}

// ParseWeekday accepts a full name, an abbreviation or a number 1..7 (1 = Sunday)
func ParseWeekday(s string) (Weekday, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		d := Weekday(n)
		if !d.Valid() {
			return 0, fmt.Errorf("%w: %d", ErrUnknownWeekday, n)
		}
		return d, nil
	}

	for _, d := range AllWeekdays() {
		if strings.EqualFold(s, weekdayNames[d]) || strings.EqualFold(s, weekdayAbbreviations[d]) {
			return d, nil
		}
		// "thu" is accepted alongside "thur"
		if len(s) == 3 && strings.EqualFold(s, weekdayNames[d][:3]) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, s)
}

// MarshalJSON encodes the day as its lowercase name
func (d Weekday) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWeekday, int(d))
	}
	return json.Marshal(strings.ToLower(weekdayNames[d]))
}

// UnmarshalJSON decodes a day name or a number 1..7
func (d *Weekday) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		parsed := Weekday(n)
		if !parsed.Valid() {
			return fmt.Errorf("%w: %d", ErrUnknownWeekday, n)
		}
		*d = parsed
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownWeekday, string(data))
	}
	parsed, err := ParseWeekday(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// mod returns the non-negative remainder of a divided by n
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
