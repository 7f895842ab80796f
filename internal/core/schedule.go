package core

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

// fullWeek is how long the reorder guard waits before resetting
// confirmations even if the active day did not change
const fullWeek = DaysInWeek * 24 * time.Hour

// WeeklySchedule holds one alarm slot per weekday. Slots are ordered by ring
// start, rotated so that index 0 is the alarm that most recently became due.
type WeeklySchedule struct {
	records [DaysInWeek]Alarm

	// MostRecentReorderDate is the start of the day of the last reorder
	// that reset confirmation state
	MostRecentReorderDate time.Time

	// Template prefills days when they are configured
	Template Alarm
}

// ReorderResult describes what a reorder pass did
type ReorderResult struct {
	Previous Weekday // day at index 0 before the pass
	Active   Weekday // day at index 0 after the pass
	Rotated  bool    // the slot order changed
	Reset    bool    // confirmation state was reset
}

// Changed reports whether the pass altered the schedule
func (r ReorderResult) Changed() bool {
	return r.Rotated || r.Reset
}

// NewWeeklySchedule returns 7 disabled slots, Sunday first, with the default template
func NewWeeklySchedule() *WeeklySchedule {
	s := &WeeklySchedule{Template: DefaultTemplate()}
	for i, day := range AllWeekdays() {
		s.records[i] = NewAlarm(day)
	}
	return s
}

// Clone returns an independent copy
func (s *WeeklySchedule) Clone() *WeeklySchedule {
	clone := *s
	return &clone
}

// Records returns a copy of the slots in schedule order
func (s *WeeklySchedule) Records() []Alarm {
	out := make([]Alarm, DaysInWeek)
	copy(out, s.records[:])
	return out
}

// At returns the slot at position i (0..6)
func (s *WeeklySchedule) At(i int) Alarm {
	return s.records[i]
}

// Alarm returns the slot of day
func (s *WeeklySchedule) Alarm(day Weekday) Alarm {
	return *s.slot(day)
}

// IndexOf returns the position of day in schedule order
func (s *WeeklySchedule) IndexOf(day Weekday) int {
	for i := range s.records {
		if s.records[i].Day == day {
			return i
		}
	}
	panic(fmt.Errorf("%w: %s is not in the schedule", ErrUnknownWeekday, day))
}

func (s *WeeklySchedule) slot(day Weekday) *Alarm {
	return &s.records[s.IndexOf(day)]
}

// ConfirmAwake acknowledges day's alarm
func (s *WeeklySchedule) ConfirmAwake(day Weekday) {
	s.slot(day).ConfirmAwake()
}

// ToggleMuted flips day's muted flag
func (s *WeeklySchedule) ToggleMuted(day Weekday) {
	s.slot(day).ToggleMuted()
}

// Configure enables day's alarm using the template
func (s *WeeklySchedule) Configure(day Weekday) {
	s.slot(day).Configure(s.Template)
}

// Remove disables day's alarm
func (s *WeeklySchedule) Remove(day Weekday) {
	s.slot(day).Remove()
}

// SetFinalAlarmTime moves day's final alarm
func (s *WeeklySchedule) SetFinalAlarmTime(day Weekday, t AlarmTime) {
	s.slot(day).SetFinalAlarmTime(t)
}

// SetDepartureTime sets day's departure time
func (s *WeeklySchedule) SetDepartureTime(day Weekday, t AlarmTime) error {
	return s.slot(day).SetDepartureTime(t)
}

// SetSnoozeState sets day's snooze window
func (s *WeeklySchedule) SetSnoozeState(day Weekday, state SnoozeState) {
	s.slot(day).SetSnoozeState(state)
}

// SetSleepReminder sets day's sleep reminder
func (s *WeeklySchedule) SetSleepReminder(day Weekday, state SleepReminderState) {
	s.slot(day).SetSleepReminder(state)
}

// SetTemplate replaces the prefill alarm
func (s *WeeklySchedule) SetTemplate(template Alarm) {
	template.IsConfigured = true
	if template.DepartureTime.Before(template.FinalAlarmTime) {
		template.DepartureTime = template.FinalAlarmTime
	}
	s.Template = template
}

// Reorder re-anchors the week to now: the slot whose alarm most recently
// became due moves to index 0. When index 0 changes to a different day, or a
// full week passed since the last reset, every other slot is marked
// awake-confirmed and index 0 starts ringing if it is configured and unmuted.
func (s *WeeklySchedule) Reorder(now time.Time) ReorderResult {
	current := AlarmTimeOf(now)
	previous := s.records[0].Day

	sorted := s.records
	sortByRingStart(sorted[:])

	// Past every start: the latest-starting slot is still the active one.
	activeIndex := -1
	for i := range sorted {
		if sorted[i].RingInterval().Start.After(current) {
			activeIndex = (i - 1 + DaysInWeek) % DaysInWeek
			break
		}
	}

	var rotated [DaysInWeek]Alarm
	copy(rotated[:], rotateLeft(sorted[:], activeIndex))

	result := ReorderResult{
		Previous: previous,
		Active:   rotated[0].Day,
		Rotated:  !sameOrder(s.records, rotated),
	}
	s.records = rotated

	if now.Sub(s.MostRecentReorderDate) < fullWeek && result.Active == previous {
		return result
	}

	for i := 1; i < DaysInWeek; i++ {
		s.records[i].IsAwakeConfirmed = true
	}
	active := &s.records[0]
	active.IsAwakeConfirmed = !(active.IsConfigured && !active.IsMuted)

	s.MostRecentReorderDate = startOfDate(now)
	result.Reset = true
	return result
}

// NextAlarm returns the alarm the user should be shown next: index 0 while
// it is still ringing, otherwise index 1. The flag reports whether the
// returned slot has an alarm at all.
func (s *WeeklySchedule) NextAlarm() (Alarm, bool) {
	if s.records[0].NeedsToConfirmAwake() {
		return s.records[0], true
	}
	next := s.records[1]
	return next, next.IsConfigured
}

// UpcomingAlarm returns the first configured, unmuted slot after index 0
func (s *WeeklySchedule) UpcomingAlarm() (Alarm, bool) {
	for i := 1; i < DaysInWeek; i++ {
		if s.records[i].IsConfigured && !s.records[i].IsMuted {
			return s.records[i], true
		}
	}
	return Alarm{}, false
}

// sortByRingStart orders slots by ring start; ties fall back to week order
func sortByRingStart(records []Alarm) {
	slices.SortStableFunc(records, func(a, b Alarm) int {
		if c := a.RingInterval().Start.Compare(b.RingInterval().Start); c != 0 {
			return c
		}
		return cmp.Compare(a.Day, b.Day)
	})
}

// rotateLeft returns a copy of s rotated so that s[k] comes first.
// k may be negative or larger than len(s).
func rotateLeft[T any](s []T, k int) []T {
	out := make([]T, 0, len(s))
	if len(s) == 0 {
		return out
	}
	k = mod(k, len(s))
	out = append(out, s[k:]...)
	return append(out, s[:k]...)
}

// rotateRight undoes rotateLeft for the same k
func rotateRight[T any](s []T, k int) []T {
	return rotateLeft(s, -k)
}

func sameOrder(a, b [DaysInWeek]Alarm) bool {
	for i := range a {
		if a[i].Day != b[i].Day {
			return false
		}
	}
	return true
}

func startOfDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
