package core

import (
	"encoding/json"
	"fmt"
)

const (
	MinSnoozeMinutes = 0
	MaxSnoozeMinutes = 60

	MinSleepReminderHours     = 1
	MaxSleepReminderHours     = 23
	DefaultSleepReminderHours = 8
)

// SnoozeState is either off or a snooze window of 0..60 minutes before the final alarm
type SnoozeState struct {
	on      bool
	minutes int
}

// SnoozeOff returns the disabled snooze state
func SnoozeOff() SnoozeState {
	return SnoozeState{}
}

// NewSnoozeDuration returns a snooze window; minutes outside 0..60 are rejected
func NewSnoozeDuration(minutes int) (SnoozeState, error) {
	if minutes < MinSnoozeMinutes || minutes > MaxSnoozeMinutes {
		return SnoozeState{}, fmt.Errorf("%w: got %d", ErrInvalidSnoozeMinutes, minutes)
	}
	return SnoozeState{on: true, minutes: minutes}, nil
}

// IsOff reports whether snoozing is disabled
func (s SnoozeState) IsOff() bool { return !s.on }

// Minutes returns the snooze window and whether snoozing is enabled
func (s SnoozeState) Minutes() (int, bool) { return s.minutes, s.on }

func (s SnoozeState) String() string {
	switch {
	case !s.on:
		return "Off"
	case s.minutes == 1:
		return "1 min"
	default:
		return fmt.Sprintf("%d mins", s.minutes)
	}
}

// AllSnoozeStates lists off followed by every window from 1 to 60 minutes
func AllSnoozeStates() []SnoozeState {
	states := make([]SnoozeState, 0, MaxSnoozeMinutes+1)
	states = append(states, SnoozeOff())
	for m := 1; m <= MaxSnoozeMinutes; m++ {
		states = append(states, SnoozeState{on: true, minutes: m})
	}
	return states
}

// SleepReminderState is either off or a reminder 1..23 hours before the final alarm
type SleepReminderState struct {
	on    bool
	hours int
}

// SleepReminderOff returns the disabled reminder state
func SleepReminderOff() SleepReminderState {
	return SleepReminderState{}
}

// NewSleepReminder returns a reminder; hours outside 1..23 are rejected
func NewSleepReminder(hours int) (SleepReminderState, error) {
	if hours < MinSleepReminderHours || hours > MaxSleepReminderHours {
		return SleepReminderState{}, fmt.Errorf("%w: got %d", ErrInvalidSleepReminderHours, hours)
	}
	return SleepReminderState{on: true, hours: hours}, nil
}

// DefaultSleepReminder is the reminder applied when the reminder is switched on
func DefaultSleepReminder() SleepReminderState {
	return SleepReminderState{on: true, hours: DefaultSleepReminderHours}
}

// IsOff reports whether the reminder is disabled
func (s SleepReminderState) IsOff() bool { return !s.on }

// Hours returns the reminder lead time and whether the reminder is enabled
func (s SleepReminderState) Hours() (int, bool) { return s.hours, s.on }

func (s SleepReminderState) String() string {
	switch {
	case !s.on:
		return "Off"
	case s.hours == 1:
		return "1 hr"
	default:
		return fmt.Sprintf("%d hrs", s.hours)
	}
}

// AllSleepReminderStates lists off followed by every lead time from 1 to 23 hours
func AllSleepReminderStates() []SleepReminderState {
	states := make([]SleepReminderState, 0, MaxSleepReminderHours+1)
	states = append(states, SleepReminderOff())
	for h := MinSleepReminderHours; h <= MaxSleepReminderHours; h++ {
		states = append(states, SleepReminderState{on: true, hours: h})
	}
	return states
}

// The wire form keeps the original app's shape: {"off":""} or {"duration":N}.
type durationStateJSON struct {
	Off      *string `json:"off,omitempty"`
	Duration *int    `json:"duration,omitempty"`
}

func encodeDurationState(on bool, value int) ([]byte, error) {
	if !on {
		empty := ""
		return json.Marshal(durationStateJSON{Off: &empty})
	}
	return json.Marshal(durationStateJSON{Duration: &value})
}

func decodeDurationState(data []byte) (int, bool, error) {
	var raw durationStateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, false, err
	}
	if raw.Duration == nil {
		return 0, false, nil
	}
	return *raw.Duration, true, nil
}

// MarshalJSON encodes as {"off":""} or {"duration":minutes}
func (s SnoozeState) MarshalJSON() ([]byte, error) {
	return encodeDurationState(s.on, s.minutes)
}

// UnmarshalJSON decodes and validates the minute range
func (s *SnoozeState) UnmarshalJSON(data []byte) error {
	minutes, on, err := decodeDurationState(data)
	if err != nil {
		return err
	}
	if !on {
		*s = SnoozeOff()
		return nil
	}
	state, err := NewSnoozeDuration(minutes)
	if err != nil {
		return err
	}
	*s = state
	return nil
}

// MarshalJSON encodes as {"off":""} or {"duration":hours}
func (s SleepReminderState) MarshalJSON() ([]byte, error) {
	return encodeDurationState(s.on, s.hours)
}

// UnmarshalJSON decodes and validates the hour range
func (s *SleepReminderState) UnmarshalJSON(data []byte) error {
	hours, on, err := decodeDurationState(data)
	if err != nil {
		return err
	}
	if !on {
		*s = SleepReminderOff()
		return nil
	}
	state, err := NewSleepReminder(hours)
	if err != nil {
		return err
	}
	*s = state
	return nil
}
