package handlers

import (
	"wakeup/internal/core"
)

// AlarmView is an alarm with the labels and predicates a client displays
type AlarmView struct {
	core.Alarm
	Description              string         `json:"description"`
	SnoozeDescription        string         `json:"snooze_description"`
	SleepReminderDescription string         `json:"sleep_reminder_description"`
	RingStart                core.AlarmTime `json:"ring_start"`
	RingEnd                  core.AlarmTime `json:"ring_end"`
	NeedsToConfirmAwake      bool           `json:"needs_to_confirm_awake"`
	CanPresentSettings       bool           `json:"can_present_settings"`
	CanPresentRowActions     bool           `json:"can_present_row_actions"`
}

// EntryView is one row of the day list
type EntryView struct {
	Position int               `json:"position"`
	State    core.DisplayState `json:"state"`
	Alarm    AlarmView         `json:"alarm"`
}

// ScheduleView is the whole week in schedule order
type ScheduleView struct {
	ActiveDay     core.Weekday `json:"active_day"`
	Entries       []EntryView  `json:"entries"`
	NextAlarm     *AlarmView   `json:"next_alarm"`
	UpcomingAlarm *AlarmView   `json:"upcoming_alarm"`
}

// NewAlarmView decorates an alarm for display
func NewAlarmView(a core.Alarm) AlarmView {
	interval := a.RingInterval()
	return AlarmView{
		Alarm:                    a,
		Description:              a.TimeDescription(),
		SnoozeDescription:        a.SnoozeState.String(),
		SleepReminderDescription: a.SleepReminderState.String(),
		RingStart:                interval.Start,
		RingEnd:                  interval.End,
		NeedsToConfirmAwake:      a.NeedsToConfirmAwake(),
		CanPresentSettings:       a.CanPresentSettings(),
		CanPresentRowActions:     a.CanPresentRowActions(),
	}
}

// NewScheduleView renders a schedule snapshot
func NewScheduleView(s *core.WeeklySchedule) ScheduleView {
	entries := s.Snapshot()
	view := ScheduleView{
		ActiveDay: entries[0].Alarm.Day,
		Entries:   make([]EntryView, len(entries)),
	}

	for i, entry := range entries {
		view.Entries[i] = EntryView{
			Position: i,
			State:    entry.State,
			Alarm:    NewAlarmView(entry.Alarm),
		}
	}

	if next, ok := s.NextAlarm(); ok {
		v := NewAlarmView(next)
		view.NextAlarm = &v
	}
	if upcoming, ok := s.UpcomingAlarm(); ok {
		v := NewAlarmView(upcoming)
		view.UpcomingAlarm = &v
	}

	return view
}
