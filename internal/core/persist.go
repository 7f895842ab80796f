package core

import (
	"encoding/json"
	"fmt"
	"time"
)

// PersistedSchedule is the stored shape of a WeeklySchedule: the 7 slots in
// schedule order, the prefill template and the last reset date.
type PersistedSchedule struct {
	Days                  []PersistedDay  `json:"days"`
	Template              *PersistedAlarm `json:"template,omitempty"`
	MostRecentReorderDate *time.Time      `json:"most_recent_reorder_date,omitempty"`
}

// PersistedDay is one slot. A nil Alarm stands for a day that was never configured.
type PersistedDay struct {
	Day   Weekday         `json:"day"`
	Alarm *PersistedAlarm `json:"alarm"`
}

// PersistedAlarm carries the record fields; the day comes from PersistedDay
type PersistedAlarm struct {
	IsConfigured       bool               `json:"is_configured"`
	IsMuted            bool               `json:"is_muted"`
	IsAwakeConfirmed   bool               `json:"is_awake_confirmed"`
	FinalAlarmTime     AlarmTime          `json:"final_alarm_time"`
	DepartureTime      AlarmTime          `json:"departure_time"`
	SnoozeState        SnoozeState        `json:"snooze_state"`
	SleepReminderState SleepReminderState `json:"sleep_reminder_state"`
}

// PersistAlarm converts a record to its stored form
func PersistAlarm(a Alarm) *PersistedAlarm {
	return &PersistedAlarm{
		IsConfigured:       a.IsConfigured,
		IsMuted:            a.IsMuted,
		IsAwakeConfirmed:   a.IsAwakeConfirmed,
		FinalAlarmTime:     a.FinalAlarmTime,
		DepartureTime:      a.DepartureTime,
		SnoozeState:        a.SnoozeState,
		SleepReminderState: a.SleepReminderState,
	}
}

// Restore rebuilds the record for day, checking the departure invariant
func (p *PersistedAlarm) Restore(day Weekday) (Alarm, error) {
	if p.DepartureTime.Before(p.FinalAlarmTime) {
		return Alarm{}, fmt.Errorf("%w: %s", ErrDepartureBeforeFinal, day)
	}
	return Alarm{
		Day:                day,
		IsConfigured:       p.IsConfigured,
		IsMuted:            p.IsMuted,
		IsAwakeConfirmed:   p.IsAwakeConfirmed,
		FinalAlarmTime:     p.FinalAlarmTime,
		DepartureTime:      p.DepartureTime,
		SnoozeState:        p.SnoozeState,
		SleepReminderState: p.SleepReminderState,
	}, nil
}

// Persisted returns the stored form of s. Removed days keep their settings.
func (s *WeeklySchedule) Persisted() PersistedSchedule {
	p := PersistedSchedule{
		Days:     make([]PersistedDay, 0, DaysInWeek),
		Template: PersistAlarm(s.Template),
	}
	for _, record := range s.records {
		p.Days = append(p.Days, PersistedDay{Day: record.Day, Alarm: PersistAlarm(record)})
	}
	if !s.MostRecentReorderDate.IsZero() {
		date := s.MostRecentReorderDate
		p.MostRecentReorderDate = &date
	}
	return p
}

// RestoreSchedule validates a stored schedule and rebuilds it in its stored
// order. Every failure wraps ErrMalformedSchedule.
func RestoreSchedule(p PersistedSchedule) (*WeeklySchedule, error) {
	if len(p.Days) != DaysInWeek {
		return nil, fmt.Errorf("%w: %w: got %d", ErrMalformedSchedule, ErrInvalidDayCount, len(p.Days))
	}

	s := &WeeklySchedule{Template: DefaultTemplate()}
	seen := make(map[Weekday]bool, DaysInWeek)
	for i, day := range p.Days {
		if !day.Day.Valid() {
			return nil, fmt.Errorf("%w: %w: %d", ErrMalformedSchedule, ErrUnknownWeekday, int(day.Day))
		}
		if seen[day.Day] {
			return nil, fmt.Errorf("%w: %w: %s", ErrMalformedSchedule, ErrDuplicateWeekday, day.Day)
		}
		seen[day.Day] = true

		if day.Alarm == nil {
			s.records[i] = NewAlarm(day.Day)
			continue
		}
		record, err := day.Alarm.Restore(day.Day)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedSchedule, err)
		}
		s.records[i] = record
	}

	if p.Template != nil {
		template, err := p.Template.Restore(p.Template.FinalAlarmTime.Day())
		if err != nil {
			return nil, fmt.Errorf("%w: template: %w", ErrMalformedSchedule, err)
		}
		s.SetTemplate(template)
	}
	if p.MostRecentReorderDate != nil {
		s.MostRecentReorderDate = *p.MostRecentReorderDate
	}
	return s, nil
}

// EncodeSchedule serializes s as indented JSON
func EncodeSchedule(s *WeeklySchedule) ([]byte, error) {
	return json.MarshalIndent(s.Persisted(), "", "  ")
}

// DecodeSchedule parses JSON produced by EncodeSchedule. Callers should fall
// back to NewWeeklySchedule when it fails.
func DecodeSchedule(data []byte) (*WeeklySchedule, error) {
	var p PersistedSchedule
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSchedule, err)
	}
	return RestoreSchedule(p)
}
