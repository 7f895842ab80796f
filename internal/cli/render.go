package cli

import (
	"fmt"
	"io"

	"wakeup/internal/api/handlers"
)

const rowFormat = "%-2s %-10s %-14s %-9s %-9s %-8s %s\n"

// scheduleText renders the week as a table, active day first
type scheduleText struct {
	handlers.ScheduleView
}

func (s scheduleText) RenderText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, rowFormat, "", "DAY", "STATE", "ALARM", "DEPARTS", "SNOOZE", "REMINDER"); err != nil {
		return err
	}

	for _, entry := range s.Entries {
		marker := ""
		if entry.Position == 0 {
			marker = ">"
		}

		a := entry.Alarm
		departs, snooze, reminder := "-", "-", "-"
		if a.IsConfigured {
			departs = a.DepartureTime.TimeDescription()
			snooze = a.SnoozeDescription
			reminder = a.SleepReminderDescription
		}

		if _, err := fmt.Fprintf(w, rowFormat, marker, a.Day, entry.State, a.Description, departs, snooze, reminder); err != nil {
			return err
		}
	}

	next := "none"
	if s.NextAlarm != nil {
		next = fmt.Sprintf("%s %s", s.NextAlarm.Day, s.NextAlarm.Description)
	}
	_, err := fmt.Fprintf(w, "\nNext alarm: %s\n", next)
	return err
}

// alarmText renders one day on a single line
type alarmText struct {
	handlers.AlarmView
}

func (a alarmText) RenderText(w io.Writer) error {
	if !a.IsConfigured {
		_, err := fmt.Fprintf(w, "%s: %s\n", a.Day, a.Description)
		return err
	}

	_, err := fmt.Fprintf(w, "%s: %s, departs %s, snooze %s, reminder %s\n",
		a.Day, a.Description, a.DepartureTime.TimeDescription(), a.SnoozeDescription, a.SleepReminderDescription)
	return err
}
