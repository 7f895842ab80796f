package logging

import (
	"context"
	"log/slog"
	"time"

	"wakeup/internal/core"
)

// ScheduleManagerLogger wraps a ScheduleManager and logs all method calls
type ScheduleManagerLogger struct {
	manager core.ScheduleManagerInterface
	logger  *slog.Logger
}

// NewScheduleManagerLogger creates a new logging decorator for ScheduleManager
func NewScheduleManagerLogger(manager core.ScheduleManagerInterface, logger *slog.Logger) core.ScheduleManagerInterface {
	return &ScheduleManagerLogger{
		manager: manager,
		logger:  logger.With("interface", "ScheduleManager"),
	}
}

// call logs an edit as called, then completed or failed with its duration
func (l *ScheduleManagerLogger) call(op string, fn func() error, attrs ...any) error {
	start := time.Now()
	l.logger.Info(op+" called", attrs...)

	err := fn()
	attrs = append(attrs, "duration", time.Since(start))

	if err != nil {
		l.logger.Error(op+" failed", append(attrs, "error", err)...)
		return err
	}

	l.logger.Info(op+" completed", attrs...)
	return nil
}

func (l *ScheduleManagerLogger) Schedule() *core.WeeklySchedule {
	return l.manager.Schedule()
}

func (l *ScheduleManagerLogger) Snapshot() []core.ScheduleEntry {
	l.logger.Debug("Snapshot called")
	entries := l.manager.Snapshot()
	l.logger.Debug("Snapshot completed", "entries", len(entries))
	return entries
}

func (l *ScheduleManagerLogger) NextAlarm() (core.Alarm, bool) {
	alarm, ok := l.manager.NextAlarm()
	l.logger.Debug("NextAlarm completed",
		"day", alarm.Day.String(),
		"configured", ok)
	return alarm, ok
}

func (l *ScheduleManagerLogger) Template() core.Alarm {
	return l.manager.Template()
}

func (l *ScheduleManagerLogger) ConfirmAwake(ctx context.Context, day core.Weekday) error {
	return l.call("ConfirmAwake", func() error {
		return l.manager.ConfirmAwake(ctx, day)
	}, "day", day.String())
}

func (l *ScheduleManagerLogger) ToggleMuted(ctx context.Context, day core.Weekday) error {
	return l.call("ToggleMuted", func() error {
		return l.manager.ToggleMuted(ctx, day)
	}, "day", day.String())
}

func (l *ScheduleManagerLogger) Configure(ctx context.Context, day core.Weekday) error {
	return l.call("Configure", func() error {
		return l.manager.Configure(ctx, day)
	}, "day", day.String())
}

func (l *ScheduleManagerLogger) Remove(ctx context.Context, day core.Weekday) error {
	return l.call("Remove", func() error {
		return l.manager.Remove(ctx, day)
	}, "day", day.String())
}

func (l *ScheduleManagerLogger) SetFinalAlarmTime(ctx context.Context, day core.Weekday, t core.AlarmTime) error {
	return l.call("SetFinalAlarmTime", func() error {
		return l.manager.SetFinalAlarmTime(ctx, day, t)
	}, "day", day.String(), "final_alarm_time", t.String())
}

func (l *ScheduleManagerLogger) SetDepartureTime(ctx context.Context, day core.Weekday, t core.AlarmTime) error {
	return l.call("SetDepartureTime", func() error {
		return l.manager.SetDepartureTime(ctx, day, t)
	}, "day", day.String(), "departure_time", t.String())
}

func (l *ScheduleManagerLogger) SetSnoozeState(ctx context.Context, day core.Weekday, state core.SnoozeState) error {
	return l.call("SetSnoozeState", func() error {
		return l.manager.SetSnoozeState(ctx, day, state)
	}, "day", day.String(), "snooze", state.String())
}

func (l *ScheduleManagerLogger) SetSleepReminder(ctx context.Context, day core.Weekday, state core.SleepReminderState) error {
	return l.call("SetSleepReminder", func() error {
		return l.manager.SetSleepReminder(ctx, day, state)
	}, "day", day.String(), "sleep_reminder", state.String())
}

func (l *ScheduleManagerLogger) SetTemplate(ctx context.Context, template core.Alarm) error {
	return l.call("SetTemplate", func() error {
		return l.manager.SetTemplate(ctx, template)
	}, "final_alarm_time", template.FinalAlarmTime.TimeDescription())
}

func (l *ScheduleManagerLogger) Reorder(ctx context.Context, now time.Time) (core.ReorderResult, error) {
	start := time.Now()

	result, err := l.manager.Reorder(ctx, now)
	duration := time.Since(start)

	if err != nil {
		l.logger.Error("Reorder failed",
			"now", now,
			"duration", duration,
			"error", err)
		return result, err
	}

	l.logger.Debug("Reorder completed",
		"now", now,
		"active", result.Active.String(),
		"rotated", result.Rotated,
		"reset", result.Reset,
		"duration", duration)

	return result, nil
}
