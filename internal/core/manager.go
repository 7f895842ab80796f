package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"wakeup/internal/idgen"
)

// ScheduleStorage persists the weekly schedule
type ScheduleStorage interface {
	LoadSchedule(ctx context.Context) (*WeeklySchedule, error)
	SaveSchedule(ctx context.Context, schedule *WeeklySchedule) error
}

// ScheduleManagerInterface defines the schedule operations used by the API and CLI
type ScheduleManagerInterface interface {
	Schedule() *WeeklySchedule
	Snapshot() []ScheduleEntry
	NextAlarm() (Alarm, bool)
	Template() Alarm
	ConfirmAwake(ctx context.Context, day Weekday) error
	ToggleMuted(ctx context.Context, day Weekday) error
	Configure(ctx context.Context, day Weekday) error
	Remove(ctx context.Context, day Weekday) error
	SetFinalAlarmTime(ctx context.Context, day Weekday, t AlarmTime) error
	SetDepartureTime(ctx context.Context, day Weekday, t AlarmTime) error
	SetSnoozeState(ctx context.Context, day Weekday, state SnoozeState) error
	SetSleepReminder(ctx context.Context, day Weekday, state SleepReminderState) error
	SetTemplate(ctx context.Context, template Alarm) error
	Reorder(ctx context.Context, now time.Time) (ReorderResult, error)
}

var _ ScheduleManagerInterface = (*ScheduleManager)(nil)

// ChangeFunc receives the schedule snapshot after a committed change
type ChangeFunc func(entries []ScheduleEntry)

// ScheduleManager owns the weekly schedule and serializes access to it.
// Every edit and every reorder runs under one lock, is saved, and only then
// becomes visible. Edits never reorder; the clock drives reordering.
type ScheduleManager struct {
	storage ScheduleStorage
	logger  *slog.Logger

	mu       sync.Mutex
	schedule *WeeklySchedule

	// notifyMu keeps observer deliveries in commit order
	notifyMu  sync.Mutex
	observers []observerEntry
}

type observerEntry struct {
	id string
	fn ChangeFunc
}

// Observer is a registration made with OnScheduleChanged
type Observer struct {
	ID      string
	manager *ScheduleManager
}

// Close stops deliveries to the observer
func (o *Observer) Close() {
	o.manager.removeObserver(o.ID)
}

// NewScheduleManager creates a manager holding a fresh default schedule.
// Call Load to replace it with the stored one. A nil storage keeps the
// schedule in memory only.
func NewScheduleManager(storage ScheduleStorage, logger *slog.Logger) *ScheduleManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleManager{
		storage:  storage,
		logger:   logger.With("component", "manager"),
		schedule: NewWeeklySchedule(),
	}
}

// Load reads the stored schedule. A missing or malformed store is replaced
// by a default schedule, which is saved; reset reports when that happened.
func (m *ScheduleManager) Load(ctx context.Context) (reset bool, err error) {
	if m.storage == nil {
		return false, nil
	}

	stored, err := m.storage.LoadSchedule(ctx)
	switch {
	case err == nil:
		m.mu.Lock()
		m.schedule = stored
		m.mu.Unlock()
		return false, nil
	case errors.Is(err, ErrScheduleNotFound):
		m.logger.Info("No stored schedule, starting with defaults")
	case errors.Is(err, ErrMalformedSchedule):
		m.logger.Warn("Stored schedule is malformed, schedule reset to defaults", "error", err)
	default:
		return false, fmt.Errorf("failed to load schedule: %w", err)
	}

	err = m.commit(ctx, func(s *WeeklySchedule) error {
		*s = *NewWeeklySchedule()
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Schedule returns a copy of the current schedule
func (m *ScheduleManager) Schedule() *WeeklySchedule {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.schedule.Clone()
}

// Snapshot returns the 7 slots in schedule order with their display states
func (m *ScheduleManager) Snapshot() []ScheduleEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.schedule.Snapshot()
}

// NextAlarm returns the alarm to badge as next; see WeeklySchedule.NextAlarm
func (m *ScheduleManager) NextAlarm() (Alarm, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.schedule.NextAlarm()
}

// Template returns the alarm used to prefill newly configured days
func (m *ScheduleManager) Template() Alarm {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.schedule.Template
}

// ConfirmAwake acknowledges day's alarm
func (m *ScheduleManager) ConfirmAwake(ctx context.Context, day Weekday) error {
	return m.commit(ctx, func(s *WeeklySchedule) error {
		s.ConfirmAwake(day)
		return nil
	})
}

// ToggleMuted mutes or unmutes day's alarm
func (m *ScheduleManager) ToggleMuted(ctx context.Context, day Weekday) error {
	return m.commitConfigured(ctx, day, func(s *WeeklySchedule) error {
		s.ToggleMuted(day)
		return nil
	})
}

// Configure enables day's alarm from the template
func (m *ScheduleManager) Configure(ctx context.Context, day Weekday) error {
	return m.commit(ctx, func(s *WeeklySchedule) error {
		s.Configure(day)
		return nil
	})
}

// Remove disables day's alarm
func (m *ScheduleManager) Remove(ctx context.Context, day Weekday) error {
	return m.commit(ctx, func(s *WeeklySchedule) error {
		s.Remove(day)
		return nil
	})
}

// SetFinalAlarmTime moves day's final alarm
func (m *ScheduleManager) SetFinalAlarmTime(ctx context.Context, day Weekday, t AlarmTime) error {
	return m.commitConfigured(ctx, day, func(s *WeeklySchedule) error {
		s.SetFinalAlarmTime(day, t)
		return nil
	})
}

// SetDepartureTime sets day's departure time
func (m *ScheduleManager) SetDepartureTime(ctx context.Context, day Weekday, t AlarmTime) error {
	return m.commitConfigured(ctx, day, func(s *WeeklySchedule) error {
		return s.SetDepartureTime(day, t)
	})
}

// SetSnoozeState sets day's snooze window
func (m *ScheduleManager) SetSnoozeState(ctx context.Context, day Weekday, state SnoozeState) error {
	return m.commitConfigured(ctx, day, func(s *WeeklySchedule) error {
		s.SetSnoozeState(day, state)
		return nil
	})
}

// SetSleepReminder sets day's sleep reminder
func (m *ScheduleManager) SetSleepReminder(ctx context.Context, day Weekday, state SleepReminderState) error {
	return m.commitConfigured(ctx, day, func(s *WeeklySchedule) error {
		s.SetSleepReminder(day, state)
		return nil
	})
}

// SetTemplate replaces the prefill alarm
func (m *ScheduleManager) SetTemplate(ctx context.Context, template Alarm) error {
	return m.commit(ctx, func(s *WeeklySchedule) error {
		s.SetTemplate(template)
		return nil
	})
}

// Reorder re-anchors the schedule to now. Passes that change nothing are
// neither saved nor announced.
func (m *ScheduleManager) Reorder(ctx context.Context, now time.Time) (ReorderResult, error) {
	var result ReorderResult
	err := m.commitIf(ctx, func(s *WeeklySchedule) (bool, error) {
		result = s.Reorder(now)
		return result.Changed(), nil
	})
	return result, err
}

// OnScheduleChanged registers fn to run after every committed edit or
// reorder. fn runs on the committing goroutine and must not edit the
// schedule itself.
func (m *ScheduleManager) OnScheduleChanged(fn ChangeFunc) *Observer {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	id := idgen.NewObserver()
	m.observers = append(m.observers, observerEntry{id: id, fn: fn})
	return &Observer{ID: id, manager: m}
}

func (m *ScheduleManager) removeObserver(id string) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	for i, o := range m.observers {
		if o.id == id {
			m.observers = append(m.observers[:i], m.observers[i+1:]...)
			return
		}
	}
}

// commitConfigured rejects edits to days without an alarm before they reach
// the record, which would treat them as a programming error
func (m *ScheduleManager) commitConfigured(ctx context.Context, day Weekday, fn func(s *WeeklySchedule) error) error {
	return m.commitIf(ctx, func(s *WeeklySchedule) (bool, error) {
		if !s.Alarm(day).IsConfigured {
			return false, fmt.Errorf("%w: %s", ErrAlarmNotConfigured, day)
		}
		return true, fn(s)
	})
}

func (m *ScheduleManager) commit(ctx context.Context, fn func(s *WeeklySchedule) error) error {
	return m.commitIf(ctx, func(s *WeeklySchedule) (bool, error) {
		return true, fn(s)
	})
}

// commitIf applies fn to a working copy. The copy replaces the live schedule
// only when fn succeeds and the save succeeds; when fn reports no change the
// copy is kept without saving or notifying.
func (m *ScheduleManager) commitIf(ctx context.Context, fn func(s *WeeklySchedule) (bool, error)) error {
	m.mu.Lock()

	work := m.schedule.Clone()
	changed, err := fn(work)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	if !changed {
		m.schedule = work
		m.mu.Unlock()
		return nil
	}

	if m.storage != nil {
		if err := m.storage.SaveSchedule(ctx, work); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("failed to save schedule: %w", err)
		}
	}
	m.schedule = work
	entries := work.Snapshot()

	m.notifyMu.Lock()
	m.mu.Unlock()
	defer m.notifyMu.Unlock()
	for _, o := range m.observers {
		o.fn(entries)
	}
	return nil
}
