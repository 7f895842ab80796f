package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"wakeup/internal/core"
)

// SQLiteStorage implements storage.Storage using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// New creates a new SQLite storage instance
func New(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	storage := &SQLiteStorage{db: db}

	if err := storage.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return storage, nil
}

// migrate creates the database schema
func (s *SQLiteStorage) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schedule_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			template TEXT NOT NULL,
			most_recent_reorder_date DATETIME,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS alarm_days (
			position INTEGER PRIMARY KEY CHECK (position BETWEEN 0 AND 6),
			schedule_id INTEGER NOT NULL DEFAULT 1,
			day INTEGER NOT NULL,
			is_configured INTEGER NOT NULL,
			is_muted INTEGER NOT NULL,
			is_awake_confirmed INTEGER NOT NULL,
			final_day INTEGER NOT NULL,
			final_hour INTEGER NOT NULL,
			final_minute INTEGER NOT NULL,
			departure_day INTEGER NOT NULL,
			departure_hour INTEGER NOT NULL,
			departure_minute INTEGER NOT NULL,
			snooze_minutes INTEGER,
			sleep_reminder_hours INTEGER,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (schedule_id) REFERENCES schedule_state(id) ON DELETE CASCADE
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// LoadSchedule reads the stored schedule in its stored slot order.
// Rows that do not describe a valid week are reported as core.ErrMalformedSchedule.
func (s *SQLiteStorage) LoadSchedule(ctx context.Context) (*core.WeeklySchedule, error) {
	var templateJSON string
	var reorderDate sql.NullTime

	err := s.db.QueryRowContext(ctx, `
		SELECT template, most_recent_reorder_date FROM schedule_state WHERE id = 1
	`).Scan(&templateJSON, &reorderDate)

	if err == sql.ErrNoRows {
		return nil, core.ErrScheduleNotFound
	}
	if err != nil {
		return nil, err
	}

	var p core.PersistedSchedule

	var template core.PersistedAlarm
	if err := json.Unmarshal([]byte(templateJSON), &template); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal template: %w", core.ErrMalformedSchedule, err)
	}
	p.Template = &template

	if reorderDate.Valid {
		p.MostRecentReorderDate = &reorderDate.Time
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT day, is_configured, is_muted, is_awake_confirmed,
			final_day, final_hour, final_minute,
			departure_day, departure_hour, departure_minute,
			snooze_minutes, sleep_reminder_hours
		FROM alarm_days WHERE schedule_id = 1 ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		p.Days = append(p.Days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return core.RestoreSchedule(p)
}

// SaveSchedule replaces the stored schedule in one transaction
func (s *SQLiteStorage) SaveSchedule(ctx context.Context, schedule *core.WeeklySchedule) error {
	p := schedule.Persisted()

	templateJSON, err := json.Marshal(p.Template)
	if err != nil {
		return fmt.Errorf("failed to marshal template: %w", err)
	}

	var reorderDate sql.NullTime
	if p.MostRecentReorderDate != nil {
		reorderDate = sql.NullTime{Time: *p.MostRecentReorderDate, Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO schedule_state (id, template, most_recent_reorder_date, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			template = excluded.template,
			most_recent_reorder_date = excluded.most_recent_reorder_date,
			updated_at = excluded.updated_at
	`, string(templateJSON), reorderDate, now)
	if err != nil {
		return fmt.Errorf("failed to save schedule state: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM alarm_days WHERE schedule_id = 1"); err != nil {
		return fmt.Errorf("failed to clear alarm days: %w", err)
	}

	for position, day := range p.Days {
		a := day.Alarm
		_, err = tx.ExecContext(ctx, `
			INSERT INTO alarm_days (position, schedule_id, day, is_configured, is_muted, is_awake_confirmed,
				final_day, final_hour, final_minute,
				departure_day, departure_hour, departure_minute,
				snooze_minutes, sleep_reminder_hours, updated_at)
			VALUES (?, 1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, position, int(day.Day), a.IsConfigured, a.IsMuted, a.IsAwakeConfirmed,
			int(a.FinalAlarmTime.Day()), a.FinalAlarmTime.Hour(), a.FinalAlarmTime.Minute(),
			int(a.DepartureTime.Day()), a.DepartureTime.Hour(), a.DepartureTime.Minute(),
			snoozeColumn(a.SnoozeState), reminderColumn(a.SleepReminderState), now)
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", day.Day, err)
		}
	}

	return tx.Commit()
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDay(row rowScanner) (core.PersistedDay, error) {
	var day int
	var a core.PersistedAlarm
	var finalDay, finalHour, finalMinute int
	var departDay, departHour, departMinute int
	var snoozeMinutes, sleepReminderHours sql.NullInt64

	err := row.Scan(&day, &a.IsConfigured, &a.IsMuted, &a.IsAwakeConfirmed,
		&finalDay, &finalHour, &finalMinute,
		&departDay, &departHour, &departMinute,
		&snoozeMinutes, &sleepReminderHours)
	if err != nil {
		return core.PersistedDay{}, err
	}

	if a.FinalAlarmTime, err = alarmTimeColumns(finalDay, finalHour, finalMinute); err != nil {
		return core.PersistedDay{}, err
	}
	if a.DepartureTime, err = alarmTimeColumns(departDay, departHour, departMinute); err != nil {
		return core.PersistedDay{}, err
	}

	a.SnoozeState = core.SnoozeOff()
	if snoozeMinutes.Valid {
		if a.SnoozeState, err = core.NewSnoozeDuration(int(snoozeMinutes.Int64)); err != nil {
			return core.PersistedDay{}, fmt.Errorf("%w: %w", core.ErrMalformedSchedule, err)
		}
	}

	a.SleepReminderState = core.SleepReminderOff()
	if sleepReminderHours.Valid {
		if a.SleepReminderState, err = core.NewSleepReminder(int(sleepReminderHours.Int64)); err != nil {
			return core.PersistedDay{}, fmt.Errorf("%w: %w", core.ErrMalformedSchedule, err)
		}
	}

	return core.PersistedDay{Day: core.Weekday(day), Alarm: &a}, nil
}

var errTimeOutOfRange = errors.New("stored time is out of range")

func alarmTimeColumns(day, hour, minute int) (core.AlarmTime, error) {
	d := core.Weekday(day)
	if !d.Valid() {
		return core.AlarmTime{}, fmt.Errorf("%w: %w: %d", core.ErrMalformedSchedule, core.ErrUnknownWeekday, day)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return core.AlarmTime{}, fmt.Errorf("%w: %w: %02d:%02d", core.ErrMalformedSchedule, errTimeOutOfRange, hour, minute)
	}
	return core.NewAlarmTime(d, hour, minute), nil
}

func snoozeColumn(s core.SnoozeState) sql.NullInt64 {
	minutes, on := s.Minutes()
	return sql.NullInt64{Int64: int64(minutes), Valid: on}
}

func reminderColumn(s core.SleepReminderState) sql.NullInt64 {
	hours, on := s.Hours()
	return sql.NullInt64{Int64: int64(hours), Valid: on}
}
