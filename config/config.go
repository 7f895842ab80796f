package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"wakeup/internal/core"
)

var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `json:"server" yaml:"server"`
	Database DatabaseConfig `json:"database" yaml:"database"`
	Security SecurityConfig `json:"security" yaml:"security"`
	Clock    ClockConfig    `json:"clock" yaml:"clock"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
	Template TemplateConfig `json:"template" yaml:"template"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `json:"path" yaml:"path"`
}

// SecurityConfig contains security settings.
// An empty APIKey disables authentication.
type SecurityConfig struct {
	APIKey string `json:"api_key" yaml:"api_key"`
}

// ClockConfig selects the time source driving the schedule
type ClockConfig struct {
	Mode             string `json:"mode" yaml:"mode"` // "realtime", "accelerated" or "frozen"
	RefreshSeconds   int    `json:"refresh_seconds" yaml:"refresh_seconds"`
	IncrementSeconds int    `json:"increment_seconds" yaml:"increment_seconds"`
	InitialTime      string `json:"initial_time" yaml:"initial_time"` // RFC 3339
}

// LoggingConfig contains log output settings
type LoggingConfig struct {
	Format string `json:"format" yaml:"format"`
	Level  string `json:"level" yaml:"level"`
}

// TemplateConfig describes the alarm used to prefill newly configured days.
// Nil snooze or reminder means off.
type TemplateConfig struct {
	Hour               int  `json:"hour" yaml:"hour"`
	Minute             int  `json:"minute" yaml:"minute"`
	SnoozeMinutes      *int `json:"snooze_minutes" yaml:"snooze_minutes"`
	SleepReminderHours *int `json:"sleep_reminder_hours" yaml:"sleep_reminder_hours"`
	CommuteMinutes     int  `json:"commute_minutes" yaml:"commute_minutes"`
	Muted              bool `json:"muted" yaml:"muted"`
}

// Default returns the configuration used for anything a file or the
// environment leaves unset
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Path: "./wakeup.db",
		},
		Clock: ClockConfig{
			Mode:             "realtime",
			RefreshSeconds:   1,
			IncrementSeconds: 60,
		},
		Logging: LoggingConfig{
			Format: "json",
			Level:  "info",
		},
		Template: TemplateConfig{
			Hour:   core.DefaultAlarmHour,
			Minute: core.DefaultAlarmMinute,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: invalid server port", ErrInvalidConfig)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("%w: database path is required", ErrInvalidConfig)
	}

	if err := c.Clock.validate(); err != nil {
		return err
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Logging.Format)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Logging.Level)
	}

	if _, err := c.Template.Alarm(); err != nil {
		return fmt.Errorf("%w: template: %w", ErrInvalidConfig, err)
	}

	return nil
}

func (c ClockConfig) validate() error {
	switch c.Mode {
	case "realtime", "accelerated", "frozen":
	default:
		return fmt.Errorf("%w: unknown clock mode %q", ErrInvalidConfig, c.Mode)
	}

	if c.Mode != "frozen" && c.RefreshSeconds <= 0 {
		return fmt.Errorf("%w: clock refresh must be positive", ErrInvalidConfig)
	}

	if c.Mode == "accelerated" && c.IncrementSeconds <= 0 {
		return fmt.Errorf("%w: clock increment must be positive", ErrInvalidConfig)
	}

	if _, err := c.Initial(); err != nil {
		return fmt.Errorf("%w: clock initial time: %w", ErrInvalidConfig, err)
	}

	return nil
}

// Initial returns the configured starting instant, or the zero time when unset
func (c ClockConfig) Initial() (time.Time, error) {
	if c.InitialTime == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, c.InitialTime)
}

// Refresh returns how often the clock is sampled
func (c ClockConfig) Refresh() time.Duration {
	return time.Duration(c.RefreshSeconds) * time.Second
}

// Increment returns how far an accelerated clock moves per refresh
func (c ClockConfig) Increment() time.Duration {
	return time.Duration(c.IncrementSeconds) * time.Second
}

// Alarm builds the schedule template. The departure must stay on the
// template's day.
func (t TemplateConfig) Alarm() (core.Alarm, error) {
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return core.Alarm{}, fmt.Errorf("time %02d:%02d is out of range", t.Hour, t.Minute)
	}
	if t.CommuteMinutes < 0 || t.Hour*60+t.Minute+t.CommuteMinutes >= 24*60 {
		return core.Alarm{}, fmt.Errorf("commute of %d minutes leaves the day", t.CommuteMinutes)
	}

	alarm := core.DefaultTemplate()
	alarm.FinalAlarmTime = core.NewAlarmTime(alarm.Day, t.Hour, t.Minute)
	alarm.DepartureTime = alarm.FinalAlarmTime.AdvancedBy(0, t.CommuteMinutes)
	alarm.IsMuted = t.Muted

	if t.SnoozeMinutes != nil {
		snooze, err := core.NewSnoozeDuration(*t.SnoozeMinutes)
		if err != nil {
			return core.Alarm{}, err
		}
		alarm.SnoozeState = snooze
	}

	if t.SleepReminderHours != nil {
		reminder, err := core.NewSleepReminder(*t.SleepReminderHours)
		if err != nil {
			return core.Alarm{}, err
		}
		alarm.SleepReminderState = reminder
	}

	return alarm, nil
}

// Load loads configuration from a JSON or YAML file, chosen by extension.
// Fields the file omits keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigFileNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadFromEnv loads configuration from environment variables.
// The given .env files are read first; with none, ./.env is read if present.
// Variables already set in the environment win over the files.
func LoadFromEnv(files ...string) (*Config, error) {
	if len(files) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(files...); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	d := Default()
	config := &Config{
		Server: ServerConfig{
			Host: getEnv("WAKEUP_HOST", d.Server.Host),
			Port: getEnvInt("WAKEUP_PORT", d.Server.Port),
		},
		Database: DatabaseConfig{
			Path: getEnv("WAKEUP_DB_PATH", d.Database.Path),
		},
		Security: SecurityConfig{
			APIKey: getEnv("WAKEUP_API_KEY", ""),
		},
		Clock: ClockConfig{
			Mode:             getEnv("WAKEUP_CLOCK_MODE", d.Clock.Mode),
			RefreshSeconds:   getEnvInt("WAKEUP_CLOCK_REFRESH_SECONDS", d.Clock.RefreshSeconds),
			IncrementSeconds: getEnvInt("WAKEUP_CLOCK_INCREMENT_SECONDS", d.Clock.IncrementSeconds),
			InitialTime:      getEnv("WAKEUP_CLOCK_INITIAL_TIME", ""),
		},
		Logging: LoggingConfig{
			Format: getEnv("WAKEUP_LOG_FORMAT", d.Logging.Format),
			Level:  getEnv("WAKEUP_LOG_LEVEL", d.Logging.Level),
		},
		Template: TemplateConfig{
			Hour:               getEnvInt("WAKEUP_TEMPLATE_HOUR", d.Template.Hour),
			Minute:             getEnvInt("WAKEUP_TEMPLATE_MINUTE", d.Template.Minute),
			SnoozeMinutes:      getEnvOptionalInt("WAKEUP_TEMPLATE_SNOOZE_MINUTES"),
			SleepReminderHours: getEnvOptionalInt("WAKEUP_TEMPLATE_SLEEP_REMINDER_HOURS"),
			CommuteMinutes:     getEnvInt("WAKEUP_TEMPLATE_COMMUTE_MINUTES", 0),
			Muted:              getEnvBool("WAKEUP_TEMPLATE_MUTED", false),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var intVal int
		fmt.Sscanf(value, "%d", &intVal)
		return intVal
	}
	return defaultValue
}

// getEnvOptionalInt treats an unset variable or "off" as nil
func getEnvOptionalInt(key string) *int {
	value := os.Getenv(key)
	if value == "" || strings.EqualFold(value, "off") {
		return nil
	}
	intVal := getEnvInt(key, 0)
	return &intVal
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1"
	}
	return defaultValue
}
