package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wakeup/internal/core"
)

func intPtr(v int) *int { return &v }

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{
			name:    "defaults",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid port",
			modify:  func(c *Config) { c.Server.Port = 0 },
			wantErr: true,
		},
		{
			name:    "missing database path",
			modify:  func(c *Config) { c.Database.Path = "" },
			wantErr: true,
		},
		{
			name:    "unknown clock mode",
			modify:  func(c *Config) { c.Clock.Mode = "warp" },
			wantErr: true,
		},
		{
			name:    "zero refresh",
			modify:  func(c *Config) { c.Clock.RefreshSeconds = 0 },
			wantErr: true,
		},
		{
			name: "frozen clock ignores refresh",
			modify: func(c *Config) {
				c.Clock.Mode = "frozen"
				c.Clock.RefreshSeconds = 0
				c.Clock.InitialTime = "2024-01-01T08:55:00Z"
			},
			wantErr: false,
		},
		{
			name: "accelerated without increment",
			modify: func(c *Config) {
				c.Clock.Mode = "accelerated"
				c.Clock.IncrementSeconds = 0
			},
			wantErr: true,
		},
		{
			name:    "bad initial time",
			modify:  func(c *Config) { c.Clock.InitialTime = "monday morning" },
			wantErr: true,
		},
		{
			name:    "unknown log format",
			modify:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: true,
		},
		{
			name:    "uppercase log level",
			modify:  func(c *Config) { c.Logging.Level = "DEBUG" },
			wantErr: false,
		},
		{
			name:    "template hour out of range",
			modify:  func(c *Config) { c.Template.Hour = 24 },
			wantErr: true,
		},
		{
			name:    "template snooze out of range",
			modify:  func(c *Config) { c.Template.SnoozeMinutes = intPtr(61) },
			wantErr: true,
		},
		{
			name:    "template reminder out of range",
			modify:  func(c *Config) { c.Template.SleepReminderHours = intPtr(0) },
			wantErr: true,
		},
		{
			name: "commute past midnight",
			modify: func(c *Config) {
				c.Template.Hour = 23
				c.Template.CommuteMinutes = 60
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.modify(config)

			err := config.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTemplateConfig_Alarm(t *testing.T) {
	template := TemplateConfig{
		Hour:               6,
		Minute:             45,
		SnoozeMinutes:      intPtr(10),
		SleepReminderHours: intPtr(8),
		CommuteMinutes:     30,
		Muted:              true,
	}

	alarm, err := template.Alarm()
	require.NoError(t, err)

	assert.True(t, alarm.IsConfigured)
	assert.True(t, alarm.IsMuted)
	assert.Equal(t, core.NewAlarmTime(core.Monday, 6, 45), alarm.FinalAlarmTime)
	assert.Equal(t, core.NewAlarmTime(core.Monday, 7, 15), alarm.DepartureTime)

	minutes, on := alarm.SnoozeState.Minutes()
	assert.True(t, on)
	assert.Equal(t, 10, minutes)

	hours, on := alarm.SleepReminderState.Hours()
	assert.True(t, on)
	assert.Equal(t, 8, hours)

	// Zero value keeps snooze and reminder off
	plain, err := TemplateConfig{Hour: 9}.Alarm()
	require.NoError(t, err)
	assert.True(t, plain.SnoozeState.IsOff())
	assert.True(t, plain.SleepReminderState.IsOff())
	assert.Equal(t, plain.FinalAlarmTime, plain.DepartureTime)
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	validJSON := `{
		"server": {
			"host": "127.0.0.1",
			"port": 9090
		},
		"database": {
			"path": "/path/to/db"
		},
		"security": {
			"api_key": "test-key"
		},
		"clock": {
			"mode": "accelerated",
			"increment_seconds": 300
		},
		"template": {
			"hour": 7,
			"minute": 30,
			"snooze_minutes": 5
		}
	}`

	jsonPath := filepath.Join(tmpDir, "config.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(validJSON), 0644))

	config, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", config.Server.Host)
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "/path/to/db", config.Database.Path)
	assert.Equal(t, "test-key", config.Security.APIKey)
	assert.Equal(t, "accelerated", config.Clock.Mode)
	assert.Equal(t, 5*time.Minute, config.Clock.Increment())
	assert.Equal(t, time.Second, config.Clock.Refresh())
	assert.Equal(t, "json", config.Logging.Format)
	require.NotNil(t, config.Template.SnoozeMinutes)
	assert.Equal(t, 5, *config.Template.SnoozeMinutes)

	// Test loading non-existent file
	_, err = Load("/nonexistent/config.json")
	assert.ErrorIs(t, err, ErrConfigFileNotFound)

	// Test loading invalid JSON
	invalidPath := filepath.Join(tmpDir, "invalid.json")
	require.NoError(t, os.WriteFile(invalidPath, []byte("invalid json"), 0644))

	_, err = Load(invalidPath)
	assert.Error(t, err)

	// Parsed but invalid
	badPortPath := filepath.Join(tmpDir, "bad-port.json")
	require.NoError(t, os.WriteFile(badPortPath, []byte(`{"server": {"port": 70000}}`), 0644))

	_, err = Load(badPortPath)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_YAML(t *testing.T) {
	validYAML := `
server:
  port: 8181
database:
  path: /var/lib/wakeup.db
clock:
  mode: frozen
  initial_time: "2024-01-01T08:55:00Z"
logging:
  format: text
  level: debug
template:
  hour: 6
  minute: 0
  sleep_reminder_hours: 8
  commute_minutes: 45
`

	for _, name := range []string{"config.yaml", "config.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, os.WriteFile(path, []byte(validYAML), 0644))

			config, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, "0.0.0.0", config.Server.Host)
			assert.Equal(t, 8181, config.Server.Port)
			assert.Equal(t, "frozen", config.Clock.Mode)
			assert.Equal(t, "text", config.Logging.Format)
			assert.Nil(t, config.Template.SnoozeMinutes)

			initial, err := config.Clock.Initial()
			require.NoError(t, err)
			assert.Equal(t, time.Date(2024, time.January, 1, 8, 55, 0, 0, time.UTC), initial)

			alarm, err := config.Template.Alarm()
			require.NoError(t, err)
			assert.Equal(t, core.NewAlarmTime(core.Monday, 6, 45), alarm.DepartureTime)
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WAKEUP_HOST", "127.0.0.1")
	t.Setenv("WAKEUP_PORT", "9090")
	t.Setenv("WAKEUP_DB_PATH", "/custom/db/path")
	t.Setenv("WAKEUP_API_KEY", "env-api-key")
	t.Setenv("WAKEUP_CLOCK_MODE", "accelerated")
	t.Setenv("WAKEUP_CLOCK_INCREMENT_SECONDS", "600")
	t.Setenv("WAKEUP_TEMPLATE_SNOOZE_MINUTES", "off")
	t.Setenv("WAKEUP_TEMPLATE_SLEEP_REMINDER_HOURS", "7")
	t.Setenv("WAKEUP_TEMPLATE_MUTED", "true")

	config, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", config.Server.Host)
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "/custom/db/path", config.Database.Path)
	assert.Equal(t, "env-api-key", config.Security.APIKey)
	assert.Equal(t, "accelerated", config.Clock.Mode)
	assert.Equal(t, 10*time.Minute, config.Clock.Increment())
	assert.Nil(t, config.Template.SnoozeMinutes)
	require.NotNil(t, config.Template.SleepReminderHours)
	assert.Equal(t, 7, *config.Template.SleepReminderHours)
	assert.True(t, config.Template.Muted)
}

func TestLoadFromEnv_DotEnvFile(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), "wakeup.env")
	content := "WAKEUP_PORT=7070\nWAKEUP_DB_PATH=/from/file.db\nWAKEUP_LOG_LEVEL=warn\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0644))

	// Set variables win over the file
	t.Setenv("WAKEUP_PORT", "6060")
	t.Cleanup(func() {
		os.Unsetenv("WAKEUP_DB_PATH")
		os.Unsetenv("WAKEUP_LOG_LEVEL")
	})

	config, err := LoadFromEnv(envPath)
	require.NoError(t, err)
	assert.Equal(t, 6060, config.Server.Port)
	assert.Equal(t, "/from/file.db", config.Database.Path)
	assert.Equal(t, "warn", config.Logging.Level)

	_, err = LoadFromEnv(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
