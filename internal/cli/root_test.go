package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wakeup/config"
	"wakeup/internal/clock"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "wakeup", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{
		"serve", "show", "configure", "remove", "mute", "confirm",
		"set-time", "set-departure", "snooze", "reminder", "export", "import",
	}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "config.json", configFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("env"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("env-file"))

	showCmd, _, err := cmd.Find([]string{"show"})
	require.NoError(t, err)
	require.NotNil(t, showCmd.Flags().Lookup("at"))
}

// writeConfig writes a YAML config whose database lives in a temp dir
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	content := "database:\n  path: " + filepath.Join(dir, "wakeup.db") + "\n" +
		"template:\n  hour: 7\n  minute: 0\n"
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func run(t *testing.T, configPath string, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(append([]string{"--config", configPath}, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestDayCommands(t *testing.T) {
	configPath := writeConfig(t)

	// A fresh database starts from the configured template
	out, _, code := run(t, configPath, "configure", "monday")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "Monday: 7:00 AM, departs 7:00 AM, snooze Off, reminder Off\n", out)

	out, _, code = run(t, configPath, "set-time", "mon", "06:15")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "Monday: 6:15 AM, departs 7:00 AM, snooze Off, reminder Off\n", out)

	out, _, code = run(t, configPath, "set-departure", "monday", "07:30")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "departs 7:30 AM")

	out, _, code = run(t, configPath, "snooze", "monday", "10")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "snooze 10 mins")

	out, _, code = run(t, configPath, "reminder", "monday", "8")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "reminder 8 hrs")

	out, _, code = run(t, configPath, "reminder", "monday", "off")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "reminder Off")

	out, _, code = run(t, configPath, "mute", "monday")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Monday: MUTED")

	out, _, code = run(t, configPath, "confirm", "monday")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Monday: MUTED")

	out, _, code = run(t, configPath, "remove", "monday")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "Monday: No Alarm\n", out)

	// Configuring again starts over from the template
	out, _, code = run(t, configPath, "configure", "monday")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "Monday: 7:00 AM, departs 7:00 AM, snooze Off, reminder Off\n", out)
}

func TestDayCommands_Rejected(t *testing.T) {
	configPath := writeConfig(t)
	_, _, code := run(t, configPath, "configure", "friday")
	require.Equal(t, ExitSuccess, code)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown day", []string{"configure", "funday"}, "unknown weekday"},
		{"unconfigured day", []string{"mute", "tuesday"}, "not configured"},
		{"departure before final", []string{"set-departure", "friday", "06:00"}, "cannot be earlier"},
		{"bad time", []string{"set-time", "friday", "7am"}, "invalid time of day"},
		{"snooze out of range", []string{"snooze", "friday", "90"}, "between 0 and 60"},
		{"snooze not a number", []string{"snooze", "friday", "lots"}, "neither a number nor off"},
		{"reminder out of range", []string{"reminder", "friday", "0"}, "between 1 and 23"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut, code := run(t, configPath, tt.args...)
			assert.Equal(t, ExitFailure, code)
			assert.Empty(t, out)
			assert.Contains(t, errOut, tt.wantErr)
		})
	}
}

func TestCommandErrors(t *testing.T) {
	configPath := writeConfig(t)

	_, errOut, code := run(t, filepath.Join(t.TempDir(), "missing.yaml"), "show")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut, "config file not found")

	_, _, code = run(t, configPath, "--format", "xml", "show")
	assert.Equal(t, ExitCommandError, code)

	_, errOut, code = run(t, configPath, "show", "--at", "tomorrow")
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, errOut, "invalid --at")

	_, errOut, code = run(t, configPath, "--format", "json", "mute", "sunday")
	assert.Equal(t, ExitFailure, code)
	// stderr also carries log lines; the response is written last
	lines := strings.Split(strings.TrimSpace(errOut), "\n")
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ExitFailure, resp.Error.Code)
}

func TestShow_At(t *testing.T) {
	configPath := writeConfig(t)
	run(t, configPath, "configure", "monday")
	run(t, configPath, "configure", "thursday")

	// 2024-01-04 was a Thursday
	out, _, code := run(t, configPath, "show", "--at", "2024-01-04T07:30:00Z")
	require.Equal(t, ExitSuccess, code)

	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 2)
	assert.True(t, strings.HasPrefix(lines[1], ">  Thursday   ringing"), lines[1])
	assert.Contains(t, out, "Next alarm: Thursday 7:00 AM")

	out, _, code = run(t, configPath, "--format", "json", "show", "--at", "2024-01-01T07:30:00Z")
	require.Equal(t, ExitSuccess, code)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			ActiveDay string `json:"active_day"`
			Entries   []struct {
				State string `json:"state"`
			} `json:"entries"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "monday", resp.Data.ActiveDay)
	assert.Len(t, resp.Data.Entries, 7)
}

func TestExportImport(t *testing.T) {
	source := writeConfig(t)
	run(t, source, "configure", "tuesday")
	run(t, source, "set-time", "tuesday", "05:45")

	exported, _, code := run(t, source, "export")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, exported, `"template"`)

	file := filepath.Join(t.TempDir(), "week.json")
	out, _, code := run(t, source, "export", file)
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "Exported schedule to "+file+"\n", out)

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, exported, string(data))

	target := writeConfig(t)
	out, _, code = run(t, target, "import", file)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Tuesday")

	out, _, code = run(t, target, "set-time", "tuesday", "05:50")
	require.Equal(t, ExitSuccess, code, "imported day should be configured")
	assert.Contains(t, out, "Tuesday: 5:50 AM")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"days": []}`), 0644))
	_, errOut, code := run(t, target, "import", bad)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, errOut, "malformed schedule")

	_, _, code = run(t, target, "import", filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, ExitCommandError, code)
}

func TestNewTickSource(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ClockConfig
		want    clock.Mode
		wantErr bool
	}{
		{"realtime", config.ClockConfig{Mode: "realtime", RefreshSeconds: 1}, clock.ModeRealtime, false},
		{"accelerated", config.ClockConfig{Mode: "accelerated", RefreshSeconds: 1, IncrementSeconds: 600}, clock.ModeAccelerated, false},
		{"frozen", config.ClockConfig{Mode: "frozen", InitialTime: "2024-01-01T08:55:00Z"}, clock.ModeFrozen, false},
		{"unknown", config.ClockConfig{Mode: "warp"}, "", true},
		{"bad initial", config.ClockConfig{Mode: "frozen", InitialTime: "soon"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, err := newTickSource(tt.cfg, nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, source.Mode())
		})
	}
}
