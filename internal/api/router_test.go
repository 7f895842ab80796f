package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wakeup/internal/api/middleware"
	"wakeup/internal/core"
)

type failingStorage struct{}

func (failingStorage) LoadSchedule(ctx context.Context) (*core.WeeklySchedule, error) {
	return nil, core.ErrScheduleNotFound
}

func (failingStorage) SaveSchedule(ctx context.Context, s *core.WeeklySchedule) error {
	return errors.New("disk full")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, apiKey string) http.Handler {
	t.Helper()
	return NewRouter(RouterConfig{
		Manager: core.NewScheduleManager(nil, quietLogger()),
		APIKey:  apiKey,
		Logger:  quietLogger(),
	})
}

func do(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), w.Body.String())
	}
	return w, decoded
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t, "secret")

	w, body := do(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "UP", body["status"])
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDKey))
}

func TestRouter_Authentication(t *testing.T) {
	router := newTestRouter(t, "secret")

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"missing key", "", "", http.StatusUnauthorized},
		{"wrong key", middleware.APIKeyHeader, "nope", http.StatusUnauthorized},
		{"api key header", middleware.APIKeyHeader, "secret", http.StatusOK},
		{"bearer token", "Authorization", "Bearer secret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/schedule", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRouter_EmptySchedule(t *testing.T) {
	router := newTestRouter(t, "")

	w, body := do(t, router, http.MethodGet, "/v1/schedule", "")
	require.Equal(t, http.StatusOK, w.Code)

	entries := body["entries"].([]any)
	require.Len(t, entries, core.DaysInWeek)
	first := entries[0].(map[string]any)
	assert.Equal(t, "no_alarm", first["state"])
	assert.Equal(t, "sunday", body["active_day"])
	assert.Nil(t, body["next_alarm"])

	w, body = do(t, router, http.MethodGet, "/v1/schedule/next", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["has_alarm"])
}

func TestRouter_DayEdits(t *testing.T) {
	router := newTestRouter(t, "")

	w, body := do(t, router, http.MethodPost, "/v1/days/monday/configure", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["is_configured"])
	assert.Equal(t, "9:00 AM", body["description"])

	w, body = do(t, router, http.MethodPut, "/v1/days/mon/final-time", `{"time": "06:30"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "6:30 AM", body["description"])

	w, body = do(t, router, http.MethodPut, "/v1/days/monday/departure-time", `{"time": "07:45"}`)
	require.Equal(t, http.StatusOK, w.Code)
	departure := body["departure_time"].(map[string]any)
	assert.Equal(t, float64(7), departure["hour"])
	assert.Equal(t, float64(45), departure["minute"])

	w, body = do(t, router, http.MethodPut, "/v1/days/monday/snooze", `{"minutes": 10}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "10 mins", body["snooze_description"])

	w, body = do(t, router, http.MethodPut, "/v1/days/monday/snooze", `{"minutes": null}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Off", body["snooze_description"])

	w, body = do(t, router, http.MethodPut, "/v1/days/monday/sleep-reminder", `{"hours": 8}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "8 hrs", body["sleep_reminder_description"])

	w, body = do(t, router, http.MethodPost, "/v1/days/monday/toggle-mute", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MUTED", body["description"])

	w, body = do(t, router, http.MethodDelete, "/v1/days/monday", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["is_configured"])
	assert.Equal(t, "No Alarm", body["description"])
}

func TestRouter_Errors(t *testing.T) {
	router := newTestRouter(t, "")
	w, _ := do(t, router, http.MethodPost, "/v1/days/friday/configure", "")
	require.Equal(t, http.StatusOK, w.Code)

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"unknown day", http.MethodPost, "/v1/days/funday/configure", "", http.StatusBadRequest, "UNKNOWN_WEEKDAY"},
		{"unconfigured day", http.MethodPost, "/v1/days/tuesday/toggle-mute", "", http.StatusConflict, "ALARM_NOT_CONFIGURED"},
		{"unconfigured final time", http.MethodPut, "/v1/days/tuesday/final-time", `{"time": "07:00"}`, http.StatusConflict, "ALARM_NOT_CONFIGURED"},
		{"departure before final", http.MethodPut, "/v1/days/friday/departure-time", `{"time": "08:00"}`, http.StatusBadRequest, "DEPARTURE_BEFORE_FINAL"},
		{"bad time", http.MethodPut, "/v1/days/friday/final-time", `{"time": "25:00"}`, http.StatusBadRequest, "INVALID_TIME"},
		{"missing time", http.MethodPut, "/v1/days/friday/final-time", `{}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"snooze out of range", http.MethodPut, "/v1/days/friday/snooze", `{"minutes": 90}`, http.StatusBadRequest, "INVALID_SNOOZE"},
		{"reminder out of range", http.MethodPut, "/v1/days/friday/sleep-reminder", `{"hours": 24}`, http.StatusBadRequest, "INVALID_SLEEP_REMINDER"},
		{"bad template", http.MethodPut, "/v1/template", `{"hour": 30}`, http.StatusBadRequest, "INVALID_TEMPLATE"},
		{"bad stride", http.MethodGet, "/v1/days/friday/departure-options?stride=0", "", http.StatusBadRequest, "INVALID_STRIDE"},
		{"options for unconfigured day", http.MethodGet, "/v1/days/sunday/departure-options", "", http.StatusConflict, "ALARM_NOT_CONFIGURED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := do(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantErr, body["code"])
		})
	}
}

func TestRouter_ContentType(t *testing.T) {
	router := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodPut, "/v1/template", bytes.NewBufferString("hour=7"))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestRouter_Template(t *testing.T) {
	router := newTestRouter(t, "")

	w, body := do(t, router, http.MethodGet, "/v1/template", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "9:00 AM", body["description"])

	w, body = do(t, router, http.MethodPut, "/v1/template", `{"hour": 7, "minute": 15, "snooze_minutes": 5, "commute_minutes": 30}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7:15 AM", body["description"])
	assert.Equal(t, "5 mins", body["snooze_description"])

	w, body = do(t, router, http.MethodPost, "/v1/days/wednesday/configure", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "wednesday", body["day"])
	assert.Equal(t, "7:15 AM", body["description"])
	departure := body["departure_time"].(map[string]any)
	assert.Equal(t, "wednesday", departure["day"])
	assert.Equal(t, float64(45), departure["minute"])
}

func TestRouter_NextAlarm(t *testing.T) {
	router := newTestRouter(t, "")
	do(t, router, http.MethodPost, "/v1/days/monday/configure", "")

	w, body := do(t, router, http.MethodGet, "/v1/schedule/next", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["has_alarm"])
	alarm := body["alarm"].(map[string]any)
	assert.Equal(t, "monday", alarm["day"])

	w, body = do(t, router, http.MethodGet, "/v1/schedule", "")
	require.Equal(t, http.StatusOK, w.Code)
	entries := body["entries"].([]any)
	monday := entries[1].(map[string]any)
	assert.Equal(t, "future_active", monday["state"])
	assert.NotNil(t, body["upcoming_alarm"])
}

func TestRouter_DepartureOptions(t *testing.T) {
	router := newTestRouter(t, "")
	do(t, router, http.MethodPost, "/v1/days/thursday/configure", "")

	w, body := do(t, router, http.MethodGet, "/v1/days/thursday/departure-options", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(15), body["stride"])

	// 09:00 through 23:45
	options := body["options"].([]any)
	require.Len(t, options, 60)
	first := options[0].(map[string]any)
	assert.Equal(t, "9:00 AM", first["description"])
	assert.Equal(t, true, first["selected"])
	last := options[len(options)-1].(map[string]any)
	assert.Equal(t, "11:45 PM", last["description"])
	assert.Equal(t, false, last["selected"])

	w, body = do(t, router, http.MethodGet, "/v1/days/thursday/departure-options?stride=60", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["options"], 15)
}

func TestRouter_StorageFailure(t *testing.T) {
	router := NewRouter(RouterConfig{
		Manager: core.NewScheduleManager(failingStorage{}, quietLogger()),
		Logger:  quietLogger(),
	})

	w, body := do(t, router, http.MethodPost, "/v1/days/monday/configure", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", body["code"])

	// Nothing was committed
	w, body = do(t, router, http.MethodGet, "/v1/schedule/next", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["has_alarm"])
}
