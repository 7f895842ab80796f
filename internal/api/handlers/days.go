package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"

	"wakeup/internal/core"
)

const (
	defaultDepartureStride = 15
	maxDepartureStride     = 60
)

// DaysHandler handles per-day alarm edits
type DaysHandler struct {
	manager core.ScheduleManagerInterface
	logger  *slog.Logger
}

// NewDaysHandler creates a new days handler
func NewDaysHandler(manager core.ScheduleManagerInterface, logger *slog.Logger) *DaysHandler {
	return &DaysHandler{
		manager: manager,
		logger:  logger,
	}
}

type timeRequest struct {
	Time string `json:"time" binding:"required"` // HH:MM, 24-hour
}

type snoozeRequest struct {
	Minutes *int `json:"minutes"` // null turns snooze off
}

type sleepReminderRequest struct {
	Hours *int `json:"hours"` // null turns the reminder off
}

func (h *DaysHandler) day(c *gin.Context) (core.Weekday, bool) {
	day, err := core.ParseWeekday(c.Param("day"))
	if err != nil {
		writeError(c, h.logger, "Invalid day", err)
		return 0, false
	}
	return day, true
}

// apply runs one edit on the day named in the path and responds with the
// updated alarm
func (h *DaysHandler) apply(c *gin.Context, msg string, edit func(ctx context.Context, day core.Weekday) error) {
	day, ok := h.day(c)
	if !ok {
		return
	}

	if err := edit(c.Request.Context(), day); err != nil {
		writeError(c, h.logger, msg, err)
		return
	}

	c.JSON(http.StatusOK, NewAlarmView(h.manager.Schedule().Alarm(day)))
}

// ConfirmAwake acknowledges the day's alarm
// POST /v1/days/:day/confirm-awake
func (h *DaysHandler) ConfirmAwake(c *gin.Context) {
	h.apply(c, "Failed to confirm awake", h.manager.ConfirmAwake)
}

// ToggleMute flips the day's muted flag
// POST /v1/days/:day/toggle-mute
func (h *DaysHandler) ToggleMute(c *gin.Context) {
	h.apply(c, "Failed to toggle mute", h.manager.ToggleMuted)
}

// Configure enables the day from the template
// POST /v1/days/:day/configure
func (h *DaysHandler) Configure(c *gin.Context) {
	h.apply(c, "Failed to configure day", h.manager.Configure)
}

// Remove disables the day's alarm, keeping its settings
// DELETE /v1/days/:day
func (h *DaysHandler) Remove(c *gin.Context) {
	h.apply(c, "Failed to remove alarm", h.manager.Remove)
}

// SetFinalTime moves the final alarm
// PUT /v1/days/:day/final-time
func (h *DaysHandler) SetFinalTime(c *gin.Context) {
	var req timeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	h.apply(c, "Failed to set final alarm time", func(ctx context.Context, day core.Weekday) error {
		t, err := core.ParseTimeOfDay(day, req.Time)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidTime, err)
		}
		return h.manager.SetFinalAlarmTime(ctx, day, t)
	})
}

// SetDepartureTime sets when the user leaves; it may not precede the final alarm
// PUT /v1/days/:day/departure-time
func (h *DaysHandler) SetDepartureTime(c *gin.Context) {
	var req timeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	h.apply(c, "Failed to set departure time", func(ctx context.Context, day core.Weekday) error {
		t, err := core.ParseTimeOfDay(day, req.Time)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidTime, err)
		}
		return h.manager.SetDepartureTime(ctx, day, t)
	})
}

// SetSnooze sets the snooze duration
// PUT /v1/days/:day/snooze
func (h *DaysHandler) SetSnooze(c *gin.Context) {
	var req snoozeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	h.apply(c, "Failed to set snooze", func(ctx context.Context, day core.Weekday) error {
		state := core.SnoozeOff()
		if req.Minutes != nil {
			var err error
			if state, err = core.NewSnoozeDuration(*req.Minutes); err != nil {
				return err
			}
		}
		return h.manager.SetSnoozeState(ctx, day, state)
	})
}

// SetSleepReminder sets how long before the alarm the reminder fires
// PUT /v1/days/:day/sleep-reminder
func (h *DaysHandler) SetSleepReminder(c *gin.Context) {
	var req sleepReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	h.apply(c, "Failed to set sleep reminder", func(ctx context.Context, day core.Weekday) error {
		state := core.SleepReminderOff()
		if req.Hours != nil {
			var err error
			if state, err = core.NewSleepReminder(*req.Hours); err != nil {
				return err
			}
		}
		return h.manager.SetSleepReminder(ctx, day, state)
	})
}

// GetDepartureOptions lists departure times from the final alarm until midnight
// GET /v1/days/:day/departure-options?stride=15
func (h *DaysHandler) GetDepartureOptions(c *gin.Context) {
	day, ok := h.day(c)
	if !ok {
		return
	}

	stride := defaultDepartureStride
	if raw := c.Query("stride"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxDepartureStride {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("stride must be between 1 and %d minutes", maxDepartureStride),
				"code":  "INVALID_STRIDE",
			})
			return
		}
		stride = n
	}

	alarm := h.manager.Schedule().Alarm(day)
	if !alarm.IsConfigured {
		writeError(c, h.logger, "Failed to list departure options",
			fmt.Errorf("%w: %s", core.ErrAlarmNotConfigured, day))
		return
	}

	times := slices.Collect(alarm.FinalAlarmTime.TimesUntilEndOfDay(stride))
	options := make([]gin.H, 0, len(times))
	for _, t := range times {
		options = append(options, gin.H{
			"time":        t,
			"description": t.TimeDescription(),
			"selected":    t.Equal(alarm.DepartureTime),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"day":     day,
		"stride":  stride,
		"options": options,
	})
}
