package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"wakeup/internal/core"
)

var errInvalidTime = errors.New("invalid time")

// writeError maps a schedule error to a response. Anything unrecognised
// is a storage failure and is logged.
func writeError(c *gin.Context, logger *slog.Logger, msg string, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL_ERROR"

	switch {
	case errors.Is(err, core.ErrUnknownWeekday):
		status, code = http.StatusBadRequest, "UNKNOWN_WEEKDAY"
	case errors.Is(err, core.ErrAlarmNotConfigured):
		status, code = http.StatusConflict, "ALARM_NOT_CONFIGURED"
	case errors.Is(err, errInvalidTime):
		status, code = http.StatusBadRequest, "INVALID_TIME"
	case errors.Is(err, core.ErrDepartureBeforeFinal):
		status, code = http.StatusBadRequest, "DEPARTURE_BEFORE_FINAL"
	case errors.Is(err, core.ErrInvalidSnoozeMinutes):
		status, code = http.StatusBadRequest, "INVALID_SNOOZE"
	case errors.Is(err, core.ErrInvalidSleepReminderHours):
		status, code = http.StatusBadRequest, "INVALID_SLEEP_REMINDER"
	}

	if status == http.StatusInternalServerError {
		logger.Error(msg,
			"component", "api",
			"path", c.Request.URL.Path,
			"error", err,
		)
		_ = c.Error(err)
		c.JSON(status, gin.H{
			"error": msg,
			"code":  code,
		})
		return
	}

	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  code,
	})
}

func badRequest(c *gin.Context, code string, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"code":    code,
		"details": err.Error(),
	})
}
