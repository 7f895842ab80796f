package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"wakeup/config"
	"wakeup/internal/core"
)

// ScheduleHandler handles whole-week and template requests
type ScheduleHandler struct {
	manager core.ScheduleManagerInterface
	logger  *slog.Logger
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(manager core.ScheduleManagerInterface, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		manager: manager,
		logger:  logger,
	}
}

// GetSchedule returns the week in schedule order, active day first
// GET /v1/schedule
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	c.JSON(http.StatusOK, NewScheduleView(h.manager.Schedule()))
}

// GetNextAlarm returns the alarm to badge as next
// GET /v1/schedule/next
func (h *ScheduleHandler) GetNextAlarm(c *gin.Context) {
	next, ok := h.manager.NextAlarm()
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"has_alarm": false,
			"alarm":     nil,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"has_alarm": true,
		"alarm":     NewAlarmView(next),
	})
}

// GetTemplate returns the alarm used to prefill newly configured days
// GET /v1/template
func (h *ScheduleHandler) GetTemplate(c *gin.Context) {
	c.JSON(http.StatusOK, NewAlarmView(h.manager.Template()))
}

// UpdateTemplate replaces the template; configured days are not touched
// PUT /v1/template
func (h *ScheduleHandler) UpdateTemplate(c *gin.Context) {
	var req config.TemplateConfig
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "INVALID_REQUEST", err)
		return
	}

	template, err := req.Alarm()
	if err != nil {
		badRequest(c, "INVALID_TEMPLATE", err)
		return
	}

	if err := h.manager.SetTemplate(c.Request.Context(), template); err != nil {
		writeError(c, h.logger, "Failed to update template", err)
		return
	}

	h.logger.Info("Template updated",
		"component", "api",
		"final_alarm_time", template.FinalAlarmTime.TimeDescription(),
	)

	c.JSON(http.StatusOK, NewAlarmView(h.manager.Template()))
}
