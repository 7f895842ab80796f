package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"wakeup/internal/api/handlers"
	"wakeup/internal/api/middleware"
	"wakeup/internal/core"
)

// RouterConfig holds dependencies for the API router
type RouterConfig struct {
	Manager core.ScheduleManagerInterface
	APIKey  string // empty disables authentication
	Logger  *slog.Logger
}

// NewRouter creates and configures the Gin router
func NewRouter(config RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logging(logger))
	router.Use(middleware.ContentType())

	// Health check (no auth)
	healthHandler := handlers.NewHealthHandler()
	router.GET("/health", healthHandler.GetHealth)

	// API v1 routes (with authentication)
	v1 := router.Group("/v1")
	v1.Use(middleware.APIKey(config.APIKey))
	{
		scheduleHandler := handlers.NewScheduleHandler(config.Manager, logger)
		v1.GET("/schedule", scheduleHandler.GetSchedule)
		v1.GET("/schedule/next", scheduleHandler.GetNextAlarm)
		v1.GET("/template", scheduleHandler.GetTemplate)
		v1.PUT("/template", scheduleHandler.UpdateTemplate)

		daysHandler := handlers.NewDaysHandler(config.Manager, logger)
		days := v1.Group("/days/:day")
		days.POST("/confirm-awake", daysHandler.ConfirmAwake)
		days.POST("/toggle-mute", daysHandler.ToggleMute)
		days.POST("/configure", daysHandler.Configure)
		days.DELETE("", daysHandler.Remove)
		days.PUT("/final-time", daysHandler.SetFinalTime)
		days.PUT("/departure-time", daysHandler.SetDepartureTime)
		days.PUT("/snooze", daysHandler.SetSnooze)
		days.PUT("/sleep-reminder", daysHandler.SetSleepReminder)
		days.GET("/departure-options", daysHandler.GetDepartureOptions)
	}

	return router
}
