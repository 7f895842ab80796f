package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"wakeup/config"
	"wakeup/internal/core"
	"wakeup/internal/logging"
	"wakeup/internal/storage"
	"wakeup/internal/storage/sqlite"
)

// app is the wiring shared by every command: configuration, logger,
// store and a loaded schedule manager
type app struct {
	config   *config.Config
	logger   *slog.Logger
	store    storage.Storage
	manager  *core.ScheduleManager
	schedule core.ScheduleManagerInterface // manager behind the logging decorator
	out      *OutputFormatter
}

func (o *RootOptions) loadConfig() (*config.Config, error) {
	if o.UseEnv || len(o.EnvFiles) > 0 {
		return config.LoadFromEnv(o.EnvFiles...)
	}
	return config.Load(o.ConfigPath)
}

// openApp loads the configuration and the stored schedule. Long running
// commands log at the configured level; one-shot commands only log
// warnings unless --verbose is set.
func openApp(cmd *cobra.Command, opts *RootOptions, daemon bool) (*app, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}

	level := slog.LevelWarn
	if daemon {
		level = logging.ParseLevel(cfg.Logging.Level)
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := logging.NewLogger(logging.LoggerConfig{
		Format: cfg.Logging.Format,
		Level:  level,
		Output: cmd.ErrOrStderr(),
	})

	template, err := cfg.Template.Alarm()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid template", err)
	}

	logger.Debug("Opening database", "path", cfg.Database.Path)
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	manager := core.NewScheduleManager(store, logger)
	reset, err := manager.Load(cmd.Context())
	if err != nil {
		store.Close()
		return nil, WrapExitError(ExitCommandError, "failed to load schedule", err)
	}

	// A fresh week starts from the configured template
	if reset {
		if err := manager.SetTemplate(cmd.Context(), template); err != nil {
			store.Close()
			return nil, WrapExitError(ExitCommandError, "failed to apply template", err)
		}
	}

	return &app{
		config:   cfg,
		logger:   logger,
		store:    store,
		manager:  manager,
		schedule: logging.NewScheduleManagerLogger(manager, logger),
		out: &OutputFormatter{
			Format: opts.Format,
			Writer: cmd.OutOrStdout(),
		},
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("Error closing database", "error", err)
	}
}

// editError classifies a failed edit: rejections by the schedule exit with
// ExitFailure, anything else is a command error
func editError(message string, err error) error {
	for _, rejected := range []error{
		core.ErrUnknownWeekday,
		core.ErrAlarmNotConfigured,
		core.ErrDepartureBeforeFinal,
		core.ErrInvalidSnoozeMinutes,
		core.ErrInvalidSleepReminderHours,
		core.ErrMalformedSchedule,
		errInvalidArgument,
	} {
		if errors.Is(err, rejected) {
			return WrapExitError(ExitFailure, message, err)
		}
	}
	return WrapExitError(ExitCommandError, message, err)
}

var errInvalidArgument = errors.New("invalid argument")

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errInvalidArgument, fmt.Sprintf(format, args...))
}
