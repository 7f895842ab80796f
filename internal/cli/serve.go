package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"wakeup/config"
	"wakeup/internal/api"
	"wakeup/internal/clock"
	"wakeup/internal/core"
	"wakeup/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler and the HTTP API",
		Long: `Run the clock-driven scheduler and the HTTP API until interrupted.

Example:
  wakeup serve --config config.yaml
  wakeup serve --env-file .env --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

// newTickSource builds the time source selected by the clock config
func newTickSource(cfg config.ClockConfig, logger *slog.Logger) (*clock.Source, error) {
	mode, err := clock.ParseMode(cfg.Mode)
	if err != nil {
		return nil, err
	}

	initial, err := cfg.Initial()
	if err != nil {
		return nil, err
	}

	switch mode {
	case clock.ModeAccelerated:
		return clock.NewAcceleratedSource(clock.RealClock{}, cfg.Refresh(), cfg.Increment(), initial, logger), nil
	case clock.ModeFrozen:
		if initial.IsZero() {
			initial = time.Now()
		}
		return clock.NewFrozenSource(initial, logger), nil
	default:
		return clock.NewRealTimeSource(clock.RealClock{}, cfg.Refresh(), logger), nil
	}
}

func runServe(cmd *cobra.Command, opts *RootOptions) error {
	a, err := openApp(cmd, opts, true)
	if err != nil {
		return err
	}
	defer a.close()

	cfg, logger := a.config, a.logger

	source, err := newTickSource(cfg.Clock, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid clock", err)
	}

	observer := a.manager.OnScheduleChanged(func(entries []core.ScheduleEntry) {
		logger.Debug("Schedule changed",
			"component", "manager",
			"active_day", entries[0].Alarm.Day.String(),
			"state", string(entries[0].State))
	})
	defer observer.Close()

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sched := scheduler.NewScheduler(source, a.schedule, logger)
	schedDone := make(chan struct{})
	go func() {
		sched.Start(ctx)
		close(schedDone)
	}()

	router := api.NewRouter(api.RouterConfig{
		Manager: a.schedule,
		APIKey:  cfg.Security.APIKey,
		Logger:  logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server",
			"addr", server.Addr,
			"auth", cfg.Security.APIKey != "",
			"clock", cfg.Clock.Mode)
		serverErrors <- server.ListenAndServe()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var runErr error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = WrapExitError(ExitFailure, "server error", err)
		}
	case sig := <-shutdown:
		logger.Info("Received signal, starting graceful shutdown", "signal", sig.String())
	case <-ctx.Done():
	}

	sched.Stop()
	cancel()
	<-schedDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = WrapExitError(ExitFailure, "server shutdown error", err)
	}

	logger.Info("Graceful shutdown complete")
	return runErr
}
