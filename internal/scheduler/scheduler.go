package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"wakeup/internal/clock"
	"wakeup/internal/core"
)

// Reorderer is the part of the schedule manager the scheduler drives
type Reorderer interface {
	Reorder(ctx context.Context, now time.Time) (core.ReorderResult, error)
}

// TickSource publishes clock ticks
type TickSource interface {
	Subscribe(fn func(clock.Tick)) *clock.Subscription
	Run(ctx context.Context)
}

// Scheduler re-anchors the weekly schedule every time the clock's minute
// changes
type Scheduler struct {
	source   TickSource
	manager  Reorderer
	stopChan chan struct{}
	stopOnce sync.Once
	logger   *slog.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(source TickSource, manager Reorderer, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		source:   source,
		manager:  manager,
		stopChan: make(chan struct{}),
		logger:   logger.With("component", "scheduler"),
	}
}

// Start runs the clock and reorders on each tick. It blocks until ctx is
// done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Scheduler started")

	sub := s.source.Subscribe(func(tick clock.Tick) {
		s.tick(ctx, tick)
	})
	defer sub.Close()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.source.Run(runCtx)
	}()

	select {
	case <-s.stopChan:
	case <-ctx.Done():
	}
	cancel()
	<-done
	s.logger.Info("Scheduler stopped")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

// tick performs one reorder pass
func (s *Scheduler) tick(ctx context.Context, tick clock.Tick) {
	result, err := s.manager.Reorder(ctx, tick.At)
	if err != nil {
		s.logger.Error("Failed to reorder schedule", "time", tick.Time.String(), "error", err)
		return
	}

	switch {
	case result.Reset:
		s.logger.Info("Active day changed",
			"previous", result.Previous.String(),
			"active", result.Active.String(),
			"time", tick.Time.String())
	case result.Rotated:
		s.logger.Debug("Schedule rotated",
			"active", result.Active.String(),
			"time", tick.Time.String())
	default:
		s.logger.Debug("Scheduler tick", "time", tick.Time.String())
	}
}
