package clock

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"wakeup/internal/core"
	"wakeup/internal/idgen"
)

// Mode selects how a Source advances time
type Mode string

const (
	ModeRealtime    Mode = "realtime"
	ModeAccelerated Mode = "accelerated"
	ModeFrozen      Mode = "frozen"
)

// ParseMode converts a config value to a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeRealtime, ModeAccelerated, ModeFrozen:
		return Mode(s), nil
	case "":
		return ModeRealtime, nil
	default:
		return "", fmt.Errorf("unknown clock mode %q", s)
	}
}

// Tick is one published clock value
type Tick struct {
	At   time.Time      // instant the value was taken from
	Time core.AlarmTime // At reduced to weekday, hour and minute
}

// Source publishes the current AlarmTime to subscribers, once per minute
// change. Now is the single source of truth for "now" in the program.
type Source struct {
	clock     Clock
	mode      Mode
	interval  time.Duration
	increment time.Duration
	logger    *slog.Logger

	mu      sync.Mutex
	current time.Time
	last    core.AlarmTime
	emitted bool

	subsMu sync.Mutex
	subs   []subscriber

	stopOnce sync.Once
	stopChan chan struct{}
}

type subscriber struct {
	id string
	fn func(Tick)
}

// Subscription is a registration made with Subscribe
type Subscription struct {
	ID     string
	source *Source
}

// Close stops deliveries to the subscriber
func (s *Subscription) Close() {
	s.source.unsubscribe(s.ID)
}

// NewRealTimeSource follows clock, sampling it every interval
func NewRealTimeSource(clock Clock, interval time.Duration, logger *slog.Logger) *Source {
	return newSource(clock, ModeRealtime, interval, 0, clock.Now(), logger)
}

// NewAcceleratedSource starts at initial and moves forward by increment every
// interval of clock time. A zero initial starts from clock.Now().
func NewAcceleratedSource(clock Clock, interval, increment time.Duration, initial time.Time, logger *slog.Logger) *Source {
	if initial.IsZero() {
		initial = clock.Now()
	}
	return newSource(clock, ModeAccelerated, interval, increment, initial, logger)
}

// NewFrozenSource publishes initial once and never ticks again
func NewFrozenSource(initial time.Time, logger *slog.Logger) *Source {
	return newSource(nil, ModeFrozen, 0, 0, initial, logger)
}

func newSource(clock Clock, mode Mode, interval, increment time.Duration, initial time.Time, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		clock:     clock,
		mode:      mode,
		interval:  interval,
		increment: increment,
		logger:    logger.With("component", "clock"),
		current:   initial,
		stopChan:  make(chan struct{}),
	}
}

// Mode returns how the source advances
func (s *Source) Mode() Mode {
	return s.mode
}

// Now returns the source's current instant
func (s *Source) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Current returns the source's current instant as an AlarmTime
func (s *Source) Current() core.AlarmTime {
	return core.AlarmTimeOf(s.Now())
}

// Subscribe registers fn for every published tick. fn runs on the Run
// goroutine.
func (s *Source) Subscribe(fn func(Tick)) *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := idgen.NewSubscription()
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return &Subscription{ID: id, source: s}
}

func (s *Source) unsubscribe(id string) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// Run publishes the initial value and then one tick per minute change until
// ctx is done or Stop is called
func (s *Source) Run(ctx context.Context) {
	var ticks <-chan time.Time
	if s.mode != ModeFrozen {
		ticker := s.clock.NewTicker(s.interval)
		defer ticker.Stop()
		ticks = ticker.C()
	}

	s.logger.Info("Clock started", "mode", s.mode, "at", s.Now())
	s.publish(s.Now())

	for {
		select {
		case <-ticks:
			s.publish(s.advance())
		case <-ctx.Done():
			s.logger.Info("Clock stopped")
			return
		case <-s.stopChan:
			s.logger.Info("Clock stopped")
			return
		}
	}
}

// Stop ends Run. Safe to call more than once.
func (s *Source) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
}

func (s *Source) advance() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.mode {
	case ModeAccelerated:
		s.current = s.current.Add(s.increment)
	case ModeRealtime:
		s.current = s.clock.Now()
	}
	return s.current
}

// publish delivers at unless its minute was already published
func (s *Source) publish(at time.Time) {
	tick := Tick{At: at, Time: core.AlarmTimeOf(at)}

	s.mu.Lock()
	if s.emitted && s.last.Equal(tick.Time) {
		s.mu.Unlock()
		return
	}
	s.last = tick.Time
	s.emitted = true
	s.mu.Unlock()

	s.subsMu.Lock()
	subs := append([]subscriber(nil), s.subs...)
	s.subsMu.Unlock()

	s.logger.Debug("Clock tick", "time", tick.Time.String())
	for _, sub := range subs {
		sub.fn(tick)
	}
}
