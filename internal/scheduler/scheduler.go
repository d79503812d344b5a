// Package scheduler triggers the follow-up run once per day at a
// configured wall-clock time, plus once immediately at startup so a
// restarted daemon never waits a day to catch up.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"countersign/pkg/lifecycle"
)

// Job is the work the scheduler triggers.
type Job func(ctx context.Context)

// System manages the daily trigger loop.
type System interface {
	// Start launches the trigger loop under the coordinator's context
	// and registers a shutdown hook that waits for the loop to drain.
	Start(lc *lifecycle.Coordinator)
}

type scheduler struct {
	hour   int
	minute int
	job    Job
	logger *slog.Logger
	now    func() time.Time
	done   chan struct{}
}

// Option configures a scheduler.
type Option func(*scheduler)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *scheduler) {
		s.now = now
	}
}

// New creates a scheduler from the given configuration.
func New(cfg *Config, job Job, logger *slog.Logger, opts ...Option) System {
	hour, minute := cfg.clock()

	s := &scheduler{
		hour:   hour,
		minute: minute,
		job:    job,
		logger: logger.With("system", "scheduler"),
		now:    time.Now,
		done:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *scheduler) Start(lc *lifecycle.Coordinator) {
	s.logger.Info("starting scheduler",
		"hour", s.hour,
		"minute", s.minute,
	)

	go s.loop(lc.Context())

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		<-s.done
		s.logger.Info("scheduler stopped")
	})
}

func (s *scheduler) loop(ctx context.Context) {
	defer close(s.done)

	// Catch-up run on startup.
	s.run(ctx)

	for {
		next := NextRun(s.now(), s.hour, s.minute)
		s.logger.Info("next run scheduled", "at", next)

		timer := time.NewTimer(next.Sub(s.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.run(ctx)
		}
	}
}

func (s *scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	started := s.now()
	s.job(ctx)
	s.logger.Info("run complete", "duration", s.now().Sub(started))
}

// NextRun returns the first instant strictly after now that lands on the
// configured wall-clock time. A trigger time equal to now rolls over to
// tomorrow, since the current run is already underway.
func NextRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
