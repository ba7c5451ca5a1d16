package app

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSyncInterval is the period between scheduled sync attempts.
const DefaultSyncInterval = 30 * time.Second

// SyncFunc adapts a function to a sync trigger.
type SyncFunc func(ctx context.Context) error

// Scheduler triggers a sync every interval regardless of how the previous
// attempt ended.
type Scheduler struct {
	sync       SyncFunc
	interval   time.Duration
	runOnStart bool
	logger     *slog.Logger
}

// SchedulerConfig contains configuration for the scheduler.
type SchedulerConfig struct {
	Interval   time.Duration
	RunOnStart bool
	Logger     *slog.Logger
}

// NewScheduler creates a scheduler that calls fn on every tick.
func NewScheduler(fn SyncFunc, cfg SchedulerConfig) *Scheduler {
	s := &Scheduler{
		sync:       fn,
		interval:   cfg.Interval,
		runOnStart: cfg.RunOnStart,
		logger:     cfg.Logger,
	}

	if s.interval <= 0 {
		s.interval = DefaultSyncInterval
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.logger = s.logger.With(slog.String("component", "app.Scheduler"))

	return s
}

// Run blocks until ctx is cancelled. It always returns nil; failed attempts
// are logged and the next tick tries again.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "sync scheduler started", slog.Duration("interval", s.interval))
	defer s.logger.InfoContext(ctx, "sync scheduler stopped")

	if s.runOnStart {
		s.tick(ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if err := s.sync(ctx); err != nil && ctx.Err() == nil {
		s.logger.WarnContext(ctx, "scheduled sync failed", slog.Any("error", err))
	}
}
