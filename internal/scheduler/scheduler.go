package scheduler

import (
	"context"
	"log/slog"
	"time"

	"tweet_tracker/internal/domain"
)

// Poller runs one ingestion pipeline pass.
type Poller interface {
	Poll(ctx context.Context) (*domain.PollStats, error)
}

type Scheduler struct {
	poller   Poller
	interval time.Duration
	logger   *slog.Logger
}

func NewScheduler(poller Poller, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		poller:   poller,
		interval: interval,
		logger:   logger,
	}
}

// Start polls once immediately, then on every tick until ctx is cancelled.
// Poll failures are logged and retried on the next tick; the pipeline does
// no retrying of its own.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runPoll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runPoll(ctx)
		}
	}
}

func (s *Scheduler) runPoll(ctx context.Context) {
	pollCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	if _, err := s.poller.Poll(pollCtx); err != nil {
		s.logger.Error("poll failed", "error", err)
	}
}
