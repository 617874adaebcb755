package usecase

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/matchpulse/fixture-sync/internal/platform/logging"
)

type syncRunner interface {
	SyncAll(ctx context.Context) (SyncResult, error)
}

type oddsRunner interface {
	Backfill(ctx context.Context) (OddsBackfillStats, error)
}

// Scheduler drives periodic sync passes. The first pass fires after a
// short warm-up so the process can finish wiring before hitting
// upstream APIs; after that it ticks on a fixed interval. An odds
// backfill pass follows every successful sync.
type Scheduler struct {
	sync     syncRunner
	odds     oddsRunner
	logger   *logging.Logger
	interval time.Duration
	warmup   time.Duration
}

func NewScheduler(sync syncRunner, odds oddsRunner, logger *logging.Logger, interval, warmup time.Duration) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		sync:     sync,
		odds:     odds,
		logger:   logger,
		interval: interval,
		warmup:   warmup,
	}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	if s.warmup > 0 {
		if !sleepCtx(ctx, s.warmup) {
			return
		}
	}
	s.pass(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pass(ctx)
		}
	}
}

// pass bounds one sync+backfill round to the tick interval so a stuck
// provider cannot bleed into the next tick.
func (s *Scheduler) pass(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.interval)
	defer cancel()

	if _, err := s.sync.SyncAll(ctx); err != nil {
		if errors.Is(err, ErrSyncAlreadyRunning) {
			s.logger.InfoContext(ctx, "scheduled sync skipped, previous pass still running")
			return
		}
		s.logger.ErrorContext(ctx, "scheduled sync failed", "error", err)
		return
	}
	if s.odds == nil {
		return
	}
	if _, err := s.odds.Backfill(ctx); err != nil {
		s.logger.ErrorContext(ctx, "scheduled odds backfill failed", "error", err)
	}
}
