package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/matchpulse/fixture-sync/internal/domain/fixture"
	"github.com/matchpulse/fixture-sync/internal/platform/logging"
	"github.com/matchpulse/fixture-sync/internal/provider"
	"github.com/sourcegraph/conc"
)

type syncUpserter interface {
	Upsert(ctx context.Context, record fixture.Fixture) (fixture.Fixture, bool, error)
}

type enrichmentScheduler interface {
	Schedule(ctx context.Context, record fixture.Fixture)
}

// SourceResult reports one provider's share of a sync run.
type SourceResult struct {
	Provider string   `json:"provider"`
	Fetched  int      `json:"fetched"`
	Created  int      `json:"created"`
	Updated  int      `json:"updated"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

// SyncResult reports one full sync run across all providers.
type SyncResult struct {
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	Sources    []SourceResult `json:"sources"`
}

// SyncService pulls fixtures from every registered provider and feeds
// them through the upsert engine. Providers run concurrently; the
// partitions of one provider run sequentially with a fixed pause to
// respect upstream rate limits. A failing provider never affects the
// others.
type SyncService struct {
	sources    []provider.Source
	upserter   syncUpserter
	enricher   enrichmentScheduler
	logger     *logging.Logger
	fetchPause time.Duration
	recordCap  int
	now        func() time.Time

	running    atomic.Bool
	lastResult atomic.Pointer[SyncResult]
}

type SyncServiceConfig struct {
	Sources    []provider.Source
	Upserter   syncUpserter
	Enricher   enrichmentScheduler
	Logger     *logging.Logger
	FetchPause time.Duration
	RecordCap  int
}

func NewSyncService(cfg SyncServiceConfig) *SyncService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	recordCap := cfg.RecordCap
	if recordCap <= 0 {
		recordCap = 50
	}
	return &SyncService{
		sources:    cfg.Sources,
		upserter:   cfg.Upserter,
		enricher:   cfg.Enricher,
		logger:     logger,
		fetchPause: cfg.FetchPause,
		recordCap:  recordCap,
		now:        time.Now,
	}
}

// SyncAll runs one full pass. Only one pass runs at a time; overlapping
// calls fail fast with ErrSyncAlreadyRunning.
func (s *SyncService) SyncAll(ctx context.Context) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncAll")
	defer span.End()

	if !s.running.CompareAndSwap(false, true) {
		return SyncResult{}, ErrSyncAlreadyRunning
	}
	defer s.running.Store(false)

	result := SyncResult{StartedAt: s.now().UTC()}
	results := make([]SourceResult, len(s.sources))

	var wg conc.WaitGroup
	for idx, src := range s.sources {
		idx, src := idx, src
		wg.Go(func() {
			results[idx] = s.syncSource(ctx, src)
		})
	}
	wg.Wait()

	result.Sources = results
	result.FinishedAt = s.now().UTC()
	s.lastResult.Store(&result)

	s.logger.InfoContext(ctx, "sync pass finished",
		"duration", result.FinishedAt.Sub(result.StartedAt),
		"providers", len(results),
	)
	return result, nil
}

// LastResult returns the outcome of the most recent completed pass, or
// nil before the first one.
func (s *SyncService) LastResult() *SyncResult {
	return s.lastResult.Load()
}

// Running reports whether a pass is currently in flight.
func (s *SyncService) Running() bool {
	return s.running.Load()
}

func (s *SyncService) syncSource(ctx context.Context, src provider.Source) SourceResult {
	out := SourceResult{Provider: src.Name()}

	var records []fixture.Fixture
	for i, part := range src.Partitions() {
		if i > 0 && s.fetchPause > 0 {
			if !sleepCtx(ctx, s.fetchPause) {
				out.Errors = append(out.Errors, ctx.Err().Error())
				break
			}
		}
		if len(records) >= s.recordCap {
			break
		}

		fetched, err := src.FetchFixtures(ctx, part)
		if err != nil {
			out.Errors = append(out.Errors, err.Error())
			s.logger.WarnContext(ctx, "partition fetch failed",
				"provider", src.Name(), "partition", part.Key, "error", err)
			continue
		}
		records = append(records, fetched...)
	}

	if len(records) > s.recordCap {
		records = records[:s.recordCap]
	}
	out.Fetched = len(records)

	_, hasHeadToHead := src.(provider.HeadToHeadSource)
	for _, record := range records {
		stored, created, err := s.upserter.Upsert(ctx, record)
		if err != nil {
			out.Failed++
			s.logger.WarnContext(ctx, "fixture upsert failed",
				"provider", src.Name(), "external_id", record.ExternalID, "error", err)
			continue
		}
		if created {
			out.Created++
			if hasHeadToHead && s.enricher != nil {
				s.enricher.Schedule(ctx, stored)
			}
		} else {
			out.Updated++
		}
	}

	return out
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
