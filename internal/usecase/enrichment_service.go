package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/matchpulse/fixture-sync/internal/domain/fixture"
	"github.com/matchpulse/fixture-sync/internal/platform/logging"
	"github.com/matchpulse/fixture-sync/internal/provider"
	"github.com/panjf2000/ants/v2"
)

type headToHeadApplier interface {
	ApplyHeadToHead(ctx context.Context, externalID string, summary *fixture.HeadToHead) error
}

// EnrichmentService attaches head-to-head history to newly created
// fixtures. Work runs on a bounded pool so a burst of created fixtures
// cannot starve the sync pass; a failed enrichment is logged and
// dropped, the fixture stays usable without history.
type EnrichmentService struct {
	sources map[string]provider.HeadToHeadSource
	applier headToHeadApplier
	logger  *logging.Logger
	pool    *ants.Pool
	lastN   int
}

func NewEnrichmentService(sources map[string]provider.HeadToHeadSource, applier headToHeadApplier, logger *logging.Logger, workers, lastN int) (*EnrichmentService, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = 4
	}
	if lastN <= 0 {
		lastN = 5
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create enrichment pool: %w", err)
	}
	return &EnrichmentService{
		sources: sources,
		applier: applier,
		logger:  logger,
		pool:    pool,
		lastN:   lastN,
	}, nil
}

// Schedule queues one fixture for enrichment. It never blocks the
// caller; when the pool cannot take more work the fixture is skipped.
func (s *EnrichmentService) Schedule(ctx context.Context, record fixture.Fixture) {
	if _, ok := s.sources[record.Provider()]; !ok {
		return
	}
	err := s.pool.Submit(func() {
		s.enrich(context.WithoutCancel(ctx), record)
	})
	if err != nil {
		s.logger.WarnContext(ctx, "enrichment submit failed",
			"external_id", record.ExternalID, "error", err)
	}
}

// Enrich fetches and applies head-to-head history synchronously. The
// scheduler path goes through the pool; this is for backfill jobs and
// tests.
func (s *EnrichmentService) Enrich(ctx context.Context, record fixture.Fixture) error {
	src, ok := s.sources[record.Provider()]
	if !ok {
		return fmt.Errorf("%w: no head-to-head source for provider %q", ErrInvalidInput, record.Provider())
	}
	_, nativeID, err := fixture.SplitExternalID(record.ExternalID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	meetings, err := src.FetchHeadToHead(ctx, nativeID)
	if err != nil {
		return fmt.Errorf("fetch head-to-head for %s: %w", record.ExternalID, err)
	}
	summary := SummarizeMeetings(meetings, record.HomeTeam.Name, s.lastN)
	if err := s.applier.ApplyHeadToHead(ctx, record.ExternalID, summary); err != nil {
		return fmt.Errorf("apply head-to-head for %s: %w", record.ExternalID, err)
	}
	return nil
}

func (s *EnrichmentService) enrich(ctx context.Context, record fixture.Fixture) {
	if err := s.Enrich(ctx, record); err != nil {
		s.logger.WarnContext(ctx, "enrichment failed",
			"external_id", record.ExternalID, "error", err)
		return
	}
	s.logger.DebugContext(ctx, "fixture enriched", "external_id", record.ExternalID)
}

// Close drains the worker pool. Queued work is abandoned.
func (s *EnrichmentService) Close() {
	s.pool.Release()
}

// SummarizeMeetings folds past meetings into win/draw/loss tallies
// relative to homeTeam, the home side of the fixture being enriched.
// Only the most recent lastN meetings count; LastMatches comes back
// oldest first.
func SummarizeMeetings(meetings []provider.Meeting, homeTeam string, lastN int) *fixture.HeadToHead {
	sorted := append([]provider.Meeting(nil), meetings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PlayedAt.After(sorted[j].PlayedAt)
	})
	if len(sorted) > lastN {
		sorted = sorted[:lastN]
	}
	for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	}

	summary := &fixture.HeadToHead{}
	for _, m := range sorted {
		switch {
		case m.HomeScore == m.AwayScore:
			summary.Draws++
		case m.HomeTeam == homeTeam && m.HomeScore > m.AwayScore:
			summary.HomeWins++
		case m.AwayTeam == homeTeam && m.AwayScore > m.HomeScore:
			summary.HomeWins++
		default:
			summary.AwayWins++
		}
		summary.LastMatches = append(summary.LastMatches, fixture.Meeting{
			Date:     m.PlayedAt,
			HomeTeam: m.HomeTeam,
			AwayTeam: m.AwayTeam,
			Score:    fmt.Sprintf("%d-%d", m.HomeScore, m.AwayScore),
		})
	}
	return summary
}
