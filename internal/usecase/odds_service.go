package usecase

import (
	"context"

	"github.com/matchpulse/fixture-sync/internal/domain/fixture"
	"github.com/matchpulse/fixture-sync/internal/platform/logging"
	"github.com/matchpulse/fixture-sync/internal/provider"
)

type oddsBackfillStore interface {
	ListMissingOdds(ctx context.Context, providerPrefix string, limit int) ([]fixture.Fixture, error)
}

type oddsApplier interface {
	ApplyOdds(ctx context.Context, externalID string, home, draw, away float64) error
}

// OddsBackfillStats summarizes one backfill pass.
type OddsBackfillStats struct {
	Scanned int
	Applied int
	Failed  int
}

// OddsService backfills match-winner prices for fixtures that were
// ingested without them. Each pass scans a bounded slice of candidates
// per odds-capable provider; failures are counted and skipped so one
// bad fixture never stalls the pass.
type OddsService struct {
	store   oddsBackfillStore
	applier oddsApplier
	sources map[string]provider.OddsSource
	logger  *logging.Logger
	limit   int
}

func NewOddsService(store oddsBackfillStore, applier oddsApplier, sources map[string]provider.OddsSource, logger *logging.Logger, limit int) *OddsService {
	if logger == nil {
		logger = logging.Default()
	}
	if limit <= 0 {
		limit = 20
	}
	return &OddsService{
		store:   store,
		applier: applier,
		sources: sources,
		logger:  logger,
		limit:   limit,
	}
}

// Backfill runs one pass across all odds-capable providers.
func (s *OddsService) Backfill(ctx context.Context) (OddsBackfillStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OddsService.Backfill")
	defer span.End()

	var stats OddsBackfillStats
	for prefix, src := range s.sources {
		candidates, err := s.store.ListMissingOdds(ctx, prefix, s.limit)
		if err != nil {
			return stats, err
		}
		for _, record := range candidates {
			stats.Scanned++
			applied, err := s.backfillOne(ctx, src, record)
			if err != nil {
				stats.Failed++
				s.logger.WarnContext(ctx, "odds backfill failed",
					"external_id", record.ExternalID, "error", err)
				continue
			}
			if applied {
				stats.Applied++
			}
		}
	}
	s.logger.InfoContext(ctx, "odds backfill pass finished",
		"scanned", stats.Scanned, "applied", stats.Applied, "failed", stats.Failed)
	return stats, nil
}

func (s *OddsService) backfillOne(ctx context.Context, src provider.OddsSource, record fixture.Fixture) (bool, error) {
	_, nativeID, err := fixture.SplitExternalID(record.ExternalID)
	if err != nil {
		return false, err
	}
	odds, err := src.FetchOdds(ctx, nativeID)
	if err != nil {
		return false, err
	}
	if odds == nil {
		s.logger.DebugContext(ctx, "no odds published yet", "external_id", record.ExternalID)
		return false, nil
	}
	if err := s.applier.ApplyOdds(ctx, record.ExternalID, odds.Home, odds.Draw, odds.Away); err != nil {
		return false, err
	}
	return true, nil
}
