package usecase

import (
	"context"
	"fmt"

	"github.com/matchpulse/fixture-sync/internal/domain/fixture"
	"github.com/matchpulse/fixture-sync/internal/platform/cache"
	"github.com/matchpulse/fixture-sync/internal/platform/logging"
	"github.com/matchpulse/fixture-sync/internal/platform/pubsub"
)

const defaultListLimit = 100

type fixtureReadStore interface {
	FindByID(ctx context.Context, id string) (*fixture.Fixture, error)
	ListByStatus(ctx context.Context, status string, limit int) ([]fixture.Fixture, error)
	ListBySport(ctx context.Context, sport, status string, limit int) ([]fixture.Fixture, error)
}

// FixtureService serves read traffic. List responses are cached; any
// fixture write published on the bus flushes the whole fixture cache,
// reads after a sync pass always see fresh data.
type FixtureService struct {
	store  fixtureReadStore
	cache  *cache.Store
	logger *logging.Logger
	limit  int
}

func NewFixtureService(store fixtureReadStore, cacheStore *cache.Store, bus *pubsub.Bus, logger *logging.Logger) *FixtureService {
	if logger == nil {
		logger = logging.Default()
	}
	svc := &FixtureService{
		store:  store,
		cache:  cacheStore,
		logger: logger,
		limit:  defaultListLimit,
	}
	if bus != nil && cacheStore != nil {
		flush := func(ctx context.Context, _ pubsub.Event) {
			cacheStore.DeletePrefix(ctx, "fixtures:")
		}
		bus.Subscribe(TopicFixtureCreated, flush)
		bus.Subscribe(TopicFixtureUpdated, flush)
	}
	return svc
}

// LiveFixtures lists matches currently in play.
func (s *FixtureService) LiveFixtures(ctx context.Context) ([]fixture.Fixture, error) {
	return s.listByStatus(ctx, fixture.StatusLive)
}

// UpcomingFixtures lists matches that have not started yet.
func (s *FixtureService) UpcomingFixtures(ctx context.Context) ([]fixture.Fixture, error) {
	return s.listByStatus(ctx, fixture.StatusScheduled)
}

// CompletedFixtures lists finished matches.
func (s *FixtureService) CompletedFixtures(ctx context.Context) ([]fixture.Fixture, error) {
	return s.listByStatus(ctx, fixture.StatusCompleted)
}

// FixturesBySport lists fixtures for one sport, optionally narrowed to
// a single status.
func (s *FixtureService) FixturesBySport(ctx context.Context, sport, status string) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.FixturesBySport")
	defer span.End()

	if sport == "" {
		return nil, fmt.Errorf("%w: sport is required", ErrInvalidInput)
	}
	if status != "" && !fixture.ValidStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	key := fmt.Sprintf("fixtures:sport:%s:%s", sport, status)
	return s.cachedList(ctx, key, func(ctx context.Context) ([]fixture.Fixture, error) {
		return s.store.ListBySport(ctx, sport, status, s.limit)
	})
}

// FixtureByID returns one fixture by its public id.
func (s *FixtureService) FixtureByID(ctx context.Context, id string) (*fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.FixtureByID")
	defer span.End()

	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	record, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find fixture %s: %w", id, err)
	}
	if record == nil {
		return nil, fmt.Errorf("%w: fixture %s", ErrNotFound, id)
	}
	return record, nil
}

func (s *FixtureService) listByStatus(ctx context.Context, status string) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.listByStatus")
	defer span.End()

	key := "fixtures:status:" + status
	return s.cachedList(ctx, key, func(ctx context.Context) ([]fixture.Fixture, error) {
		return s.store.ListByStatus(ctx, status, s.limit)
	})
}

func (s *FixtureService) cachedList(ctx context.Context, key string, load func(context.Context) ([]fixture.Fixture, error)) ([]fixture.Fixture, error) {
	if s.cache == nil {
		return load(ctx)
	}
	value, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		return nil, err
	}
	records, ok := value.([]fixture.Fixture)
	if !ok {
		s.logger.WarnContext(ctx, "unexpected cache entry type, reloading", "key", key)
		return load(ctx)
	}
	return records, nil
}
