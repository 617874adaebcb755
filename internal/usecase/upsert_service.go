package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/matchpulse/fixture-sync/internal/domain/fixture"
	"github.com/matchpulse/fixture-sync/internal/platform/id"
	"github.com/matchpulse/fixture-sync/internal/platform/logging"
	"github.com/matchpulse/fixture-sync/internal/platform/pubsub"
)

const (
	TopicFixtureCreated = "fixture.created"
	TopicFixtureUpdated = "fixture.updated"
)

type fixtureUpsertStore interface {
	FindByExternalID(ctx context.Context, externalID string) (*fixture.Fixture, error)
	Insert(ctx context.Context, record *fixture.Fixture) error
	UpdateByID(ctx context.Context, record *fixture.Fixture) error
}

type eventPublisher interface {
	Publish(ctx context.Context, evt pubsub.Event)
}

// UpsertService applies provider records to the store. Writes for the
// same external id are serialized through a per-key lock; different
// keys proceed concurrently.
type UpsertService struct {
	store  fixtureUpsertStore
	ids    id.Generator
	bus    eventPublisher
	logger *logging.Logger
	now    func() time.Time

	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func NewUpsertService(store fixtureUpsertStore, ids id.Generator, bus eventPublisher, logger *logging.Logger) *UpsertService {
	if logger == nil {
		logger = logging.Default()
	}
	return &UpsertService{
		store:  store,
		ids:    ids,
		bus:    bus,
		logger: logger,
		now:    time.Now,
		locks:  make(map[string]*keyLock),
	}
}

// Upsert inserts or refreshes one fixture keyed by its external id.
// Provider-owned core fields overwrite the stored record; enrichment
// written by other flows (head-to-head, odds) survives a refresh.
func (s *UpsertService) Upsert(ctx context.Context, record fixture.Fixture) (fixture.Fixture, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UpsertService.Upsert")
	defer span.End()

	if err := validateIncoming(&record); err != nil {
		return fixture.Fixture{}, false, err
	}

	unlock := s.lockKey(record.ExternalID)
	defer unlock()

	existing, err := s.store.FindByExternalID(ctx, record.ExternalID)
	if err != nil {
		return fixture.Fixture{}, false, fmt.Errorf("find fixture %s: %w", record.ExternalID, err)
	}

	now := s.now().UTC()
	if existing == nil {
		newID, err := s.ids.NewID()
		if err != nil {
			return fixture.Fixture{}, false, fmt.Errorf("generate fixture id: %w", err)
		}
		record.ID = newID
		record.CreatedAt = now
		record.UpdatedAt = now
		if err := s.store.Insert(ctx, &record); err != nil {
			return fixture.Fixture{}, false, fmt.Errorf("insert fixture %s: %w", record.ExternalID, err)
		}
		s.publish(ctx, TopicFixtureCreated, record.ExternalID)
		return record, true, nil
	}

	merged := mergeFixture(*existing, record)
	merged.UpdatedAt = now
	if err := s.store.UpdateByID(ctx, &merged); err != nil {
		return fixture.Fixture{}, false, fmt.Errorf("update fixture %s: %w", record.ExternalID, err)
	}
	s.publish(ctx, TopicFixtureUpdated, record.ExternalID)
	return merged, false, nil
}

// ApplyHeadToHead attaches head-to-head aggregates to a stored fixture.
func (s *UpsertService) ApplyHeadToHead(ctx context.Context, externalID string, summary *fixture.HeadToHead) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.UpsertService.ApplyHeadToHead")
	defer span.End()

	if summary == nil {
		return fmt.Errorf("%w: head-to-head summary is required", ErrInvalidInput)
	}

	unlock := s.lockKey(externalID)
	defer unlock()

	existing, err := s.store.FindByExternalID(ctx, externalID)
	if err != nil {
		return fmt.Errorf("find fixture %s: %w", externalID, err)
	}
	if existing == nil {
		return fmt.Errorf("%w: fixture %s", ErrNotFound, externalID)
	}

	existing.HeadToHead = summary
	existing.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateByID(ctx, existing); err != nil {
		return fmt.Errorf("update fixture %s: %w", externalID, err)
	}
	s.publish(ctx, TopicFixtureUpdated, externalID)
	return nil
}

// ApplyOdds attaches match-winner prices to a stored fixture.
func (s *UpsertService) ApplyOdds(ctx context.Context, externalID string, home, draw, away float64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.UpsertService.ApplyOdds")
	defer span.End()

	unlock := s.lockKey(externalID)
	defer unlock()

	existing, err := s.store.FindByExternalID(ctx, externalID)
	if err != nil {
		return fmt.Errorf("find fixture %s: %w", externalID, err)
	}
	if existing == nil {
		return fmt.Errorf("%w: fixture %s", ErrNotFound, externalID)
	}

	existing.HomeOdds = &home
	existing.DrawOdds = &draw
	existing.AwayOdds = &away
	existing.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateByID(ctx, existing); err != nil {
		return fmt.Errorf("update fixture %s: %w", externalID, err)
	}
	s.publish(ctx, TopicFixtureUpdated, externalID)
	return nil
}

func (s *UpsertService) publish(ctx context.Context, topic, externalID string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, pubsub.Event{Topic: topic, Payload: externalID})
}

// lockKey serializes access to one external id. Locks are refcounted
// so the map does not grow with the total number of fixtures seen.
func (s *UpsertService) lockKey(key string) func() {
	s.mu.Lock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &keyLock{}
		s.locks[key] = lock
	}
	lock.refs++
	s.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		s.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(s.locks, key)
		}
		s.mu.Unlock()
	}
}

func validateIncoming(record *fixture.Fixture) error {
	record.ExternalID = strings.TrimSpace(record.ExternalID)
	record.League = strings.TrimSpace(record.League)
	record.Venue = strings.TrimSpace(record.Venue)
	record.HomeTeam.Name = strings.TrimSpace(record.HomeTeam.Name)
	record.AwayTeam.Name = strings.TrimSpace(record.AwayTeam.Name)

	if _, _, err := fixture.SplitExternalID(record.ExternalID); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if record.Sport == "" {
		record.Sport = fixture.SportFootball
	}
	if record.HomeTeam.Name == "" {
		record.HomeTeam.Name = "TBD"
	}
	if record.AwayTeam.Name == "" {
		record.AwayTeam.Name = "TBD"
	}
	if record.StartTime.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrInvalidInput)
	}
	if !fixture.ValidStatus(record.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, record.Status)
	}
	return nil
}

// mergeFixture refreshes provider-owned core fields while keeping
// identity and enrichment from the stored row.
func mergeFixture(existing, incoming fixture.Fixture) fixture.Fixture {
	merged := existing

	merged.Sport = incoming.Sport
	merged.StartTime = incoming.StartTime
	merged.Status = incoming.Status
	merged.HomeTeam.Name = incoming.HomeTeam.Name
	merged.AwayTeam.Name = incoming.AwayTeam.Name
	merged.HomeTeam.Score = incoming.HomeTeam.Score
	merged.AwayTeam.Score = incoming.AwayTeam.Score

	merged.League = incoming.League
	merged.Venue = incoming.Venue
	merged.HomeTeam.Logo = incoming.HomeTeam.Logo
	merged.AwayTeam.Logo = incoming.AwayTeam.Logo

	// Odds are owned by the backfill pass; a provider record without
	// prices must not erase them on refresh.
	if incoming.HomeOdds != nil {
		merged.HomeOdds = incoming.HomeOdds
	}
	if incoming.DrawOdds != nil {
		merged.DrawOdds = incoming.DrawOdds
	}
	if incoming.AwayOdds != nil {
		merged.AwayOdds = incoming.AwayOdds
	}
	if incoming.HeadToHead != nil {
		merged.HeadToHead = incoming.HeadToHead
	}

	return merged
}
