package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matchpulse/fixture-sync/internal/domain/fixture"
	"github.com/matchpulse/fixture-sync/internal/infrastructure/repository/memory"
	"github.com/matchpulse/fixture-sync/internal/platform/id"
	"github.com/matchpulse/fixture-sync/internal/platform/logging"
	"github.com/matchpulse/fixture-sync/internal/platform/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUpsertFixture(externalID string) fixture.Fixture {
	return fixture.Fixture{
		ExternalID: externalID,
		Sport:      fixture.SportFootball,
		League:     "Premier League",
		HomeTeam:   fixture.Team{Name: "Arsenal"},
		AwayTeam:   fixture.Team{Name: "Chelsea"},
		StartTime:  time.Date(2026, 5, 2, 16, 30, 0, 0, time.UTC),
		Status:     fixture.StatusScheduled,
	}
}

func newUpsertService(store fixtureUpsertStore) *UpsertService {
	return NewUpsertService(store, id.NewRandomGenerator(), nil, logging.NewNop())
}

func TestUpsertService_CreateThenRefresh(t *testing.T) {
	t.Parallel()

	repo := memory.NewFixtureRepository()
	svc := newUpsertService(repo)
	ctx := context.Background()

	created, wasCreated, err := svc.Upsert(ctx, newUpsertFixture("sofascore-555"))
	require.NoError(t, err)
	assert.True(t, wasCreated)
	assert.NotEmpty(t, created.ID)

	refresh := newUpsertFixture("sofascore-555")
	one := 1
	refresh.Status = fixture.StatusLive
	refresh.HomeTeam.Score = &one

	updated, wasCreated, err := svc.Upsert(ctx, refresh)
	require.NoError(t, err)
	assert.False(t, wasCreated)
	assert.Equal(t, created.ID, updated.ID, "refresh must not mint a new identity")
	assert.Equal(t, fixture.StatusLive, updated.Status)
	require.NotNil(t, updated.HomeTeam.Score)
	assert.Equal(t, 1, *updated.HomeTeam.Score)

	stored, err := repo.FindByExternalID(ctx, "sofascore-555")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, fixture.StatusLive, stored.Status)
}

func TestUpsertService_RefreshPreservesEnrichment(t *testing.T) {
	t.Parallel()

	repo := memory.NewFixtureRepository()
	svc := newUpsertService(repo)
	ctx := context.Background()

	_, _, err := svc.Upsert(ctx, newUpsertFixture("sofascore-555"))
	require.NoError(t, err)

	summary := &fixture.HeadToHead{HomeWins: 2, Draws: 2, AwayWins: 1}
	require.NoError(t, svc.ApplyHeadToHead(ctx, "sofascore-555", summary))
	require.NoError(t, svc.ApplyOdds(ctx, "sofascore-555", 1.85, 3.4, 4.2))

	refresh := newUpsertFixture("sofascore-555")
	refresh.Status = fixture.StatusLive
	_, _, err = svc.Upsert(ctx, refresh)
	require.NoError(t, err)

	stored, err := repo.FindByExternalID(ctx, "sofascore-555")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotNil(t, stored.HeadToHead)
	assert.Equal(t, 2, stored.HeadToHead.HomeWins)
	require.NotNil(t, stored.HomeOdds)
	assert.Equal(t, 1.85, *stored.HomeOdds)
	assert.Equal(t, fixture.StatusLive, stored.Status)
}

func TestUpsertService_ValidationRejections(t *testing.T) {
	t.Parallel()

	svc := newUpsertService(memory.NewFixtureRepository())
	ctx := context.Background()

	badKey := newUpsertFixture("broken")
	_, _, err := svc.Upsert(ctx, badKey)
	assert.ErrorIs(t, err, ErrInvalidInput)

	noStart := newUpsertFixture("sofascore-1")
	noStart.StartTime = time.Time{}
	_, _, err = svc.Upsert(ctx, noStart)
	assert.ErrorIs(t, err, ErrInvalidInput)

	rawStatus := newUpsertFixture("sofascore-1")
	rawStatus.Status = "FT"
	_, _, err = svc.Upsert(ctx, rawStatus)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpsertService_BlankTeamNamesDefaultToTBD(t *testing.T) {
	t.Parallel()

	repo := memory.NewFixtureRepository()
	svc := newUpsertService(repo)

	record := newUpsertFixture("sofascore-77")
	record.HomeTeam.Name = "  "
	record.AwayTeam.Name = ""

	created, _, err := svc.Upsert(context.Background(), record)
	require.NoError(t, err, "a missing name must not drop the record")
	assert.Equal(t, "TBD", created.HomeTeam.Name)
	assert.Equal(t, "TBD", created.AwayTeam.Name)
}

func TestUpsertService_RefreshOverwritesCoreFields(t *testing.T) {
	t.Parallel()

	repo := memory.NewFixtureRepository()
	svc := newUpsertService(repo)
	ctx := context.Background()

	first := newUpsertFixture("sofascore-88")
	first.Venue = "Emirates Stadium"
	first.HomeTeam.Logo = "https://img.example/arsenal.png"
	_, _, err := svc.Upsert(ctx, first)
	require.NoError(t, err)

	refresh := newUpsertFixture("sofascore-88")
	refresh.League = "FA Cup"
	refresh.Venue = ""
	refresh.HomeTeam.Logo = ""

	updated, _, err := svc.Upsert(ctx, refresh)
	require.NoError(t, err)
	assert.Equal(t, "FA Cup", updated.League)
	assert.Empty(t, updated.Venue, "the provider's latest payload wins, even when a field went blank")
	assert.Empty(t, updated.HomeTeam.Logo)
}

func TestUpsertService_ConcurrentSameKey(t *testing.T) {
	t.Parallel()

	repo := memory.NewFixtureRepository()
	svc := newUpsertService(repo)
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, _, err := svc.Upsert(ctx, newUpsertFixture("apifootball-42"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	records, err := repo.ListByStatus(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, records, 1, "same key must never produce duplicates")
}

func TestUpsertService_DistinctKeysDoNotBlock(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	store := &stallingStore{
		inner:    memory.NewFixtureRepository(),
		stallKey: "apifootball-1",
		release:  release,
	}
	svc := newUpsertService(store)
	ctx := context.Background()

	stalled := make(chan struct{})
	go func() {
		defer close(stalled)
		_, _, err := svc.Upsert(ctx, newUpsertFixture("apifootball-1"))
		assert.NoError(t, err)
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _, err := svc.Upsert(ctx, newUpsertFixture("apifootball-2"))
		assert.NoError(t, err)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("upsert on a different key waited behind a stalled one")
	}

	close(release)
	<-stalled
}

// stallingStore parks FindByExternalID for one key until released.
type stallingStore struct {
	inner    *memory.FixtureRepository
	stallKey string
	release  chan struct{}
}

func (s *stallingStore) FindByExternalID(ctx context.Context, externalID string) (*fixture.Fixture, error) {
	if externalID == s.stallKey {
		<-s.release
	}
	return s.inner.FindByExternalID(ctx, externalID)
}

func (s *stallingStore) Insert(ctx context.Context, record *fixture.Fixture) error {
	return s.inner.Insert(ctx, record)
}

func (s *stallingStore) UpdateByID(ctx context.Context, record *fixture.Fixture) error {
	return s.inner.UpdateByID(ctx, record)
}

func TestUpsertService_ApplyEnrichmentMissingFixture(t *testing.T) {
	t.Parallel()

	svc := newUpsertService(memory.NewFixtureRepository())
	ctx := context.Background()

	err := svc.ApplyHeadToHead(ctx, "sofascore-404", &fixture.HeadToHead{})
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.ApplyOdds(ctx, "sofascore-404", 1.5, 3.5, 5.0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertService_PublishesEvents(t *testing.T) {
	t.Parallel()

	repo := memory.NewFixtureRepository()
	bus := pubsub.NewBus(logging.NewNop())

	var mu sync.Mutex
	topics := make(map[string]int)
	for _, topic := range []string{TopicFixtureCreated, TopicFixtureUpdated} {
		topic := topic
		bus.Subscribe(topic, func(context.Context, pubsub.Event) {
			mu.Lock()
			topics[topic]++
			mu.Unlock()
		})
	}

	svc := NewUpsertService(repo, id.NewRandomGenerator(), bus, logging.NewNop())
	ctx := context.Background()

	_, _, err := svc.Upsert(ctx, newUpsertFixture("betika-7"))
	require.NoError(t, err)
	_, _, err = svc.Upsert(ctx, newUpsertFixture("betika-7"))
	require.NoError(t, err)
	bus.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, topics[TopicFixtureCreated])
	assert.Equal(t, 1, topics[TopicFixtureUpdated])
}

func TestUpsertService_StoreErrorIsWrapped(t *testing.T) {
	t.Parallel()

	svc := newUpsertService(failingStore{})
	_, _, err := svc.Upsert(context.Background(), newUpsertFixture("apifootball-9"))
	assert.ErrorIs(t, err, errStoreDown)
}

var errStoreDown = errors.New("store down")

type failingStore struct{}

func (failingStore) FindByExternalID(context.Context, string) (*fixture.Fixture, error) {
	return nil, errStoreDown
}

func (failingStore) Insert(context.Context, *fixture.Fixture) error { return errStoreDown }

func (failingStore) UpdateByID(context.Context, *fixture.Fixture) error { return errStoreDown }
