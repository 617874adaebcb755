package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/matchpulse/fixture-sync/internal/domain/fixture"
	"github.com/matchpulse/fixture-sync/internal/infrastructure/repository/memory"
	"github.com/matchpulse/fixture-sync/internal/platform/id"
	"github.com/matchpulse/fixture-sync/internal/platform/logging"
	"github.com/matchpulse/fixture-sync/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	name       string
	partitions []provider.Partition
	fetch      func(ctx context.Context, part provider.Partition) ([]fixture.Fixture, error)
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Partitions() []provider.Partition { return s.partitions }

func (s *stubSource) FetchFixtures(ctx context.Context, part provider.Partition) ([]fixture.Fixture, error) {
	return s.fetch(ctx, part)
}

// stubH2HSource marks a source as head-to-head capable.
type stubH2HSource struct {
	stubSource
}

func (s *stubH2HSource) FetchHeadToHead(ctx context.Context, nativeID string) ([]provider.Meeting, error) {
	return nil, nil
}

type recordingEnricher struct {
	mu        sync.Mutex
	scheduled []string
}

func (r *recordingEnricher) Schedule(_ context.Context, record fixture.Fixture) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scheduled = append(r.scheduled, record.ExternalID)
}

func (r *recordingEnricher) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.scheduled...)
}

func syncRecord(externalID string) fixture.Fixture {
	return fixture.Fixture{
		ExternalID: externalID,
		Sport:      "football",
		League:     "Premier League",
		HomeTeam:   fixture.Team{Name: "Arsenal"},
		AwayTeam:   fixture.Team{Name: "Chelsea"},
		StartTime:  time.Date(2026, 9, 5, 15, 0, 0, 0, time.UTC),
		Status:     fixture.StatusScheduled,
	}
}

func newSyncFixture(t *testing.T, sources []provider.Source, enricher enrichmentScheduler) (*SyncService, *memory.FixtureRepository) {
	t.Helper()
	repo := memory.NewFixtureRepository()
	upserter := NewUpsertService(repo, id.NewRandomGenerator(), nil, logging.NewNop())
	svc := NewSyncService(SyncServiceConfig{
		Sources:  sources,
		Upserter: upserter,
		Enricher: enricher,
		Logger:   logging.NewNop(),
	})
	return svc, repo
}

func TestSyncServiceAggregatesAcrossProviders(t *testing.T) {
	alpha := &stubSource{
		name:       "alpha",
		partitions: []provider.Partition{{Key: "a"}},
		fetch: func(context.Context, provider.Partition) ([]fixture.Fixture, error) {
			return []fixture.Fixture{syncRecord("alpha-1"), syncRecord("alpha-2")}, nil
		},
	}
	beta := &stubSource{
		name:       "beta",
		partitions: []provider.Partition{{Key: "b"}},
		fetch: func(context.Context, provider.Partition) ([]fixture.Fixture, error) {
			return []fixture.Fixture{syncRecord("beta-1")}, nil
		},
	}

	svc, repo := newSyncFixture(t, []provider.Source{alpha, beta}, nil)
	result, err := svc.SyncAll(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Sources, 2)

	byProvider := map[string]SourceResult{}
	for _, sr := range result.Sources {
		byProvider[sr.Provider] = sr
	}
	assert.Equal(t, 2, byProvider["alpha"].Created)
	assert.Equal(t, 1, byProvider["beta"].Created)

	stored, err := repo.FindByExternalID(context.Background(), "alpha-2")
	require.NoError(t, err)
	assert.Equal(t, "Arsenal", stored.HomeTeam.Name)

	// A second pass over the same feed updates instead of creating.
	result, err = svc.SyncAll(context.Background())
	require.NoError(t, err)
	for _, sr := range result.Sources {
		assert.Zero(t, sr.Created, sr.Provider)
	}
	assert.NotNil(t, svc.LastResult())
}

func TestSyncServicePartitionFailureIsContained(t *testing.T) {
	src := &stubSource{
		name: "alpha",
		partitions: []provider.Partition{
			{Key: "broken"},
			{Key: "healthy"},
		},
		fetch: func(_ context.Context, part provider.Partition) ([]fixture.Fixture, error) {
			if part.Key == "broken" {
				return nil, &provider.Error{Provider: "alpha", Kind: provider.ErrorKindNetwork, Err: errors.New("upstream down")}
			}
			return []fixture.Fixture{syncRecord("alpha-9")}, nil
		},
	}

	svc, repo := newSyncFixture(t, []provider.Source{src}, nil)
	result, err := svc.SyncAll(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Sources, 1)
	assert.Equal(t, 1, result.Sources[0].Created)
	assert.Len(t, result.Sources[0].Errors, 1)

	_, err = repo.FindByExternalID(context.Background(), "alpha-9")
	assert.NoError(t, err)
}

func TestSyncServiceFailingProviderDoesNotSinkOthers(t *testing.T) {
	broken := &stubSource{
		name:       "broken",
		partitions: []provider.Partition{{Key: "x"}},
		fetch: func(context.Context, provider.Partition) ([]fixture.Fixture, error) {
			return nil, errors.New("boom")
		},
	}
	healthy := &stubSource{
		name:       "healthy",
		partitions: []provider.Partition{{Key: "y"}},
		fetch: func(context.Context, provider.Partition) ([]fixture.Fixture, error) {
			return []fixture.Fixture{syncRecord("healthy-1")}, nil
		},
	}

	svc, _ := newSyncFixture(t, []provider.Source{broken, healthy}, nil)
	result, err := svc.SyncAll(context.Background())
	require.NoError(t, err)

	byProvider := map[string]SourceResult{}
	for _, sr := range result.Sources {
		byProvider[sr.Provider] = sr
	}
	assert.Len(t, byProvider["broken"].Errors, 1)
	assert.Zero(t, byProvider["broken"].Fetched)
	assert.Equal(t, 1, byProvider["healthy"].Created)
}

func TestSyncServiceCapsRecordsPerProvider(t *testing.T) {
	src := &stubSource{
		name:       "alpha",
		partitions: []provider.Partition{{Key: "a"}},
		fetch: func(context.Context, provider.Partition) ([]fixture.Fixture, error) {
			records := make([]fixture.Fixture, 0, 80)
			for i := 0; i < 80; i++ {
				records = append(records, syncRecord(fmt.Sprintf("alpha-%d", i)))
			}
			return records, nil
		},
	}

	svc, _ := newSyncFixture(t, []provider.Source{src}, nil)
	result, err := svc.SyncAll(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Sources, 1)
	assert.Equal(t, 50, result.Sources[0].Fetched)
	assert.Equal(t, 50, result.Sources[0].Created)
}

func TestSyncServiceRejectsOverlappingRuns(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	src := &stubSource{
		name:       "slow",
		partitions: []provider.Partition{{Key: "a"}},
		fetch: func(context.Context, provider.Partition) ([]fixture.Fixture, error) {
			close(started)
			<-release
			return nil, nil
		},
	}

	svc, _ := newSyncFixture(t, []provider.Source{src}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := svc.SyncAll(context.Background())
		done <- err
	}()

	<-started
	assert.True(t, svc.Running())
	_, err := svc.SyncAll(context.Background())
	assert.ErrorIs(t, err, ErrSyncAlreadyRunning)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, svc.Running())
}

func TestSyncServiceSchedulesEnrichmentOnCreateOnly(t *testing.T) {
	src := &stubH2HSource{stubSource: stubSource{
		name:       "sofascore",
		partitions: []provider.Partition{{Key: "tournament-17"}},
		fetch: func(context.Context, provider.Partition) ([]fixture.Fixture, error) {
			return []fixture.Fixture{syncRecord("sofascore-555")}, nil
		},
	}}
	enricher := &recordingEnricher{}

	svc, _ := newSyncFixture(t, []provider.Source{src}, enricher)

	_, err := svc.SyncAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"sofascore-555"}, enricher.all())

	// Refreshing an existing fixture does not re-schedule enrichment.
	_, err = svc.SyncAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"sofascore-555"}, enricher.all())
}

func TestSyncServiceNoEnrichmentForPlainSources(t *testing.T) {
	src := &stubSource{
		name:       "betika",
		partitions: []provider.Partition{{Key: "upcoming"}},
		fetch: func(context.Context, provider.Partition) ([]fixture.Fixture, error) {
			return []fixture.Fixture{syncRecord("betika-1")}, nil
		},
	}
	enricher := &recordingEnricher{}

	svc, _ := newSyncFixture(t, []provider.Source{src}, enricher)
	_, err := svc.SyncAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, enricher.all())
}
