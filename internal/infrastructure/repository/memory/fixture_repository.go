package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/matchpulse/fixture-sync/internal/domain/fixture"
)

// FixtureRepository is the in-memory store used by tests and local
// runs without Postgres.
type FixtureRepository struct {
	mu         sync.RWMutex
	byID       map[string]fixture.Fixture
	byExternal map[string]string
}

func NewFixtureRepository() *FixtureRepository {
	return &FixtureRepository{
		byID:       make(map[string]fixture.Fixture),
		byExternal: make(map[string]string),
	}
}

func (r *FixtureRepository) FindByID(_ context.Context, id string) (*fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	out := cloneFixture(record)
	return &out, nil
}

func (r *FixtureRepository) FindByExternalID(_ context.Context, externalID string) (*fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byExternal[externalID]
	if !ok {
		return nil, nil
	}
	record := r.byID[id]
	out := cloneFixture(record)
	return &out, nil
}

func (r *FixtureRepository) Insert(_ context.Context, record *fixture.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.byExternal[record.ExternalID]; dup {
		return fixtureConflictError(record.ExternalID)
	}
	r.byID[record.ID] = cloneFixture(*record)
	r.byExternal[record.ExternalID] = record.ID
	return nil
}

func (r *FixtureRepository) UpdateByID(_ context.Context, record *fixture.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[record.ID]
	if !ok {
		return fixtureMissingError(record.ID)
	}
	delete(r.byExternal, existing.ExternalID)
	r.byID[record.ID] = cloneFixture(*record)
	r.byExternal[record.ExternalID] = record.ID
	return nil
}

func (r *FixtureRepository) ListByStatus(_ context.Context, status string, limit int) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(item fixture.Fixture) bool {
		return status == "" || item.Status == status
	}, limit), nil
}

func (r *FixtureRepository) ListBySport(_ context.Context, sport, status string, limit int) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(item fixture.Fixture) bool {
		if !strings.EqualFold(item.Sport, sport) {
			return false
		}
		return status == "" || item.Status == status
	}, limit), nil
}

func (r *FixtureRepository) ListMissingOdds(_ context.Context, providerPrefix string, limit int) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(item fixture.Fixture) bool {
		if item.HasOdds() || fixture.IsTerminalStatus(item.Status) {
			return false
		}
		return providerPrefix == "" || item.Provider() == providerPrefix
	}, limit), nil
}

func (r *FixtureRepository) collect(keep func(fixture.Fixture) bool, limit int) []fixture.Fixture {
	out := make([]fixture.Fixture, 0, len(r.byID))
	for _, item := range r.byID {
		if keep(item) {
			out = append(out, cloneFixture(item))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ExternalID < out[j].ExternalID
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func cloneFixture(record fixture.Fixture) fixture.Fixture {
	out := record
	out.HomeTeam.Score = clonePtr(record.HomeTeam.Score)
	out.AwayTeam.Score = clonePtr(record.AwayTeam.Score)
	out.HomeOdds = clonePtr(record.HomeOdds)
	out.DrawOdds = clonePtr(record.DrawOdds)
	out.AwayOdds = clonePtr(record.AwayOdds)
	if record.HeadToHead != nil {
		summary := *record.HeadToHead
		summary.LastMatches = append([]fixture.Meeting(nil), record.HeadToHead.LastMatches...)
		out.HeadToHead = &summary
	}
	return out
}

func clonePtr[T any](value *T) *T {
	if value == nil {
		return nil
	}
	out := *value
	return &out
}

type repoError string

func (e repoError) Error() string { return string(e) }

func fixtureConflictError(externalID string) error {
	return repoError("fixture already exists: " + externalID)
}

func fixtureMissingError(id string) error {
	return repoError("fixture not found: " + id)
}
