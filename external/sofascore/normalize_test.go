package sofascore

import (
	"testing"
	"time"

	"github.com/matchpulse/fixture-sync/internal/domain/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStatus(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"notstarted": fixture.StatusScheduled,
		"inprogress": fixture.StatusLive,
		"finished":   fixture.StatusCompleted,
		"postponed":  fixture.StatusPostponed,
		"canceled":   fixture.StatusCancelled,
		"willcontinue": fixture.StatusScheduled,
		"":           fixture.StatusScheduled,
	}

	for statusType, want := range cases {
		assert.Equal(t, want, normalizeStatus(statusType), "status type %q", statusType)
	}
}

func TestNormalizeEvent(t *testing.T) {
	t.Parallel()

	one := 1
	zero := 0
	item := eventItem{
		ID:             555,
		Tournament:     tournament{ID: 17, Name: "Premier League"},
		HomeTeam:       team{ID: 42, Name: "Arsenal"},
		AwayTeam:       team{ID: 38, Name: "Chelsea"},
		HomeScore:      score{Current: &one},
		AwayScore:      score{Current: &zero},
		Status:         status{Type: "inprogress"},
		StartTimestamp: time.Date(2026, 5, 2, 16, 30, 0, 0, time.UTC).Unix(),
		Venue:          venue{Stadium: stadium{Name: "Emirates Stadium"}},
	}

	record, err := normalizeEvent(item)
	require.NoError(t, err)

	assert.Equal(t, "sofascore-555", record.ExternalID)
	assert.Equal(t, "Premier League", record.League)
	assert.Equal(t, "Arsenal", record.HomeTeam.Name)
	assert.Equal(t, "https://api.sofascore.com/api/v1/team/42/image", record.HomeTeam.Logo)
	assert.Equal(t, "https://api.sofascore.com/api/v1/team/38/image", record.AwayTeam.Logo)
	assert.Equal(t, 1, *record.HomeTeam.Score)
	assert.Equal(t, 0, *record.AwayTeam.Score)
	assert.Equal(t, fixture.StatusLive, record.Status)
	assert.Equal(t, "Emirates Stadium", record.Venue)
	assert.Equal(t, time.Date(2026, 5, 2, 16, 30, 0, 0, time.UTC), record.StartTime)
}

func TestNormalizeEvent_Rejections(t *testing.T) {
	t.Parallel()

	valid := eventItem{
		ID:             1,
		HomeTeam:       team{Name: "A"},
		AwayTeam:       team{Name: "B"},
		StartTimestamp: 1700000000,
	}

	missingID := valid
	missingID.ID = 0
	_, err := normalizeEvent(missingID)
	assert.Error(t, err)

	missingStart := valid
	missingStart.StartTimestamp = 0
	_, err = normalizeEvent(missingStart)
	assert.Error(t, err)

	missingTeam := valid
	missingTeam.HomeTeam = team{}
	record, err := normalizeEvent(missingTeam)
	require.NoError(t, err, "a nameless team is not a reason to drop the event")
	assert.Equal(t, "TBD", record.HomeTeam.Name)
	assert.Empty(t, record.HomeTeam.Logo)
}

func TestNormalizeMeetings(t *testing.T) {
	t.Parallel()

	two := 2
	one := 1
	zero := 0

	envelope := eventsEnvelope{
		Events: []eventItem{
			{
				HomeTeam:       team{Name: "Arsenal"},
				AwayTeam:       team{Name: "Chelsea"},
				HomeScore:      score{Current: &two},
				AwayScore:      score{Current: &one},
				Status:         status{Type: "finished"},
				StartTimestamp: time.Date(2025, 11, 2, 15, 0, 0, 0, time.UTC).Unix(),
			},
			{
				// still in play, must be ignored
				HomeTeam:       team{Name: "Chelsea"},
				AwayTeam:       team{Name: "Arsenal"},
				HomeScore:      score{Current: &one},
				AwayScore:      score{Current: &one},
				Status:         status{Type: "inprogress"},
				StartTimestamp: time.Date(2026, 5, 2, 15, 0, 0, 0, time.UTC).Unix(),
			},
			{
				HomeTeam:       team{Name: "Chelsea"},
				AwayTeam:       team{Name: "Arsenal"},
				HomeScore:      score{Current: &zero},
				AwayScore:      score{Current: &zero},
				Status:         status{Type: "finished"},
				StartTimestamp: time.Date(2026, 2, 14, 17, 30, 0, 0, time.UTC).Unix(),
			},
		},
	}

	meetings := normalizeMeetings(envelope)
	require.Len(t, meetings, 2)
	assert.Equal(t, "Chelsea", meetings[0].HomeTeam)
	assert.True(t, meetings[0].PlayedAt.After(meetings[1].PlayedAt), "meetings must be newest first")
}
