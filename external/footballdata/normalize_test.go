package footballdata

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
		"SCHEDULED": fixture.StatusScheduled,
		"TIMED":     fixture.StatusScheduled,
		"IN_PLAY":   fixture.StatusLive,
		"PAUSED":    fixture.StatusLive,
		"FINISHED":  fixture.StatusCompleted,
		"AWARDED":   fixture.StatusCompleted,
		"POSTPONED": fixture.StatusPostponed,
		"SUSPENDED": fixture.StatusPostponed,
		"CANCELLED": fixture.StatusCancelled,
		"SOMETHING": fixture.StatusScheduled,
	}

	for value, want := range cases {
		assert.Equal(t, want, normalizeStatus(value), "status %q", value)
	}
}

func TestNormalizeMatch(t *testing.T) {
	t.Parallel()

	three := 3
	zero := 0
	item := matchItem{
		ID:          420123,
		UTCDate:     "2026-03-14T20:00:00Z",
		Status:      "FINISHED",
		Venue:       "Etihad Stadium",
		Competition: competition{Name: "Premier League"},
		HomeTeam:    matchTeam{Name: "Manchester City", Crest: "https://crests.example/mci.png"},
		AwayTeam:    matchTeam{Name: "Fulham", Crest: "https://crests.example/ful.png"},
		Score:       matchScore{FullTime: scorePair{Home: &three, Away: &zero}},
	}

	record, err := normalizeMatch(item)
	require.NoError(t, err)

	assert.Equal(t, "footballdata-420123", record.ExternalID)
	assert.Equal(t, "Premier League", record.League)
	assert.Equal(t, fixture.StatusCompleted, record.Status)
	assert.Equal(t, "https://crests.example/mci.png", record.HomeTeam.Logo)
	assert.Equal(t, "https://crests.example/ful.png", record.AwayTeam.Logo)
	assert.Equal(t, 3, *record.HomeTeam.Score)
	assert.Equal(t, 0, *record.AwayTeam.Score)
	assert.Equal(t, time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC), record.StartTime)
}

func TestNormalizeMatch_Rejections(t *testing.T) {
	t.Parallel()

	valid := matchItem{
		ID:       1,
		UTCDate:  "2026-03-14T20:00:00Z",
		HomeTeam: matchTeam{Name: "A"},
		AwayTeam: matchTeam{Name: "B"},
	}

	missingID := valid
	missingID.ID = 0
	_, err := normalizeMatch(missingID)
	assert.Error(t, err)

	badDate := valid
	badDate.UTCDate = "14/03/2026"
	_, err = normalizeMatch(badDate)
	assert.Error(t, err)
}

func TestNormalizeMatch_TeamNameFallbacks(t *testing.T) {
	t.Parallel()

	item := matchItem{
		ID:       2,
		UTCDate:  "2026-03-14T20:00:00Z",
		HomeTeam: matchTeam{ShortName: "Wolves"},
		AwayTeam: matchTeam{},
	}

	record, err := normalizeMatch(item)
	require.NoError(t, err, "unnamed teams must not drop the match")
	assert.Equal(t, "Wolves", record.HomeTeam.Name)
	assert.Equal(t, "TBD", record.AwayTeam.Name)
}
