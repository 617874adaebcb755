package betika

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapeFixtures_PrebetMarkup(t *testing.T) {
	t.Parallel()

	html := []byte(`
		<html><body>
			<div class="prebet-match" data-event-id="9001">
				<span class="teams">Gor Mahia vs AFC Leopards</span>
				<span class="time">Today 15:30</span>
				<span class="odds">1.95 3.10 3.85</span>
			</div>
			<div class="prebet-match" data-event-id="9002">
				<span class="teams">Tusker FC v Ulinzi Stars</span>
				<span class="time">22/02 13:00</span>
			</div>
		</body></html>`)

	records, err := scrapeFixtures(html, testNow)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "betika-9001", records[0].ExternalID)
	assert.Equal(t, "Gor Mahia", records[0].HomeTeam.Name)
	assert.Equal(t, "AFC Leopards", records[0].AwayTeam.Name)
	assert.Equal(t, time.Date(2026, 2, 21, 15, 30, 0, 0, time.UTC), records[0].StartTime)

	assert.Equal(t, "betika-9002", records[1].ExternalID)
	assert.Equal(t, "Tusker FC", records[1].HomeTeam.Name)
	assert.Equal(t, "Ulinzi Stars", records[1].AwayTeam.Name)
}

func TestScrapeFixtures_FallbackSelector(t *testing.T) {
	t.Parallel()

	html := []byte(`
		<html><body>
			<div class="match-item">Leeds United vs Norwich City</div>
		</body></html>`)

	records, err := scrapeFixtures(html, testNow)
	require.NoError(t, err)
	require.Len(t, records, 1)

	// no data-event-id, so the id is derived from team names
	assert.Equal(t, "betika-leeds-united-norwich-city", records[0].ExternalID)
	assert.Equal(t, testNow.Add(time.Hour).UTC(), records[0].StartTime)
}

func TestScrapeFixtures_NoMatchesIsSoftFailure(t *testing.T) {
	t.Parallel()

	records, err := scrapeFixtures([]byte("<html><body><p>maintenance</p></body></html>"), testNow)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestScrapeFixtures_DuplicateEventIDsCollapse(t *testing.T) {
	t.Parallel()

	html := []byte(`
		<html><body>
			<div class="bet-event" data-event-id="42">Shabana vs Sofapaka</div>
			<div class="bet-event" data-event-id="42">Shabana vs Sofapaka</div>
		</body></html>`)

	records, err := scrapeFixtures(html, testNow)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
