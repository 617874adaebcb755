package footballdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matchpulse/fixture-sync/internal/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_FetchFixturesRequestsUpcomingOnly(t *testing.T) {
	t.Parallel()

	var gotPath, gotStatus string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotStatus = r.URL.Query().Get("status")
		_, _ = w.Write([]byte(`{
			"matches": [
				{
					"id": 420200,
					"utcDate": "2026-03-21T15:00:00Z",
					"status": "TIMED",
					"competition": {"name": "Premier League"},
					"homeTeam": {"name": "Brentford"},
					"awayTeam": {"name": "Everton"},
					"score": {"fullTime": {}}
				}
			]
		}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{BaseURL: server.URL, Token: "token"})

	records, err := client.FetchFixtures(context.Background(), provider.Partition{Key: "PL", Name: "Premier League"})
	require.NoError(t, err)

	assert.Equal(t, "/competitions/PL/matches", gotPath)
	assert.Equal(t, "SCHEDULED,TIMED", gotStatus, "the feed must be narrowed to upcoming matches")
	require.Len(t, records, 1)
	assert.Equal(t, "footballdata-420200", records[0].ExternalID)
}
