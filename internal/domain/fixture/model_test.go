package fixture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildExternalID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "sofascore-555", BuildExternalID("sofascore", "555"))
	assert.Equal(t, "betika-evt-42", BuildExternalID("betika", "evt-42"))
}

func TestSplitExternalID(t *testing.T) {
	t.Parallel()

	provider, nativeID, err := SplitExternalID("apifootball-98765")
	require.NoError(t, err)
	assert.Equal(t, "apifootball", provider)
	assert.Equal(t, "98765", nativeID)

	// native ids may themselves contain dashes
	provider, nativeID, err = SplitExternalID("betika-evt-42")
	require.NoError(t, err)
	assert.Equal(t, "betika", provider)
	assert.Equal(t, "evt-42", nativeID)

	for _, bad := range []string{"", "noprefix", "-555", "sofascore-"} {
		_, _, err := SplitExternalID(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestValidStatus(t *testing.T) {
	t.Parallel()

	for _, status := range []string{StatusScheduled, StatusLive, StatusCompleted, StatusPostponed, StatusCancelled} {
		assert.True(t, ValidStatus(status))
	}
	assert.False(t, ValidStatus("FT"))
	assert.False(t, ValidStatus(""))
}

func TestFixture_HasOdds(t *testing.T) {
	t.Parallel()

	one := 1.85
	two := 3.4
	three := 4.2

	assert.False(t, Fixture{HomeOdds: &one, DrawOdds: &two}.HasOdds())
	assert.True(t, Fixture{HomeOdds: &one, DrawOdds: &two, AwayOdds: &three}.HasOdds())
}

func TestFixture_Provider(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "sportsdb", Fixture{ExternalID: "sportsdb-602"}.Provider())
	assert.Equal(t, "", Fixture{ExternalID: "broken"}.Provider())
}
