package footballdata

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/matchpulse/fixture-sync/internal/domain/fixture"
)

func normalizeStatus(value string) string {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "SCHEDULED", "TIMED":
		return fixture.StatusScheduled
	case "IN_PLAY", "PAUSED", "LIVE":
		return fixture.StatusLive
	case "FINISHED", "AWARDED":
		return fixture.StatusCompleted
	case "POSTPONED", "SUSPENDED":
		return fixture.StatusPostponed
	case "CANCELLED":
		return fixture.StatusCancelled
	default:
		return fixture.StatusScheduled
	}
}

func normalizeMatch(item matchItem) (fixture.Fixture, error) {
	if item.ID <= 0 {
		return fixture.Fixture{}, fmt.Errorf("missing match id")
	}

	startTime, err := time.Parse(time.RFC3339, item.UTCDate)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("parse kickoff %q: %w", item.UTCDate, err)
	}

	return fixture.Fixture{
		ExternalID: fixture.BuildExternalID(providerName, strconv.FormatInt(item.ID, 10)),
		Sport:      fixture.SportFootball,
		League:     strings.TrimSpace(item.Competition.Name),
		HomeTeam: fixture.Team{
			Name:  teamName(item.HomeTeam.Name, item.HomeTeam.ShortName),
			Logo:  strings.TrimSpace(item.HomeTeam.Crest),
			Score: item.Score.FullTime.Home,
		},
		AwayTeam: fixture.Team{
			Name:  teamName(item.AwayTeam.Name, item.AwayTeam.ShortName),
			Logo:  strings.TrimSpace(item.AwayTeam.Crest),
			Score: item.Score.FullTime.Away,
		},
		StartTime: startTime.UTC(),
		Status:    normalizeStatus(item.Status),
		Venue:     strings.TrimSpace(item.Venue),
	}, nil
}

// teamName prefers the full name, then the short name, then the TBD
// placeholder; a missing name never drops the record.
func teamName(name, shortName string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	if trimmed := strings.TrimSpace(shortName); trimmed != "" {
		return trimmed
	}
	return "TBD"
}
