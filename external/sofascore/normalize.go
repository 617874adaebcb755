package sofascore

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/matchpulse/fixture-sync/internal/domain/fixture"
	"github.com/matchpulse/fixture-sync/internal/provider"
)

func normalizeStatus(statusType string) string {
	switch strings.ToLower(strings.TrimSpace(statusType)) {
	case "notstarted":
		return fixture.StatusScheduled
	case "inprogress":
		return fixture.StatusLive
	case "finished":
		return fixture.StatusCompleted
	case "postponed":
		return fixture.StatusPostponed
	case "canceled", "cancelled":
		return fixture.StatusCancelled
	default:
		return fixture.StatusScheduled
	}
}

func normalizeEvent(item eventItem) (fixture.Fixture, error) {
	if item.ID <= 0 {
		return fixture.Fixture{}, fmt.Errorf("missing event id")
	}
	if item.StartTimestamp <= 0 {
		return fixture.Fixture{}, fmt.Errorf("missing start timestamp")
	}

	return fixture.Fixture{
		ExternalID: fixture.BuildExternalID(providerName, strconv.FormatInt(item.ID, 10)),
		Sport:      fixture.SportFootball,
		League:     strings.TrimSpace(item.Tournament.Name),
		HomeTeam: fixture.Team{
			Name:  teamName(item.HomeTeam.Name),
			Logo:  teamLogoURL(item.HomeTeam.ID),
			Score: item.HomeScore.Current,
		},
		AwayTeam: fixture.Team{
			Name:  teamName(item.AwayTeam.Name),
			Logo:  teamLogoURL(item.AwayTeam.ID),
			Score: item.AwayScore.Current,
		},
		StartTime: time.Unix(item.StartTimestamp, 0).UTC(),
		Status:    normalizeStatus(item.Status.Type),
		Venue:     strings.TrimSpace(item.Venue.Stadium.Name),
	}, nil
}

// teamName falls back to the TBD placeholder so a record is never
// dropped over a missing name.
func teamName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "TBD"
	}
	return value
}

// teamLogoURL builds the public team image URL from the team id.
func teamLogoURL(teamID int64) string {
	if teamID <= 0 {
		return ""
	}
	return fmt.Sprintf("%s/team/%d/image", defaultBaseURL, teamID)
}

// normalizeMeetings converts finished head-to-head events into
// meetings, newest first.
func normalizeMeetings(envelope eventsEnvelope) []provider.Meeting {
	out := make([]provider.Meeting, 0, len(envelope.Events))
	for _, item := range envelope.Events {
		if normalizeStatus(item.Status.Type) != fixture.StatusCompleted {
			continue
		}
		if item.HomeScore.Current == nil || item.AwayScore.Current == nil {
			continue
		}
		home := strings.TrimSpace(item.HomeTeam.Name)
		away := strings.TrimSpace(item.AwayTeam.Name)
		if home == "" || away == "" || item.StartTimestamp <= 0 {
			continue
		}
		out = append(out, provider.Meeting{
			HomeTeam:  home,
			AwayTeam:  away,
			HomeScore: *item.HomeScore.Current,
			AwayScore: *item.AwayScore.Current,
			PlayedAt:  time.Unix(item.StartTimestamp, 0).UTC(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PlayedAt.After(out[j].PlayedAt)
	})
	return out
}
