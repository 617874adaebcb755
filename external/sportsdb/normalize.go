package sportsdb

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/matchpulse/fixture-sync/internal/domain/fixture"
)

func normalizeStatus(value string) string {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "", "NS", "NOT STARTED":
		return fixture.StatusScheduled
	case "1H", "2H", "HT", "ET", "LIVE":
		return fixture.StatusLive
	case "FT", "AET", "PEN", "MATCH FINISHED", "FINISHED":
		return fixture.StatusCompleted
	case "POSTPONED", "PST":
		return fixture.StatusPostponed
	case "CANCELLED", "CANC", "ABANDONED":
		return fixture.StatusCancelled
	default:
		return fixture.StatusScheduled
	}
}

// parseEventTime combines the date and time columns, falling back to
// the unix timestamp column. Events with no parseable time at all are
// dropped by the caller.
func parseEventTime(dateEvent, strTime, strTimestamp string) (time.Time, error) {
	dateEvent = strings.TrimSpace(dateEvent)
	strTime = strings.TrimSpace(strTime)

	if dateEvent != "" {
		if strTime != "" {
			for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
				if parsed, err := time.Parse(layout, dateEvent+" "+strTime); err == nil {
					return parsed, nil
				}
			}
		}
		if parsed, err := time.Parse("2006-01-02", dateEvent); err == nil {
			return parsed, nil
		}
	}

	if ts := strings.TrimSpace(strTimestamp); ts != "" {
		if unix, err := strconv.ParseInt(ts, 10, 64); err == nil && unix > 0 {
			return time.Unix(unix, 0), nil
		}
	}
	return time.Time{}, fmt.Errorf("no parseable event time")
}

func parseScore(value string) *int {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	score, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &score
}

func normalizeEvent(item eventItem) (fixture.Fixture, error) {
	if strings.TrimSpace(item.IDEvent) == "" {
		return fixture.Fixture{}, fmt.Errorf("missing event id")
	}

	startTime, err := parseEventTime(item.DateEvent, item.StrTime, item.StrTimestamp)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("parse event time: %w", err)
	}

	status := normalizeStatus(item.StrStatus)
	if status != fixture.StatusCompleted && strings.EqualFold(strings.TrimSpace(item.StrPostponed), "yes") {
		status = fixture.StatusPostponed
	}

	return fixture.Fixture{
		ExternalID: fixture.BuildExternalID(providerName, strings.TrimSpace(item.IDEvent)),
		Sport:      fixture.SportFootball,
		League:     strings.TrimSpace(item.StrLeague),
		HomeTeam: fixture.Team{
			Name:  teamName(item.StrHomeTeam),
			Logo:  strings.TrimSpace(item.StrHomeTeamBadge),
			Score: parseScore(item.IntHomeScore),
		},
		AwayTeam: fixture.Team{
			Name:  teamName(item.StrAwayTeam),
			Logo:  strings.TrimSpace(item.StrAwayTeamBadge),
			Score: parseScore(item.IntAwayScore),
		},
		StartTime: startTime.UTC(),
		Status:    status,
		Venue:     strings.TrimSpace(item.StrVenue),
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
