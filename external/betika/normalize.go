package betika

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/matchpulse/fixture-sync/internal/domain/fixture"
)

// normalizeMatch converts one API record. Betika only lists upcoming
// matches, so everything lands as SCHEDULED.
func normalizeMatch(item matchItem, now time.Time) (fixture.Fixture, error) {
	if item.ParentMatchID <= 0 {
		return fixture.Fixture{}, fmt.Errorf("missing match id")
	}

	home := teamName(item.HomeTeam)
	away := teamName(item.AwayTeam)

	startTime, err := time.Parse("2006-01-02 15:04:05", strings.TrimSpace(item.StartTime))
	if err != nil {
		startTime = parseDisplayTime(item.StartTime, now)
	}

	record := fixture.Fixture{
		ExternalID: fixture.BuildExternalID(providerName, strconv.FormatInt(item.ParentMatchID, 10)),
		Sport:      fixture.SportFootball,
		League:     strings.TrimSpace(item.Competition),
		HomeTeam:   fixture.Team{Name: home},
		AwayTeam:   fixture.Team{Name: away},
		StartTime:  startTime.UTC(),
		Status:     fixture.StatusScheduled,
	}

	if price := parsePrice(item.HomeOdd); price != nil {
		record.HomeOdds = price
	}
	if price := parsePrice(item.NeutralOdd); price != nil {
		record.DrawOdds = price
	}
	if price := parsePrice(item.AwayOdd); price != nil {
		record.AwayOdds = price
	}

	return record, nil
}

// teamName falls back to the TBD placeholder so a listing with a blank
// side still lands as a fixture.
func teamName(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "TBD"
	}
	return value
}

func parsePrice(value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	price, err := strconv.ParseFloat(value, 64)
	if err != nil || price <= 1 {
		return nil
	}
	return &price
}

// parseDisplayTime handles the human-facing kickoff labels used on the
// site: "Today 15:30", "Tomorrow 12:00" and "21/02 15:30". Labels that
// fail to parse default to one hour from now so the record still lands
// as upcoming.
func parseDisplayTime(value string, now time.Time) time.Time {
	value = strings.TrimSpace(value)
	fallback := now.Add(time.Hour)

	fields := strings.Fields(value)
	if len(fields) != 2 {
		return fallback
	}

	clock, err := time.Parse("15:04", fields[1])
	if err != nil {
		return fallback
	}

	switch strings.ToLower(fields[0]) {
	case "today":
		return time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())
	case "tomorrow":
		day := now.AddDate(0, 0, 1)
		return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())
	}

	date, err := time.Parse("02/01", fields[0])
	if err != nil {
		return fallback
	}
	return time.Date(now.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())
}
