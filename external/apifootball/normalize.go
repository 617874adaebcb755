package apifootball

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/matchpulse/fixture-sync/internal/domain/fixture"
	"github.com/matchpulse/fixture-sync/internal/provider"
)

// normalizeStatus maps api-football short codes onto canonical statuses.
// Unknown codes fall back to SCHEDULED rather than failing the record.
func normalizeStatus(short string) string {
	switch strings.ToUpper(strings.TrimSpace(short)) {
	case "TBD", "NS":
		return fixture.StatusScheduled
	case "1H", "HT", "2H", "ET", "P":
		return fixture.StatusLive
	case "FT", "AET", "PEN", "AWD", "WO":
		return fixture.StatusCompleted
	case "PST":
		return fixture.StatusPostponed
	case "CANC", "ABD":
		return fixture.StatusCancelled
	default:
		return fixture.StatusScheduled
	}
}

// normalizeFixture converts one upstream record into the canonical
// shape. Records without a usable id or kickoff time are rejected.
func normalizeFixture(item fixtureItem) (fixture.Fixture, error) {
	if item.Fixture.ID <= 0 {
		return fixture.Fixture{}, fmt.Errorf("missing fixture id")
	}

	startTime, err := time.Parse(time.RFC3339, item.Fixture.Date)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("parse kickoff %q: %w", item.Fixture.Date, err)
	}

	return fixture.Fixture{
		ExternalID: fixture.BuildExternalID(providerName, strconv.FormatInt(item.Fixture.ID, 10)),
		Sport:      fixture.SportFootball,
		League:     strings.TrimSpace(item.League.Name),
		HomeTeam: fixture.Team{
			Name:  teamName(item.Teams.Home.Name),
			Logo:  strings.TrimSpace(item.Teams.Home.Logo),
			Score: item.Goals.Home,
		},
		AwayTeam: fixture.Team{
			Name:  teamName(item.Teams.Away.Name),
			Logo:  strings.TrimSpace(item.Teams.Away.Logo),
			Score: item.Goals.Away,
		},
		StartTime: startTime.UTC(),
		Status:    normalizeStatus(item.Fixture.Status.Short),
		Venue:     strings.TrimSpace(item.Fixture.Venue.Name),
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

// normalizeOdds extracts match-winner prices from the first bookmaker
// carrying that market.
func normalizeOdds(envelope oddsEnvelope) (*provider.Odds, error) {
	for _, item := range envelope.Response {
		for _, maker := range item.Bookmakers {
			for _, market := range maker.Bets {
				if !strings.EqualFold(strings.TrimSpace(market.Name), "Match Winner") {
					continue
				}
				odds, err := oddsFromValues(market.Values)
				if err != nil {
					return nil, err
				}
				return odds, nil
			}
		}
	}
	return nil, nil
}

func oddsFromValues(values []betValue) (*provider.Odds, error) {
	var out provider.Odds
	var seen int
	for _, value := range values {
		price, err := strconv.ParseFloat(strings.TrimSpace(value.Odd), 64)
		if err != nil {
			return nil, fmt.Errorf("parse odd %q: %w", value.Odd, err)
		}
		switch strings.ToLower(strings.TrimSpace(value.Value)) {
		case "home":
			out.Home = price
			seen++
		case "draw":
			out.Draw = price
			seen++
		case "away":
			out.Away = price
			seen++
		}
	}
	if seen != 3 {
		return nil, fmt.Errorf("incomplete match winner market: %d of 3 outcomes", seen)
	}
	return &out, nil
}
