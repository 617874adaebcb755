package betika

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/matchpulse/fixture-sync/internal/domain/fixture"
)

// matchSelectors are tried in order; the first one that yields
// fixtures wins. The site markup shifts between releases so several
// generations of class names are kept.
var matchSelectors = []string{
	".prebet-match",
	".bet-event",
	"[data-event-id]",
	".match-item",
	".event-row",
	".bet-pick",
}

var (
	teamsSplitRegex  = regexp.MustCompile(`(?i)\s+vs?\.?\s+`)
	kickoffTextRegex = regexp.MustCompile(`(?i)(today|tomorrow|\d{2}/\d{2})\s+\d{1,2}:\d{2}`)
	slugCleanRegex   = regexp.MustCompile(`[^a-z0-9]+`)
)

// scrapeFixtures parses the homepage markup. An empty result is not an
// error; the site frequently renders without the prebet block.
func scrapeFixtures(html []byte, now time.Time) ([]fixture.Fixture, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse homepage markup: %w", err)
	}

	for _, selector := range matchSelectors {
		records := collectMatches(doc, selector, now)
		if len(records) > 0 {
			return records, nil
		}
	}
	return nil, nil
}

func collectMatches(doc *goquery.Document, selector string, now time.Time) []fixture.Fixture {
	seen := make(map[string]struct{})
	var out []fixture.Fixture

	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		text := strings.Join(strings.Fields(sel.Text()), " ")
		home, away, ok := splitTeams(text)
		if !ok {
			return
		}

		nativeID, hasID := sel.Attr("data-event-id")
		nativeID = strings.TrimSpace(nativeID)
		if !hasID || nativeID == "" {
			nativeID = teamSlug(home) + "-" + teamSlug(away)
		}

		externalID := fixture.BuildExternalID(providerName, nativeID)
		if _, dup := seen[externalID]; dup {
			return
		}
		seen[externalID] = struct{}{}

		startTime := now.Add(time.Hour)
		if label := kickoffTextRegex.FindString(text); label != "" {
			startTime = parseDisplayTime(label, now)
		}

		out = append(out, fixture.Fixture{
			ExternalID: externalID,
			Sport:      fixture.SportFootball,
			HomeTeam:   fixture.Team{Name: home},
			AwayTeam:   fixture.Team{Name: away},
			StartTime:  startTime.UTC(),
			Status:     fixture.StatusScheduled,
		})
	})

	return out
}

func splitTeams(text string) (home, away string, ok bool) {
	parts := teamsSplitRegex.Split(text, 2)
	if len(parts) != 2 {
		return "", "", false
	}

	home = trimTeamText(parts[0])
	away = trimTeamText(parts[1])
	if home == "" || away == "" {
		return "", "", false
	}
	return home, away, true
}

// trimTeamText strips kickoff labels and odds that share the node text
// with the team names.
func trimTeamText(value string) string {
	value = kickoffTextRegex.ReplaceAllString(value, "")
	fields := strings.Fields(value)

	out := make([]string, 0, len(fields))
	for _, field := range fields {
		if isPriceToken(field) {
			continue
		}
		out = append(out, field)
	}
	return strings.Join(out, " ")
}

func isPriceToken(field string) bool {
	if len(field) == 0 {
		return false
	}
	dots := 0
	for _, r := range field {
		switch {
		case r >= '0' && r <= '9':
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return dots == 1
}

func teamSlug(name string) string {
	return strings.Trim(slugCleanRegex.ReplaceAllString(strings.ToLower(name), "-"), "-")
}
