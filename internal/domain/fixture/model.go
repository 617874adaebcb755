package fixture

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusCompleted = "COMPLETED"
	StatusPostponed = "POSTPONED"
	StatusCancelled = "CANCELLED"
)

const SportFootball = "football"

// Team is one side of a fixture. Score is nil until the match produces one.
type Team struct {
	Name  string `json:"name"`
	Logo  string `json:"logo,omitempty"`
	Score *int   `json:"score,omitempty"`
}

// Meeting is one historical encounter between the two teams.
type Meeting struct {
	Date     time.Time `json:"date"`
	HomeTeam string    `json:"homeTeam"`
	AwayTeam string    `json:"awayTeam"`
	Score    string    `json:"score"`
}

// HeadToHead aggregates recent meetings from the stored home team's
// point of view.
type HeadToHead struct {
	HomeWins    int       `json:"homeWins"`
	Draws       int       `json:"draws"`
	AwayWins    int       `json:"awayWins"`
	LastMatches []Meeting `json:"lastMatches,omitempty"`
}

// Fixture is one match tracked across providers. ExternalID is the
// provider-scoped dedup key; ID is our own opaque identifier.
type Fixture struct {
	ID         string
	ExternalID string
	Sport      string
	League     string
	HomeTeam   Team
	AwayTeam   Team
	StartTime  time.Time
	Status     string
	Venue      string
	HomeOdds   *float64
	DrawOdds   *float64
	AwayOdds   *float64
	HeadToHead *HeadToHead
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BuildExternalID composes the provider-scoped dedup key.
func BuildExternalID(provider, nativeID string) string {
	return provider + "-" + nativeID
}

// SplitExternalID returns the provider prefix and native id of a key
// produced by BuildExternalID.
func SplitExternalID(externalID string) (provider, nativeID string, err error) {
	idx := strings.Index(externalID, "-")
	if idx <= 0 || idx == len(externalID)-1 {
		return "", "", fmt.Errorf("malformed external id %q", externalID)
	}
	return externalID[:idx], externalID[idx+1:], nil
}

func ValidStatus(status string) bool {
	switch status {
	case StatusScheduled, StatusLive, StatusCompleted, StatusPostponed, StatusCancelled:
		return true
	default:
		return false
	}
}

func IsTerminalStatus(status string) bool {
	switch status {
	case StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// HasOdds reports whether all three match-winner prices are present.
func (f Fixture) HasOdds() bool {
	return f.HomeOdds != nil && f.DrawOdds != nil && f.AwayOdds != nil
}

// Provider returns the provider prefix of the fixture's external id,
// or an empty string when the key is malformed.
func (f Fixture) Provider() string {
	provider, _, err := SplitExternalID(f.ExternalID)
	if err != nil {
		return ""
	}
	return provider
}
