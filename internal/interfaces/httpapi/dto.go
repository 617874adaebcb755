package httpapi

import (
	"time"

	"github.com/matchpulse/fixture-sync/internal/domain/fixture"
)

type fixtureDTO struct {
	ID         string              `json:"id"`
	ExternalID string              `json:"externalId"`
	Sport      string              `json:"sport"`
	League     string              `json:"league,omitempty"`
	HomeTeam   fixture.Team        `json:"homeTeam"`
	AwayTeam   fixture.Team        `json:"awayTeam"`
	StartTime  time.Time           `json:"startTime"`
	Status     string              `json:"status"`
	Venue      string              `json:"venue,omitempty"`
	HomeOdds   *float64            `json:"homeOdds,omitempty"`
	DrawOdds   *float64            `json:"drawOdds,omitempty"`
	AwayOdds   *float64            `json:"awayOdds,omitempty"`
	HeadToHead *fixture.HeadToHead `json:"headToHead,omitempty"`
	UpdatedAt  time.Time           `json:"updatedAt"`
}

type syncResultDTO struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func fixtureToDTO(record fixture.Fixture) fixtureDTO {
	return fixtureDTO{
		ID:         record.ID,
		ExternalID: record.ExternalID,
		Sport:      record.Sport,
		League:     record.League,
		HomeTeam:   record.HomeTeam,
		AwayTeam:   record.AwayTeam,
		StartTime:  record.StartTime,
		Status:     record.Status,
		Venue:      record.Venue,
		HomeOdds:   record.HomeOdds,
		DrawOdds:   record.DrawOdds,
		AwayOdds:   record.AwayOdds,
		HeadToHead: record.HeadToHead,
		UpdatedAt:  record.UpdatedAt,
	}
}

func fixturesToDTO(records []fixture.Fixture) []fixtureDTO {
	out := make([]fixtureDTO, 0, len(records))
	for _, record := range records {
		out = append(out, fixtureToDTO(record))
	}
	return out
}
