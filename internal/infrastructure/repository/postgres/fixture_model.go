package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/matchpulse/fixture-sync/internal/domain/fixture"
)

type fixtureTableModel struct {
	ID         int64           `db:"id"`
	PublicID   string          `db:"public_id"`
	ExternalID string          `db:"external_id"`
	Sport      string          `db:"sport"`
	League     string          `db:"league"`
	HomeTeam   []byte          `db:"home_team"`
	AwayTeam   []byte          `db:"away_team"`
	StartTime  time.Time       `db:"start_time"`
	Status     string          `db:"status"`
	Venue      string          `db:"venue"`
	HomeOdds   sql.NullFloat64 `db:"home_odds"`
	DrawOdds   sql.NullFloat64 `db:"draw_odds"`
	AwayOdds   sql.NullFloat64 `db:"away_odds"`
	HeadToHead []byte          `db:"head_to_head"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

type fixtureInsertModel struct {
	PublicID   string          `db:"public_id"`
	ExternalID string          `db:"external_id"`
	Sport      string          `db:"sport"`
	League     string          `db:"league"`
	HomeTeam   []byte          `db:"home_team"`
	AwayTeam   []byte          `db:"away_team"`
	StartTime  time.Time       `db:"start_time"`
	Status     string          `db:"status"`
	Venue      string          `db:"venue"`
	HomeOdds   sql.NullFloat64 `db:"home_odds"`
	DrawOdds   sql.NullFloat64 `db:"draw_odds"`
	AwayOdds   sql.NullFloat64 `db:"away_odds"`
	HeadToHead []byte          `db:"head_to_head"`
}

func fixtureToInsertModel(record fixture.Fixture) (fixtureInsertModel, error) {
	homeTeam, err := sonic.Marshal(record.HomeTeam)
	if err != nil {
		return fixtureInsertModel{}, fmt.Errorf("marshal home team: %w", err)
	}
	awayTeam, err := sonic.Marshal(record.AwayTeam)
	if err != nil {
		return fixtureInsertModel{}, fmt.Errorf("marshal away team: %w", err)
	}
	var headToHead []byte
	if record.HeadToHead != nil {
		headToHead, err = sonic.Marshal(record.HeadToHead)
		if err != nil {
			return fixtureInsertModel{}, fmt.Errorf("marshal head to head: %w", err)
		}
	}

	return fixtureInsertModel{
		PublicID:   record.ID,
		ExternalID: record.ExternalID,
		Sport:      record.Sport,
		League:     record.League,
		HomeTeam:   homeTeam,
		AwayTeam:   awayTeam,
		StartTime:  record.StartTime.UTC(),
		Status:     record.Status,
		Venue:      record.Venue,
		HomeOdds:   floatToNull(record.HomeOdds),
		DrawOdds:   floatToNull(record.DrawOdds),
		AwayOdds:   floatToNull(record.AwayOdds),
		HeadToHead: headToHead,
	}, nil
}

func fixtureFromRow(row fixtureTableModel) (fixture.Fixture, error) {
	out := fixture.Fixture{
		ID:         row.PublicID,
		ExternalID: row.ExternalID,
		Sport:      row.Sport,
		League:     row.League,
		StartTime:  row.StartTime,
		Status:     row.Status,
		Venue:      row.Venue,
		HomeOdds:   nullToFloat(row.HomeOdds),
		DrawOdds:   nullToFloat(row.DrawOdds),
		AwayOdds:   nullToFloat(row.AwayOdds),
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
	if err := sonic.Unmarshal(row.HomeTeam, &out.HomeTeam); err != nil {
		return fixture.Fixture{}, fmt.Errorf("unmarshal home team for %s: %w", row.ExternalID, err)
	}
	if err := sonic.Unmarshal(row.AwayTeam, &out.AwayTeam); err != nil {
		return fixture.Fixture{}, fmt.Errorf("unmarshal away team for %s: %w", row.ExternalID, err)
	}
	if len(row.HeadToHead) > 0 {
		out.HeadToHead = &fixture.HeadToHead{}
		if err := sonic.Unmarshal(row.HeadToHead, out.HeadToHead); err != nil {
			return fixture.Fixture{}, fmt.Errorf("unmarshal head to head for %s: %w", row.ExternalID, err)
		}
	}
	return out, nil
}

func floatToNull(value *float64) sql.NullFloat64 {
	if value == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *value, Valid: true}
}

func nullToFloat(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	out := value.Float64
	return &out
}
