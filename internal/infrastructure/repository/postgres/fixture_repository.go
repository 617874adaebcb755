package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/matchpulse/fixture-sync/internal/domain/fixture"
	qb "github.com/matchpulse/fixture-sync/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

var fixtureSelectColumns = []string{
	"id",
	"public_id",
	"external_id",
	"sport",
	"league",
	"home_team",
	"away_team",
	"start_time",
	"status",
	"venue",
	"home_odds",
	"draw_odds",
	"away_odds",
	"head_to_head",
	"created_at",
	"updated_at",
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) FindByID(ctx context.Context, id string) (*fixture.Fixture, error) {
	return r.findOne(ctx, qb.Eq("public_id", id))
}

func (r *FixtureRepository) FindByExternalID(ctx context.Context, externalID string) (*fixture.Fixture, error) {
	return r.findOne(ctx, qb.Eq("external_id", externalID))
}

func (r *FixtureRepository) findOne(ctx context.Context, cond qb.Condition) (*fixture.Fixture, error) {
	query, args, err := qb.Select(fixtureSelectColumns...).From("fixtures").
		Where(cond).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get fixture query: %w", err)
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fixture: %w", err)
	}

	record, err := fixtureFromRow(row)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *FixtureRepository) Insert(ctx context.Context, record *fixture.Fixture) error {
	insertModel, err := fixtureToInsertModel(*record)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel("fixtures", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert fixture query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert fixture %s: %w", record.ExternalID, err)
	}
	return nil
}

func (r *FixtureRepository) UpdateByID(ctx context.Context, record *fixture.Fixture) error {
	updateModel, err := fixtureToInsertModel(*record)
	if err != nil {
		return err
	}

	query, args, err := qb.Update("fixtures").
		Set("sport", updateModel.Sport).
		Set("league", updateModel.League).
		Set("home_team", updateModel.HomeTeam).
		Set("away_team", updateModel.AwayTeam).
		Set("start_time", updateModel.StartTime).
		Set("status", updateModel.Status).
		Set("venue", updateModel.Venue).
		Set("home_odds", updateModel.HomeOdds).
		Set("draw_odds", updateModel.DrawOdds).
		Set("away_odds", updateModel.AwayOdds).
		Set("head_to_head", updateModel.HeadToHead).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", record.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update fixture query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update fixture %s: %w", record.ExternalID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update fixture %s rows affected: %w", record.ExternalID, err)
	}
	if affected == 0 {
		return fmt.Errorf("update fixture %s: no row with public id %s", record.ExternalID, record.ID)
	}
	return nil
}

func (r *FixtureRepository) ListByStatus(ctx context.Context, status string, limit int) ([]fixture.Fixture, error) {
	return r.list(ctx, limit, qb.Eq("status", status))
}

func (r *FixtureRepository) ListBySport(ctx context.Context, sport, status string, limit int) ([]fixture.Fixture, error) {
	conditions := []qb.Condition{qb.Eq("sport", sport)}
	if status != "" {
		conditions = append(conditions, qb.Eq("status", status))
	}
	return r.list(ctx, limit, conditions...)
}

func (r *FixtureRepository) ListMissingOdds(ctx context.Context, providerPrefix string, limit int) ([]fixture.Fixture, error) {
	return r.list(ctx, limit,
		qb.Expr("external_id LIKE ?", providerPrefix+"-%"),
		qb.IsNull("home_odds"),
		qb.In("status", []any{fixture.StatusScheduled, fixture.StatusLive, fixture.StatusPostponed}),
	)
}

func (r *FixtureRepository) list(ctx context.Context, limit int, conditions ...qb.Condition) ([]fixture.Fixture, error) {
	query, args, err := qb.Select(fixtureSelectColumns...).From("fixtures").
		Where(conditions...).
		OrderBy("start_time", "external_id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list fixtures query: %w", err)
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fixtures: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		record, err := fixtureFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}
