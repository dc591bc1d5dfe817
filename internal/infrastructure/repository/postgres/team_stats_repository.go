package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchday-sync/internal/domain/teamstats"
	qb "github.com/riskibarqy/matchday-sync/internal/platform/querybuilder"
)

type teamStatisticsModel struct {
	FixtureID         int64   `db:"fixture_id"`
	TeamID            int64   `db:"team_id"`
	PossessionPct     int     `db:"possession_pct"`
	ShotsTotal        int     `db:"shots_total"`
	ShotsOnGoal       int     `db:"shots_on_goal"`
	ExpectedGoals     float64 `db:"expected_goals"`
	PassesTotal       int     `db:"passes_total"`
	PassesAccuracyPct int     `db:"passes_accuracy_pct"`
	Fouls             int     `db:"fouls"`
	Corners           int     `db:"corners"`
	Offsides          int     `db:"offsides"`
}

type TeamStatsRepository struct {
	db *sqlx.DB
}

func NewTeamStatsRepository(db *sqlx.DB) *TeamStatsRepository {
	return &TeamStatsRepository{db: db}
}

func (r *TeamStatsRepository) UpsertTeamStatistics(ctx context.Context, stats []teamstats.TeamStatistics) error {
	if len(stats) == 0 {
		return nil
	}
	models := make([]teamStatisticsModel, 0, len(stats))
	for _, s := range stats {
		models = append(models, teamStatisticsModel(s))
	}
	return insertChunked(ctx, r.db, "fixture_statistics", models, `ON CONFLICT (fixture_id, team_id)
DO UPDATE SET
    possession_pct = EXCLUDED.possession_pct,
    shots_total = EXCLUDED.shots_total,
    shots_on_goal = EXCLUDED.shots_on_goal,
    expected_goals = EXCLUDED.expected_goals,
    passes_total = EXCLUDED.passes_total,
    passes_accuracy_pct = EXCLUDED.passes_accuracy_pct,
    fouls = EXCLUDED.fouls,
    corners = EXCLUDED.corners,
    offsides = EXCLUDED.offsides,
    updated_at = NOW()`)
}

func (r *TeamStatsRepository) ListByFixture(ctx context.Context, fixtureID int64) ([]teamstats.TeamStatistics, error) {
	query, args, err := qb.Select(
		"fixture_id", "team_id", "possession_pct", "shots_total", "shots_on_goal", "expected_goals",
		"passes_total", "passes_accuracy_pct", "fouls", "corners", "offsides",
	).From("fixture_statistics").
		Where(qb.Eq("fixture_id", fixtureID)).
		OrderBy("team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team statistics query: %w", err)
	}

	var rows []teamStatisticsModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select team statistics fixture=%d: %w", fixtureID, err)
	}
	out := make([]teamstats.TeamStatistics, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamstats.TeamStatistics(row))
	}
	return out, nil
}
