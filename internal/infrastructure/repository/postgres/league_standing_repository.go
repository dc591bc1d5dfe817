package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchday-sync/internal/domain/leaguestanding"
	qb "github.com/riskibarqy/matchday-sync/internal/platform/querybuilder"
)

type standingTableModel struct {
	LeagueID     int64  `db:"league_id"`
	TeamID       int64  `db:"team_id"`
	Season       int    `db:"season"`
	Rank         int    `db:"rank"`
	Played       int    `db:"played"`
	Win          int    `db:"win"`
	Draw         int    `db:"draw"`
	Lose         int    `db:"lose"`
	Points       int    `db:"points"`
	GoalsFor     int    `db:"goals_for"`
	GoalsAgainst int    `db:"goals_against"`
	GoalsDiff    int    `db:"goals_diff"`
	Form         string `db:"form"`
}

type LeagueStandingRepository struct {
	db *sqlx.DB
}

func NewLeagueStandingRepository(db *sqlx.DB) *LeagueStandingRepository {
	return &LeagueStandingRepository{db: db}
}

func (r *LeagueStandingRepository) UpsertStandings(ctx context.Context, standings []leaguestanding.Standing) error {
	if len(standings) == 0 {
		return nil
	}
	models := make([]standingTableModel, 0, len(standings))
	for _, s := range standings {
		s.Form = strings.TrimSpace(s.Form)
		models = append(models, standingTableModel(s))
	}
	return withTx(ctx, r.db, "upsert standings", func(tx *sqlx.Tx) error {
		return insertChunked(ctx, tx, "standings", models, `ON CONFLICT (league_id, team_id, season)
DO UPDATE SET
    rank = EXCLUDED.rank,
    played = EXCLUDED.played,
    win = EXCLUDED.win,
    draw = EXCLUDED.draw,
    lose = EXCLUDED.lose,
    points = EXCLUDED.points,
    goals_for = EXCLUDED.goals_for,
    goals_against = EXCLUDED.goals_against,
    goals_diff = EXCLUDED.goals_diff,
    form = EXCLUDED.form,
    updated_at = NOW()`)
	})
}

func (r *LeagueStandingRepository) ListByLeague(ctx context.Context, leagueID int64, season int) ([]leaguestanding.Standing, error) {
	query, args, err := qb.Select(
		"league_id", "team_id", "season", "rank", "played", "win", "draw", "lose",
		"points", "goals_for", "goals_against", "goals_diff", "form",
	).From("standings").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("season", season),
		).
		OrderBy("rank", "team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select standings query: %w", err)
	}

	var rows []standingTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select standings league=%d season=%d: %w", leagueID, season, err)
	}
	out := make([]leaguestanding.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaguestanding.Standing(row))
	}
	return out, nil
}
