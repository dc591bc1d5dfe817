package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchday-sync/internal/domain/fixture"
	qb "github.com/riskibarqy/matchday-sync/internal/platform/querybuilder"
)

const fixtureUpsertSuffix = `ON CONFLICT (id)
DO UPDATE SET
    league_id = EXCLUDED.league_id,
    season = EXCLUDED.season,
    event_date = EXCLUDED.event_date,
    timezone = EXCLUDED.timezone,
    venue_id = EXCLUDED.venue_id,
    venue_name = EXCLUDED.venue_name,
    venue_city = EXCLUDED.venue_city,
    referee = EXCLUDED.referee,
    status_short = EXCLUDED.status_short,
    status_long = EXCLUDED.status_long,
    elapsed = EXCLUDED.elapsed,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    goals_home = EXCLUDED.goals_home,
    goals_away = EXCLUDED.goals_away,
    score_halftime_home = EXCLUDED.score_halftime_home,
    score_halftime_away = EXCLUDED.score_halftime_away,
    score_fulltime_home = EXCLUDED.score_fulltime_home,
    score_fulltime_away = EXCLUDED.score_fulltime_away,
    score_extratime_home = EXCLUDED.score_extratime_home,
    score_extratime_away = EXCLUDED.score_extratime_away,
    score_penalty_home = EXCLUDED.score_penalty_home,
    score_penalty_away = EXCLUDED.score_penalty_away,
    updated_at = NOW()`

const fixtureEventUpsertSuffix = `ON CONFLICT (fixture_id, team_id, player_key, elapsed, elapsed_extra, type, detail)
DO UPDATE SET
    player_id = EXCLUDED.player_id,
    player_name = EXCLUDED.player_name,
    assist_id = EXCLUDED.assist_id,
    assist_name = EXCLUDED.assist_name,
    comments = EXCLUDED.comments`

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) GetByID(ctx context.Context, id int64) (fixture.Fixture, bool, error) {
	query, args, err := qb.Select(fixtureColumns...).From("fixtures").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, fmt.Errorf("build select fixture by id query: %w", err)
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("select fixture id=%d: %w", id, err)
	}
	return fixtureFromRow(row), true, nil
}

func (r *FixtureRepository) UpsertFixtures(ctx context.Context, fixtures []fixture.Fixture) error {
	if len(fixtures) == 0 {
		return nil
	}
	models := make([]fixtureInsertModel, 0, len(fixtures))
	for _, f := range fixtures {
		models = append(models, fixtureInsertFromDomain(f))
	}
	return insertChunked(ctx, r.db, "fixtures", models, fixtureUpsertSuffix)
}

func (r *FixtureRepository) ApplyLiveUpdate(ctx context.Context, update fixture.LiveUpdate, events []fixture.Event) error {
	return withTx(ctx, r.db, "apply live update", func(tx *sqlx.Tx) error {
		query, args, err := qb.Update("fixtures").
			Set("status_short", fixture.NormalizeStatus(update.StatusShort)).
			Set("status_long", update.StatusLong).
			Set("elapsed", update.Elapsed).
			Set("goals_home", update.GoalsHome).
			Set("goals_away", update.GoalsAway).
			Set("score_halftime_home", update.Halftime.Home).
			Set("score_halftime_away", update.Halftime.Away).
			Set("score_fulltime_home", update.Fulltime.Home).
			Set("score_fulltime_away", update.Fulltime.Away).
			Set("score_extratime_home", update.Extratime.Home).
			Set("score_extratime_away", update.Extratime.Away).
			Set("score_penalty_home", update.Penalty.Home).
			Set("score_penalty_away", update.Penalty.Away).
			SetExpr("updated_at", "NOW()").
			Where(qb.Eq("id", update.ID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build live update query: %w", err)
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update live fixture id=%d: %w", update.ID, err)
		}
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return fmt.Errorf("update live fixture id=%d: %w", update.ID, fixture.ErrNotFound)
		}

		deleteQuery, deleteArgs, err := qb.DeleteFrom("fixture_events").
			Where(qb.Eq("fixture_id", update.ID)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build delete fixture events query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
			return fmt.Errorf("delete fixture events id=%d: %w", update.ID, err)
		}

		if len(events) == 0 {
			return nil
		}
		return insertChunked(ctx, tx, "fixture_events", dedupeEvents(update.ID, events), fixtureEventUpsertSuffix)
	})
}

func (r *FixtureRepository) ListEvents(ctx context.Context, fixtureID int64) ([]fixture.Event, error) {
	query, args, err := qb.Select(
		"fixture_id", "team_id", "player_key", "player_id", "player_name", "assist_id", "assist_name",
		"elapsed", "elapsed_extra", "type", "detail", "comments",
	).From("fixture_events").
		Where(qb.Eq("fixture_id", fixtureID)).
		OrderBy("elapsed", "elapsed_extra", "team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixture events query: %w", err)
	}

	var rows []fixtureEventModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fixture events id=%d: %w", fixtureID, err)
	}
	out := make([]fixture.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, eventFromRow(row))
	}
	return out, nil
}

func (r *FixtureRepository) ListActiveIDs(ctx context.Context, statuses []string, kickoffBefore time.Time) ([]int64, error) {
	return r.selectIDs(ctx, "active fixtures",
		qb.InStrings("status_short", statuses),
		qb.Lte("event_date", kickoffBefore.UTC()),
	)
}

func (r *FixtureRepository) ListIDsBetween(ctx context.Context, from, to time.Time) ([]int64, error) {
	return r.selectIDs(ctx, "fixtures between",
		qb.Gte("event_date", from.UTC()),
		qb.Lte("event_date", to.UTC()),
	)
}

func (r *FixtureRepository) ListKickoffsBetween(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	query, args, err := qb.Select("event_date").From("fixtures").
		Where(
			qb.Gte("event_date", from.UTC()),
			qb.Lt("event_date", to.UTC()),
		).
		OrderBy("event_date").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select kickoffs query: %w", err)
	}

	var kickoffs []time.Time
	if err := r.db.SelectContext(ctx, &kickoffs, query, args...); err != nil {
		return nil, fmt.Errorf("select kickoffs: %w", err)
	}
	for i := range kickoffs {
		kickoffs[i] = kickoffs[i].UTC()
	}
	return kickoffs, nil
}

func (r *FixtureRepository) ListStatsBacklog(ctx context.Context, statuses []string, limit int) ([]fixture.StatsCandidate, error) {
	query, args, err := qb.Select("id", "is_team_stats_synced", "is_player_stats_synced").From("fixtures").
		Where(
			qb.InStrings("status_short", statuses),
			qb.Or(
				qb.Eq("is_team_stats_synced", false),
				qb.Eq("is_player_stats_synced", false),
			),
		).
		OrderBy("id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select stats backlog query: %w", err)
	}

	var rows []struct {
		ID                  int64 `db:"id"`
		IsTeamStatsSynced   bool  `db:"is_team_stats_synced"`
		IsPlayerStatsSynced bool  `db:"is_player_stats_synced"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select stats backlog: %w", err)
	}

	out := make([]fixture.StatsCandidate, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixture.StatsCandidate{
			ID:                  row.ID,
			IsTeamStatsSynced:   row.IsTeamStatsSynced,
			IsPlayerStatsSynced: row.IsPlayerStatsSynced,
		})
	}
	return out, nil
}

func (r *FixtureRepository) MarkStatsSynced(ctx context.Context, fixtureID int64, team, player bool) error {
	if !team && !player {
		return nil
	}
	query, args, err := qb.Update("fixtures").
		SetExpr("is_team_stats_synced", "is_team_stats_synced OR ?", team).
		SetExpr("is_player_stats_synced", "is_player_stats_synced OR ?", player).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", fixtureID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark stats synced query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark stats synced id=%d: %w", fixtureID, err)
	}
	return nil
}

func (r *FixtureRepository) selectIDs(ctx context.Context, what string, conditions ...qb.Condition) ([]int64, error) {
	query, args, err := qb.Select("id").From("fixtures").
		Where(conditions...).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select %s query: %w", what, err)
	}

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", what, err)
	}
	return ids, nil
}
