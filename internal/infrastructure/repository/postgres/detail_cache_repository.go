package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchday-sync/internal/domain/detailcache"
	qb "github.com/riskibarqy/matchday-sync/internal/platform/querybuilder"
)

type detailEntryModel struct {
	ID   int64   `db:"id"`
	Data *string `db:"data"`
}

type detailEntryRow struct {
	ID        int64     `db:"id"`
	Data      string    `db:"data"`
	UpdatedAt time.Time `db:"updated_at"`
}

type dayMatchModel struct {
	ID         int64     `db:"id"`
	Date       string    `db:"date"`
	KickoffAt  time.Time `db:"kickoff_at"`
	LeagueID   int64     `db:"league_id"`
	Season     int       `db:"season"`
	HomeTeamID int64     `db:"home_team_id"`
	AwayTeamID int64     `db:"away_team_id"`
	Status     string    `db:"status"`
	Data       *string   `db:"data"`
}

type DetailCacheRepository struct {
	db *sqlx.DB
}

func NewDetailCacheRepository(db *sqlx.DB) *DetailCacheRepository {
	return &DetailCacheRepository{db: db}
}

func detailTable(kind detailcache.Kind) (string, error) {
	switch kind {
	case detailcache.KindMatch:
		return "match_details", nil
	case detailcache.KindTeam:
		return "team_details", nil
	default:
		return "", fmt.Errorf("unknown detail kind %q", kind)
	}
}

func (r *DetailCacheRepository) Get(ctx context.Context, kind detailcache.Kind, id int64) (detailcache.Entry, bool, error) {
	table, err := detailTable(kind)
	if err != nil {
		return detailcache.Entry{}, false, err
	}
	query, args, err := qb.Select("id", "data::text AS data", "updated_at").
		From(table).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return detailcache.Entry{}, false, fmt.Errorf("build select %s query: %w", table, err)
	}

	var row detailEntryRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return detailcache.Entry{}, false, nil
		}
		return detailcache.Entry{}, false, fmt.Errorf("select %s id=%d: %w", table, id, err)
	}
	return detailcache.Entry{
		ID:        row.ID,
		Data:      json.RawMessage(row.Data),
		UpdatedAt: row.UpdatedAt,
	}, true, nil
}

func (r *DetailCacheRepository) Put(ctx context.Context, kind detailcache.Kind, entry detailcache.Entry) error {
	table, err := detailTable(kind)
	if err != nil {
		return err
	}
	if len(entry.Data) == 0 {
		return fmt.Errorf("%s id=%d: empty payload", table, entry.ID)
	}
	query, args, err := qb.InsertModel(table, detailEntryModel{ID: entry.ID, Data: jsonText(entry.Data)}, `ON CONFLICT (id)
DO UPDATE SET
    data = EXCLUDED.data,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert %s query: %w", table, err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert %s id=%d: %w", table, entry.ID, err)
	}
	return nil
}

func (r *DetailCacheRepository) ListDayMatches(ctx context.Context, date string) ([]detailcache.DayMatch, error) {
	query, args, err := qb.Select(
		"id", "date", "kickoff_at", "league_id", "season",
		"home_team_id", "away_team_id", "status", "data::text AS data",
	).From("matches").
		Where(qb.Eq("date", date)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches query: %w", err)
	}

	var rows []dayMatchModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches date=%s: %w", date, err)
	}
	out := make([]detailcache.DayMatch, 0, len(rows))
	for _, row := range rows {
		var data json.RawMessage
		if row.Data != nil {
			data = json.RawMessage(*row.Data)
		}
		out = append(out, detailcache.DayMatch{
			ID:         row.ID,
			Date:       row.Date,
			KickoffAt:  row.KickoffAt.UTC(),
			LeagueID:   row.LeagueID,
			Season:     row.Season,
			HomeTeamID: row.HomeTeamID,
			AwayTeamID: row.AwayTeamID,
			Status:     row.Status,
			Data:       data,
		})
	}
	return out, nil
}

func (r *DetailCacheRepository) UpsertDayMatches(ctx context.Context, matches []detailcache.DayMatch) error {
	if len(matches) == 0 {
		return nil
	}
	models := make([]dayMatchModel, 0, len(matches))
	for _, m := range matches {
		if len(m.Data) == 0 {
			return fmt.Errorf("match id=%d: empty payload", m.ID)
		}
		models = append(models, dayMatchModel{
			ID:         m.ID,
			Date:       m.Date,
			KickoffAt:  m.KickoffAt.UTC(),
			LeagueID:   m.LeagueID,
			Season:     m.Season,
			HomeTeamID: m.HomeTeamID,
			AwayTeamID: m.AwayTeamID,
			Status:     m.Status,
			Data:       jsonText(m.Data),
		})
	}
	return insertChunked(ctx, r.db, "matches", models, `ON CONFLICT (id)
DO UPDATE SET
    date = EXCLUDED.date,
    kickoff_at = EXCLUDED.kickoff_at,
    league_id = EXCLUDED.league_id,
    season = EXCLUDED.season,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    status = EXCLUDED.status,
    data = EXCLUDED.data,
    updated_at = NOW()`)
}
