package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchday-sync/internal/domain/league"
	qb "github.com/riskibarqy/matchday-sync/internal/platform/querybuilder"
)

type leagueTableModel struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Type        string `db:"type"`
	Logo        string `db:"logo"`
	CountryName string `db:"country_name"`
	CountryCode string `db:"country_code"`
	CountryFlag string `db:"country_flag"`
}

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) Upsert(ctx context.Context, l league.League) error {
	query, args, err := qb.InsertModel("leagues", leagueTableModel(l), `ON CONFLICT (id)
DO UPDATE SET
    name = EXCLUDED.name,
    type = EXCLUDED.type,
    logo = EXCLUDED.logo,
    country_name = EXCLUDED.country_name,
    country_code = EXCLUDED.country_code,
    country_flag = EXCLUDED.country_flag,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert league query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert league id=%d: %w", l.ID, err)
	}
	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, id int64) (league.League, bool, error) {
	query, args, err := qb.Select("id", "name", "type", "logo", "country_name", "country_code", "country_flag").
		From("leagues").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build select league query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("select league id=%d: %w", id, err)
	}
	return league.League(row), true, nil
}
