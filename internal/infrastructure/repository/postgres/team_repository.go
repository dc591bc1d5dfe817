package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchday-sync/internal/domain/team"
	qb "github.com/riskibarqy/matchday-sync/internal/platform/querybuilder"
)

type teamTableModel struct {
	ID            int64  `db:"id"`
	Name          string `db:"name"`
	Code          string `db:"code"`
	Country       string `db:"country"`
	Founded       *int   `db:"founded"`
	Logo          string `db:"logo"`
	IsNational    bool   `db:"is_national"`
	VenueName     string `db:"venue_name"`
	VenueCity     string `db:"venue_city"`
	VenueCapacity *int   `db:"venue_capacity"`
	VenueSurface  string `db:"venue_surface"`
	VenueImage    string `db:"venue_image"`
}

type teamBasicModel struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Logo string `db:"logo"`
}

var teamColumns = []string{
	"id", "name", "code", "country", "founded", "logo", "is_national",
	"venue_name", "venue_city", "venue_capacity", "venue_surface", "venue_image",
}

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListAll(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select(teamColumns...).From("teams").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}
	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, bool, error) {
	query, args, err := qb.Select(teamColumns...).From("teams").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team id=%d: %w", id, err)
	}
	return teamFromRow(row), true, nil
}

func (r *TeamRepository) UpsertBasic(ctx context.Context, teams []team.Team) error {
	if len(teams) == 0 {
		return nil
	}
	seen := make(map[int64]int, len(teams))
	models := make([]teamBasicModel, 0, len(teams))
	for _, t := range teams {
		model := teamBasicModel{ID: t.ID, Name: t.Name, Logo: t.Logo}
		if i, ok := seen[t.ID]; ok {
			models[i] = model
			continue
		}
		seen[t.ID] = len(models)
		models = append(models, model)
	}
	return insertChunked(ctx, r.db, "teams", models, `ON CONFLICT (id)
DO UPDATE SET
    name = EXCLUDED.name,
    logo = EXCLUDED.logo,
    updated_at = NOW()`)
}

func (r *TeamRepository) UpsertFull(ctx context.Context, t team.Team) error {
	if err := t.Validate(); err != nil {
		return err
	}
	model := teamTableModel{
		ID:            t.ID,
		Name:          t.Name,
		Code:          t.Code,
		Country:       t.Country,
		Founded:       t.Founded,
		Logo:          t.Logo,
		IsNational:    t.IsNational,
		VenueName:     t.Venue.Name,
		VenueCity:     t.Venue.City,
		VenueCapacity: t.Venue.Capacity,
		VenueSurface:  t.Venue.Surface,
		VenueImage:    t.Venue.Image,
	}
	query, args, err := qb.InsertModel("teams", model, `ON CONFLICT (id)
DO UPDATE SET
    name = EXCLUDED.name,
    code = EXCLUDED.code,
    country = EXCLUDED.country,
    founded = EXCLUDED.founded,
    logo = EXCLUDED.logo,
    is_national = EXCLUDED.is_national,
    venue_name = EXCLUDED.venue_name,
    venue_city = EXCLUDED.venue_city,
    venue_capacity = EXCLUDED.venue_capacity,
    venue_surface = EXCLUDED.venue_surface,
    venue_image = EXCLUDED.venue_image,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team id=%d: %w", t.ID, err)
	}
	return nil
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:         row.ID,
		Name:       row.Name,
		Code:       row.Code,
		Country:    row.Country,
		Founded:    row.Founded,
		Logo:       row.Logo,
		IsNational: row.IsNational,
		Venue: team.Venue{
			Name:     row.VenueName,
			City:     row.VenueCity,
			Capacity: row.VenueCapacity,
			Surface:  row.VenueSurface,
			Image:    row.VenueImage,
		},
	}
}
