package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchday-sync/internal/domain/teammapping"
	qb "github.com/riskibarqy/matchday-sync/internal/platform/querybuilder"
)

type teamMappingModel struct {
	LeagueID int64  `db:"league_id"`
	AFTeamID int64  `db:"af_team_id"`
	FDTeamID int64  `db:"fd_team_id"`
	TeamName string `db:"team_name"`
}

type TeamMappingRepository struct {
	db *sqlx.DB
}

func NewTeamMappingRepository(db *sqlx.DB) *TeamMappingRepository {
	return &TeamMappingRepository{db: db}
}

func (r *TeamMappingRepository) UpsertMappings(ctx context.Context, mappings []teammapping.Mapping) error {
	if len(mappings) == 0 {
		return nil
	}
	seen := make(map[[2]int64]int, len(mappings))
	models := make([]teamMappingModel, 0, len(mappings))
	for _, m := range mappings {
		key := [2]int64{m.LeagueID, m.AFTeamID}
		if i, ok := seen[key]; ok {
			models[i] = teamMappingModel(m)
			continue
		}
		seen[key] = len(models)
		models = append(models, teamMappingModel(m))
	}
	return insertChunked(ctx, r.db, "team_mappings", models, `ON CONFLICT (league_id, af_team_id)
DO UPDATE SET
    fd_team_id = EXCLUDED.fd_team_id,
    team_name = EXCLUDED.team_name,
    updated_at = NOW()`)
}

func (r *TeamMappingRepository) ListByLeague(ctx context.Context, leagueID int64) ([]teammapping.Mapping, error) {
	query, args, err := qb.Select("league_id", "af_team_id", "fd_team_id", "team_name").
		From("team_mappings").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("af_team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team mappings query: %w", err)
	}

	var rows []teamMappingModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select team mappings league=%d: %w", leagueID, err)
	}
	out := make([]teammapping.Mapping, 0, len(rows))
	for _, row := range rows {
		out = append(out, teammapping.Mapping(row))
	}
	return out, nil
}
