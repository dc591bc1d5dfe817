package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchday-sync/internal/domain/lineup"
	qb "github.com/riskibarqy/matchday-sync/internal/platform/querybuilder"
)

type lineupTeamModel struct {
	FixtureID int64  `db:"fixture_id"`
	TeamID    int64  `db:"team_id"`
	Formation string `db:"formation"`
	Coach     string `db:"coach"`
}

type lineupPlayerModel struct {
	FixtureID int64  `db:"fixture_id"`
	PlayerID  int64  `db:"player_id"`
	TeamID    int64  `db:"team_id"`
	Number    *int   `db:"number"`
	Pos       string `db:"pos"`
	Grid      string `db:"grid"`
	IsStart   bool   `db:"is_start"`
	SortOrder int    `db:"sort_order"`
}

type LineupRepository struct {
	db *sqlx.DB
}

func NewLineupRepository(db *sqlx.DB) *LineupRepository {
	return &LineupRepository{db: db}
}

func (r *LineupRepository) SaveSnapshot(ctx context.Context, snapshot lineup.Snapshot) error {
	if snapshot.Empty() {
		return nil
	}

	teams := make([]lineupTeamModel, 0, len(snapshot.Teams))
	for _, t := range snapshot.Teams {
		teams = append(teams, lineupTeamModel{FixtureID: snapshot.FixtureID, TeamID: t.TeamID, Formation: t.Formation, Coach: t.Coach})
	}
	stubs := make([]playerStubModel, 0, len(snapshot.Players))
	players := make([]lineupPlayerModel, 0, len(snapshot.Players))
	seen := make(map[int64]int, len(snapshot.Players))
	for _, p := range snapshot.Players {
		stubs = append(stubs, playerStubModel{ID: p.PlayerID, Name: p.PlayerName})
		model := lineupPlayerModel{
			FixtureID: snapshot.FixtureID,
			PlayerID:  p.PlayerID,
			TeamID:    p.TeamID,
			Number:    p.Number,
			Pos:       p.Pos,
			Grid:      p.Grid,
			IsStart:   p.IsStart,
			SortOrder: p.SortOrder,
		}
		if i, ok := seen[p.PlayerID]; ok {
			players[i] = model
			continue
		}
		seen[p.PlayerID] = len(players)
		players = append(players, model)
	}

	return withTx(ctx, r.db, "save lineup snapshot", func(tx *sqlx.Tx) error {
		if err := insertChunked(ctx, tx, "fixture_lineup_teams", teams, `ON CONFLICT (fixture_id, team_id)
DO UPDATE SET
    formation = EXCLUDED.formation,
    coach = EXCLUDED.coach,
    updated_at = NOW()`); err != nil {
			return fmt.Errorf("upsert lineup teams fixture=%d: %w", snapshot.FixtureID, err)
		}
		if err := insertPlayerStubs(ctx, tx, stubs); err != nil {
			return fmt.Errorf("insert lineup player stubs fixture=%d: %w", snapshot.FixtureID, err)
		}
		if err := insertChunked(ctx, tx, "fixture_lineup_players", players, `ON CONFLICT (fixture_id, player_id)
DO UPDATE SET
    team_id = EXCLUDED.team_id,
    number = EXCLUDED.number,
    pos = EXCLUDED.pos,
    grid = EXCLUDED.grid,
    is_start = EXCLUDED.is_start,
    sort_order = EXCLUDED.sort_order`); err != nil {
			return fmt.Errorf("upsert lineup players fixture=%d: %w", snapshot.FixtureID, err)
		}
		return nil
	})
}

func (r *LineupRepository) GetSnapshot(ctx context.Context, fixtureID int64) (lineup.Snapshot, error) {
	teamQuery, teamArgs, err := qb.Select("fixture_id", "team_id", "formation", "coach").From("fixture_lineup_teams").
		Where(qb.Eq("fixture_id", fixtureID)).
		OrderBy("team_id").
		ToSQL()
	if err != nil {
		return lineup.Snapshot{}, fmt.Errorf("build select lineup teams query: %w", err)
	}
	var teamRows []lineupTeamModel
	if err := r.db.SelectContext(ctx, &teamRows, teamQuery, teamArgs...); err != nil {
		return lineup.Snapshot{}, fmt.Errorf("select lineup teams fixture=%d: %w", fixtureID, err)
	}

	const playersQuery = `
SELECT lp.fixture_id, lp.player_id, lp.team_id, lp.number, lp.pos, lp.grid, lp.is_start, lp.sort_order,
       COALESCE(pd.name, '') AS player_name
FROM fixture_lineup_players lp
LEFT JOIN player_details pd ON pd.id = lp.player_id
WHERE lp.fixture_id = $1
ORDER BY lp.team_id, lp.is_start DESC, lp.sort_order`

	var playerRows []struct {
		lineupPlayerModel
		PlayerName string `db:"player_name"`
	}
	if err := r.db.SelectContext(ctx, &playerRows, playersQuery, fixtureID); err != nil {
		return lineup.Snapshot{}, fmt.Errorf("select lineup players fixture=%d: %w", fixtureID, err)
	}

	snapshot := lineup.Snapshot{FixtureID: fixtureID}
	for _, row := range teamRows {
		snapshot.Teams = append(snapshot.Teams, lineup.TeamLineup{
			FixtureID: row.FixtureID,
			TeamID:    row.TeamID,
			Formation: row.Formation,
			Coach:     row.Coach,
		})
	}
	for _, row := range playerRows {
		snapshot.Players = append(snapshot.Players, lineup.PlayerEntry{
			FixtureID:  row.FixtureID,
			PlayerID:   row.PlayerID,
			TeamID:     row.TeamID,
			PlayerName: row.PlayerName,
			Number:     row.Number,
			Pos:        row.Pos,
			Grid:       row.Grid,
			IsStart:    row.IsStart,
			SortOrder:  row.SortOrder,
		})
	}
	return snapshot, nil
}

func (r *LineupRepository) ListSyncedFixtureIDs(ctx context.Context, fixtureIDs []int64) ([]int64, error) {
	if len(fixtureIDs) == 0 {
		return []int64{}, nil
	}
	query, args, err := qb.Select("DISTINCT fixture_id").From("fixture_lineup_teams").
		Where(qb.AnyInt64("fixture_id", fixtureIDs)).
		OrderBy("fixture_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select synced lineups query: %w", err)
	}

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select synced lineups: %w", err)
	}
	return ids, nil
}
