package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchday-sync/internal/domain/player"
	qb "github.com/riskibarqy/matchday-sync/internal/platform/querybuilder"
)

// player_details has three writers: squad sync (identity and age), the stats
// worker (identity and photo) and the profile sync (everything). Each upsert
// below only touches its own columns.

type playerProfileModel struct {
	ID          int64   `db:"id"`
	Name        string  `db:"name"`
	Age         *int    `db:"age"`
	Nationality string  `db:"nationality"`
	Photo       string  `db:"photo"`
	Height      string  `db:"height"`
	Weight      string  `db:"weight"`
	BirthDate   string  `db:"birth_date"`
	Injured     *bool   `db:"injured"`
	Statistics  *string `db:"statistics"`
}

type playerSquadIdentityModel struct {
	ID    int64  `db:"id"`
	Name  string `db:"name"`
	Age   *int   `db:"age"`
	Photo string `db:"photo"`
}

type playerStubModel struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type squadMemberModel struct {
	TeamID   int64  `db:"team_id"`
	PlayerID int64  `db:"player_id"`
	Number   *int   `db:"number"`
	Position string `db:"position"`
}

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (player.Player, bool, error) {
	query, args, err := qb.Select(
		"id", "name", "age", "nationality", "photo", "height", "weight", "birth_date", "injured", "statistics::text AS statistics",
	).From("player_details").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player query: %w", err)
	}

	var row playerProfileModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player id=%d: %w", id, err)
	}

	p := player.Player{
		ID:          row.ID,
		Name:        row.Name,
		Age:         row.Age,
		Nationality: row.Nationality,
		Photo:       row.Photo,
		Height:      row.Height,
		Weight:      row.Weight,
		BirthDate:   row.BirthDate,
		Injured:     row.Injured,
	}
	if row.Statistics != nil {
		p.Statistics = json.RawMessage(*row.Statistics)
	}
	return p, true, nil
}

func (r *PlayerRepository) UpsertProfile(ctx context.Context, p player.Player) error {
	model := playerProfileModel{
		ID:          p.ID,
		Name:        p.Name,
		Age:         p.Age,
		Nationality: p.Nationality,
		Photo:       p.Photo,
		Height:      p.Height,
		Weight:      p.Weight,
		BirthDate:   p.BirthDate,
		Injured:     p.Injured,
		Statistics:  jsonText(p.Statistics),
	}
	query, args, err := qb.InsertModel("player_details", model, `ON CONFLICT (id)
DO UPDATE SET
    name = EXCLUDED.name,
    age = EXCLUDED.age,
    nationality = EXCLUDED.nationality,
    photo = EXCLUDED.photo,
    height = EXCLUDED.height,
    weight = EXCLUDED.weight,
    birth_date = EXCLUDED.birth_date,
    injured = EXCLUDED.injured,
    statistics = EXCLUDED.statistics,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert player profile query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert player profile id=%d: %w", p.ID, err)
	}
	return nil
}

func (r *PlayerRepository) SaveSquad(ctx context.Context, teamID int64, players []player.Player, members []player.SquadMember) error {
	if len(players) == 0 && len(members) == 0 {
		return nil
	}
	identities := make([]playerSquadIdentityModel, 0, len(players))
	for _, p := range players {
		identities = append(identities, playerSquadIdentityModel{ID: p.ID, Name: p.Name, Age: p.Age, Photo: p.Photo})
	}
	rows := make([]squadMemberModel, 0, len(members))
	for _, m := range members {
		rows = append(rows, squadMemberModel{TeamID: teamID, PlayerID: m.PlayerID, Number: m.Number, Position: m.Position})
	}

	return withTx(ctx, r.db, "save squad", func(tx *sqlx.Tx) error {
		if err := insertChunked(ctx, tx, "player_details", identities, `ON CONFLICT (id)
DO UPDATE SET
    name = EXCLUDED.name,
    age = EXCLUDED.age,
    photo = EXCLUDED.photo,
    updated_at = NOW()`); err != nil {
			return fmt.Errorf("upsert squad players team=%d: %w", teamID, err)
		}
		if err := insertChunked(ctx, tx, "team_squads", rows, `ON CONFLICT (team_id, player_id)
DO UPDATE SET
    number = EXCLUDED.number,
    position = EXCLUDED.position,
    updated_at = NOW()`); err != nil {
			return fmt.Errorf("upsert team squad team=%d: %w", teamID, err)
		}
		return nil
	})
}

func (r *PlayerRepository) ListSquad(ctx context.Context, teamID int64) ([]player.SquadMember, error) {
	query, args, err := qb.Select("team_id", "player_id", "number", "position").From("team_squads").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team squad query: %w", err)
	}

	var rows []squadMemberModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select team squad team=%d: %w", teamID, err)
	}
	out := make([]player.SquadMember, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.SquadMember{TeamID: row.TeamID, PlayerID: row.PlayerID, Number: row.Number, Position: row.Position})
	}
	return out, nil
}

// insertPlayerStubs creates bare player rows so foreign keys hold; existing
// rows are left alone.
func insertPlayerStubs(ctx context.Context, exec sqlx.ExecerContext, stubs []playerStubModel) error {
	if len(stubs) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(stubs))
	unique := make([]playerStubModel, 0, len(stubs))
	for _, s := range stubs {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		unique = append(unique, s)
	}
	return insertChunked(ctx, exec, "player_details", unique, "ON CONFLICT (id) DO NOTHING")
}
