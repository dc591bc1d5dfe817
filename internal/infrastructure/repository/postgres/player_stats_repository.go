package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchday-sync/internal/domain/playerstats"
)

type playerIdentityModel struct {
	ID    int64  `db:"id"`
	Name  string `db:"name"`
	Photo string `db:"photo"`
}

type fixturePlayerModel struct {
	FixtureID         int64    `db:"fixture_id"`
	PlayerID          int64    `db:"player_id"`
	TeamID            int64    `db:"team_id"`
	PlayerName        string   `db:"player_name"`
	Minutes           int      `db:"minutes"`
	Number            *int     `db:"number"`
	Position          string   `db:"position"`
	Rating            *float64 `db:"rating"`
	Captain           bool     `db:"captain"`
	Substitute        bool     `db:"substitute"`
	Goals             int      `db:"goals"`
	Assists           int      `db:"assists"`
	ShotsTotal        int      `db:"shots_total"`
	PassesTotal       int      `db:"passes_total"`
	PassesAccuracyPct int      `db:"passes_accuracy_pct"`
	TacklesTotal      int      `db:"tackles_total"`
	Interceptions     int      `db:"interceptions"`
	DuelsWon          int      `db:"duels_won"`
	DribblesSuccess   int      `db:"dribbles_success"`
	YellowCards       int      `db:"yellow_cards"`
	RedCards          int      `db:"red_cards"`
	RawStats          *string  `db:"raw_stats"`
}

type PlayerStatsRepository struct {
	db *sqlx.DB
}

func NewPlayerStatsRepository(db *sqlx.DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{db: db}
}

func (r *PlayerStatsRepository) SaveFixturePlayers(ctx context.Context, rows []playerstats.FixturePlayer) error {
	if len(rows) == 0 {
		return nil
	}

	identities := make([]playerIdentityModel, 0, len(rows))
	seenIdentity := make(map[int64]struct{}, len(rows))
	lines := make([]fixturePlayerModel, 0, len(rows))
	seenLine := make(map[[2]int64]int, len(rows))
	for _, row := range rows {
		if _, ok := seenIdentity[row.PlayerID]; !ok {
			seenIdentity[row.PlayerID] = struct{}{}
			identities = append(identities, playerIdentityModel{ID: row.PlayerID, Name: row.PlayerName, Photo: row.Photo})
		}

		model := fixturePlayerModel{
			FixtureID:         row.FixtureID,
			PlayerID:          row.PlayerID,
			TeamID:            row.TeamID,
			PlayerName:        row.PlayerName,
			Minutes:           row.Minutes,
			Number:            row.Number,
			Position:          row.Position,
			Rating:            row.Rating,
			Captain:           row.Captain,
			Substitute:        row.Substitute,
			Goals:             row.Goals,
			Assists:           row.Assists,
			ShotsTotal:        row.ShotsTotal,
			PassesTotal:       row.PassesTotal,
			PassesAccuracyPct: row.PassesAccuracyPct,
			TacklesTotal:      row.TacklesTotal,
			Interceptions:     row.Interceptions,
			DuelsWon:          row.DuelsWon,
			DribblesSuccess:   row.DribblesSuccess,
			YellowCards:       row.YellowCards,
			RedCards:          row.RedCards,
			RawStats:          jsonText(row.RawStats),
		}
		key := [2]int64{row.FixtureID, row.PlayerID}
		if i, ok := seenLine[key]; ok {
			lines[i] = model
			continue
		}
		seenLine[key] = len(lines)
		lines = append(lines, model)
	}

	return withTx(ctx, r.db, "save fixture players", func(tx *sqlx.Tx) error {
		if err := insertChunked(ctx, tx, "player_details", identities, `ON CONFLICT (id)
DO UPDATE SET
    name = EXCLUDED.name,
    photo = COALESCE(NULLIF(EXCLUDED.photo, ''), player_details.photo),
    updated_at = NOW()`); err != nil {
			return fmt.Errorf("upsert player identities: %w", err)
		}
		if err := insertChunked(ctx, tx, "fixture_players", lines, `ON CONFLICT (fixture_id, player_id)
DO UPDATE SET
    team_id = EXCLUDED.team_id,
    player_name = EXCLUDED.player_name,
    minutes = EXCLUDED.minutes,
    number = EXCLUDED.number,
    position = EXCLUDED.position,
    rating = EXCLUDED.rating,
    captain = EXCLUDED.captain,
    substitute = EXCLUDED.substitute,
    goals = EXCLUDED.goals,
    assists = EXCLUDED.assists,
    shots_total = EXCLUDED.shots_total,
    passes_total = EXCLUDED.passes_total,
    passes_accuracy_pct = EXCLUDED.passes_accuracy_pct,
    tackles_total = EXCLUDED.tackles_total,
    interceptions = EXCLUDED.interceptions,
    duels_won = EXCLUDED.duels_won,
    dribbles_success = EXCLUDED.dribbles_success,
    yellow_cards = EXCLUDED.yellow_cards,
    red_cards = EXCLUDED.red_cards,
    raw_stats = EXCLUDED.raw_stats,
    updated_at = NOW()`); err != nil {
			return fmt.Errorf("upsert fixture players: %w", err)
		}
		return nil
	})
}

func (r *PlayerStatsRepository) ListByFixture(ctx context.Context, fixtureID int64) ([]playerstats.FixturePlayer, error) {
	const query = `
SELECT fp.fixture_id, fp.player_id, fp.team_id, fp.player_name, COALESCE(pd.photo, '') AS photo,
       fp.minutes, fp.number, fp.position, fp.rating, fp.captain, fp.substitute, fp.goals, fp.assists,
       fp.shots_total, fp.passes_total, fp.passes_accuracy_pct, fp.tackles_total, fp.interceptions,
       fp.duels_won, fp.dribbles_success, fp.yellow_cards, fp.red_cards, fp.raw_stats::text AS raw_stats
FROM fixture_players fp
LEFT JOIN player_details pd ON pd.id = fp.player_id
WHERE fp.fixture_id = $1
ORDER BY fp.team_id, fp.player_id`

	var rows []struct {
		fixturePlayerModel
		Photo string `db:"photo"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, fixtureID); err != nil {
		return nil, fmt.Errorf("select fixture players fixture=%d: %w", fixtureID, err)
	}

	out := make([]playerstats.FixturePlayer, 0, len(rows))
	for _, row := range rows {
		item := playerstats.FixturePlayer{
			FixtureID:         row.FixtureID,
			PlayerID:          row.PlayerID,
			TeamID:            row.TeamID,
			PlayerName:        row.PlayerName,
			Photo:             row.Photo,
			Minutes:           row.Minutes,
			Number:            row.Number,
			Position:          row.Position,
			Rating:            row.Rating,
			Captain:           row.Captain,
			Substitute:        row.Substitute,
			Goals:             row.Goals,
			Assists:           row.Assists,
			ShotsTotal:        row.ShotsTotal,
			PassesTotal:       row.PassesTotal,
			PassesAccuracyPct: row.PassesAccuracyPct,
			TacklesTotal:      row.TacklesTotal,
			Interceptions:     row.Interceptions,
			DuelsWon:          row.DuelsWon,
			DribblesSuccess:   row.DribblesSuccess,
			YellowCards:       row.YellowCards,
			RedCards:          row.RedCards,
		}
		if row.RawStats != nil {
			item.RawStats = json.RawMessage(*row.RawStats)
		}
		out = append(out, item)
	}
	return out, nil
}
