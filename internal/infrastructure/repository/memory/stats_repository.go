package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/riskibarqy/matchday-sync/internal/domain/playerstats"
	"github.com/riskibarqy/matchday-sync/internal/domain/teamstats"
)

type TeamStatsRepository struct {
	mu    sync.RWMutex
	stats map[int64][]teamstats.TeamStatistics
}

func NewTeamStatsRepository() *TeamStatsRepository {
	return &TeamStatsRepository{stats: make(map[int64][]teamstats.TeamStatistics)}
}

func (r *TeamStatsRepository) UpsertTeamStatistics(_ context.Context, stats []teamstats.TeamStatistics) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range stats {
		rows := r.stats[s.FixtureID]
		idx := slices.IndexFunc(rows, func(x teamstats.TeamStatistics) bool { return x.TeamID == s.TeamID })
		if idx >= 0 {
			rows[idx] = s
		} else {
			rows = append(rows, s)
		}
		r.stats[s.FixtureID] = rows
	}
	return nil
}

func (r *TeamStatsRepository) ListByFixture(_ context.Context, fixtureID int64) ([]teamstats.TeamStatistics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.stats[fixtureID]), nil
}

type PlayerStatsRepository struct {
	mu      sync.RWMutex
	players *PlayerRepository
	rows    map[int64][]playerstats.FixturePlayer
}

func NewPlayerStatsRepository(players *PlayerRepository) *PlayerStatsRepository {
	if players == nil {
		players = NewPlayerRepository()
	}
	return &PlayerStatsRepository{players: players, rows: make(map[int64][]playerstats.FixturePlayer)}
}

func (r *PlayerStatsRepository) SaveFixturePlayers(_ context.Context, rows []playerstats.FixturePlayer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.players.mu.Lock()
	for _, row := range rows {
		r.players.upsertIdentity(row.PlayerID, row.PlayerName, row.Photo)
	}
	r.players.mu.Unlock()

	for _, row := range rows {
		existing := r.rows[row.FixtureID]
		idx := slices.IndexFunc(existing, func(x playerstats.FixturePlayer) bool { return x.PlayerID == row.PlayerID })
		if idx >= 0 {
			existing[idx] = row
		} else {
			existing = append(existing, row)
		}
		r.rows[row.FixtureID] = existing
	}
	return nil
}

func (r *PlayerStatsRepository) ListByFixture(_ context.Context, fixtureID int64) ([]playerstats.FixturePlayer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.rows[fixtureID]), nil
}
