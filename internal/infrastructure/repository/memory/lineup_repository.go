package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/riskibarqy/matchday-sync/internal/domain/lineup"
)

type LineupRepository struct {
	mu      sync.RWMutex
	players *PlayerRepository
	teams   map[int64][]lineup.TeamLineup
	entries map[int64][]lineup.PlayerEntry
}

func NewLineupRepository(players *PlayerRepository) *LineupRepository {
	if players == nil {
		players = NewPlayerRepository()
	}
	return &LineupRepository{
		players: players,
		teams:   make(map[int64][]lineup.TeamLineup),
		entries: make(map[int64][]lineup.PlayerEntry),
	}
}

func (r *LineupRepository) SaveSnapshot(_ context.Context, snapshot lineup.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	teams := r.teams[snapshot.FixtureID]
	for _, t := range snapshot.Teams {
		idx := slices.IndexFunc(teams, func(x lineup.TeamLineup) bool { return x.TeamID == t.TeamID })
		if idx >= 0 {
			teams[idx] = t
			continue
		}
		teams = append(teams, t)
	}
	r.teams[snapshot.FixtureID] = teams

	r.players.mu.Lock()
	for _, p := range snapshot.Players {
		r.players.ensureStub(p.PlayerID, p.PlayerName)
	}
	r.players.mu.Unlock()

	entries := r.entries[snapshot.FixtureID]
	for _, p := range snapshot.Players {
		idx := slices.IndexFunc(entries, func(x lineup.PlayerEntry) bool { return x.PlayerID == p.PlayerID })
		if idx >= 0 {
			entries[idx] = p
			continue
		}
		entries = append(entries, p)
	}
	r.entries[snapshot.FixtureID] = entries
	return nil
}

func (r *LineupRepository) GetSnapshot(_ context.Context, fixtureID int64) (lineup.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lineup.Snapshot{
		FixtureID: fixtureID,
		Teams:     slices.Clone(r.teams[fixtureID]),
		Players:   slices.Clone(r.entries[fixtureID]),
	}, nil
}

func (r *LineupRepository) ListSyncedFixtureIDs(_ context.Context, fixtureIDs []int64) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int64, 0, len(fixtureIDs))
	for _, id := range fixtureIDs {
		if len(r.teams[id]) > 0 {
			out = append(out, id)
		}
	}
	return out, nil
}
