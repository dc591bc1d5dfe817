package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/riskibarqy/matchday-sync/internal/domain/player"
)

// PlayerRepository is shared by the lineup and player-stats repositories
// because all of them write player_details.
type PlayerRepository struct {
	mu      sync.RWMutex
	players map[int64]player.Player
	squads  map[int64][]player.SquadMember
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{
		players: make(map[int64]player.Player),
		squads:  make(map[int64][]player.SquadMember),
	}
}

func (r *PlayerRepository) GetByID(_ context.Context, id int64) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.players[id]
	return p, ok, nil
}

func (r *PlayerRepository) UpsertProfile(_ context.Context, p player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.players[p.ID] = p
	return nil
}

func (r *PlayerRepository) SaveSquad(_ context.Context, teamID int64, players []player.Player, members []player.SquadMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range players {
		current := r.players[p.ID]
		current.ID = p.ID
		current.Name = p.Name
		current.Age = p.Age
		current.Photo = p.Photo
		r.players[p.ID] = current
	}

	existing := r.squads[teamID]
	for _, m := range members {
		idx := slices.IndexFunc(existing, func(s player.SquadMember) bool { return s.PlayerID == m.PlayerID })
		if idx >= 0 {
			existing[idx] = m
			continue
		}
		existing = append(existing, m)
	}
	r.squads[teamID] = existing
	return nil
}

func (r *PlayerRepository) ListSquad(_ context.Context, teamID int64) ([]player.SquadMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.squads[teamID]), nil
}

func (r *PlayerRepository) ensureStub(id int64, name string) {
	if _, ok := r.players[id]; ok {
		return
	}
	r.players[id] = player.Player{ID: id, Name: name}
}

func (r *PlayerRepository) upsertIdentity(id int64, name, photo string) {
	current := r.players[id]
	current.ID = id
	current.Name = name
	current.Photo = photo
	r.players[id] = current
}
