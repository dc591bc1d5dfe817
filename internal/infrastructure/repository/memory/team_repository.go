package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/matchday-sync/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	teams map[int64]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	r := &TeamRepository{teams: make(map[int64]team.Team, len(teams))}
	for _, t := range teams {
		r.teams[t.ID] = t
	}
	return r
}

func (r *TeamRepository) ListAll(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.teams))
	for _, t := range r.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, id int64) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.teams[id]
	return t, ok, nil
}

func (r *TeamRepository) UpsertBasic(_ context.Context, teams []team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range teams {
		current := r.teams[t.ID]
		current.ID = t.ID
		current.Name = t.Name
		current.Logo = t.Logo
		r.teams[t.ID] = current
	}
	return nil
}

func (r *TeamRepository) UpsertFull(_ context.Context, t team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.teams[t.ID] = t
	return nil
}
