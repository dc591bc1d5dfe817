package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/riskibarqy/matchday-sync/internal/domain/league"
	"github.com/riskibarqy/matchday-sync/internal/domain/leaguestanding"
	"github.com/riskibarqy/matchday-sync/internal/domain/teammapping"
)

type LeagueRepository struct {
	mu      sync.RWMutex
	leagues map[int64]league.League
}

func NewLeagueRepository() *LeagueRepository {
	return &LeagueRepository{leagues: make(map[int64]league.League)}
}

func (r *LeagueRepository) Upsert(_ context.Context, l league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.leagues[l.ID] = l
	return nil
}

func (r *LeagueRepository) GetByID(_ context.Context, id int64) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.leagues[id]
	return l, ok, nil
}

type TeamMappingRepository struct {
	mu       sync.RWMutex
	mappings map[int64][]teammapping.Mapping
}

func NewTeamMappingRepository(seed []teammapping.Mapping) *TeamMappingRepository {
	r := &TeamMappingRepository{mappings: make(map[int64][]teammapping.Mapping)}
	_ = r.UpsertMappings(context.Background(), seed)
	return r
}

func (r *TeamMappingRepository) UpsertMappings(_ context.Context, mappings []teammapping.Mapping) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range mappings {
		rows := r.mappings[m.LeagueID]
		idx := slices.IndexFunc(rows, func(x teammapping.Mapping) bool { return x.AFTeamID == m.AFTeamID })
		if idx >= 0 {
			rows[idx] = m
		} else {
			rows = append(rows, m)
		}
		r.mappings[m.LeagueID] = rows
	}
	return nil
}

func (r *TeamMappingRepository) ListByLeague(_ context.Context, leagueID int64) ([]teammapping.Mapping, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.mappings[leagueID]), nil
}

type StandingRepository struct {
	mu   sync.RWMutex
	rows map[standingKey]leaguestanding.Standing
}

type standingKey struct {
	leagueID int64
	teamID   int64
	season   int
}

func NewStandingRepository() *StandingRepository {
	return &StandingRepository{rows: make(map[standingKey]leaguestanding.Standing)}
}

func (r *StandingRepository) UpsertStandings(_ context.Context, standings []leaguestanding.Standing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range standings {
		r.rows[standingKey{leagueID: s.LeagueID, teamID: s.TeamID, season: s.Season}] = s
	}
	return nil
}

func (r *StandingRepository) ListByLeague(_ context.Context, leagueID int64, season int) ([]leaguestanding.Standing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]leaguestanding.Standing, 0)
	for key, s := range r.rows {
		if key.leagueID == leagueID && key.season == season {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out, nil
}
