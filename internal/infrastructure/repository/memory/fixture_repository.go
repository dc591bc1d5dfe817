package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/matchday-sync/internal/domain/fixture"
)

type FixtureRepository struct {
	mu       sync.RWMutex
	fixtures map[int64]fixture.Fixture
	events   map[int64][]fixture.Event
}

func NewFixtureRepository(fixtures []fixture.Fixture) *FixtureRepository {
	r := &FixtureRepository{
		fixtures: make(map[int64]fixture.Fixture, len(fixtures)),
		events:   make(map[int64][]fixture.Event),
	}
	for _, item := range fixtures {
		r.fixtures[item.ID] = item
	}
	return r
}

func (r *FixtureRepository) GetByID(_ context.Context, id int64) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.fixtures[id]
	return item, ok, nil
}

func (r *FixtureRepository) UpsertFixtures(_ context.Context, fixtures []fixture.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range fixtures {
		if existing, ok := r.fixtures[item.ID]; ok {
			item.IsTeamStatsSynced = existing.IsTeamStatsSynced
			item.IsPlayerStatsSynced = existing.IsPlayerStatsSynced
		} else {
			item.IsTeamStatsSynced = false
			item.IsPlayerStatsSynced = false
		}
		r.fixtures[item.ID] = item
	}
	return nil
}

func (r *FixtureRepository) ApplyLiveUpdate(_ context.Context, update fixture.LiveUpdate, events []fixture.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.fixtures[update.ID]
	if !ok {
		return fmt.Errorf("apply live update id=%d: %w", update.ID, fixture.ErrNotFound)
	}
	item.StatusShort = update.StatusShort
	item.StatusLong = update.StatusLong
	item.Elapsed = update.Elapsed
	item.GoalsHome = update.GoalsHome
	item.GoalsAway = update.GoalsAway
	item.Halftime = update.Halftime
	item.Fulltime = update.Fulltime
	item.Extratime = update.Extratime
	item.Penalty = update.Penalty
	r.fixtures[update.ID] = item
	r.events[update.ID] = slices.Clone(events)
	return nil
}

func (r *FixtureRepository) ListEvents(_ context.Context, fixtureID int64) ([]fixture.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.events[fixtureID]), nil
}

func (r *FixtureRepository) ListActiveIDs(_ context.Context, statuses []string, kickoffBefore time.Time) ([]int64, error) {
	return r.collect(func(f fixture.Fixture) bool {
		return slices.Contains(statuses, f.StatusShort) && !f.EventDate.After(kickoffBefore)
	}), nil
}

func (r *FixtureRepository) ListIDsBetween(_ context.Context, from, to time.Time) ([]int64, error) {
	return r.collect(func(f fixture.Fixture) bool {
		return !f.EventDate.Before(from) && !f.EventDate.After(to)
	}), nil
}

func (r *FixtureRepository) ListKickoffsBetween(_ context.Context, from, to time.Time) ([]time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]time.Time, 0)
	for _, f := range r.fixtures {
		if !f.EventDate.Before(from) && f.EventDate.Before(to) {
			out = append(out, f.EventDate)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out, nil
}

func (r *FixtureRepository) ListStatsBacklog(_ context.Context, statuses []string, limit int) ([]fixture.StatsCandidate, error) {
	ids := r.collect(func(f fixture.Fixture) bool {
		return slices.Contains(statuses, f.StatusShort) && (!f.IsTeamStatsSynced || !f.IsPlayerStatsSynced)
	})
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.StatsCandidate, 0, len(ids))
	for _, id := range ids {
		f := r.fixtures[id]
		out = append(out, fixture.StatsCandidate{ID: id, IsTeamStatsSynced: f.IsTeamStatsSynced, IsPlayerStatsSynced: f.IsPlayerStatsSynced})
	}
	return out, nil
}

func (r *FixtureRepository) MarkStatsSynced(_ context.Context, fixtureID int64, team, player bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.fixtures[fixtureID]
	if !ok {
		return nil
	}
	item.IsTeamStatsSynced = item.IsTeamStatsSynced || team
	item.IsPlayerStatsSynced = item.IsPlayerStatsSynced || player
	r.fixtures[fixtureID] = item
	return nil
}

// collect returns matching ids ordered by id for deterministic tests.
func (r *FixtureRepository) collect(match func(fixture.Fixture) bool) []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int64, 0)
	for id, f := range r.fixtures {
		if match(f) {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}
