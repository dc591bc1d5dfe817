package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/riskibarqy/matchday-sync/internal/domain/detailcache"
)

type DetailCacheRepository struct {
	mu      sync.RWMutex
	entries map[detailcache.Kind]map[int64]detailcache.Entry
	matches map[int64]detailcache.DayMatch
}

func NewDetailCacheRepository() *DetailCacheRepository {
	return &DetailCacheRepository{
		entries: map[detailcache.Kind]map[int64]detailcache.Entry{
			detailcache.KindMatch: {},
			detailcache.KindTeam:  {},
		},
		matches: make(map[int64]detailcache.DayMatch),
	}
}

func (r *DetailCacheRepository) Get(_ context.Context, kind detailcache.Kind, id int64) (detailcache.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[kind][id]
	return entry, ok, nil
}

func (r *DetailCacheRepository) Put(_ context.Context, kind detailcache.Kind, entry detailcache.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[kind]; !ok {
		r.entries[kind] = make(map[int64]detailcache.Entry)
	}
	entry.Data = slices.Clone(entry.Data)
	r.entries[kind][entry.ID] = entry
	return nil
}

func (r *DetailCacheRepository) ListDayMatches(_ context.Context, date string) ([]detailcache.DayMatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]detailcache.DayMatch, 0)
	for _, m := range r.matches {
		if m.Date == date {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *DetailCacheRepository) UpsertDayMatches(_ context.Context, matches []detailcache.DayMatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range matches {
		r.matches[m.ID] = m
	}
	return nil
}
