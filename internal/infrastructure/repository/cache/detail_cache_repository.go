package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/matchday-sync/internal/domain/detailcache"
	basecache "github.com/riskibarqy/matchday-sync/internal/platform/cache"
)

type cachedEntry struct {
	value  detailcache.Entry
	exists bool
}

// DetailCacheRepository memoizes stored detail payloads in process. Misses
// are not remembered so a later Put from another replica is picked up.
type DetailCacheRepository struct {
	next    detailcache.Repository
	entries *basecache.Store[cachedEntry]
	days    *basecache.Store[[]detailcache.DayMatch]
}

func NewDetailCacheRepository(next detailcache.Repository, ttl time.Duration) *DetailCacheRepository {
	return &DetailCacheRepository{
		next:    next,
		entries: basecache.NewStore[cachedEntry](ttl),
		days:    basecache.NewStore[[]detailcache.DayMatch](ttl),
	}
}

func entryKey(kind detailcache.Kind, id int64) string {
	return "detail:" + string(kind) + ":" + strconv.FormatInt(id, 10)
}

func dayKey(date string) string {
	return "day:" + date
}

func (r *DetailCacheRepository) Get(ctx context.Context, kind detailcache.Kind, id int64) (detailcache.Entry, bool, error) {
	cached, err := r.entries.GetOrLoad(ctx, entryKey(kind, id), func(ctx context.Context) (cachedEntry, error) {
		entry, ok, err := r.next.Get(ctx, kind, id)
		if err != nil {
			return cachedEntry{}, err
		}
		return cachedEntry{value: entry, exists: ok}, nil
	}, func(c cachedEntry) bool { return c.exists })
	if err != nil {
		return detailcache.Entry{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *DetailCacheRepository) Put(ctx context.Context, kind detailcache.Kind, entry detailcache.Entry) error {
	if err := r.next.Put(ctx, kind, entry); err != nil {
		return err
	}
	r.entries.Set(entryKey(kind, entry.ID), cachedEntry{value: entry, exists: true})
	return nil
}

// ListDayMatches only remembers non-empty listings; an empty date is the
// signal for the caller to fetch from upstream.
func (r *DetailCacheRepository) ListDayMatches(ctx context.Context, date string) ([]detailcache.DayMatch, error) {
	items, err := r.days.GetOrLoad(ctx, dayKey(date), func(ctx context.Context) ([]detailcache.DayMatch, error) {
		items, err := r.next.ListDayMatches(ctx, date)
		if err != nil {
			return nil, err
		}
		return append([]detailcache.DayMatch(nil), items...), nil
	}, func(items []detailcache.DayMatch) bool { return len(items) > 0 })
	if err != nil {
		return nil, err
	}
	return append([]detailcache.DayMatch(nil), items...), nil
}

func (r *DetailCacheRepository) UpsertDayMatches(ctx context.Context, matches []detailcache.DayMatch) error {
	if err := r.next.UpsertDayMatches(ctx, matches); err != nil {
		return err
	}
	for _, m := range matches {
		r.days.Delete(dayKey(m.Date))
	}
	return nil
}
