package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/matchday-sync/internal/domain/league"
	basecache "github.com/riskibarqy/matchday-sync/internal/platform/cache"
)

type cachedLeague struct {
	value  league.League
	exists bool
}

type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store[cachedLeague]
}

func NewLeagueRepository(next league.Repository, ttl time.Duration) *LeagueRepository {
	return &LeagueRepository{next: next, cache: basecache.NewStore[cachedLeague](ttl)}
}

func leagueKey(id int64) string {
	return "league:" + strconv.FormatInt(id, 10)
}

func (r *LeagueRepository) GetByID(ctx context.Context, id int64) (league.League, bool, error) {
	cached, err := r.cache.GetOrLoad(ctx, leagueKey(id), func(ctx context.Context) (cachedLeague, error) {
		l, ok, err := r.next.GetByID(ctx, id)
		if err != nil {
			return cachedLeague{}, err
		}
		return cachedLeague{value: l, exists: ok}, nil
	}, func(c cachedLeague) bool { return c.exists })
	if err != nil {
		return league.League{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) Upsert(ctx context.Context, l league.League) error {
	defer r.cache.Delete(leagueKey(l.ID))
	return r.next.Upsert(ctx, l)
}
