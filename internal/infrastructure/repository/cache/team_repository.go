package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/matchday-sync/internal/domain/team"
	basecache "github.com/riskibarqy/matchday-sync/internal/platform/cache"
)

const teamKeyPrefix = "team:"

type cachedTeams struct {
	items []team.Team
	byID  map[int64]team.Team
}

// TeamRepository serves team reads from one cached snapshot of the table.
// Any upsert drops the snapshot.
type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store[cachedTeams]
}

func NewTeamRepository(next team.Repository, ttl time.Duration) *TeamRepository {
	return &TeamRepository{next: next, cache: basecache.NewStore[cachedTeams](ttl)}
}

func (r *TeamRepository) snapshot(ctx context.Context) (cachedTeams, error) {
	return r.cache.GetOrLoad(ctx, teamKeyPrefix+"list", func(ctx context.Context) (cachedTeams, error) {
		items, err := r.next.ListAll(ctx)
		if err != nil {
			return cachedTeams{}, err
		}
		out := cachedTeams{
			items: append([]team.Team(nil), items...),
			byID:  make(map[int64]team.Team, len(items)),
		}
		for _, t := range items {
			out.byID[t.ID] = t
		}
		return out, nil
	}, nil)
}

func (r *TeamRepository) ListAll(ctx context.Context) ([]team.Team, error) {
	snap, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return append([]team.Team(nil), snap.items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, bool, error) {
	snap, err := r.snapshot(ctx)
	if err != nil {
		return team.Team{}, false, err
	}
	t, ok := snap.byID[id]
	if ok {
		return t, true, nil
	}
	// Not in the snapshot yet; ask the store directly without caching the miss.
	return r.next.GetByID(ctx, id)
}

func (r *TeamRepository) UpsertBasic(ctx context.Context, teams []team.Team) error {
	defer r.cache.DeletePrefix(teamKeyPrefix)
	return r.next.UpsertBasic(ctx, teams)
}

func (r *TeamRepository) UpsertFull(ctx context.Context, t team.Team) error {
	defer r.cache.DeletePrefix(teamKeyPrefix)
	return r.next.UpsertFull(ctx, t)
}
