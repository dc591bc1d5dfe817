package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/singleflight"

	"github.com/riskibarqy/matchday-sync/internal/domain/detailcache"
	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
	"github.com/riskibarqy/matchday-sync/internal/platform/metrics"
)

var (
	emptyJSONArray = json.RawMessage("[]")
	jsonNull       = json.RawMessage("null")
)

type MatchDetailsResult struct {
	Response []json.RawMessage `json:"response"`
}

type TeamDetails struct {
	TeamInfo json.RawMessage `json:"teamInfo"`
	Squad    json.RawMessage `json:"squad"`
}

// DetailCacheService serves match and team detail pages from storage and
// only reaches upstream on a miss. Rows never expire.
type DetailCacheService struct {
	repo     detailcache.Repository
	provider FootballProvider
	ledger   *QuotaLedger
	metrics  *metrics.Recorder
	logger   *logging.Logger
	flight   singleflight.Group
	now      func() time.Time
}

func NewDetailCacheService(
	repo detailcache.Repository,
	provider FootballProvider,
	ledger *QuotaLedger,
	recorder *metrics.Recorder,
	logger *logging.Logger,
) *DetailCacheService {
	if logger == nil {
		logger = logging.Default()
	}
	return &DetailCacheService{
		repo:     repo,
		provider: provider,
		ledger:   ledger,
		metrics:  recorder,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *DetailCacheService) GetMatchDetails(ctx context.Context, matchID int64) (MatchDetailsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DetailCacheService.GetMatchDetails")
	defer span.End()

	if matchID <= 0 {
		return MatchDetailsResult{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	data, err := s.readThrough(ctx, detailcache.KindMatch, matchID, func(ctx context.Context) (json.RawMessage, int, error) {
		item, ok, err := s.provider.FetchFixtureByID(ctx, matchID)
		if err != nil {
			return nil, 0, fmt.Errorf("fetch fixture id=%d: %w", matchID, err)
		}
		if !ok || len(item.Raw) == 0 {
			return nil, 0, fmt.Errorf("%w: match id=%d", ErrNotFound, matchID)
		}
		return item.Raw, 1, nil
	})
	if err != nil {
		return MatchDetailsResult{}, err
	}

	return MatchDetailsResult{Response: []json.RawMessage{data}}, nil
}

func (s *DetailCacheService) GetTeamDetails(ctx context.Context, teamID int64) (TeamDetails, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DetailCacheService.GetTeamDetails")
	defer span.End()

	if teamID <= 0 {
		return TeamDetails{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	data, err := s.readThrough(ctx, detailcache.KindTeam, teamID, func(ctx context.Context) (json.RawMessage, int, error) {
		return s.fetchTeamDetails(ctx, teamID)
	})
	if err != nil {
		return TeamDetails{}, err
	}

	var out TeamDetails
	if err := sonic.Unmarshal(data, &out); err != nil {
		return TeamDetails{}, fmt.Errorf("decode cached team details id=%d: %w", teamID, err)
	}
	if len(out.TeamInfo) == 0 {
		out.TeamInfo = jsonNull
	}
	if len(out.Squad) == 0 {
		out.Squad = emptyJSONArray
	}
	return out, nil
}

type fetchFunc func(ctx context.Context) (data json.RawMessage, calls int, err error)

// readThrough returns the cached row or populates it. Concurrent misses on
// the same key share one upstream fetch.
func (s *DetailCacheService) readThrough(ctx context.Context, kind detailcache.Kind, id int64, fetch fetchFunc) (json.RawMessage, error) {
	entry, ok, err := s.repo.Get(ctx, kind, id)
	if err != nil {
		return nil, fmt.Errorf("read %s detail cache id=%d: %w", kind, id, err)
	}
	s.metrics.CacheLookup(string(kind), ok)
	if ok && len(entry.Data) > 0 {
		return entry.Data, nil
	}

	key := string(kind) + ":" + strconv.FormatInt(id, 10)
	out, err, _ := s.flight.Do(key, func() (any, error) {
		if err := s.ledger.Ensure(ctx); err != nil {
			return nil, err
		}

		data, calls, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		if err := s.repo.Put(ctx, kind, detailcache.Entry{ID: id, Data: data, UpdatedAt: s.now().UTC()}); err != nil {
			return nil, fmt.Errorf("store %s detail cache id=%d: %w", kind, id, err)
		}
		for i := 0; i < calls; i++ {
			chargeQuota(ctx, s.ledger, s.logger, "detail_cache."+string(kind))
		}

		s.logger.InfoContext(ctx, "detail cache populated", "kind", kind, "id", id, "upstream_calls", calls)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(json.RawMessage), nil
}

func (s *DetailCacheService) fetchTeamDetails(ctx context.Context, teamID int64) (json.RawMessage, int, error) {
	var (
		teamInfo = jsonNull
		squad    = emptyJSONArray
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		item, ok, err := s.provider.FetchTeam(ctx, teamID)
		if err != nil {
			return fmt.Errorf("fetch team id=%d: %w", teamID, err)
		}
		if ok && len(item.Raw) > 0 {
			teamInfo = item.Raw
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		item, ok, err := s.provider.FetchSquad(ctx, teamID)
		if err != nil {
			return fmt.Errorf("fetch squad team=%d: %w", teamID, err)
		}
		if ok && len(item.RawPlayers) > 0 {
			squad = item.RawPlayers
		}
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, 0, err
	}

	data, err := sonic.Marshal(TeamDetails{TeamInfo: teamInfo, Squad: squad})
	if err != nil {
		return nil, 0, fmt.Errorf("encode team details id=%d: %w", teamID, err)
	}
	return data, 2, nil
}
