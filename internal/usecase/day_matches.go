package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/riskibarqy/matchday-sync/internal/domain/detailcache"
	"github.com/riskibarqy/matchday-sync/internal/domain/quota"
	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
	"github.com/riskibarqy/matchday-sync/internal/platform/metrics"
)

const dayMatchesTimezone = "Asia/Tokyo"

type DayMatchesResult struct {
	Response []json.RawMessage `json:"response"`
}

// DayMatchesService serves the per-date match listing from storage and
// fills it from upstream at most once per date.
type DayMatchesService struct {
	repo     detailcache.Repository
	provider FootballProvider
	ledger   *QuotaLedger
	metrics  *metrics.Recorder
	logger   *logging.Logger
}

func NewDayMatchesService(repo detailcache.Repository, provider FootballProvider, ledger *QuotaLedger, recorder *metrics.Recorder, logger *logging.Logger) *DayMatchesService {
	if logger == nil {
		logger = logging.Default()
	}
	return &DayMatchesService{repo: repo, provider: provider, ledger: ledger, metrics: recorder, logger: logger}
}

func (s *DayMatchesService) GetByDate(ctx context.Context, date string) (DayMatchesResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DayMatchesService.GetByDate")
	defer span.End()

	date = strings.TrimSpace(date)
	if _, err := quota.ParseDateKey(date); err != nil {
		return DayMatchesResult{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}

	cached, err := s.repo.ListDayMatches(ctx, date)
	if err != nil {
		return DayMatchesResult{}, fmt.Errorf("list cached matches date=%s: %w", date, err)
	}
	s.metrics.CacheLookup("day_matches", len(cached) > 0)
	if len(cached) > 0 {
		out := DayMatchesResult{Response: make([]json.RawMessage, 0, len(cached))}
		for _, m := range cached {
			out.Response = append(out.Response, m.Data)
		}
		return out, nil
	}

	if err := s.ledger.Ensure(ctx); err != nil {
		return DayMatchesResult{}, err
	}
	items, err := s.provider.FetchFixturesByDate(ctx, date, dayMatchesTimezone)
	if err != nil {
		return DayMatchesResult{}, fmt.Errorf("fetch fixtures date=%s: %w", date, err)
	}

	out := DayMatchesResult{Response: make([]json.RawMessage, 0, len(items))}
	rows := make([]detailcache.DayMatch, 0, len(items))
	for _, item := range items {
		out.Response = append(out.Response, item.Raw)
		rows = append(rows, detailcache.DayMatch{
			ID:         item.Fixture.ID,
			Date:       date,
			KickoffAt:  item.Fixture.EventDate,
			LeagueID:   item.Fixture.LeagueID,
			Season:     item.Fixture.Season,
			HomeTeamID: item.Fixture.HomeTeamID,
			AwayTeamID: item.Fixture.AwayTeamID,
			Status:     item.Fixture.StatusShort,
			Data:       item.Raw,
		})
	}

	if len(rows) > 0 {
		if err := s.repo.UpsertDayMatches(ctx, rows); err != nil {
			return DayMatchesResult{}, fmt.Errorf("store matches date=%s: %w", date, err)
		}
		chargeQuota(ctx, s.ledger, s.logger, "day_matches")
	}
	return out, nil
}

// PlayerLookup is a quota-gated passthrough of the provider player endpoint.
type PlayerLookup struct {
	provider FootballProvider
	ledger   *QuotaLedger
	logger   *logging.Logger
}

func NewPlayerLookup(provider FootballProvider, ledger *QuotaLedger, logger *logging.Logger) *PlayerLookup {
	if logger == nil {
		logger = logging.Default()
	}
	return &PlayerLookup{provider: provider, ledger: ledger, logger: logger}
}

func (l *PlayerLookup) Get(ctx context.Context, playerID int64, season int) (json.RawMessage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerLookup.Get")
	defer span.End()

	if playerID <= 0 || season <= 0 {
		return nil, fmt.Errorf("%w: playerId and season are required", ErrInvalidInput)
	}
	if err := l.ledger.Ensure(ctx); err != nil {
		return nil, err
	}

	item, _, err := l.provider.FetchPlayer(ctx, playerID, season)
	if err != nil {
		return nil, fmt.Errorf("fetch player id=%d season=%d: %w", playerID, season, err)
	}
	if len(item.Envelope) == 0 {
		return nil, fmt.Errorf("%w: player id=%d", ErrNotFound, playerID)
	}
	chargeQuota(ctx, l.ledger, l.logger, "player_lookup")
	return item.Envelope, nil
}
