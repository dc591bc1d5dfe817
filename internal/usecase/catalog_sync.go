package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/matchday-sync/internal/domain/league"
	"github.com/riskibarqy/matchday-sync/internal/domain/player"
	"github.com/riskibarqy/matchday-sync/internal/domain/team"
	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
)

const DefaultPlayerSeason = 2025

// CatalogSync holds the on-demand reference data jobs: teams, squads,
// players and leagues.
type CatalogSync struct {
	provider     FootballProvider
	teamRepo     team.Repository
	playerRepo   player.Repository
	leagueRepo   league.Repository
	ledger       *QuotaLedger
	squadWorkers int
	logger       *logging.Logger
}

func NewCatalogSync(
	provider FootballProvider,
	teamRepo team.Repository,
	playerRepo player.Repository,
	leagueRepo league.Repository,
	ledger *QuotaLedger,
	squadWorkers int,
	logger *logging.Logger,
) *CatalogSync {
	if logger == nil {
		logger = logging.Default()
	}
	if squadWorkers <= 0 {
		squadWorkers = 2
	}
	return &CatalogSync{
		provider:     provider,
		teamRepo:     teamRepo,
		playerRepo:   playerRepo,
		leagueRepo:   leagueRepo,
		ledger:       ledger,
		squadWorkers: squadWorkers,
		logger:       logger.With("component", "catalog_sync"),
	}
}

func (s *CatalogSync) SyncTeam(ctx context.Context, teamID int64) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogSync.SyncTeam")
	defer span.End()

	if teamID <= 0 {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if err := s.ledger.Ensure(ctx); err != nil {
		return team.Team{}, err
	}

	item, ok, err := s.provider.FetchTeam(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("fetch team id=%d: %w", teamID, err)
	}
	if !ok {
		return team.Team{}, fmt.Errorf("%w: team id=%d", ErrNotFound, teamID)
	}

	row := team.Team{
		ID:         item.ID,
		Name:       item.Name,
		Code:       item.Code,
		Country:    item.Country,
		Founded:    item.Founded,
		Logo:       item.Logo,
		IsNational: item.National,
		Venue: team.Venue{
			Name:     item.Venue.Name,
			City:     item.Venue.City,
			Capacity: item.Venue.Capacity,
			Surface:  item.Venue.Surface,
			Image:    item.Venue.Image,
		},
	}
	if err := row.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.teamRepo.UpsertFull(ctx, row); err != nil {
		return team.Team{}, fmt.Errorf("upsert team id=%d: %w", teamID, err)
	}
	chargeQuota(ctx, s.ledger, s.logger, "team")
	return row, nil
}

type SquadSyncResult struct {
	TeamID  int64 `json:"team_id"`
	Players int   `json:"players"`
}

func (s *CatalogSync) SyncSquad(ctx context.Context, teamID int64) (SquadSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogSync.SyncSquad")
	defer span.End()

	if teamID <= 0 {
		return SquadSyncResult{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if err := s.ledger.Ensure(ctx); err != nil {
		return SquadSyncResult{}, err
	}

	squad, ok, err := s.provider.FetchSquad(ctx, teamID)
	if err != nil {
		return SquadSyncResult{}, fmt.Errorf("fetch squad team=%d: %w", teamID, err)
	}
	if !ok || len(squad.Players) == 0 {
		return SquadSyncResult{}, fmt.Errorf("%w: no squad for team id=%d", ErrNotFound, teamID)
	}

	players := make([]player.Player, 0, len(squad.Players))
	members := make([]player.SquadMember, 0, len(squad.Players))
	for _, p := range squad.Players {
		if p.ID <= 0 {
			continue
		}
		players = append(players, player.Player{ID: p.ID, Name: p.Name, Age: p.Age, Photo: p.Photo})
		members = append(members, player.SquadMember{TeamID: teamID, PlayerID: p.ID, Number: p.Number, Position: p.Position})
	}

	if err := s.playerRepo.SaveSquad(ctx, teamID, players, members); err != nil {
		return SquadSyncResult{}, fmt.Errorf("save squad team=%d: %w", teamID, err)
	}
	chargeQuota(ctx, s.ledger, s.logger, "squad")
	return SquadSyncResult{TeamID: teamID, Players: len(members)}, nil
}

type SquadBatchItem struct {
	TeamID     int64  `json:"team_id"`
	Status     string `json:"status"`
	Players    int    `json:"players"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

type SquadBatchResult struct {
	SuccessCount int              `json:"success_count"`
	FailedCount  int              `json:"failed_count"`
	Items        []SquadBatchItem `json:"items"`
}

const (
	batchStatusSuccess = "success"
	batchStatusFailed  = "failed"
)

// SyncAllSquads refreshes many squads on a small worker pool. When teamIDs
// is empty every stored team is synced.
func (s *CatalogSync) SyncAllSquads(ctx context.Context, teamIDs []int64) (SquadBatchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogSync.SyncAllSquads")
	defer span.End()

	ids := uniquePositiveIDs(teamIDs)
	if len(ids) == 0 {
		teams, err := s.teamRepo.ListAll(ctx)
		if err != nil {
			return SquadBatchResult{}, fmt.Errorf("list teams: %w", err)
		}
		for _, t := range teams {
			ids = append(ids, t.ID)
		}
	}
	result := SquadBatchResult{Items: []SquadBatchItem{}}
	if len(ids) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(s.squadWorkers)
	if err != nil {
		return SquadBatchResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		successCount atomic.Int32
		failedCount  atomic.Int32
		workers      sync.WaitGroup
	)
	results := make(chan SquadBatchItem, len(ids))

	for _, teamID := range ids {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := SquadBatchItem{TeamID: teamID, Status: batchStatusSuccess}
			res, err := s.SyncSquad(ctx, teamID)
			if err != nil {
				row.Status = batchStatusFailed
				row.Message = err.Error()
				failedCount.Add(1)
			} else {
				row.Players = res.Players
				successCount.Add(1)
			}
			row.DurationMs = time.Since(start).Milliseconds()
			results <- row
		}); err != nil {
			workers.Done()
			return SquadBatchResult{}, fmt.Errorf("submit squad sync to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Items = append(result.Items, row)
	}
	sort.SliceStable(result.Items, func(i, j int) bool { return result.Items[i].TeamID < result.Items[j].TeamID })

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	s.logger.InfoContext(ctx, "bulk squad sync finished", "teams", len(ids), "success", result.SuccessCount, "failed", result.FailedCount)
	return result, nil
}

func (s *CatalogSync) SyncPlayer(ctx context.Context, playerID int64, season int) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogSync.SyncPlayer")
	defer span.End()

	if playerID <= 0 {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if season <= 0 {
		season = DefaultPlayerSeason
	}
	if err := s.ledger.Ensure(ctx); err != nil {
		return player.Player{}, err
	}

	item, ok, err := s.provider.FetchPlayer(ctx, playerID, season)
	if err != nil {
		return player.Player{}, fmt.Errorf("fetch player id=%d season=%d: %w", playerID, season, err)
	}
	if !ok {
		return player.Player{}, fmt.Errorf("%w: player id=%d season=%d", ErrNotFound, playerID, season)
	}

	row := player.Player{
		ID:          item.ID,
		Name:        item.Name,
		Age:         item.Age,
		Nationality: item.Nationality,
		Photo:       item.Photo,
		Height:      item.Height,
		Weight:      item.Weight,
		BirthDate:   item.BirthDate,
		Injured:     item.Injured,
		Statistics:  item.Statistics,
	}
	if err := s.playerRepo.UpsertProfile(ctx, row); err != nil {
		return player.Player{}, fmt.Errorf("upsert player id=%d: %w", playerID, err)
	}
	chargeQuota(ctx, s.ledger, s.logger, "player")
	return row, nil
}

func (s *CatalogSync) SyncLeague(ctx context.Context, leagueID int64) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogSync.SyncLeague")
	defer span.End()

	if leagueID <= 0 {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if err := s.ledger.Ensure(ctx); err != nil {
		return league.League{}, err
	}

	item, ok, err := s.provider.FetchLeague(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("fetch league id=%d: %w", leagueID, err)
	}
	if !ok {
		return league.League{}, fmt.Errorf("%w: league id=%d", ErrNotFound, leagueID)
	}

	row := league.League{
		ID:          item.ID,
		Name:        item.Name,
		Type:        item.Type,
		Logo:        item.Logo,
		CountryName: item.CountryName,
		CountryCode: item.CountryCode,
		CountryFlag: item.CountryFlag,
	}
	if err := s.leagueRepo.Upsert(ctx, row); err != nil {
		return league.League{}, fmt.Errorf("upsert league id=%d: %w", leagueID, err)
	}
	chargeQuota(ctx, s.ledger, s.logger, "league")
	return row, nil
}
