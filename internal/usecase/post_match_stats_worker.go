package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/matchday-sync/internal/domain/fixture"
	"github.com/riskibarqy/matchday-sync/internal/domain/playerstats"
	"github.com/riskibarqy/matchday-sync/internal/domain/teamstats"
	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
	"github.com/riskibarqy/matchday-sync/internal/platform/metrics"
)

const (
	FieldTeamStatsSynced   = "is_team_stats_synced"
	FieldPlayerStatsSynced = "is_player_stats_synced"
)

type StatsSyncInput struct {
	FixtureID           int64 `json:"fixture_id" validate:"required,gt=0"`
	IsTeamStatsSynced   bool  `json:"is_team_stats_synced"`
	IsPlayerStatsSynced bool  `json:"is_player_stats_synced"`
}

type StatsSyncResult struct {
	FixtureID     int64    `json:"fixture_id"`
	UpdatedFields []string `json:"updated_fields"`
}

// PostMatchStatsWorker fills team and player statistics for a finished
// fixture. Each branch runs only while its flag is false and flips it only
// once the provider returned data that was stored.
type PostMatchStatsWorker struct {
	provider      FootballProvider
	fixtureRepo   fixture.Repository
	teamStatsRepo teamstats.Repository
	playerRepo    playerstats.Repository
	ledger        *QuotaLedger
	metrics       *metrics.Recorder
	logger        *logging.Logger
}

func NewPostMatchStatsWorker(
	provider FootballProvider,
	fixtureRepo fixture.Repository,
	teamStatsRepo teamstats.Repository,
	playerRepo playerstats.Repository,
	ledger *QuotaLedger,
	recorder *metrics.Recorder,
	logger *logging.Logger,
) *PostMatchStatsWorker {
	if logger == nil {
		logger = logging.Default()
	}
	return &PostMatchStatsWorker{
		provider:      provider,
		fixtureRepo:   fixtureRepo,
		teamStatsRepo: teamStatsRepo,
		playerRepo:    playerRepo,
		ledger:        ledger,
		metrics:       recorder,
		logger:        logger.With("component", "stats_worker"),
	}
}

func (w *PostMatchStatsWorker) Sync(ctx context.Context, input StatsSyncInput) (StatsSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PostMatchStatsWorker.Sync")
	defer span.End()

	if input.FixtureID <= 0 {
		return StatsSyncResult{}, fmt.Errorf("%w: fixture_id is required", ErrInvalidInput)
	}

	result := StatsSyncResult{FixtureID: input.FixtureID, UpdatedFields: []string{}}
	var (
		teamDone, playerDone bool
		errs                 []error
	)

	if !input.IsTeamStatsSynced {
		done, err := w.syncTeamStats(ctx, input.FixtureID)
		if err != nil {
			errs = append(errs, err)
		}
		teamDone = done
	}
	if !input.IsPlayerStatsSynced {
		done, err := w.syncPlayerStats(ctx, input.FixtureID)
		if err != nil {
			errs = append(errs, err)
		}
		playerDone = done
	}

	if teamDone || playerDone {
		if err := w.fixtureRepo.MarkStatsSynced(ctx, input.FixtureID, teamDone, playerDone); err != nil {
			errs = append(errs, fmt.Errorf("mark stats synced fixture=%d: %w", input.FixtureID, err))
		} else {
			if teamDone {
				result.UpdatedFields = append(result.UpdatedFields, FieldTeamStatsSynced)
			}
			if playerDone {
				result.UpdatedFields = append(result.UpdatedFields, FieldPlayerStatsSynced)
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		w.metrics.WorkerOutcome("stats", "failed", 1)
		return result, err
	}

	w.metrics.WorkerOutcome("stats", "synced", 1)
	w.logger.InfoContext(ctx, "post-match stats sync finished", "fixture_id", input.FixtureID, "updated_fields", result.UpdatedFields)
	return result, nil
}

func (w *PostMatchStatsWorker) syncTeamStats(ctx context.Context, fixtureID int64) (bool, error) {
	if err := w.ledger.Ensure(ctx); err != nil {
		return false, err
	}

	items, err := w.provider.FetchTeamStatistics(ctx, fixtureID)
	if err != nil {
		return false, fmt.Errorf("fetch team statistics fixture=%d: %w", fixtureID, err)
	}
	rows := mapTeamStatistics(fixtureID, items)
	if len(rows) == 0 {
		w.logger.InfoContext(ctx, "team statistics not available yet", "fixture_id", fixtureID)
		return false, nil
	}

	if err := w.teamStatsRepo.UpsertTeamStatistics(ctx, rows); err != nil {
		return false, fmt.Errorf("store team statistics fixture=%d: %w", fixtureID, err)
	}
	chargeQuota(ctx, w.ledger, w.logger, "team_statistics")
	return true, nil
}

func (w *PostMatchStatsWorker) syncPlayerStats(ctx context.Context, fixtureID int64) (bool, error) {
	if err := w.ledger.Ensure(ctx); err != nil {
		return false, err
	}

	items, err := w.provider.FetchPlayerStatistics(ctx, fixtureID)
	if err != nil {
		return false, fmt.Errorf("fetch player statistics fixture=%d: %w", fixtureID, err)
	}
	rows := mapFixturePlayers(fixtureID, items)
	if len(rows) == 0 {
		w.logger.InfoContext(ctx, "player statistics not available yet", "fixture_id", fixtureID)
		return false, nil
	}

	if err := w.playerRepo.SaveFixturePlayers(ctx, rows); err != nil {
		return false, fmt.Errorf("store player statistics fixture=%d: %w", fixtureID, err)
	}
	chargeQuota(ctx, w.ledger, w.logger, "player_statistics")
	return true, nil
}

func mapTeamStatistics(fixtureID int64, items []ExternalTeamStatistics) []teamstats.TeamStatistics {
	out := make([]teamstats.TeamStatistics, 0, len(items))
	for _, item := range items {
		if item.Team.ID <= 0 {
			continue
		}
		values := make(map[string]string, len(item.Statistics))
		for _, stat := range item.Statistics {
			if _, seen := values[stat.Type]; !seen {
				values[stat.Type] = stat.Value
			}
		}

		out = append(out, teamstats.TeamStatistics{
			FixtureID:         fixtureID,
			TeamID:            item.Team.ID,
			PossessionPct:     parseStatInt(values["Ball Possession"]),
			ShotsTotal:        parseStatInt(values["Total Shots"]),
			ShotsOnGoal:       parseStatInt(values["Shots on Goal"]),
			ExpectedGoals:     parseStatFloat(values["Expected Goals"]),
			PassesTotal:       parseStatInt(values["Total passes"]),
			PassesAccuracyPct: parseStatInt(values["Passes %"]),
			Fouls:             parseStatInt(values["Fouls"]),
			Corners:           parseStatInt(values["Corner Kicks"]),
			Offsides:          parseStatInt(values["Offsides"]),
		})
	}
	return out
}

func mapFixturePlayers(fixtureID int64, items []ExternalTeamPlayers) []playerstats.FixturePlayer {
	var out []playerstats.FixturePlayer
	seen := make(map[int64]struct{})
	for _, team := range items {
		for _, p := range team.Players {
			if p.ID <= 0 {
				continue
			}
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}

			out = append(out, playerstats.FixturePlayer{
				FixtureID:         fixtureID,
				PlayerID:          p.ID,
				TeamID:            team.Team.ID,
				PlayerName:        p.Name,
				Photo:             p.Photo,
				Minutes:           intOrZero(p.Minutes),
				Number:            p.Number,
				Position:          p.Position,
				Rating:            parseRating(p.Rating),
				Captain:           p.Captain,
				Substitute:        p.Substitute,
				Goals:             intOrZero(p.Goals),
				Assists:           intOrZero(p.Assists),
				ShotsTotal:        intOrZero(p.ShotsTotal),
				PassesTotal:       intOrZero(p.PassesTotal),
				PassesAccuracyPct: parseStatInt(p.PassesAccuracy),
				TacklesTotal:      intOrZero(p.TacklesTotal),
				Interceptions:     intOrZero(p.Interceptions),
				DuelsWon:          intOrZero(p.DuelsWon),
				DribblesSuccess:   intOrZero(p.DribblesSuccess),
				YellowCards:       intOrZero(p.YellowCards),
				RedCards:          intOrZero(p.RedCards),
				RawStats:          p.RawStatistics,
			})
		}
	}
	return out
}
