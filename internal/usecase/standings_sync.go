package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/matchday-sync/internal/domain/leaguestanding"
	"github.com/riskibarqy/matchday-sync/internal/domain/teammapping"
	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
)

type StandingsSyncReport struct {
	Count   int    `json:"count"`
	League  string `json:"league"`
	Season  int    `json:"season"`
	Skipped int    `json:"skipped"`
}

// StandingsSync stores football-data.org tables under API-Football ids
// using the team mappings of the league.
type StandingsSync struct {
	mappingRepo   teammapping.Repository
	standingsRepo leaguestanding.Repository
	provider      StandingsProvider
	logger        *logging.Logger
}

func NewStandingsSync(mappingRepo teammapping.Repository, standingsRepo leaguestanding.Repository, provider StandingsProvider, logger *logging.Logger) *StandingsSync {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingsSync{
		mappingRepo:   mappingRepo,
		standingsRepo: standingsRepo,
		provider:      provider,
		logger:        logger.With("component", "standings_sync"),
	}
}

func (s *StandingsSync) Sync(ctx context.Context, afLeagueID int64, fdCode string, season int) (StandingsSyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsSync.Sync")
	defer span.End()

	fdCode = strings.TrimSpace(fdCode)
	if afLeagueID <= 0 || fdCode == "" || season <= 0 {
		return StandingsSyncReport{}, fmt.Errorf("%w: af_league_id, fd_league_code and season are required", ErrInvalidInput)
	}

	mappings, err := s.mappingRepo.ListByLeague(ctx, afLeagueID)
	if err != nil {
		return StandingsSyncReport{}, fmt.Errorf("list team mappings league=%d: %w", afLeagueID, err)
	}
	if len(mappings) == 0 {
		return StandingsSyncReport{}, fmt.Errorf("%w: no team mappings for league %d, run team mapping first", ErrInvalidInput, afLeagueID)
	}
	afByFD := make(map[int64]int64, len(mappings))
	for _, m := range mappings {
		afByFD[m.FDTeamID] = m.AFTeamID
	}

	rows, err := s.provider.FetchStandings(ctx, fdCode, season)
	if err != nil {
		return StandingsSyncReport{}, fmt.Errorf("fetch standings %s season=%d: %w", fdCode, season, err)
	}
	if len(rows) == 0 {
		return StandingsSyncReport{}, fmt.Errorf("%w: standings table not found for %s", ErrNotFound, fdCode)
	}

	report := StandingsSyncReport{League: fdCode, Season: season}
	standings := make([]leaguestanding.Standing, 0, len(rows))
	for _, row := range rows {
		afTeamID, ok := afByFD[row.TeamID]
		if !ok {
			report.Skipped++
			continue
		}
		standings = append(standings, leaguestanding.Standing{
			LeagueID:     afLeagueID,
			TeamID:       afTeamID,
			Season:       season,
			Rank:         row.Position,
			Played:       row.PlayedGames,
			Win:          row.Won,
			Draw:         row.Draw,
			Lose:         row.Lost,
			Points:       row.Points,
			GoalsFor:     row.GoalsFor,
			GoalsAgainst: row.GoalsAgainst,
			GoalsDiff:    row.GoalDifference,
			Form:         row.Form,
		})
	}
	if len(standings) == 0 {
		return StandingsSyncReport{}, fmt.Errorf("%w: no standings rows could be mapped for league %d", ErrInvalidInput, afLeagueID)
	}

	if err := s.standingsRepo.UpsertStandings(ctx, standings); err != nil {
		return StandingsSyncReport{}, fmt.Errorf("upsert standings: %w", err)
	}

	report.Count = len(standings)
	s.logger.InfoContext(ctx, "standings synced", "league_id", afLeagueID, "competition", fdCode, "season", season, "rows", report.Count, "skipped", report.Skipped)
	return report, nil
}
