package usecase

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/riskibarqy/matchday-sync/internal/domain/fixture"
	"github.com/riskibarqy/matchday-sync/internal/domain/quota"
	"github.com/riskibarqy/matchday-sync/internal/domain/team"
	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
)

// DefaultTargetLeagues are the competitions mirrored by the daily master sync.
var DefaultTargetLeagues = []int64{39, 78, 135, 40, 140, 61, 94, 45, 48, 81, 137, 143, 66, 2, 3, 848, 1, 5, 4, 9}

type MasterSyncReport struct {
	SyncedFixtures int      `json:"synced_fixtures"`
	SyncedTeams    int      `json:"synced_teams"`
	Leagues        []string `json:"leagues"`
	Period         []string `json:"period"`
}

// MasterSync mirrors fixtures of the target leagues for UTC yesterday,
// today and tomorrow. It owns the full fixture row but never the sync flags.
type MasterSync struct {
	provider    FootballProvider
	fixtureRepo fixture.Repository
	teamRepo    team.Repository
	ledger      *QuotaLedger
	leagueIDs   []int64
	logger      *logging.Logger
	now         func() time.Time
}

func NewMasterSync(provider FootballProvider, fixtureRepo fixture.Repository, teamRepo team.Repository, ledger *QuotaLedger, leagueIDs []int64, logger *logging.Logger) *MasterSync {
	if logger == nil {
		logger = logging.Default()
	}
	if len(leagueIDs) == 0 {
		leagueIDs = DefaultTargetLeagues
	}
	return &MasterSync{
		provider:    provider,
		fixtureRepo: fixtureRepo,
		teamRepo:    teamRepo,
		ledger:      ledger,
		leagueIDs:   slices.Clone(leagueIDs),
		logger:      logger.With("component", "master_sync"),
		now:         time.Now,
	}
}

func (s *MasterSync) Run(ctx context.Context) (MasterSyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MasterSync.Run")
	defer span.End()

	today := quota.DayStart(s.now())
	period := []string{
		quota.DateKey(today.AddDate(0, 0, -1)),
		quota.DateKey(today),
		quota.DateKey(today.AddDate(0, 0, 1)),
	}

	report := MasterSyncReport{Period: period, Leagues: []string{}}
	leagueNames := make(map[string]struct{})

	for _, date := range period {
		if err := s.ledger.Ensure(ctx); err != nil {
			return report, err
		}

		items, err := s.provider.FetchFixturesByDate(ctx, date, "")
		if err != nil {
			return report, fmt.Errorf("fetch fixtures date=%s: %w", date, err)
		}
		if len(items) == 0 {
			continue
		}

		fixtures, teams := s.filterTargets(items, leagueNames)
		if len(fixtures) > 0 {
			if err := s.teamRepo.UpsertBasic(ctx, teams); err != nil {
				s.logger.WarnContext(ctx, "upsert teams failed", "date", date, "error", err)
			} else {
				report.SyncedTeams += len(teams)
			}

			if err := s.fixtureRepo.UpsertFixtures(ctx, fixtures); err != nil {
				return report, fmt.Errorf("upsert fixtures date=%s: %w", date, err)
			}
			report.SyncedFixtures += len(fixtures)
		}
		chargeQuota(ctx, s.ledger, s.logger, "master_sync")
	}

	for name := range leagueNames {
		report.Leagues = append(report.Leagues, name)
	}
	sort.Strings(report.Leagues)

	s.logger.InfoContext(ctx, "master sync finished",
		"period", period,
		"fixtures", report.SyncedFixtures,
		"teams", report.SyncedTeams,
		"leagues", len(report.Leagues),
	)
	return report, nil
}

func (s *MasterSync) filterTargets(items []ExternalFixture, leagueNames map[string]struct{}) ([]fixture.Fixture, []team.Team) {
	fixtures := make([]fixture.Fixture, 0, len(items))
	teamsByID := make(map[int64]team.Team)
	order := make([]int64, 0)

	for _, item := range items {
		if item.Fixture.ID <= 0 || !slices.Contains(s.leagueIDs, item.Fixture.LeagueID) {
			continue
		}
		fixtures = append(fixtures, item.Fixture)
		if item.LeagueName != "" {
			leagueNames[item.LeagueName] = struct{}{}
		}
		for _, ref := range []ExternalTeamRef{item.HomeTeam, item.AwayTeam} {
			if ref.ID <= 0 {
				continue
			}
			if _, seen := teamsByID[ref.ID]; !seen {
				order = append(order, ref.ID)
			}
			teamsByID[ref.ID] = team.Team{ID: ref.ID, Name: ref.Name, Logo: ref.Logo}
		}
	}

	teams := make([]team.Team, 0, len(order))
	for _, id := range order {
		teams = append(teams, teamsByID[id])
	}
	return fixtures, teams
}
