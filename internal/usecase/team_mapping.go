package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/riskibarqy/matchday-sync/internal/domain/team"
	"github.com/riskibarqy/matchday-sync/internal/domain/teammapping"
	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
)

var (
	teamNameAffixRegex = regexp.MustCompile(`\s(fc|afc|ssc|as|ac|cf|ud|de|1907|1913|1909|1900|milano|1904|real|united|city|town|club|deportivo)\b`)
	nonAlphaNumRegex   = regexp.MustCompile(`[^a-z0-9]`)
)

// NormalizeTeamName lowercases, drops common club affixes that follow a
// space and strips everything but ASCII letters and digits.
func NormalizeTeamName(name string) string {
	out := strings.ToLower(name)
	out = teamNameAffixRegex.ReplaceAllString(out, "")
	out = nonAlphaNumRegex.ReplaceAllString(out, "")
	return strings.TrimSpace(out)
}

// TeamMatcher picks the stored team that corresponds to a football-data
// row, or ok=false.
type TeamMatcher interface {
	Match(candidates []team.Team, row ExternalStandingRow) (team.Team, bool)
}

// NameTeamMatcher tries, in order over all candidates: exact normalized
// name, exact normalized short name, then substring containment.
type NameTeamMatcher struct{}

func (NameTeamMatcher) Match(candidates []team.Team, row ExternalStandingRow) (team.Team, bool) {
	fdName := NormalizeTeamName(row.TeamName)
	fdShort := NormalizeTeamName(row.ShortName)
	rawName := strings.ToLower(strings.TrimSpace(row.TeamName))
	rawShort := strings.ToLower(strings.TrimSpace(row.ShortName))

	rules := []func(t team.Team, norm, lower string) bool{
		func(_ team.Team, norm, _ string) bool { return norm != "" && norm == fdName },
		func(_ team.Team, norm, _ string) bool { return norm != "" && norm == fdShort },
		func(_ team.Team, _, lower string) bool {
			return rawShort != "" && strings.Contains(lower, rawShort)
		},
		func(_ team.Team, _, lower string) bool {
			return lower != "" && strings.Contains(rawName, lower)
		},
	}

	for _, rule := range rules {
		for _, candidate := range candidates {
			if rule(candidate, NormalizeTeamName(candidate.Name), strings.ToLower(strings.TrimSpace(candidate.Name))) {
				return candidate, true
			}
		}
	}
	return team.Team{}, false
}

type UnmatchedTeam struct {
	FDTeamID int64  `json:"fd_id"`
	FDName   string `json:"fd_name"`
}

type TeamMappingReport struct {
	MatchedCount     int             `json:"matched_count"`
	DuplicateRemoved int             `json:"duplicate_removed"`
	UnmatchedCount   int             `json:"unmatched_count"`
	UnmatchedTeams   []UnmatchedTeam `json:"unmatched_teams"`
}

// TeamMappingService links football-data.org teams to stored API-Football
// teams for one league.
type TeamMappingService struct {
	teamRepo    team.Repository
	mappingRepo teammapping.Repository
	standings   StandingsProvider
	matcher     TeamMatcher
	logger      *logging.Logger
}

func NewTeamMappingService(teamRepo team.Repository, mappingRepo teammapping.Repository, standings StandingsProvider, matcher TeamMatcher, logger *logging.Logger) *TeamMappingService {
	if matcher == nil {
		matcher = NameTeamMatcher{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &TeamMappingService{
		teamRepo:    teamRepo,
		mappingRepo: mappingRepo,
		standings:   standings,
		matcher:     matcher,
		logger:      logger.With("component", "team_mapping"),
	}
}

func (s *TeamMappingService) AutoMap(ctx context.Context, afLeagueID int64, fdCode string) (TeamMappingReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamMappingService.AutoMap")
	defer span.End()

	fdCode = strings.TrimSpace(fdCode)
	if afLeagueID <= 0 || fdCode == "" {
		return TeamMappingReport{}, fmt.Errorf("%w: af_league_id and fd_league_code are required", ErrInvalidInput)
	}

	teams, err := s.teamRepo.ListAll(ctx)
	if err != nil {
		return TeamMappingReport{}, fmt.Errorf("list teams: %w", err)
	}

	rows, err := s.standings.FetchStandings(ctx, fdCode, 0)
	if err != nil {
		return TeamMappingReport{}, fmt.Errorf("fetch standings %s: %w", fdCode, err)
	}
	if len(rows) == 0 {
		return TeamMappingReport{}, fmt.Errorf("%w: standings table not found for %s", ErrNotFound, fdCode)
	}

	report := TeamMappingReport{UnmatchedTeams: []UnmatchedTeam{}}
	mappings := make([]teammapping.Mapping, 0, len(rows))
	seen := make(map[int64]struct{}, len(rows))
	for _, row := range rows {
		match, ok := s.matcher.Match(teams, row)
		if !ok {
			report.UnmatchedTeams = append(report.UnmatchedTeams, UnmatchedTeam{FDTeamID: row.TeamID, FDName: row.TeamName})
			continue
		}
		if _, dup := seen[match.ID]; dup {
			report.DuplicateRemoved++
			continue
		}
		seen[match.ID] = struct{}{}
		mappings = append(mappings, teammapping.Mapping{
			LeagueID: afLeagueID,
			AFTeamID: match.ID,
			FDTeamID: row.TeamID,
			TeamName: match.Name,
		})
	}

	if len(mappings) > 0 {
		if err := s.mappingRepo.UpsertMappings(ctx, mappings); err != nil {
			return TeamMappingReport{}, fmt.Errorf("upsert team mappings: %w", err)
		}
	}

	report.MatchedCount = len(mappings)
	report.UnmatchedCount = len(report.UnmatchedTeams)
	s.logger.InfoContext(ctx, "team mapping finished",
		"league_id", afLeagueID,
		"competition", fdCode,
		"matched", report.MatchedCount,
		"duplicates", report.DuplicateRemoved,
		"unmatched", report.UnmatchedCount,
	)
	return report, nil
}
