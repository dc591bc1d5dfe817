package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/matchday-sync/internal/domain/quota"
	"github.com/riskibarqy/matchday-sync/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// stubProvider answers with the configured funcs and counts every call.
type stubProvider struct {
	mu    sync.Mutex
	calls map[string]int

	fixturesByDate func(date, timezone string) ([]ExternalFixture, error)
	fixtureByID    func(id int64) (ExternalFixture, bool, error)
	fixturesByIDs  func(ids []int64) ([]ExternalFixture, error)
	lineups        func(id int64) ([]ExternalLineup, error)
	teamStats      func(id int64) ([]ExternalTeamStatistics, error)
	playerStats    func(id int64) ([]ExternalTeamPlayers, error)
	team           func(id int64) (ExternalTeam, bool, error)
	squad          func(id int64) (ExternalSquad, bool, error)
	league         func(id int64) (ExternalLeague, bool, error)
	player         func(id int64, season int) (ExternalPlayerProfile, bool, error)
}

func (s *stubProvider) hit(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[name]++
}

func (s *stubProvider) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *stubProvider) FetchFixturesByDate(_ context.Context, date, timezone string) ([]ExternalFixture, error) {
	s.hit("fixtures_by_date")
	if s.fixturesByDate == nil {
		return nil, nil
	}
	return s.fixturesByDate(date, timezone)
}

func (s *stubProvider) FetchFixtureByID(_ context.Context, id int64) (ExternalFixture, bool, error) {
	s.hit("fixture_by_id")
	if s.fixtureByID == nil {
		return ExternalFixture{}, false, nil
	}
	return s.fixtureByID(id)
}

func (s *stubProvider) FetchFixturesByIDs(_ context.Context, ids []int64) ([]ExternalFixture, error) {
	s.hit("fixtures_by_ids")
	if s.fixturesByIDs == nil {
		return nil, nil
	}
	return s.fixturesByIDs(ids)
}

func (s *stubProvider) FetchLineups(_ context.Context, id int64) ([]ExternalLineup, error) {
	s.hit("lineups")
	if s.lineups == nil {
		return nil, nil
	}
	return s.lineups(id)
}

func (s *stubProvider) FetchTeamStatistics(_ context.Context, id int64) ([]ExternalTeamStatistics, error) {
	s.hit("team_statistics")
	if s.teamStats == nil {
		return nil, nil
	}
	return s.teamStats(id)
}

func (s *stubProvider) FetchPlayerStatistics(_ context.Context, id int64) ([]ExternalTeamPlayers, error) {
	s.hit("player_statistics")
	if s.playerStats == nil {
		return nil, nil
	}
	return s.playerStats(id)
}

func (s *stubProvider) FetchTeam(_ context.Context, id int64) (ExternalTeam, bool, error) {
	s.hit("team")
	if s.team == nil {
		return ExternalTeam{}, false, nil
	}
	return s.team(id)
}

func (s *stubProvider) FetchSquad(_ context.Context, id int64) (ExternalSquad, bool, error) {
	s.hit("squad")
	if s.squad == nil {
		return ExternalSquad{}, false, nil
	}
	return s.squad(id)
}

func (s *stubProvider) FetchLeague(_ context.Context, id int64) (ExternalLeague, bool, error) {
	s.hit("league")
	if s.league == nil {
		return ExternalLeague{}, false, nil
	}
	return s.league(id)
}

func (s *stubProvider) FetchPlayer(_ context.Context, id int64, season int) (ExternalPlayerProfile, bool, error) {
	s.hit("player")
	if s.player == nil {
		return ExternalPlayerProfile{}, false, nil
	}
	return s.player(id, season)
}

type stubStandings struct {
	rows    []ExternalStandingRow
	err     error
	seasons []int
}

func (s *stubStandings) FetchStandings(_ context.Context, _ string, season int) ([]ExternalStandingRow, error) {
	s.seasons = append(s.seasons, season)
	return s.rows, s.err
}

func newTestLedger(limit int) (*QuotaLedger, *memory.QuotaRepository) {
	repo := memory.NewQuotaRepository()
	ledger := NewQuotaLedger(repo, limit, nil, logging.NewNop())
	ledger.now = func() time.Time { return testNow }
	return ledger, repo
}

func usedToday(repo *memory.QuotaRepository) int {
	count, _ := repo.Count(context.Background(), quota.DateKey(testNow))
	return count
}

func intPtr(v int) *int {
	return &v
}
