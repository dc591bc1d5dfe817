package postgres

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchday-sync/internal/domain/fixture"
	"github.com/riskibarqy/matchday-sync/internal/domain/lineup"
	"github.com/riskibarqy/matchday-sync/internal/domain/playerstats"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("open sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = raw.Close() })
	return sqlx.NewDb(raw, "postgres"), mock
}

func fixturePlayerRows() []playerstats.FixturePlayer {
	return []playerstats.FixturePlayer{
		{FixtureID: 1035034, PlayerID: 276, TeamID: 33, PlayerName: "B. Fernandes", Minutes: 90, Goals: 1},
		{FixtureID: 1035034, PlayerID: 909, TeamID: 33, PlayerName: "M. Rashford", Minutes: 74},
	}
}

func TestPlayerStatsRepository_IdentityFailureSkipsFixturePlayers(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO player_details").WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	err := NewPlayerStatsRepository(db).SaveFixturePlayers(context.Background(), fixturePlayerRows())
	if err == nil || !strings.Contains(err.Error(), "upsert player identities") {
		t.Fatalf("expected identity upsert error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements: %v", err)
	}
}

func TestPlayerStatsRepository_WritesIdentitiesBeforeFixturePlayers(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("photo = COALESCE(NULLIF(EXCLUDED.photo, ''), player_details.photo)")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO fixture_players").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	if err := NewPlayerStatsRepository(db).SaveFixturePlayers(context.Background(), fixturePlayerRows()); err != nil {
		t.Fatalf("save fixture players: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements: %v", err)
	}
}

func lineupSnapshot() lineup.Snapshot {
	return lineup.Snapshot{
		FixtureID: 1035034,
		Teams: []lineup.TeamLineup{
			{TeamID: 33, Formation: "4-2-3-1", Coach: "E. ten Hag"},
			{TeamID: 40, Formation: "4-3-3", Coach: "J. Klopp"},
		},
		Players: []lineup.PlayerEntry{
			{PlayerID: 276, TeamID: 33, PlayerName: "B. Fernandes", Pos: "M", IsStart: true, SortOrder: 0},
			{PlayerID: 306, TeamID: 40, PlayerName: "M. Salah", Pos: "F", IsStart: true, SortOrder: 0},
		},
	}
}

func TestLineupRepository_StubsPlayersBeforeLineupRows(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO fixture_lineup_teams").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO player_details") + ".*" + regexp.QuoteMeta("ON CONFLICT (id) DO NOTHING")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO fixture_lineup_players").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	if err := NewLineupRepository(db).SaveSnapshot(context.Background(), lineupSnapshot()); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements: %v", err)
	}
}

func TestLineupRepository_StubFailureRollsBack(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO fixture_lineup_teams").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO player_details").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := NewLineupRepository(db).SaveSnapshot(context.Background(), lineupSnapshot())
	if err == nil || !strings.Contains(err.Error(), "insert lineup player stubs") {
		t.Fatalf("expected stub error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected statements: %v", err)
	}
}

func TestQuotaRepository_IncrementBelow(t *testing.T) {
	t.Parallel()

	t.Run("below limit increments", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(incrementBelowSQL)).
			WithArgs("2026-03-14", int64(95)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(41))

		count, ok, err := NewQuotaRepository(db).IncrementBelow(context.Background(), "2026-03-14", 95)
		if err != nil || !ok || count != 41 {
			t.Fatalf("unexpected result count=%d ok=%v err=%v", count, ok, err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unexpected statements: %v", err)
		}
	})

	t.Run("ceiling reached returns current count", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta(incrementBelowSQL)).
			WithArgs("2026-03-14", int64(95)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}))
		mock.ExpectQuery("SELECT count FROM api_usage").
			WithArgs("2026-03-14").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(95))

		count, ok, err := NewQuotaRepository(db).IncrementBelow(context.Background(), "2026-03-14", 95)
		if err != nil {
			t.Fatalf("increment: %v", err)
		}
		if ok || count != 95 {
			t.Fatalf("expected exhaustion at 95, got count=%d ok=%v", count, ok)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unexpected statements: %v", err)
		}
	})

	t.Run("conditional update guards the ceiling", func(t *testing.T) {
		t.Parallel()

		if !strings.Contains(incrementBelowSQL, "WHERE api_usage.count < $2") {
			t.Fatalf("increment must only update below the limit: %s", incrementBelowSQL)
		}
	})
}

func TestFixtureRepository_LiveUpdateOfUnknownFixture(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	repo := NewFixtureRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE fixtures SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.ApplyLiveUpdate(context.Background(), fixture.LiveUpdate{ID: 404, StatusShort: "1H"}, nil)
	if !errors.Is(err, fixture.ErrNotFound) {
		t.Fatalf("expected fixture.ErrNotFound, got=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("events must not be touched for unknown fixture: %v", err)
	}
}
