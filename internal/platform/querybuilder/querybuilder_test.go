package querybuilder

import (
	"reflect"
	"testing"
	"time"
)

func TestSelectBuilder(t *testing.T) {
	from := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	query, args, err := Select("id", "event_date").
		From("fixtures").
		Where(
			InStrings("status_short", []string{"FT", "AET"}),
			Gte("event_date", from),
			Or(Eq("is_team_stats_synced", false), Eq("is_player_stats_synced", false)),
		).
		OrderBy("event_date DESC").
		Limit(5).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}

	wantQuery := "SELECT id, event_date FROM fixtures WHERE status_short IN ($1, $2) AND event_date >= $3 AND (is_team_stats_synced = $4 OR is_player_stats_synced = $5) ORDER BY event_date DESC LIMIT 5"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	wantArgs := []any{"FT", "AET", from, false, false}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestSelectBuilder_ExprAndAny(t *testing.T) {
	query, args, err := Select("id").
		From("fixtures f").
		Where(
			AnyInt64("f.league_id", []int64{39, 140}),
			Expr("NOT EXISTS (SELECT 1 FROM fixture_lineup_teams lt WHERE lt.fixture_id = f.id AND lt.team_id <> ?)", int64(0)),
		).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}

	wantQuery := "SELECT id FROM fixtures f WHERE f.league_id = ANY($1) AND NOT EXISTS (SELECT 1 FROM fixture_lineup_teams lt WHERE lt.fixture_id = f.id AND lt.team_id <> $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[1] != int64(0) {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestEmptyListsShortCircuit(t *testing.T) {
	query, args, err := Select("id").From("fixtures").Where(InStrings("status_short", nil), AnyInt64("id", nil), NotAnyInt64("id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}
	if query != "SELECT id FROM fixtures WHERE 1=0 AND 1=0 AND 1=1" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %#v", args)
	}
}

func TestInsertModels(t *testing.T) {
	type row struct {
		FixtureID int64  `db:"fixture_id"`
		TeamID    int64  `db:"team_id"`
		Formation string `db:"formation"`
		internal  string
		Ignored   string `db:"-"`
	}

	query, args, err := InsertModels("fixture_lineup_teams", []any{
		row{FixtureID: 1, TeamID: 10, Formation: "4-3-3"},
		&row{FixtureID: 1, TeamID: 11, Formation: "3-5-2"},
	}, "ON CONFLICT (fixture_id, team_id) DO UPDATE SET formation = EXCLUDED.formation")
	if err != nil {
		t.Fatalf("InsertModels error: %v", err)
	}

	wantQuery := "INSERT INTO fixture_lineup_teams (fixture_id, team_id, formation) VALUES ($1, $2, $3), ($4, $5, $6) ON CONFLICT (fixture_id, team_id) DO UPDATE SET formation = EXCLUDED.formation"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	wantArgs := []any{int64(1), int64(10), "4-3-3", int64(1), int64(11), "3-5-2"}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestInsertModels_RejectsMixedTypes(t *testing.T) {
	type a struct {
		ID int64 `db:"id"`
	}
	type b struct {
		ID int64 `db:"id"`
	}
	if _, _, err := InsertModels("t", []any{a{ID: 1}, b{ID: 2}}, ""); err == nil {
		t.Fatalf("expected error for mixed model types")
	}
	if _, _, err := InsertModel("t", (*a)(nil), ""); err == nil {
		t.Fatalf("expected error for nil model")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("fixtures").
		Set("is_team_stats_synced", true).
		SetExpr("updated_at", "now()").
		Where(Eq("id", int64(7))).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}
	if query != "UPDATE fixtures SET is_team_stats_synced = $1, updated_at = now() WHERE id = $2" {
		t.Fatalf("unexpected query: %s", query)
	}
	if !reflect.DeepEqual(args, []any{true, int64(7)}) {
		t.Fatalf("unexpected args: %#v", args)
	}
}

func TestDeleteBuilder_RequiresCondition(t *testing.T) {
	if _, _, err := DeleteFrom("fixture_events").ToSQL(); err == nil {
		t.Fatalf("expected error for unconditioned delete")
	}

	query, args, err := DeleteFrom("fixture_events").Where(Eq("fixture_id", int64(3))).ToSQL()
	if err != nil {
		t.Fatalf("ToSQL error: %v", err)
	}
	if query != "DELETE FROM fixture_events WHERE fixture_id = $1" || len(args) != 1 {
		t.Fatalf("unexpected delete: %s %#v", query, args)
	}
}
