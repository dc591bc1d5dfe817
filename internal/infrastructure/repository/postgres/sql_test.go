package postgres

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/matchday-sync/internal/domain/detailcache"
	"github.com/riskibarqy/matchday-sync/internal/domain/fixture"
	"github.com/riskibarqy/matchday-sync/internal/domain/jobscheduler"
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func TestDedupeEvents_KeepsLastPerKey(t *testing.T) {
	t.Parallel()

	events := []fixture.Event{
		{TeamID: 1, PlayerID: int64Ptr(10), Elapsed: 23, Type: "Goal", Detail: "Normal Goal", Comments: "first"},
		{TeamID: 1, PlayerID: int64Ptr(10), Elapsed: 23, Type: "Goal", Detail: "Normal Goal", Comments: "second"},
		{TeamID: 1, PlayerID: int64Ptr(10), Elapsed: 23, ElapsedExtra: intPtr(2), Type: "Goal", Detail: "Normal Goal"},
		{TeamID: 2, Elapsed: 45, Type: "Card", Detail: "Yellow Card"},
	}

	got := dedupeEvents(99, events)
	if len(got) != 3 {
		t.Fatalf("expected 3 distinct events, got=%d", len(got))
	}
	if got[0].Comments != "second" {
		t.Fatalf("expected later duplicate to win, got=%q", got[0].Comments)
	}
	if got[0].FixtureID != 99 {
		t.Fatalf("expected fixture id 99, got=%d", got[0].FixtureID)
	}
	if got[2].PlayerKey != 0 || got[2].PlayerID != nil {
		t.Fatalf("expected playerless event to use zero key, got=%+v", got[2])
	}
}

func TestEventModel_ElapsedExtraSentinel(t *testing.T) {
	t.Parallel()

	plain := eventModelFromDomain(1, fixture.Event{TeamID: 5, Elapsed: 90})
	if plain.ElapsedExtra != noElapsedExtra {
		t.Fatalf("expected sentinel for missing extra time, got=%d", plain.ElapsedExtra)
	}
	if back := eventFromRow(plain); back.ElapsedExtra != nil {
		t.Fatalf("expected nil extra time after round trip, got=%d", *back.ElapsedExtra)
	}

	stoppage := eventModelFromDomain(1, fixture.Event{TeamID: 5, Elapsed: 90, ElapsedExtra: intPtr(0)})
	back := eventFromRow(stoppage)
	if back.ElapsedExtra == nil || *back.ElapsedExtra != 0 {
		t.Fatalf("expected explicit zero extra time to survive, got=%v", back.ElapsedExtra)
	}
}

func TestJSONText(t *testing.T) {
	t.Parallel()

	if jsonText(nil) != nil {
		t.Fatalf("expected nil for empty payload")
	}
	got := jsonText(json.RawMessage(`{"a":1}`))
	if got == nil || *got != `{"a":1}` {
		t.Fatalf("unexpected json text: %v", got)
	}
}

func TestDetailTable(t *testing.T) {
	t.Parallel()

	if table, err := detailTable(detailcache.KindMatch); err != nil || table != "match_details" {
		t.Fatalf("unexpected match table=%s err=%v", table, err)
	}
	if table, err := detailTable(detailcache.KindTeam); err != nil || table != "team_details" {
		t.Fatalf("unexpected team table=%s err=%v", table, err)
	}
	if _, err := detailTable("coach"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestBuildDispatchUpsert_TouchesOnlyStatusColumns(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	query, args, err := buildDispatchUpsert(jobscheduler.DispatchEvent{
		DispatchID:   "d-1",
		Manager:      "live",
		Worker:       "live",
		Status:       jobscheduler.StatusCompleted,
		FixtureIDs:   []int64{1, 2},
		ErrorMessage: "ignored on success",
		OccurredAt:   at,
		TraceID:      "trace",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(query, "completed_at = EXCLUDED.completed_at") {
		t.Fatalf("expected completed_at update, got=%s", query)
	}
	if strings.Contains(query, "sent_at") || strings.Contains(query, "failed_at") {
		t.Fatalf("expected other status columns untouched, got=%s", query)
	}
	if len(args) != 10 {
		t.Fatalf("expected 10 args, got=%d", len(args))
	}
	if args[5] != "{}" {
		t.Fatalf("expected empty payload object, got=%v", args[5])
	}
	if lastErr, ok := args[6].(*string); !ok || lastErr != nil {
		t.Fatalf("expected nil last_error for completed dispatch, got=%v", args[6])
	}
	if got, ok := args[7].(time.Time); !ok || !got.Equal(at) {
		t.Fatalf("expected occurred_at arg, got=%v", args[7])
	}
}

func TestBuildDispatchUpsert_Validation(t *testing.T) {
	t.Parallel()

	if _, _, err := buildDispatchUpsert(jobscheduler.DispatchEvent{Status: jobscheduler.StatusSent}); err == nil {
		t.Fatalf("expected error for missing dispatch id")
	}
	if _, _, err := buildDispatchUpsert(jobscheduler.DispatchEvent{DispatchID: "x", Status: "queued"}); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestMarshalPayload(t *testing.T) {
	t.Parallel()

	got, err := marshalPayload(map[string]any{"fixtureIds": []int64{7}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `{"fixtureIds":[7]}` {
		t.Fatalf("unexpected payload: %s", got)
	}
}
