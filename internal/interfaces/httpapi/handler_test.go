package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/matchday-sync/internal/domain/jobscheduler"
	"github.com/riskibarqy/matchday-sync/internal/domain/quota"
	"github.com/riskibarqy/matchday-sync/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
	"github.com/riskibarqy/matchday-sync/internal/usecase"
)

const testToken = "service-secret"

type fakeInvoker struct {
	mu         sync.Mutex
	liveIDs    [][]int64
	lineupIDs  [][]int64
	statsInput []usecase.StatsSyncInput
	statsPart  usecase.StatsSyncResult
	err        error
}

func (f *fakeInvoker) SyncLive(_ context.Context, ids []int64) (usecase.LiveSyncResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.liveIDs = append(f.liveIDs, ids)
	if f.err != nil {
		return usecase.LiveSyncResult{}, f.err
	}
	return usecase.LiveSyncResult{SyncedIDs: ids, EventsCount: 3, Message: "ok"}, nil
}

func (f *fakeInvoker) SyncLineups(_ context.Context, ids []int64) (usecase.LineupSyncResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lineupIDs = append(f.lineupIDs, ids)
	if f.err != nil {
		return usecase.LineupSyncResult{}, f.err
	}
	return usecase.LineupSyncResult{SyncedIDs: ids[:1], FailedIDs: ids[1:]}, nil
}

func (f *fakeInvoker) SyncStats(_ context.Context, input usecase.StatsSyncInput) (usecase.StatsSyncResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsInput = append(f.statsInput, input)
	if f.err != nil {
		return f.statsPart, f.err
	}
	return usecase.StatsSyncResult{FixtureID: input.FixtureID, UpdatedFields: []string{"is_team_stats_synced"}}, nil
}

func newTestRouter(svc Services) http.Handler {
	return NewRouter(NewHandler(svc, logging.NewNop()), RouterOptions{ServiceToken: testToken}, logging.NewNop())
}

func doRequest(t *testing.T, router http.Handler, method, path, body string, authorized bool) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authorized {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		if err := sonic.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	rec, body := doRequest(t, newTestRouter(Services{}), http.MethodGet, "/healthz", "", false)
	if rec.Code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("unexpected healthz response %d %v", rec.Code, body)
	}
}

func TestLiveWorker_AcceptsSingleFixtureID(t *testing.T) {
	t.Parallel()

	invoker := &fakeInvoker{}
	router := newTestRouter(Services{Workers: invoker})

	rec, body := doRequest(t, router, http.MethodPost, "/v1/workers/live", `{"fixtureId":7}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%v", rec.Code, body)
	}
	if len(invoker.liveIDs) != 1 || len(invoker.liveIDs[0]) != 1 || invoker.liveIDs[0][0] != 7 {
		t.Fatalf("expected one call with [7], got %v", invoker.liveIDs)
	}
	if body["events_count"] != float64(3) {
		t.Fatalf("unexpected events_count %v", body["events_count"])
	}
}

func TestLineupWorker_BatchAndValidation(t *testing.T) {
	t.Parallel()

	invoker := &fakeInvoker{}
	router := newTestRouter(Services{Workers: invoker})

	rec, body := doRequest(t, router, http.MethodPost, "/v1/workers/lineups", `{"fixtureIds":[1,2,3]}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	failed, _ := body["failed_ids"].([]any)
	if len(failed) != 2 {
		t.Fatalf("expected two failed ids, got %v", body["failed_ids"])
	}

	for _, payload := range []string{`{}`, `{"fixtureIds":[]}`} {
		rec, body = doRequest(t, router, http.MethodPost, "/v1/workers/lineups", payload, true)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d body=%v", payload, rec.Code, body)
		}
		synced, ok := body["synced_ids"].([]any)
		if !ok || len(synced) != 0 {
			t.Fatalf("expected empty synced_ids for %s, got %v", payload, body["synced_ids"])
		}
		failed, ok := body["failed_ids"].([]any)
		if !ok || len(failed) != 0 {
			t.Fatalf("expected empty failed_ids for %s, got %v", payload, body["failed_ids"])
		}
		if body["message"] != "No IDs provided" {
			t.Fatalf("unexpected message %v", body["message"])
		}
	}
	if len(invoker.lineupIDs) != 1 {
		t.Fatalf("expected empty requests not to reach the worker, calls=%d", len(invoker.lineupIDs))
	}

	rec, _ = doRequest(t, router, http.MethodPost, "/v1/workers/lineups", `{"fixtureIds":`, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed json, got %d", rec.Code)
	}
}

func TestLiveWorker_RejectsEmptyIDs(t *testing.T) {
	t.Parallel()

	invoker := &fakeInvoker{}
	router := newTestRouter(Services{Workers: invoker})

	rec, body := doRequest(t, router, http.MethodPost, "/v1/workers/live", `{"fixtureIds":[]}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing ids, got %d", rec.Code)
	}
	if msg, _ := body["error"].(string); !strings.Contains(msg, "fixtureIds") {
		t.Fatalf("unexpected error body %v", body)
	}
	if len(invoker.liveIDs) != 0 {
		t.Fatalf("worker must not run without ids")
	}
}

func TestStatsWorker_PartialFailureKeepsUpdatedFields(t *testing.T) {
	t.Parallel()

	invoker := &fakeInvoker{
		err: fmt.Errorf("%w: limit 95 reached", usecase.ErrQuotaExhausted),
		statsPart: usecase.StatsSyncResult{
			FixtureID:     42,
			UpdatedFields: []string{usecase.FieldTeamStatsSynced},
		},
	}
	router := newTestRouter(Services{Workers: invoker})

	rec, body := doRequest(t, router, http.MethodPost, "/v1/workers/stats", `{"fixture_id":42}`, true)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d body=%v", rec.Code, body)
	}
	if msg, _ := body["error"].(string); !strings.Contains(msg, "limit 95") {
		t.Fatalf("unexpected error %v", body["error"])
	}
	fields, _ := body["updated_fields"].([]any)
	if len(fields) != 1 || fields[0] != usecase.FieldTeamStatsSynced {
		t.Fatalf("expected partial updated_fields, got %v", body["updated_fields"])
	}
	synced, _ := body["synced_ids"].([]any)
	if len(synced) != 1 || synced[0] != float64(42) {
		t.Fatalf("unexpected synced_ids %v", body["synced_ids"])
	}
}

func TestStatsWorker_Response(t *testing.T) {
	t.Parallel()

	invoker := &fakeInvoker{}
	router := newTestRouter(Services{Workers: invoker})

	rec, body := doRequest(t, router, http.MethodPost, "/v1/workers/stats",
		`{"fixture_id":42,"is_team_stats_synced":false,"is_player_stats_synced":true}`, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%v", rec.Code, body)
	}
	if len(invoker.statsInput) != 1 || !invoker.statsInput[0].IsPlayerStatsSynced || invoker.statsInput[0].IsTeamStatsSynced {
		t.Fatalf("unexpected stats input %+v", invoker.statsInput)
	}
	synced, _ := body["synced_ids"].([]any)
	if len(synced) != 1 || synced[0] != float64(42) {
		t.Fatalf("unexpected synced_ids %v", body["synced_ids"])
	}

	rec, _ = doRequest(t, router, http.MethodPost, "/v1/workers/stats", `{"fixture_id":0}`, true)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero fixture id, got %d", rec.Code)
	}
}

func TestWorkerRoutes_RequireToken(t *testing.T) {
	t.Parallel()

	invoker := &fakeInvoker{}
	router := newTestRouter(Services{Workers: invoker})

	rec, _ := doRequest(t, router, http.MethodPost, "/v1/workers/live", `{"fixtureId":7}`, false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if len(invoker.liveIDs) != 0 {
		t.Fatalf("worker must not run without a token")
	}
}

func TestWorkerRoutes_MapQuotaExhausted(t *testing.T) {
	t.Parallel()

	invoker := &fakeInvoker{err: fmt.Errorf("%w: limit 95 reached", usecase.ErrQuotaExhausted)}
	router := newTestRouter(Services{Workers: invoker})

	rec, body := doRequest(t, router, http.MethodPost, "/v1/workers/live", `{"fixtureIds":[1]}`, true)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if _, ok := body["error"]; !ok {
		t.Fatalf("expected error body, got %v", body)
	}
}

func TestUsage(t *testing.T) {
	t.Parallel()

	quotaRepo := memory.NewQuotaRepository()
	quotaRepo.Set(quota.DateKey(time.Now()), 12)
	ledger := usecase.NewQuotaLedger(quotaRepo, 95, nil, logging.NewNop())
	router := newTestRouter(Services{Ledger: ledger})

	rec, body := doRequest(t, router, http.MethodGet, "/v1/usage", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body["count"] != float64(12) || body["limit"] != float64(95) || body["remaining"] != float64(83) {
		t.Fatalf("unexpected usage body %v", body)
	}
	if body["prediction"] != nil {
		t.Fatalf("expected null prediction, got %v", body["prediction"])
	}
}

func TestMatchesByDate_RejectsBadDate(t *testing.T) {
	t.Parallel()

	router := newTestRouter(Services{})
	for _, path := range []string{"/v1/matches", "/v1/matches?date=14-03-2026"} {
		rec, _ := doRequest(t, router, http.MethodGet, path, "", false)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("path %s: expected 400, got %d", path, rec.Code)
		}
	}
}

func TestReadThrough_PathIDValidation(t *testing.T) {
	t.Parallel()

	router := newTestRouter(Services{})
	rec, _ := doRequest(t, router, http.MethodGet, "/v1/matches/abc/details", "", false)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	rec, _ = doRequest(t, router, http.MethodGet, "/v1/teams/33/details", "", false)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without detail cache, got %d", rec.Code)
	}
}

func TestJobs_RecordDispatches(t *testing.T) {
	t.Parallel()

	quotaRepo := memory.NewQuotaRepository()
	dispatches := memory.NewJobDispatchRepository()
	predictor := usecase.NewUsagePredictionService(memory.NewFixtureRepository(nil), quotaRepo, logging.NewNop())
	router := newTestRouter(Services{UsagePredictor: predictor, Dispatches: dispatches})

	rec, body := doRequest(t, router, http.MethodPost, "/v1/jobs/predict-usage", "", true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%v", rec.Code, body)
	}
	if body["date"] != quota.DateKey(time.Now()) {
		t.Fatalf("unexpected prediction date %v", body["date"])
	}

	events := dispatches.Events()
	if len(events) != 2 {
		t.Fatalf("expected sent and completed events, got %d", len(events))
	}
	if events[0].Status != jobscheduler.StatusSent || events[1].Status != jobscheduler.StatusCompleted {
		t.Fatalf("unexpected statuses %s %s", events[0].Status, events[1].Status)
	}
	if events[0].DispatchID != events[1].DispatchID || events[0].Manager != jobManager || events[0].Worker != "predict-usage" {
		t.Fatalf("unexpected dispatch events %+v", events)
	}
}

func TestJobs_ValidationAndAuth(t *testing.T) {
	t.Parallel()

	router := newTestRouter(Services{})
	rec, _ := doRequest(t, router, http.MethodPost, "/v1/jobs/master-sync", "", false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	rec, _ = doRequest(t, router, http.MethodPost, "/v1/jobs/teams", `{"teamId":33}`, true)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without catalog sync, got %d", rec.Code)
	}
}
