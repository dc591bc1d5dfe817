package apifootball

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
	"github.com/riskibarqy/matchday-sync/internal/platform/resilience"
	"github.com/riskibarqy/matchday-sync/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate func(*ClientConfig)) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := ClientConfig{
		HTTPClient:    server.Client(),
		BaseURL:       server.URL,
		Key:           "secret-key",
		RatePerMinute: -1,
		Logger:        logging.NewNop(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewClient(cfg)
}

const fixturesBody = `{
  "get": "fixtures",
  "errors": [],
  "results": 1,
  "response": [{
    "fixture": {
      "id": 1035037,
      "referee": "M. Oliver",
      "timezone": "UTC",
      "date": "2026-03-14T15:00:00+00:00",
      "venue": {"id": null, "name": "Emirates Stadium", "city": "London"},
      "status": {"long": "Second Half", "short": "2h", "elapsed": "67"}
    },
    "league": {"id": 39, "name": "Premier League", "season": 2025},
    "teams": {
      "home": {"id": 42, "name": "Arsenal", "logo": "a.png"},
      "away": {"id": 49, "name": "Chelsea", "logo": "c.png"}
    },
    "goals": {"home": 1, "away": null},
    "score": {
      "halftime": {"home": 1, "away": 0},
      "fulltime": {"home": null, "away": null},
      "extratime": {"home": null, "away": null},
      "penalty": {"home": null, "away": null}
    },
    "events": [{
      "time": {"elapsed": 23, "extra": null},
      "team": {"id": 42, "name": "Arsenal"},
      "player": {"id": 1460, "name": "B. Saka"},
      "assist": {"id": null, "name": null},
      "type": "Goal",
      "detail": "Normal Goal",
      "comments": null
    }]
  }]
}`

func TestFetchFixturesByDate_SendsAuthHeadersAndMapsTolerantFields(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fixtures" {
			t.Errorf("unexpected path=%s", r.URL.Path)
		}
		if got := r.URL.Query().Get("date"); got != "2026-03-14" {
			t.Errorf("expected date query, got=%q", got)
		}
		if got := r.URL.Query().Get("timezone"); got != "Asia/Tokyo" {
			t.Errorf("expected timezone query, got=%q", got)
		}
		if got := r.Header.Get("x-apisports-key"); got != "secret-key" {
			t.Errorf("expected api key header, got=%q", got)
		}
		if r.Header.Get("x-apisports-host") == "" {
			t.Errorf("expected host header")
		}
		_, _ = w.Write([]byte(fixturesBody))
	}, nil)

	items, err := client.FetchFixturesByDate(context.Background(), "2026-03-14", "Asia/Tokyo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one fixture, got=%d", len(items))
	}

	item := items[0]
	f := item.Fixture
	if f.ID != 1035037 || f.LeagueID != 39 || f.Season != 2025 {
		t.Fatalf("unexpected identity: %+v", f)
	}
	if !f.EventDate.Equal(time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected kickoff: %s", f.EventDate)
	}
	if f.StatusShort != "2H" {
		t.Fatalf("expected normalized status 2H, got=%q", f.StatusShort)
	}
	if f.Elapsed == nil || *f.Elapsed != 67 {
		t.Fatalf("expected elapsed=67 from string value, got=%v", f.Elapsed)
	}
	if f.VenueID != nil {
		t.Fatalf("expected nil venue id, got=%v", *f.VenueID)
	}
	if f.GoalsHome == nil || *f.GoalsHome != 1 || f.GoalsAway != nil {
		t.Fatalf("unexpected goals home=%v away=%v", f.GoalsHome, f.GoalsAway)
	}
	if f.HomeTeamID != 42 || item.AwayTeam.Name != "Chelsea" || item.LeagueName != "Premier League" {
		t.Fatalf("unexpected teams: %+v", item)
	}
	if len(item.Events) != 1 {
		t.Fatalf("expected one event, got=%d", len(item.Events))
	}
	event := item.Events[0]
	if event.FixtureID != 1035037 || event.Elapsed != 23 || event.ElapsedExtra != nil {
		t.Fatalf("unexpected event timing: %+v", event)
	}
	if event.PlayerID == nil || *event.PlayerID != 1460 || event.AssistID != nil || event.Comments != "" {
		t.Fatalf("unexpected event people: %+v", event)
	}
	if !strings.Contains(string(item.Raw), `"referee": "M. Oliver"`) {
		t.Fatalf("expected raw item to be preserved, got=%s", item.Raw)
	}
}

func TestFetchFixturesByIDs_JoinsIDsAndEnforcesCap(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if got := r.URL.Query().Get("ids"); got != "1-2-3" {
			t.Errorf("expected dash-joined ids, got=%q", got)
		}
		_, _ = w.Write([]byte(`{"errors":[],"results":0,"response":[]}`))
	}, nil)

	items, err := client.FetchFixturesByIDs(context.Background(), []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty result, got=%d", len(items))
	}

	tooMany := make([]int64, maxIDsPerRequest+1)
	for i := range tooMany {
		tooMany[i] = int64(i + 1)
	}
	if _, err := client.FetchFixturesByIDs(context.Background(), tooMany); err == nil {
		t.Fatalf("expected error for oversized id list")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single upstream call, got=%d", calls.Load())
	}
}

func TestFetchPlayerStatistics_SkipsPlayersWithoutStatistics(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fixtures/players" || r.URL.Query().Get("fixture") != "77" {
			t.Errorf("unexpected request %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"errors":[],"response":[{
			"team": {"id": 42, "name": "Arsenal"},
			"players": [
				{"player": {"id": 1, "name": "D. Raya", "photo": "p.png"},
				 "statistics": [{
					"games": {"minutes": 90, "number": 22, "position": "G", "rating": "7.4", "captain": false, "substitute": false},
					"goals": {"total": null, "assists": 0},
					"shots": {"total": null},
					"passes": {"total": 31, "accuracy": "81"},
					"tackles": {"total": null, "interceptions": 1},
					"duels": {"won": 2},
					"dribbles": {"success": null},
					"cards": {"yellow": 1, "red": 0}
				 }]},
				{"player": {"id": 2, "name": "Unused"}, "statistics": []}
			]
		}]}`))
	}, nil)

	groups, err := client.FetchPlayerStatistics(context.Background(), 77)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 1 || len(groups[0].Players) != 1 {
		t.Fatalf("expected one team with one player, got=%+v", groups)
	}

	line := groups[0].Players[0]
	if line.ID != 1 || line.Rating != "7.4" || line.PassesAccuracy != "81" {
		t.Fatalf("unexpected line: %+v", line)
	}
	if line.Minutes == nil || *line.Minutes != 90 || line.Goals != nil {
		t.Fatalf("unexpected minutes=%v goals=%v", line.Minutes, line.Goals)
	}
	if line.YellowCards == nil || *line.YellowCards != 1 {
		t.Fatalf("expected one yellow card, got=%v", line.YellowCards)
	}
	if !strings.Contains(string(line.RawStatistics), `"games"`) {
		t.Fatalf("expected raw statistics, got=%s", line.RawStatistics)
	}
}

func TestFetchTeamStatistics_KeepsValuesAsText(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[],"response":[{
			"team": {"id": 42, "name": "Arsenal"},
			"statistics": [
				{"type": "Ball Possession", "value": "54%"},
				{"type": "Total Shots", "value": 12},
				{"type": "expected_goals", "value": "1.23"},
				{"type": "Red Cards", "value": null}
			]
		}]}`))
	}, nil)

	groups, err := client.FetchTeamStatistics(context.Background(), 77)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stats := groups[0].Statistics
	want := []string{"54%", "12", "1.23", ""}
	if len(stats) != len(want) {
		t.Fatalf("expected %d statistics, got=%d", len(want), len(stats))
	}
	for i, value := range want {
		if stats[i].Value != value {
			t.Fatalf("statistic %q: expected %q, got %q", stats[i].Type, value, stats[i].Value)
		}
	}
}

func TestFetchSquadAndTeam_HandleMissingData(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/players/squads":
			_, _ = w.Write([]byte(`{"errors":[],"response":[{"team":{"id":42,"name":"Arsenal"},"players":null}]}`))
		case "/teams":
			_, _ = w.Write([]byte(`{"errors":[],"response":[]}`))
		default:
			t.Errorf("unexpected path=%s", r.URL.Path)
		}
	}, nil)

	squad, ok, err := client.FetchSquad(context.Background(), 42)
	if err != nil || !ok {
		t.Fatalf("expected squad, ok=%v err=%v", ok, err)
	}
	if string(squad.RawPlayers) != "[]" || len(squad.Players) != 0 {
		t.Fatalf("expected empty squad, got raw=%s players=%d", squad.RawPlayers, len(squad.Players))
	}

	_, ok, err = client.FetchTeam(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected team not found")
	}
}

func TestFetchPlayer_ReturnsWholeEnvelope(t *testing.T) {
	t.Parallel()

	body := `{"errors":[],"results":1,"response":[{"player":{"id":276,"name":"Neymar","age":34,"injured":false,"birth":{"date":"1992-02-05"}},"statistics":[{"team":{"id":85}}]}]}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("season") != "2025" {
			t.Errorf("expected season query, got=%q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(body))
	}, nil)

	profile, ok, err := client.FetchPlayer(context.Background(), 276, 2025)
	if err != nil || !ok {
		t.Fatalf("expected profile, ok=%v err=%v", ok, err)
	}
	if string(profile.Envelope) != body {
		t.Fatalf("expected untouched envelope, got=%s", profile.Envelope)
	}
	if profile.Injured == nil || *profile.Injured || profile.BirthDate != "1992-02-05" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestGet_EnvelopeErrorsAreRejected(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"errors":{"requests":"You have reached the request limit for the day"},"response":[]}`))
	}, nil)

	_, err := client.FetchLineups(context.Background(), 1)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "request limit") {
		t.Fatalf("expected provider message in error, got=%v", err)
	}
}

func TestExecuteRequest_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"errors":[],"response":[]}`))
	}, func(cfg *ClientConfig) {
		cfg.MaxRetries = 1
	})

	if _, err := client.FetchLineups(context.Background(), 1); err != nil {
		t.Fatalf("expected retry to succeed, got=%v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected two attempts, got=%d", calls.Load())
	}
}

func TestExecuteRequest_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"bad key"}`))
	}, func(cfg *ClientConfig) {
		cfg.MaxRetries = 3
	})

	_, err := client.FetchLineups(context.Background(), 1)
	if err == nil {
		t.Fatalf("expected error")
	}
	if IsTransient(err) {
		t.Fatalf("expected non-transient error, got=%v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected single attempt, got=%d", calls.Load())
	}
}

func TestGet_OpenBreakerShortCircuits(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, func(cfg *ClientConfig) {
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Hour}
	})

	if _, err := client.FetchLineups(context.Background(), 1); !IsTransient(err) {
		t.Fatalf("expected transient failure, got=%v", err)
	}
	_, err := client.FetchLineups(context.Background(), 2)
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected dependency unavailable, got=%v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected breaker to block the second call, got=%d calls", calls.Load())
	}
}

func TestGet_SharedFlightTakesOneHalfOpenSlot(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	var blocked atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("fixture") {
		case "1":
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		case "2":
			blocked.Add(1)
			<-release
		}
		_, _ = w.Write([]byte(`{"errors":[],"response":[]}`))
	}, func(cfg *ClientConfig) {
		cfg.CircuitBreaker = resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      20 * time.Millisecond,
			HalfOpenMaxReq:   2,
		}
	})

	ctx := context.Background()
	if _, err := client.FetchLineups(ctx, 1); !IsTransient(err) {
		t.Fatalf("expected transient failure to open the breaker, got=%v", err)
	}
	time.Sleep(30 * time.Millisecond)

	const callers = 6
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := client.FetchLineups(ctx, 2)
			errs <- err
		}()
	}
	for blocked.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("expected every caller of the shared flight to succeed, got=%v", err)
		}
	}
	if blocked.Load() != 1 {
		t.Fatalf("expected one upstream call for the shared flight, got=%d", blocked.Load())
	}

	if _, err := client.FetchLineups(ctx, 3); err != nil {
		t.Fatalf("expected the second half-open probe to be allowed, got=%v", err)
	}
	if state := client.breaker.State(); state != resilience.CircuitStateClosed {
		t.Fatalf("expected breaker to close after two probes, got=%v", state)
	}
}

func TestRedact_RemovesKey(t *testing.T) {
	t.Parallel()

	got := redact(`Get "https://host/fixtures?x-apisports-key=abc123": dial tcp secret-key`, "secret-key")
	if strings.Contains(got, "abc123") || strings.Contains(got, "secret-key") {
		t.Fatalf("expected key to be redacted, got=%q", got)
	}
}

func TestFlexInt_NonFiniteIsNull(t *testing.T) {
	t.Parallel()

	cases := map[string]*int{
		`"NaN"`:  nil,
		`"Inf"`:  nil,
		`"-Inf"`: nil,
		`1e400`:  nil,
		`"12.9"`: intPtr(12),
		`7`:      intPtr(7),
		`null`:   nil,
	}
	for raw, want := range cases {
		var v flexInt
		if err := v.UnmarshalJSON([]byte(raw)); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		got := v.Ptr()
		if (got == nil) != (want == nil) || (got != nil && *got != *want) {
			t.Fatalf("flexInt(%s): got=%v want=%v", raw, got, want)
		}
	}
}

func intPtr(v int) *int { return &v }
