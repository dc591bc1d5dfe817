package workerclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
	"github.com/riskibarqy/matchday-sync/internal/platform/resilience"
	"github.com/riskibarqy/matchday-sync/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, breaker resilience.CircuitBreakerConfig) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientConfig{
		BaseURL:        server.URL,
		Token:          "service-token",
		Timeout:        5 * time.Second,
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
	})
}

func TestSyncLineups_PostsIDsWithBearerToken(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/workers/lineups" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer service-token" {
			t.Errorf("unexpected authorization header=%q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if strings.TrimSpace(string(body)) != `{"fixtureIds":[10,11]}` {
			t.Errorf("unexpected body=%s", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"synced_ids":[10],"failed_ids":[11]}`))
	}, resilience.CircuitBreakerConfig{})

	result, err := client.SyncLineups(context.Background(), []int64{10, 11})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.SyncedIDs) != 1 || result.SyncedIDs[0] != 10 || len(result.FailedIDs) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestSyncStats_SendsFlags(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"fixture_id":7`) || !strings.Contains(string(body), `"is_team_stats_synced":true`) {
			t.Errorf("unexpected body=%s", body)
		}
		_, _ = w.Write([]byte(`{"fixture_id":7,"updated_fields":["is_player_stats_synced"],"synced_ids":[7]}`))
	}, resilience.CircuitBreakerConfig{})

	result, err := client.SyncStats(context.Background(), usecase.StatsSyncInput{FixtureID: 7, IsTeamStatsSynced: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FixtureID != 7 || len(result.UpdatedFields) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestPost_MapsErrorStatuses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, want: usecase.ErrUnauthorized},
		{name: "quota", status: http.StatusTooManyRequests, want: usecase.ErrQuotaExhausted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"denied"}`))
			}, resilience.CircuitBreakerConfig{})

			_, err := client.SyncLive(context.Background(), []int64{1})
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got=%v", tt.want, err)
			}
			if !strings.Contains(err.Error(), "denied") {
				t.Fatalf("expected worker message in error, got=%v", err)
			}
		})
	}
}

func TestPost_BreakerOpensOnServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: time.Hour})

	for i := 0; i < 2; i++ {
		if _, err := client.SyncLive(context.Background(), []int64{1}); err == nil {
			t.Fatalf("expected failure on call %d", i)
		}
	}
	_, err := client.SyncLive(context.Background(), []int64{1})
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected open breaker, got=%v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected two upstream calls, got=%d", calls.Load())
	}
}

func TestPost_RequiresBaseURL(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})
	if _, err := client.SyncLineups(context.Background(), []int64{1}); err == nil {
		t.Fatalf("expected error without base url")
	}
}
