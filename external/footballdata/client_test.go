package footballdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
	"github.com/riskibarqy/matchday-sync/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		Token:      "fd-token",
		Logger:     logging.NewNop(),
	})
}

func TestFetchStandings_PrefersTotalTable(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v4/competitions/PL/standings" {
			t.Errorf("unexpected path=%s", r.URL.Path)
		}
		if r.URL.Query().Get("season") != "2025" {
			t.Errorf("expected season=2025, got=%q", r.URL.RawQuery)
		}
		if r.Header.Get("X-Auth-Token") != "fd-token" {
			t.Errorf("expected auth token header")
		}
		_, _ = w.Write([]byte(`{"standings":[
			{"stage":"REGULAR_SEASON","type":"HOME","table":[{"position":9,"team":{"id":1}}]},
			{"stage":"REGULAR_SEASON","type":"TOTAL","table":[
				{"position":1,"team":{"id":57,"name":"Arsenal FC","shortName":"Arsenal","tla":"ARS"},
				 "playedGames":28,"form":"W,W,D","won":20,"draw":5,"lost":3,"points":65,
				 "goalsFor":60,"goalsAgainst":20,"goalDifference":40},
				{"position":2,"team":{"id":65,"name":"Manchester City FC","shortName":"Man City"},
				 "playedGames":28,"form":null,"won":19,"draw":5,"lost":4,"points":62}
			]}
		]}`))
	})

	rows, err := client.FetchStandings(context.Background(), "pl", 2025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected two rows from the TOTAL table, got=%d", len(rows))
	}
	first := rows[0]
	if first.TeamID != 57 || first.ShortName != "Arsenal" || first.Points != 65 || first.GoalDifference != 40 || first.Form != "W,W,D" {
		t.Fatalf("unexpected first row: %+v", first)
	}
	if rows[1].Form != "" {
		t.Fatalf("expected null form to map to empty string, got=%q", rows[1].Form)
	}
}

func TestFetchStandings_CurrentSeasonOmitsQuery(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Errorf("expected no query, got=%q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"standings":[]}`))
	})

	rows, err := client.FetchStandings(context.Background(), "BL1", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got=%d", len(rows))
	}
}

func TestFetchStandings_MapsStatusErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, check: func(err error) bool {
			return errors.Is(err, ErrRateLimited) && errors.Is(err, usecase.ErrDependencyUnavailable)
		}},
		{name: "plan restricted", status: http.StatusForbidden, check: func(err error) bool {
			return errors.Is(err, ErrPlanRestricted)
		}},
		{name: "server error", status: http.StatusInternalServerError, check: func(err error) bool {
			return err != nil && !errors.Is(err, ErrRateLimited)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"message":"nope"}`))
			})
			_, err := client.FetchStandings(context.Background(), "PL", 2025)
			if !tt.check(err) {
				t.Fatalf("unexpected error for status %d: %v", tt.status, err)
			}
		})
	}
}

func TestFetchStandings_RequiresCode(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Logger: logging.NewNop()})
	if _, err := client.FetchStandings(context.Background(), " ", 2025); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got=%v", err)
	}
}
