package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/riskibarqy/matchday-sync/internal/app"
	"github.com/riskibarqy/matchday-sync/internal/config"
	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
)

func memoryOpener(t *testing.T) Opener {
	t.Helper()
	cfg := config.Config{
		AppEnv:             config.EnvDev,
		QuotaDailyLimit:    95,
		WorkerTransport:    config.WorkerTransportLocal,
		APIFootballBaseURL: "http://127.0.0.1:1",
	}
	return func(ctx context.Context) (*app.App, error) {
		return app.New(ctx, cfg, logging.NewNop())
	}
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(memoryOpener(t))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestUsageCommand_PrintsSnapshot(t *testing.T) {
	t.Parallel()

	out, err := runCLI(t, "usage")
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if !strings.Contains(out, `"limit": 95`) || !strings.Contains(out, `"count": 0`) {
		t.Fatalf("unexpected usage output: %s", out)
	}
}

func TestLiveCommand_NoTasks(t *testing.T) {
	t.Parallel()

	out, err := runCLI(t, "live")
	if err != nil {
		t.Fatalf("live: %v", err)
	}
	if !strings.Contains(out, "no tasks") {
		t.Fatalf("expected no tasks report, got %s", out)
	}
}

func TestCommands_ArgumentValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		args []string
	}{
		{name: "non numeric team", args: []string{"team", "arsenal"}},
		{name: "negative league", args: []string{"league", "-3"}},
		{name: "squad without ids", args: []string{"squad"}},
		{name: "squad ids and all", args: []string{"squad", "33", "--all"}},
		{name: "standings without season", args: []string{"standings", "--af-league", "39", "--fd-code", "PL"}},
		{name: "map-teams without code", args: []string{"map-teams", "--af-league", "39"}},
		{name: "master with args", args: []string{"master", "39"}},
	}
	for _, tc := range cases {
		if _, err := runCLI(t, tc.args...); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestStandingsCommand_RequiresMappings(t *testing.T) {
	t.Parallel()

	_, err := runCLI(t, "standings", "--af-league", "39", "--fd-code", "PL", "--season", "2025")
	if err == nil || !strings.Contains(err.Error(), "standings") {
		t.Fatalf("expected standings error without mappings, got %v", err)
	}
}

func TestParseIDs(t *testing.T) {
	t.Parallel()

	ids, err := parseIDs("team-id", []string{"33", " 40 "})
	if err != nil {
		t.Fatalf("parse ids: %v", err)
	}
	if len(ids) != 2 || ids[0] != 33 || ids[1] != 40 {
		t.Fatalf("unexpected ids: %v", ids)
	}
	if _, err := parseIDs("team-id", []string{"0"}); err == nil {
		t.Fatalf("expected error for zero id")
	}
}
