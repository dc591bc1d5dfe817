package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/riskibarqy/matchday-sync/internal/platform/logging"
)

func TestNew_RejectsInvalidSpec(t *testing.T) {
	t.Parallel()

	_, err := New([]Job{{Name: "live_manager", Spec: "every five minutes", Run: func(context.Context) error { return nil }}}, logging.NewNop())
	if err == nil {
		t.Fatalf("expected error for invalid cron spec")
	}
}

func TestNew_RejectsMissingRun(t *testing.T) {
	t.Parallel()

	if _, err := New([]Job{{Name: "master_sync", Spec: "0 0 * * *"}}, logging.NewNop()); err == nil {
		t.Fatalf("expected error for job without run func")
	}
}

func TestScheduler_EntriesUseUTC(t *testing.T) {
	t.Parallel()

	s, err := New([]Job{
		{Name: "live_manager", Spec: "*/5 * * * *", Run: func(context.Context) error { return nil }},
		{Name: "predict_usage", Spec: "5 0 * * *", Run: func(context.Context) error { return nil }},
	}, logging.NewNop())
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	s.Start()
	defer func() { _ = s.Stop(context.Background()) }()

	entries := s.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.Next.IsZero() || entry.Next.Location() != time.UTC {
			t.Fatalf("expected UTC next run, got %v", entry.Next)
		}
	}
}

func TestTick_LogsOutcomeAndHonoursTimeout(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	s, err := New(nil, logging.FromZap(zap.New(core)))
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	var calls atomic.Int32
	s.tick(Job{Name: "live_manager", Timeout: time.Second, Run: func(ctx context.Context) error {
		calls.Add(1)
		if _, ok := ctx.Deadline(); !ok {
			t.Errorf("expected deadline on job context")
		}
		return nil
	}}).Run()
	s.tick(Job{Name: "master_sync", Run: func(context.Context) error {
		calls.Add(1)
		return errors.New("quota exhausted")
	}}).Run()

	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
	if logs.FilterMessage("job finished").Len() != 1 {
		t.Fatalf("expected one finished log")
	}
	failed := logs.FilterMessage("job failed").All()
	if len(failed) != 1 || failed[0].ContextMap()["job"] != "master_sync" {
		t.Fatalf("expected one failed log for master_sync, got %+v", failed)
	}
}
