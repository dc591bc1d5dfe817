package logging

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_ContextFieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core)).With("component", "live_worker")

	logger.WarnContext(context.Background(), "upstream failed", "fixture_id", int64(42), "error", errors.New("boom"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["component"] != "live_worker" {
		t.Fatalf("expected component field, got %v", fields)
	}
	if fields["fixture_id"] != int64(42) {
		t.Fatalf("expected fixture_id=42, got %v", fields["fixture_id"])
	}
	if fields["error"] != "boom" {
		t.Fatalf("expected error field, got %v", fields["error"])
	}
}

func TestLogger_OddArgsDoNotPanic(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core))

	logger.Info("dangling", "key")
	logger.Debug("filtered")

	if logs.Len() != 1 {
		t.Fatalf("expected one entry, got %d", logs.Len())
	}
	if _, ok := logs.All()[0].ContextMap()["key"]; !ok {
		t.Fatalf("expected dangling key to be kept")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q)=%v want %v", raw, got, want)
		}
	}
}

func TestLogger_TeeWritesToBothCores(t *testing.T) {
	primary, primaryLogs := observer.New(zapcore.InfoLevel)
	extra, extraLogs := observer.New(zapcore.WarnLevel)
	logger := FromZap(zap.New(primary)).Tee(extra)

	logger.Info("quota consumed", "count", 3)
	logger.Warn("quota reached", "count", 95)

	if primaryLogs.Len() != 2 {
		t.Fatalf("expected two primary entries, got %d", primaryLogs.Len())
	}
	if extraLogs.Len() != 1 || extraLogs.All()[0].Message != "quota reached" {
		t.Fatalf("expected only the warning in the extra core, got %+v", extraLogs.All())
	}
	if FromZap(zap.New(primary)).Tee(nil) == nil {
		t.Fatalf("expected Tee(nil) to return a logger")
	}
}
