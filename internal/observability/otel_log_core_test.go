package observability

import (
	"errors"
	"testing"

	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestBuildOTelLogAttributes_FromZapFields(t *testing.T) {
	enc := zapcore.NewMapObjectEncoder()
	for _, field := range []zap.Field{
		zap.Int64("fixture_id", 1035034),
		zap.String("worker", "live"),
		zap.Error(errors.New("upstream 503")),
		zap.String("trace_id", "4bf92f3577b34da6a3ce929d0e0e4736"),
	} {
		field.AddTo(enc)
	}

	attrs := buildOTelLogAttributes(enc.Fields)
	if len(attrs) != 3 {
		t.Fatalf("expected 3 attributes without trace ids, got %d", len(attrs))
	}
	if attrs[0].Key != "error" || attrs[0].Value.AsString() != "upstream 503" {
		t.Fatalf("unexpected error attribute: %+v", attrs[0])
	}
	if attrs[1].Key != "fixture_id" || attrs[1].Value.AsInt64() != 1035034 {
		t.Fatalf("unexpected fixture_id attribute: %+v", attrs[1])
	}
	if attrs[2].Key != "worker" || attrs[2].Value.AsString() != "live" {
		t.Fatalf("unexpected worker attribute: %+v", attrs[2])
	}
}

func TestContextFromTraceFields(t *testing.T) {
	ctx := contextFromTraceFields(map[string]any{
		"trace_id": "4bf92f3577b34da6a3ce929d0e0e4736",
		"span_id":  "00f067aa0ba902b7",
	})
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		t.Fatalf("expected valid span context")
	}
	if spanCtx.TraceID().String() != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Fatalf("unexpected trace id: %s", spanCtx.TraceID())
	}

	if trace.SpanContextFromContext(contextFromTraceFields(map[string]any{"trace_id": "zz"})).IsValid() {
		t.Fatalf("expected invalid span context for malformed ids")
	}
}

func TestToOTelLogValue_Map(t *testing.T) {
	v := toOTelLogValue(map[string]any{
		"synced_ids": []any{int64(1), int64(2)},
		"failed":     false,
	}, 0)
	if v.Kind() != otellog.KindMap {
		t.Fatalf("expected map value, got %s", v.Kind())
	}
	items := v.AsMap()
	if len(items) != 2 {
		t.Fatalf("expected 2 map items, got %d", len(items))
	}
	if items[1].Key != "synced_ids" || items[1].Value.Kind() != otellog.KindSlice {
		t.Fatalf("unexpected slice item: %+v", items[1])
	}
}

func TestOTelLogCore_LevelGate(t *testing.T) {
	core := NewOTelLogCore("dev", zapcore.WarnLevel)
	if core.Enabled(zapcore.InfoLevel) {
		t.Fatalf("expected info to be filtered")
	}
	if !core.Enabled(zapcore.ErrorLevel) {
		t.Fatalf("expected error to pass")
	}
	if err := core.With([]zapcore.Field{zap.String("component", "scheduler")}).Write(zapcore.Entry{Level: zapcore.ErrorLevel, Message: "tick failed"}, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
}
