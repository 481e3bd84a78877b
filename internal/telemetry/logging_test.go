package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newBufferLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	baseHandler := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level})
	return slog.New(&traceHandler{baseHandler: baseHandler}), buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	t.Run("filters records below the configured level", func(t *testing.T) {
		logger, buf := newBufferLogger(slog.LevelWarn)

		logger.InfoContext(context.Background(), "info message")
		if buf.Len() != 0 {
			t.Errorf("expected info to be filtered, got %q", buf.String())
		}

		logger.WarnContext(context.Background(), "warn message")
		if buf.Len() == 0 {
			t.Error("expected warn to be logged")
		}
	})
}

func TestLoggerTraceCorrelation(t *testing.T) {
	t.Run("injects trace and span ids from context", func(t *testing.T) {
		recorder := tracetest.NewSpanRecorder()
		tp := trace.NewTracerProvider(trace.WithSpanProcessor(recorder))
		previous := otel.GetTracerProvider()
		otel.SetTracerProvider(tp)
		t.Cleanup(func() { otel.SetTracerProvider(previous) })

		logger, buf := newBufferLogger(slog.LevelInfo)

		ctx, span := StartSpan(context.Background(), "logged.operation")
		logger.InfoContext(ctx, "inside span")
		span.End()

		var record map[string]any
		if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
			t.Fatalf("failed to parse log record: %v", err)
		}

		if record["trace_id"] != TraceID(ctx) {
			t.Errorf("expected trace_id %q, got %v", TraceID(ctx), record["trace_id"])
		}
		if record["span_id"] == "" || record["span_id"] == nil {
			t.Error("expected span_id in log record")
		}
	})

	t.Run("omits trace fields without an active span", func(t *testing.T) {
		logger, buf := newBufferLogger(slog.LevelInfo)

		logger.InfoContext(context.Background(), "no span")

		var record map[string]any
		if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
			t.Fatalf("failed to parse log record: %v", err)
		}

		if _, ok := record["trace_id"]; ok {
			t.Error("expected no trace_id field")
		}
	})

	t.Run("preserves attrs added with With", func(t *testing.T) {
		logger, buf := newBufferLogger(slog.LevelInfo)

		logger.With("component", "importer").InfoContext(context.Background(), "hello")

		var record map[string]any
		if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
			t.Fatalf("failed to parse log record: %v", err)
		}

		if record["component"] != "importer" {
			t.Errorf("expected component attr, got %v", record["component"])
		}
	})
}
