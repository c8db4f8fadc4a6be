package logger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level zap.AtomicLevel) (*ZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return newZapLogger(core), logs
}

func TestWrite_RedactsChatText(t *testing.T) {
	l, logs := observed(zap.NewAtomicLevelAt(zap.DebugLevel))

	l.Info("CHATBOT", "Chat turn handled", map[string]interface{}{
		"username": "kai",
		"Message":  "I ate 3 eggs",
		"token":    "resp_123",
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Chat turn handled", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "CHATBOT", fields["module"])
	assert.Equal(t, map[string]interface{}{
		"username": "kai",
		"Message":  redacted,
		"token":    redacted,
	}, fields["details"])
}

func TestWrite_LevelFilterAndErrorRef(t *testing.T) {
	l, logs := observed(zap.NewAtomicLevelAt(zap.WarnLevel))

	l.Debug("X", "hidden", nil)
	l.Info("X", "hidden", nil)
	l.Error("X", "boom", map[string]interface{}{"error": errors.New("db down")})

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "db down", logs.All()[0].ContextMap()["error_ref"])
}

func TestWithContext_AddsTraceIDs(t *testing.T) {
	l, logs := observed(zap.NewAtomicLevelAt(zap.InfoLevel))

	assert.Same(t, l, l.WithContext(context.Background()), "no span, same logger")

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{1, 2, 3},
		SpanID:  trace.SpanID{4, 5, 6},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	l.WithContext(ctx).Info("X", "traced", nil)

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, sc.TraceID().String(), fields["trace_id"])
	assert.Equal(t, sc.SpanID().String(), fields["span_id"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zap.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zap.WarnLevel, parseLevel(" warn "))
	assert.Equal(t, zap.InfoLevel, parseLevel("loud"))
}

func TestNewZapLogger_ConsoleOnly(t *testing.T) {
	l := NewZapLogger(Options{Level: "error"})
	l.Info("X", "dropped", nil)
	_ = l.Sync()

	iso := NewIsolatedLogger(filepath.Join(t.TempDir(), "llm.log"))
	iso.Info("LLM", "written", nil)
}
