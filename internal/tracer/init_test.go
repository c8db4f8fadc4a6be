package tracer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymbro-be/internal/config"
)

func TestInitTracer_Disabled(t *testing.T) {
	shutdown := InitTracer(config.TraceConfig{Enabled: false}, "test")
	assert.NoError(t, shutdown(context.Background()))
}

func TestNewProvider_Sampling(t *testing.T) {
	cfg := config.TraceConfig{Enabled: true, Endpoint: "127.0.0.1:4318", ServiceName: "gymbro-test", SampleRatio: 0}
	tp, err := newProvider(context.Background(), cfg, "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(context.Background(), "root")
	defer span.End()
	assert.False(t, span.SpanContext().IsSampled(), "ratio 0 drops root spans")
}
