package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/openvaa/vaa-matching/internal/ports"
)

func TestZapSpanExporter(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	exporter := NewZapSpanExporter(zap.New(core))
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	obs := NewOTelRunObserver(tp)
	info := ports.RunInfo{RunID: "run-7", Metric: "euclidean", Targets: 2}
	ctx := obs.Start(context.Background(), info)
	obs.Finish(ctx, info, time.Millisecond, nil)

	require.NoError(t, tp.Shutdown(context.Background()))

	entries := logs.FilterMessage("Matcher.Match").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "run-7", fields["match.run_id"])
	assert.Equal(t, "euclidean", fields["match.metric"])
	assert.Equal(t, "Ok", fields["status"])
	assert.NotEmpty(t, fields["trace_id"])
}

func TestZapSpanExporter_AfterShutdown(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	exporter := NewZapSpanExporter(zap.New(core))
	require.NoError(t, exporter.Shutdown(context.Background()))

	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	_, span := tp.Tracer("test").Start(context.Background(), "dropped")
	span.End()

	assert.Zero(t, logs.Len())
}
