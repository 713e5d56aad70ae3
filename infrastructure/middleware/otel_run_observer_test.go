package middleware

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/openvaa/vaa-matching/internal/domain"
	"github.com/openvaa/vaa-matching/internal/ports"
)

func newRecordingObserver(t *testing.T) (*OTelRunObserver, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return NewOTelRunObserver(tp), recorder
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestOTelRunObserver_Success(t *testing.T) {
	obs, recorder := newRecordingObserver(t)
	info := ports.RunInfo{RunID: "run-1", Metric: "manhattan", MissingMethod: "neutral", Questions: 5, Targets: 3}

	ctx := obs.Start(context.Background(), info)
	info.ActiveQuestions = 4
	obs.Finish(ctx, info, 20*time.Millisecond, nil)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]

	assert.Equal(t, "Matcher.Match", span.Name())
	assert.Equal(t, codes.Ok, span.Status().Code)

	v, ok := attrValue(span.Attributes(), "match.run_id")
	require.True(t, ok)
	assert.Equal(t, "run-1", v.AsString())

	v, ok = attrValue(span.Attributes(), "match.active_questions")
	require.True(t, ok)
	assert.Equal(t, int64(4), v.AsInt64())

	require.Len(t, span.Events(), 1)
	assert.Equal(t, "match.completed", span.Events()[0].Name)
}

func TestOTelRunObserver_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind string
	}{
		{name: "configuration", err: domain.NewConfigurationError("Matcher", "no targets"), wantKind: "configuration"},
		{name: "domain", err: fmt.Errorf("projecting: %w", domain.NewDomainError("q1", 9, "out of range")), wantKind: "domain"},
		{name: "insufficient data", err: &domain.InsufficientDataError{Requested: 3}, wantKind: "insufficient_data"},
		{name: "canceled", err: context.Canceled, wantKind: "canceled"},
		{name: "other", err: fmt.Errorf("boom"), wantKind: "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs, recorder := newRecordingObserver(t)

			ctx := obs.Start(context.Background(), ports.RunInfo{RunID: "run-err"})
			obs.Finish(ctx, ports.RunInfo{RunID: "run-err"}, time.Millisecond, tt.err)

			spans := recorder.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, codes.Error, spans[0].Status().Code)
			assert.Equal(t, tt.err.Error(), spans[0].Status().Description)

			v, ok := attrValue(spans[0].Attributes(), "match.error_kind")
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, v.AsString())
		})
	}
}

func TestOTelRunObserver_ConcurrentRuns(t *testing.T) {
	obs, recorder := newRecordingObserver(t)

	done := make(chan struct{})
	for i := range 10 {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			info := ports.RunInfo{RunID: fmt.Sprintf("run-%d", i)}
			ctx := obs.Start(context.Background(), info)
			obs.Finish(ctx, info, 0, nil)
		}(i)
	}
	for range 10 {
		<-done
	}

	assert.Len(t, recorder.Ended(), 10)
}
