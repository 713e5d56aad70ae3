package middleware

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/openvaa/vaa-matching/internal/domain"
	"github.com/openvaa/vaa-matching/internal/ports"
)

var _ ports.RunObserver = (*OTelRunObserver)(nil)

// tracerName identifies spans created by the run observer.
const tracerName = "vaa-matching"

// OTelRunObserver implements observability for matching runs using
// OpenTelemetry tracing. It starts one span per run, sets attributes
// describing the run and records the outcome as the span status.
// It keeps no per-run state and is safe for concurrent use.
type OTelRunObserver struct {
	tracer trace.Tracer
}

// NewOTelRunObserver creates a run observer using the given tracer
// provider. A nil provider uses the global one.
func NewOTelRunObserver(tp trace.TracerProvider) *OTelRunObserver {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &OTelRunObserver{tracer: tp.Tracer(tracerName)}
}

// Start implements ports.RunObserver.
func (o *OTelRunObserver) Start(ctx context.Context, info ports.RunInfo) context.Context {
	ctx, _ = o.tracer.Start(ctx, "Matcher.Match",
		trace.WithAttributes(
			attribute.String("match.run_id", info.RunID),
			attribute.String("match.metric", info.Metric),
			attribute.String("match.missing_method", info.MissingMethod),
			attribute.Int("match.questions", info.Questions),
			attribute.Int("match.targets", info.Targets),
			attribute.Int("match.groups", info.Groups),
		),
	)
	return ctx
}

// Finish implements ports.RunObserver. It ends the span started by Start.
func (o *OTelRunObserver) Finish(ctx context.Context, info ports.RunInfo, elapsed time.Duration, err error) {
	span := trace.SpanFromContext(ctx)
	defer span.End()

	span.SetAttributes(
		attribute.Int("match.active_questions", info.ActiveQuestions),
		attribute.Int64("match.latency_ms", elapsed.Milliseconds()),
	)

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("match.error_kind", errorKind(err)))
		span.SetStatus(codes.Error, err.Error())
		return
	}

	span.AddEvent("match.completed", trace.WithAttributes(
		attribute.Int("match.results", info.Targets),
	))
	span.SetStatus(codes.Ok, "")
}

// errorKind classifies err by its domain sentinel.
func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrConfiguration):
		return "configuration"
	case errors.Is(err, domain.ErrDomain):
		return "domain"
	case errors.Is(err, domain.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}
