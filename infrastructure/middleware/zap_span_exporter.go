package middleware

import (
	"context"
	"sync/atomic"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

var _ sdktrace.SpanExporter = (*ZapSpanExporter)(nil)

// ZapSpanExporter writes finished spans to a zap logger at debug level.
// It lets command line runs inspect traces without a collector.
type ZapSpanExporter struct {
	logger  *zap.Logger
	stopped atomic.Bool
}

// NewZapSpanExporter creates an exporter logging to logger.
func NewZapSpanExporter(logger *zap.Logger) *ZapSpanExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSpanExporter{logger: logger}
}

// ExportSpans implements sdktrace.SpanExporter.
func (e *ZapSpanExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	if e.stopped.Load() {
		return nil
	}
	for _, s := range spans {
		if err := ctx.Err(); err != nil {
			return err
		}
		fields := []zap.Field{
			zap.String("trace_id", s.SpanContext().TraceID().String()),
			zap.String("span_id", s.SpanContext().SpanID().String()),
			zap.Duration("duration", s.EndTime().Sub(s.StartTime())),
			zap.String("status", s.Status().Code.String()),
		}
		for _, attr := range s.Attributes() {
			fields = append(fields, zap.String(string(attr.Key), attr.Value.Emit()))
		}
		if desc := s.Status().Description; desc != "" {
			fields = append(fields, zap.String("status_description", desc))
		}
		e.logger.Debug(s.Name(), fields...)
	}
	return nil
}

// Shutdown implements sdktrace.SpanExporter. Spans exported afterwards are
// dropped.
func (e *ZapSpanExporter) Shutdown(context.Context) error {
	e.stopped.Store(true)
	// Sync fails on terminals and pipes; there is nothing to recover.
	_ = e.logger.Sync()
	return nil
}
