// Package telemetry provides the comparator's structured-logging and
// metrics ambient stack: an slog handler that injects OpenTelemetry trace
// context, and OTel metric instruments exported via Prometheus. Grounded on
// pkg/observability/logger.go and internal/observability/metrics.go.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

const (
	attrTraceID = "trace_id"
	attrSpanID  = "span_id"
	attrTool    = "tool"
)

// TracingHandler is an slog.Handler that injects trace_id/span_id from the
// active OTel span context into every log record, and pre-attaches the
// report-tool dialect name so it survives WithGroup calls.
type TracingHandler struct {
	inner slog.Handler
}

// NewTracingHandler wraps inner, pre-attaching the dialect/tool name.
func NewTracingHandler(inner slog.Handler, tool string) *TracingHandler {
	attrs := []slog.Attr{}
	if tool != "" {
		attrs = append(attrs, slog.String(attrTool, tool))
	}

	return &TracingHandler{inner: inner.WithAttrs(attrs)}
}

// Enabled delegates to the inner handler.
func (th *TracingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return th.inner.Enabled(ctx, level)
}

// Handle adds trace context attributes from the span context, then delegates.
func (th *TracingHandler) Handle(ctx context.Context, record slog.Record) error {
	sc := trace.SpanContextFromContext(ctx)
	if sc.IsValid() {
		record.AddAttrs(
			slog.String(attrTraceID, sc.TraceID().String()),
			slog.String(attrSpanID, sc.SpanID().String()),
		)
	}

	if err := th.inner.Handle(ctx, record); err != nil {
		return fmt.Errorf("telemetry: tracing handler: %w", err)
	}

	return nil
}

// WithAttrs returns a new TracingHandler with additional attributes.
func (th *TracingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracingHandler{inner: th.inner.WithAttrs(attrs)}
}

// WithGroup returns a new TracingHandler with a group prefix.
func (th *TracingHandler) WithGroup(name string) slog.Handler {
	return &TracingHandler{inner: th.inner.WithGroup(name)}
}
