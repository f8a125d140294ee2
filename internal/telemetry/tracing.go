package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("gocalculus")

// StartToolSpan starts a span named after the tool being called.
func StartToolSpan(ctx context.Context, tool, requestID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "calculus.tool."+tool,
		trace.WithAttributes(
			attribute.String("tool.name", tool),
			attribute.String("request.id", requestID),
		),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// EndSpanWithError completes a span. A non-nil err is recorded and marks the
// span failed; kind is attached as the error.kind attribute.
func EndSpanWithError(span trace.Span, kind string, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.SetAttributes(attribute.String("error.kind", kind))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the span in ctx, if it is recording.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
