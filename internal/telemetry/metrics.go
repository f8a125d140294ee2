package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Recorder records tool call and cache metrics.
// Use NewRecorder for OTel metrics or NoopRecorder when disabled.
type Recorder interface {
	// RecordToolCall records one tool call. kind is empty on success.
	RecordToolCall(ctx context.Context, tool string, duration time.Duration, kind string)

	// RecordCacheLookup records a derivative cache lookup.
	RecordCacheLookup(ctx context.Context, hit bool)
}

type otelRecorder struct {
	calls   metric.Int64Counter
	errors  metric.Int64Counter
	latency metric.Float64Histogram
	cache   metric.Int64Counter
}

var (
	defaultRecorder     *otelRecorder
	defaultRecorderOnce sync.Once
	defaultRecorderErr  error
)

// NewRecorder returns a Recorder on the global meter provider, created once
// per process. If the instruments cannot be created it logs a warning and
// returns NoopRecorder.
func NewRecorder() Recorder {
	defaultRecorderOnce.Do(func() {
		defaultRecorder, defaultRecorderErr = newOtelRecorder(otel.GetMeterProvider())
	})
	if defaultRecorderErr != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", defaultRecorderErr.Error()))
		return NoopRecorder{}
	}
	return defaultRecorder
}

// NewRecorderWithProvider builds a Recorder on an explicit meter provider.
func NewRecorderWithProvider(mp metric.MeterProvider) (Recorder, error) {
	return newOtelRecorder(mp)
}

func newOtelRecorder(mp metric.MeterProvider) (*otelRecorder, error) {
	meter := mp.Meter("gocalculus")

	calls, err := meter.Int64Counter("calculus.tool.calls",
		metric.WithDescription("Number of tool calls"),
	)
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter("calculus.tool.errors",
		metric.WithDescription("Number of failed tool calls"),
	)
	if err != nil {
		return nil, err
	}

	latency, err := meter.Float64Histogram("calculus.tool.latency_ms",
		metric.WithDescription("Tool call latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	cache, err := meter.Int64Counter("calculus.cache.lookups",
		metric.WithDescription("Derivative cache lookups"),
	)
	if err != nil {
		return nil, err
	}

	return &otelRecorder{calls: calls, errors: errs, latency: latency, cache: cache}, nil
}

func (r *otelRecorder) RecordToolCall(ctx context.Context, tool string, duration time.Duration, kind string) {
	attrs := metric.WithAttributes(attribute.String("tool", tool))

	r.calls.Add(ctx, 1, attrs)
	r.latency.Record(ctx, float64(duration)/float64(time.Millisecond), attrs)

	if kind != "" {
		r.errors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("tool", tool),
			attribute.String("kind", kind),
		))
	}
}

func (r *otelRecorder) RecordCacheLookup(ctx context.Context, hit bool) {
	r.cache.Add(ctx, 1, metric.WithAttributes(attribute.Bool("hit", hit)))
}
