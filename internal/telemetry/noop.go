package telemetry

import (
	"context"
	"time"
)

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

var _ Recorder = NoopRecorder{}

func (NoopRecorder) RecordToolCall(_ context.Context, _ string, _ time.Duration, _ string) {}
func (NoopRecorder) RecordCacheLookup(_ context.Context, _ bool)                           {}
