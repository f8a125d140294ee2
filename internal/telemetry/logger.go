// Package telemetry carries the logging, tracing and metrics of the calculus
// server and CLI. The engine package itself never logs.
//
// Logging uses log/slog. Spans and instruments use the global OpenTelemetry
// providers, so an embedding process decides where they are exported.
package telemetry

import (
	"io"
	"log/slog"
)

// NewLogger builds a slog logger writing JSON or text to w.
func NewLogger(w io.Writer, level slog.Level, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// RequestLogger adds the request id and tool name to every record.
func RequestLogger(logger *slog.Logger, requestID, tool string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("request_id", requestID),
		slog.String("tool", tool),
	)
}

func LogServerStart(logger *slog.Logger, addr, cacheDriver string) {
	if logger == nil {
		return
	}
	logger.Info("calculus server listening",
		slog.String("addr", addr),
		slog.String("cache", cacheDriver),
	)
}

// LogToolCall logs a completed tool call.
func LogToolCall(logger *slog.Logger, expr string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("tool call completed",
		slog.String("expr", expr),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogToolError logs a failed tool call. Input errors are warnings, anything
// the engine could not classify is an error.
func LogToolError(logger *slog.Logger, kind, msg string, durationMs float64) {
	if logger == nil {
		return
	}
	attrs := []any{
		slog.String("kind", kind),
		slog.String("error", msg),
		slog.Float64("duration_ms", durationMs),
	}
	if kind == "internal" {
		logger.Error("tool call failed", attrs...)
		return
	}
	logger.Warn("tool call failed", attrs...)
}

func LogCacheHit(logger *slog.Logger, key string) {
	if logger == nil {
		return
	}
	logger.Debug("derivative cache hit", slog.String("key", key))
}

// LogPanic logs a recovered handler panic.
func LogPanic(logger *slog.Logger, recovered any) {
	if logger == nil {
		return
	}
	logger.Error("handler panic recovered", slog.Any("panic", recovered))
}
