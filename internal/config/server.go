package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	calculus "github.com/njchilds90/gocalculus"
)

// Server holds the settings of cmd/calculus-server.
type Server struct {
	Addr         string
	MaxBodyBytes int64

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	LogLevel slog.Level
	LogJSON  bool

	CacheDriver string // "memory" or "sqlite"
	CachePath   string

	SampleSteps    int
	SampleMaxSteps int
	SampleFrom     float64
	SampleTo       float64
}

// LoadServer fills a Server from c, using defaults for anything unset.
func LoadServer(c Config) (Server, error) {
	s := Server{
		Addr:              c.String("addr", ":8080"),
		MaxBodyBytes:      int64(c.Int("max_body_bytes", 1<<20)),
		ReadHeaderTimeout: c.Duration("read_header_timeout", 5*time.Second),
		ReadTimeout:       c.Duration("read_timeout", 15*time.Second),
		WriteTimeout:      c.Duration("write_timeout", 15*time.Second),
		IdleTimeout:       c.Duration("idle_timeout", 60*time.Second),
		LogJSON:           c.Bool("log_json", true),
		CacheDriver:       strings.ToLower(c.String("cache.driver", "memory")),
		CachePath:         c.String("cache.path", "calculus.db"),
		SampleSteps:       c.Int("sample.steps", 100),
		SampleMaxSteps:    c.Int("sample.max_steps", calculus.MaxSampleSteps),
		SampleFrom:        c.Float("sample.from", -5),
		SampleTo:          c.Float("sample.to", 5),
	}

	level, err := ParseLevel(c.String("log_level", "info"))
	if err != nil {
		return Server{}, err
	}
	s.LogLevel = level

	switch {
	case s.CacheDriver != "memory" && s.CacheDriver != "sqlite":
		return Server{}, fmt.Errorf("cache.driver: unknown driver %q", s.CacheDriver)
	case s.MaxBodyBytes <= 0:
		return Server{}, fmt.Errorf("max_body_bytes must be positive, got %d", s.MaxBodyBytes)
	case s.SampleSteps <= 0:
		return Server{}, fmt.Errorf("sample.steps must be positive, got %d", s.SampleSteps)
	case s.SampleMaxSteps < s.SampleSteps || s.SampleMaxSteps > calculus.MaxSampleSteps:
		return Server{}, fmt.Errorf("sample.max_steps must lie in [sample.steps, %d], got %d", calculus.MaxSampleSteps, s.SampleMaxSteps)
	case !(s.SampleFrom < s.SampleTo):
		return Server{}, fmt.Errorf("sample.from must be below sample.to")
	}
	return s, nil
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
