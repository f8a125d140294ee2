// cmd/calculus-server/main.go: HTTP tool server for the calculus engine
//
// Usage:
//
//	go run ./cmd/calculus-server -config server.yaml
//
// Tool call endpoint: POST /tool
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
// HTML view:          GET  /view?tokens=(VAR:x),(SIN:sin)&from=-3&to=3
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/njchilds90/gocalculus/internal/config"
	"github.com/njchilds90/gocalculus/internal/store"
	"github.com/njchilds90/gocalculus/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML or JSON config file")
	addr := flag.String("addr", "", "Listen address, overrides the config file")
	flag.Parse()

	if err := run(*configPath, *addr); err != nil {
		fmt.Fprintln(os.Stderr, "calculus-server:", err)
		os.Exit(1)
	}
}

func loadConfig(path, addr string) (config.Server, error) {
	c := config.New(nil)
	if path != "" {
		var err error
		if c, err = config.FromFile(path); err != nil {
			return config.Server{}, err
		}
	}
	cfg, err := config.LoadServer(c)
	if err != nil {
		return config.Server{}, err
	}
	if addr != "" {
		cfg.Addr = addr
	}
	return cfg, nil
}

func run(configPath, addr string) error {
	cfg, err := loadConfig(configPath, addr)
	if err != nil {
		return err
	}
	logger := telemetry.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogJSON)

	cache, err := store.Open(cfg.CacheDriver, cfg.CachePath)
	if err != nil {
		return err
	}
	defer cache.Close()

	s, err := newServer(cfg, logger, cache, telemetry.NewRecorder())
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		telemetry.LogServerStart(logger, cfg.Addr, cfg.CacheDriver)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.String("addr", cfg.Addr))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
