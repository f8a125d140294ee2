package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	calculus "github.com/njchilds90/gocalculus"
	"github.com/njchilds90/gocalculus/internal/config"
	"github.com/njchilds90/gocalculus/internal/store"
	"github.com/njchilds90/gocalculus/internal/telemetry"
	"github.com/njchilds90/gocalculus/internal/web"
)

type server struct {
	cfg     config.Server
	logger  *slog.Logger
	cache   store.Store
	metrics telemetry.Recorder
	views   *web.Renderer
}

func newServer(cfg config.Server, logger *slog.Logger, cache store.Store, metrics telemetry.Recorder) (*server, error) {
	views, err := web.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if metrics == nil {
		metrics = telemetry.NoopRecorder{}
	}
	return &server{cfg: cfg, logger: logger, cache: cache, metrics: metrics, views: views}, nil
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tool", s.recoverer(s.handleTool))
	mux.HandleFunc("/schema", s.handleSchema)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/view", s.recoverer(s.handleView))
	return mux
}

func newRequestID() string { return "req-" + uuid.NewString()[:8] }

func (s *server) recoverer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				telemetry.LogPanic(s.logger, fmt.Sprintf("%v\n%s", rec, debug.Stack()))
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next(w, r)
	}
}

// writeJSON encodes v before touching the response so an encoding failure
// still reaches the client as a 500.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(calculus.ToolResponse{Error: "encode response: " + err.Error(), Kind: "internal"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

// POST /tool: execute a tool call
func (s *server) handleTool(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req calculus.ToolRequest
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, calculus.ToolResponse{Error: err.Error(), Kind: "invalid_request"})
		return
	}
	if dec.More() {
		writeJSON(w, http.StatusBadRequest, calculus.ToolResponse{Error: "invalid JSON: trailing data", Kind: "invalid_request"})
		return
	}

	requestID := newRequestID()
	w.Header().Set("X-Request-ID", requestID)
	logger := telemetry.RequestLogger(s.logger, requestID, req.Tool)

	ctx, span := telemetry.StartToolSpan(r.Context(), req.Tool, requestID)
	start := time.Now()

	var resp calculus.ToolResponse
	if err := s.checkSampleSteps(req); err != nil {
		resp = calculus.ToolResponse{Error: err.Error(), Kind: calculus.ErrorKind(err)}
	} else if tokens, ok := cacheableDiff(req); ok {
		resp = s.cachedDiff(r, tokens, logger)
		if resp.Error == "" {
			telemetry.AddSpanEvent(ctx, "derivative.ready", attribute.String("derivative", resp.String))
		}
	} else {
		resp = calculus.HandleToolCall(req)
	}

	elapsed := time.Since(start)
	ms := float64(elapsed) / float64(time.Millisecond)
	s.metrics.RecordToolCall(ctx, req.Tool, elapsed, resp.Kind)
	if resp.Error != "" {
		telemetry.EndSpanWithError(span, resp.Kind, errors.New(resp.Error))
		telemetry.LogToolError(logger, resp.Kind, resp.Error, ms)
	} else {
		telemetry.EndSpanWithError(span, "", nil)
		telemetry.LogToolCall(logger, resp.String, ms)
	}

	writeJSON(w, http.StatusOK, resp)
}

// checkSampleSteps applies sample.max_steps to sample calls.
func (s *server) checkSampleSteps(req calculus.ToolRequest) error {
	if req.Tool != "sample" {
		return nil
	}
	if steps, ok := req.Params["steps"].(float64); ok && steps > float64(s.cfg.SampleMaxSteps) {
		return fmt.Errorf("%w: steps %v exceeds sample.max_steps %d", calculus.ErrInvalidRange, steps, s.cfg.SampleMaxSteps)
	}
	return nil
}

// cacheableDiff reports whether req is a simplified diff given as tokens.
func cacheableDiff(req calculus.ToolRequest) ([]string, bool) {
	if req.Tool != "diff" {
		return nil, false
	}
	if simplify, ok := req.Params["simplify"].(bool); ok && !simplify {
		return nil, false
	}
	raw, ok := req.Params["tokens"].([]interface{})
	if !ok {
		return nil, false
	}
	tokens := make([]string, len(raw))
	for i, t := range raw {
		s, ok := t.(string)
		if !ok {
			return nil, false
		}
		tokens[i] = s
	}
	return tokens, true
}

func (s *server) cachedDiff(r *http.Request, tokens []string, logger *slog.Logger) calculus.ToolResponse {
	e, err := calculus.Parse(tokens)
	if err != nil {
		return calculus.ToolResponse{Error: err.Error(), Kind: calculus.ErrorKind(err)}
	}
	key, err := store.Key(e)
	if err != nil {
		return calculus.ToolResponse{Error: err.Error(), Kind: calculus.ErrorKind(err)}
	}
	d, hit, err := store.Cached(s.cache, e, key)
	if err != nil {
		return calculus.ToolResponse{Error: err.Error(), Kind: calculus.ErrorKind(err)}
	}
	s.metrics.RecordCacheLookup(r.Context(), hit)
	if hit {
		telemetry.LogCacheHit(logger, key)
	}
	return calculus.ToolResponse{Result: calculus.ToMap(d.Root()), String: d.String(), LaTeX: d.LaTeX()}
}

// GET /schema: tool schema for agent registration
func (s *server) handleSchema(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, calculus.ToolSpec())
}

// GET /health: liveness check
func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}
	if n, err := s.cache.Len(); err == nil {
		body["cached"] = n
	} else {
		body["status"] = "degraded"
		body["error"] = err.Error()
	}
	writeJSON(w, http.StatusOK, body)
}

// GET /view?tokens=a,b,c&from=-5&to=5: HTML view of f and f'
func (s *server) handleView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	from := floatParam(q.Get("from"), s.cfg.SampleFrom)
	to := floatParam(q.Get("to"), s.cfg.SampleTo)
	tokens := web.SplitTokens(q.Get("tokens"))

	page, status := s.viewPage(r, tokens, from, to)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.views.Render(w, page); err != nil {
		s.logger.Error("render view", slog.String("error", err.Error()))
	}
}

func (s *server) viewPage(r *http.Request, tokens []string, from, to float64) (web.Page, int) {
	e, err := calculus.Parse(tokens)
	if err != nil {
		return web.ErrorPage(err), http.StatusBadRequest
	}
	key, err := store.Key(e)
	if err != nil {
		return web.ErrorPage(err), http.StatusInternalServerError
	}
	d, hit, err := store.Cached(s.cache, e, key)
	if err != nil {
		return web.ErrorPage(err), http.StatusUnprocessableEntity
	}
	s.metrics.RecordCacheLookup(r.Context(), hit)
	samples, err := calculus.Sample(e, from, to, s.cfg.SampleSteps)
	if err != nil {
		return web.ErrorPage(err), http.StatusBadRequest
	}
	return web.NewPage(tokens, e, d, samples, from, to), http.StatusOK
}

func floatParam(raw string, def float64) float64 {
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}
