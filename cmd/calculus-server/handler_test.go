package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	calculus "github.com/njchilds90/gocalculus"
	"github.com/njchilds90/gocalculus/internal/config"
	"github.com/njchilds90/gocalculus/internal/store"
	"github.com/njchilds90/gocalculus/internal/telemetry"
)

func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	return newTestServerWith(t, map[string]any{"sample": map[string]any{"steps": 4}})
}

func newTestServerWith(t *testing.T, data map[string]any) (*httptest.Server, store.Store) {
	t.Helper()
	cfg, err := config.LoadServer(config.New(data))
	require.NoError(t, err)

	cache := store.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := newServer(cfg, logger, cache, telemetry.NoopRecorder{})
	require.NoError(t, err)

	ts := httptest.NewServer(s.routes())
	t.Cleanup(ts.Close)
	return ts, cache
}

func postTool(t *testing.T, ts *httptest.Server, body string) (int, calculus.ToolResponse) {
	t.Helper()
	res, err := http.Post(ts.URL+"/tool", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()

	var resp calculus.ToolResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&resp))
	return res.StatusCode, resp
}

func TestTool_Evaluate(t *testing.T) {
	ts, _ := newTestServer(t)
	status, resp := postTool(t, ts, `{"tool":"evaluate","params":{"tokens":["(VAL:2.0)","(VAR:x)","(TIMES:*)","(VAL:5.0)","(PLUS:+)"],"x":2}}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, 9.0, resp.Result)
}

func TestTool_DiffUsesCache(t *testing.T) {
	ts, cache := newTestServer(t)
	body := `{"tool":"diff","params":{"tokens":["(VAR:x)","(VAL:3.0)","(POW:^)"]}}`

	_, first := postTool(t, ts, body)
	require.Empty(t, first.Error)
	assert.Equal(t, "(3 * (x ^ 2))", first.String)

	n, err := cache.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, second := postTool(t, ts, body)
	assert.Equal(t, first.String, second.String)
	assert.Equal(t, first.LaTeX, second.LaTeX)
}

func TestTool_RawDiffSkipsCache(t *testing.T) {
	ts, cache := newTestServer(t)
	_, resp := postTool(t, ts, `{"tool":"diff","params":{"tokens":["(VAR:x)","(SIN:sin)"],"simplify":false}}`)
	assert.Equal(t, "(1 * cos(x))", resp.String)

	n, err := cache.Len()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTool_EngineErrors(t *testing.T) {
	ts, _ := newTestServer(t)

	_, resp := postTool(t, ts, `{"tool":"diff","params":{"tokens":["(PLUS:+)"]}}`)
	assert.Equal(t, "parsing", resp.Kind)

	_, resp = postTool(t, ts, `{"tool":"evaluate","params":{"tokens":["(VAR:x)","(LN:ln)"],"x":-1}}`)
	assert.Equal(t, "evaluation", resp.Kind)
}

func TestTool_BadRequests(t *testing.T) {
	ts, _ := newTestServer(t)

	status, resp := postTool(t, ts, `{"tool":"render","bogus":1}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_request", resp.Kind)

	status, resp = postTool(t, ts, `{"tool":"render","params":{}} {}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, resp.Error, "trailing data")

	res, err := http.Get(ts.URL + "/tool")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func TestTool_RequestID(t *testing.T) {
	ts, _ := newTestServer(t)
	res, err := http.Post(ts.URL+"/tool", "application/json",
		bytes.NewBufferString(`{"tool":"render","params":{"tokens":["(VAR:x)"]}}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Regexp(t, `^req-[0-9a-f]{8}$`, res.Header.Get("X-Request-ID"))
}

func TestSchemaAndHealth(t *testing.T) {
	ts, _ := newTestServer(t)

	res, err := http.Get(ts.URL + "/schema")
	require.NoError(t, err)
	var spec map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&spec))
	res.Body.Close()
	assert.Contains(t, spec, "tools")

	res, err = http.Get(ts.URL + "/health")
	require.NoError(t, err)
	var health map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&health))
	res.Body.Close()
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, 0.0, health["cached"])
}

func TestView(t *testing.T) {
	ts, _ := newTestServer(t)

	res, err := http.Get(ts.URL + "/view?tokens=(VAR:x),(LN:ln)&from=-1&to=1")
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "ln(x)")
	assert.Contains(t, string(body), "(1 / x)")

	res, err = http.Get(ts.URL + "/view?tokens=(PLUS:%2B)")
	require.NoError(t, err)
	body, _ = io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, string(body), "parsing")
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9000\"\ncache:\n  driver: sqlite\n"), 0o600))

	cfg, err := loadConfig(path, "")
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "sqlite", cfg.CacheDriver)

	cfg, err = loadConfig(path, ":7000")
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"), "")
	assert.Error(t, err)
}

func TestTool_BodyLimit(t *testing.T) {
	cfg, err := config.LoadServer(config.New(map[string]any{"max_body_bytes": 64}))
	require.NoError(t, err)
	s, err := newServer(cfg, nil, store.NewMemoryStore(), telemetry.NoopRecorder{})
	require.NoError(t, err)
	ts := httptest.NewServer(s.routes())
	defer ts.Close()

	body := `{"tool":"render","params":{"tokens":["(VAR:x)"` + strings.Repeat(`,"(VAR:x)"`, 20) + `]}}`
	status, resp := postTool(t, ts, body)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_request", resp.Kind)
}

func TestTool_NonFiniteResults(t *testing.T) {
	ts, _ := newTestServer(t)

	status, resp := postTool(t, ts, `{"tool":"evaluate","params":{"tokens":["(VAR:x)","(VAR:x)","(TIMES:*)"],"x":1e200}}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "evaluation", resp.Kind)
	assert.Nil(t, resp.Result)

	status, resp = postTool(t, ts, `{"tool":"sample","params":{"tokens":["(VAR:x)","(VAR:x)","(TIMES:*)"],"from":1e199,"to":1e200,"steps":2}}`)
	assert.Equal(t, http.StatusOK, status)
	require.Empty(t, resp.Error)
	points := resp.Result.(map[string]interface{})["points"].([]interface{})
	require.Len(t, points, 3)
	assert.Equal(t, false, points[2].(map[string]interface{})["defined"])
}

func TestWriteJSON_EncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusOK, calculus.ToolResponse{Result: math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp calculus.ToolResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "internal", resp.Kind)
	assert.Contains(t, resp.Error, "encode response")
}

func TestTool_SampleStepsLimit(t *testing.T) {
	ts, _ := newTestServerWith(t, map[string]any{"sample": map[string]any{"steps": 4, "max_steps": 10}})
	body := func(steps string) string {
		return `{"tool":"sample","params":{"tokens":["(VAR:x)"],"from":0,"to":1,"steps":` + steps + `}}`
	}

	_, resp := postTool(t, ts, body("11"))
	assert.Equal(t, "invalid_request", resp.Kind)
	assert.Contains(t, resp.Error, "sample.max_steps")

	_, resp = postTool(t, ts, body("3e6"))
	assert.Equal(t, "invalid_request", resp.Kind)

	_, resp = postTool(t, ts, body("10"))
	require.Empty(t, resp.Error)
	assert.Len(t, resp.Result.(map[string]interface{})["points"], 11)
}

func TestDiff_CacheKeyFollowsTree(t *testing.T) {
	ts, cache := newTestServer(t)

	_, first := postTool(t, ts, `{"tool":"diff","params":{"tokens":["(VAR:x)","(SIN:a) (COS:b)"]}}`)
	require.Empty(t, first.Error)
	assert.Equal(t, "cos(x)", first.String)

	_, second := postTool(t, ts, `{"tool":"diff","params":{"tokens":["(VAR:x)","(SIN:a)","(COS:b)"]}}`)
	require.Empty(t, second.Error)
	assert.Equal(t, "(cos(x) * (-sin(sin(x))))", second.String)

	n, err := cache.Len()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
