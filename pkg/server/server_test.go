package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/plotcraft/pkg/cache"
	"github.com/matzehuels/plotcraft/pkg/observability/metrics"
	"github.com/matzehuels/plotcraft/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := pipeline.NewRunner(fc, nil, nil)
	s := New(DefaultConfig(), runner, metrics.New(nil), nil)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeBody[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func TestHealthAndRequestID(t *testing.T) {
	ts := newTestServer(t)
	resp, body := do(t, ts, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc")
	resp2, err := ts.Client().Do(req)
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, "abc", resp2.Header.Get(RequestIDHeader))
}

func TestCharts(t *testing.T) {
	ts := newTestServer(t)
	resp, body := do(t, ts, http.MethodGet, "/api/charts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	charts := decodeBody[[]ChartInfo](t, body)
	assert.Len(t, charts, 39)
	for _, c := range charts {
		if c.Name == "density_mapbox" {
			assert.Equal(t, "density_map", c.Replacement)
		}
	}
}

func TestSchema(t *testing.T) {
	ts := newTestServer(t)

	resp, body := do(t, ts, http.MethodGet, "/api/schema?parent=layout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[[]ValidatorInfo](t, body)
	require.NotEmpty(t, list)
	for _, v := range list {
		assert.True(t, strings.HasPrefix(v.Path, "layout."), v.Path)
	}

	resp, body = do(t, ts, http.MethodGet, "/api/schema/layout.barmode", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v := decodeBody[ValidatorInfo](t, body)
	assert.Equal(t, "enumerated", v.Kind)
	assert.Equal(t, "layout", v.Parent)

	resp, body = do(t, ts, http.MethodGet, "/api/schema/layout.nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "UNKNOWN_ATTRIBUTE")
}

func TestSchemaGraphDOT(t *testing.T) {
	ts := newTestServer(t)
	resp, body := do(t, ts, http.MethodGet, "/api/schema-graph?root=layout&format=dot", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(string(body), "digraph"))

	resp, _ = do(t, ts, http.MethodGet, "/api/schema-graph?format=png", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestValidate(t *testing.T) {
	ts := newTestServer(t)

	resp, body := do(t, ts, http.MethodPost, "/api/validate", ValidateRequest{Path: "layout.barmode", Value: "group"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ok := decodeBody[ValidateResponse](t, body)
	assert.True(t, ok.Valid)
	assert.Equal(t, "group", ok.Value)

	resp, body = do(t, ts, http.MethodPost, "/api/validate", ValidateRequest{Path: "layout.barmode", Value: "sideways"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	bad := decodeBody[ValidateResponse](t, body)
	assert.False(t, bad.Valid)
	require.NotNil(t, bad.Violation)
	assert.Equal(t, "layout.barmode", bad.Violation.Path)

	resp, _ = do(t, ts, http.MethodPost, "/api/validate", ValidateRequest{Path: "layout.nope", Value: 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, ts, http.MethodPost, "/api/validate", map[string]any{"value": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, ts, http.MethodPost, "/api/validate", map[string]any{"path": "layout.barmode", "extra": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func barSpec() map[string]any {
	return map[string]any{
		"chart":    "bar",
		"columns":  map[string]any{"continent": []any{"Asia", "Europe"}, "pop": []any{30, 20}},
		"bindings": map[string]any{"x": "continent", "y": "pop"},
		"title":    "Population",
	}
}

func TestFigures(t *testing.T) {
	ts := newTestServer(t)

	resp, body := do(t, ts, http.MethodPost, "/api/figures", barSpec())
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	created := decodeBody[FigureResponse](t, body)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "/api/figures/"+created.ID, resp.Header.Get("Location"))
	require.Len(t, created.Figure.Data, 1)
	assert.Equal(t, "bar", created.Figure.Data[0]["type"])

	resp, body = do(t, ts, http.MethodGet, "/api/figures/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"layout"`)

	resp, body = do(t, ts, http.MethodGet, "/figures/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "Plotly.newPlot")
	assert.Contains(t, string(body), "<title>Population</title>")

	resp, _ = do(t, ts, http.MethodGet, "/api/figures/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, ts, http.MethodGet, "/api/figures/6f1c1f5e-8f55-4b55-9f4e-6a1d0f2b7c11", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFigureErrors(t *testing.T) {
	ts := newTestServer(t)

	withPath := barSpec()
	delete(withPath, "columns")
	withPath["data"] = "/etc/passwd"
	resp, body := do(t, ts, http.MethodPost, "/api/figures", withPath)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "INVALID_SPEC")

	unknown := barSpec()
	unknown["chart"] = "sankey"
	resp, body = do(t, ts, http.MethodPost, "/api/figures", unknown)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "UNKNOWN_CHART")

	violating := barSpec()
	violating["options"] = map[string]any{"barmode": "sideways"}
	resp, body = do(t, ts, http.MethodPost, "/api/figures", violating)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var errResp struct {
		Code       string `json:"code"`
		Violations []struct {
			Path string `json:"path"`
		} `json:"violations"`
	}
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "CONSTRAINT_VIOLATION", errResp.Code)
	require.NotEmpty(t, errResp.Violations)
	assert.Equal(t, "layout.barmode", errResp.Violations[0].Path)
}

func TestMetricsRoute(t *testing.T) {
	ts := newTestServer(t)
	resp, body := do(t, ts, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "plotcraft_")
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, BackendNone, cfg.Cache.Backend)

	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9090\"\ncache:\n  backend: file\n  dir: /tmp/plotcraft\n"), 0o644))
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, BackendFile, cfg.Cache.Backend)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("cache:\n  backend: redis\n"), 0o644))
	_, err = LoadConfig(bad)
	assert.Error(t, err, "redis backend without a URL")
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PLOTCRAFT_ADDR", ":7070")
	t.Setenv("PLOTCRAFT_WRITE_TIMEOUT", "5s")
	t.Setenv("PLOTCRAFT_STRICT", "true")
	t.Setenv("PLOTCRAFT_CACHE_BACKEND", "file")
	t.Setenv("PLOTCRAFT_CACHE_DIR", t.TempDir())

	cfg, err := LoadConfigWithEnvOverrides("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, "5s", cfg.WriteTimeout.String())
	assert.True(t, cfg.Strict)

	store, _, err := cfg.Cache.Open(t.Context())
	require.NoError(t, err)
	assert.NoError(t, store.Close())

	t.Setenv("PLOTCRAFT_CACHE_BACKEND", "memcached")
	_, err = LoadConfigWithEnvOverrides("")
	assert.Error(t, err)
}
