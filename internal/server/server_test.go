package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/costcast/internal/forecast"
	"github.com/theirongolddev/costcast/internal/logging"
	"github.com/theirongolddev/costcast/internal/store"
)

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	if cfg.Horizon == 0 {
		cfg.Horizon = 5
	}
	ts := httptest.NewServer(New(cfg, logging.Discard()).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTotal(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, out := post(t, ts, "/v1/total", `{"labor":5000,"material":3000,"equipment":2000,"misc":1000}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 11000.0, out["total"])
	shares := out["shares"].([]any)
	require.Len(t, shares, 4)
	assert.Equal(t, "Labor", shares[0].(map[string]any)["name"])

	resp, out = post(t, ts, "/v1/total", `{"labor":-1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, out["error"], "invalid cost input")

	resp, _ = post(t, ts, "/v1/total", `{`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestForecast(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, out := post(t, ts, "/v1/forecast", `{"series":[{"year":2020,"cost":10000},{"year":2021,"cost":12000}],"horizon":2}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", out["status"])
	points := out["points"].([]any)
	require.Len(t, points, 2)
	assert.Equal(t, 14000.0, points[0].(map[string]any)["predicted_cost"])

	resp, out = post(t, ts, "/v1/forecast", `{"series":[{"year":2020,"cost":10000}]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "insufficient_data", out["status"])
	assert.Nil(t, out["points"])

	resp, _ = post(t, ts, "/v1/forecast", `{"series":[],"horizon":-1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestForecast_ConfiguredSource(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp, out := post(t, ts, "/v1/forecast", `{}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	points := out["points"].([]any)
	require.Len(t, points, 5)
	assert.Equal(t, 2025.0, points[0].(map[string]any)["year"])
}

func TestReport(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "costcast.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ts := newTestServer(t, Config{Store: st})

	resp, out := post(t, ts, "/v1/report", `{"project_name":"Bridge","duration_months":6,"labor":5000,"material":3000,"equipment":2000,"misc":1000}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	lines := out["lines"].([]any)
	assert.Equal(t, "Project Cost Estimation Report", lines[0])
	assert.Equal(t, "Total Project Cost: INR 11000", lines[7])

	saved, err := st.ListEstimates(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, out["id"], saved[0].ID)

	resp, out = post(t, ts, "/v1/report", `{"duration_months":6}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "total cost cannot be zero", out["error"])

	resp, _ = post(t, ts, "/v1/report", `{"duration_months":0,"labor":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type brokenSource struct{}

func (brokenSource) Load(context.Context) (forecast.Series, error) {
	return nil, errors.New("connection refused")
}

func (brokenSource) Describe() string { return "broken" }

func TestReport_ZeroTotalCheckedBeforeHistory(t *testing.T) {
	ts := newTestServer(t, Config{Source: brokenSource{}})

	resp, out := post(t, ts, "/v1/report", `{"duration_months":6,"include_forecast":true}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "total cost cannot be zero", out["error"])

	resp, _ = post(t, ts, "/v1/report", `{"duration_months":6,"labor":1,"include_forecast":true}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestReport_WithForecast(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, out := post(t, ts, "/v1/report", `{"duration_months":6,"labor":1,"include_forecast":true}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	lines := out["lines"].([]any)
	assert.Contains(t, lines, "Cost Forecast")
	assert.Contains(t, lines, "2025: INR 20000")
}

func TestSummaryAndStatus(t *testing.T) {
	ts := newTestServer(t, Config{})

	resp, err := http.Get(ts.URL + "/v1/summary?labor=5000&material=3000&equipment=2000&misc=1000")
	require.NoError(t, err)
	var sum map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sum))
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 11000.0, sum["total"])
	assert.Equal(t, "built-in sample", sum["source"])

	resp, err = http.Get(ts.URL + "/v1/summary?labor=abc")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/v1/status")
	require.NoError(t, err)
	var st Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	_ = resp.Body.Close()
	assert.Equal(t, int64(2), st.Requests)
	assert.Equal(t, int64(1), st.Errors)
	assert.Equal(t, "INR", st.Currency)
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2}, logging.Discard())

	s.publishEvent(Event{Type: "total"})
	s.publishEvent(Event{Type: "total"})
	s.publishEvent(Event{Type: "report"})

	s.mu.RLock()
	defer s.mu.RUnlock()

	require.Len(t, s.events, 2)
	assert.Equal(t, int64(2), s.events[0].ID)
	assert.Equal(t, int64(3), s.events[1].ID)
	assert.Equal(t, "report", s.events[1].Type)
}
