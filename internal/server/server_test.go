package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/hotspot-cli/internal/config"
	"github.com/sells-group/hotspot-cli/internal/model"
	"github.com/sells-group/hotspot-cli/internal/store"
)

func newTestServer(t *testing.T, incidents []model.Incident) *Server {
	t.Helper()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	if len(incidents) > 0 {
		_, err = st.ImportIncidents(context.Background(), incidents)
		require.NoError(t, err)
	}

	return New(st, config.ServerConfig{RatePerSecond: 1000, RateBurst: 1000}, config.ClusterConfig{
		Eps:    0.05,
		MinPts: 5,
		Seed:   42,
	})
}

func denseIncidents() []model.Incident {
	var out []model.Incident
	for i := 0; i < 10; i++ {
		out = append(out, model.Incident{
			Category: "ASSAULT", PdDistrict: "MISSION",
			X: -122.42 + float64(i)*0.0001, Y: 37.76,
		})
	}
	for i := 0; i < 10; i++ {
		out = append(out, model.Incident{
			Category: "LARCENY/THEFT", PdDistrict: "SOUTHERN",
			X: -122.40 + float64(i)*0.0001, Y: 37.79,
		})
	}
	return out
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCluster(t *testing.T) {
	s := newTestServer(t, nil)

	points := []map[string]float64{
		{"x": 0.0, "y": 0.0},
		{"x": 0.01, "y": 0.0},
		{"x": 0.0, "y": 0.01},
		{"x": 0.9, "y": 0.9},
	}
	rec := doJSON(t, s, http.MethodPost, "/api/cluster", map[string]any{
		"points": points, "eps": 0.5, "min_pts": 3,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Labels  []int `json:"labels"`
		Summary struct {
			ClusterCount int `json:"cluster_count"`
			NoiseCount   int `json:"noise_count"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []int{0, 0, 0, -1}, resp.Labels)
	assert.Equal(t, 1, resp.Summary.ClusterCount)
	assert.Equal(t, 1, resp.Summary.NoiseCount)
}

func TestCluster_BadParams(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodPost, "/api/cluster", map[string]any{
		"points": []map[string]float64{{"x": 0, "y": 0}},
		"eps":    -1, "min_pts": 3,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid parameter")
}

func TestCluster_InvalidBody(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/cluster", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHotspots(t *testing.T) {
	s := newTestServer(t, denseIncidents())

	rec := doJSON(t, s, http.MethodPost, "/api/hotspots", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		RunID  string          `json:"run_id"`
		Result model.RunResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, 20, resp.Result.TotalPoints)
	assert.Equal(t, 2, resp.Result.ClusterCount)

	// The run is persisted and visible through the runs endpoints.
	runRec := doJSON(t, s, http.MethodGet, "/api/runs/"+resp.RunID, nil)
	require.Equal(t, http.StatusOK, runRec.Code)

	var run model.Run
	require.NoError(t, json.Unmarshal(runRec.Body.Bytes(), &run))
	assert.Equal(t, model.RunStatusComplete, run.Status)
	require.NotNil(t, run.Result)
	assert.Equal(t, 2, run.Result.ClusterCount)
}

func TestHotspots_CachedSecondCall(t *testing.T) {
	s := newTestServer(t, denseIncidents())

	first := doJSON(t, s, http.MethodPost, "/api/hotspots", nil)
	require.Equal(t, http.StatusOK, first.Code)

	second := doJSON(t, s, http.MethodPost, "/api/hotspots", nil)
	require.Equal(t, http.StatusOK, second.Code)

	var resp struct {
		Cached bool `json:"cached"`
	}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.True(t, resp.Cached)
}

func TestHotspots_NoMatchingIncidents(t *testing.T) {
	s := newTestServer(t, denseIncidents())

	rec := doJSON(t, s, http.MethodPost, "/api/hotspots", model.Params{District: "TARAVAL"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHotspots_BadParams(t *testing.T) {
	s := newTestServer(t, denseIncidents())

	rec := doJSON(t, s, http.MethodPost, "/api/hotspots", model.Params{Eps: -0.5, MinPts: 5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The failed run is recorded.
	runsRec := doJSON(t, s, http.MethodGet, "/api/runs?status=failed", nil)
	require.Equal(t, http.StatusOK, runsRec.Code)
	var runs []model.Run
	require.NoError(t, json.Unmarshal(runsRec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusFailed, runs[0].Status)
}

func TestListRuns_Empty(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodGet, "/api/runs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGetRun_NotFound(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doJSON(t, s, http.MethodGet, "/api/runs/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	s := New(st, config.ServerConfig{RatePerSecond: 1, RateBurst: 1}, config.ClusterConfig{Eps: 0.5, MinPts: 3})

	body := map[string]any{"points": []map[string]float64{{"x": 0, "y": 0}}}
	first := doJSON(t, s, http.MethodPost, "/api/cluster", body)
	assert.Equal(t, http.StatusOK, first.Code)

	second := doJSON(t, s, http.MethodPost, "/api/cluster", body)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// Unlimited endpoints are unaffected.
	health := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, health.Code)
}
