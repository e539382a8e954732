package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/besuhoff/dungeon-maze-go/internal/config"
	"github.com/besuhoff/dungeon-maze-go/internal/db"
	"github.com/besuhoff/dungeon-maze-go/internal/logger"
	"github.com/besuhoff/dungeon-maze-go/internal/maze"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Level.LevelsDir = t.TempDir()
	return cfg
}

func TestHandleGetPlan(t *testing.T) {
	cfg := testConfig(t)
	h := NewLevelHandler(cfg, logger.Discard())

	rec := httptest.NewRecorder()
	h.HandleGetPlan(rec, httptest.NewRequest(http.MethodGet, "/api/v1/levels/4/plan?rows=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PlanResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 4, resp.Level)
	assert.Equal(t, maze.ComplexityNormal, resp.Complexity)
	assert.Len(t, resp.Rows, resp.GridSize)

	m, err := maze.NewGenerator(cfg, logger.Discard()).Generate(resp.Seed, resp.GridSize, resp.Complexity)
	require.NoError(t, err)
	assert.Equal(t, m.Fingerprint().String(), resp.Fingerprint)
	assert.Equal(t, len(m.Walls), resp.Segments)
}

func TestHandleGetPlanAppliesOverrides(t *testing.T) {
	cfg := testConfig(t)
	override := "seed: 77\nmaze:\n  grid_size: 9\n"
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Level.LevelsDir, "2.yaml"), []byte(override), 0o644))
	h := NewLevelHandler(cfg, logger.Discard())

	rec := httptest.NewRecorder()
	h.HandleGetPlan(rec, httptest.NewRequest(http.MethodGet, "/api/v1/levels/2/plan", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PlanResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(77), resp.Seed)
	assert.Equal(t, 9, resp.GridSize)
	assert.Empty(t, resp.Rows)
}

func TestHandleGetPlanErrors(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Level.LevelsDir, "3.yaml"), []byte("maze:\n  walls: 3\n"), 0o644))
	h := NewLevelHandler(cfg, logger.Discard())

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{name: "not a number", method: http.MethodGet, path: "/api/v1/levels/abc/plan", want: http.StatusBadRequest},
		{name: "level zero", method: http.MethodGet, path: "/api/v1/levels/0/plan", want: http.StatusBadRequest},
		{name: "bad override", method: http.MethodGet, path: "/api/v1/levels/3/plan", want: http.StatusInternalServerError},
		{name: "wrong method", method: http.MethodPost, path: "/api/v1/levels/1/plan", want: http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.HandleGetPlan(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

type fakeRuns struct {
	runs     []db.Run
	err      error
	gotLevel int
	gotLimit int64
}

func (f *fakeRuns) FindByLevel(_ context.Context, level int, limit int64) ([]db.Run, error) {
	f.gotLevel, f.gotLimit = level, limit
	return f.runs, f.err
}

func TestHandleListRuns(t *testing.T) {
	runs := &fakeRuns{runs: []db.Run{{Level: 5, Ticks: 900, Status: "completed"}}}
	h := NewRunHandler(runs, logger.Discard())

	rec := httptest.NewRecorder()
	h.HandleListRuns(rec, httptest.NewRequest(http.MethodGet, "/api/v1/runs?level=5&limit=500", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, runs.gotLevel)
	assert.Equal(t, int64(100), runs.gotLimit)

	var got []db.Run
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, int64(900), got[0].Ticks)
}

func TestHandleListRunsErrors(t *testing.T) {
	tests := []struct {
		name string
		runs RunLister
		path string
		want int
	}{
		{name: "archive disabled", runs: nil, path: "/api/v1/runs?level=1", want: http.StatusServiceUnavailable},
		{name: "missing level", runs: &fakeRuns{}, path: "/api/v1/runs", want: http.StatusBadRequest},
		{name: "database error", runs: &fakeRuns{err: errors.New("boom")}, path: "/api/v1/runs?level=1", want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRunHandler(tt.runs, logger.Discard())
			rec := httptest.NewRecorder()
			h.HandleListRuns(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
