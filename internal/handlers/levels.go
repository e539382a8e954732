package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/besuhoff/dungeon-maze-go/internal/config"
	"github.com/besuhoff/dungeon-maze-go/internal/level"
	"github.com/besuhoff/dungeon-maze-go/internal/maze"
)

// LevelHandler serves level plans
type LevelHandler struct {
	cfg *config.Config
	log logrus.FieldLogger
}

// NewLevelHandler creates a new level handler
func NewLevelHandler(cfg *config.Config, log logrus.FieldLogger) *LevelHandler {
	return &LevelHandler{cfg: cfg, log: log}
}

// PlanResponse is a level plan with a summary of the maze it generates.
type PlanResponse struct {
	level.Plan
	Fingerprint string    `json:"fingerprint"`
	Segments    int       `json:"segments"`
	CellSize    float64   `json:"cellSize"`
	Start       maze.Cell `json:"start"`
	Exit        maze.Cell `json:"exit"`
	Rows        []string  `json:"rows,omitempty"`
}

// HandleGetPlan handles GET /api/v1/levels/{n}/plan. Add ?rows=true for an
// ASCII rendering of the grid.
func (h *LevelHandler) HandleGetPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Extract level from URL
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/levels/")
	path = strings.TrimSuffix(path, "/plan")
	lvl, err := strconv.Atoi(strings.TrimSpace(path))
	if err != nil {
		http.Error(w, "Invalid level", http.StatusBadRequest)
		return
	}

	overrides, err := level.LoadOverrides(h.cfg.Level.LevelsDir, lvl)
	if err != nil {
		h.log.WithError(err).WithField("level", lvl).Warn("Bad level override file")
		http.Error(w, "Invalid level override", http.StatusInternalServerError)
		return
	}

	plan, err := level.NewRules(h.cfg).SpawnPlan(lvl, overrides)
	if errors.Is(err, level.ErrInvalidLevel) {
		http.Error(w, "Invalid level", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "Failed to plan level", http.StatusInternalServerError)
		return
	}

	m, err := maze.NewGenerator(h.cfg, h.log).Generate(plan.Seed, plan.GridSize, plan.Complexity)
	if err != nil {
		h.log.WithError(err).WithField("level", lvl).Error("Failed to generate maze")
		http.Error(w, "Failed to generate maze", http.StatusInternalServerError)
		return
	}

	resp := PlanResponse{
		Plan:        plan,
		Fingerprint: m.Fingerprint().String(),
		Segments:    len(m.Walls),
		CellSize:    m.CellSize,
		Start:       m.Start,
		Exit:        m.Exit,
	}
	if r.URL.Query().Get("rows") == "true" {
		resp.Rows = m.Rows()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
