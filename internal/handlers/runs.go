package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/besuhoff/dungeon-maze-go/internal/db"
)

// RunLister reads archived runs.
type RunLister interface {
	FindByLevel(ctx context.Context, level int, limit int64) ([]db.Run, error)
}

// RunHandler serves the run archive
type RunHandler struct {
	runs RunLister
	log  logrus.FieldLogger
}

// NewRunHandler creates a new run handler. runs may be nil when no
// database is configured.
func NewRunHandler(runs RunLister, log logrus.FieldLogger) *RunHandler {
	return &RunHandler{runs: runs, log: log}
}

// HandleListRuns handles GET /api/v1/runs?level=N[&limit=M]
func (h *RunHandler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.runs == nil {
		http.Error(w, "Run archive disabled", http.StatusServiceUnavailable)
		return
	}

	lvl, err := strconv.Atoi(r.URL.Query().Get("level"))
	if err != nil || lvl < 1 {
		http.Error(w, "Invalid level", http.StatusBadRequest)
		return
	}

	// Parse query parameters
	limit := int64(20)
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if val, err := strconv.ParseInt(limitStr, 10, 64); err == nil && val > 0 {
			limit = min(val, 100)
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	runs, err := h.runs.FindByLevel(ctx, lvl, limit)
	if err != nil {
		h.log.WithError(err).WithField("level", lvl).Error("Failed to fetch runs")
		http.Error(w, "Failed to fetch runs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}
