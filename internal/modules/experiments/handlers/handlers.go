// Package handlers provides HTTP handlers for the discrete experiment
// simulators. Each request builds a fresh sampler, so concurrent requests
// never share a random source.
package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/qubitlab/qubitlab/internal/events"
	"github.com/qubitlab/qubitlab/internal/modules/experiments"
)

// Handler handles experiment HTTP requests
type Handler struct {
	repo *experiments.Repository // nil when history is disabled
	bus  *events.Bus
	log  zerolog.Logger
}

// NewHandler creates a new experiments handler. repo may be nil to disable
// run history.
func NewHandler(repo *experiments.Repository, bus *events.Bus, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		bus:  bus,
		log:  log.With().Str("handler", "experiments").Logger(),
	}
}

// ShotsRequest carries the shot count for the correlation samplers.
type ShotsRequest struct {
	Shots int `json:"shots"`
}

// BB84Request configures one BB84 protocol run.
type BB84Request struct {
	Rounds  int  `json:"rounds"`
	WithEve bool `json:"withEve"`
}

// SternGerlachRequest carries the apparatus angle.
type SternGerlachRequest struct {
	AngleDegrees *float64 `json:"angleDegrees"`
}

// HandleBell handles POST /api/experiments/bell
func (h *Handler) HandleBell(w http.ResponseWriter, r *http.Request) {
	var req ShotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Shots < 1 || req.Shots > experiments.MaxShots {
		http.Error(w, fmt.Sprintf("shots must be between 1 and %d", experiments.MaxShots), http.StatusBadRequest)
		return
	}

	counts := experiments.NewSampler().Bell(req.Shots)
	h.record("bell", fmt.Sprintf(`{"shots":%d}`, req.Shots), counts)
	h.writeJSON(w, http.StatusOK, counts)
}

// HandleGHZ handles POST /api/experiments/ghz
func (h *Handler) HandleGHZ(w http.ResponseWriter, r *http.Request) {
	var req ShotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Shots < 1 || req.Shots > experiments.MaxShots {
		http.Error(w, fmt.Sprintf("shots must be between 1 and %d", experiments.MaxShots), http.StatusBadRequest)
		return
	}

	counts := experiments.NewSampler().GHZ(req.Shots)
	h.record("ghz", fmt.Sprintf(`{"shots":%d}`, req.Shots), counts)
	h.writeJSON(w, http.StatusOK, counts)
}

// HandleBB84 handles POST /api/experiments/bb84
func (h *Handler) HandleBB84(w http.ResponseWriter, r *http.Request) {
	var req BB84Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Rounds < 1 || req.Rounds > experiments.MaxRounds {
		http.Error(w, fmt.Sprintf("rounds must be between 1 and %d", experiments.MaxRounds), http.StatusBadRequest)
		return
	}

	result := experiments.NewSampler().BB84(req.Rounds, req.WithEve)
	h.record("bb84", fmt.Sprintf(`{"rounds":%d,"withEve":%t}`, req.Rounds, req.WithEve), result)
	h.writeJSON(w, http.StatusOK, result)
}

// HandleSternGerlach handles POST /api/experiments/stern-gerlach
func (h *Handler) HandleSternGerlach(w http.ResponseWriter, r *http.Request) {
	var req SternGerlachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.AngleDegrees == nil || math.IsNaN(*req.AngleDegrees) || math.IsInf(*req.AngleDegrees, 0) {
		http.Error(w, "angleDegrees must be a finite number", http.StatusBadRequest)
		return
	}

	result := experiments.NewSampler().SternGerlach(*req.AngleDegrees)
	h.record("stern-gerlach", fmt.Sprintf(`{"angleDegrees":%g}`, *req.AngleDegrees), result)
	h.writeJSON(w, http.StatusOK, result)
}

// HandleHistory handles GET /api/experiments/history
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if h.repo == nil {
		http.Error(w, "Run history is disabled", http.StatusNotFound)
		return
	}

	kind := r.URL.Query().Get("kind")
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if _, err := fmt.Sscanf(raw, "%d", &limit); err != nil {
			http.Error(w, "limit must be an integer", http.StatusBadRequest)
			return
		}
	}

	runs, err := h.repo.Recent(kind, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load run history")
		http.Error(w, "Failed to load run history", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// record persists a run (when history is on) and publishes a completion
// event. Failures are logged, never surfaced: the simulation result already
// exists and belongs to the caller.
func (h *Handler) record(kind, params string, result any) {
	if h.repo != nil {
		if _, err := h.repo.Record(kind, params, result); err != nil {
			h.log.Warn().Err(err).Str("kind", kind).Msg("Failed to record run")
		}
	}
	if h.bus != nil {
		h.bus.Publish(events.ExperimentCompleted, "experiments", map[string]any{"kind": kind})
	}
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
