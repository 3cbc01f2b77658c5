// Package handlers provides the REST surface for evolution sessions: create,
// inspect, start/pause, reset, scrub, parameter updates and a live websocket
// frame stream.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/qubitlab/qubitlab/internal/domain"
	"github.com/qubitlab/qubitlab/internal/events"
	"github.com/qubitlab/qubitlab/internal/modules/evolution"
	"github.com/qubitlab/qubitlab/internal/modules/noise"
)

// Handler handles evolution session HTTP requests
type Handler struct {
	manager *evolution.Manager
	bus     *events.Bus
	log     zerolog.Logger
}

// NewHandler creates a new evolution handler
func NewHandler(manager *evolution.Manager, bus *events.Bus, log zerolog.Logger) *Handler {
	return &Handler{
		manager: manager,
		bus:     bus,
		log:     log.With().Str("handler", "evolution").Logger(),
	}
}

// CreateSessionRequest seeds a new session. Preset names the initial state;
// an explicit vector takes precedence when given.
type CreateSessionRequest struct {
	Preset string              `json:"preset,omitempty"`
	Vector *domain.BlochVector `json:"vector,omitempty"`
	Params *noise.Params       `json:"params,omitempty"`
}

// ScrubRequest selects a history index to display.
type ScrubRequest struct {
	Index int `json:"index"`
}

// ResetRequest carries the state to reset to; empty means the |+⟩ preset.
type ResetRequest struct {
	Preset string              `json:"preset,omitempty"`
	Vector *domain.BlochVector `json:"vector,omitempty"`
}

func presetVector(name string) (domain.BlochVector, bool) {
	switch name {
	case "", "plus":
		return domain.StatePlus(), true
	case "up":
		return domain.StateUp(), true
	case "down":
		return domain.StateDown(), true
	case "mixed":
		return domain.StateMixed(), true
	}
	return domain.BlochVector{}, false
}

// HandleCreateSession handles POST /api/evolution/sessions
func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	// An empty body creates a default |+⟩ session.
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	seed, ok := presetVector(req.Preset)
	if !ok {
		http.Error(w, "Unknown preset", http.StatusBadRequest)
		return
	}
	if req.Vector != nil {
		seed = *req.Vector
	}
	params := noise.DefaultParams()
	if req.Params != nil {
		params = *req.Params
	}

	session, err := h.manager.Create(seed, params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if h.bus != nil {
		h.bus.Publish(events.SessionCreated, "evolution", map[string]any{"session": session.ID()})
	}
	h.writeJSON(w, http.StatusCreated, session.Snapshot())
}

// HandleGetSession handles GET /api/evolution/sessions/{id}
func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, session.Snapshot())
}

// HandleStart handles POST /api/evolution/sessions/{id}/start
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	session.Start()
	h.writeJSON(w, http.StatusOK, session.Snapshot())
}

// HandlePause handles POST /api/evolution/sessions/{id}/pause
func (h *Handler) HandlePause(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	session.Pause()
	h.writeJSON(w, http.StatusOK, session.Snapshot())
}

// HandleReset handles POST /api/evolution/sessions/{id}/reset
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	// An empty body resets to the default preset.
	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	seed, valid := presetVector(req.Preset)
	if !valid {
		http.Error(w, "Unknown preset", http.StatusBadRequest)
		return
	}
	if req.Vector != nil {
		seed = *req.Vector
	}

	if err := session.ResetTo(seed); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if h.bus != nil {
		h.bus.Publish(events.SessionReset, "evolution", map[string]any{"session": session.ID()})
	}
	h.writeJSON(w, http.StatusOK, session.Snapshot())
}

// HandleScrub handles POST /api/evolution/sessions/{id}/scrub
func (h *Handler) HandleScrub(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req ScrubRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	h.writeJSON(w, http.StatusOK, session.ScrubToIndex(req.Index))
}

// HandleSetParams handles POST /api/evolution/sessions/{id}/params
func (h *Handler) HandleSetParams(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var params noise.Params
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := session.SetParams(params); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.writeJSON(w, http.StatusOK, session.Snapshot())
}

// HandleHistory handles GET /api/evolution/sessions/{id}/history
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	from := queryInt(r, "from", 0)
	limit := queryInt(r, "limit", 0)
	vectors := session.HistorySlice(from, limit)
	h.writeJSON(w, http.StatusOK, map[string]any{
		"from":    from,
		"count":   len(vectors),
		"vectors": vectors,
	})
}

// HandleDelete handles DELETE /api/evolution/sessions/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.manager.Delete(id)
	if h.bus != nil {
		h.bus.Publish(events.SessionDeleted, "evolution", map[string]any{"session": id})
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*evolution.Session, bool) {
	id := chi.URLParam(r, "id")
	session, ok := h.manager.Get(id)
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return session, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
