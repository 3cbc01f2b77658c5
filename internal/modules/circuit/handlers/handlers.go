// Package handlers provides HTTP handlers for circuit parsing and
// single-qubit step-through execution.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/qubitlab/qubitlab/internal/domain"
	"github.com/qubitlab/qubitlab/internal/modules/circuit"
	"github.com/qubitlab/qubitlab/internal/modules/gates"
)

// Handler handles circuit HTTP requests
type Handler struct {
	log zerolog.Logger
}

// NewHandler creates a new circuit handler
func NewHandler(log zerolog.Logger) *Handler {
	return &Handler{log: log.With().Str("handler", "circuit").Logger()}
}

// ParseRequest carries a circuit source in one of the two dialects.
type ParseRequest struct {
	Format string `json:"format"` // "json" or "qasm"
	Source string `json:"source"`
}

// RunRequest executes a parsed circuit against one tracked qubit.
type RunRequest struct {
	ParseRequest
	Qubit     int     `json:"qubit"`
	GateNoise float64 `json:"gateNoise"`
}

// TrajectoryStep is the tracked qubit's state after one executed gate.
type TrajectoryStep struct {
	Gate   gates.CircuitGate  `json:"gate"`
	Vector domain.BlochVector `json:"vector"`
}

// HandleParse handles POST /api/circuit/parse
func (h *Handler) HandleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	parsed, err := h.parse(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.writeJSON(w, http.StatusOK, parsed)
}

// HandleRun handles POST /api/circuit/run. The tracked qubit starts at |0⟩
// and every gate touching it is applied in sequence; gates on other qubits
// only matter when the tracked qubit is a CNOT partner.
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Qubit < 0 {
		http.Error(w, "qubit must be non-negative", http.StatusBadRequest)
		return
	}
	if req.GateNoise < 0 || req.GateNoise > 1 {
		http.Error(w, "gateNoise must be in [0,1]", http.StatusBadRequest)
		return
	}

	parsed, err := h.parse(req.ParseRequest)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	applier := gates.NewApplier(gates.Options{GateNoise: req.GateNoise})
	vector := domain.StateUp()
	trajectory := []TrajectoryStep{}
	for _, g := range parsed.Gates {
		if g.Qubit != req.Qubit && g.Target != req.Qubit {
			continue
		}
		vector, err = applier.Apply(vector, g.Gate)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		trajectory = append(trajectory, TrajectoryStep{Gate: g, Vector: vector})
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"qubitCount": parsed.QubitCount,
		"qubit":      req.Qubit,
		"final":      vector,
		"trajectory": trajectory,
	})
}

func (h *Handler) parse(req ParseRequest) (circuit.Circuit, error) {
	switch req.Format {
	case "", "json":
		return circuit.ParseJSON([]byte(req.Source))
	case "qasm":
		return circuit.ParseQASM(req.Source), nil
	}
	return circuit.Circuit{}, &unknownFormatError{req.Format}
}

type unknownFormatError struct{ format string }

func (e *unknownFormatError) Error() string {
	return "unknown circuit format " + e.format + " (expected json or qasm)"
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
