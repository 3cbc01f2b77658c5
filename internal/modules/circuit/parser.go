// Package circuit turns textual circuit descriptions into ordered gate
// sequences. Two dialects are supported: a structured JSON gate list, which is
// validated and surfaces errors to the caller, and an OpenQASM-2.0 subset,
// which is parsed leniently because it is fed from exploratory hand-typed
// input.
package circuit

import (
	"encoding/json"
	"fmt"

	"github.com/qubitlab/qubitlab/internal/modules/gates"
)

// Circuit is an ordered gate sequence over an inferred number of qubits.
type Circuit struct {
	Gates      []gates.CircuitGate `json:"gates"`
	QubitCount int                 `json:"qubitCount"`
}

// jsonGate is the wire form of one entry in the structured dialect.
type jsonGate struct {
	Gate   string   `json:"gate"`
	Qubit  int      `json:"qubit"`
	Target *int     `json:"target,omitempty"`
	Angle  *float64 `json:"angle,omitempty"`
}

// ParseJSON parses the structured gate-list dialect. Unlike the QASM path,
// malformed input here is a visible error: an unknown gate symbol or a
// negative qubit index rejects the whole circuit.
func ParseJSON(data []byte) (Circuit, error) {
	var raw []jsonGate
	if err := json.Unmarshal(data, &raw); err != nil {
		return Circuit{}, fmt.Errorf("malformed circuit JSON: %w", err)
	}

	parsed := make([]gates.CircuitGate, 0, len(raw))
	for i, g := range raw {
		id := gates.ID(g.Gate)
		if !gates.Known(id) {
			return Circuit{}, fmt.Errorf("gate %d: unknown gate symbol %q", i, g.Gate)
		}
		if g.Qubit < 0 {
			return Circuit{}, fmt.Errorf("gate %d: negative qubit index %d", i, g.Qubit)
		}
		cg := gates.CircuitGate{
			Gate:   gates.Gate{ID: id},
			Qubit:  g.Qubit,
			Target: -1,
		}
		if g.Angle != nil && gates.IsRotation(id) {
			cg.Angle = *g.Angle
		}
		if gates.IsTwoQubit(id) {
			if g.Target == nil || *g.Target < 0 {
				return Circuit{}, fmt.Errorf("gate %d: %s requires a target qubit", i, id)
			}
			if *g.Target == g.Qubit {
				return Circuit{}, fmt.Errorf("gate %d: control and target must differ", i)
			}
			cg.Target = *g.Target
		}
		parsed = append(parsed, cg)
	}

	return Circuit{Gates: parsed, QubitCount: countQubits(parsed)}, nil
}

// countQubits infers the register width as max referenced index + 1, never
// below 1 so an empty circuit still addresses one qubit.
func countQubits(gs []gates.CircuitGate) int {
	count := 1
	for _, g := range gs {
		if g.Qubit+1 > count {
			count = g.Qubit + 1
		}
		if g.Target+1 > count {
			count = g.Target + 1
		}
	}
	return count
}
