package circuit

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/qubitlab/qubitlab/internal/modules/gates"
)

// Line-oriented OpenQASM-2.0 subset. Supported instructions:
//
//	h q[0];  x q[1];  y/z/s/t ...
//	cx q[0],q[1];
//	measure q[0] -> c[0];
//
// Headers, register declarations, comments and blank lines are skipped.
// Unrecognized lines are dropped silently rather than rejected, so partially
// typed or exotic circuits still produce a usable gate sequence.

var (
	singleQubitRe = regexp.MustCompile(`^(h|x|y|z|s|t)\s+q\[(\d+)\]\s*;?$`)
	cxRe          = regexp.MustCompile(`^cx\s+q\[(\d+)\]\s*,\s*q\[(\d+)\]\s*;?$`)
	measureRe     = regexp.MustCompile(`^measure\s+q\[(\d+)\]\s*(->\s*c\[\d+\]\s*)?;?$`)
)

var qasmGateIDs = map[string]gates.ID{
	"h": gates.H,
	"x": gates.X,
	"y": gates.Y,
	"z": gates.Z,
	"s": gates.S,
	"t": gates.T,
}

// ParseQASM parses the OpenQASM subset. It never fails on unrecognized
// content; the worst case is an empty single-qubit circuit.
func ParseQASM(source string) Circuit {
	var parsed []gates.CircuitGate

	for _, line := range strings.Split(source, "\n") {
		line = strings.ToLower(strings.TrimSpace(line))
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "openqasm") ||
			strings.HasPrefix(line, "include") ||
			strings.HasPrefix(line, "qreg") ||
			strings.HasPrefix(line, "creg") {
			continue
		}

		if m := singleQubitRe.FindStringSubmatch(line); m != nil {
			parsed = append(parsed, gates.CircuitGate{
				Gate:   gates.Gate{ID: qasmGateIDs[m[1]]},
				Qubit:  mustAtoi(m[2]),
				Target: -1,
			})
			continue
		}
		if m := cxRe.FindStringSubmatch(line); m != nil {
			control, target := mustAtoi(m[1]), mustAtoi(m[2])
			if control == target {
				continue
			}
			parsed = append(parsed, gates.CircuitGate{
				Gate:   gates.Gate{ID: gates.CNOT},
				Qubit:  control,
				Target: target,
			})
			continue
		}
		if m := measureRe.FindStringSubmatch(line); m != nil {
			parsed = append(parsed, gates.CircuitGate{
				Gate:   gates.Gate{ID: gates.M},
				Qubit:  mustAtoi(m[1]),
				Target: -1,
			})
			continue
		}
		// Anything else is dropped by design.
	}

	return Circuit{Gates: parsed, QubitCount: countQubits(parsed)}
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s) // regex guarantees digits
	return n
}
