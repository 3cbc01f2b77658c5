package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qubitlab/qubitlab/internal/modules/gates"
)

func TestParseJSONValidCircuit(t *testing.T) {
	src := `[
		{"gate": "H", "qubit": 0},
		{"gate": "CNOT", "qubit": 0, "target": 1},
		{"gate": "Rz", "qubit": 1, "angle": 1.5707963},
		{"gate": "M", "qubit": 1}
	]`
	c, err := ParseJSON([]byte(src))
	require.NoError(t, err)
	require.Len(t, c.Gates, 4)
	assert.Equal(t, 2, c.QubitCount)

	assert.Equal(t, gates.H, c.Gates[0].ID)
	assert.Equal(t, -1, c.Gates[0].Target)
	assert.Equal(t, gates.CNOT, c.Gates[1].ID)
	assert.Equal(t, 1, c.Gates[1].Target)
	assert.InDelta(t, 1.5707963, c.Gates[2].Angle, 1e-9)
}

func TestParseJSONRejectsUnknownGate(t *testing.T) {
	_, err := ParseJSON([]byte(`[{"gate": "FOO", "qubit": 0}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown gate symbol")
}

func TestParseJSONRejectsMalformedInput(t *testing.T) {
	cases := []string{
		`not json`,
		`[{"gate": "X", "qubit": -1}]`,
		`[{"gate": "CNOT", "qubit": 0}]`,
		`[{"gate": "CNOT", "qubit": 1, "target": 1}]`,
	}
	for _, src := range cases {
		_, err := ParseJSON([]byte(src))
		assert.Error(t, err, "input %q should be rejected", src)
	}
}

func TestParseJSONEmptyCircuit(t *testing.T) {
	c, err := ParseJSON([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, c.Gates)
	assert.Equal(t, 1, c.QubitCount)
}

func TestParseQASMBellCircuit(t *testing.T) {
	src := `OPENQASM 2.0;
include "qelib1.inc";
qreg q[2];
creg c[2];

h q[0];
cx q[0],q[1];
measure q[0] -> c[0];
measure q[1] -> c[1];
`
	c := ParseQASM(src)
	require.Len(t, c.Gates, 4)
	assert.Equal(t, 2, c.QubitCount)
	assert.Equal(t, gates.H, c.Gates[0].ID)
	assert.Equal(t, gates.CNOT, c.Gates[1].ID)
	assert.Equal(t, 0, c.Gates[1].Qubit)
	assert.Equal(t, 1, c.Gates[1].Target)
	assert.Equal(t, gates.M, c.Gates[2].ID)
}

func TestParseQASMDropsUnrecognizedLines(t *testing.T) {
	src := `OPENQASM 2.0;
qreg q[1];
h q[0];
rz(0.5) q[0];
barrier q;
x q[0];
`
	c := ParseQASM(src)
	// rz(...) and barrier are outside the subset; they vanish, the rest parses.
	require.Len(t, c.Gates, 2)
	assert.Equal(t, gates.H, c.Gates[0].ID)
	assert.Equal(t, gates.X, c.Gates[1].ID)
}

func TestParseQASMCommentsAndCase(t *testing.T) {
	src := "// a comment\nH q[0];\n\nX q[2];"
	c := ParseQASM(src)
	require.Len(t, c.Gates, 2)
	assert.Equal(t, 3, c.QubitCount, "qubit count is max index + 1")
}

func TestParseQASMEmptyInput(t *testing.T) {
	c := ParseQASM("")
	assert.Empty(t, c.Gates)
	assert.Equal(t, 1, c.QubitCount)
}

func TestParseQASMSelfTargetedCXDropped(t *testing.T) {
	c := ParseQASM("cx q[0],q[0];")
	assert.Empty(t, c.Gates)
}
