// Package gates maps discrete gate symbols to Bloch-vector transformations.
//
// Single-qubit gates act on the Bloch vector as fixed 3x3 linear maps (unitary
// conjugation is a rotation of the Bloch sphere). Two-qubit gates cannot be
// represented on a single tracked qubit; CNOT is approximated by attenuating
// the tracked vector, a documented simplification for display purposes.
package gates

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ID is a symbolic gate identifier from the fixed supported set.
type ID string

const (
	H    ID = "H"
	X    ID = "X"
	Y    ID = "Y"
	Z    ID = "Z"
	S    ID = "S"
	T    ID = "T"
	CNOT ID = "CNOT"
	Rx   ID = "Rx"
	Ry   ID = "Ry"
	Rz   ID = "Rz"
	M    ID = "M"
)

// Gate is a discrete gate with an optional rotation angle (radians). The angle
// is only meaningful for Rx, Ry and Rz.
type Gate struct {
	ID    ID      `json:"id"`
	Angle float64 `json:"angle,omitempty"`
}

// CircuitGate places a gate on a qubit within a circuit. Target is only set
// for two-qubit gates and is -1 otherwise. Sequence order is execution order.
type CircuitGate struct {
	Gate
	Qubit  int `json:"qubit"`
	Target int `json:"target,omitempty"`
}

// Known reports whether id is a supported gate symbol.
func Known(id ID) bool {
	switch id {
	case H, X, Y, Z, S, T, CNOT, Rx, Ry, Rz, M:
		return true
	}
	return false
}

// IsRotation reports whether the gate takes an angle parameter.
func IsRotation(id ID) bool {
	return id == Rx || id == Ry || id == Rz
}

// IsTwoQubit reports whether the gate involves a second qubit.
func IsTwoQubit(id ID) bool {
	return id == CNOT
}

// matrixFor builds the 3x3 Bloch-sphere map for a single-qubit unitary.
// Pauli gates are pi rotations about their axis, H is a pi rotation about the
// (x+z)/sqrt2 axis (swaps x and z, negates y), and S/T are in-plane z
// rotations by 90 and 45 degrees.
func matrixFor(g Gate) (*mat.Dense, error) {
	switch g.ID {
	case H:
		return mat.NewDense(3, 3, []float64{
			0, 0, 1,
			0, -1, 0,
			1, 0, 0,
		}), nil
	case X:
		return mat.NewDense(3, 3, []float64{
			1, 0, 0,
			0, -1, 0,
			0, 0, -1,
		}), nil
	case Y:
		return mat.NewDense(3, 3, []float64{
			-1, 0, 0,
			0, 1, 0,
			0, 0, -1,
		}), nil
	case Z:
		return mat.NewDense(3, 3, []float64{
			-1, 0, 0,
			0, -1, 0,
			0, 0, 1,
		}), nil
	case S:
		return rotationZ(math.Pi / 2), nil
	case T:
		return rotationZ(math.Pi / 4), nil
	case Rx:
		return rotationX(g.Angle), nil
	case Ry:
		return rotationY(g.Angle), nil
	case Rz:
		return rotationZ(g.Angle), nil
	}
	return nil, fmt.Errorf("gate %q has no linear map", g.ID)
}

func rotationX(theta float64) *mat.Dense {
	c, s := math.Cos(theta), math.Sin(theta)
	return mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	})
}

func rotationY(theta float64) *mat.Dense {
	c, s := math.Cos(theta), math.Sin(theta)
	return mat.NewDense(3, 3, []float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	})
}

func rotationZ(theta float64) *mat.Dense {
	c, s := math.Cos(theta), math.Sin(theta)
	return mat.NewDense(3, 3, []float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})
}
