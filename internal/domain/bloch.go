package domain

// Core value types shared across the simulation modules.
// These types are pure data; all mutation goes through the noise stepper
// or the gate applier, never through handlers or UI-facing code.

import (
	"math"
)

// BlochVector represents a single-qubit state as a point in the Bloch ball.
// Length 1 is a pure state, length 0 the maximally mixed state. The invariant
// x²+y²+z² ≤ 1 must hold after every public mutation point.
type BlochVector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Common preset states used by the UI and by reset operations.

// StateUp returns |0⟩, the +z pole.
func StateUp() BlochVector { return BlochVector{Z: 1} }

// StateDown returns |1⟩, the -z pole.
func StateDown() BlochVector { return BlochVector{Z: -1} }

// StatePlus returns |+⟩, the +x equator point.
func StatePlus() BlochVector { return BlochVector{X: 1} }

// StateMixed returns the maximally mixed state at the origin.
func StateMixed() BlochVector { return BlochVector{} }

// Length returns the Euclidean norm of the vector.
func (v BlochVector) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// IsFinite reports whether all components are finite numbers.
func (v BlochVector) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

// Clamp rescales the vector onto the unit sphere if numerical drift pushed it
// outside the Bloch ball. Vectors already inside the ball are returned as-is.
func (v BlochVector) Clamp() BlochVector {
	length := v.Length()
	if length <= 1 || length == 0 {
		return v
	}
	return BlochVector{X: v.X / length, Y: v.Y / length, Z: v.Z / length}
}

// Scale returns the vector with all components multiplied by f.
func (v BlochVector) Scale(f float64) BlochVector {
	return BlochVector{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
