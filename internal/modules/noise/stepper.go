package noise

import (
	"fmt"
	"math"

	"github.com/qubitlab/qubitlab/internal/domain"
)

const (
	// DT is the fixed simulated-time increment per step, in arbitrary units.
	DT = 0.016

	// Omega is the intrinsic precession rate about the z axis.
	Omega = 2.0

	// Channel rate multipliers. These are pedagogical tuning values picked so
	// each channel decays on a visually distinct timescale; they carry no
	// physical derivation.
	depolarizingRate = 3.0
	dampingRate      = 2.0
	dephasingRate    = 2.0
	bitFlipRate      = 1.5
)

// Step advances a Bloch vector by one DT increment under the given params.
//
// The order of effects is deliberate: coherent precession first, so the
// dissipative channels act on the rotated frame, then depolarizing, amplitude
// damping, phase damping, bit flip, and finally a clamp back into the Bloch
// ball to absorb floating-point drift. Every channel with zero strength is an
// exact no-op.
func Step(v domain.BlochVector, p Params) (domain.BlochVector, error) {
	if !v.IsFinite() {
		return domain.BlochVector{}, fmt.Errorf("non-finite input vector (%g, %g, %g)", v.X, v.Y, v.Z)
	}
	if err := p.Validate(); err != nil {
		return domain.BlochVector{}, fmt.Errorf("invalid noise params: %w", err)
	}

	// 1. Coherent precession about z.
	theta := Omega * DT * p.Speed
	cos, sin := math.Cos(theta), math.Sin(theta)
	x := v.X*cos - v.Y*sin
	y := v.X*sin + v.Y*cos
	z := v.Z

	// 2. Depolarizing: isotropic shrink toward the center.
	if p.Depolarizing > 0 {
		decay := math.Exp(-p.Depolarizing * depolarizingRate * p.Speed * DT)
		x *= decay
		y *= decay
		z *= decay
	}

	// 3. Amplitude damping (T1): transverse shrink at half rate, z relaxes
	// toward the ground-state pole +1.
	if p.AmplitudeDamping > 0 {
		gamma1 := p.AmplitudeDamping * dampingRate * p.Speed
		transverse := math.Exp(-gamma1 * DT / 2)
		x *= transverse
		y *= transverse
		z = 1 - (1-z)*math.Exp(-gamma1*DT)
	}

	// 4. Phase damping (T2): transverse shrink only.
	if p.PhaseFlip > 0 {
		dephase := math.Exp(-p.PhaseFlip * dephasingRate * p.Speed * DT)
		x *= dephase
		y *= dephase
	}

	// 5. Bit flip: shrinks the components orthogonal to the x axis.
	if p.BitFlip > 0 {
		flip := math.Exp(-p.BitFlip * bitFlipRate * p.Speed * DT)
		y *= flip
		z *= flip
	}

	// 6. Purity bound: length must never exceed 1 after a step.
	return domain.BlochVector{X: x, Y: y, Z: z}.Clamp(), nil
}
