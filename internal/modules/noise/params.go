// Package noise implements the single-qubit decoherence stepper: a pure
// function advancing a Bloch vector by one fixed time increment under a set of
// independently toggleable noise channels.
//
// The combined step is a pedagogical approximation, not a derived
// master-equation solution. Each channel applies its own geometric shrink and
// the channel rate constants are tuning values chosen for visual clarity.
package noise

import (
	"fmt"
	"math"
)

// Params configures the strength of each noise channel plus a global rate
// multiplier. Channel strengths live in [0,1]; zero disables a channel.
// Params are read-only per stepping call; a changed value takes effect on the
// next step.
type Params struct {
	Depolarizing     float64 `json:"depolarizing"`
	PhaseFlip        float64 `json:"phaseFlip"`
	BitFlip          float64 `json:"bitFlip"`
	AmplitudeDamping float64 `json:"amplitudeDamping"`
	Speed            float64 `json:"speed"`
}

// DefaultParams returns a quiet configuration with unit speed.
func DefaultParams() Params {
	return Params{Speed: 1}
}

// Validate checks that channel strengths are in [0,1] and the speed is a
// positive finite multiplier. A NaN here would silently corrupt every future
// history entry, so validation happens before any stepping.
func (p Params) Validate() error {
	channels := map[string]float64{
		"depolarizing":     p.Depolarizing,
		"phaseFlip":        p.PhaseFlip,
		"bitFlip":          p.BitFlip,
		"amplitudeDamping": p.AmplitudeDamping,
	}
	for name, strength := range channels {
		if math.IsNaN(strength) || math.IsInf(strength, 0) {
			return fmt.Errorf("%s strength must be finite", name)
		}
		if strength < 0 || strength > 1 {
			return fmt.Errorf("%s strength %g out of range [0,1]", name, strength)
		}
	}
	if math.IsNaN(p.Speed) || math.IsInf(p.Speed, 0) {
		return fmt.Errorf("speed must be finite")
	}
	if p.Speed <= 0 {
		return fmt.Errorf("speed %g must be positive", p.Speed)
	}
	return nil
}
