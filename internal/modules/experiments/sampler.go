// Package experiments implements the discrete experiment simulators: Bell and
// GHZ correlation samplers, a Stern-Gerlach Born-rule sampler and the BB84
// key-distribution protocol with an optional intercept-resend eavesdropper.
//
// All simulators are pure functions of their parameters and an injected
// random source, so results are reproducible in tests while interactive use
// keeps time-seeded behavior.
package experiments

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Shot limits enforced at the API boundary and reused by callers.
const (
	MaxShots  = 10000
	MaxRounds = 5000
)

// Sampler bundles the simulators around one random source. A Sampler is not
// safe for concurrent use; callers create one per run (they are cheap).
type Sampler struct {
	src rand.Source
	rng *rand.Rand
}

// NewSampler returns a sampler with a time-seeded source, matching the
// unseeded behavior expected in interactive use.
func NewSampler() *Sampler {
	return NewSeededSampler(rand.Uint64(), rand.Uint64())
}

// NewSeededSampler returns a sampler with a deterministic PCG source, for
// reproducible runs and statistical tests.
func NewSeededSampler(seed1, seed2 uint64) *Sampler {
	src := rand.NewPCG(seed1, seed2)
	return &Sampler{src: src, rng: rand.New(src)}
}

// Bell samples an ideal |Φ+⟩ pair for the given number of shots. Only the
// perfectly correlated outcomes ever occur; the map always carries all four
// keys so consumers can chart zeros.
func (s *Sampler) Bell(shots int) map[string]int {
	counts := map[string]int{"00": 0, "01": 0, "10": 0, "11": 0}
	for i := 0; i < shots; i++ {
		if s.rng.Float64() < 0.5 {
			counts["00"]++
		} else {
			counts["11"]++
		}
	}
	return counts
}

// GHZ samples an ideal three-qubit GHZ state, the 3-qubit generalization of
// the Bell sampler.
func (s *Sampler) GHZ(shots int) map[string]int {
	counts := map[string]int{
		"000": 0, "001": 0, "010": 0, "011": 0,
		"100": 0, "101": 0, "110": 0, "111": 0,
	}
	for i := 0; i < shots; i++ {
		if s.rng.Float64() < 0.5 {
			counts["000"]++
		} else {
			counts["111"]++
		}
	}
	return counts
}

// SternGerlachResult is one Born-rule measurement through an apparatus
// rotated by some angle from the z axis.
type SternGerlachResult struct {
	Outcome  string  `json:"outcome"`
	ProbUp   float64 `json:"probUp"`
	ProbDown float64 `json:"probDown"`
}

// SternGerlach measures a spin-up qubit through an apparatus at the given
// angle (degrees): P(up) = cos²(θ/2), one Bernoulli draw decides the outcome.
func (s *Sampler) SternGerlach(angleDegrees float64) SternGerlachResult {
	theta := angleDegrees * math.Pi / 180
	half := math.Cos(theta / 2)
	probUp := half * half

	outcome := "down"
	draw := distuv.Bernoulli{P: probUp, Src: s.src}
	if draw.Rand() == 1 {
		outcome = "up"
	}
	return SternGerlachResult{
		Outcome:  outcome,
		ProbUp:   probUp,
		ProbDown: 1 - probUp,
	}
}
