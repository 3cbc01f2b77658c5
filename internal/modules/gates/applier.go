package gates

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/qubitlab/qubitlab/internal/domain"
)

// cnotAttenuation scales the tracked qubit's vector when it participates in a
// CNOT, standing in for the purity loss of entanglement. The system never
// tracks a true multi-qubit state, so this is an explicit approximation.
const cnotAttenuation = 0.7

// Options configures the applier's non-unitary behavior.
type Options struct {
	// GateNoise in [0,1] applies one depolarizing-style shrink after each
	// gate, modeling imperfect gate execution. Zero disables it.
	GateNoise float64

	// Rand drives measurement collapse. Nil falls back to the shared
	// package-level source, which is fine for interactive use; tests inject
	// a seeded source.
	Rand *rand.Rand
}

// Applier applies discrete gates to a Bloch vector.
type Applier struct {
	opts Options
}

// NewApplier creates an applier with the given options.
func NewApplier(opts Options) *Applier {
	return &Applier{opts: opts}
}

// Apply returns the vector after one gate, the optional gate-noise shrink and
// a clamp back into the Bloch ball. The input is never mutated.
func (a *Applier) Apply(v domain.BlochVector, g Gate) (domain.BlochVector, error) {
	if !v.IsFinite() {
		return domain.BlochVector{}, fmt.Errorf("non-finite input vector")
	}
	if !Known(g.ID) {
		return domain.BlochVector{}, fmt.Errorf("unknown gate %q", g.ID)
	}

	var out domain.BlochVector
	switch {
	case g.ID == CNOT:
		out = v.Scale(cnotAttenuation)
	case g.ID == M:
		out = a.collapse(v)
	default:
		m, err := matrixFor(g)
		if err != nil {
			return domain.BlochVector{}, err
		}
		var res mat.VecDense
		res.MulVec(m, mat.NewVecDense(3, []float64{v.X, v.Y, v.Z}))
		out = domain.BlochVector{X: res.AtVec(0), Y: res.AtVec(1), Z: res.AtVec(2)}
	}

	if a.opts.GateNoise > 0 {
		out = out.Scale(1 - a.opts.GateNoise)
	}
	return out.Clamp(), nil
}

// collapse performs a Born-rule measurement in the z basis: the vector jumps
// to the +z or -z pole with probability (1±z)/2.
func (a *Applier) collapse(v domain.BlochVector) domain.BlochVector {
	probUp := (1 + v.Z) / 2
	if a.random() < probUp {
		return domain.StateUp()
	}
	return domain.StateDown()
}

func (a *Applier) random() float64 {
	if a.opts.Rand != nil {
		return a.opts.Rand.Float64()
	}
	return rand.Float64()
}
