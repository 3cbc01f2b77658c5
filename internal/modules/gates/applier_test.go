package gates

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qubitlab/qubitlab/internal/domain"
)

func applyAll(t *testing.T, a *Applier, v domain.BlochVector, ids ...ID) domain.BlochVector {
	t.Helper()
	var err error
	for _, id := range ids {
		v, err = a.Apply(v, Gate{ID: id})
		require.NoError(t, err)
	}
	return v
}

func assertVecClose(t *testing.T, want, got domain.BlochVector) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
	assert.InDelta(t, want.Z, got.Z, 1e-9)
}

func TestGateInvolutions(t *testing.T) {
	a := NewApplier(Options{})
	start := domain.BlochVector{X: 0.3, Y: -0.4, Z: 0.5}

	for _, id := range []ID{X, Y, Z, H} {
		got := applyAll(t, a, start, id, id)
		assertVecClose(t, start, got)
	}
}

func TestHadamardSwapsXAndZ(t *testing.T) {
	a := NewApplier(Options{})
	got := applyAll(t, a, domain.StateUp(), H)
	assertVecClose(t, domain.StatePlus(), got)

	got = applyAll(t, a, domain.StatePlus(), H)
	assertVecClose(t, domain.StateUp(), got)
}

func TestSIsQuarterTurn(t *testing.T) {
	a := NewApplier(Options{})
	// Four S gates rotate the equator all the way around.
	got := applyAll(t, a, domain.StatePlus(), S, S, S, S)
	assertVecClose(t, domain.StatePlus(), got)

	// Two T gates equal one S gate.
	viaT := applyAll(t, a, domain.StatePlus(), T, T)
	viaS := applyAll(t, a, domain.StatePlus(), S)
	assertVecClose(t, viaS, viaT)
}

func TestRotationGatesUseAngle(t *testing.T) {
	a := NewApplier(Options{})
	v, err := a.Apply(domain.StateUp(), Gate{ID: Rx, Angle: math.Pi})
	require.NoError(t, err)
	assertVecClose(t, domain.StateDown(), v)

	v, err = a.Apply(domain.StatePlus(), Gate{ID: Rz, Angle: math.Pi / 2})
	require.NoError(t, err)
	assertVecClose(t, domain.BlochVector{Y: 1}, v)

	v, err = a.Apply(domain.StateUp(), Gate{ID: Ry, Angle: math.Pi / 2})
	require.NoError(t, err)
	assertVecClose(t, domain.StatePlus(), v)
}

func TestCNOTAttenuatesVector(t *testing.T) {
	a := NewApplier(Options{})
	v, err := a.Apply(domain.StateUp(), Gate{ID: CNOT})
	require.NoError(t, err)
	assert.InDelta(t, cnotAttenuation, v.Length(), 1e-12)
}

func TestMeasurementCollapsesToPole(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	a := NewApplier(Options{Rand: rng})

	ups, downs := 0, 0
	for i := 0; i < 1000; i++ {
		v, err := a.Apply(domain.StatePlus(), Gate{ID: M})
		require.NoError(t, err)
		switch {
		case v == domain.StateUp():
			ups++
		case v == domain.StateDown():
			downs++
		default:
			t.Fatalf("measurement produced non-pole state %+v", v)
		}
	}
	// |+> measures up/down with equal probability.
	assert.InDelta(t, 500, ups, 80)
	assert.Equal(t, 1000, ups+downs)

	// A pole state is a deterministic measurement.
	v, err := a.Apply(domain.StateUp(), Gate{ID: M})
	require.NoError(t, err)
	assert.Equal(t, domain.StateUp(), v)
}

func TestGateNoiseShrinks(t *testing.T) {
	noisy := NewApplier(Options{GateNoise: 0.1})
	v, err := noisy.Apply(domain.StateUp(), Gate{ID: X})
	require.NoError(t, err)
	assert.InDelta(t, 0.9, v.Length(), 1e-12)

	// With zero gate noise the involution is exact; with noise it is not.
	v, err = noisy.Apply(v, Gate{ID: X})
	require.NoError(t, err)
	assert.Less(t, v.Length(), 1.0)
}

func TestApplyRejectsUnknownGateAndBadInput(t *testing.T) {
	a := NewApplier(Options{})
	_, err := a.Apply(domain.StateUp(), Gate{ID: "Q"})
	assert.Error(t, err)

	_, err = a.Apply(domain.BlochVector{X: math.NaN()}, Gate{ID: X})
	assert.Error(t, err)
}

func TestKnownAndClassification(t *testing.T) {
	for _, id := range []ID{H, X, Y, Z, S, T, CNOT, Rx, Ry, Rz, M} {
		assert.True(t, Known(id))
	}
	assert.False(t, Known("SWAP"))
	assert.True(t, IsRotation(Rx))
	assert.False(t, IsRotation(H))
	assert.True(t, IsTwoQubit(CNOT))
	assert.False(t, IsTwoQubit(X))
}
