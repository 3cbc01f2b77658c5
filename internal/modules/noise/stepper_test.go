package noise

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qubitlab/qubitlab/internal/domain"
)

func TestStepPurityBound(t *testing.T) {
	// For arbitrary params and a pure starting state, length never exceeds 1
	// across many steps.
	configs := []Params{
		{Speed: 1},
		{Depolarizing: 1, Speed: 1},
		{AmplitudeDamping: 1, Speed: 1},
		{PhaseFlip: 0.5, BitFlip: 0.5, Speed: 2},
		{Depolarizing: 0.3, PhaseFlip: 0.3, BitFlip: 0.3, AmplitudeDamping: 0.3, Speed: 5},
	}
	starts := []domain.BlochVector{
		domain.StateUp(),
		domain.StatePlus(),
		{X: 0.5, Y: 0.5, Z: 0.5},
		domain.StateMixed(),
	}

	for _, p := range configs {
		for _, start := range starts {
			v := start
			var err error
			for i := 0; i < 500; i++ {
				v, err = Step(v, p)
				require.NoError(t, err)
				assert.LessOrEqual(t, v.Length(), 1.0+1e-9)
			}
		}
	}
}

func TestStepZeroNoiseOnlyPrecesses(t *testing.T) {
	p := Params{Speed: 1}
	v := domain.StatePlus()
	var err error
	for i := 0; i < 200; i++ {
		v, err = Step(v, p)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, v.Length(), 1e-9, "zero-noise step must preserve length")
	}
	// z is untouched by pure precession
	assert.InDelta(t, 0.0, v.Z, 1e-12)
}

func TestStepDepolarizingMonotoneDecay(t *testing.T) {
	p := Params{Depolarizing: 0.8, Speed: 1}
	v := domain.StatePlus()
	prev := v.Length()
	var err error
	for i := 0; i < 100; i++ {
		v, err = Step(v, p)
		require.NoError(t, err)
		length := v.Length()
		assert.LessOrEqual(t, length, prev+1e-12)
		prev = length
	}
	// After 100 steps of strong depolarizing the state is nearly mixed.
	assert.Less(t, v.Length(), 0.05)
}

func TestStepAmplitudeDampingRelaxesToUp(t *testing.T) {
	p := Params{AmplitudeDamping: 1, Speed: 1}
	v := domain.StateDown()
	var err error
	for i := 0; i < 2000; i++ {
		v, err = Step(v, p)
		require.NoError(t, err)
	}
	// T1 relaxation drives z toward the +1 pole.
	assert.Greater(t, v.Z, 0.99)
}

func TestStepRejectsNonFiniteInput(t *testing.T) {
	p := DefaultParams()
	_, err := Step(domain.BlochVector{X: math.NaN()}, p)
	assert.Error(t, err)
	_, err = Step(domain.BlochVector{Z: math.Inf(1)}, p)
	assert.Error(t, err)
}

func TestStepRejectsBadParams(t *testing.T) {
	v := domain.StateUp()
	cases := []Params{
		{Depolarizing: 1.5, Speed: 1},
		{Depolarizing: -0.1, Speed: 1},
		{Speed: 0},
		{Speed: -1},
		{Speed: math.NaN()},
		{PhaseFlip: math.Inf(1), Speed: 1},
	}
	for _, p := range cases {
		_, err := Step(v, p)
		assert.Error(t, err, "params %+v should be rejected", p)
	}
}

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())
	assert.NoError(t, Params{Depolarizing: 1, PhaseFlip: 1, BitFlip: 1, AmplitudeDamping: 1, Speed: 0.1}.Validate())
	assert.Error(t, Params{}.Validate(), "zero speed is invalid")
}

func TestStepsFor(t *testing.T) {
	// One frame at 60fps with unit speed is roughly one DT step.
	assert.Equal(t, 1, StepsFor(16*time.Millisecond, DT, 1))

	// Faster simulation speed means more steps per tick.
	assert.Equal(t, 4, StepsFor(16*time.Millisecond, DT, 4))

	// A long stall is capped rather than producing a catch-up burst.
	assert.Equal(t, MaxStepsPerTick, StepsFor(2*time.Second, DT, 1))

	// Degenerate inputs produce no work.
	assert.Equal(t, 0, StepsFor(0, DT, 1))
	assert.Equal(t, 0, StepsFor(-time.Second, DT, 1))
	assert.Equal(t, 0, StepsFor(time.Second, DT, 0))
}
