package velocity

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/lattice"
)

func TestMaxwellBoltzmannTemperature(t *testing.T) {
	a, err := lattice.Cubic("Ar", 6)
	require.NoError(t, err)

	require.NoError(t, MaxwellBoltzmann(a, 300, rand.New(rand.NewSource(1))))

	// 864 atoms: the sampled temperature fluctuates by a few percent.
	assert.InDelta(t, 300, a.Temperature(), 30)
}

func TestMaxwellBoltzmannOptions(t *testing.T) {
	a, err := lattice.Cubic("Cu", 3)
	require.NoError(t, err)

	err = MaxwellBoltzmann(a, 300, rand.New(rand.NewSource(7)), ZeroMomentum(), ForceTemperature())
	require.NoError(t, err)

	p := a.TotalMomentum()
	for k := 0; k < 3; k++ {
		assert.InDelta(t, 0, p[k], 1e-9)
	}
	assert.InDelta(t, 300, a.Temperature(), 1e-9)
}

func TestMaxwellBoltzmannDeterministic(t *testing.T) {
	a, err := lattice.Cubic("Ar", 2)
	require.NoError(t, err)
	b, err := lattice.Cubic("Ar", 2)
	require.NoError(t, err)

	require.NoError(t, MaxwellBoltzmann(a, 50, rand.New(rand.NewSource(3))))
	require.NoError(t, MaxwellBoltzmann(b, 50, rand.New(rand.NewSource(3))))
	assert.Equal(t, a.Momenta, b.Momenta)
}

func TestMaxwellBoltzmannZero(t *testing.T) {
	a, err := lattice.Cubic("Ar", 2)
	require.NoError(t, err)

	require.NoError(t, MaxwellBoltzmann(a, 0, rand.New(rand.NewSource(1)), ForceTemperature()))
	assert.Zero(t, a.KineticEnergy())
}

func TestMaxwellBoltzmannRejects(t *testing.T) {
	a, err := lattice.Cubic("Ar", 2)
	require.NoError(t, err)

	err = MaxwellBoltzmann(a, -1, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)

	err = MaxwellBoltzmann(a, 10, nil)
	assert.ErrorIs(t, err, dynamo.ErrInvalidState)
}

func TestRescaleAtRest(t *testing.T) {
	a, err := lattice.Cubic("Ar", 2)
	require.NoError(t, err)
	assert.ErrorIs(t, Rescale(a, 100), dynamo.ErrInvalidState)
}
