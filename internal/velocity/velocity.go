// Package velocity initialises atomic momenta.
package velocity

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/mdsim/internal/atoms"
	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/units"
)

type options struct {
	zeroMomentum     bool
	forceTemperature bool
}

type Option func(*options)

// ZeroMomentum removes centre-of-mass drift after sampling.
func ZeroMomentum() Option {
	return func(o *options) { o.zeroMomentum = true }
}

// ForceTemperature rescales the sampled momenta so the instantaneous
// temperature equals the target exactly.
func ForceTemperature() Option {
	return func(o *options) { o.forceTemperature = true }
}

// MaxwellBoltzmann draws momenta from the Maxwell-Boltzmann distribution at
// temperature T in kelvin. A temperature of zero leaves every atom at rest.
func MaxwellBoltzmann(a *atoms.Atoms, T float64, rng *rand.Rand, opts ...Option) error {
	if T < 0 || math.IsNaN(T) || math.IsInf(T, 0) {
		return fmt.Errorf("%w: temperature must be non-negative, got %g", dynamo.ErrParameterBounds, T)
	}
	if rng == nil {
		return fmt.Errorf("%w: nil random source", dynamo.ErrInvalidState)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	kT := units.KB * T
	for i := range a.Momenta {
		width := math.Sqrt(a.Masses[i] * kT)
		for k := 0; k < 3; k++ {
			a.Momenta[i][k] = rng.NormFloat64() * width
		}
	}

	if o.zeroMomentum {
		Stationary(a)
	}
	if o.forceTemperature && T > 0 {
		if err := Rescale(a, T); err != nil {
			return err
		}
	}
	return nil
}

// Stationary subtracts the centre-of-mass velocity from every atom.
func Stationary(a *atoms.Atoms) {
	total := a.TotalMomentum()
	mass := a.TotalMass()
	if mass == 0 {
		return
	}
	for i := range a.Momenta {
		floats.AddScaled(a.Momenta[i][:], -a.Masses[i]/mass, total[:])
	}
}

// Rescale scales all momenta so the equipartition temperature equals T.
func Rescale(a *atoms.Atoms, T float64) error {
	current := a.Temperature()
	if current == 0 {
		return fmt.Errorf("%w: cannot rescale a system at rest", dynamo.ErrInvalidState)
	}
	s := math.Sqrt(T / current)
	for i := range a.Momenta {
		floats.Scale(s, a.Momenta[i][:])
	}
	return nil
}
