// Package integrators advances atoms through time.
package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/mdsim/internal/atoms"
	"github.com/san-kum/mdsim/internal/dynamo"
)

// VelocityVerlet is the symplectic kick-drift-kick scheme in the NVE
// ensemble. Forces from the end of one step are reused at the start of the
// next through the atoms cache, so each step costs one force evaluation.
type VelocityVerlet struct {
	atoms *atoms.Atoms
	dt    float64
	steps int
}

// NewVelocityVerlet integrates a with time step dt in internal time units
// (multiply femtoseconds by units.Fs).
func NewVelocityVerlet(a *atoms.Atoms, dt float64) (*VelocityVerlet, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: nil atoms", dynamo.ErrInvalidState)
	}
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("%w: time step must be positive, got %g", dynamo.ErrParameterBounds, dt)
	}
	return &VelocityVerlet{atoms: a, dt: dt}, nil
}

func (v *VelocityVerlet) System() dynamo.ParticleSystem { return v.atoms }

func (v *VelocityVerlet) Atoms() *atoms.Atoms { return v.atoms }

func (v *VelocityVerlet) Timestep() float64 { return v.dt }

// StepsTaken counts completed steps over the integrator's lifetime.
func (v *VelocityVerlet) StepsTaken() int { return v.steps }

func (v *VelocityVerlet) Step() error {
	a := v.atoms
	forces, err := a.Forces()
	if err != nil {
		return err
	}

	half := 0.5 * v.dt
	for i := range a.Momenta {
		for k := 0; k < 3; k++ {
			a.Momenta[i][k] += half * forces[i][k]
		}
	}
	for i := range a.Positions {
		inv := v.dt / a.Masses[i]
		for k := 0; k < 3; k++ {
			a.Positions[i][k] += inv * a.Momenta[i][k]
			if math.IsNaN(a.Positions[i][k]) || math.IsInf(a.Positions[i][k], 0) {
				return fmt.Errorf("%w: atom %d left the finite domain", dynamo.ErrEngineFailure, i)
			}
		}
	}
	a.Touch()

	forces, err = a.Forces()
	if err != nil {
		return err
	}
	for i := range a.Momenta {
		for k := 0; k < 3; k++ {
			a.Momenta[i][k] += half * forces[i][k]
		}
	}

	v.steps++
	return nil
}
