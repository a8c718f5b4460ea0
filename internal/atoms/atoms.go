// Package atoms holds the particle system integrated by the engine.
package atoms

import (
	"errors"
	"fmt"

	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/units"
)

// ErrNoCalculator is returned when energies are requested from a system
// without an attached potential.
var ErrNoCalculator = fmt.Errorf("%w: no calculator attached", dynamo.ErrEngineFailure)

// Calculator evaluates the potential energy and forces of a system.
type Calculator interface {
	Calculate(a *Atoms) (energy float64, forces [][3]float64, err error)
}

// Atoms is a set of point particles in an orthorhombic cell. Positions are
// in Å, momenta in amu·Å per internal time unit, masses in amu.
//
// Callers that move particles must call Touch so cached energies and forces
// are recomputed.
type Atoms struct {
	Symbols   []string
	Positions [][3]float64
	Momenta   [][3]float64
	Masses    []float64
	Cell      [3]float64
	PBC       [3]bool

	calc    Calculator
	version uint64
	cache   *evaluation
}

type evaluation struct {
	version uint64
	energy  float64
	forces  [][3]float64
}

func New(symbols []string, positions [][3]float64, masses []float64, cell [3]float64, pbc [3]bool) (*Atoms, error) {
	n := len(symbols)
	if len(positions) != n || len(masses) != n {
		return nil, fmt.Errorf("%w: %d symbols, %d positions, %d masses",
			dynamo.ErrParameterBounds, n, len(positions), len(masses))
	}
	for i, m := range masses {
		if m <= 0 {
			return nil, fmt.Errorf("%w: atom %d has mass %g", dynamo.ErrParameterBounds, i, m)
		}
	}
	return &Atoms{
		Symbols:   symbols,
		Positions: positions,
		Momenta:   make([][3]float64, n),
		Masses:    masses,
		Cell:      cell,
		PBC:       pbc,
	}, nil
}

func (a *Atoms) Len() int { return len(a.Symbols) }

func (a *Atoms) SetCalculator(c Calculator) {
	a.calc = c
	a.Touch()
}

func (a *Atoms) Calculator() Calculator { return a.calc }

// Touch invalidates cached energies and forces.
func (a *Atoms) Touch() {
	a.version++
	a.cache = nil
}

// Coordinates returns the positions slice backing the system.
func (a *Atoms) Coordinates() [][3]float64 { return a.Positions }

// Box returns the cell edge lengths.
func (a *Atoms) Box() [3]float64 { return a.Cell }

func (a *Atoms) evaluate() (*evaluation, error) {
	if a.cache != nil && a.cache.version == a.version {
		return a.cache, nil
	}
	if a.calc == nil {
		return nil, ErrNoCalculator
	}
	energy, forces, err := a.calc.Calculate(a)
	if err != nil {
		if errors.Is(err, dynamo.ErrEngineFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", dynamo.ErrEngineFailure, err)
	}
	a.cache = &evaluation{version: a.version, energy: energy, forces: forces}
	return a.cache, nil
}

// PotentialEnergy returns the total potential energy in eV.
func (a *Atoms) PotentialEnergy() (float64, error) {
	ev, err := a.evaluate()
	if err != nil {
		return 0, err
	}
	return ev.energy, nil
}

// Forces returns the force on every atom in eV/Å. The slice is shared with
// the cache and must not be modified.
func (a *Atoms) Forces() ([][3]float64, error) {
	ev, err := a.evaluate()
	if err != nil {
		return nil, err
	}
	return ev.forces, nil
}

// KineticEnergy returns sum(p^2 / 2m) in eV.
func (a *Atoms) KineticEnergy() float64 {
	ke := 0.0
	for i, p := range a.Momenta {
		ke += (p[0]*p[0] + p[1]*p[1] + p[2]*p[2]) / (2 * a.Masses[i])
	}
	return ke
}

// Temperature is the equipartition temperature 2 Ekin / (3 N kB).
func (a *Atoms) Temperature() float64 {
	if a.Len() == 0 {
		return 0
	}
	return 2 * a.KineticEnergy() / (3 * float64(a.Len()) * units.KB)
}

func (a *Atoms) Velocities() [][3]float64 {
	v := make([][3]float64, len(a.Momenta))
	for i, p := range a.Momenta {
		for k := 0; k < 3; k++ {
			v[i][k] = p[k] / a.Masses[i]
		}
	}
	return v
}

func (a *Atoms) TotalMomentum() [3]float64 {
	var total [3]float64
	for _, p := range a.Momenta {
		total[0] += p[0]
		total[1] += p[1]
		total[2] += p[2]
	}
	return total
}

func (a *Atoms) TotalMass() float64 {
	m := 0.0
	for _, mi := range a.Masses {
		m += mi
	}
	return m
}
