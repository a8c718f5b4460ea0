// Package metrics derives per-atom energies and temperature from a running
// system and reports them.
package metrics

import (
	"errors"
	"fmt"

	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/units"
)

// Sample is the energy state of a system at one instant. Energies are per
// atom in eV, temperature in K.
type Sample struct {
	PotentialPerAtom float64
	KineticPerAtom   float64
	Temperature      float64
	TotalPerAtom     float64
}

// Compute derives a Sample from sys. It does not modify sys.
func Compute(sys dynamo.ParticleSystem) (Sample, error) {
	n := sys.Len()
	if n <= 0 {
		return Sample{}, fmt.Errorf("%w: system has %d particles", dynamo.ErrInvalidState, n)
	}

	epot, err := sys.PotentialEnergy()
	if err != nil {
		if !errors.Is(err, dynamo.ErrEngineFailure) {
			err = fmt.Errorf("%w: %w", dynamo.ErrEngineFailure, err)
		}
		return Sample{}, fmt.Errorf("potential energy: %w", err)
	}

	s := Sample{
		PotentialPerAtom: epot / float64(n),
		KineticPerAtom:   sys.KineticEnergy() / float64(n),
	}
	s.Temperature = s.KineticPerAtom / (1.5 * units.KB)
	s.TotalPerAtom = s.PotentialPerAtom + s.KineticPerAtom
	return s, nil
}

// Format renders s as the one-line energy report printed during a run.
// Energies are rounded to meV and the temperature to whole kelvin.
func Format(s Sample) string {
	return fmt.Sprintf("Energy per atom: Epot =%6.3feV  Ekin = %.3feV (T=%3.0fK) Etot = %.3feV",
		s.PotentialPerAtom, s.KineticPerAtom, s.Temperature, s.TotalPerAtom)
}

func (s Sample) String() string { return Format(s) }
