// Package units holds the physical constants of the eV / Å / amu unit system.
//
// Time is measured in the derived unit Å·sqrt(amu/eV), so a femtosecond is
// not 1 but [Fs] (about 0.0982).
package units

import "math"

const (
	// KB is the Boltzmann constant in eV/K.
	KB = 8.617333262e-5

	// Bohr radius in Å.
	Bohr = 0.52917721067

	electronCharge = 1.602176634e-19   // C
	atomicMass     = 1.66053906660e-27 // kg
)

var (
	// Second is one SI second in internal time units.
	Second = 1e10 * math.Sqrt(electronCharge/atomicMass)

	// Fs is one femtosecond in internal time units.
	Fs = 1e-15 * Second
)
