// Package physics provides interatomic potentials.
//
// Each potential implements [atoms.Calculator], returning the total
// potential energy in eV and the force on every atom in eV/Å:
//
//   - [LennardJones]: 12-6 pair potential, optionally shifted to zero at the cutoff
//   - [EMT]: Effective Medium Theory for fcc metals (Al, Cu, Ag, Au, Ni, Pd, Pt)
//
// Neighbour pairs come from a [compute.Backend] chosen when the run is
// configured, so the same potential runs on the cell list or the
// all-pairs fallback:
//
//	backend, _ := compute.Select("auto", a.Cell, a.PBC, 6.625)
//	a.SetCalculator(physics.NewLennardJones(0.010323, 3.4, 6.625, true, backend))
//	epot, err := a.PotentialEnergy()
package physics
