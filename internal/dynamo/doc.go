// Package dynamo provides the core contracts of a molecular-dynamics run.
//
// The package defines the seams between the engine and the code that
// watches it:
//
//   - [ParticleSystem]: read-only view of particle count and energies
//   - [Stepper]: advances the engine by one integration step
//   - [Observer]: callback fired at scheduled step boundaries
//   - [Simulator]: drives a Stepper and dispatches observers on schedule
//
// # Example
//
//	a, _ := lattice.FaceCenteredCubic("Ar", [3]int{6, 6, 6}, lattice.Periodic)
//	vv, _ := integrators.NewVelocityVerlet(a, units.Fs)
//	sim := dynamo.New(vv)
//	sim.Attach(trajWriter, 10)
//	sim.AttachInitial(reporter, 100)
//	result, err := sim.Run(ctx, 20000)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. Observers are invoked
// synchronously from the goroutine that called Run and must return before
// the integrator advances.
package dynamo
