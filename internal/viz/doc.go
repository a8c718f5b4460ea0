// Package viz is the terminal live view of a running experiment.
//
// A [Stream] observer copies the system at its interval and hands it to a
// Bubble Tea [Model] which draws the crystal on a Braille [Canvas] next to
// energy and temperature charts.
//
// # Key Bindings
//
//	Q     - Stop the run and quit
//	P     - Cycle projection plane (xy, xz, yz)
//	T     - Cycle color themes
package viz
