// Package compute provides pair-search backends for short-ranged potentials.
//
// Two implementations share the [Backend] interface:
//
//   - cells: linked-cell search, parallel over cells, O(N)
//   - brute: all-pairs minimum-image search, serial, O(N²)
//
// The backend is chosen once when a run is configured:
//
//	backend, err := compute.Select("auto", a.Cell, a.PBC, cutoff)
//	pairs, err := backend.Pairs(a.Positions, a.Cell, a.PBC, cutoff)
//
// "auto" prefers the cell list and falls back to brute force for boxes too
// small to hold three cells along every axis.
package compute
