package compute

import (
	"fmt"
	"math"

	"github.com/san-kum/mdsim/internal/dynamo"
)

const (
	Auto  = "auto"
	Cells = "cells"
	Brute = "brute"
)

// Pair is an unordered neighbour pair with I < J. D points from I to J
// under the minimum-image convention.
type Pair struct {
	I, J int
	D    [3]float64
	R    float64
}

type Backend interface {
	Name() string
	Supports(box [3]float64, pbc [3]bool, cutoff float64) bool
	Pairs(positions [][3]float64, box [3]float64, pbc [3]bool, cutoff float64) ([]Pair, error)
}

// AutoSelect returns the fastest backend able to handle the geometry.
func AutoSelect(box [3]float64, pbc [3]bool, cutoff float64) Backend {
	cells := NewCellListBackend()
	if cells.Supports(box, pbc, cutoff) {
		return cells
	}
	return NewBruteForceBackend()
}

// Select resolves a backend name for the given geometry.
func Select(name string, box [3]float64, pbc [3]bool, cutoff float64) (Backend, error) {
	var b Backend
	switch name {
	case Auto, "":
		return AutoSelect(box, pbc, cutoff), nil
	case Cells:
		b = NewCellListBackend()
	case Brute:
		b = NewBruteForceBackend()
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", dynamo.ErrParameterBounds, name)
	}
	if !b.Supports(box, pbc, cutoff) {
		return nil, fmt.Errorf("%w: backend %s cannot handle box %v with cutoff %g",
			dynamo.ErrParameterBounds, name, box, cutoff)
	}
	return b, nil
}

// checkGeometry enforces the minimum-image condition: along every periodic
// axis the box must be at least twice the cutoff.
func checkGeometry(box [3]float64, pbc [3]bool, cutoff float64) error {
	if cutoff <= 0 {
		return fmt.Errorf("%w: cutoff must be positive, got %g", dynamo.ErrParameterBounds, cutoff)
	}
	for k := 0; k < 3; k++ {
		if !pbc[k] {
			continue
		}
		if box[k] < 2*cutoff {
			return fmt.Errorf("%w: cutoff %.3f exceeds half the box (%.3f) along axis %d",
				dynamo.ErrEngineFailure, cutoff, box[k]/2, k)
		}
	}
	return nil
}

func displacement(from, to [3]float64, box [3]float64, pbc [3]bool) [3]float64 {
	var d [3]float64
	for k := 0; k < 3; k++ {
		d[k] = to[k] - from[k]
		if pbc[k] {
			d[k] -= box[k] * math.Round(d[k]/box[k])
		}
	}
	return d
}
