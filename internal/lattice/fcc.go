// Package lattice builds periodic crystals.
package lattice

import (
	"fmt"

	"github.com/san-kum/mdsim/internal/atoms"
	"github.com/san-kum/mdsim/internal/dynamo"
)

// Periodic enables periodic boundaries along all three axes.
var Periodic = [3]bool{true, true, true}

var fccBasis = [4][3]float64{
	{0, 0, 0},
	{0, 0.5, 0.5},
	{0.5, 0, 0.5},
	{0.5, 0.5, 0},
}

type options struct {
	constant float64
}

type Option func(*options)

// LatticeConstant overrides the element's reference lattice constant.
func LatticeConstant(a float64) Option {
	return func(o *options) { o.constant = a }
}

// FaceCenteredCubic builds size[0]×size[1]×size[2] conventional FCC cells
// oriented along [100], [010], [001]. Atoms are ordered cell by cell.
func FaceCenteredCubic(symbol string, size [3]int, pbc [3]bool, opts ...Option) (*atoms.Atoms, error) {
	el, ok := Lookup(symbol)
	if !ok {
		return nil, fmt.Errorf("%w: unknown element %q", dynamo.ErrParameterBounds, symbol)
	}

	o := options{constant: el.Constant}
	for _, opt := range opts {
		opt(&o)
	}
	if o.constant <= 0 {
		return nil, fmt.Errorf("%w: lattice constant must be positive, got %g", dynamo.ErrParameterBounds, o.constant)
	}
	for k, s := range size {
		if s <= 0 {
			return nil, fmt.Errorf("%w: size[%d] must be positive, got %d", dynamo.ErrParameterBounds, k, s)
		}
	}

	n := 4 * size[0] * size[1] * size[2]
	symbols := make([]string, 0, n)
	positions := make([][3]float64, 0, n)
	masses := make([]float64, 0, n)
	a := o.constant

	for i := 0; i < size[0]; i++ {
		for j := 0; j < size[1]; j++ {
			for k := 0; k < size[2]; k++ {
				for _, b := range fccBasis {
					positions = append(positions, [3]float64{
						(float64(i) + b[0]) * a,
						(float64(j) + b[1]) * a,
						(float64(k) + b[2]) * a,
					})
					symbols = append(symbols, el.Symbol)
					masses = append(masses, el.Mass)
				}
			}
		}
	}

	cell := [3]float64{float64(size[0]) * a, float64(size[1]) * a, float64(size[2]) * a}
	return atoms.New(symbols, positions, masses, cell, pbc)
}

// Cubic is FaceCenteredCubic with the same size along every axis.
func Cubic(symbol string, size int, opts ...Option) (*atoms.Atoms, error) {
	return FaceCenteredCubic(symbol, [3]int{size, size, size}, Periodic, opts...)
}
