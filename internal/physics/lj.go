package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/mdsim/internal/atoms"
	"github.com/san-kum/mdsim/internal/compute"
	"github.com/san-kum/mdsim/internal/dynamo"
)

// LennardJones is the single-species 12-6 potential
//
//	V(r) = 4ε[(σ/r)^12 - (σ/r)^6]
//
// truncated at Cutoff. With Modified set the energy is shifted so V(Cutoff)
// is zero; forces are not shifted.
type LennardJones struct {
	Epsilon  float64 // eV
	Sigma    float64 // Å
	Cutoff   float64 // Å
	Modified bool

	backend compute.Backend
}

func NewLennardJones(epsilon, sigma, cutoff float64, modified bool, backend compute.Backend) *LennardJones {
	return &LennardJones{
		Epsilon:  epsilon,
		Sigma:    sigma,
		Cutoff:   cutoff,
		Modified: modified,
		backend:  backend,
	}
}

func (lj *LennardJones) shift() float64 {
	if !lj.Modified {
		return 0
	}
	sr6 := math.Pow(lj.Sigma/lj.Cutoff, 6)
	return 4 * lj.Epsilon * (sr6*sr6 - sr6)
}

func (lj *LennardJones) Calculate(a *atoms.Atoms) (float64, [][3]float64, error) {
	if lj.Epsilon <= 0 || lj.Sigma <= 0 {
		return 0, nil, fmt.Errorf("%w: lennard-jones needs positive epsilon and sigma, got %g, %g",
			dynamo.ErrEngineFailure, lj.Epsilon, lj.Sigma)
	}
	if lj.backend == nil {
		lj.backend = compute.AutoSelect(a.Cell, a.PBC, lj.Cutoff)
	}

	pairs, err := lj.backend.Pairs(a.Positions, a.Cell, a.PBC, lj.Cutoff)
	if err != nil {
		return 0, nil, err
	}

	forces := make([][3]float64, a.Len())
	shift := lj.shift()
	s2 := lj.Sigma * lj.Sigma
	energy := 0.0

	for _, p := range pairs {
		r2 := p.R * p.R
		sr2 := s2 / r2
		sr6 := sr2 * sr2 * sr2
		sr12 := sr6 * sr6

		energy += 4*lj.Epsilon*(sr12-sr6) - shift

		// -dV/dr divided by r, so multiplying by D gives the force on J.
		f := 24 * lj.Epsilon * (2*sr12 - sr6) / r2
		for k := 0; k < 3; k++ {
			forces[p.J][k] += f * p.D[k]
			forces[p.I][k] -= f * p.D[k]
		}
	}

	if math.IsNaN(energy) || math.IsInf(energy, 0) {
		return 0, nil, fmt.Errorf("%w: non-finite lennard-jones energy", dynamo.ErrEngineFailure)
	}

	return energy, forces, nil
}
