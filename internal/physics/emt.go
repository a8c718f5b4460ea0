package physics

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/mdsim/internal/atoms"
	"github.com/san-kum/mdsim/internal/compute"
	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/units"
)

// emtBeta is (16π/3)^(1/3) / sqrt(2) rounded as in the published parameters.
const emtBeta = 1.809

// Published EMT parameters:
// E0 (eV), s0 (bohr), V0 (eV), eta2 (1/bohr), kappa (1/bohr), lambda (1/bohr), n0 (1/bohr^3).
var emtParameters = map[string][7]float64{
	"Al": {-3.28, 3.00, 1.493, 1.240, 2.000, 1.169, 0.00700},
	"Cu": {-3.51, 2.67, 2.476, 1.652, 2.740, 1.906, 0.00910},
	"Ag": {-2.96, 3.01, 2.132, 1.652, 2.790, 1.892, 0.00547},
	"Au": {-3.80, 3.00, 2.321, 1.674, 2.873, 2.182, 0.00703},
	"Ni": {-4.44, 2.60, 3.673, 1.669, 2.757, 1.948, 0.01030},
	"Pd": {-3.90, 2.87, 2.773, 1.818, 3.107, 2.155, 0.00688},
	"Pt": {-5.85, 2.90, 4.067, 1.812, 3.145, 2.192, 0.00802},
}

type emtElement struct {
	e0, s0, v0, eta2, kappa, lambda, n0 float64
	gamma1, gamma2                      float64
}

// emtSetup is derived once per set of species.
type emtSetup struct {
	key    string
	rc     float64
	rcList float64
	acut   float64
	par    map[string]*emtElement
	ksi    map[string]map[string]float64
}

// EMT is the Effective Medium Theory potential. The cutoff is set by the
// largest Wigner-Seitz radius among the species present and smoothed by a
// Fermi function between the third and fourth neighbour shells.
type EMT struct {
	backend compute.Backend
	setup   *emtSetup
}

func NewEMT(backend compute.Backend) *EMT {
	return &EMT{backend: backend}
}

// EMTCutoff returns the neighbour-list cutoff EMT uses for the given species.
func EMTCutoff(symbols []string) (float64, error) {
	s, err := newEMTSetup(symbols)
	if err != nil {
		return 0, err
	}
	return s.rcList, nil
}

func speciesKey(symbols []string) []string {
	seen := make(map[string]bool)
	species := make([]string, 0, 2)
	for _, s := range symbols {
		if !seen[s] {
			seen[s] = true
			species = append(species, s)
		}
	}
	sort.Strings(species)
	return species
}

func newEMTSetup(symbols []string) (*emtSetup, error) {
	species := speciesKey(symbols)
	if len(species) == 0 {
		return nil, fmt.Errorf("%w: emt needs at least one atom", dynamo.ErrEngineFailure)
	}

	maxS0 := 0.0
	for _, sym := range species {
		p, ok := emtParameters[sym]
		if !ok {
			return nil, fmt.Errorf("%w: no EMT parameters for %s", dynamo.ErrEngineFailure, sym)
		}
		maxS0 = math.Max(maxS0, p[1]*units.Bohr)
	}

	sqrt3, sqrt4 := math.Sqrt(3), 2.0
	rc := emtBeta * maxS0 * 0.5 * (sqrt3 + sqrt4)
	rr := rc * 2 * sqrt4 / (sqrt3 + sqrt4)
	s := &emtSetup{
		rc:     rc,
		rcList: rc + 0.5,
		acut:   math.Log(9999.0) / (rr - rc),
		par:    make(map[string]*emtElement, len(species)),
		ksi:    make(map[string]map[string]float64, len(species)),
	}

	for _, sym := range species {
		p := emtParameters[sym]
		el := &emtElement{
			e0:     p[0],
			s0:     p[1] * units.Bohr,
			v0:     p[2],
			eta2:   p[3] / units.Bohr,
			kappa:  p[4] / units.Bohr,
			lambda: p[5] / units.Bohr,
			n0:     p[6] / (units.Bohr * units.Bohr * units.Bohr),
		}
		// Normalise so a perfect fcc crystal has sigma1 = 12, counting the
		// first three shells with the same cutoff smoothing as the sums.
		for i, n := range []float64{12, 6, 24} {
			r := el.s0 * emtBeta * math.Sqrt(float64(i+1))
			w := n / (12 * (1 + math.Exp(s.acut*(r-rc))))
			el.gamma1 += w * math.Exp(-el.eta2*(r-emtBeta*el.s0))
			el.gamma2 += w * math.Exp(-el.kappa/emtBeta*(r-emtBeta*el.s0))
		}
		s.par[sym] = el
	}

	for _, s1 := range species {
		s.ksi[s1] = make(map[string]float64, len(species))
		for _, s2 := range species {
			s.ksi[s1][s2] = s.par[s2].n0 / s.par[s1].n0
		}
	}

	s.key = fmt.Sprint(species)
	return s, nil
}

func (e *EMT) prepare(a *atoms.Atoms) error {
	key := fmt.Sprint(speciesKey(a.Symbols))
	if e.setup != nil && e.setup.key == key {
		return nil
	}
	s, err := newEMTSetup(a.Symbols)
	if err != nil {
		return err
	}
	e.setup = s
	return nil
}

func (e *EMT) Calculate(a *atoms.Atoms) (float64, [][3]float64, error) {
	if err := e.prepare(a); err != nil {
		return 0, nil, err
	}
	s := e.setup
	if e.backend == nil {
		e.backend = compute.AutoSelect(a.Cell, a.PBC, s.rcList)
	}

	pairs, err := e.backend.Pairs(a.Positions, a.Cell, a.PBC, s.rcList)
	if err != nil {
		return 0, nil, err
	}

	n := a.Len()
	sigma1 := make([]float64, n)
	deds := make([]float64, n)
	forces := make([][3]float64, n)
	energy := 0.0

	// Pair term and neighbour density.
	for _, p := range pairs {
		p1, p2 := s.par[a.Symbols[p.I]], s.par[a.Symbols[p.J]]
		ksi := s.ksi[a.Symbols[p.I]][a.Symbols[p.J]]
		x := math.Exp(s.acut * (p.R - s.rc))
		theta := 1 / (1 + x)

		y1 := 0.5 * p1.v0 * math.Exp(-p2.kappa*(p.R/emtBeta-p2.s0)) * ksi / p1.gamma2 * theta
		y2 := 0.5 * p2.v0 * math.Exp(-p1.kappa*(p.R/emtBeta-p1.s0)) / ksi / p2.gamma2 * theta
		energy -= y1 + y2

		f := ((y1*p2.kappa+y2*p1.kappa)/emtBeta + (y1+y2)*s.acut*theta*x) / p.R
		for k := 0; k < 3; k++ {
			forces[p.I][k] += f * p.D[k]
			forces[p.J][k] -= f * p.D[k]
		}

		sigma1[p.I] += math.Exp(-p2.eta2*(p.R-emtBeta*p2.s0)) * ksi * theta / p1.gamma1
		sigma1[p.J] += math.Exp(-p1.eta2*(p.R-emtBeta*p1.s0)) / ksi * theta / p2.gamma1
	}

	// Cohesive function of the embedding density.
	for i := 0; i < n; i++ {
		p := s.par[a.Symbols[i]]
		if sigma1[i] <= 0 {
			// Isolated atom: the embedding energy is -E0 and has no gradient.
			energy -= p.e0
			continue
		}
		ds := -math.Log(sigma1[i]/12) / (emtBeta * p.eta2)
		x := p.lambda * ds
		y := math.Exp(-x)
		z := 6 * p.v0 * math.Exp(-p.kappa*ds)
		deds[i] = (x*y*p.e0*p.lambda + p.kappa*z) / (sigma1[i] * emtBeta * p.eta2)
		energy += p.e0*((1+x)*y-1) + z
	}

	// Forces from the density dependence of the cohesive function.
	for _, p := range pairs {
		p1, p2 := s.par[a.Symbols[p.I]], s.par[a.Symbols[p.J]]
		ksi := s.ksi[a.Symbols[p.I]][a.Symbols[p.J]]
		x := math.Exp(s.acut * (p.R - s.rc))
		theta := 1 / (1 + x)

		y1 := math.Exp(-p2.eta2*(p.R-emtBeta*p2.s0)) * ksi / p1.gamma1 * theta * deds[p.I]
		y2 := math.Exp(-p1.eta2*(p.R-emtBeta*p1.s0)) / ksi / p2.gamma1 * theta * deds[p.J]

		f := ((y1*p2.eta2 + y2*p1.eta2) + (y1+y2)*s.acut*theta*x) / p.R
		for k := 0; k < 3; k++ {
			forces[p.I][k] -= f * p.D[k]
			forces[p.J][k] += f * p.D[k]
		}
	}

	if math.IsNaN(energy) || math.IsInf(energy, 0) {
		return 0, nil, fmt.Errorf("%w: non-finite EMT energy", dynamo.ErrEngineFailure)
	}

	return energy, forces, nil
}
