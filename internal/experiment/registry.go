package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/mdsim/internal/atoms"
	"github.com/san-kum/mdsim/internal/compute"
	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/physics"
)

// Potential knows the interaction range a configuration needs and how to
// build its calculator once a pair-search backend has been chosen.
type Potential struct {
	Cutoff func(cfg *config.Config, symbols []string) (float64, error)
	Build  func(cfg *config.Config, backend compute.Backend) atoms.Calculator
}

type Registry struct {
	potentials map[string]Potential
}

func NewRegistry() *Registry {
	r := &Registry{potentials: make(map[string]Potential)}

	r.potentials["lj"] = Potential{
		Cutoff: func(cfg *config.Config, _ []string) (float64, error) { return cfg.LJ.Cutoff, nil },
		Build: func(cfg *config.Config, b compute.Backend) atoms.Calculator {
			return physics.NewLennardJones(cfg.LJ.Epsilon, cfg.LJ.Sigma, cfg.LJ.Cutoff, cfg.LJ.Modified, b)
		},
	}
	r.potentials["emt"] = Potential{
		Cutoff: func(_ *config.Config, symbols []string) (float64, error) { return physics.EMTCutoff(symbols) },
		Build: func(_ *config.Config, b compute.Backend) atoms.Calculator {
			return physics.NewEMT(b)
		},
	}

	return r
}

// Register adds or replaces a potential.
func (r *Registry) Register(name string, p Potential) {
	r.potentials[name] = p
}

func (r *Registry) GetPotential(name string) (Potential, error) {
	p, ok := r.potentials[name]
	if !ok {
		return Potential{}, fmt.Errorf("%w: unknown potential: %s", dynamo.ErrParameterBounds, name)
	}
	return p, nil
}

func (r *Registry) ListPotentials() []string {
	names := make([]string, 0, len(r.potentials))
	for name := range r.potentials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
