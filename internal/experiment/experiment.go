// Package experiment assembles a configured run: crystal, potential, initial
// momenta, integrator, trajectory and energy reports.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/san-kum/mdsim/internal/atoms"
	"github.com/san-kum/mdsim/internal/compute"
	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/integrators"
	"github.com/san-kum/mdsim/internal/lattice"
	"github.com/san-kum/mdsim/internal/logger"
	"github.com/san-kum/mdsim/internal/metrics"
	"github.com/san-kum/mdsim/internal/traj"
	"github.com/san-kum/mdsim/internal/units"
	"github.com/san-kum/mdsim/internal/velocity"
)

type Result struct {
	*dynamo.Result
	Summary  metrics.DriftSummary
	Records  []metrics.Record
	Frames   int
	Backend  string
	Duration time.Duration
}

type Experiment struct {
	cfg      *config.Config
	registry *Registry
	out      io.Writer
	log      zerolog.Logger

	atoms      *atoms.Atoms
	integrator *integrators.VelocityVerlet
	simulator  *dynamo.Simulator
	backend    compute.Backend
	traj       *traj.Writer
	drift      *metrics.EnergyDrift
}

// New prepares an experiment that prints energy reports to out.
func New(cfg *config.Config, registry *Registry, out io.Writer) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Experiment{
		cfg:      cfg,
		registry: registry,
		out:      out,
		log:      logger.With("experiment"),
	}
}

func (e *Experiment) Setup() error {
	if e.simulator != nil {
		return fmt.Errorf("%w: experiment already set up", dynamo.ErrInvalidState)
	}
	cfg := e.cfg
	if err := cfg.Validate(); err != nil {
		return err
	}

	pot, err := e.registry.GetPotential(cfg.Potential)
	if err != nil {
		return err
	}

	a, err := lattice.Cubic(cfg.Element, cfg.Size)
	if err != nil {
		return fmt.Errorf("build lattice: %w", err)
	}

	cutoff, err := pot.Cutoff(cfg, a.Symbols)
	if err != nil {
		return err
	}
	backend, err := compute.Select(cfg.Backend, a.Cell, a.PBC, cutoff)
	if err != nil {
		return err
	}
	a.SetCalculator(pot.Build(cfg, backend))

	opts := []velocity.Option{}
	if cfg.ZeroMomentum {
		opts = append(opts, velocity.ZeroMomentum())
	}
	if err := velocity.MaxwellBoltzmann(a, cfg.Temperature, rand.New(rand.NewSource(cfg.Seed)), opts...); err != nil {
		return err
	}

	vv, err := integrators.NewVelocityVerlet(a, cfg.TimestepFs*units.Fs)
	if err != nil {
		return err
	}
	sim := dynamo.New(vv)

	e.drift = metrics.NewEnergyDrift()
	if err := sim.AttachInitial(metrics.NewReporter(e.out), cfg.PrintInterval); err != nil {
		return err
	}
	if err := sim.AttachInitial(e.drift, cfg.PrintInterval); err != nil {
		return err
	}

	if cfg.Trajectory != "" {
		w, err := traj.Create(cfg.Trajectory, a.Len(), map[string]string{
			"element":     cfg.Element,
			"potential":   cfg.Potential,
			"size":        strconv.Itoa(cfg.Size),
			"timestep_fs": strconv.FormatFloat(cfg.TimestepFs, 'g', -1, 64),
			"interval":    strconv.Itoa(cfg.SnapshotInterval),
		}, traj.Precision(cfg.Precision))
		if err != nil {
			return err
		}
		if err := sim.Attach(w, cfg.SnapshotInterval); err != nil {
			w.Close()
			return err
		}
		e.traj = w
	}

	e.atoms = a
	e.integrator = vv
	e.simulator = sim
	e.backend = backend

	e.log.Info().
		Str("element", cfg.Element).
		Int("atoms", a.Len()).
		Str("potential", cfg.Potential).
		Str("backend", backend.Name()).
		Float64("cutoff", cutoff).
		Float64("temperature", a.Temperature()).
		Msg("experiment ready")

	return nil
}

// Attach schedules an additional observer. Must be called between Setup
// and Run.
func (e *Experiment) Attach(obs dynamo.Observer, interval int) error {
	if e.simulator == nil {
		return fmt.Errorf("%w: experiment not set up", dynamo.ErrInvalidState)
	}
	return e.simulator.Attach(obs, interval)
}

// Run integrates cfg.Steps steps. The trajectory is closed whether or not
// the run succeeds; frames already written stay on disk.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("%w: experiment not set up", dynamo.ErrInvalidState)
	}

	start := time.Now()
	res, runErr := e.simulator.Run(ctx, e.cfg.Steps)

	result := &Result{
		Result:   res,
		Summary:  e.drift.Summary(),
		Records:  e.drift.Records(),
		Backend:  e.backend.Name(),
		Duration: time.Since(start),
	}
	if e.traj != nil {
		result.Frames = e.traj.Frames()
		if err := e.traj.Close(); err != nil {
			runErr = errors.Join(runErr, err)
		}
	}

	if runErr != nil {
		e.log.Error().Err(runErr).Msg("run aborted")
		return result, runErr
	}

	e.log.Info().
		Int("steps", res.StepsTaken).
		Int("frames", result.Frames).
		Float64("max_drift", result.Summary.MaxDrift).
		Dur("elapsed", result.Duration).
		Msg("run finished")
	return result, nil
}

func (e *Experiment) Config() *config.Config { return e.cfg }

func (e *Experiment) Atoms() *atoms.Atoms { return e.atoms }

func (e *Experiment) Drift() *metrics.EnergyDrift { return e.drift }

func (e *Experiment) Backend() compute.Backend { return e.backend }
