// Package automation runs batches of experiments: scripted scenarios,
// parameter sweeps and seed ensembles.
package automation

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/experiment"
	"github.com/san-kum/mdsim/internal/logger"
)

// Scenario is a scripted sequence of runs. Each step starts from the named
// preset (or the defaults) and overrides only the fields it sets.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

type ScenarioStep struct {
	Preset    string    `yaml:"preset"`
	Overrides yaml.Node `yaml:"config"`
}

// Config resolves the step's configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: unknown preset %q", dynamo.ErrParameterBounds, s.Preset)
		}
	}
	if !s.Overrides.IsZero() {
		if err := s.Overrides.Decode(cfg); err != nil {
			return nil, fmt.Errorf("%w: %w", dynamo.ErrParameterBounds, err)
		}
	}
	return cfg, cfg.Validate()
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dynamo.ErrIO, err)
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("%w: scenario %s: %w", dynamo.ErrParameterBounds, path, err)
	}
	return &scenario, nil
}

// RunScenario executes the steps in order, printing energy reports to out.
// The first failing step stops the scenario.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, out io.Writer) ([]*experiment.Result, error) {
	results := make([]*experiment.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		logger.Info().Str("scenario", scenario.Name).Int("step", i+1).
			Str("element", cfg.Element).Str("potential", cfg.Potential).Msg("scenario step")

		exp := experiment.New(cfg, registry, out)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, res)
	}

	return results, nil
}

// Sweep varies one numeric configuration field over evenly spaced values.
type Sweep struct {
	Base   *config.Config
	Param  string
	Min    float64
	Max    float64
	Points int
	// Workers bounds concurrent runs; zero means GOMAXPROCS.
	Workers int
}

type SweepResult struct {
	Value  float64
	Result *experiment.Result
	Err    error
}

var sweepParams = map[string]func(*config.Config, float64){
	"temperature": func(c *config.Config, v float64) { c.Temperature = v },
	"timestep_fs": func(c *config.Config, v float64) { c.TimestepFs = v },
	"lj.epsilon":  func(c *config.Config, v float64) { c.LJ.Epsilon = v },
	"lj.sigma":    func(c *config.Config, v float64) { c.LJ.Sigma = v },
	"lj.cutoff":   func(c *config.Config, v float64) { c.LJ.Cutoff = v },
}

func (s *Sweep) values() []float64 {
	if s.Points == 1 {
		return []float64{s.Min}
	}
	vals := make([]float64, s.Points)
	step := (s.Max - s.Min) / float64(s.Points-1)
	for i := range vals {
		vals[i] = s.Min + float64(i)*step
	}
	return vals
}

// RunSweep runs every point without a trajectory or energy output. A point
// that fails is reported in its SweepResult and does not stop the others.
func RunSweep(ctx context.Context, sweep *Sweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.Base == nil {
		return nil, fmt.Errorf("%w: sweep has no base configuration", dynamo.ErrParameterBounds)
	}
	set, ok := sweepParams[sweep.Param]
	if !ok {
		return nil, fmt.Errorf("%w: parameter %q cannot be swept", dynamo.ErrParameterBounds, sweep.Param)
	}
	if strings.HasPrefix(sweep.Param, "lj.") && sweep.Base.Potential != "lj" {
		return nil, fmt.Errorf("%w: %s has no effect with potential %q",
			dynamo.ErrParameterBounds, sweep.Param, sweep.Base.Potential)
	}
	if sweep.Points <= 0 {
		return nil, fmt.Errorf("%w: sweep needs at least one point", dynamo.ErrParameterBounds)
	}

	vals := sweep.values()
	cfgs := make([]*config.Config, len(vals))
	for i, v := range vals {
		cfg := sweep.Base.Clone()
		set(cfg, v)
		cfg.Trajectory = ""
		cfgs[i] = cfg
	}

	results := make([]SweepResult, len(vals))
	runAll(ctx, cfgs, registry, sweep.Workers, func(i int, res *experiment.Result, err error) {
		results[i] = SweepResult{Value: vals[i], Result: res, Err: err}
		logger.Info().Str("param", sweep.Param).Float64("value", vals[i]).AnErr("error", err).Msg("sweep point done")
	})

	return results, ctx.Err()
}

// RunEnsemble repeats base with n consecutive seeds starting at seedStart.
// The first error is returned after all runs finish.
func RunEnsemble(ctx context.Context, base *config.Config, n int, seedStart int64, registry *experiment.Registry) ([]*experiment.Result, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: ensemble needs at least one run", dynamo.ErrParameterBounds)
	}

	cfgs := make([]*config.Config, n)
	for i := range cfgs {
		cfg := base.Clone()
		cfg.Seed = seedStart + int64(i)
		cfg.Trajectory = ""
		cfgs[i] = cfg
	}

	results := make([]*experiment.Result, n)
	errs := make([]error, n)
	runAll(ctx, cfgs, registry, 0, func(i int, res *experiment.Result, err error) {
		results[i], errs[i] = res, err
	})

	for i, err := range errs {
		if err != nil {
			return results, fmt.Errorf("seed %d: %w", cfgs[i].Seed, err)
		}
	}
	return results, nil
}

func runAll(ctx context.Context, cfgs []*config.Config, registry *experiment.Registry, workers int,
	done func(i int, res *experiment.Result, err error)) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := runOne(ctx, cfgs[i], registry)
				mu.Lock()
				done(i, res, err)
				mu.Unlock()
			}
		}()
	}

	for i := range cfgs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

func runOne(ctx context.Context, cfg *config.Config, registry *experiment.Registry) (*experiment.Result, error) {
	exp := experiment.New(cfg, registry, io.Discard)
	if err := exp.Setup(); err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}
