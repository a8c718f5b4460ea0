package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/dynamo"
)

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("config", "", "config file path (yaml)")
	f.String("preset", "", "start from a named preset (see 'mdsim presets')")
	f.String("element", config.DefaultElement, "chemical symbol of the fcc crystal")
	f.Int("size", config.DefaultSize, "conventional cells along each axis")
	f.String("potential", config.DefaultPotential, "interatomic potential (lj, emt)")
	f.Float64("temperature", config.DefaultTemperature, "initial temperature in K")
	f.Float64("timestep", config.DefaultTimestepFs, "time step in fs")
	f.Int("steps", config.DefaultSteps, "number of integration steps")
	f.Int("snapshot", config.DefaultSnapshotInterval, "steps between trajectory frames")
	f.Int("print", config.DefaultPrintInterval, "steps between energy reports")
	f.String("traj", config.DefaultTrajectory, "trajectory file (empty to disable)")
	f.Int64("seed", 0, "random seed for initial velocities")
	f.String("backend", config.DefaultBackend, "pair search backend (auto, cells, brute)")
	f.Bool("zero-momentum", false, "remove centre-of-mass drift from initial velocities")
}

// resolveConfig layers preset or defaults, then the config file and
// environment, then any flags set explicitly on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	f := cmd.Flags()

	base := config.DefaultConfig()
	if name, _ := f.GetString("preset"); name != "" {
		base = config.GetPreset(name)
		if base == nil {
			return nil, fmt.Errorf("%w: unknown preset %q (available: %s)",
				dynamo.ErrParameterBounds, name, strings.Join(config.ListPresets(), ", "))
		}
	}

	path, _ := f.GetString("config")
	cfg, err := config.Load(path, base)
	if err != nil {
		return nil, err
	}

	if f.Changed("element") {
		cfg.Element, _ = f.GetString("element")
	}
	if f.Changed("size") {
		cfg.Size, _ = f.GetInt("size")
	}
	if f.Changed("potential") {
		cfg.Potential, _ = f.GetString("potential")
	}
	if f.Changed("temperature") {
		cfg.Temperature, _ = f.GetFloat64("temperature")
	}
	if f.Changed("timestep") {
		cfg.TimestepFs, _ = f.GetFloat64("timestep")
	}
	if f.Changed("steps") {
		cfg.Steps, _ = f.GetInt("steps")
	}
	if f.Changed("snapshot") {
		cfg.SnapshotInterval, _ = f.GetInt("snapshot")
	}
	if f.Changed("print") {
		cfg.PrintInterval, _ = f.GetInt("print")
	}
	if f.Changed("traj") {
		cfg.Trajectory, _ = f.GetString("traj")
	}
	if f.Changed("seed") {
		cfg.Seed, _ = f.GetInt64("seed")
	}
	if f.Changed("backend") {
		cfg.Backend, _ = f.GetString("backend")
	}
	if f.Changed("zero-momentum") {
		cfg.ZeroMomentum, _ = f.GetBool("zero-momentum")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
