// Package config holds the run configuration. Values come from a YAML file
// or preset, then MDSIM_* environment variables, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/mdsim/internal/dynamo"
)

const (
	DefaultElement          = "Ar"
	DefaultSize             = 6
	DefaultPotential        = "lj"
	DefaultTemperature      = 40.0
	DefaultTimestepFs       = 1.0
	DefaultSteps            = 20000
	DefaultSnapshotInterval = 10
	DefaultPrintInterval    = 100
	DefaultTrajectory       = "argon.traj"
	DefaultBackend          = "auto"
	DefaultPrecision        = 3
)

// EnvPrefix is prepended to upper-cased keys, so lj.cutoff is read from
// MDSIM_LJ_CUTOFF.
const EnvPrefix = "MDSIM"

type LJConfig struct {
	Epsilon  float64 `yaml:"epsilon" mapstructure:"epsilon"`
	Sigma    float64 `yaml:"sigma" mapstructure:"sigma"`
	Cutoff   float64 `yaml:"cutoff" mapstructure:"cutoff"`
	Modified bool    `yaml:"modified" mapstructure:"modified"`
}

type Config struct {
	Element          string   `yaml:"element" mapstructure:"element"`
	Size             int      `yaml:"size" mapstructure:"size"`
	Potential        string   `yaml:"potential" mapstructure:"potential"`
	LJ               LJConfig `yaml:"lj" mapstructure:"lj"`
	Temperature      float64  `yaml:"temperature" mapstructure:"temperature"`
	TimestepFs       float64  `yaml:"timestep_fs" mapstructure:"timestep_fs"`
	Steps            int      `yaml:"steps" mapstructure:"steps"`
	SnapshotInterval int      `yaml:"snapshot_interval" mapstructure:"snapshot_interval"`
	PrintInterval    int      `yaml:"print_interval" mapstructure:"print_interval"`
	Trajectory       string   `yaml:"trajectory" mapstructure:"trajectory"`
	Precision        int      `yaml:"precision" mapstructure:"precision"`
	Seed             int64    `yaml:"seed" mapstructure:"seed"`
	Backend          string   `yaml:"backend" mapstructure:"backend"`
	ZeroMomentum     bool     `yaml:"zero_momentum" mapstructure:"zero_momentum"`
}

// DefaultConfig is the 864-atom argon crystal at 40 K.
func DefaultConfig() *Config {
	return &Config{
		Element:   DefaultElement,
		Size:      DefaultSize,
		Potential: DefaultPotential,
		LJ: LJConfig{
			Epsilon:  0.010323,
			Sigma:    3.4,
			Cutoff:   6.625,
			Modified: true,
		},
		Temperature:      DefaultTemperature,
		TimestepFs:       DefaultTimestepFs,
		Steps:            DefaultSteps,
		SnapshotInterval: DefaultSnapshotInterval,
		PrintInterval:    DefaultPrintInterval,
		Trajectory:       DefaultTrajectory,
		Precision:        DefaultPrecision,
		Backend:          DefaultBackend,
	}
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func setDefaults(v *viper.Viper, base *Config) {
	v.SetDefault("element", base.Element)
	v.SetDefault("size", base.Size)
	v.SetDefault("potential", base.Potential)
	v.SetDefault("lj.epsilon", base.LJ.Epsilon)
	v.SetDefault("lj.sigma", base.LJ.Sigma)
	v.SetDefault("lj.cutoff", base.LJ.Cutoff)
	v.SetDefault("lj.modified", base.LJ.Modified)
	v.SetDefault("temperature", base.Temperature)
	v.SetDefault("timestep_fs", base.TimestepFs)
	v.SetDefault("steps", base.Steps)
	v.SetDefault("snapshot_interval", base.SnapshotInterval)
	v.SetDefault("print_interval", base.PrintInterval)
	v.SetDefault("trajectory", base.Trajectory)
	v.SetDefault("precision", base.Precision)
	v.SetDefault("seed", base.Seed)
	v.SetDefault("backend", base.Backend)
	v.SetDefault("zero_momentum", base.ZeroMomentum)
}

// Load reads path (if non-empty) over base and applies environment
// overrides. A nil base means DefaultConfig.
func Load(path string, base *Config) (*Config, error) {
	if base == nil {
		base = DefaultConfig()
	}

	v := viper.New()
	setDefaults(v, base)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every out-of-range field at once.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{dynamo.ErrParameterBounds}, args...)...))
	}

	if c.Element == "" {
		bad("element is empty")
	}
	if c.Size <= 0 {
		bad("size must be positive, got %d", c.Size)
	}
	switch c.Potential {
	case "lj":
		if c.LJ.Epsilon <= 0 || c.LJ.Sigma <= 0 || c.LJ.Cutoff <= 0 {
			bad("lj parameters must be positive, got epsilon=%g sigma=%g cutoff=%g",
				c.LJ.Epsilon, c.LJ.Sigma, c.LJ.Cutoff)
		}
	case "emt":
	default:
		bad("unknown potential %q", c.Potential)
	}
	if c.Temperature < 0 {
		bad("temperature must be non-negative, got %g", c.Temperature)
	}
	if c.TimestepFs <= 0 {
		bad("timestep_fs must be positive, got %g", c.TimestepFs)
	}
	if c.Steps < 0 {
		bad("steps must be non-negative, got %d", c.Steps)
	}
	if c.SnapshotInterval <= 0 {
		bad("snapshot_interval must be positive, got %d", c.SnapshotInterval)
	}
	if c.PrintInterval <= 0 {
		bad("print_interval must be positive, got %d", c.PrintInterval)
	}
	if c.Precision < 0 || c.Precision > 8 {
		bad("precision must be in [0, 8], got %d", c.Precision)
	}
	switch c.Backend {
	case "auto", "cells", "brute":
	default:
		bad("unknown backend %q", c.Backend)
	}

	return errors.Join(errs...)
}
