package config

import "sort"

var Presets = map[string]*Config{
	"argon": DefaultConfig(),
	"argon-small": {
		Element: "Ar", Size: 3, Potential: "lj",
		LJ:          LJConfig{Epsilon: 0.010323, Sigma: 3.4, Cutoff: 6.625, Modified: true},
		Temperature: 40, TimestepFs: 1, Steps: 2000,
		SnapshotInterval: 10, PrintInterval: 100,
		Trajectory: "argon-small.traj", Precision: DefaultPrecision, Backend: "auto",
	},
	"copper": {
		Element: "Cu", Size: 10, Potential: "emt",
		Temperature: 300, TimestepFs: 5, Steps: 1000,
		SnapshotInterval: 10, PrintInterval: 100,
		Trajectory: "copper.traj", Precision: DefaultPrecision, Backend: "auto",
		ZeroMomentum: true,
	},
	"copper-small": {
		Element: "Cu", Size: 3, Potential: "emt",
		Temperature: 300, TimestepFs: 5, Steps: 500,
		SnapshotInterval: 10, PrintInterval: 50,
		Trajectory: "copper-small.traj", Precision: DefaultPrecision, Backend: "brute",
		ZeroMomentum: true,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
