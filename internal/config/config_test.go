package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mdsim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "Ar", cfg.Element)
	assert.Equal(t, 6, cfg.Size)
	assert.Equal(t, "lj", cfg.Potential)
	assert.True(t, cfg.LJ.Modified)
	assert.Equal(t, 10, cfg.SnapshotInterval)
	assert.Equal(t, 100, cfg.PrintInterval)
	assert.NoError(t, cfg.Validate())
}

func TestPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		require.NotNil(t, cfg, name)
		assert.NoError(t, cfg.Validate(), name)
	}
}

func TestGetPresetReturnsCopy(t *testing.T) {
	cfg := GetPreset("copper")
	require.NotNil(t, cfg)
	cfg.Steps = 1

	assert.Equal(t, 1000, GetPreset("copper").Steps)
	assert.Nil(t, GetPreset("nonexistent"))
}

func TestListPresetsSorted(t *testing.T) {
	assert.Equal(t, []string{"argon", "argon-small", "copper", "copper-small"}, ListPresets())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("element: Cu\npotential: emt\nsize: 4\nlj:\n  cutoff: 7.5\n"), 0644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "Cu", cfg.Element)
	assert.Equal(t, "emt", cfg.Potential)
	assert.Equal(t, 4, cfg.Size)
	assert.Equal(t, 7.5, cfg.LJ.Cutoff)
	assert.Equal(t, 3.4, cfg.LJ.Sigma)
	assert.Equal(t, DefaultSteps, cfg.Steps)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("MDSIM_STEPS", "250")
	t.Setenv("MDSIM_LJ_EPSILON", "0.02")
	t.Setenv("MDSIM_BACKEND", "brute")

	cfg, err := Load("", GetPreset("argon-small"))
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Steps)
	assert.Equal(t, 0.02, cfg.LJ.Epsilon)
	assert.Equal(t, "brute", cfg.Backend)
	assert.Equal(t, 3, cfg.Size)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	orig := GetPreset("copper-small")
	orig.Seed = 99
	require.NoError(t, Save(path, orig))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, orig, cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty element", func(c *Config) { c.Element = "" }},
		{"zero size", func(c *Config) { c.Size = 0 }},
		{"unknown potential", func(c *Config) { c.Potential = "morse" }},
		{"negative epsilon", func(c *Config) { c.LJ.Epsilon = -1 }},
		{"negative temperature", func(c *Config) { c.Temperature = -5 }},
		{"zero timestep", func(c *Config) { c.TimestepFs = 0 }},
		{"negative steps", func(c *Config) { c.Steps = -1 }},
		{"zero snapshot interval", func(c *Config) { c.SnapshotInterval = 0 }},
		{"zero print interval", func(c *Config) { c.PrintInterval = 0 }},
		{"bad precision", func(c *Config) { c.Precision = 9 }},
		{"unknown backend", func(c *Config) { c.Backend = "gpu" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), dynamo.ErrParameterBounds)
		})
	}
}

func TestValidateEMTIgnoresLJ(t *testing.T) {
	cfg := GetPreset("copper")
	cfg.LJ = LJConfig{}
	assert.NoError(t, cfg.Validate())
}
