package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/storage"
)

func newRunCmd(args ...string) *cobra.Command {
	cmd := &cobra.Command{Use: "run", RunE: runSimulation}
	addRunFlags(cmd)
	cmd.Flags().BoolVar(&noSave, "no-save", false, "")
	cmd.SetArgs(args)
	return cmd
}

func TestResolveConfigDefaults(t *testing.T) {
	cmd := newRunCmd()
	require.NoError(t, cmd.ParseFlags(nil))

	cfg, err := resolveConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "Ar", cfg.Element)
	assert.Equal(t, 20000, cfg.Steps)
}

func TestResolveConfigFlagsOverridePreset(t *testing.T) {
	t.Setenv("MDSIM_STEPS", "77")
	cmd := newRunCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--preset", "copper-small", "--temperature", "150", "--backend", "auto"}))

	cfg, err := resolveConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "Cu", cfg.Element)
	assert.Equal(t, "emt", cfg.Potential)
	assert.Equal(t, 150.0, cfg.Temperature)
	assert.Equal(t, "auto", cfg.Backend)
	assert.Equal(t, 77, cfg.Steps)
}

func TestResolveConfigErrors(t *testing.T) {
	cmd := newRunCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--preset", "plasma"}))
	_, err := resolveConfig(cmd)
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)

	cmd = newRunCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--print", "0"}))
	_, err = resolveConfig(cmd)
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
}

func TestRunCommandArchives(t *testing.T) {
	dataDir = t.TempDir()
	trajPath := filepath.Join(t.TempDir(), "out.traj")

	var out bytes.Buffer
	cmd := newRunCmd("--preset", "argon-small", "--steps", "20", "--traj", trajPath)
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "Energy per atom: Epot =", out.String()[:23])

	runs, err := storage.New(dataDir).List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 20, runs[0].Steps)
	assert.Equal(t, 2, runs[0].Frames)

	var info bytes.Buffer
	trajCmd := &cobra.Command{Use: "traj-info", Args: cobra.ExactArgs(1), RunE: trajInfo}
	trajCmd.SetOut(&info)
	trajCmd.SetArgs([]string{trajPath})
	require.NoError(t, trajCmd.Execute())
	assert.Contains(t, info.String(), "frames: 2 (steps 0..10)")
	assert.Contains(t, info.String(), "element: Ar")
}

func TestSweepCommand(t *testing.T) {
	cmd := newSweepCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--preset", "argon-small", "--steps", "10", "--points", "2", "--from", "20", "--to", "40"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "temperature")
	assert.Contains(t, out.String(), "MEAN T (K)")
	assert.Contains(t, out.String(), "\n40 ")
}

func TestSweepCommandRejectsParam(t *testing.T) {
	cmd := newSweepCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--preset", "argon-small", "--param", "size"})
	assert.ErrorIs(t, cmd.Execute(), dynamo.ErrParameterBounds)
}
