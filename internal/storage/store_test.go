package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mdsim/internal/config"
	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/experiment"
	"github.com/san-kum/mdsim/internal/metrics"
)

func fakeResult() *experiment.Result {
	return &experiment.Result{
		Result: &dynamo.Result{
			StepsTaken:   200,
			Observations: 3,
			Metrics:      map[string]float64{"energy_drift": 1.5e-5},
		},
		Summary: metrics.DriftSummary{Samples: 3, MaxDrift: 1.5e-5},
		Records: []metrics.Record{
			{Step: 0, Sample: metrics.Sample{PotentialPerAtom: -0.0637, KineticPerAtom: 0.0052, Temperature: 40.2, TotalPerAtom: -0.0585}},
			{Step: 100, Sample: metrics.Sample{PotentialPerAtom: -0.0611, KineticPerAtom: 0.0026, Temperature: 20.1, TotalPerAtom: -0.0585}},
		},
		Frames:   20,
		Backend:  "cells",
		Duration: 2 * time.Second,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	cfg := config.DefaultConfig()
	cfg.Seed = 42
	runID, err := st.Save(cfg, 864, fakeResult())
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "Ar", meta.Element)
	assert.Equal(t, 864, meta.Atoms)
	assert.Equal(t, int64(42), meta.Seed)
	assert.Equal(t, 200, meta.Steps)
	assert.Equal(t, "cells", meta.Backend)
	assert.Equal(t, 1.5e-5, meta.Metrics["energy_drift"])
	assert.Equal(t, 3, meta.Drift.Samples)

	records, err := st.LoadEnergies(runID)
	require.NoError(t, err)
	assert.Equal(t, fakeResult().Records, records)
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	first, err := st.Save(config.DefaultConfig(), 864, fakeResult())
	require.NoError(t, err)
	second, err := st.Save(config.GetPreset("copper"), 4000, fakeResult())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	require.NoError(t, os.Mkdir(filepath.Join(dir, "junk"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir())

	_, err := st.Load("nope")
	assert.ErrorIs(t, err, dynamo.ErrIO)
	_, err = st.LoadEnergies("nope")
	assert.ErrorIs(t, err, dynamo.ErrIO)
}
