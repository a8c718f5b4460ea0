package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mdsim/internal/dynamo"
	"github.com/san-kum/mdsim/internal/metrics"
)

func series() []metrics.Record {
	out := make([]metrics.Record, 0, 5)
	for i := 0; i < 5; i++ {
		ekin := 0.005 - 0.0005*float64(i)
		out = append(out, metrics.Record{Step: 100 * i, Sample: metrics.Sample{
			PotentialPerAtom: -0.0637 + 0.0005*float64(i),
			KineticPerAtom:   ekin,
			TotalPerAtom:     -0.0587,
		}})
	}
	return out
}

func TestEnergyPlotFormats(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"energy.png", "energy.svg"} {
		path := filepath.Join(dir, name)
		require.NoError(t, EnergyPlot(path, "argon", series()))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestEnergyPlotErrors(t *testing.T) {
	dir := t.TempDir()

	err := EnergyPlot(filepath.Join(dir, "empty.png"), "", nil)
	assert.ErrorIs(t, err, dynamo.ErrInvalidState)

	err = EnergyPlot(filepath.Join(dir, "energy.bogus"), "", series())
	assert.ErrorIs(t, err, dynamo.ErrIO)

	err = EnergyPlot(filepath.Join(dir, "missing", "energy.png"), "", series())
	assert.ErrorIs(t, err, dynamo.ErrIO)
}
