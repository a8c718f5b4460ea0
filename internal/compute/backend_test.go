package compute

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/mdsim/internal/dynamo"
)

var periodic = [3]bool{true, true, true}

func randomPositions(n int, box [3]float64, seed int64) [][3]float64 {
	rng := rand.New(rand.NewSource(seed))
	pos := make([][3]float64, n)
	for i := range pos {
		for k := 0; k < 3; k++ {
			// Some atoms sit outside the primary box, as they do after a
			// few unwrapped integration steps.
			pos[i][k] = (rng.Float64()*1.4 - 0.2) * box[k]
		}
	}
	return pos
}

func sortedKeys(pairs []Pair) [][2]int {
	keys := make([][2]int, len(pairs))
	for i, p := range pairs {
		keys[i] = [2]int{p.I, p.J}
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a][0] != keys[b][0] {
			return keys[a][0] < keys[b][0]
		}
		return keys[a][1] < keys[b][1]
	})
	return keys
}

func TestBackendsAgree(t *testing.T) {
	box := [3]float64{21.04, 21.04, 24.0}
	cutoff := 6.625
	pos := randomPositions(400, box, 7)

	brute, err := NewBruteForceBackend().Pairs(pos, box, periodic, cutoff)
	require.NoError(t, err)
	cells, err := NewCellListBackend().Pairs(pos, box, periodic, cutoff)
	require.NoError(t, err)

	require.NotEmpty(t, brute)
	assert.Equal(t, sortedKeys(brute), sortedKeys(cells))

	byKey := make(map[[2]int]Pair, len(brute))
	for _, p := range brute {
		byKey[[2]int{p.I, p.J}] = p
	}
	for _, p := range cells {
		q := byKey[[2]int{p.I, p.J}]
		assert.InDelta(t, q.R, p.R, 1e-12)
		assert.Less(t, p.I, p.J)
		assert.Less(t, p.R, cutoff)
	}
}

func TestMinimumImage(t *testing.T) {
	box := [3]float64{10, 10, 10}
	pos := [][3]float64{{0.5, 5, 5}, {9.5, 5, 5}}

	pairs, err := NewBruteForceBackend().Pairs(pos, box, periodic, 2)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.InDelta(t, 1.0, pairs[0].R, 1e-12)
	assert.InDelta(t, -1.0, pairs[0].D[0], 1e-12)

	pairs, err = NewBruteForceBackend().Pairs(pos, box, [3]bool{false, true, true}, 2)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestCutoffLargerThanHalfBox(t *testing.T) {
	box := [3]float64{10, 10, 10}
	_, err := NewBruteForceBackend().Pairs(nil, box, periodic, 6)
	assert.ErrorIs(t, err, dynamo.ErrEngineFailure)

	_, err = NewCellListBackend().Pairs(nil, box, periodic, 6)
	assert.ErrorIs(t, err, dynamo.ErrEngineFailure)
}

func TestSelect(t *testing.T) {
	large := [3]float64{31.56, 31.56, 31.56}
	small := [3]float64{15.78, 15.78, 15.78}

	tests := []struct {
		name    string
		box     [3]float64
		want    string
		wantErr bool
	}{
		{Auto, large, Cells, false},
		{Auto, small, Brute, false},
		{"", large, Cells, false},
		{Cells, large, Cells, false},
		{Cells, small, "", true},
		{Brute, large, Brute, false},
		{"gpu", large, "", true},
	}

	for _, tt := range tests {
		b, err := Select(tt.name, tt.box, periodic, 6.625)
		if tt.wantErr {
			assert.ErrorIs(t, err, dynamo.ErrParameterBounds, "backend %q", tt.name)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, b.Name(), "backend %q box %v", tt.name, tt.box)
	}
}

func TestParallelForCoversRange(t *testing.T) {
	seen := make([]int, 103)
	ParallelFor(len(seen), 4, func(_, start, end int) {
		for i := start; i < end; i++ {
			seen[i]++
		}
	})
	for i, c := range seen {
		assert.Equal(t, 1, c, "index %d", i)
	}
}

func TestWorkers(t *testing.T) {
	assert.Equal(t, 1, Workers(3, 8))
	assert.GreaterOrEqual(t, Workers(1000, 8), 1)
}
