package multinomial_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tianran/glimvec/multinomial"
	"github.com/tianran/glimvec/rngstream"
)

func TestNewTable_RejectsEmpty(t *testing.T) {
	require := require.New(t)

	_, err := multinomial.NewTable(nil, 1024)
	require.True(errors.Is(err, multinomial.ErrEmptyWeights))
}

func TestNewTable_RejectsZeroTotal(t *testing.T) {
	require := require.New(t)

	_, err := multinomial.NewTable([]float64{0, 0, 0}, 1024)
	require.True(errors.Is(err, multinomial.ErrNonPositiveTotal))
}

func TestNewTable_RejectsZeroSize(t *testing.T) {
	require := require.New(t)

	_, err := multinomial.NewTable([]float64{1, 2}, 0)
	require.True(errors.Is(err, multinomial.ErrBadTableSize))
}

func TestSample_EveryPositiveWeightReachable(t *testing.T) {
	require := require.New(t)

	weights := []float64{1, 0, 5, 2}
	tab, err := multinomial.NewTable(weights, 65536)
	require.NoError(err)

	rng := rngstream.NewFromSeed(11)
	seen := make(map[uint32]bool)
	for i := 0; i < 20000; i++ {
		seen[tab.Sample(rng)] = true
	}
	require.True(seen[0])
	require.True(seen[2])
	require.True(seen[3])
}

func TestSample_ConvergesToWeightedFrequency(t *testing.T) {
	require := require.New(t)

	weights := []float64{1, 3, 6}
	tab, err := multinomial.NewTable(weights, 65536)
	require.NoError(err)

	rng := rngstream.NewFromSeed(99)
	const n = 300000
	counts := make([]int, len(weights))
	for i := 0; i < n; i++ {
		counts[tab.Sample(rng)]++
	}

	total := 1.0 + 3.0 + 6.0
	for i, w := range weights {
		expected := w / total
		actual := float64(counts[i]) / float64(n)
		require.InDelta(expected, actual, 0.02, "index %d frequency should converge", i)
	}
}

func TestTable_ChoicesAndProbMatchInput(t *testing.T) {
	require := require.New(t)

	weights := []float64{2, 2, 4}
	tab, err := multinomial.NewTable(weights, 1024)
	require.NoError(err)

	require.Equal(uint32(3), tab.Choices())
	require.True(math.Abs(tab.Prob(2)-1.0) < 1e-9)
}
