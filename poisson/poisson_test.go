package poisson_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tianran/glimvec/poisson"
	"github.com/tianran/glimvec/rngstream"
)

func TestNew_RejectsNegativeLambda(t *testing.T) {
	require := require.New(t)

	_, err := poisson.New(-1)
	require.Error(err)
	require.True(errors.Is(err, poisson.ErrNegativeLambda))
}

func TestSample_ConvergesToLambda(t *testing.T) {
	require := require.New(t)

	const lambda = 3.2
	p, err := poisson.New(lambda)
	require.NoError(err)

	rng := rngstream.NewFromSeed(123)

	const n = 200000
	var sum uint64
	for i := 0; i < n; i++ {
		sum += p.Sample(rng)
	}
	mean := float64(sum) / float64(n)
	require.InDelta(lambda, mean, 0.05, "empirical mean should converge to lambda")
}

func TestStop_ExpectedExtensionsMatchLambda(t *testing.T) {
	require := require.New(t)

	const lambda = 0.5
	p, err := poisson.New(lambda)
	require.NoError(err)

	rng := rngstream.NewFromSeed(7)

	const trials = 200000
	var totalExtensions uint64
	for i := 0; i < trials; i++ {
		p.Reset()
		var extensions uint64
		for !p.Stop(rng) {
			extensions++
		}
		totalExtensions += extensions
	}
	mean := float64(totalExtensions) / float64(trials)
	require.InDelta(lambda, mean, 0.05)
}

func TestSample_ZeroLambdaAlwaysZero(t *testing.T) {
	require := require.New(t)

	p, err := poisson.New(0)
	require.NoError(err)

	rng := rngstream.NewFromSeed(1)
	for i := 0; i < 100; i++ {
		require.Equal(uint64(0), p.Sample(rng))
	}
}

func TestSample_LargeLambdaNoNaN(t *testing.T) {
	require := require.New(t)

	p, err := poisson.New(2000)
	require.NoError(err)

	rng := rngstream.NewFromSeed(2026)
	for i := 0; i < 50; i++ {
		v := p.Sample(rng)
		require.False(math.IsNaN(float64(v)))
	}
}
