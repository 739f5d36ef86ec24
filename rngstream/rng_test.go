package rngstream_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tianran/glimvec/rngstream"
)

func TestNewFromSeed_Deterministic(t *testing.T) {
	require := require.New(t)

	a := rngstream.NewFromSeed(42)
	b := rngstream.NewFromSeed(42)

	for i := 0; i < 1000; i++ {
		require.Equal(a.Next64(), b.Next64(), "same seed must reproduce the same draw sequence")
	}
}

func TestNextFloat_Range(t *testing.T) {
	require := require.New(t)

	s := rngstream.NewFromSeed(7)
	for i := 0; i < 10000; i++ {
		f64 := s.NextFloat64()
		require.GreaterOrEqual(f64, 0.0)
		require.Less(f64, 1.0)

		f32 := s.NextFloat32()
		require.GreaterOrEqual(f32, float32(0.0))
		require.Less(f32, float32(1.0))
	}
}

func TestNextBounded_WithinRange(t *testing.T) {
	require := require.New(t)

	s := rngstream.NewFromSeed(99)
	const n = 17
	for i := 0; i < 5000; i++ {
		v := s.NextBounded(n)
		require.Less(v, uint64(n))
	}
}

// TestJump_DisjointStreams reproduces testable property 6: two workers
// seeded identically but jumped a different number of times must not
// collide across a large number of draws.
func TestJump_DisjointStreams(t *testing.T) {
	require := require.New(t)

	base := rngstream.NewFromSeed(2026)

	worker0 := base.Clone()
	worker0.Jump()

	worker1 := base.Clone()
	worker1.Jump()
	worker1.Jump()

	const draws = 100000
	seen := make(map[uint64]struct{}, draws)
	for i := 0; i < draws; i++ {
		seen[worker0.Next64()] = struct{}{}
	}
	collisions := 0
	for i := 0; i < draws; i++ {
		if _, ok := seen[worker1.Next64()]; ok {
			collisions++
		}
	}
	require.Less(collisions, draws/100, "jumped streams should not meaningfully collide")
}

func TestJump_ChangesState(t *testing.T) {
	require := require.New(t)

	a := rngstream.NewFromSeed(1)
	b := a.Clone()
	b.Jump()

	require.NotEqual(a.Next64(), b.Next64())
}

func TestClone_Independent(t *testing.T) {
	require := require.New(t)

	a := rngstream.NewFromSeed(5)
	b := a.Clone()

	a.Next64()
	require.NotEqual(a.String(), b.String(), "mutating the original must not affect the clone")
}
