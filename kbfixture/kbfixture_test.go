package kbfixture_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tianran/glimvec/kbfixture"
)

func TestClique_AllPairsReachable(t *testing.T) {
	require := require.New(t)
	ents, rels, triples, err := kbfixture.Build(4, 1, nil, kbfixture.Clique(4))
	require.NoError(err)
	require.Len(ents.Names, 4)
	require.Len(rels.Names, 1)
	require.Len(triples, 6) // C(4,2)
}

func TestChain_LinksConsecutiveEntities(t *testing.T) {
	require := require.New(t)
	_, _, triples, err := kbfixture.Build(5, 1, nil, kbfixture.Chain(5))
	require.NoError(err)
	require.Len(triples, 4)
	for i, tr := range triples {
		require.Equal(uint32(i), tr.Head)
		require.Equal(uint32(i+1), tr.Tail)
	}
}

func TestClique_NExceedsEntities(t *testing.T) {
	require := require.New(t)
	_, _, _, err := kbfixture.Build(3, 1, nil, kbfixture.Clique(5))
	require.Error(err)
	require.True(errors.Is(err, kbfixture.ErrTooFewEntities))
}

func TestRandomSparse_Deterministic(t *testing.T) {
	require := require.New(t)
	opts := []kbfixture.Option{kbfixture.WithSeed(123)}
	_, _, t1, err := kbfixture.Build(20, 3, opts, kbfixture.RandomSparse(0.3))
	require.NoError(err)
	_, _, t2, err := kbfixture.Build(20, 3, opts, kbfixture.RandomSparse(0.3))
	require.NoError(err)
	require.Equal(t1, t2)
}

func TestRandomSparse_InvalidProbability(t *testing.T) {
	require := require.New(t)
	_, _, _, err := kbfixture.Build(4, 1, nil, kbfixture.RandomSparse(1.5))
	require.Error(err)
	require.True(errors.Is(err, kbfixture.ErrInvalidProbability))
}

func TestBuild_NilConstructor(t *testing.T) {
	require := require.New(t)
	_, _, _, err := kbfixture.Build(4, 1, nil, nil)
	require.Error(err)
	require.True(errors.Is(err, kbfixture.ErrNilConstructor))
}

func TestBuild_ComposesMultipleConstructors(t *testing.T) {
	require := require.New(t)
	_, _, triples, err := kbfixture.Build(6, 1, nil, kbfixture.Chain(3), kbfixture.Clique(3))
	require.NoError(err)
	require.Len(triples, 2+3) // chain edges + clique pairs over first 3
}
