package kgraph_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tianran/glimvec/kgraph"
)

func TestLoad_InjectsInverseRelations(t *testing.T) {
	require := require.New(t)

	// a --r--> b --r--> c
	triples := []kgraph.Triple{
		{Head: 0, Relation: 0, Tail: 1},
		{Head: 1, Relation: 0, Tail: 2},
	}
	g, err := kgraph.Load(3, 1, triples)
	require.NoError(err)
	require.EqualValues(3, g.NumEntities())
	require.EqualValues(1, g.NumRelations())

	// a has one forward edge (r, b)
	aEdges := g.Neighbors(0)
	require.Len(aEdges, 1)
	require.EqualValues(0, aEdges[0].Relation)
	require.EqualValues(1, aEdges[0].Tail)

	// b has the inverse edge from a (relation r+R=1, tail a) and the
	// forward edge to c (relation r=0, tail c)
	bEdges := g.Neighbors(1)
	require.Len(bEdges, 2)

	// c only has the inverse edge back to b
	cEdges := g.Neighbors(2)
	require.Len(cEdges, 1)
	require.EqualValues(1, cEdges[0].Relation) // r + numRelations
	require.EqualValues(1, cEdges[0].Tail)
}

func TestLoad_RejectsOutOfRangeEntity(t *testing.T) {
	require := require.New(t)

	_, err := kgraph.Load(2, 1, []kgraph.Triple{{Head: 0, Relation: 0, Tail: 5}})
	require.True(errors.Is(err, kgraph.ErrEntityOutOfRange))
}

func TestLoad_RejectsOutOfRangeRelation(t *testing.T) {
	require := require.New(t)

	_, err := kgraph.Load(2, 1, []kgraph.Triple{{Head: 0, Relation: 7, Tail: 1}})
	require.True(errors.Is(err, kgraph.ErrRelationOutOfRange))
}

func TestLoad_EmptyTriplesLeavesAllNeighborsEmpty(t *testing.T) {
	require := require.New(t)

	g, err := kgraph.Load(4, 2, nil)
	require.NoError(err)
	for i := uint32(0); i < 4; i++ {
		require.Empty(g.Neighbors(i))
	}
}
