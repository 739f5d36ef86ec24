package vocab_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tianran/glimvec/vocab"
)

func TestLoadEntities_OrdersByAppearance(t *testing.T) {
	require := require.New(t)
	r := vocab.NewLineReader(strings.NewReader("a\t3\nb\t1\nc\t4\n"))

	ents, err := vocab.LoadEntities(r)
	require.NoError(err)
	require.Equal([]string{"a", "b", "c"}, ents.Names)
	require.Equal([]float64{3, 1, 4}, ents.Counts)
	require.Equal(uint32(1), ents.Index["b"])
}

func TestLoadEntities_StripsCR(t *testing.T) {
	require := require.New(t)
	r := vocab.NewLineReader(strings.NewReader("a\t3\r\nb\t1\r\n"))

	ents, err := vocab.LoadEntities(r)
	require.NoError(err)
	require.Equal([]string{"a", "b"}, ents.Names)
}

func TestLoadEntities_MalformedLine(t *testing.T) {
	require := require.New(t)
	r := vocab.NewSliceLineReader([]string{"onlyname"})

	_, err := vocab.LoadEntities(r)
	require.Error(err)
	require.True(errors.Is(err, vocab.ErrMalformedLine))
}

func TestLoadRelations(t *testing.T) {
	require := require.New(t)
	r := vocab.NewSliceLineReader([]string{"friend_of\t10", "works_at\t5"})

	rels, err := vocab.LoadRelations(r)
	require.NoError(err)
	require.Equal([]string{"friend_of", "works_at"}, rels.Names)
	require.Equal(uint32(0), rels.Index["friend_of"])
}

func TestLoadTriples_ResolvesNames(t *testing.T) {
	require := require.New(t)
	ents, err := vocab.LoadEntities(vocab.NewSliceLineReader([]string{"a\t1", "b\t1", "c\t1"}))
	require.NoError(err)
	rels, err := vocab.LoadRelations(vocab.NewSliceLineReader([]string{"r"}))
	require.NoError(err)

	triples, err := vocab.LoadTriples(vocab.NewSliceLineReader([]string{"a\tr\tb", "b\tr\tc"}), ents, rels)
	require.NoError(err)
	require.Len(triples, 2)
	require.Equal(uint32(0), triples[0].Head)
	require.Equal(uint32(1), triples[0].Tail)
	require.Equal(uint32(0), triples[0].Relation)
}

func TestLoadTriples_UnknownEntity(t *testing.T) {
	require := require.New(t)
	ents, err := vocab.LoadEntities(vocab.NewSliceLineReader([]string{"a\t1", "b\t1"}))
	require.NoError(err)
	rels, err := vocab.LoadRelations(vocab.NewSliceLineReader([]string{"r"}))
	require.NoError(err)

	_, err = vocab.LoadTriples(vocab.NewSliceLineReader([]string{"a\tr\tghost"}), ents, rels)
	require.Error(err)
	require.True(errors.Is(err, vocab.ErrUnknownName))
}

func TestLoadTriples_UnknownRelation(t *testing.T) {
	require := require.New(t)
	ents, err := vocab.LoadEntities(vocab.NewSliceLineReader([]string{"a\t1", "b\t1"}))
	require.NoError(err)
	rels, err := vocab.LoadRelations(vocab.NewSliceLineReader([]string{"r"}))
	require.NoError(err)

	_, err = vocab.LoadTriples(vocab.NewSliceLineReader([]string{"a\tghost\tb"}), ents, rels)
	require.Error(err)
	require.True(errors.Is(err, vocab.ErrUnknownName))
}

func TestSliceLineReader_EmptyOnConstruction(t *testing.T) {
	require := require.New(t)
	r := vocab.NewSliceLineReader(nil)
	require.True(r.Empty())
}
