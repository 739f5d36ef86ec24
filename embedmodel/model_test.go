package embedmodel_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tianran/glimvec/embedmodel"
	"github.com/tianran/glimvec/rngstream"
)

// TestInit_Invariants reproduces testable property 1: C/T columns start
// identical, every M has trace near D/2, all counters are 0, E equals D.
func TestInit_Invariants(t *testing.T) {
	require := require.New(t)

	const w, r = 6, 2
	m := embedmodel.Init(w, r, rngstream.NewFromSeed(42))

	for i := uint32(0); i < w; i++ {
		c := m.Vec(m.CIndex(i))
		tv := m.Vec(m.TIndex(i))
		require.Equal(c, tv, "C[%d] and T[%d] must start bitwise identical", i, i)
	}

	for rel := uint32(0); rel < 2*r; rel++ {
		tr := embedmodel.Trace(m.Mat(rel), embedmodel.Dim)
		require.InDelta(embedmodel.Dim/2, tr, 20, "relation %d trace should be near D/2", rel)
	}

	for i := range m.VSteps {
		require.EqualValues(0, m.VSteps[i].Load())
	}
	for i := range m.MSteps {
		require.EqualValues(0, m.MSteps[i].Load())
	}
	require.EqualValues(0, m.DEncStep.Load())
	require.Equal(m.Enc, m.Dec)
}

func TestInit_Deterministic(t *testing.T) {
	require := require.New(t)

	a := embedmodel.Init(16, 4, rngstream.NewFromSeed(1))
	b := embedmodel.Init(16, 4, rngstream.NewFromSeed(1))

	require.Equal(a.CT, b.CT)
	require.Equal(a.Mats, b.Mats)
	require.Equal(a.Enc, b.Enc)
	require.Equal(a.Dec, b.Dec)
}

// TestSaveLoad_RoundTrip reproduces testable property 2 and end-to-end
// scenario 4 (resume identity).
func TestSaveLoad_RoundTrip(t *testing.T) {
	require := require.New(t)

	const w, r = 5, 2
	m := embedmodel.Init(w, r, rngstream.NewFromSeed(7))
	m.VSteps[0].Store(3)
	m.MSteps[1].Store(9)
	m.DEncStep.Store(4)

	dir := t.TempDir()
	require.NoError(m.Save(dir))

	loaded, err := embedmodel.Load(w, r, dir)
	require.NoError(err)

	require.Equal(m.CT, loaded.CT)
	require.Equal(m.Mats, loaded.Mats)
	require.Equal(m.Enc, loaded.Enc)
	require.Equal(m.Dec, loaded.Dec)
	require.EqualValues(3, loaded.VSteps[0].Load())
	require.EqualValues(9, loaded.MSteps[1].Load())
	require.EqualValues(4, loaded.DEncStep.Load())
}

func TestSaveLoadSave_Idempotent(t *testing.T) {
	require := require.New(t)

	const w, r = 4, 1
	m := embedmodel.Init(w, r, rngstream.NewFromSeed(11))

	dirA := t.TempDir()
	dirB := t.TempDir()
	require.NoError(m.Save(dirA))

	loaded, err := embedmodel.Load(w, r, dirA)
	require.NoError(err)
	require.NoError(loaded.Save(dirB))

	for _, name := range []string{"cvecs.npy", "tvecs.npy", "mats.npy", "encoder.npy", "decoder.npy"} {
		a, err := os.ReadFile(dirA + "/" + name)
		require.NoError(err)
		b, err := os.ReadFile(dirB + "/" + name)
		require.NoError(err)
		require.Equal(a, b, "%s must match byte-for-byte after a save/load/save round trip", name)
	}
}
