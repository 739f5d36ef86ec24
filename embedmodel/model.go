// SPDX-License-Identifier: MIT
//
// Package embedmodel holds the mutable parameter state of a glimvec model:
// per-entity context/target vectors, per-relation matrices, the matrix
// autoencoder's encoder/decoder basis, and the atomic step counters the
// update kernel uses for AdaGrad-style per-parameter learning-rate decay.
//
// Tensor storage generalizes lvlath/matrix's Dense (flat row-major slice,
// validate-then-allocate constructors, sentinel errors) from float64 to the
// float32 tensors this domain needs; see DESIGN.md.
//
// AI-HINT (file):
//   - Build with Init (fresh) or Load (resume); shapes never change after.
//   - Vec/Mat/Basis return slices aliasing the Model's storage — callers in
//     the update kernel mutate them in place, Hogwild!-style, without locks.
package embedmodel

import (
	"math"
	"sync/atomic"

	"github.com/tianran/glimvec/rngstream"
)

// Dim is the embedding dimension D. Fixed per the data model; not a
// runtime parameter.
const Dim = 256

// CodeLen is the autoencoder code length K.
const CodeLen = 16

// Model holds all learned tensors and their atomic step counters for W
// entities and R forward relations (2R relation slots total).
type Model struct {
	W uint32
	R uint32

	// CT is D x 2W, column-major: columns [0,W) are context vectors C,
	// columns [W,2W) are target vectors T. Column i is CT[i*Dim:(i+1)*Dim].
	CT []float32

	// Mats is 2R matrices of D x D, row-major each, concatenated. Matrix
	// r is Mats[r*Dim*Dim : (r+1)*Dim*Dim].
	Mats []float32

	// Enc and Dec are D^2 x K, column-major: basis k is
	// Enc[k*Dim*Dim:(k+1)*Dim*Dim].
	Enc []float32
	Dec []float32

	VSteps []atomic.Uint64 // length 2W
	MSteps []atomic.Uint64 // length 2R
	DEncStep atomic.Uint64
}

// Init allocates a fresh Model for W entities and R forward relations,
// drawing its initial values from rng per the data model: C and T share
// the same Gaussian(0, 1/sqrt(D)) block; each M is Gaussian(0, 0.5/sqrt(D))
// plus 0.5 on the diagonal; Enc and Dec share the same Gaussian(0,
// 1/sqrt(D)) draw. All step counters start at 0.
func Init(w, r uint32, rng *rngstream.Stream) *Model {
	m := &Model{
		W:      w,
		R:      r,
		CT:     make([]float32, Dim*2*int(w)),
		Mats:   make([]float32, Dim*Dim*2*int(r)),
		Enc:    make([]float32, Dim*Dim*CodeLen),
		Dec:    make([]float32, Dim*Dim*CodeLen),
		VSteps: make([]atomic.Uint64, 2*int(w)),
		MSteps: make([]atomic.Uint64, 2*int(r)),
	}

	const sigma = 1.0 / 16.0 // 1/sqrt(Dim)

	cLen := Dim * int(w)
	for i := 0; i < cLen; i++ {
		m.CT[i] = float32(stdNormal(rng) * sigma)
	}
	copy(m.CT[cLen:], m.CT[:cLen]) // T block starts identical to C block

	for rel := 0; rel < 2*int(r); rel++ {
		base := rel * Dim * Dim
		for i := 0; i < Dim; i++ {
			for j := 0; j < Dim; j++ {
				v := float32(stdNormal(rng)*sigma) * 0.5
				if i == j {
					v += 0.5
				}
				m.Mats[base+i*Dim+j] = v
			}
		}
	}

	for i := range m.Enc {
		m.Enc[i] = float32(stdNormal(rng) * sigma)
	}
	copy(m.Dec, m.Enc)

	return m
}

// stdNormal draws one standard-normal sample via the Box-Muller transform
// fed by rng's uniform doubles. No distribution-sampling library appears
// anywhere in the retrieval pack, so this uses stdlib math only.
func stdNormal(rng *rngstream.Stream) float64 {
	u1 := rng.NextFloat64()
	for u1 <= 0 {
		u1 = rng.NextFloat64()
	}
	u2 := rng.NextFloat64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// Vec returns the D-length vector stored at column idx of CT: idx in
// [0,W) is C[idx], idx in [W,2W) is T[idx-W]. The returned slice aliases
// Model storage.
func (m *Model) Vec(idx uint32) []float32 {
	return m.CT[int(idx)*Dim : int(idx+1)*Dim]
}

// CIndex and TIndex convert an entity index to its column index in CT.
func (m *Model) CIndex(entity uint32) uint32 { return entity }
func (m *Model) TIndex(entity uint32) uint32 { return m.W + entity }

// Mat returns relation r's D x D matrix (row-major). The returned slice
// aliases Model storage.
func (m *Model) Mat(r uint32) []float32 {
	return m.Mats[int(r)*Dim*Dim : int(r+1)*Dim*Dim]
}

// EncBasis and DecBasis return the k-th D^2-length flattened basis matrix
// of the encoder/decoder.
func (m *Model) EncBasis(k int) []float32 {
	return m.Enc[k*Dim*Dim : (k+1)*Dim*Dim]
}
func (m *Model) DecBasis(k int) []float32 {
	return m.Dec[k*Dim*Dim : (k+1)*Dim*Dim]
}
