// SPDX-License-Identifier: MIT

package update

import (
	"math"

	"github.com/tianran/glimvec/embedmodel"
	"github.com/tianran/glimvec/walker"
)

const dim = embedmodel.Dim

// RNG is the surface Step and mincrRegularize need from a caller's random
// stream: bounded draws for entity/relation/split-point selection, plus a
// uniform double for the two regularizer Bernoulli trials.
type RNG interface {
	NextBounded(n uint64) uint64
	NextFloat64() float64
}

// newCols allocates a single D x n contiguous buffer and returns it sliced
// into n column views, so Step's working matrices (twv, unwv) are each one
// allocation rather than n.
func newCols(d, n int) [][]float32 {
	buf := make([]float32, d*n)
	cols := make([][]float32, n)
	for i := range cols {
		cols[i] = buf[i*d : (i+1)*d]
	}
	return cols
}

func maxFloat32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minFloat32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// forwardInPlace applies mat to v under Frobenius normalization, in place:
// v <- sqrt(D/||mat||_F^2) * (mat * v). buf is scratch owned by the caller.
func forwardInPlace(buf *[dim]float32, mat, v []float32) {
	embedmodel.MatVec(buf[:], mat, v, dim)
	scale := embedmodel.FrobeniusScale(mat, dim)
	for i := 0; i < dim; i++ {
		v[i] = buf[i] * scale
	}
}

// backwardInto computes dst <- sqrt(D/||mat||_F^2) * (mat^T * src); dst may
// not alias src.
func backwardInto(buf *[dim]float32, mat, src, dst []float32) {
	embedmodel.MatTVec(buf[:], mat, src, dim)
	scale := embedmodel.FrobeniusScale(mat, dim)
	for i := 0; i < dim; i++ {
		dst[i] = buf[i] * scale
	}
}

// backwardInPlace is backwardInto with dst == src, routed through buf so
// the read and write of v never alias during the matrix-vector product.
func backwardInPlace(buf *[dim]float32, mat, v []float32) {
	embedmodel.MatTVec(buf[:], mat, v, dim)
	scale := embedmodel.FrobeniusScale(mat, dim)
	for i := 0; i < dim; i++ {
		v[i] = buf[i] * scale
	}
}

// hingeVal evaluates the shifted-sigmoid-derivative score used both by the
// main kernel and by the autoencoder branch: arg = scale*s - biasConstant,
// sigtab[round(min(|arg|,1536))] combined with sign(arg), with the sign
// restored positively for the "positive" sample and negatively for every
// "negative" sample.
func hingeVal(arg float64, positive bool) float32 {
	idxf := math.Min(math.Abs(arg)+0.5, 1536)
	idx := int(idxf)
	sv := sigtab[idx]
	sign := 1.0
	switch {
	case arg < 0:
		sign = -1.0
	case arg == 0:
		sign = 0.0
	}
	if positive {
		return float32(sv*sign + 0.5)
	}
	return float32(sv*sign - 0.5)
}

// Step performs one noise-contrastive SGD update from a single sampled
// batch: it updates T[seed], C[tail] for every sampled entity (positive and
// negative), the chosen relation matrix per path edge, and probabilistically
// co-updates the matrix autoencoder and the orthogonality regularizer via
// mincrRegularize. This is a direct, per-edge rendering of
// TrainerKB::update (see DESIGN.md); the original's Eigen column-batched
// linear algebra is unrolled into explicit loops since the batching is a
// vectorization artifact, not part of what the algorithm computes.
//
// Concurrency: Step mutates m's dense tensors without locking (Hogwild!);
// only the atomic step counters are synchronized. Safe to call concurrently
// from many goroutines against the same *embedmodel.Model, per §5.
func Step(rng RNG, m *embedmodel.Model, cfg Config, seed uint32, paths []walker.Path) {
	twv := newCols(dim, 128)
	unwv := newCols(dim, 256)

	var tdest [128]uint32
	var unis [128]uint32
	var interTvi [32]uint32
	var interMi [32]uint32
	var interMnrm [32]float32

	var buf [dim]float32

	tIdx := m.TIndex(seed)
	copy(twv[0], m.Vec(tIdx))
	embedmodel.ScaleInPlace(twv[0], float32(1.0/(vEL*float64(m.VSteps[tIdx].Load())+1.0)))

	sampSz := 0

	for _, path := range paths {
		calcs := []int{0}
		csz := 1

		for pi, edge := range path {
			unIndex := sampSz*4 + 128
			ui := edge.Tail
			copy(unwv[unIndex], m.Vec(ui))
			embedmodel.ScaleInPlace(unwv[unIndex], float32(1.0/(vEL*float64(m.VSteps[ui].Load())+1.0)))
			unis[sampSz] = ui

			choice := int(rng.NextBounded(uint64(len(calcs))))
			interTvi[sampSz] = uint32(calcs[choice])

			for j := pi; j != choice; j-- {
				forwardInPlace(&buf, m.Mat(path[j].Relation), unwv[unIndex])
			}

			backwardInto(&buf, m.Mat(path[pi].Relation), twv[calcs[len(calcs)-1]], twv[csz])
			calcs = append(calcs, csz)
			tdest[sampSz] = uint32(csz)
			csz++

			calcsChoice1 := calcs[choice+1]
			for l := 1; l != 4; l++ {
				k32 := sampSz + l*32
				unIndexK := unIndex + l
				ni := uint32(rng.NextBounded(uint64(m.W)))
				copy(unwv[unIndexK], m.Vec(ni))
				embedmodel.ScaleInPlace(unwv[unIndexK], float32(1.0/(vEL*float64(m.VSteps[ni].Load())+1.0)))
				unis[k32] = ni

				nmis := make([]uint32, pi-choice)
				for idx := range nmis {
					x := uint32(rng.NextBounded(uint64(2 * m.R)))
					nmis[idx] = x
					forwardInPlace(&buf, m.Mat(x), unwv[unIndexK])
				}
				if len(nmis) == 0 {
					tdest[k32] = uint32(calcsChoice1)
				} else {
					tdest[k32] = uint32(k32)
					backwardInto(&buf, m.Mat(nmis[len(nmis)-1]), twv[calcsChoice1], twv[k32])
					for idx := len(nmis) - 2; idx >= 0; idx-- {
						backwardInPlace(&buf, m.Mat(nmis[idx]), twv[k32])
					}
				}
			}

			mi := path[choice].Relation
			interMi[sampSz] = mi
			mat := m.Mat(mi)
			nrm := float32(math.Sqrt(embedmodel.FrobeniusNormSq(mat) / dim))
			interMnrm[sampSz] = minFloat32(nrm/float32(mEL*float64(m.MSteps[mi].Load())+1.0), 4.0)

			invNrm := 1.0 / nrm
			for l := 0; l != 4; l++ {
				embedmodel.MatVec(buf[:], mat, unwv[unIndex+l], dim)
				dst := unwv[sampSz*4+l]
				for d := 0; d < dim; d++ {
					dst[d] = buf[d] * invNrm
				}
			}

			c := choice
			for c != 0 {
				c--
				matB := m.Mat(path[c].Relation)
				scaleB := embedmodel.FrobeniusScale(matB, dim)
				for l := 0; l != 4; l++ {
					col := unwv[sampSz*4+l]
					embedmodel.MatVec(buf[:], matB, col, dim)
					for d := 0; d < dim; d++ {
						col[d] = buf[d] * scaleB
					}
				}
			}

			sampSz++
		}
	}

	if sampSz == 0 {
		return
	}

	sampSz4 := sampSz * 4
	sigs := make([]float32, sampSz4)
	for k := 0; k < sampSz4; k++ {
		s := embedmodel.Dot(unwv[k], twv[0])
		arg := float64(s)*256.0 - biasConstant
		sigs[k] = hingeVal(arg, k%4 == 0)
	}

	for k := 0; k < sampSz; k++ {
		for l := 0; l != 4; l++ {
			idx := k + l*32
			des := tdest[idx]
			uni := unis[idx]
			tcol := twv[des]
			denom := maxFloat32(embedmodel.Norm(tcol), 8.0)
			coef := float32(vEta) * 8.0 / denom * sigs[k*4+l]
			embedmodel.AddScaled(m.Vec(uni), tcol, coef)
			m.VSteps[uni].Add(1)
		}
	}

	tvec := m.Vec(tIdx)
	for c := 0; c < sampSz4; c++ {
		denom := maxFloat32(embedmodel.Norm(unwv[c]), 8.0)
		coef := float32(vEta) * 8.0 * sigs[c] / denom
		embedmodel.AddScaled(tvec, unwv[c], coef)
	}
	m.VSteps[tIdx].Add(uint64(sampSz4))

	for k := 0; k < sampSz; k++ {
		mi := interMi[k]
		tvi := interTvi[k]
		tcol := twv[tvi]
		tn := maxFloat32(embedmodel.Norm(tcol), 8.0)

		var v [dim]float32
		for l := 0; l != 4; l++ {
			ucol := unwv[128+k*4+l]
			un := maxFloat32(embedmodel.Norm(ucol), 8.0)
			coef := float32(mEta) * 64.0 * interMnrm[k] * sigs[k*4+l] / (tn * un)
			embedmodel.AddScaled(v[:], ucol, coef)
		}

		matMi := m.Mat(mi)
		for i := 0; i < dim; i++ {
			ti := tcol[i]
			if ti == 0 {
				continue
			}
			row := matMi[i*dim : i*dim+dim]
			for j := 0; j < dim; j++ {
				row[j] += ti * v[j]
			}
		}

		mincrRegularize(rng, m, mi, cfg)
	}
}
