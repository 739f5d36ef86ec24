// SPDX-License-Identifier: MIT

package update

import (
	"math"

	"github.com/tianran/glimvec/embedmodel"
)

// mincrRegularize is called once per path edge's matrix update. It always
// increments m_steps[mi]; with independent Bernoulli probability
// cfg.AutoencProb it co-updates the matrix autoencoder (encoder, decoder,
// and mi itself, steered toward their mutual reconstruction), and with
// independent probability cfg.OrthProb it pushes M_mi toward a scaled
// orthogonal matrix. Both, one, or neither branch may fire on a given call.
// A direct rendering of TrainerKB::mincr_regularize (see DESIGN.md).
func mincrRegularize(rng RNG, m *embedmodel.Model, mi uint32, cfg Config) {
	mstep := m.MSteps[mi].Add(1)
	mscal := float32(1.0 / (mEL*float64(mstep) + 1.0))

	if !cfg.DisableAutoenc && rng.NextFloat64() < cfg.AutoencProb {
		autoencoderBranch(m, mi, mstep, mscal, rng)
	}
	if rng.NextFloat64() < cfg.OrthProb {
		orthBranch(m, mi, mstep, mscal)
	}
}

// autoencoderBranch reconstructs M_mi (plus three random decoys) from the
// shared K-basis encoder/decoder, scores the reconstruction of M_mi itself
// against the decoys with the same hinge-sigmoid as the main kernel, and
// applies three simultaneous gradient steps: to M_mi (steering it toward
// its own reconstruction), to the encoder, and to the decoder.
func autoencoderBranch(m *embedmodel.Model, mi uint32, mstep uint64, mscal float32, rng RNG) {
	const k = embedmodel.CodeLen
	matLen := dim * dim

	dstepNew := m.DEncStep.Add(1)
	dstepOld := dstepNew - 1
	dencScal := float32(1.0 / (autoEL*float64(dstepOld) + 1.0))

	relCount := uint64(2 * m.R)
	ni := [4]uint32{mi, uint32(rng.NextBounded(relCount)), uint32(rng.NextBounded(relCount)), uint32(rng.NextBounded(relCount))}

	var mniCopy [4][]float32
	for c := 0; c < 4; c++ {
		mniCopy[c] = make([]float32, matLen)
		copy(mniCopy[c], m.Mat(ni[c]))
	}

	var reciNorms [4]float32
	for c := 0; c < 4; c++ {
		reciNorms[c] = float32(sqrtDim) / embedmodel.Norm(mniCopy[c])
	}

	var codesGrad, crelus [k][4]float32
	for kk := 0; kk < k; kk++ {
		basis := m.EncBasis(kk)
		for c := 0; c < 4; c++ {
			v := embedmodel.Dot(basis, mniCopy[c]) * dencScal * reciNorms[c]
			if v > float32(4*sqrtDim) {
				v = float32(4 * sqrtDim)
			}

			h := float32(0.5) + 0.25*v
			if h < 0 {
				h = 0
			}
			g := h
			if g > 1 {
				g = 1
			}
			codesGrad[kk][c] = g
			mx := 2 * h
			if v > mx {
				mx = v
			}
			crelus[kk][c] = g * mx
		}
	}

	var outs [4][]float32
	for c := 0; c < 4; c++ {
		outs[c] = make([]float32, matLen)
		for kk := 0; kk < k; kk++ {
			coef := crelus[kk][c]
			if coef == 0 {
				continue
			}
			embedmodel.AddScaled(outs[c], m.DecBasis(kk), coef)
		}
	}

	var sigsAuto [4]float32
	for c := 0; c < 4; c++ {
		d := embedmodel.Dot(outs[c], mniCopy[0])
		arg := (256.0/autoFactor)*float64(dencScal)*float64(reciNorms[0])*float64(d) - biasConstant
		sigsAuto[c] = hingeVal(arg, c == 0)
	}

	rate := float32((jointMEta / autoFactor) * math.Min(float64(mscal)/float64(reciNorms[0]), 4.0) /
		((jointMEL*float64(mstep)/autoSkip + 1.0) * float64(mscal)))

	matMi := m.Mat(mi)
	for c := 0; c < 4; c++ {
		sq := embedmodel.FrobeniusNormSq(outs[c])
		var factor float32
		if sq > 0 {
			factor = float32(math.Sqrt(16.0 * float64(dim) * float64(k) / sq))
		}
		if factor > dencScal {
			factor = dencScal
		}
		embedmodel.AddScaled(matMi, outs[c], rate*sigsAuto[c]*factor)
	}

	var sigsScaled [4]float32
	for c := 0; c < 4; c++ {
		sigsScaled[c] = sigsAuto[c] * float32(autoEta/autoFactor)
	}

	var inner [k]float32
	for kk := 0; kk < k; kk++ {
		v := dencScal * reciNorms[0] * embedmodel.Dot(m.DecBasis(kk), mniCopy[0])
		if v > float32(4*sqrtDim) {
			v = float32(4 * sqrtDim)
		}
		if v < -float32(4*sqrtDim) {
			v = -float32(4 * sqrtDim)
		}
		inner[kk] = v
	}
	for kk := 0; kk < k; kk++ {
		basisEnc := m.EncBasis(kk)
		for c := 0; c < 4; c++ {
			gradKC := inner[kk] * sigsScaled[c] * reciNorms[c] * codesGrad[kk][c]
			if gradKC == 0 {
				continue
			}
			embedmodel.AddScaled(basisEnc, mniCopy[c], gradKC)
		}
	}

	for kk := 0; kk < k; kk++ {
		var decGrad float32
		for c := 0; c < 4; c++ {
			decGrad += crelus[kk][c] * reciNorms[0] * sigsScaled[c]
		}
		if decGrad == 0 {
			continue
		}
		embedmodel.AddScaled(m.DecBasis(kk), mniCopy[0], decGrad)
	}
}

// orthBranch pushes M_mi toward a∙Q for some orthogonal Q, by gradient
// descent on ½‖MMᵀ − aI‖²_F where a = tr(MMᵀ)/D.
func orthBranch(m *embedmodel.Model, mi uint32, mstep uint64, mscal float32) {
	ma := m.Mat(mi)
	maCopy := make([]float32, dim*dim)
	copy(maCopy, ma)

	m2 := make([]float32, dim*dim)
	for i := 0; i < dim; i++ {
		rowI := maCopy[i*dim : (i+1)*dim]
		for j := 0; j < dim; j++ {
			rowJ := maCopy[j*dim : (j+1)*dim]
			m2[i*dim+j] = embedmodel.Dot(rowI, rowJ)
		}
	}
	aTr := embedmodel.Trace(m2, dim) / float32(dim)
	for i := 0; i < dim; i++ {
		m2[i*dim+i] -= aTr
	}

	rate := float32(-orthRate/float64(aTr) * math.Min(float64(mscal), 4.0/math.Sqrt(float64(aTr))) /
		((orthEL*float64(mstep)/orthSkip + 1.0) * float64(mscal)))

	for i := 0; i < dim; i++ {
		rowM2 := m2[i*dim : (i+1)*dim]
		dst := ma[i*dim : (i+1)*dim]
		for j := 0; j < dim; j++ {
			var sum float32
			for kk := 0; kk < dim; kk++ {
				sum += rowM2[kk] * maCopy[kk*dim+j]
			}
			dst[j] += rate * sum
		}
	}
}
