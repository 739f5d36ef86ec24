// SPDX-License-Identifier: MIT

package embedmodel

import "math"

// FrobeniusNormSq returns the sum of squared entries of a flat tensor
// (vector or matrix), i.e. ||x||_F^2.
func FrobeniusNormSq(x []float32) float64 {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	return sum
}

// Norm returns the Euclidean (Frobenius, for a vector) norm of x.
func Norm(x []float32) float32 {
	return float32(math.Sqrt(FrobeniusNormSq(x)))
}

// FrobeniusScale returns the scale factor sqrt(D / ||m||_F^2) used
// throughout the update kernel to keep repeated matrix application from
// exploding or vanishing along long walks (see DESIGN.md "Normalisation
// policy").
func FrobeniusScale(m []float32, d int) float32 {
	normSq := FrobeniusNormSq(m)
	if normSq == 0 {
		return 0
	}
	return float32(math.Sqrt(float64(d) / normSq))
}

// MatVec computes y = M*v for a D x D row-major matrix m and length-D
// vector v, writing into dst (which may not alias m or v).
func MatVec(dst, m, v []float32, d int) {
	for i := 0; i < d; i++ {
		var sum float32
		row := m[i*d : i*d+d]
		for j := 0; j < d; j++ {
			sum += row[j] * v[j]
		}
		dst[i] = sum
	}
}

// MatTVec computes y = M^T*v for a D x D row-major matrix m, writing into
// dst (which may not alias m or v).
func MatTVec(dst, m, v []float32, d int) {
	for i := range dst {
		dst[i] = 0
	}
	for i := 0; i < d; i++ {
		vi := v[i]
		if vi == 0 {
			continue
		}
		row := m[i*d : i*d+d]
		for j := 0; j < d; j++ {
			dst[j] += row[j] * vi
		}
	}
}

// ScaleInPlace multiplies every entry of x by s.
func ScaleInPlace(x []float32, s float32) {
	for i := range x {
		x[i] *= s
	}
}

// AddScaled computes dst += s*src elementwise.
func AddScaled(dst, src []float32, s float32) {
	for i := range dst {
		dst[i] += s * src[i]
	}
}

// Dot returns the inner product of a and b.
func Dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Trace returns the trace of a D x D row-major matrix.
func Trace(m []float32, d int) float32 {
	var sum float32
	for i := 0; i < d; i++ {
		sum += m[i*d+i]
	}
	return sum
}
