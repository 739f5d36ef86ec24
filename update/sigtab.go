// SPDX-License-Identifier: MIT
//
// Package update implements the noise-contrastive parameter update and its
// matrix autoencoder / orthogonality regularizers, the largest and
// algorithmically densest component of the trainer. It is grounded on
// TrainerKB.cpp's update/mincr_regularize, expressed in clear per-edge
// Go loops rather than the original's Eigen SIMD column batching, since
// that batching is an artifact of vectorization and not part of what the
// algorithm computes; see DESIGN.md.
package update

import "math"

// sigtabSize is 1537: indices 0..1536 inclusive.
const sigtabSize = 1537

// biasConstant is 256*ln(3), the fixed offset that keeps even positive
// pairs receiving meaningful gradient at initialization.
const biasConstant = 281.24475

var sigtab [sigtabSize]float64

func init() {
	for i := 0; i < sigtabSize; i++ {
		sigtab[i] = 1.0/(math.Exp(float64(i)/256.0)+1.0) - 0.5
	}
}
