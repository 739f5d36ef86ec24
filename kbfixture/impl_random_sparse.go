// SPDX-License-Identifier: MIT
//
// impl_random_sparse.go - implementation of the RandomSparse(p) constructor.
//
// Contract:
//   - 0 <= p <= 1 (else ErrInvalidProbability); st.r >= 1 (else ErrTooFewRelations).
//   - Considers every unordered pair i < j over the full entity universe in
//     ascending (i,j) order; includes the edge independently with
//     probability p, under a relation drawn uniformly from [0,st.r).
//   - Deterministic for a fixed Build seed (see WithSeed).
package kbfixture

import "fmt"

const methodRandomSparse = "RandomSparse"

// RandomSparse returns a Constructor that samples an Erdos-Renyi-like fact
// set over the fixture's full entity universe.
func RandomSparse(p float64) Constructor {
	return func(st *state) error {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s: p=%.6f not in [0,1]: %w", methodRandomSparse, p, ErrInvalidProbability)
		}
		if st.r == 0 {
			return fmt.Errorf("%s: %w", methodRandomSparse, ErrTooFewRelations)
		}
		for i := uint32(0); i < st.w; i++ {
			for j := i + 1; j < st.w; j++ {
				if st.rng.NextFloat64() < p {
					rel := uint32(st.rng.NextBounded(uint64(st.r)))
					st.add(i, rel, j)
				}
			}
		}
		return nil
	}
}
