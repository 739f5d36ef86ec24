// SPDX-License-Identifier: MIT
//
// impl_clique.go - implementation of the Clique(n) constructor.
//
// Contract:
//   - n <= st.w (else ErrTooFewEntities); st.r >= 1 (else ErrTooFewRelations).
//   - Emits a fact e_i -relation0-> e_j for every unordered pair i < j,
//     i,j in [0,n), in ascending (i,j) order. kgraph.Load's inverse-relation
//     injection already makes j reachable from i and vice versa, so only
//     one direction is emitted per pair.
package kbfixture

import "fmt"

const methodClique = "Clique"

// Clique returns a Constructor linking the first n entities of the fixture
// pairwise under relation 0.
func Clique(n uint32) Constructor {
	return func(st *state) error {
		if n > st.w {
			return fmt.Errorf("%s: n=%d exceeds %d entities: %w", methodClique, n, st.w, ErrTooFewEntities)
		}
		if st.r == 0 {
			return fmt.Errorf("%s: %w", methodClique, ErrTooFewRelations)
		}
		for i := uint32(0); i < n; i++ {
			for j := i + 1; j < n; j++ {
				st.add(i, 0, j)
			}
		}
		return nil
	}
}
