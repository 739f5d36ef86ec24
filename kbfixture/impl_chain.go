// SPDX-License-Identifier: MIT
//
// impl_chain.go - implementation of the Chain(n) constructor.
//
// Contract:
//   - n <= st.w (else ErrTooFewEntities); st.r >= 1 (else ErrTooFewRelations).
//   - Emits e_i -relation0-> e_(i+1) for i in [0,n-1), in ascending order.
package kbfixture

import "fmt"

const methodChain = "Chain"

// Chain returns a Constructor linking the first n entities of the fixture
// into a simple directed path under relation 0.
func Chain(n uint32) Constructor {
	return func(st *state) error {
		if n > st.w {
			return fmt.Errorf("%s: n=%d exceeds %d entities: %w", methodChain, n, st.w, ErrTooFewEntities)
		}
		if st.r == 0 {
			return fmt.Errorf("%s: %w", methodChain, ErrTooFewRelations)
		}
		for i := uint32(0); i+1 < n; i++ {
			st.add(i, 0, i+1)
		}
		return nil
	}
}
