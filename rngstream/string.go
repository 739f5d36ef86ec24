// SPDX-License-Identifier: MIT

package rngstream

import "fmt"

// String renders the internal lane state for diagnostics. Not part of any
// stability contract; callers must not parse it.
func (s *Stream) String() string {
	return fmt.Sprintf("rngstream.Stream{s0: 0x%016x, s1: 0x%016x}", s.s0, s.s1)
}
