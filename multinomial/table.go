// SPDX-License-Identifier: MIT
//
// File: table.go
// Role: O(1)-amortized discrete sampling from a weighted distribution, via
//       an inverted lookup table over the cumulative distribution.
// AI-HINT (file):
//   - Build once with NewTable(weights, size); Sample is safe to call
//     concurrently from multiple goroutines (it only reads).

package multinomial

import (
	"errors"
	"fmt"
)

// ErrEmptyWeights indicates NewTable was called with no weights.
var ErrEmptyWeights = errors.New("multinomial: weights must be non-empty")

// ErrNonPositiveTotal indicates the weights summed to zero or less, so no
// cumulative distribution can be normalised.
var ErrNonPositiveTotal = errors.New("multinomial: total weight must be > 0")

// ErrBadTableSize indicates a requested table size of zero.
var ErrBadTableSize = errors.New("multinomial: table size must be > 0")

// source is the minimal RNG surface Table needs.
type source interface {
	NextBounded(n uint64) uint64
}

// Table is an inverted lookup table over a discrete cumulative distribution,
// built once from a weight vector and sampled in O(1) amortized time.
type Table struct {
	size  uint64
	table []uint32 // length size+1
	scan  []float64
}

// NewTable builds a Table from non-negative weights, quantised into a lookup
// table of the given size (the original and spec default to 65536).
//
// Complexity: O(len(weights) + size).
func NewTable(weights []float64, size uint64) (*Table, error) {
	if len(weights) == 0 {
		return nil, tableErrorf("NewTable", "%w", ErrEmptyWeights)
	}
	if size == 0 {
		return nil, tableErrorf("NewTable", "%w", ErrBadTableSize)
	}

	scan := make([]float64, len(weights))
	var total float64
	for i, w := range weights {
		total += w
		scan[i] = total
	}
	if total <= 0 {
		return nil, tableErrorf("NewTable", "%w: got %v", ErrNonPositiveTotal, total)
	}

	table := make([]uint32, size+1)
	var lower uint64
	for i := range scan {
		scan[i] /= total
		higher := uint64(scan[i] * float64(size))
		for lower <= higher {
			table[lower] = uint32(i)
			lower++
		}
	}
	table[size] = uint32(len(scan))

	return &Table{size: size, table: table, scan: scan}, nil
}

// Sample draws an index in [0, Choices()) with probability proportional to
// its original weight, quantised to the table's resolution.
//
// Complexity: O(1) amortized.
func (t *Table) Sample(rng source) uint32 {
	i := rng.NextBounded(t.size)
	a := t.table[i]
	b := t.table[i+1]
	if b > a+1 {
		return a + uint32(rng.NextBounded(uint64(b-a)))
	}
	return a
}

// Prob returns the cumulative probability mass at or below index i, i.e.
// scan[i] as built by NewTable.
func (t *Table) Prob(i uint32) float64 {
	return t.scan[i]
}

// Choices reports the number of distinct weighted outcomes (len(weights)
// passed to NewTable).
func (t *Table) Choices() uint32 {
	return uint32(len(t.scan))
}

func tableErrorf(method, format string, args ...interface{}) error {
	return fmt.Errorf("multinomial: %s: "+format, append([]interface{}{method}, args...)...)
}
