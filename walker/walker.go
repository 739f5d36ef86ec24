// SPDX-License-Identifier: MIT
//
// Package walker draws batches of random walks from a seed entity: each
// walk's length follows 1+Poisson(lambda), and the whole batch is capped at
// 31 edges (the width the update kernel's working matrices are sized for).
//
// AI-HINT (file):
//   - Sample is pure given its rng/poisson arguments; callers own those per
//     worker goroutine (see trainer.Run).
package walker

import (
	"github.com/tianran/glimvec/kgraph"
	"github.com/tianran/glimvec/poisson"
)

// maxBatchEdges is the hard cap on total edges returned by one Sample call,
// matching the update kernel's fixed-width working matrices (see
// update.Step).
const maxBatchEdges = 31

// Path is one random walk: a non-empty ordered sequence of edges.
type Path []kgraph.Edge

// rngSource is the combined surface walker needs from its caller's RNG:
// bounded draws for edge/attempt selection, plus float draws forwarded to
// the Poisson stopping rule.
type rngSource interface {
	NextBounded(n uint64) uint64
	NextFloat64() float64
}

// Sample draws a batch of walks starting at entity seed. Up to
// 2*deg(seed) independent walks are attempted; each walk's length follows
// 1+Poisson(lambda) via poi's incremental stopping rule; the whole batch
// stops as soon as 31 edges have been appended across all walks. If seed
// has no outgoing edges, Sample returns an empty, non-nil slice.
//
// Complexity: O(min(31, total edges drawn)).
func Sample(g *kgraph.Graph, seed uint32, rng rngSource, poi *poisson.Poisson) []Path {
	neighbors := g.Neighbors(seed)
	deg := len(neighbors)
	if deg == 0 {
		return []Path{}
	}

	var paths []Path
	var totalEdges int

	attempts := deg * 2
	for i := 0; i < attempts; i++ {
		edge := neighbors[rng.NextBounded(uint64(deg))]
		poi.Reset()

		var path Path
		for {
			path = append(path, edge)
			totalEdges++
			if totalEdges == maxBatchEdges {
				break
			}
			nei := g.Neighbors(edge.Tail)
			edge = nei[rng.NextBounded(uint64(len(nei)))]
			if poi.Stop(rng) {
				break
			}
		}
		paths = append(paths, path)
		if totalEdges == maxBatchEdges {
			break
		}
	}

	return paths
}
