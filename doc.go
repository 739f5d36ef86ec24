// Package glimvec trains knowledge-graph embeddings from a corpus of
// (head, relation, tail) triples using noise-contrastive SGD over random
// walks, with a matrix-autoencoder and orthogonality co-regularizer
// keeping the per-relation transformation matrices well-conditioned.
//
// The implementation is organized as a set of small packages composed by
// cmd/glimvec-train and trainer.Run/RunHost:
//
//	rngstream/  — jumpable xoroshiro128+ RNG streams, one substream per worker
//	kgraph/     — immutable, build-once triple adjacency store
//	vocab/      — entity/relation vocabulary and triple-file loading
//	embedmodel/ — embedding tensors, relation matrices, .npy persistence
//	walker/     — Poisson-length random walk sampling over a kgraph.Graph
//	poisson/    — Knuth's Poisson sampler
//	multinomial/— lookup-table weighted entity sampling
//	update/     — the noise-contrastive gradient step and co-regularizers
//	trainer/    — parallel worker pool driving update.Step to completion
//	hostbridge/ — batch parsing for the host-callable (non-CLI) embedding
//	kbfixture/  — deterministic synthetic knowledge-base generators
//
// This package itself holds no code; it exists to document the module as
// a whole.
package glimvec
