// SPDX-License-Identifier: MIT

package kbfixture

import (
	"fmt"

	"github.com/tianran/glimvec/kgraph"
	"github.com/tianran/glimvec/rngstream"
	"github.com/tianran/glimvec/vocab"
)

const defaultSeed = 1

// Build assembles a fixture over w entities and r forward relations,
// named "e0".."e(w-1)" and "r0".."r(r-1)", running every constructor in
// order against the shared state. Returns the entity vocabulary (uniform
// count 1 per entity), the relation vocabulary, and the accumulated
// triples, ready for kgraph.Load or vocab-based persistence round-trips.
func Build(w, r uint32, opts []Option, cons ...Constructor) (*vocab.Entities, *vocab.Relations, []kgraph.Triple, error) {
	cfg := config{seed: defaultSeed}
	for _, opt := range opts {
		opt(&cfg)
	}

	st := &state{w: w, r: r, rng: rngstream.NewFromSeed(cfg.seed)}
	for i, fn := range cons {
		if fn == nil {
			return nil, nil, nil, kbfixtureErrorf("Build", "%w: index %d", ErrNilConstructor, i)
		}
		if err := fn(st); err != nil {
			return nil, nil, nil, fmt.Errorf("Build: %w", err)
		}
	}

	ents := &vocab.Entities{Index: make(map[string]uint32, w)}
	for i := uint32(0); i < w; i++ {
		name := fmt.Sprintf("e%d", i)
		ents.Index[name] = i
		ents.Names = append(ents.Names, name)
		ents.Counts = append(ents.Counts, 1.0)
	}

	rels := &vocab.Relations{Index: make(map[string]uint32, r)}
	for i := uint32(0); i < r; i++ {
		name := fmt.Sprintf("r%d", i)
		rels.Index[name] = i
		rels.Names = append(rels.Names, name)
	}

	triples := make([]kgraph.Triple, len(st.triples))
	for i, tr := range st.triples {
		triples[i] = kgraph.Triple{Head: tr.head, Relation: tr.relation, Tail: tr.tail}
	}
	return ents, rels, triples, nil
}
