// SPDX-License-Identifier: MIT
//
// Package kbfixture builds small deterministic synthetic knowledge bases for
// tests and demos: Clique, Chain and RandomSparse constructors compose onto
// a fixed universe of entities and relations via Build, the way
// lvlath/builder composes Constructor closures over a core.Graph through
// BuildGraph (see DESIGN.md). Unlike builder's general-purpose topologies,
// every kbfixture constructor emits kgraph.Triple facts directly, ready for
// kgraph.Load.
package kbfixture

import (
	"errors"
	"fmt"

	"github.com/tianran/glimvec/rngstream"
)

// ErrTooFewEntities indicates a constructor's n exceeds the fixture's
// entity universe.
var ErrTooFewEntities = errors.New("kbfixture: not enough entities")

// ErrTooFewRelations indicates a constructor needs at least one relation
// slot but the fixture's universe has none.
var ErrTooFewRelations = errors.New("kbfixture: not enough relations")

// ErrInvalidProbability indicates an edge probability outside [0,1].
var ErrInvalidProbability = errors.New("kbfixture: probability out of range")

// ErrNilConstructor indicates a nil Constructor was passed to Build.
var ErrNilConstructor = errors.New("kbfixture: nil constructor")

// state is the mutable fixture-under-construction a Constructor mutates:
// the fixed entity/relation universe sizes, a shared RNG stream for any
// stochastic constructor, and the accumulated triple list.
type state struct {
	w, r    uint32
	rng     *rngstream.Stream
	triples []struct{ head, relation, tail uint32 }
}

func (s *state) add(head, relation, tail uint32) {
	s.triples = append(s.triples, struct{ head, relation, tail uint32 }{head, relation, tail})
}

// Constructor deterministically adds facts to a fixture-in-progress.
// Constructors must validate parameters against the universe sizes in st
// and return sentinel errors, never panic.
type Constructor func(st *state) error

// Option configures Build's shared RNG stream.
type Option func(*config)

type config struct {
	seed uint64
}

// WithSeed fixes the RNG stream any stochastic constructor (RandomSparse)
// draws from. Default seed is 1.
func WithSeed(seed uint64) Option {
	return func(c *config) { c.seed = seed }
}

func kbfixtureErrorf(method, format string, args ...interface{}) error {
	return fmt.Errorf("kbfixture: %s: "+format, append([]interface{}{method}, args...)...)
}
