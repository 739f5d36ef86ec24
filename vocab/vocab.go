// SPDX-License-Identifier: MIT

package vocab

import (
	"strconv"
	"strings"

	"github.com/tianran/glimvec/kgraph"
)

// Entities is the loaded entity vocabulary: Names[i] and Counts[i] are the
// i-th entity's name and raw occurrence count, and Index maps name back to
// index. Counts are raw; callers apply sampPow and feed the result to
// multinomial.NewTable themselves (sampling shape is a training-time
// concern, not a vocabulary-loading one).
type Entities struct {
	Names  []string
	Index  map[string]uint32
	Counts []float64
}

// Relations is the loaded relation vocabulary: forward relations only,
// names in declaration order. kgraph.Load injects the inverse half.
type Relations struct {
	Names []string
	Index map[string]uint32
}

// LoadEntities reads "name\tcount" lines from r until exhausted. Order of
// appearance fixes each entity's index.
func LoadEntities(r LineReader) (*Entities, error) {
	ents := &Entities{Index: make(map[string]uint32)}
	for !r.Empty() {
		line := r.Next()
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, vocabErrorf("LoadEntities", "%w: %q", ErrMalformedLine, line)
		}
		count, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, vocabErrorf("LoadEntities", "%w: %q: %v", ErrMalformedLine, line, err)
		}
		ents.Index[fields[0]] = uint32(len(ents.Names))
		ents.Names = append(ents.Names, fields[0])
		ents.Counts = append(ents.Counts, count)
	}
	return ents, nil
}

// LoadRelations reads "name\tcount" lines from r, keeping only the name
// (the count column is accepted but unused: relations aren't sampled by
// frequency, only entities are).
func LoadRelations(r LineReader) (*Relations, error) {
	rels := &Relations{Index: make(map[string]uint32)}
	for !r.Empty() {
		line := r.Next()
		fields := strings.Split(line, "\t")
		if len(fields) < 1 || fields[0] == "" {
			return nil, vocabErrorf("LoadRelations", "%w: %q", ErrMalformedLine, line)
		}
		rels.Index[fields[0]] = uint32(len(rels.Names))
		rels.Names = append(rels.Names, fields[0])
	}
	return rels, nil
}

// LoadTriples reads "head\trelation\ttail" lines from r, resolving each
// field against ents and rels. Returns ErrUnknownName wrapping the
// offending name if any field isn't in the vocabulary, mirroring the
// original's unordered_map::at() throwing on a missing key.
func LoadTriples(r LineReader, ents *Entities, rels *Relations) ([]kgraph.Triple, error) {
	var triples []kgraph.Triple
	for !r.Empty() {
		line := r.Next()
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, vocabErrorf("LoadTriples", "%w: %q", ErrMalformedLine, line)
		}
		head, ok := ents.Index[fields[0]]
		if !ok {
			return nil, vocabErrorf("LoadTriples", "%w: entity %q", ErrUnknownName, fields[0])
		}
		rel, ok := rels.Index[fields[1]]
		if !ok {
			return nil, vocabErrorf("LoadTriples", "%w: relation %q", ErrUnknownName, fields[1])
		}
		tail, ok := ents.Index[fields[2]]
		if !ok {
			return nil, vocabErrorf("LoadTriples", "%w: entity %q", ErrUnknownName, fields[2])
		}
		triples = append(triples, kgraph.Triple{Head: head, Relation: rel, Tail: tail})
	}
	return triples, nil
}
