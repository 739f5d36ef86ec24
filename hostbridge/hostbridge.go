// SPDX-License-Identifier: MIT
//
// Package hostbridge lets an embedding host (a process that owns the batch
// generation logic — the original's Python caller) drive training instead
// of trainer.Run's built-in walker-based sampler. BatchFunc is the
// host-provided callback; ParseBatch validates its return value the way
// glimvec_KB_parseResult validated a PyObject batch tuple, surfacing the
// same taxonomy of five numbered shape failures (see DESIGN.md).
//
// A host callback is expected to return data the way a JSON/FFI boundary
// naturally does: untyped numbers and nested slices (interface{}), not
// walker.Path directly — ParseBatch is exactly the step that turns that
// loosely-typed payload into a validated batch.
package hostbridge

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tianran/glimvec/kgraph"
)

// ErrorCode mirrors glimvec_KB_parseResult's five numbered failure modes,
// in the same order, plus ErrorNone for a clean parse.
type ErrorCode int

const (
	ErrorNone ErrorCode = iota
	ErrorBadBatchShape
	ErrorPathsNotIterable
	ErrorPathNotIterable
	ErrorBadEdge
	ErrorCallbackFailed
)

var errMsg = [...]string{
	ErrorNone:             "ok",
	ErrorBadBatchShape:    "a batch should be a (seed, paths) pair",
	ErrorPathsNotIterable: "paths is not a slice",
	ErrorPathNotIterable:  "a path is not a slice",
	ErrorBadEdge:          "an edge should be a (relation, tail) pair",
	ErrorCallbackFailed:   "batch callback failed",
}

func (c ErrorCode) String() string {
	if int(c) < 0 || int(c) >= len(errMsg) {
		return "unknown hostbridge error"
	}
	return errMsg[c]
}

// ErrParseBatch wraps a non-zero ErrorCode as an error value.
type ErrParseBatch struct {
	Code ErrorCode
}

func (e *ErrParseBatch) Error() string { return fmt.Sprintf("hostbridge: %s", e.Code) }

// ErrHostCallback is the sentinel wrapped when the host's BatchFunc itself
// returns an error (code 5: the host could not even produce a batch for
// this call, distinct from the batch's shape being malformed).
var ErrHostCallback = errors.New("hostbridge: host callback failed")

// Batch is one validated unit of training work: the seed entity a path
// batch was sampled from, and the batch's edges.
type Batch struct {
	Seed  uint32
	Paths [][]kgraph.Edge
}

// BatchFunc is the host-supplied batch generator, called once per worker
// iteration with that worker's id. It returns the batch in whatever loosely
// typed shape the host's runtime naturally produces (see ParseBatch), or an
// error if the host itself failed to produce one.
type BatchFunc func(workerID int) (interface{}, error)

// GIL stands in for the original's PyGILState_Ensure/Release bracketing
// around the host callback: any sync.Locker works, including a no-op one
// when the host's BatchFunc is already safe for concurrent use.
type GIL = sync.Locker

// ParseBatch validates raw against the expected shape: a two-element slice
// [seed, paths], where seed is a non-negative integral number, paths is a
// slice of paths, each path a slice of two-element [relation, tail]
// integral-number pairs. Numbers may be int, int64, uint32 or float64 (the
// last being the shape encoding/json.Unmarshal into interface{} produces),
// matching the untyped-host-boundary contract BatchFunc documents; other
// numeric types are rejected, and a float64 with a fractional part is
// truncated toward zero.
func ParseBatch(raw interface{}) (Batch, error) {
	outer, ok := raw.([]interface{})
	if !ok || len(outer) != 2 {
		return Batch{}, &ErrParseBatch{Code: ErrorBadBatchShape}
	}
	seed, ok := toUint32(outer[0])
	if !ok {
		return Batch{}, &ErrParseBatch{Code: ErrorBadBatchShape}
	}

	rawPaths, ok := outer[1].([]interface{})
	if !ok {
		return Batch{}, &ErrParseBatch{Code: ErrorPathsNotIterable}
	}

	batch := Batch{Seed: seed}
	for _, rp := range rawPaths {
		rawEdges, ok := rp.([]interface{})
		if !ok {
			return Batch{}, &ErrParseBatch{Code: ErrorPathNotIterable}
		}
		var path []kgraph.Edge
		for _, re := range rawEdges {
			edge, ok := re.([]interface{})
			if !ok || len(edge) != 2 {
				return Batch{}, &ErrParseBatch{Code: ErrorBadEdge}
			}
			relation, ok1 := toUint32(edge[0])
			tail, ok2 := toUint32(edge[1])
			if !ok1 || !ok2 {
				return Batch{}, &ErrParseBatch{Code: ErrorBadEdge}
			}
			path = append(path, kgraph.Edge{Relation: relation, Tail: tail})
		}
		if len(path) > 0 {
			batch.Paths = append(batch.Paths, path)
		}
	}
	return batch, nil
}

func toUint32(v interface{}) (uint32, bool) {
	switch n := v.(type) {
	case uint32:
		return n, true
	case int:
		if n < 0 {
			return 0, false
		}
		return uint32(n), true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint32(n), true
	case float64:
		if n < 0 {
			return 0, false
		}
		return uint32(n), true
	default:
		return 0, false
	}
}
