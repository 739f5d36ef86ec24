// SPDX-License-Identifier: MIT
//
// File: poisson.go
// Role: Poisson-distributed sampling, both in bulk and as an incremental
//       stopping rule for extending a random walk.
// AI-HINT (file):
//   - Use New(lambda) once per worker; Sample is pure, Stop/Reset carry state.
//   - walk length in the path sampler is 1 + Sample(rng), or equivalently
//     append-then-Stop in a loop (see walker.Sample).

package poisson

import (
	"errors"
	"fmt"
	"math"
)

// ErrNegativeLambda indicates a Poisson rate parameter below zero.
var ErrNegativeLambda = errors.New("poisson: lambda must be >= 0")

// expChunk is exp(512), used to rescale the running product in 512-unit
// steps so it stays within float64 range for large lambda.
const expChunk = 2.2844135865397565e222

// chunkSize is the lambda amount consumed per expChunk rescale.
const chunkSize = 512.0

// source is the minimal RNG surface Poisson needs.
type source interface {
	NextFloat64() float64
}

// Poisson draws counts from a Poisson(lambda) distribution via the
// multiplicative inverse-CDF trick, and can also act as an incremental
// stopping rule (Reset + repeated Stop).
type Poisson struct {
	lambda       float64
	expLambdaFrc float64

	lambdaLeft float64
	cur        float64
}

// New constructs a Poisson sampler for rate lambda. lambda must be >= 0.
func New(lambda float64) (*Poisson, error) {
	if lambda < 0 {
		return nil, poissonErrorf("New", "%w: got %v", ErrNegativeLambda, lambda)
	}
	return &Poisson{
		lambda:       lambda,
		expLambdaFrc: math.Exp(math.Mod(lambda, chunkSize)),
		lambdaLeft:   lambda,
		cur:          1.0,
	}, nil
}

// checkStop runs one step of the multiplicative inverse-CDF test, mutating
// l (remaining lambda) and c (running product) in place, and reports
// whether the product has dropped to or below 1 (i.e. whether to stop).
func checkStop(explf, rd float64, l, c *float64) bool {
	ncur := *c * rd
	left := *l
	for ncur <= 1.0 && left > 0.0 {
		if left >= chunkSize {
			ncur *= expChunk
			left -= chunkSize
		} else {
			ncur *= explf
			left = 0.0
		}
	}
	*l = left
	*c = ncur
	return ncur <= 1.0
}

// Sample draws one count k ~ Poisson(lambda) by repeated Bernoulli-style
// stopping trials via checkStop.
//
// Complexity: O(1+k) expected.
func (p *Poisson) Sample(rng source) uint64 {
	var count uint64
	l := p.lambda
	c := 1.0
	for !checkStop(p.expLambdaFrc, rng.NextFloat64(), &l, &c) {
		count++
	}
	return count
}

// Stop consumes one uniform draw and reports whether the incremental
// stopping rule has fired, mutating the sampler's running state. Used by
// the path sampler to decide whether to extend a walk by one more edge.
func (p *Poisson) Stop(rng source) bool {
	return checkStop(p.expLambdaFrc, rng.NextFloat64(), &p.lambdaLeft, &p.cur)
}

// Reset restores the incremental stopping-rule state to a fresh start,
// i.e. the state Stop would see at the beginning of a new walk.
func (p *Poisson) Reset() {
	p.lambdaLeft = p.lambda
	p.cur = 1.0
}

func poissonErrorf(method, format string, args ...interface{}) error {
	return fmt.Errorf("poisson: %s: "+format, append([]interface{}{method}, args...)...)
}
