// Package rng provides the random source used by the randomized steps of the
// layout engine and the growth simulation.
//
// Callers needing reproducible output pass a seeded source from [New]; callers
// wanting visual variety use [Default], which draws from the process-wide
// generator of math/rand/v2.
package rng

import "math/rand/v2"

// Source is the capability the algorithms need from a random generator.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
	// IntN returns a value in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// New returns a deterministic PCG-backed source for seed.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

type global struct{}

func (global) Float64() float64 { return rand.Float64() }
func (global) IntN(n int) int   { return rand.IntN(n) }

// Default returns a source backed by the process-wide generator.
func Default() Source { return global{} }

// Or returns s, or Default when s is nil.
func Or(s Source) Source {
	if s == nil {
		return Default()
	}
	return s
}

// Uniform draws from [min(a,b), max(a,b)). Reversed bounds are sorted, so the
// draw stays well-defined for decay factors below the lower bound.
func Uniform(s Source, a, b float64) float64 {
	lo, hi := min(a, b), max(a, b)
	return lo + s.Float64()*(hi-lo)
}
