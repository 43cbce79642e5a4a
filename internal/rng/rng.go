// Package rng provides the explicit random source generation steps draw
// from. Steps receive an RNG as a tagged context component instead of
// sharing a package-level default, keeping attempts reproducible under test
// and letting safe-mode retries reseed deliberately.
package rng

import (
	"math/rand"
	"time"
)

// RNG is a seeded random source. Not safe for concurrent use, matching the
// engine's single-threaded execution model.
type RNG struct {
	seed int64
	r    *rand.Rand
}

// New returns a source seeded with seed.
func New(seed int64) *RNG {
	return &RNG{seed: seed, r: rand.New(rand.NewSource(seed))}
}

// Random returns a source seeded from the wall clock, for callers that did
// not pre-seed one.
func Random() *RNG {
	return New(time.Now().UnixNano())
}

// Seed returns the seed the source was created with, for reporting.
func (g *RNG) Seed() int64 {
	return g.seed
}

// Intn returns a uniform int in [0, n).
func (g *RNG) Intn(n int) int {
	return g.r.Intn(n)
}

// Range returns a uniform int in [lo, hi]. Collapses to lo when hi <= lo.
func (g *RNG) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.r.Intn(hi-lo+1)
}

// Percent reports true with probability p/100. Values at or below zero are
// never true; values at or above 100 always are.
func (g *RNG) Percent(p int) bool {
	if p <= 0 {
		return false
	}
	if p >= 100 {
		return true
	}
	return g.r.Intn(100) < p
}

// Float64 returns a uniform float in [0.0, 1.0).
func (g *RNG) Float64() float64 {
	return g.r.Float64()
}

// Perm returns a random permutation of [0, n).
func (g *RNG) Perm(n int) []int {
	return g.r.Perm(n)
}

// Shuffle randomizes the order of n elements via swap.
func (g *RNG) Shuffle(n int, swap func(i, j int)) {
	g.r.Shuffle(n, swap)
}
