package engine

import (
	"math/rand/v2"
	"time"
)

// RandomSource is the randomness the generator and challenge engine draw from.
// Tests inject seeded or scripted sources to get reproducible grids and problems.
type RandomSource interface {
	// Float64 returns a number in [0.0, 1.0).
	Float64() float64
	// IntN returns a number in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// NewRandomSource returns a PCG-backed source for the given seed
func NewRandomSource(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewTimeSeededSource returns a source seeded from the wall clock
func NewTimeSeededSource() RandomSource {
	return NewRandomSource(uint64(time.Now().UnixNano()))
}
