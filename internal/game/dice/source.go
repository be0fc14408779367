// Package dice provides the randomness abstraction consumed by the combat core.
//
// Every random decision the combat engine makes goes through a Source, so a
// scripted Source makes any encounter fully reproducible in tests.
package dice

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
)

// Source is the randomness provider for combat rolls.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a uniformly distributed value in [0, 1).
	Float64() float64
}

// Between returns a uniformly distributed int in [min, max] inclusive.
//
// Precondition: min <= max.
// Postcondition: min <= result <= max; exactly one Intn draw is consumed.
func Between(src Source, min, max int) int {
	if min > max {
		panic("dice: Between called with min > max")
	}
	return min + src.Intn(max-min+1)
}

// float53 is the number of distinct values Float64 can produce.
const float53 = 1 << 53

// cryptoSource implements Source using crypto/rand.
//
// Invariant: All values produced are uniformly distributed in their documented range.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
// Panics with "dice: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// Float64 returns a cryptographically secure float in [0, 1).
func (c *cryptoSource) Float64() float64 {
	return float64(c.Intn(float53)) / float53
}

// seededSource implements Source using a PCG generator so that runs can be replayed.
// It is not safe for concurrent use.
type seededSource struct {
	rng *mrand.Rand
}

// NewSeededSource returns a deterministic Source; equal seeds yield equal sequences.
func NewSeededSource(seed uint64) Source {
	return &seededSource{rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Intn returns a pseudo-random int in [0, n).
//
// Precondition: n > 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	return s.rng.IntN(n)
}

// Float64 returns a pseudo-random float in [0, 1).
func (s *seededSource) Float64() float64 {
	return s.rng.Float64()
}
