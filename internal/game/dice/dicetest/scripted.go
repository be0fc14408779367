// Package dicetest provides deterministic dice.Source fakes for tests.
package dicetest

import "fmt"

// Scripted is a dice.Source that replays pre-recorded draws in order.
//
// Intn returns the next value of Ints (clamped into [0, n)); Float64 returns the
// next value of Floats. Running out of scripted values panics so that a test
// fails loudly when the code under test draws more than expected.
type Scripted struct {
	Ints   []int
	Floats []float64

	intCalls   int
	floatCalls int
}

// NewScripted returns a Scripted source with the given integer draws and no float draws.
func NewScripted(ints ...int) *Scripted {
	return &Scripted{Ints: ints}
}

// WithFloats appends float draws and returns s for chaining.
func (s *Scripted) WithFloats(floats ...float64) *Scripted {
	s.Floats = append(s.Floats, floats...)
	return s
}

// Intn returns the next scripted int, clamped into [0, n).
//
// Precondition: n > 0 and at least one scripted int remains.
func (s *Scripted) Intn(n int) int {
	if n <= 0 {
		panic("dicetest: Intn called with n <= 0")
	}
	if s.intCalls >= len(s.Ints) {
		panic(fmt.Sprintf("dicetest: Intn(%d) called with no scripted ints left (used %d)", n, s.intCalls))
	}
	v := s.Ints[s.intCalls]
	s.intCalls++
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

// Float64 returns the next scripted float.
//
// Precondition: at least one scripted float remains.
func (s *Scripted) Float64() float64 {
	if s.floatCalls >= len(s.Floats) {
		panic(fmt.Sprintf("dicetest: Float64 called with no scripted floats left (used %d)", s.floatCalls))
	}
	v := s.Floats[s.floatCalls]
	s.floatCalls++
	return v
}

// IntCalls reports how many Intn draws have been consumed.
func (s *Scripted) IntCalls() int { return s.intCalls }

// FloatCalls reports how many Float64 draws have been consumed.
func (s *Scripted) FloatCalls() int { return s.floatCalls }

// Constant is a dice.Source that always returns the same value, clamped to range.
type Constant struct {
	Int   int
	Float float64
}

// Intn returns min(c.Int, n-1), never below 0.
func (c Constant) Intn(n int) int {
	if n <= 0 {
		panic("dicetest: Intn called with n <= 0")
	}
	switch {
	case c.Int < 0:
		return 0
	case c.Int >= n:
		return n - 1
	default:
		return c.Int
	}
}

// Float64 returns c.Float.
func (c Constant) Float64() float64 { return c.Float }
