package utils

import "time"

// Clock is the single injectable time source. Every "now" read in the booking
// engine goes through it so tests can fix time deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall-clock implementation.
func SystemClock() Clock { return systemClock{} }

// FixedClock is a Clock pinned to a single instant, for tests.
type FixedClock struct {
	T time.Time
}

func (f FixedClock) Now() time.Time { return f.T }
