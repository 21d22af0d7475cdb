package types

import "time"

// Signal is the desired position for one ticker at one date.
type Signal int

const (
	// SignalFlat means the desired position is no position.
	SignalFlat Signal = 0
	// SignalLong means the desired position is a long position.
	SignalLong Signal = 1
)

// SignalPoint is a signal value at a specific date.
type SignalPoint struct {
	Time  time.Time
	Value Signal
}

// SignalSeries is an ordered-by-date sequence of signal points, aligned to the
// feature table it was generated from.
type SignalSeries []SignalPoint
