// Package timeutil provides a clock abstraction so date windows can be tested.
package timeutil

import (
	"time"
)

// Clock provides an abstraction over time.Now() for testability.
// Use RealClock in production and FixedClock in tests.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock uses the actual system time.
type RealClock struct{}

// NewRealClock creates a new RealClock instance.
func NewRealClock() *RealClock {
	return &RealClock{}
}

// Now returns the current system time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant.
type FixedClock struct {
	t time.Time
}

// NewFixedClock creates a clock frozen at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

// NewFixedClockFromDate creates a clock frozen at midnight UTC of a YYYY-MM-DD date.
// Panics if the date is invalid (for use in tests only).
func NewFixedClockFromDate(date string) *FixedClock {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		panic("invalid date: " + err.Error())
	}
	return &FixedClock{t: t}
}

// Now returns the fixed time.
func (c *FixedClock) Now() time.Time {
	return c.t
}

// Ensure interfaces are implemented.
var (
	_ Clock = (*RealClock)(nil)
	_ Clock = (*FixedClock)(nil)
)
