// Package clock abstracts wall time so expiry-sensitive flows (hold TTLs,
// payment deadlines, callback skew checks) can be driven deterministically
// in tests.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

func NewRealClock() Clock {
	return realClock{}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// MockClock is a manually advanced clock. Not safe for concurrent use;
// tests advance it between operations, never during them.
type MockClock struct {
	current time.Time
}

func NewMockClock(t time.Time) *MockClock {
	return &MockClock{current: t}
}

func (c *MockClock) Now() time.Time {
	return c.current
}

func (c *MockClock) Set(t time.Time) {
	c.current = t
}

func (c *MockClock) Add(d time.Duration) {
	c.current = c.current.Add(d)
}
