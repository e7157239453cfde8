package session

import (
	"sync"
	"time"
)

// Clock supplies event timestamps. Injecting it keeps replayed sessions
// byte-for-byte reproducible.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// StepClock starts at a fixed instant and advances by a fixed step on
// every read. Safe for concurrent use.
type StepClock struct {
	mu   sync.Mutex
	at   time.Time
	step time.Duration
}

// NewStepClock creates a StepClock at start advancing by step per Now().
//
// Precondition: step >= 0.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{at: start, step: step}
}

// Now returns the current instant and advances the clock.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.at
	c.at = c.at.Add(c.step)
	return t
}
