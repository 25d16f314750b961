package testutil

import "sync"

// DeterministicClock is a logical clock for tests. It satisfies
// stamped.Clock.
//
// The first call to Next() returns 1.
type DeterministicClock struct {
	mu  sync.Mutex
	seq int64
}

// NewDeterministicClock creates a clock starting at 0.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// NewDeterministicClockAt creates a clock whose next tick is start+1.
func NewDeterministicClockAt(start int64) *DeterministicClock {
	return &DeterministicClock{seq: start}
}

// Next increments and returns the tick.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the last tick handed out.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// AdvanceTo makes the next tick at least tick+1.
func (c *DeterministicClock) AdvanceTo(tick int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tick > c.seq {
		c.seq = tick
	}
}
