package stamped

import "sync/atomic"

// Clock hands out the ticks written to the timestamp column. Ticks must be
// strictly increasing.
type Clock interface {
	Next() int64
}

// Advancer is implemented by clocks that can skip forward. An injected
// clock that implements it is moved past the table's highest stored tick
// before each use; any other injected clock must already be past it.
type Advancer interface {
	AdvanceTo(tick int64)
}

// AtomicClock is a monotonic logical clock safe for concurrent use.
type AtomicClock struct {
	seq atomic.Int64
}

// NewClockAt creates a clock resuming after start.
func NewClockAt(start int64) *AtomicClock {
	c := &AtomicClock{}
	c.seq.Store(start)
	return c
}

// Next increments the clock and returns the new tick.
func (c *AtomicClock) Next() int64 {
	return c.seq.Add(1)
}

// AdvanceTo makes the next tick at least tick+1. It never moves backwards.
func (c *AtomicClock) AdvanceTo(tick int64) {
	for {
		cur := c.seq.Load()
		if cur >= tick || c.seq.CompareAndSwap(cur, tick) {
			return
		}
	}
}
