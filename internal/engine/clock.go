package engine

import "sync/atomic"

// Sequencer hands out reading sequence numbers.
// Implemented by Clock and by testutil.DeterministicClock.
type Sequencer interface {
	Next() int64
	Current() int64
}

// Clock is the monotonic logical clock that orders readings.
//
// Thread-safety: Clock is safe for concurrent use. Only the Run loop calls
// Next in practice.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock whose first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock that continues after start.
// Used when a session is resumed from the readings log.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next increments the clock and returns the new value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last value handed out.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
