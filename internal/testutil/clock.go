package testutil

import "sync"

// DeterministicClock is a resettable sequencer for tests. It implements
// engine.Sequencer and remembers every value it handed out.
type DeterministicClock struct {
	mu     sync.Mutex
	seq    int64
	issued []int64
}

// NewDeterministicClock creates a clock whose first Next returns start+1.
func NewDeterministicClock(start int64) *DeterministicClock {
	return &DeterministicClock{seq: start}
}

func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.issued = append(c.issued, c.seq)
	return c.seq
}

func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Issued returns a copy of the values handed out since the last Reset.
func (c *DeterministicClock) Issued() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int64, len(c.issued))
	copy(out, c.issued)
	return out
}

// Reset rewinds to zero and forgets issued values.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
	c.issued = nil
}
