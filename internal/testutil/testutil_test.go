package testutil

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedSessionGenerator(t *testing.T) {
	gen := NewFixedSessionGenerator("session-123")
	assert.Equal(t, "session-123", gen.Generate())
	assert.Equal(t, "session-123", gen.Generate())

	assert.Equal(t, "test-session-default", NewFixedSessionGenerator("").Generate())
}

func TestDeterministicClock_NextAndReset(t *testing.T) {
	c := NewDeterministicClock(0)
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())
	assert.Equal(t, []int64{1, 2}, c.Issued())

	c.Reset()
	assert.Equal(t, int64(0), c.Current())
	assert.Empty(t, c.Issued())
	assert.Equal(t, int64(1), c.Next())
}

func TestDeterministicClock_Start(t *testing.T) {
	c := NewDeterministicClock(10)
	assert.Equal(t, int64(11), c.Next())
}

func TestDeterministicClock_Concurrent(t *testing.T) {
	c := NewDeterministicClock(0)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.Next()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1000), c.Current())
	assert.Len(t, c.Issued(), 1000)
}

func TestAbove(t *testing.T) {
	assert.InDelta(t, 660.0, Above(440, 3, 2), 1e-9)
}

func TestCaptureLogs(t *testing.T) {
	buf := CaptureLogs(t)
	slog.Debug("hello", "k", 1)
	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "k=1")
}
