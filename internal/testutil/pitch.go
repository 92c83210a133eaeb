package testutil

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
)

// Above returns rootHz * num/den.
func Above(rootHz float64, num, den int64) float64 {
	return rootHz * float64(num) / float64(den)
}

// CaptureLogs routes the default slog logger into a buffer at Debug level
// for the rest of the test and returns the buffer.
func CaptureLogs(t *testing.T) *SyncBuffer {
	t.Helper()
	buf := &SyncBuffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return buf
}

// SyncBuffer is a bytes.Buffer safe for concurrent writers.
type SyncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *SyncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *SyncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
