package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/jispell/internal/heji"
	"github.com/roach88/jispell/internal/note"
	"github.com/roach88/jispell/internal/ratio"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestReading builds a reading of E4 a syntonic comma down (5/4).
func createTestReading(session string, seq int64) Reading {
	r := ratio.NewRatio(5, 4)
	cents := 0.25
	return Reading{
		Session:     session,
		Profile:     "default",
		Seq:         seq,
		FrequencyHz: 327.03,
		Confidence:  0.9,
		Timestamp:   float64(seq) / 10,
		Spelling: heji.Spelling{
			Letter: note.E,
			Octave: 4,
			Accidental: heji.Accidental{
				Components: []heji.Component{{Prime: 5, Up: false, Steps: 1}},
			},
			CentsError: &cents,
			Ratio:      &r,
		},
	}
}
