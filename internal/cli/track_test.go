package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jispell/internal/engine"
	"github.com/roach88/jispell/internal/store"
)

// C4 = 261.6255653 Hz at A4 = 440.
const takeOne = `# hz confidence timestamp
261.6255653 0.9 0.00
327.0319566 0.9 0.25
0 0.9 0.50
392.4383480 0.2 0.75
not-a-number
392.4383480
`

func trackLabels(readings []store.Reading) []string {
	out := make([]string, len(readings))
	for i, r := range readings {
		out[i] = r.Spelling.Scientific()
	}
	return out
}

func TestTrack_SpellsAndDrops(t *testing.T) {
	out, err := execute(t, strings.NewReader(takeOne), "--format", "json", "track")
	require.NoError(t, err)

	var res TrackOutput
	decodeData(t, out, &res)
	assert.Equal(t, []string{"C4", "E4↓", "G4"}, trackLabels(res.Readings))
	assert.Equal(t, engine.Stats{Processed: 3, Dropped: 2}, res.Stats)
	assert.Equal(t, 1, res.Skipped)
	assert.NotEmpty(t, res.Session)

	assert.Equal(t, int64(1), res.Readings[0].Seq)
	assert.Equal(t, int64(3), res.Readings[2].Seq)
	assert.InDelta(t, 0.25, res.Readings[1].Timestamp, 1e-12)
	assert.InDelta(t, 7.0, res.Readings[2].Timestamp, 1e-12, "timestamp defaults to the line number")
}

func TestTrack_RootAndResetLines(t *testing.T) {
	// 293.9965770 Hz is a pure fifth above G3.
	input := strings.Join([]string{
		"327.0319566",
		"root G3",
		"293.9965770",
		"reset",
		"293.9965770",
	}, "\n")

	out, err := execute(t, strings.NewReader(input), "--format", "json", "track")
	require.NoError(t, err)

	var res TrackOutput
	decodeData(t, out, &res)
	// The root change keeps the C4 anchor; the reset refreezes it on G3.
	assert.Equal(t, []string{"E4↓", "G4", "D4"}, trackLabels(res.Readings))
	assert.Equal(t, int64(3), res.Stats.Processed)
}

func TestTrack_TextOutput(t *testing.T) {
	out, err := execute(t, strings.NewReader(takeOne), "track")
	require.NoError(t, err)
	assert.Contains(t, out, "E4↓")
	assert.Contains(t, out, "3 spelled, 2 dropped, 0 not recorded, 1 skipped lines")

	out, err = execute(t, strings.NewReader(takeOne), "track", "--quiet")
	require.NoError(t, err)
	assert.NotContains(t, out, "E4↓")
	assert.Contains(t, out, "3 spelled")
}

func TestTrack_InputFile(t *testing.T) {
	path := writeFile(t, "take.txt", "392.4383480\n")
	out, err := execute(t, nil, "--format", "json", "track", "--input", path)
	require.NoError(t, err)

	var res TrackOutput
	decodeData(t, out, &res)
	assert.Equal(t, []string{"G4"}, trackLabels(res.Readings))
}

func TestTrack_MissingInputFile(t *testing.T) {
	_, err := execute(t, nil, "track", "--input", "/nonexistent/take.txt")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTrack_RecordsAndContinuesSession(t *testing.T) {
	db := filepath.Join(t.TempDir(), "jispell.db")

	out, err := execute(t, strings.NewReader(takeOne), "--db", db, "--format", "json", "track")
	require.NoError(t, err)
	var first TrackOutput
	decodeData(t, out, &first)

	out, err = execute(t, strings.NewReader("327.0319566\n"), "--db", db, "--format", "json", "track", "--session", first.Session)
	require.NoError(t, err)
	var second TrackOutput
	decodeData(t, out, &second)
	assert.Equal(t, first.Session, second.Session)
	require.Len(t, second.Readings, 1)
	assert.Equal(t, int64(4), second.Readings[0].Seq)

	out, err = execute(t, nil, "--db", db, "--format", "json", "history", "--latest")
	require.NoError(t, err)
	var hist HistoryOutput
	decodeData(t, out, &hist)
	assert.Equal(t, first.Session, hist.Session)
	assert.Equal(t, []string{"C4", "E4↓", "G4", "E4↓"}, trackLabels(hist.Readings))
}

func TestTrack_ContinueNeedsKnownSession(t *testing.T) {
	db := filepath.Join(t.TempDir(), "jispell.db")
	_, err := execute(t, strings.NewReader(""), "--db", db, "track", "--session", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "not found")

	_, err = execute(t, strings.NewReader(""), "track", "--session", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database")
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line    string
		want    engine.Event
		wantErr bool
	}{
		{"440", engine.Event{Type: engine.EventTypeSample, Sample: engine.Sample{FrequencyHz: 440, Confidence: 1, Timestamp: 3}}, false},
		{"440 0.5", engine.Event{Type: engine.EventTypeSample, Sample: engine.Sample{FrequencyHz: 440, Confidence: 0.5, Timestamp: 3}}, false},
		{"440 0.5 1.5", engine.Event{Type: engine.EventTypeSample, Sample: engine.Sample{FrequencyHz: 440, Confidence: 0.5, Timestamp: 1.5}}, false},
		{"root 220", engine.Event{Type: engine.EventTypeRoot, RootHz: 220}, false},
		{"root A4", engine.Event{Type: engine.EventTypeRoot, RootHz: 440}, false},
		{"RESET", engine.Event{Type: engine.EventTypeReset}, false},
		{"reset now", engine.Event{}, true},
		{"root", engine.Event{}, true},
		{"root H4", engine.Event{}, true},
		{"440 0.5 1.5 9", engine.Event{}, true},
		{"440 high", engine.Event{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseLine(tt.line, 3, 440)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
