package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jispell/internal/store"
)

func recordTake(t *testing.T, db, input string) string {
	t.Helper()
	out, err := execute(t, strings.NewReader(input), "--db", db, "--format", "json", "track")
	require.NoError(t, err)
	var res TrackOutput
	decodeData(t, out, &res)
	return res.Session
}

func TestHistory_ListsSessions(t *testing.T) {
	db := filepath.Join(t.TempDir(), "jispell.db")
	first := recordTake(t, db, "261.6255653\n327.0319566\n")
	second := recordTake(t, db, "392.4383480\n")

	out, err := execute(t, nil, "--db", db, "--format", "json", "history")
	require.NoError(t, err)
	var sessions []store.SessionSummary
	decodeData(t, out, &sessions)
	require.Len(t, sessions, 2)
	assert.Equal(t, first, sessions[0].Session)
	assert.Equal(t, 2, sessions[0].Readings)
	assert.Equal(t, second, sessions[1].Session)
	assert.Equal(t, int64(1), sessions[1].LastSeq)

	out, err = execute(t, nil, "--db", db, "history")
	require.NoError(t, err)
	assert.Contains(t, out, first)
	assert.Contains(t, out, "2 readings (0 approximate), seq 1-2")
}

func TestHistory_ShowsSessionWithLimit(t *testing.T) {
	db := filepath.Join(t.TempDir(), "jispell.db")
	session := recordTake(t, db, "261.6255653\n327.0319566\n392.4383480\n")

	out, err := execute(t, nil, "--db", db, "--format", "json", "history", session, "--limit", "2")
	require.NoError(t, err)
	var hist HistoryOutput
	decodeData(t, out, &hist)
	assert.Equal(t, []string{"C4", "E4↓"}, trackLabels(hist.Readings))

	out, err = execute(t, nil, "--db", db, "history", session)
	require.NoError(t, err)
	assert.Contains(t, out, "session "+session+" (profile default)")
	assert.Contains(t, out, "G4")
}

func TestHistory_Delete(t *testing.T) {
	db := filepath.Join(t.TempDir(), "jispell.db")
	session := recordTake(t, db, "261.6255653\n")

	out, err := execute(t, nil, "--db", db, "history", session, "--delete")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted 1 reading(s)")

	_, err = execute(t, nil, "--db", db, "history", session)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestHistory_Errors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "jispell.db")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no database", []string{"history"}, "no database"},
		{"empty latest", []string{"--db", db, "history", "--latest"}, "no sessions recorded"},
		{"latest and session", []string{"--db", db, "history", "abc", "--latest"}, "mutually exclusive"},
		{"delete without session", []string{"--db", db, "history", "--delete"}, "needs a session"},
		{"unknown session", []string{"--db", db, "history", "abc"}, "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, nil, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestHistory_EmptyLog(t *testing.T) {
	db := filepath.Join(t.TempDir(), "jispell.db")
	out, err := execute(t, nil, "--db", db, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions recorded.")
}
