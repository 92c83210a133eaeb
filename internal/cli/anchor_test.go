package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnchor_ShowWithoutDatabaseComputes(t *testing.T) {
	out, err := execute(t, nil, "--root", "E♭3", "--format", "json", "anchor", "show")
	require.NoError(t, err)

	var res AnchorShowOutput
	decodeData(t, out, &res)
	assert.Equal(t, "E♭3", res.Current.Anchor)
	assert.False(t, res.Current.Frozen)
	assert.Empty(t, res.Profiles)
}

func TestAnchor_SetShowReset(t *testing.T) {
	db := filepath.Join(t.TempDir(), "jispell.db")

	out, err := execute(t, nil, "--db", db, "--format", "json", "anchor", "set", "F♯3")
	require.NoError(t, err)
	var view AnchorView
	decodeData(t, out, &view)
	assert.Equal(t, "F♯3", view.Anchor)
	assert.Equal(t, 6, view.Fifths)
	assert.True(t, view.Frozen)

	out, err = execute(t, nil, "--db", db, "--format", "json", "anchor", "show")
	require.NoError(t, err)
	var shown AnchorShowOutput
	decodeData(t, out, &shown)
	assert.Equal(t, "F♯3", shown.Current.Anchor)
	assert.True(t, shown.Current.Frozen)
	require.Len(t, shown.Profiles, 1)
	assert.Equal(t, "default", shown.Profiles[0].Profile)

	// Spelling now names ratios against the frozen F♯3, whatever the root.
	out, err = execute(t, nil, "--db", db, "--format", "json", "spell", "5/4")
	require.NoError(t, err)
	var spelled SpellOutput
	decodeData(t, out, &spelled)
	assert.Equal(t, "A♯3↓", spelled.Results[0].Label)

	_, err = execute(t, nil, "--db", db, "anchor", "reset")
	require.NoError(t, err)

	out, err = execute(t, nil, "--db", db, "--format", "json", "anchor", "show")
	require.NoError(t, err)
	decodeData(t, out, &shown)
	assert.Equal(t, "C4", shown.Current.Anchor)
	assert.False(t, shown.Current.Frozen)
}

func TestAnchor_ProfilesAreIndependent(t *testing.T) {
	db := filepath.Join(t.TempDir(), "jispell.db")

	_, err := execute(t, nil, "--db", db, "--profile", "horn", "anchor", "set", "E♭3")
	require.NoError(t, err)

	out, err := execute(t, nil, "--db", db, "anchor", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "profile default: C4 (not frozen, would compute)")
	assert.Contains(t, out, "profile horn: E♭3")
}

func TestAnchor_MutationsNeedDatabase(t *testing.T) {
	for _, args := range [][]string{{"anchor", "reset"}, {"anchor", "set", "C4"}} {
		t.Run(args[1], func(t *testing.T) {
			_, err := execute(t, nil, args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
			assert.Contains(t, err.Error(), "no database")
		})
	}
}

func TestAnchor_SetInvalidNote(t *testing.T) {
	_, err := execute(t, nil, "--db", filepath.Join(t.TempDir(), "x.db"), "anchor", "set", "H2")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
