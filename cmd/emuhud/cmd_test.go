package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/emuhud/internal/snapshot"
	"github.com/alexisbeaulieu97/emuhud/internal/theme"
	emuerrors "github.com/alexisbeaulieu97/emuhud/pkg/errors"
)

// execute runs the root command without reading a dotenv file.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--env-file", ""))
	err := root.Execute()
	return out.String(), err
}

func snapshotLine(t *testing.T, values map[string]any) string {
	t.Helper()
	data, err := snapshot.Encode(snapshot.Payload{IsConnected: true, Values: values})
	require.NoError(t, err)
	return data
}

func TestVersionCommandOutputsBuildInfo(t *testing.T) {
	originalVersion := version
	originalCommit := commit
	originalDate := date
	t.Cleanup(func() {
		version = originalVersion
		commit = originalCommit
		date = originalDate
	})

	version = "1.2.3"
	commit = "abcdef1"
	date = "2025-10-03"

	output, err := execute(t, "", "version")
	require.NoError(t, err)
	require.Contains(t, output, "1.2.3")
	require.Contains(t, output, "abcdef1")
	require.Contains(t, output, "2025-10-03")
}

func TestThemesListsRegisteredThemes(t *testing.T) {
	output, err := execute(t, "", "themes")
	require.NoError(t, err)
	require.Contains(t, output, "NAME")
	for _, name := range []string{"ff7", "goldeneye", "psiv"} {
		require.Contains(t, output, name)
	}
	require.Contains(t, output, "expand,toggle-locked")

	output, err = execute(t, "", "themes", "--json")
	require.NoError(t, err)
	var metas []theme.Metadata
	require.NoError(t, json.Unmarshal([]byte(output), &metas))
	require.Len(t, metas, 3)
}

func TestCombosBlizzardAssignment(t *testing.T) {
	output, err := execute(t, "", "combos", "--party", "alys,hahn", "--levels", "20,30")
	require.NoError(t, err)

	var blizzard string
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, "Blizzard") {
			blizzard = line
		}
	}
	require.NotEmpty(t, blizzard)
	assert.True(t, strings.HasPrefix(blizzard, "available"))
	assert.Contains(t, blizzard, "Hahn→Wat, Alys→Zan")
}

func TestCombosJSONReportsLevelReasons(t *testing.T) {
	output, err := execute(t, "", "combos", "--party", "1,2", "--levels", "20,2", "--json")
	require.NoError(t, err)

	var payload combosJSONPayload
	require.NoError(t, json.Unmarshal([]byte(output), &payload))
	require.Len(t, payload.Party, 2)
	assert.Equal(t, "Hahn", payload.Party[1].Name)

	var found bool
	for _, e := range payload.Locked {
		if e.Name != "Blizzard" {
			continue
		}
		found = true
		require.NotEmpty(t, e.Missing)
		assert.Equal(t, "Wat", e.Missing[0].Ability)
		assert.Equal(t, 3, e.Missing[0].Level)
	}
	assert.True(t, found)
}

func TestCombosAcceptsLevelZero(t *testing.T) {
	output, err := execute(t, "", "combos", "--party", "hahn", "--levels", "0", "--json")
	require.NoError(t, err)

	var payload combosJSONPayload
	require.NoError(t, json.Unmarshal([]byte(output), &payload))
	require.Len(t, payload.Party, 1)
	assert.Equal(t, 0, payload.Party[0].Level)
	assert.Empty(t, payload.Available)
}

func TestCombosRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		field string
	}{
		{"unknown character", []string{"--party", "zio", "--levels", "1"}, "party"},
		{"duplicate character", []string{"--party", "alys,1", "--levels", "1,1"}, "party"},
		{"level count mismatch", []string{"--party", "alys,hahn", "--levels", "1"}, "levels"},
		{"non numeric level", []string{"--party", "alys", "--levels", "x"}, "levels"},
		{"negative level", []string{"--party", "alys", "--levels=-1"}, "levels"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", append([]string{"combos"}, tt.args...)...)
			var validationErr *emuerrors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
			assert.Equal(t, 2, exitCode(err))
		})
	}
}

func TestSchemaCommand(t *testing.T) {
	output, err := execute(t, "", "schema", "update")
	require.NoError(t, err)
	require.Contains(t, output, `"data"`)
	require.Contains(t, output, "emuhud update")

	output, err = execute(t, "", "schema")
	require.NoError(t, err)
	var all map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(output), &all))
	assert.Len(t, all, len(schemaTargets))

	_, err = execute(t, "", "schema", "bogus")
	require.Error(t, err)
}

func TestDecodePrintsOneFramePerLine(t *testing.T) {
	input := strings.Join([]string{
		"# recorded session",
		snapshotLine(t, map[string]any{"level_id": 33}),
		"",
		"!!!",
		"closed",
	}, "\n")

	output, err := execute(t, input, "decode", "goldeneye")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 3)

	statuses := make([]theme.Status, 0, len(lines))
	for _, line := range lines {
		var f theme.Frame
		require.NoError(t, json.Unmarshal([]byte(line), &f))
		assert.Equal(t, "goldeneye", f.Theme)
		statuses = append(statuses, f.Status)
	}
	assert.Equal(t, []theme.Status{theme.StatusConnected, theme.StatusError, theme.StatusClosed}, statuses)
}

func TestDecodeReadsFileAndKeepsFinalFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.txt")
	contents := snapshotLine(t, nil) + "\n" + snapshotLine(t, map[string]any{"level_id": 33}) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	output, err := execute(t, "", "decode", "goldeneye", path, "--final")
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(strings.TrimSpace(output), "\n")+1)
	assert.Contains(t, output, "DAM")
}

func TestDecodeUnknownTheme(t *testing.T) {
	_, err := execute(t, "", "decode", "snes")
	require.Error(t, err)
	var themeErr *emuerrors.ThemeError
	assert.ErrorAs(t, err, &themeErr)
	assert.Equal(t, 1, exitCode(err))
}

func TestWatchPlainPrintsFinalFrame(t *testing.T) {
	input := snapshotLine(t, nil) + "\n" + snapshotLine(t, map[string]any{"level_id": 33}) + "\n"

	output, err := execute(t, input, "watch", "goldeneye", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(output, "[goldeneye] Connected"))
	assert.Contains(t, output, "DAM")
}

func TestWatchMissingFile(t *testing.T) {
	_, err := execute(t, "", "watch", "psiv", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 1, exitCode(errors.New("boom")))
	assert.Equal(t, 2, exitCode(emuerrors.NewParseError("codex.yaml", 3, errors.New("bad"))))
	assert.Equal(t, 2, exitCode(newCommandError("serve", "loading", emuerrors.NewValidationError("env", "bad", nil), "fix it")))
}

func TestDecodeDiffShowsChangedLines(t *testing.T) {
	input := strings.Join([]string{
		snapshotLine(t, map[string]any{"level_id": 33}),
		snapshotLine(t, map[string]any{"level_id": 33}),
		"closed",
	}, "\n")

	output, err := execute(t, input, "decode", "goldeneye", "--diff")
	require.NoError(t, err)

	assert.Contains(t, output, "--- frame 0")
	assert.NotContains(t, output, "--- frame 1\n")
	assert.Contains(t, output, "--- frame 2")
	assert.Contains(t, output, "-[goldeneye] Connected")
	assert.Contains(t, output, "+[goldeneye] Game closed")
}

func TestDecodeChangedPrintsOnlyEdits(t *testing.T) {
	input := strings.Join([]string{
		snapshotLine(t, map[string]any{"level_id": 33}),
		snapshotLine(t, map[string]any{"level_id": 33}),
		"closed",
	}, "\n")

	output, err := execute(t, input, "decode", "goldeneye", "--changed")
	require.NoError(t, err)

	assert.Contains(t, output, "frame 1:\n")
	assert.NotContains(t, output, "frame 2:")
	assert.Contains(t, output, "frame 3:\n-[goldeneye] Connected")
	assert.Contains(t, output, "+[goldeneye] Game closed")
	assert.NotContains(t, output, "+++ frame")
	assert.NotContains(t, output, "@@")
}
