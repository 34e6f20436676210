package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yotaki/bancheck/internal/providers"
)

// chdir changes to dir for the duration of the test, restoring the
// previous working directory on cleanup (t.Chdir needs Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

// execute runs the root command with args and captures stdout. Primary
// output goes through cmd.OutOrStdout(), log lines go to stderr and are
// not part of the contract under test.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// setupEnv points every configurable path at a fresh temp directory and
// replaces the extractor with a stub that serves a fixed one-episode
// program. The provider registry is cleared so newApp rebuilds it from
// this configuration.
func setupEnv(t *testing.T) {
	t.Helper()
	providers.UnregisterAll()
	t.Cleanup(providers.UnregisterAll)

	dir := t.TempDir()
	script := `#!/bin/sh
cat <<'EOF'
{
  "id": "26-156",
  "title": "Stub Program",
  "webpage_url": "https://abema.tv/video/title/26-156",
  "entries": [
    {
      "id": "ep1",
      "episode_number": 1,
      "title": "Episode 1",
      "availability": "public",
      "webpage_url": "https://abema.tv/video/episode/ep1",
      "formats": [{"format_id": "hls-1080"}]
    }
  ]
}
EOF`
	scriptPath := filepath.Join(dir, "fake-yt-dlp")
	require.NoError(t, os.WriteFile(scriptPath, []byte(script), 0o755))

	chdir(t, dir)
	t.Setenv("BANCHECK_STORAGE_PROGRAMS_FILE", filepath.Join(dir, "programs.json"))
	t.Setenv("BANCHECK_STORAGE_OUTPUT_DIR", filepath.Join(dir, "output"))
	t.Setenv("BANCHECK_CACHE_DIR", filepath.Join(dir, "cache"))
	t.Setenv("BANCHECK_EXTRACTOR_PATH", scriptPath)
	t.Setenv("BANCHECK_EXTRACTOR_RATE_LIMIT", "1000")
}

func TestVersionCommand(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "bancheck version")
	assert.Contains(t, out, "go version")
}

func TestAddListViewFlow(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "add", "https://abema.tv/video/title/26-156")
	require.NoError(t, err)

	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "1 26-156 Stub Program")

	// By id and by sequence number.
	byID, err := execute(t, "view", "26-156")
	require.NoError(t, err)
	assert.Contains(t, byID, "# Stub Program")

	bySeq, err := execute(t, "view", "1")
	require.NoError(t, err)
	assert.Equal(t, byID, bySeq)
}

func TestAddRejectsUnrecognizedInput(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "add", "https://abema.tv/now-on-air/abema-news")
	assert.Error(t, err)
}

func TestUpdateWithoutChanges(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "add", "26-156")
	require.NoError(t, err)

	// The stub always serves the same snapshot, so a full update cycle
	// is a successful no-op.
	_, err = execute(t, "update", "26-156")
	require.NoError(t, err)

	_, err = execute(t, "update")
	require.NoError(t, err)
}

func TestUpdateUnknownProgram(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "update", "99-999")
	assert.Error(t, err)
}

func TestRemoveCommand(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "add", "26-156")
	require.NoError(t, err)

	_, err = execute(t, "remove", "26-156")
	require.NoError(t, err)

	_, err = execute(t, "remove", "26-156")
	assert.Error(t, err, "removing twice fails on the second attempt")
}

func TestViewUnknownProgram(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "view", "26-156")
	assert.Error(t, err)
}
