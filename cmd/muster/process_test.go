package main

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/muster/internal/engine"
)

// A 1x1 transparent PNG.
const pixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

func TestGatherInput(t *testing.T) {
	dir := t.TempDir()

	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("Sita site B half day"), 0o600))

	png, err := base64.StdEncoding.DecodeString(pixelPNG)
	require.NoError(t, err)
	image := filepath.Join(dir, "register.png")
	require.NoError(t, os.WriteFile(image, png, 0o600))

	cmd := processCmd()
	require.NoError(t, cmd.Flags().Set("file", notes))
	require.NoError(t, cmd.Flags().Set("image", image))

	in, usedStdin, err := gatherInput(cmd, []string{"Ravi", "site", "A"})
	require.NoError(t, err)

	assert.False(t, usedStdin)
	assert.Equal(t, "Ravi site A\n\nSita site B half day", in.Text)
	require.Len(t, in.Images, 1)
	assert.Equal(t, "image/png", in.Images[0].MIMEType)
}

func TestGatherInputMissingFile(t *testing.T) {
	cmd := processCmd()
	require.NoError(t, cmd.Flags().Set("file", filepath.Join(t.TempDir(), "missing.txt")))

	_, _, err := gatherInput(cmd, []string{"text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.txt")
}

func TestGatherInputRejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.png")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not an image"), 0o600))

	cmd := processCmd()
	require.NoError(t, cmd.Flags().Set("image", path))

	_, _, err := gatherInput(cmd, []string{"text"})
	assert.Error(t, err)
}

func TestExportDir(t *testing.T) {
	t.Cleanup(viper.Reset)

	cmd := processCmd()
	assert.Equal(t, ".", exportDir(cmd))

	viper.Set("export.dir", "/srv/exports")
	assert.Equal(t, "/srv/exports", exportDir(cmd))

	require.NoError(t, cmd.Flags().Set("export-dir", "/tmp/out"))
	assert.Equal(t, "/tmp/out", exportDir(cmd))
}

func TestCreateSession(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("session.confirm_scope", "batch")
	session, err := createSession(engine.NewMockExtractor())
	require.NoError(t, err)
	assert.Equal(t, engine.ConfirmBatch, session.Scope())

	viper.Set("session.confirm_scope", "everything")
	_, err = createSession(engine.NewMockExtractor())
	assert.Error(t, err)
}

func TestCommandsRegistered(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	joined := strings.Join(names, ",")
	for _, want := range []string{"session", "process", "version"} {
		assert.Contains(t, joined, want)
	}
}
