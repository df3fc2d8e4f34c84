package helpers

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func TestExtractZip(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "test.zip")
	writeZip(t, archive, map[string]string{
		"lib/net45/claude.exe": "exe",
		"top.txt":              "top",
	})

	dest := filepath.Join(dir, "out")
	require.NoError(t, ExtractZip(archive, dest))

	got, err := os.ReadFile(filepath.Join(dest, "lib", "net45", "claude.exe"))
	require.NoError(t, err)
	assert.Equal(t, "exe", string(got))
}

func TestExtractZipBackslashNames(t *testing.T) {
	// Windows-built archives may carry backslash separators
	dir := t.TempDir()
	archive := filepath.Join(dir, "win.zip")
	writeZip(t, archive, map[string]string{
		`lib\net45\claude.exe`: "exe",
	})

	dest := filepath.Join(dir, "out")
	require.NoError(t, ExtractZip(archive, dest))

	_, err := os.Stat(filepath.Join(dest, "lib", "net45", "claude.exe"))
	assert.NoError(t, err)
}

func TestExtractZipRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "evil.zip")
	writeZip(t, archive, map[string]string{
		"../escape.txt": "evil",
	})

	err := ExtractZip(archive, filepath.Join(dir, "out"))
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "escape.txt"))
	assert.True(t, os.IsNotExist(statErr))
}
