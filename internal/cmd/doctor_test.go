package cmd

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/claudeport/internal/config"
)

func TestNewDoctorCmd(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	log := zerolog.New(io.Discard)

	cmd := NewDoctorCmd(cfg, &log)

	assert.NotNil(t, cmd)
	assert.Contains(t, cmd.Use, "doctor")
	assert.NotNil(t, cmd.Flags().Lookup("verbose"))
}

func TestCheckDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("directory exists and is writable", func(t *testing.T) {
		testDir := filepath.Join(tmpDir, "exists")
		require.NoError(t, os.MkdirAll(testDir, 0755))
		assert.True(t, checkDirectory(testDir))
	})

	t.Run("directory is created when absent", func(t *testing.T) {
		testDir := filepath.Join(tmpDir, "create_me")
		assert.True(t, checkDirectory(testDir))
		_, err := os.Stat(testDir)
		assert.NoError(t, err)
	})

	t.Run("path is a file", func(t *testing.T) {
		testFile := filepath.Join(tmpDir, "file.txt")
		require.NoError(t, os.WriteFile(testFile, []byte("test"), 0644))
		assert.False(t, checkDirectory(testFile))
	})

	t.Run("probe file is cleaned up", func(t *testing.T) {
		testDir := filepath.Join(tmpDir, "probe")
		require.NoError(t, os.MkdirAll(testDir, 0755))
		require.True(t, checkDirectory(testDir))
		_, err := os.Stat(filepath.Join(testDir, ".claudeport-test"))
		assert.True(t, os.IsNotExist(err))
	})
}

func TestFreeBytes(t *testing.T) {
	t.Parallel()

	free, err := freeBytes(t.TempDir())
	require.NoError(t, err)
	assert.Greater(t, free, uint64(0))
}

func TestFreeBytes_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := freeBytes(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}
