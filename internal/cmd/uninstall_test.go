package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/claudeport/internal/config"
	"github.com/quantmind-br/claudeport/internal/core"
	"github.com/quantmind-br/claudeport/internal/db"
)

func TestNewUninstallCmd(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	log := zerolog.New(io.Discard)

	cmd := NewUninstallCmd(cfg, &log)

	assert.NotNil(t, cmd)
	assert.Contains(t, cmd.Use, "uninstall")
}

func TestNewUninstallCmd_HasExpectedFlags(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	log := zerolog.New(io.Discard)

	cmd := NewUninstallCmd(cfg, &log)

	yesFlag := cmd.Flags().Lookup("yes")
	require.NotNil(t, yesFlag)
	assert.Equal(t, "y", yesFlag.Shorthand)

	require.NotNil(t, cmd.Flags().Lookup("keep-ledger"))

	timeoutFlag := cmd.Flags().Lookup("timeout")
	require.NotNil(t, timeoutFlag)
	assert.Equal(t, "600", timeoutFlag.DefValue)
}

func TestUninstallBuild_RemovesOutputAndRow(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	outputDir := filepath.Join(tmpDir, "output")
	require.NoError(t, os.MkdirAll(filepath.Join(outputDir, "bin"), 0755))

	cfg := &config.Config{
		Paths: config.PathsConfig{DBFile: dbPath},
	}

	ctx := context.Background()
	database, err := db.New(ctx, dbPath)
	require.NoError(t, err)
	require.NoError(t, database.Create(ctx, &core.BuildRecord{
		BuildID:       "build-gone",
		Version:       "0.12.55",
		BuildDate:     time.Now(),
		InstallerFile: "/tmp/installer.exe",
		OutputDir:     outputDir,
	}))
	database.Close()

	log := zerolog.New(io.Discard)
	require.NoError(t, uninstallBuild(ctx, cfg, &log, "build-gone", true, false))

	_, err = os.Stat(outputDir)
	assert.True(t, os.IsNotExist(err))

	database, err = db.New(ctx, dbPath)
	require.NoError(t, err)
	defer database.Close()
	_, err = database.Get(ctx, "build-gone")
	assert.Error(t, err)
}

func TestUninstallBuild_NotFound(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	cfg := &config.Config{
		Paths: config.PathsConfig{DBFile: filepath.Join(tmpDir, "test.db")},
	}

	log := zerolog.New(io.Discard)
	err := uninstallBuild(context.Background(), cfg, &log, "no-such-build", true, false)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestClearLedger(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	cfg := &config.Config{
		Paths: config.PathsConfig{DBFile: dbPath},
	}

	ctx := context.Background()
	database, err := db.New(ctx, dbPath)
	require.NoError(t, err)

	for _, id := range []string{"build-1", "build-2"} {
		require.NoError(t, database.Create(ctx, &core.BuildRecord{
			BuildID:       id,
			Version:       "0.12.55",
			BuildDate:     time.Now(),
			InstallerFile: "/tmp/installer.exe",
			OutputDir:     filepath.Join(tmpDir, "output"),
		}))
	}
	database.Close()

	log := zerolog.New(io.Discard)
	require.NoError(t, clearLedger(ctx, cfg, &log))

	database, err = db.New(ctx, dbPath)
	require.NoError(t, err)
	defer database.Close()

	builds, err := database.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, builds)
}
