package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/quantmind-br/claudeport/internal/helpers"
)

// payloadSubdir is where the packaged app lives inside the nupkg.
const payloadSubdir = "lib/net45"

// Result describes an unpacked installer.
type Result struct {
	NupkgPath  string
	PayloadDir string
	Version    string
}

// Unpacker extracts the Windows installer down to the Electron payload.
type Unpacker struct {
	runner helpers.CommandRunner
	log    *zerolog.Logger
}

func New(runner helpers.CommandRunner, log *zerolog.Logger) *Unpacker {
	return &Unpacker{runner: runner, log: log}
}

// Unpack runs the two-stage extraction. The outer self-extracting
// installer only yields to 7z; the nested nupkg is plain zip and is
// handled natively. The version is recovered from the nupkg filename
// since the installer carries no other machine-readable version marker.
func (u *Unpacker) Unpack(ctx context.Context, installerPath, workDir string) (*Result, error) {
	outerDir := filepath.Join(workDir, "installer")
	if err := os.MkdirAll(outerDir, 0755); err != nil {
		return nil, fmt.Errorf("create extraction directory: %w", err)
	}

	u.log.Info().Str("installer", installerPath).Msg("extracting installer")
	out, err := u.runner.RunCommand(ctx, "7z", "x", "-y", "-o"+outerDir, installerPath)
	if err != nil {
		return nil, fmt.Errorf("7z extraction failed: %w\n%s", err, out)
	}

	matches, err := helpers.FindByExtension(outerDir, ".nupkg")
	if err != nil {
		return nil, fmt.Errorf("locate app package: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("locate app package: no .nupkg found under %s", outerDir)
	}
	// Deterministic pick when several packages are present.
	nupkg := matches[len(matches)-1]

	version := helpers.ExtractVersionFromFilename(filepath.Base(nupkg))
	if version == "" {
		u.log.Warn().Str("nupkg", filepath.Base(nupkg)).Msg("could not parse version from package name")
		version = "unknown"
	}

	nupkgDir := filepath.Join(workDir, "nupkg")
	u.log.Info().Str("nupkg", filepath.Base(nupkg)).Str("version", version).Msg("extracting app package")
	if err := helpers.ExtractZip(nupkg, nupkgDir); err != nil {
		return nil, fmt.Errorf("extract app package: %w", err)
	}

	payloadDir := filepath.Join(nupkgDir, filepath.FromSlash(payloadSubdir))
	info, err := os.Stat(payloadDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("app payload not found at %s", payloadDir)
	}

	return &Result{
		NupkgPath:  nupkg,
		PayloadDir: payloadDir,
		Version:    version,
	}, nil
}
