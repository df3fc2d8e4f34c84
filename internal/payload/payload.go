package payload

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"layeh.com/asar"

	"github.com/quantmind-br/claudeport/internal/helpers"
	"github.com/quantmind-br/claudeport/internal/native"
	"github.com/quantmind-br/claudeport/internal/security"
)

const (
	archiveName  = "app.asar"
	unpackedName = "app.asar.unpacked"
)

// bindingRelPath is where the app expects its platform module, inside
// both the packed archive and the unpacked sibling tree.
var bindingRelPath = filepath.Join("node_modules", native.ModuleName, native.ArtifactName)

// Repacker rebuilds the application resource archive with the
// replacement binding grafted in.
type Repacker struct {
	runner  helpers.CommandRunner
	log     *zerolog.Logger
	asarCmd string
}

func New(runner helpers.CommandRunner, log *zerolog.Logger, asarCmd string) *Repacker {
	if asarCmd == "" {
		asarCmd = "asar"
	}
	return &Repacker{runner: runner, log: log, asarCmd: asarCmd}
}

// Repack copies the archive and its unpacked sibling from the
// extracted payload into libDir, substitutes the binding in both
// trees, carries the tray icons over, and packs the archive back up.
// Any failure aborts immediately; the output directory is reset at the
// start of each build, so no cleanup happens here.
func (r *Repacker) Repack(ctx context.Context, payloadDir, workDir, libDir, bindingArtifact string) error {
	srcResources := filepath.Join(payloadDir, "resources")
	srcArchive := filepath.Join(srcResources, archiveName)
	if _, err := os.Stat(srcArchive); err != nil {
		return fmt.Errorf("resource archive not found at %s", srcArchive)
	}

	if err := os.MkdirAll(libDir, 0755); err != nil {
		return fmt.Errorf("create bundle directory: %w", err)
	}

	destArchive := filepath.Join(libDir, archiveName)
	if err := helpers.CopyFile(srcArchive, destArchive); err != nil {
		return fmt.Errorf("copy resource archive: %w", err)
	}

	destUnpacked := filepath.Join(libDir, unpackedName)
	srcUnpacked := filepath.Join(srcResources, unpackedName)
	if _, err := os.Stat(srcUnpacked); err == nil {
		if err := helpers.CopyDir(srcUnpacked, destUnpacked); err != nil {
			return fmt.Errorf("copy unpacked assets: %w", err)
		}
	} else {
		r.log.Debug().Msg("no unpacked assets directory in payload")
	}

	appDir := filepath.Join(workDir, "app")
	r.log.Info().Msg("unpacking resource archive")
	if err := r.extract(destArchive, appDir); err != nil {
		return fmt.Errorf("unpack resource archive: %w", err)
	}

	r.log.Info().Msg("substituting native binding")
	if err := r.graftBinding(bindingArtifact, filepath.Join(appDir, bindingRelPath)); err != nil {
		return fmt.Errorf("substitute binding in archive tree: %w", err)
	}
	if _, err := os.Stat(destUnpacked); err == nil {
		if err := r.graftBinding(bindingArtifact, filepath.Join(destUnpacked, bindingRelPath)); err != nil {
			return fmt.Errorf("substitute binding in unpacked tree: %w", err)
		}
	}

	if err := r.copyTrayIcons(srcResources, appDir); err != nil {
		return fmt.Errorf("copy tray icons: %w", err)
	}

	r.log.Info().Msg("repacking resource archive")
	out, err := r.runner.RunCommand(ctx, r.asarCmd, "pack", appDir, destArchive)
	if err != nil {
		return fmt.Errorf("asar pack failed: %w\n%s", err, out)
	}

	return r.verify(destArchive)
}

// extract decodes the archive and writes every entry under destDir.
func (r *Repacker) extract(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	archive, err := asar.Decode(f)
	if err != nil {
		return fmt.Errorf("decode archive: %w", err)
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return err
	}

	return archive.Walk(func(path string, info fs.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel := strings.Trim(path, "/")
		if err := security.ValidateExtractPath(destDir, rel); err != nil {
			return err
		}
		target := filepath.Join(destDir, rel)

		if info.IsDir() {
			return os.MkdirAll(target, 0755)
		}

		entry := archive.Find(strings.Split(strings.Trim(path, "/"), "/")...)
		if entry == nil {
			return fmt.Errorf("archive entry vanished: %s", path)
		}
		reader := entry.Open()
		if reader == nil {
			return fmt.Errorf("cannot open archive entry: %s", path)
		}

		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		out, err := os.Create(target)
		if err != nil {
			return err
		}
		if _, err := io.Copy(out, reader); err != nil {
			out.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		return out.Close()
	})
}

// graftBinding overwrites the vendor binding with the built artifact.
// The vendor file being absent is fine, the app still resolves the
// module by path after repack.
func (r *Repacker) graftBinding(artifact, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	return helpers.CopyFile(artifact, dest)
}

// copyTrayIcons carries the Tray* images the app loads from disk
// rather than from the archive.
func (r *Repacker) copyTrayIcons(srcResources, appDir string) error {
	matches, err := filepath.Glob(filepath.Join(srcResources, "Tray*"))
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		r.log.Debug().Msg("no tray icons in payload")
		return nil
	}
	destDir := filepath.Join(appDir, "resources")
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return err
	}
	for _, m := range matches {
		if err := helpers.CopyFile(m, filepath.Join(destDir, filepath.Base(m))); err != nil {
			return err
		}
	}
	r.log.Debug().Int("count", len(matches)).Msg("tray icons copied")
	return nil
}

// verify re-reads the packed archive and confirms the binding made it in.
func (r *Repacker) verify(archivePath string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open repacked archive: %w", err)
	}
	defer f.Close()

	archive, err := asar.Decode(f)
	if err != nil {
		return fmt.Errorf("repacked archive is unreadable: %w", err)
	}

	parts := strings.Split(filepath.ToSlash(bindingRelPath), "/")
	if archive.Find(parts...) == nil {
		return fmt.Errorf("binding missing from repacked archive")
	}

	r.log.Info().Str("archive", archivePath).Msg("resource archive repacked")
	return nil
}
