package icons

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/image/draw"

	"github.com/quantmind-br/claudeport/internal/core"
	"github.com/quantmind-br/claudeport/internal/helpers"
	"github.com/quantmind-br/claudeport/internal/paths"
)

// icotool names extracted frames claude_<n>_<W>x<H>x<depth>.png.
var framePattern = regexp.MustCompile(`_(\d+)x(\d+)x(\d+)\.png$`)

// Extractor pulls the icon resource out of the Windows executable and
// installs per-size PNGs into the hicolor theme tree.
type Extractor struct {
	runner    helpers.CommandRunner
	paths     *paths.Resolver
	log       *zerolog.Logger
	imageTool string
}

// New creates an Extractor. imageTool is the detected ImageMagick
// binary ("convert" or "magick") used for rescaling, or empty to use
// the built-in scaler only.
func New(runner helpers.CommandRunner, paths *paths.Resolver, log *zerolog.Logger, imageTool string) *Extractor {
	return &Extractor{runner: runner, paths: paths, log: log, imageTool: imageTool}
}

// Extract runs the wrestool/icotool pipeline against the exe in
// payloadDir and installs one PNG per hicolor size. Losing a single
// size only degrades the result, so per-size failures log a warning and
// the build keeps going; an exe with no icon resource at all is fatal.
func (e *Extractor) Extract(ctx context.Context, payloadDir, workDir string) ([]core.IconFile, error) {
	exePath := filepath.Join(payloadDir, "claude.exe")
	if _, err := os.Stat(exePath); err != nil {
		return nil, fmt.Errorf("executable not found at %s", exePath)
	}

	iconDir := filepath.Join(workDir, "icons")
	if err := os.MkdirAll(iconDir, 0755); err != nil {
		return nil, fmt.Errorf("create icon work directory: %w", err)
	}

	icoPath := filepath.Join(iconDir, "claude.ico")
	// Resource type 14 is RT_GROUP_ICON.
	out, err := e.runner.RunCommand(ctx, "wrestool", "-x", "-t", "14", "-o", icoPath, exePath)
	if err != nil {
		return nil, fmt.Errorf("wrestool icon extraction failed: %w\n%s", err, out)
	}
	if _, err := os.Stat(icoPath); err != nil {
		return nil, fmt.Errorf("wrestool produced no icon file")
	}

	out, err = e.runner.RunCommand(ctx, "icotool", "-x", "-o", iconDir, icoPath)
	if err != nil {
		return nil, fmt.Errorf("icotool split failed: %w\n%s", err, out)
	}

	frames, err := scanFrames(iconDir)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no PNG frames found in icon resource")
	}

	var installed []core.IconFile
	for _, size := range core.IconSizes {
		src, exact := pickFrame(frames, size)
		dest := filepath.Join(e.paths.IconSizeDir(size), core.AppName+".png")
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			e.log.Warn().Err(err).Int("size", size).Msg("skipping icon size")
			continue
		}

		var installErr error
		if exact {
			installErr = helpers.CopyFile(src, dest)
		} else {
			e.log.Debug().Int("size", size).Str("from", filepath.Base(src)).Msg("rescaling missing icon size")
			installErr = e.rescale(ctx, src, dest, size)
		}
		if installErr != nil {
			e.log.Warn().Err(installErr).Int("size", size).Msg("skipping icon size")
			continue
		}

		installed = append(installed, core.IconFile{Path: dest, Size: size, Ext: "png"})
	}

	if len(installed) == 0 {
		return nil, fmt.Errorf("no icon sizes could be installed")
	}

	e.log.Info().Int("count", len(installed)).Msg("icons installed")
	return installed, nil
}

type frame struct {
	path string
	size int
}

// scanFrames lists extracted PNG frames sorted largest first.
func scanFrames(dir string) ([]frame, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read icon directory: %w", err)
	}

	var frames []frame
	for _, entry := range entries {
		m := framePattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		w, _ := strconv.Atoi(m[1])
		h, _ := strconv.Atoi(m[2])
		if w != h {
			continue
		}
		frames = append(frames, frame{path: filepath.Join(dir, entry.Name()), size: w})
	}

	sort.Slice(frames, func(i, j int) bool { return frames[i].size > frames[j].size })
	return frames, nil
}

// pickFrame returns an exact-size frame when present, otherwise the
// largest frame as rescale source.
func pickFrame(frames []frame, size int) (string, bool) {
	for _, f := range frames {
		if f.size == size {
			return f.path, true
		}
	}
	return frames[0].path, false
}

// rescale prefers the detected ImageMagick binary and falls back to
// the built-in Catmull-Rom scaler if it is absent or fails.
func (e *Extractor) rescale(ctx context.Context, srcPath, destPath string, size int) error {
	if e.imageTool != "" {
		spec := fmt.Sprintf("%dx%d", size, size)
		args := []string{srcPath, "-resize", spec, destPath}
		if e.imageTool == "magick" {
			args = append([]string{"convert"}, args...)
		}
		if _, err := e.runner.RunCommand(ctx, e.imageTool, args...); err == nil {
			return nil
		}
		e.log.Debug().Str("tool", e.imageTool).Msg("image tool rescale failed, using built-in scaler")
	}
	return rescalePNG(srcPath, destPath, size)
}

func rescalePNG(srcPath, destPath string, size int) error {
	in, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer in.Close()

	src, err := png.Decode(in)
	if err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(srcPath), err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()

	return png.Encode(out, dst)
}
