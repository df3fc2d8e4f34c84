package desktop

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/quantmind-br/claudeport/internal/core"
)

// WrapperOptions controls the generated launcher script.
type WrapperOptions struct {
	// ElectronCommand is the runtime binary, "electron" by default.
	ElectronCommand string
	// DisableSandbox appends --no-sandbox. Off unless configured.
	DisableSandbox bool
}

// WriteWrapper emits the executable launcher. The script locates the
// bundle relative to its own resolved path, so the launcher keeps
// working after the tree is copied into a profile where bin/ and lib/
// are siblings, same as in the staged output. The Wayland flags are
// decided when the script runs, not when it is generated, so the same
// build works on both display servers.
func WriteWrapper(wrapperPath string, opts WrapperOptions) error {
	electron := opts.ElectronCommand
	if electron == "" {
		electron = "electron"
	}

	sandboxFlag := ""
	if opts.DisableSandbox {
		sandboxFlag = " --no-sandbox"
	}

	content := fmt.Sprintf(`#!/bin/bash
# claudeport launcher for %s
SELF_DIR="$(dirname "$(realpath "$0")")"
APP_DIR="$(cd "$SELF_DIR/../lib/%s" && pwd)" || exit 1

WAYLAND_FLAGS=""
if [ -n "$WAYLAND_DISPLAY" ]; then
    WAYLAND_FLAGS="--enable-features=UseOzonePlatform,WaylandWindowDecorations --ozone-platform=wayland"
fi

exec %s "$APP_DIR/app.asar"%s $WAYLAND_FLAGS "$@"
`, core.AppName, core.BundleDirName, electron, sandboxFlag)

	if err := os.MkdirAll(filepath.Dir(wrapperPath), 0755); err != nil {
		return fmt.Errorf("create bin directory: %w", err)
	}
	if err := os.WriteFile(wrapperPath, []byte(content), 0755); err != nil {
		return fmt.Errorf("write wrapper script: %w", err)
	}
	return nil
}
