package native

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/quantmind-br/claudeport/internal/helpers"
)

const (
	// ModuleName is the npm package name the app requires at runtime.
	ModuleName = "claude-native"
	// ArtifactName is the file the repack step grafts into the bundle.
	ArtifactName = "index.js"
)

// Emitter materializes a replacement for the vendor native module:
// a package manifest plus a shim whose exports come from the Ops table.
type Emitter struct {
	runner helpers.CommandRunner
	log    *zerolog.Logger
	npmCmd string
}

func NewEmitter(runner helpers.CommandRunner, log *zerolog.Logger, npmCmd string) *Emitter {
	if npmCmd == "" {
		npmCmd = "npm"
	}
	return &Emitter{runner: runner, log: log, npmCmd: npmCmd}
}

// Emit writes the module project under dir, runs its build, and
// returns the path of the built artifact. The artifact existence check
// is separate from the build exit status since a "successful" npm run
// that produced nothing is still a broken build.
func (e *Emitter) Emit(ctx context.Context, dir string) (string, error) {
	moduleDir := filepath.Join(dir, ModuleName)
	if err := os.MkdirAll(moduleDir, 0755); err != nil {
		return "", fmt.Errorf("create module directory: %w", err)
	}

	manifest := filepath.Join(moduleDir, "package.json")
	if err := os.WriteFile(manifest, []byte(packageJSON), 0644); err != nil {
		return "", fmt.Errorf("write package manifest: %w", err)
	}

	shim := filepath.Join(moduleDir, ArtifactName)
	if err := os.WriteFile(shim, []byte(renderShim()), 0644); err != nil {
		return "", fmt.Errorf("write binding shim: %w", err)
	}

	e.log.Info().Str("dir", moduleDir).Msg("building native binding replacement")
	out, err := e.runner.RunCommandInDir(ctx, moduleDir, e.npmCmd, "run", "build")
	if err != nil {
		return "", fmt.Errorf("binding build failed: %w\n%s", err, out)
	}

	if _, err := os.Stat(shim); err != nil {
		return "", fmt.Errorf("binding build produced no %s artifact", ArtifactName)
	}

	return shim, nil
}

const packageJSON = `{
  "name": "claude-native",
  "version": "0.1.0",
  "main": "index.js",
  "private": true,
  "scripts": {
    "build": "node -e \"require('./index.js')\""
  }
}
`

// renderShim generates the module source from the Ops table. Every
// export logs once and resolves to its fixed value.
func renderShim() string {
	var b strings.Builder
	b.WriteString("// Replacement for the vendor platform module. Every operation is\n")
	b.WriteString("// unavailable on this platform and resolves to a fixed value.\n")
	b.WriteString("const KeyboardKey = Object.freeze({});\n\n")
	b.WriteString("function unavailable(name, value) {\n")
	b.WriteString("  return (...args) => {\n")
	b.WriteString("    if (process.env.CLAUDE_NATIVE_DEBUG) {\n")
	b.WriteString("      console.debug(`native ${name} called (unsupported)`, args);\n")
	b.WriteString("    }\n")
	b.WriteString("    return value;\n")
	b.WriteString("  };\n")
	b.WriteString("}\n\n")
	b.WriteString("module.exports = {\n")
	b.WriteString("  KeyboardKey,\n")
	for _, op := range Ops {
		fmt.Fprintf(&b, "  %s: unavailable(%q, %s),\n", op.Name, op.Name, op.Result)
	}
	b.WriteString("};\n")
	return b.String()
}
