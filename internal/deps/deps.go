package deps

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/quantmind-br/claudeport/internal/helpers"
	"github.com/quantmind-br/claudeport/internal/syspkg"
)

// Required are the external tools every build needs. The asar CLI repacks
// the resource archive; extraction is done natively.
var Required = []string{"7z", "wrestool", "icotool", "asar", "npm"}

// ImageTools is an either/or requirement: ImageMagick 6 ships "convert",
// ImageMagick 7 ships "magick".
var ImageTools = []string{"convert", "magick"}

// Result describes the outcome of a dependency check.
type Result struct {
	Missing   []string // required tools absent from PATH
	ImageTool string   // resolved image conversion tool, "" when none found
	Provider  syspkg.Provider
}

// OK reports whether the build can proceed.
func (r *Result) OK() bool {
	return len(r.Missing) == 0 && r.ImageTool != ""
}

// Check verifies every required executable plus one of the image tools.
// This is a pure precondition gate: it mutates nothing.
func Check(runner helpers.CommandRunner, log *zerolog.Logger) *Result {
	res := &Result{Provider: syspkg.Detect(runner)}

	for _, tool := range Required {
		if !runner.CommandExists(tool) {
			res.Missing = append(res.Missing, tool)
			log.Debug().Str("tool", tool).Msg("required tool not found")
		}
	}

	for _, tool := range ImageTools {
		if runner.CommandExists(tool) {
			res.ImageTool = tool
			break
		}
	}
	if res.ImageTool == "" {
		res.Missing = append(res.Missing, strings.Join(ImageTools, "|"))
	}

	sort.Strings(res.Missing)
	return res
}

// InstallGuidance renders the install command for the missing tools, using
// the detected package manager. Falls back to a generic listing when no
// supported manager is present.
func InstallGuidance(res *Result) []string {
	if len(res.Missing) == 0 {
		return nil
	}

	if res.Provider == nil {
		return []string{
			"No supported package manager found (apt, dnf, pacman, zypper).",
			"Install these tools manually: " + strings.Join(res.Missing, ", "),
		}
	}

	pkgSet := make(map[string]struct{})
	for _, tool := range res.Missing {
		// either/or entries look like "convert|magick"; any side resolves
		// to the same package
		name := strings.SplitN(tool, "|", 2)[0]
		for _, pkg := range strings.Fields(res.Provider.PackageFor(name)) {
			pkgSet[pkg] = struct{}{}
		}
	}

	packages := make([]string, 0, len(pkgSet))
	for pkg := range pkgSet {
		packages = append(packages, pkg)
	}
	sort.Strings(packages)

	return []string{
		fmt.Sprintf("Missing tools: %s", strings.Join(res.Missing, ", ")),
		res.Provider.InstallCommand(packages),
	}
}
