// Package report prints the post-build instructions. It mutates
// nothing; the user decides whether to copy the tree into their
// profile and refresh the desktop databases.
package report

import (
	"fmt"
	"path/filepath"

	"github.com/quantmind-br/claudeport/internal/core"
	"github.com/quantmind-br/claudeport/internal/paths"
	"github.com/quantmind-br/claudeport/internal/syspkg"
	"github.com/quantmind-br/claudeport/internal/ui"
)

// PostBuild prints what to do with the finished output tree. The
// refresh commands vary with the detected package manager family, so
// the provider may be nil when detection found nothing.
func PostBuild(p *paths.Resolver, provider syspkg.Provider, version string) {
	ui.PrintHeader("Build complete")
	if version != "" && version != "unknown" {
		ui.PrintKeyValue("Version", version)
	}
	ui.PrintKeyValue("Output", p.OutputDir())

	ui.PrintSubheader("Install into your profile")
	ui.PrintCommand(fmt.Sprintf("cp -r %s %s/", filepath.Join(p.OutputDir(), "bin", "."), p.UserBinDir()))
	ui.PrintCommand(fmt.Sprintf("cp -r %s %s/", filepath.Join(p.OutputDir(), "share", "."), p.UserShareDir()))
	ui.PrintCommand(fmt.Sprintf("cp -r %s %s/", filepath.Join(p.OutputDir(), "lib", "."), filepath.Join(p.UserShareDir(), "..", "lib")+"/"))

	if provider != nil {
		ui.PrintSubheader("Refresh desktop databases")
		for _, cmd := range provider.RefreshCommands() {
			ui.PrintCommand(cmd)
		}
	}

	ui.PrintSubheader("Register the URI scheme")
	ui.PrintCommand(fmt.Sprintf("xdg-mime default %s.desktop %s", core.AppName, core.URIScheme))

	ui.PrintInfo("Run '" + core.AppName + "-desktop' or launch Claude from your application menu.")
}
