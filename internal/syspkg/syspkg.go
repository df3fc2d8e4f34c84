package syspkg

import (
	"strings"

	"github.com/quantmind-br/claudeport/internal/helpers"
)

// Provider describes one distribution family's package manager: how to
// install the build dependencies and how to refresh desktop databases
// after a manual install of the output tree.
type Provider interface {
	// Name returns the package manager binary ("apt", "dnf", "pacman", "zypper")
	Name() string

	// InstallCommand renders the command line that installs the given
	// dependency packages.
	InstallCommand(packages []string) string

	// PackageFor maps a tool name to this distribution's package name.
	PackageFor(tool string) string

	// RefreshCommands returns the desktop-database and icon-cache refresh
	// commands to suggest after copying the output tree into place.
	RefreshCommands() []string
}

// Detect returns the provider for the first known package manager found in
// PATH, or nil when none is recognized.
func Detect(runner helpers.CommandRunner) Provider {
	for _, p := range []Provider{aptProvider{}, dnfProvider{}, pacmanProvider{}, zypperProvider{}} {
		if runner.CommandExists(p.Name()) {
			return p
		}
	}
	return nil
}

type aptProvider struct{}

func (aptProvider) Name() string { return "apt" }

func (aptProvider) InstallCommand(packages []string) string {
	return "sudo apt install " + strings.Join(packages, " ")
}

func (aptProvider) PackageFor(tool string) string {
	switch tool {
	case "7z":
		return "p7zip-full"
	case "wrestool", "icotool":
		return "icoutils"
	case "convert", "magick":
		return "imagemagick"
	case "asar", "npm":
		return "npm"
	default:
		return tool
	}
}

func (aptProvider) RefreshCommands() []string {
	return []string{
		"update-desktop-database ~/.local/share/applications",
		"gtk-update-icon-cache -f -t ~/.local/share/icons/hicolor",
	}
}

type dnfProvider struct{}

func (dnfProvider) Name() string { return "dnf" }

func (dnfProvider) InstallCommand(packages []string) string {
	return "sudo dnf install " + strings.Join(packages, " ")
}

func (dnfProvider) PackageFor(tool string) string {
	switch tool {
	case "7z":
		return "p7zip p7zip-plugins"
	case "wrestool", "icotool":
		return "icoutils"
	case "convert", "magick":
		return "ImageMagick"
	case "asar", "npm":
		return "nodejs-npm"
	default:
		return tool
	}
}

func (dnfProvider) RefreshCommands() []string {
	return []string{
		"update-desktop-database ~/.local/share/applications",
		"gtk-update-icon-cache -f -t ~/.local/share/icons/hicolor",
	}
}

type pacmanProvider struct{}

func (pacmanProvider) Name() string { return "pacman" }

func (pacmanProvider) InstallCommand(packages []string) string {
	return "sudo pacman -S --needed " + strings.Join(packages, " ")
}

func (pacmanProvider) PackageFor(tool string) string {
	switch tool {
	case "7z":
		return "p7zip"
	case "wrestool", "icotool":
		return "icoutils"
	case "convert", "magick":
		return "imagemagick"
	case "asar", "npm":
		return "npm"
	default:
		return tool
	}
}

func (pacmanProvider) RefreshCommands() []string {
	return []string{
		"update-desktop-database ~/.local/share/applications",
		"gtk-update-icon-cache -f -t ~/.local/share/icons/hicolor",
	}
}

type zypperProvider struct{}

func (zypperProvider) Name() string { return "zypper" }

func (zypperProvider) InstallCommand(packages []string) string {
	return "sudo zypper install " + strings.Join(packages, " ")
}

func (zypperProvider) PackageFor(tool string) string {
	switch tool {
	case "7z":
		return "p7zip-full"
	case "wrestool", "icotool":
		return "icoutils"
	case "convert", "magick":
		return "ImageMagick"
	case "asar", "npm":
		return "npm"
	default:
		return tool
	}
}

func (zypperProvider) RefreshCommands() []string {
	return []string{
		"update-desktop-database ~/.local/share/applications",
		"gtk-update-icon-cache -f -t ~/.local/share/icons/hicolor",
	}
}
