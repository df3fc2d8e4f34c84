package core

import "time"

// AppName is the desktop identity of the repackaged application. The icon
// theme entries, the .desktop file and the URI scheme all hang off it.
const AppName = "claude"

// BundleDirName is the directory under lib/ holding the repacked bundle.
const BundleDirName = "claude-desktop"

// URIScheme is the scheme association declared by the desktop entry.
const URIScheme = "x-scheme-handler/claude"

// BuildRecord represents one completed repackaging run in the ledger.
type BuildRecord struct {
	BuildID       string    `json:"build_id"`
	Version       string    `json:"version,omitempty"`
	BuildDate     time.Time `json:"build_date"`
	InstallerFile string    `json:"installer_file"`
	OutputDir     string    `json:"output_dir"`
	DesktopFile   string    `json:"desktop_file,omitempty"`
	Metadata      Metadata  `json:"metadata"`
}

// Metadata contains additional per-build details.
type Metadata struct {
	IconFiles     []string `json:"icon_files,omitempty"`
	WrapperScript string   `json:"wrapper_script,omitempty"`
	StubArtifact  string   `json:"stub_artifact,omitempty"`
	Sha256        string   `json:"sha256,omitempty"`
}

// DesktopEntry represents a .desktop file.
type DesktopEntry struct {
	Type           string   `ini:"Type"`
	Name           string   `ini:"Name"`
	Comment        string   `ini:"Comment,omitempty"`
	Icon           string   `ini:"Icon,omitempty"`
	Exec           string   `ini:"Exec"`
	Terminal       bool     `ini:"Terminal,omitempty"`
	Categories     []string `ini:"Categories,omitempty"`
	MimeType       []string `ini:"MimeType,omitempty"`
	StartupWMClass string   `ini:"StartupWMClass,omitempty"`
}

// IconFile represents an icon produced by the icon pipeline.
type IconFile struct {
	Path string // Absolute path to icon file
	Size int    // Square pixel size (16, 256, ...)
	Ext  string // "png", "ico"
}

// IconSizes are the hicolor resolutions the build installs.
var IconSizes = []int{16, 24, 32, 48, 64, 256}

// Exit codes
const (
	ExitSuccess         = 0
	ExitGeneral         = 1
	ExitInvalidArgs     = 2
	ExitBuildFailed     = 3
	ExitUninstallFailed = 4
	ExitDatabase        = 5
	ExitPermission      = 6
	ExitNetwork         = 7
	ExitMissingDeps     = 8
	ExitInterrupted     = 130
)
