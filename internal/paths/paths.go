package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/quantmind-br/claudeport/internal/config"
	"github.com/quantmind-br/claudeport/internal/core"
)

// Resolver centraliza os caminhos da árvore de saída e do HOME do usuário.
type Resolver struct {
	homeDir string
	cfg     *config.Config
}

// NewResolver cria um Resolver usando o HOME do usuário atual.
func NewResolver(cfg *config.Config) *Resolver {
	homeDir, _ := os.UserHomeDir()
	return &Resolver{
		homeDir: homeDir,
		cfg:     cfg,
	}
}

// NewResolverWithHome cria um Resolver com homeDir explícito (útil para testes).
func NewResolverWithHome(cfg *config.Config, homeDir string) *Resolver {
	return &Resolver{
		homeDir: homeDir,
		cfg:     cfg,
	}
}

// HomeDir retorna o diretório HOME resolvido.
func (r *Resolver) HomeDir() string {
	return r.homeDir
}

// OutputDir returns the root of the staged output tree.
func (r *Resolver) OutputDir() string {
	if r.cfg != nil && r.cfg.Paths.OutputDir != "" {
		return r.cfg.Paths.OutputDir
	}
	return filepath.Join(r.homeDir, ".local", "share", "claudeport", "output")
}

// WorkDir returns the scratch directory reset on every build.
func (r *Resolver) WorkDir() string {
	if r.cfg != nil && r.cfg.Paths.WorkDir != "" {
		return r.cfg.Paths.WorkDir
	}
	return filepath.Join(r.homeDir, ".local", "share", "claudeport", "work")
}

// BinDir returns <output>/bin.
func (r *Resolver) BinDir() string {
	return filepath.Join(r.OutputDir(), "bin")
}

// LibDir returns <output>/lib/claude-desktop, where the repacked bundle lives.
func (r *Resolver) LibDir() string {
	return filepath.Join(r.OutputDir(), "lib", core.BundleDirName)
}

// AppsDir returns <output>/share/applications.
func (r *Resolver) AppsDir() string {
	return filepath.Join(r.OutputDir(), "share", "applications")
}

// IconsDir returns <output>/share/icons/hicolor.
func (r *Resolver) IconsDir() string {
	return filepath.Join(r.OutputDir(), "share", "icons", "hicolor")
}

// IconSizeDir returns <output>/share/icons/hicolor/<size>x<size>/apps.
func (r *Resolver) IconSizeDir(size int) string {
	return filepath.Join(r.IconsDir(), fmt.Sprintf("%dx%d", size, size), "apps")
}

// WrapperPath returns the launcher script path.
func (r *Resolver) WrapperPath() string {
	return filepath.Join(r.BinDir(), core.BundleDirName)
}

// DesktopFilePath returns the menu descriptor path.
func (r *Resolver) DesktopFilePath() string {
	return filepath.Join(r.AppsDir(), core.AppName+".desktop")
}

// InstallerCachePath returns where the downloaded installer is kept between
// runs. It lives under the data dir, outside the work dir reset.
func (r *Resolver) InstallerCachePath() string {
	base := ""
	if r.cfg != nil {
		base = r.cfg.Paths.DataDir
	}
	if base == "" {
		base = filepath.Join(r.homeDir, ".local", "share", "claudeport")
	}
	return filepath.Join(base, "cache", "Claude-Setup-x64.exe")
}

// UserBinDir retorna ~/.local/bin.
func (r *Resolver) UserBinDir() string {
	return filepath.Join(r.homeDir, ".local", "bin")
}

// UserShareDir retorna ~/.local/share.
func (r *Resolver) UserShareDir() string {
	return filepath.Join(r.homeDir, ".local", "share")
}
