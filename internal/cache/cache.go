// Package cache refreshes the desktop environment caches that go
// stale when icon or menu files are removed. Every refresh is
// best-effort; a desktop without the tools just picks changes up
// later.
package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantmind-br/claudeport/internal/helpers"
)

const refreshTimeout = 30 * time.Second

// Refresher runs the icon-cache and desktop-database update tools.
type Refresher struct {
	runner helpers.CommandRunner
	log    *zerolog.Logger
}

func New(runner helpers.CommandRunner, log *zerolog.Logger) *Refresher {
	return &Refresher{runner: runner, log: log}
}

// IconCache refreshes the hicolor cache under iconDir.
func (r *Refresher) IconCache(iconDir string) {
	cmd := r.iconCacheCommand()
	if cmd == "" {
		r.log.Warn().Msg("gtk-update-icon-cache not found, skipping icon cache refresh")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	if _, err := r.runner.RunCommand(ctx, cmd, "-f", "-t", iconDir); err != nil {
		r.log.Warn().Err(err).Msg("icon cache refresh failed (non-fatal)")
		return
	}
	r.log.Debug().Str("icon_dir", iconDir).Msg("icon cache refreshed")
}

// DesktopDatabase refreshes the menu entry database under appsDir.
func (r *Refresher) DesktopDatabase(appsDir string) {
	if !r.runner.CommandExists("update-desktop-database") {
		r.log.Warn().Msg("update-desktop-database not found, skipping desktop database refresh")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	if _, err := r.runner.RunCommand(ctx, "update-desktop-database", appsDir); err != nil {
		r.log.Warn().Err(err).Msg("desktop database refresh failed (non-fatal)")
		return
	}
	r.log.Debug().Str("apps_dir", appsDir).Msg("desktop database refreshed")
}

func (r *Refresher) iconCacheCommand() string {
	if r.runner.CommandExists("gtk4-update-icon-cache") {
		return "gtk4-update-icon-cache"
	}
	if r.runner.CommandExists("gtk-update-icon-cache") {
		return "gtk-update-icon-cache"
	}
	return ""
}
