package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/claudeport/internal/cache"
	"github.com/quantmind-br/claudeport/internal/config"
	"github.com/quantmind-br/claudeport/internal/core"
	"github.com/quantmind-br/claudeport/internal/db"
	"github.com/quantmind-br/claudeport/internal/helpers"
	"github.com/quantmind-br/claudeport/internal/paths"
	"github.com/quantmind-br/claudeport/internal/ui"
)

// NewUninstallCmd creates the uninstall command
func NewUninstallCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		yes         bool
		keepLedger  bool
		timeoutSecs int
	)

	cmd := &cobra.Command{
		Use:   "uninstall [build-id]",
		Short: "Remove the staged bundle and profile files",
		Long:  `Remove the staged output tree, the files previously copied into the user profile (launcher, icons, menu entry, bundle), and the ledger records, then refresh the desktop caches. With a build ID, remove only that build's output tree and ledger row.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)
			defer cancel()

			resolver := paths.NewResolver(cfg)
			runner := helpers.NewOSCommandRunner()

			if len(args) == 1 {
				return uninstallBuild(ctx, cfg, log, args[0], yes, keepLedger)
			}

			if !yes {
				confirmed, err := ui.ConfirmDangerousAction("remove", "the Claude Desktop bundle and its profile files")
				if err != nil || !confirmed {
					color.Yellow("Uninstall cancelled.")
					return nil
				}
			}

			targets := uninstallTargets(resolver)
			var removed, failed int
			for _, target := range targets {
				if _, err := os.Stat(target); os.IsNotExist(err) {
					continue
				}
				if err := os.RemoveAll(target); err != nil {
					log.Warn().Err(err).Str("path", target).Msg("failed to remove")
					ui.PrintWarning("could not remove %s: %v", target, err)
					failed++
					continue
				}
				log.Debug().Str("path", target).Msg("removed")
				removed++
			}

			if !keepLedger {
				if err := clearLedger(ctx, cfg, log); err != nil {
					ui.PrintWarning("could not clear the build ledger: %v", err)
				}
			}

			refresher := cache.New(runner, log)
			refresher.IconCache(filepath.Join(resolver.UserShareDir(), "icons", "hicolor"))
			refresher.DesktopDatabase(filepath.Join(resolver.UserShareDir(), "applications"))

			if failed > 0 {
				return fmt.Errorf("uninstall incomplete: %d path(s) could not be removed", failed)
			}

			ui.PrintSuccess("Claude Desktop removed (%d paths)", removed)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&keepLedger, "keep-ledger", false, "keep the build records in the ledger")
	cmd.Flags().IntVar(&timeoutSecs, "timeout", 600, "uninstall timeout in seconds")

	return cmd
}

// uninstallBuild removes a single recorded build: its output tree and,
// unless the ledger is kept, its ledger row. Profile files stay put.
func uninstallBuild(ctx context.Context, cfg *config.Config, log *zerolog.Logger, buildID string, yes, keepLedger bool) error {
	database, err := db.New(ctx, cfg.Paths.DBFile)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer database.Close()

	rec, err := database.Get(ctx, buildID)
	if err != nil {
		ui.PrintError("build not found: %s", buildID)
		ui.PrintInfo("Use 'claudeport list' to see recorded builds")
		return fmt.Errorf("build not found: %s", buildID)
	}

	if !yes {
		confirmed, err := ui.ConfirmDangerousAction("remove", fmt.Sprintf("build %s (%s)", rec.BuildID, rec.OutputDir))
		if err != nil || !confirmed {
			color.Yellow("Uninstall cancelled.")
			return nil
		}
	}

	if rec.OutputDir != "" {
		if err := os.RemoveAll(rec.OutputDir); err != nil {
			return fmt.Errorf("remove output tree: %w", err)
		}
		log.Debug().Str("path", rec.OutputDir).Msg("removed output tree")
	}

	if !keepLedger {
		if err := database.Delete(ctx, rec.BuildID); err != nil {
			return fmt.Errorf("delete build record: %w", err)
		}
	}

	ui.PrintSuccess("Build %s removed", rec.BuildID)
	return nil
}

// uninstallTargets lists every path a build stages or instructs the
// user to copy into their profile.
func uninstallTargets(r *paths.Resolver) []string {
	targets := []string{
		r.OutputDir(),
		r.WorkDir(),
		filepath.Join(r.UserBinDir(), core.BundleDirName),
		filepath.Join(r.UserShareDir(), "applications", core.AppName+".desktop"),
		filepath.Join(r.HomeDir(), ".local", "lib", core.BundleDirName),
	}
	for _, size := range core.IconSizes {
		targets = append(targets, filepath.Join(
			r.UserShareDir(), "icons", "hicolor",
			fmt.Sprintf("%dx%d", size, size), "apps", core.AppName+".png"))
	}
	return targets
}

// clearLedger deletes every build record.
func clearLedger(ctx context.Context, cfg *config.Config, log *zerolog.Logger) error {
	database, err := db.New(ctx, cfg.Paths.DBFile)
	if err != nil {
		return err
	}
	defer database.Close()

	builds, err := database.List(ctx)
	if err != nil {
		return err
	}
	for _, b := range builds {
		if err := database.Delete(ctx, b.BuildID); err != nil {
			log.Warn().Err(err).Str("build_id", b.BuildID).Msg("failed to delete build record")
		}
	}
	return nil
}
