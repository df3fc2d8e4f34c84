package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/claudeport/internal/config"
	"github.com/quantmind-br/claudeport/internal/core"
	"github.com/quantmind-br/claudeport/internal/db"
	"github.com/quantmind-br/claudeport/internal/desktop"
	"github.com/quantmind-br/claudeport/internal/ui"
)

// NewInfoCmd creates the info command
func NewInfoCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info [build-id]",
		Short: "Show build information",
		Long:  `Show detailed information about a recorded build. Without an argument, shows the most recent build.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			database, err := db.New(ctx, cfg.Paths.DBFile)
			if err != nil {
				ui.PrintError("failed to open ledger: %v", err)
				return fmt.Errorf("open ledger: %w", err)
			}
			defer func() { _ = database.Close() }()

			var rec *core.BuildRecord
			if len(args) == 1 {
				identifier := args[0]
				rec, err = database.Get(ctx, identifier)
				if err != nil {
					// Fall back to fuzzy matching, same as the list filter.
					// List is newest-first, so a short identifier resolves
					// to the most recent matching build.
					log.Debug().Str("identifier", identifier).Msg("not found by exact ID, trying fuzzy match")
					builds, listErr := database.List(ctx)
					if listErr != nil {
						ui.PrintError("failed to query ledger: %v", listErr)
						return fmt.Errorf("query ledger: %w", listErr)
					}
					for _, b := range builds {
						if ui.FuzzyMatch(identifier, b.BuildID) || ui.FuzzyMatch(identifier, b.Version) {
							recCopy := b
							rec = &recCopy
							break
						}
					}
					if rec == nil {
						ui.PrintError("build not found: %s", identifier)
						ui.PrintInfo("Use 'claudeport list' to see recorded builds")
						return fmt.Errorf("build not found")
					}
				}
			} else {
				rec, err = database.Latest(ctx)
				if err != nil {
					return fmt.Errorf("query ledger: %w", err)
				}
				if rec == nil {
					ui.PrintInfo("No builds recorded yet. Run 'claudeport build' first.")
					return nil
				}
			}

			printBuildInfo(rec)

			log.Info().
				Str("build_id", rec.BuildID).
				Str("version", rec.Version).
				Msg("displayed build info")

			return nil
		},
	}

	return cmd
}

// printBuildInfo displays detailed build information
func printBuildInfo(rec *core.BuildRecord) {
	ui.PrintHeader(fmt.Sprintf("Build Information: %s", rec.BuildID))
	fmt.Println()

	version := rec.Version
	if version == "" {
		version = "(unknown)"
	}
	ui.PrintKeyValue("Version", version)
	ui.PrintKeyValue("Build Date", rec.BuildDate.Format("2006-01-02 15:04:05"))

	fmt.Println()
	ui.PrintSubheader("Paths")

	ui.PrintKeyValue("Output Dir", rec.OutputDir)
	ui.PrintKeyValue("Installer", rec.InstallerFile)
	if rec.Metadata.WrapperScript != "" {
		ui.PrintKeyValue("Wrapper", rec.Metadata.WrapperScript)
	}
	if rec.DesktopFile != "" {
		ui.PrintKeyValue("Desktop File", rec.DesktopFile)
	}

	if len(rec.Metadata.IconFiles) > 0 {
		fmt.Println()
		ui.PrintSubheader("Icons")
		ui.PrintList(rec.Metadata.IconFiles)
	}

	if rec.Metadata.Sha256 != "" {
		fmt.Println()
		ui.PrintKeyValue("Installer SHA-256", rec.Metadata.Sha256)
	}

	// Show the menu entry as staged on disk, if it still exists
	if rec.DesktopFile != "" {
		if _, err := os.Stat(rec.DesktopFile); err == nil {
			if entry, err := desktop.ParseDesktopFile(rec.DesktopFile); err == nil {
				fmt.Println()
				ui.PrintSubheader("Menu Entry")
				ui.PrintKeyValue("Name", entry.Name)
				ui.PrintKeyValue("Exec", entry.Exec)
				ui.PrintKeyValue("Icon", entry.Icon)
				if len(entry.MimeType) > 0 {
					ui.PrintKeyValue("MimeType", strings.Join(entry.MimeType, ";"))
				}
			}
		}
	}
}
