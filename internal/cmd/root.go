package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/claudeport/internal/config"
)

// NewRootCmd creates the root command
func NewRootCmd(cfg *config.Config, log *zerolog.Logger, version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "claudeport",
		Short:        "Repackage Claude Desktop for Linux",
		Long:         `claudeport downloads the Windows Claude Desktop installer, extracts its Electron payload, substitutes the Windows-only native binding with a no-op shim, and emits a Linux desktop bundle (launcher, icons, menu entry).`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewBuildCmd(cfg, log))
	cmd.AddCommand(NewDoctorCmd(cfg, log))
	cmd.AddCommand(NewListCmd(cfg, log))
	cmd.AddCommand(NewInfoCmd(cfg, log))
	cmd.AddCommand(NewUninstallCmd(cfg, log))
	cmd.AddCommand(NewCompletionCmd())
	cmd.AddCommand(NewVersionCmd(version))

	return cmd
}
