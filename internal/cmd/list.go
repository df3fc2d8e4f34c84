package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/claudeport/internal/config"
	"github.com/quantmind-br/claudeport/internal/core"
	"github.com/quantmind-br/claudeport/internal/db"
	"github.com/quantmind-br/claudeport/internal/ui"
)

// NewListCmd creates the list command
func NewListCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		jsonOutput  bool
		filter      string
		sortBy      string
		showDetails bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded builds",
		Long:  `List the builds recorded in the ledger, newest first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			database, err := db.New(ctx, cfg.Paths.DBFile)
			if err != nil {
				ui.PrintError("failed to open ledger: %v", err)
				return fmt.Errorf("open ledger: %w", err)
			}
			defer database.Close()

			builds, err := database.List(ctx)
			if err != nil {
				ui.PrintError("failed to list builds: %v", err)
				return fmt.Errorf("list builds: %w", err)
			}

			filtered := filterBuilds(builds, filter)
			sortBuilds(filtered, sortBy)

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(filtered)
			}

			if len(filtered) == 0 {
				if filter != "" {
					ui.PrintWarning("No builds found matching %q", filter)
				} else {
					ui.PrintInfo("No builds recorded yet. Run 'claudeport build' first.")
				}
				return nil
			}

			ui.PrintHeader("Recorded Builds")
			fmt.Printf("Total: %d builds", len(builds))
			if len(filtered) != len(builds) {
				fmt.Printf(" (showing %d filtered)", len(filtered))
			}
			fmt.Println()
			fmt.Println()

			if showDetails {
				printDetailedTable(cmd, filtered)
			} else {
				printCompactTable(cmd, filtered)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().StringVar(&filter, "filter", "", "fuzzy filter on build ID or version")
	cmd.Flags().StringVar(&sortBy, "sort", "date", "sort by: date, version")
	cmd.Flags().BoolVarP(&showDetails, "details", "d", false, "show detailed information")

	return cmd
}

// filterBuilds keeps the builds whose ID or version fuzzy-matches the
// pattern
func filterBuilds(builds []core.BuildRecord, filter string) []core.BuildRecord {
	if filter == "" {
		return builds
	}

	filtered := make([]core.BuildRecord, 0)
	for _, b := range builds {
		if ui.FuzzyMatch(filter, b.BuildID) || ui.FuzzyMatch(filter, b.Version) {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

// sortBuilds sorts builds by the specified field
func sortBuilds(builds []core.BuildRecord, sortBy string) {
	switch strings.ToLower(sortBy) {
	case "version":
		sort.Slice(builds, func(i, j int) bool {
			if builds[i].Version == builds[j].Version {
				return builds[i].BuildDate.After(builds[j].BuildDate)
			}
			return builds[i].Version < builds[j].Version
		})
	default:
		sort.Slice(builds, func(i, j int) bool {
			return builds[i].BuildDate.After(builds[j].BuildDate)
		})
	}
}

// printCompactTable prints a compact table view
func printCompactTable(cmd *cobra.Command, builds []core.BuildRecord) {
	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithHeader([]string{"Build ID", "Version", "Build Date"}),
		tablewriter.WithAlignment(tw.MakeAlign(3, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleNone)),
	)

	for _, b := range builds {
		version := b.Version
		if version == "" {
			version = "-"
		}

		table.Append(
			b.BuildID,
			version,
			b.BuildDate.Format("2006-01-02 15:04"),
		)
	}

	table.Render()
}

// printDetailedTable prints a detailed table view
func printDetailedTable(cmd *cobra.Command, builds []core.BuildRecord) {
	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithHeader([]string{"Build ID", "Version", "Build Date", "Output", "Icons"}),
		tablewriter.WithAlignment(tw.MakeAlign(5, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleLight)),
	)

	for _, b := range builds {
		version := b.Version
		if version == "" {
			version = "-"
		}

		output := b.OutputDir
		if len(output) > 40 {
			output = "..." + output[len(output)-37:]
		}

		table.Append(
			b.BuildID,
			version,
			b.BuildDate.Format("2006-01-02 15:04"),
			output,
			fmt.Sprintf("%d", len(b.Metadata.IconFiles)),
		)
	}

	table.Render()
}
