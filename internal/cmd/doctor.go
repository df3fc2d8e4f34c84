package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/quantmind-br/claudeport/internal/config"
	"github.com/quantmind-br/claudeport/internal/db"
	"github.com/quantmind-br/claudeport/internal/deps"
	"github.com/quantmind-br/claudeport/internal/helpers"
	"github.com/quantmind-br/claudeport/internal/ui"
)

// minFreeBytes is roughly what a full build needs: installer download,
// two extraction passes and the staged output tree.
const minFreeBytes = 2 << 30

// NewDoctorCmd creates the doctor command
func NewDoctorCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check build tools and environment",
		Long:  `Check the external tools the build pipeline needs, the data directories, the build ledger, and the runtime environment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ui.PrintHeader("System Diagnostics")
			fmt.Println()

			var issues []string
			var warnings []string

			runner := helpers.NewOSCommandRunner()

			// 1. Build tools
			ui.PrintSubheader("Build Tools")
			check := deps.Check(runner, log)
			for _, tool := range deps.Required {
				if runner.CommandExists(tool) {
					ui.PrintSuccess("%s: found", tool)
				} else {
					ui.PrintError("%s: NOT FOUND", tool)
					issues = append(issues, fmt.Sprintf("Missing required tool: %s", tool))
				}
			}
			if check.ImageTool != "" {
				ui.PrintSuccess("image tool: %s", check.ImageTool)
			} else {
				ui.PrintError("image tool: NOT FOUND (need ImageMagick convert or magick)")
				issues = append(issues, "Missing image conversion tool (ImageMagick)")
			}

			fmt.Println()

			// 2. Runtime and desktop tooling, useful but not build-blocking
			ui.PrintSubheader("Runtime Tools")
			optional := []struct {
				name    string
				purpose string
			}{
				{cfg.Build.ElectronCommand, "Run the repackaged app"},
				{"gtk-update-icon-cache", "Refresh icon cache"},
				{"update-desktop-database", "Refresh menu database"},
				{"desktop-file-validate", "Validate menu entries"},
				{"xdg-mime", "Register the URI scheme"},
			}
			for _, dep := range optional {
				if runner.CommandExists(dep.name) {
					ui.PrintSuccess("%s: found", dep.name)
				} else {
					ui.PrintWarning("%s: not found (optional - %s)", dep.name, dep.purpose)
					warnings = append(warnings, fmt.Sprintf("Optional tool missing: %s", dep.name))
				}
			}

			fmt.Println()

			// 3. Package manager
			ui.PrintSubheader("Package Manager")
			if check.Provider != nil {
				ui.PrintSuccess("detected: %s", check.Provider.Name())
			} else {
				ui.PrintWarning("no supported package manager found (apt, dnf, pacman, zypper)")
				warnings = append(warnings, "No supported package manager; install guidance unavailable")
			}

			fmt.Println()

			// 4. Directories and disk space
			ui.PrintSubheader("Directories")
			dirs := []struct {
				path string
				name string
			}{
				{cfg.Paths.DataDir, "Data directory"},
				{cfg.Paths.WorkDir, "Work directory"},
				{cfg.Paths.OutputDir, "Output directory"},
				{filepath.Dir(cfg.Paths.DBFile), "Database directory"},
			}
			for _, dir := range dirs {
				if checkDirectory(dir.path) {
					ui.PrintSuccess("%s: %s", dir.name, dir.path)
				} else {
					ui.PrintError("%s: NOT ACCESSIBLE (%s)", dir.name, dir.path)
					issues = append(issues, fmt.Sprintf("Directory not accessible: %s", dir.path))
				}
			}

			if free, err := freeBytes(cfg.Paths.DataDir); err == nil {
				if free < minFreeBytes {
					ui.PrintWarning("free space: %.1f GiB (a build may need ~2 GiB)", float64(free)/(1<<30))
					warnings = append(warnings, "Low disk space in data directory")
				} else {
					ui.PrintSuccess("free space: %.1f GiB", float64(free)/(1<<30))
				}
			}

			fmt.Println()

			// 5. Build ledger
			ui.PrintSubheader("Build Ledger")
			ctx := context.Background()
			database, err := db.New(ctx, cfg.Paths.DBFile)
			if err != nil {
				ui.PrintError("Ledger: NOT ACCESSIBLE")
				issues = append(issues, fmt.Sprintf("Cannot open ledger: %v", err))
			} else {
				ui.PrintSuccess("Ledger: accessible (%s)", cfg.Paths.DBFile)
				defer database.Close()

				builds, err := database.List(ctx)
				if err != nil {
					ui.PrintWarning("Cannot list builds: %v", err)
					warnings = append(warnings, "Cannot list builds")
				} else {
					ui.PrintInfo("Recorded builds: %d", len(builds))

					if verbose {
						broken := 0
						for _, b := range builds {
							if b.OutputDir != "" {
								if _, err := os.Stat(b.OutputDir); os.IsNotExist(err) {
									broken++
									fmt.Printf("  • %s (%s): output tree missing\n", b.BuildID, b.Version)
								}
							}
						}
						if broken > 0 {
							warnings = append(warnings, fmt.Sprintf("%d builds have missing output trees", broken))
						} else {
							ui.PrintSuccess("All recorded builds have intact output trees")
						}
					}
				}
			}

			fmt.Println()

			// 6. Environment
			ui.PrintSubheader("Environment")
			for _, name := range []string{"XDG_DATA_HOME", "XDG_CONFIG_HOME", "WAYLAND_DISPLAY", "DISPLAY"} {
				if value := os.Getenv(name); value != "" {
					ui.PrintSuccess("%s: %s", name, value)
				} else {
					ui.PrintInfo("%s: not set (using defaults)", name)
				}
			}

			fmt.Println()

			ui.PrintHeader("Summary")
			fmt.Println()

			if len(issues) == 0 {
				ui.PrintSuccess("All critical checks passed!")
			} else {
				ui.PrintError("Found %d issue(s):", len(issues))
				ui.PrintList(issues)
				fmt.Println()
			}

			if len(warnings) > 0 {
				ui.PrintWarning("Found %d warning(s):", len(warnings))
				ui.PrintList(warnings)
			}

			fmt.Println()

			if len(issues) > 0 {
				return fmt.Errorf("system check failed with %d issue(s)", len(issues))
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output with output tree checks")

	return cmd
}

// checkDirectory checks if a directory exists and is writable,
// creating it when absent
func checkDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return os.MkdirAll(path, 0755) == nil
		}
		return false
	}

	if !info.IsDir() {
		return false
	}

	testFile := filepath.Join(path, ".claudeport-test")
	if err := os.WriteFile(testFile, []byte("test"), 0644); err != nil {
		return false
	}
	os.Remove(testFile)

	return true
}

// freeBytes returns the free space of the filesystem holding path.
func freeBytes(path string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, err
	}
	return st.Bavail * uint64(st.Bsize), nil
}
