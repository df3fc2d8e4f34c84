package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/quantmind-br/claudeport/internal/config"
	"github.com/quantmind-br/claudeport/internal/core"
	"github.com/quantmind-br/claudeport/internal/db"
	"github.com/quantmind-br/claudeport/internal/deps"
	"github.com/quantmind-br/claudeport/internal/desktop"
	"github.com/quantmind-br/claudeport/internal/fetch"
	"github.com/quantmind-br/claudeport/internal/fsops"
	"github.com/quantmind-br/claudeport/internal/helpers"
	"github.com/quantmind-br/claudeport/internal/icons"
	"github.com/quantmind-br/claudeport/internal/installer"
	"github.com/quantmind-br/claudeport/internal/native"
	"github.com/quantmind-br/claudeport/internal/paths"
	"github.com/quantmind-br/claudeport/internal/payload"
	"github.com/quantmind-br/claudeport/internal/pipeline"
	"github.com/quantmind-br/claudeport/internal/report"
	"github.com/quantmind-br/claudeport/internal/ui"
)

// NewBuildCmd creates the build command
func NewBuildCmd(cfg *config.Config, log *zerolog.Logger) *cobra.Command {
	var (
		force       bool
		skipDeps    bool
		keepWork    bool
		quiet       bool
		timeoutSecs int
		sha256Flag  string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the Linux bundle from the upstream installer",
		Long:  `Run the full repackaging pipeline: check external tools, download the Windows installer, extract the Electron payload, rebuild the resource archive with a stubbed native binding, and stage launcher, icons and menu entry into the output tree.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(timeoutSecs)*time.Second)
			defer cancel()

			runner := helpers.NewOSCommandRunner()
			resolver := paths.NewResolver(cfg)

			// Precondition gate: nothing is written before it passes.
			check := deps.Check(runner, log)
			if !check.OK() && !skipDeps {
				for _, line := range deps.InstallGuidance(check) {
					ui.PrintWarning("%s", line)
				}
				os.Exit(core.ExitMissingDeps)
			}

			if !force && dirHasEntries(resolver.OutputDir()) {
				confirmed, err := ui.ConfirmPrompt(fmt.Sprintf("Output directory %s already exists. Overwrite", resolver.OutputDir()))
				if err != nil || !confirmed {
					color.Yellow("Build cancelled.")
					return nil
				}
			}

			if sha256Flag != "" {
				cfg.Build.Sha256 = sha256Flag
			}

			build := &pipeline.Build{
				Cfg:       cfg,
				Log:       log,
				Runner:    runner,
				Fs:        afero.NewOsFs(),
				Paths:     resolver,
				ImageTool: check.ImageTool,
				Quiet:     quiet,
				State:     &pipeline.State{},
			}

			run := pipeline.NewRunner(buildSteps(), log)
			if err := run.Run(ctx, build); err != nil {
				color.Red("Error: %v", err)
				return err
			}

			if !keepWork {
				if err := os.RemoveAll(resolver.WorkDir()); err != nil {
					log.Warn().Err(err).Msg("failed to remove work directory")
				}
			}

			if err := recordBuild(ctx, cfg, build); err != nil {
				// The bundle is already staged; losing the ledger entry
				// only degrades list/info.
				log.Warn().Err(err).Msg("failed to record build in ledger")
			}

			report.PostBuild(resolver, check.Provider, build.State.Version)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing output tree without asking")
	cmd.Flags().BoolVar(&skipDeps, "skip-deps", false, "Skip the external tool check")
	cmd.Flags().BoolVar(&keepWork, "keep-work", false, "Keep the work directory after the build")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress step output")
	cmd.Flags().IntVar(&timeoutSecs, "timeout", 1800, "Overall build timeout in seconds")
	cmd.Flags().StringVar(&sha256Flag, "sha256", "", "Expected installer SHA-256 (empty skips verification)")

	return cmd
}

// dirHasEntries reports whether path is a directory with at least one
// entry. A missing or empty directory needs no overwrite confirmation.
func dirHasEntries(path string) bool {
	entries, err := os.ReadDir(path)
	return err == nil && len(entries) > 0
}

// buildSteps is the fixed pipeline. Order matters: each step consumes
// state produced by an earlier one.
func buildSteps() []pipeline.Step {
	return []pipeline.Step{
		{Name: "prepare", Desc: "Resetting work and output directories", Run: stepPrepare},
		{Name: "binding", Desc: "Generating native binding replacement", Run: stepBinding},
		{Name: "fetch", Desc: "Fetching upstream installer", Run: stepFetch},
		{Name: "unpack", Desc: "Extracting installer payload", Run: stepUnpack},
		{Name: "icons", Desc: "Installing application icons", Run: stepIcons},
		{Name: "repack", Desc: "Rebuilding resource archive", Run: stepRepack},
		{Name: "launcher", Desc: "Writing launcher and menu entry", Run: stepLauncher},
	}
}

func stepPrepare(ctx context.Context, b *pipeline.Build) error {
	if err := fsops.ResetDir(b.Fs, b.Paths.WorkDir(), 0755); err != nil {
		return fmt.Errorf("reset work directory: %w", err)
	}
	if err := fsops.ResetDir(b.Fs, b.Paths.OutputDir(), 0755); err != nil {
		return fmt.Errorf("reset output directory: %w", err)
	}
	return nil
}

func stepBinding(ctx context.Context, b *pipeline.Build) error {
	emitter := native.NewEmitter(b.Runner, b.Log, b.Cfg.Build.NpmCommand)
	artifact, err := emitter.Emit(ctx, b.Paths.WorkDir())
	if err != nil {
		return err
	}
	b.State.StubDir = filepath.Dir(artifact)
	b.State.StubArtifact = artifact
	return nil
}

func stepFetch(ctx context.Context, b *pipeline.Build) error {
	f := fetch.New(b.Log, b.Quiet)
	dest := b.Paths.InstallerCachePath()
	if err := f.Ensure(ctx, b.Cfg.Build.DownloadURL, dest, b.Cfg.Build.Sha256); err != nil {
		return err
	}
	b.State.InstallerPath = dest
	return nil
}

func stepUnpack(ctx context.Context, b *pipeline.Build) error {
	res, err := installer.New(b.Runner, b.Log).Unpack(ctx, b.State.InstallerPath, b.Paths.WorkDir())
	if err != nil {
		return err
	}
	b.State.NupkgPath = res.NupkgPath
	b.State.PayloadDir = res.PayloadDir
	b.State.Version = res.Version
	return nil
}

func stepIcons(ctx context.Context, b *pipeline.Build) error {
	installed, err := icons.New(b.Runner, b.Paths, b.Log, b.ImageTool).Extract(ctx, b.State.PayloadDir, b.Paths.WorkDir())
	if err != nil {
		return err
	}
	for _, ic := range installed {
		b.State.IconFiles = append(b.State.IconFiles, ic.Path)
	}
	return nil
}

func stepRepack(ctx context.Context, b *pipeline.Build) error {
	r := payload.New(b.Runner, b.Log, b.Cfg.Build.AsarCommand)
	return r.Repack(ctx, b.State.PayloadDir, b.Paths.WorkDir(), b.Paths.LibDir(), b.State.StubArtifact)
}

func stepLauncher(ctx context.Context, b *pipeline.Build) error {
	wrapperPath := b.Paths.WrapperPath()
	err := desktop.WriteWrapper(wrapperPath, desktop.WrapperOptions{
		ElectronCommand: b.Cfg.Build.ElectronCommand,
		DisableSandbox:  b.Cfg.Desktop.ElectronDisableSandbox,
	})
	if err != nil {
		return err
	}
	b.State.WrapperScript = wrapperPath

	entry := desktop.NewEntry()
	if err := desktop.WriteDesktopFile(b.Paths.DesktopFilePath(), entry); err != nil {
		return err
	}
	b.State.DesktopFile = b.Paths.DesktopFilePath()
	return nil
}

// recordBuild writes the finished build into the sqlite ledger.
func recordBuild(ctx context.Context, cfg *config.Config, b *pipeline.Build) error {
	database, err := db.New(ctx, cfg.Paths.DBFile)
	if err != nil {
		return err
	}
	defer database.Close()

	rec := &core.BuildRecord{
		BuildID:       helpers.GenerateBuildID(core.AppName),
		Version:       b.State.Version,
		BuildDate:     time.Now(),
		InstallerFile: b.State.InstallerPath,
		OutputDir:     b.Paths.OutputDir(),
		DesktopFile:   b.State.DesktopFile,
		Metadata: core.Metadata{
			IconFiles:     b.State.IconFiles,
			WrapperScript: b.State.WrapperScript,
			StubArtifact:  b.State.StubArtifact,
			Sha256:        cfg.Build.Sha256,
		},
	}
	return database.Create(ctx, rec)
}
