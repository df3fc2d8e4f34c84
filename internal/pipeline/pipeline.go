package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/quantmind-br/claudeport/internal/config"
	"github.com/quantmind-br/claudeport/internal/helpers"
	"github.com/quantmind-br/claudeport/internal/paths"
	"github.com/quantmind-br/claudeport/internal/ui"
)

// Build is the immutable per-run context resolved once before the first
// step executes. Steps read from it and write their products into State.
type Build struct {
	Cfg    *config.Config
	Log    *zerolog.Logger
	Runner helpers.CommandRunner
	Fs     afero.Fs
	Paths  *paths.Resolver

	// ImageTool is the conversion binary resolved by the dependency gate
	// ("convert" or "magick").
	ImageTool string

	Quiet bool

	State *State
}

// State carries facts discovered mid-pipeline. Each field is written by
// exactly one step and read only by later ones.
type State struct {
	InstallerPath string // cached installer on disk
	NupkgPath     string // nested archive located by extension search
	PayloadDir    string // extracted lib/net45 tree
	Version       string // upstream version, from the nupkg filename
	StubDir       string // generated native module project
	StubArtifact  string // built binding artifact
	IconFiles     []string
	DesktopFile   string
	WrapperScript string
}

// StepFunc is one pipeline stage.
type StepFunc func(ctx context.Context, b *Build) error

// Step pairs a stage with its name; the name is what failure reports carry
// instead of a script line number.
type Step struct {
	Name string
	Desc string
	Run  StepFunc
}

// StepError identifies which stage failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Runner drives the steps strictly in order, stopping at the first error.
// There is no retry and no rollback: a failed run leaves partial output
// that the next run's directory reset discards.
type Runner struct {
	steps []Step
	log   *zerolog.Logger
}

// NewRunner creates a Runner over a fixed step sequence.
func NewRunner(steps []Step, log *zerolog.Logger) *Runner {
	return &Runner{steps: steps, log: log}
}

// Steps returns the step names in execution order.
func (r *Runner) Steps() []string {
	names := make([]string, len(r.steps))
	for i, s := range r.steps {
		names[i] = s.Name
	}
	return names
}

// Run executes the pipeline against the build context.
func (r *Runner) Run(ctx context.Context, b *Build) error {
	total := len(r.steps)

	for i, step := range r.steps {
		if err := ctx.Err(); err != nil {
			return &StepError{Step: step.Name, Err: err}
		}

		if !b.Quiet {
			ui.PrintStep(i+1, total, "%s", step.Desc)
		}
		r.log.Info().Str("step", step.Name).Msg("starting step")

		if err := step.Run(ctx, b); err != nil {
			r.log.Error().Err(err).Str("step", step.Name).Msg("step failed")
			return &StepError{Step: step.Name, Err: err}
		}

		r.log.Debug().Str("step", step.Name).Msg("step completed")
	}

	return nil
}
