package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/claudeport/internal/logging"
)

func TestRunnerExecutesInOrder(t *testing.T) {
	log := logging.NewTestLogger(nil)

	var order []string
	step := func(name string) Step {
		return Step{Name: name, Desc: name, Run: func(ctx context.Context, b *Build) error {
			order = append(order, name)
			return nil
		}}
	}

	r := NewRunner([]Step{step("fetch"), step("unpack"), step("icons")}, log)
	b := &Build{Log: log, Quiet: true, State: &State{}}

	err := r.Run(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, []string{"fetch", "unpack", "icons"}, order)
}

func TestRunnerStopsAtFirstFailure(t *testing.T) {
	log := logging.NewTestLogger(nil)
	boom := errors.New("extraction failed")

	var ran []string
	steps := []Step{
		{Name: "fetch", Run: func(ctx context.Context, b *Build) error {
			ran = append(ran, "fetch")
			return nil
		}},
		{Name: "unpack", Run: func(ctx context.Context, b *Build) error {
			ran = append(ran, "unpack")
			return boom
		}},
		{Name: "icons", Run: func(ctx context.Context, b *Build) error {
			ran = append(ran, "icons")
			return nil
		}},
	}

	r := NewRunner(steps, log)
	err := r.Run(context.Background(), &Build{Log: log, Quiet: true, State: &State{}})

	require.Error(t, err)
	assert.Equal(t, []string{"fetch", "unpack"}, ran, "later steps must not run")

	// the failure must identify the originating step
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "unpack", stepErr.Step)
	assert.ErrorIs(t, err, boom)
}

func TestRunnerHonorsCancellation(t *testing.T) {
	log := logging.NewTestLogger(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	r := NewRunner([]Step{
		{Name: "fetch", Run: func(ctx context.Context, b *Build) error {
			ran = true
			return nil
		}},
	}, log)

	err := r.Run(ctx, &Build{Log: log, Quiet: true, State: &State{}})
	require.Error(t, err)
	assert.False(t, ran)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunnerSteps(t *testing.T) {
	log := logging.NewTestLogger(nil)
	r := NewRunner([]Step{{Name: "a"}, {Name: "b"}}, log)
	assert.Equal(t, []string{"a", "b"}, r.Steps())
}
