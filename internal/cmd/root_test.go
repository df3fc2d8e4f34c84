package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/claudeport/internal/config"
	"github.com/quantmind-br/claudeport/internal/logging"
)

func TestRootCmdSubcommands(t *testing.T) {
	cfg := &config.Config{}
	log := logging.NewTestLogger(nil)

	root := NewRootCmd(cfg, log, "test")

	want := []string{"build", "doctor", "list", "info", "uninstall", "completion", "version"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, "missing subcommand %s", name)
	}
}

func TestVersionCmd(t *testing.T) {
	cmd := NewVersionCmd("1.2.3")

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs(nil)

	// version prints to stdout directly
	require.NoError(t, cmd.Execute())
}

func TestCompletionCmdRejectsUnknownShell(t *testing.T) {
	cmd := NewCompletionCmd()
	cmd.SetArgs([]string{"tcsh"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	assert.Error(t, cmd.Execute())
}
