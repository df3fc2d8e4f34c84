package native

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/claudeport/internal/helpers"
	"github.com/quantmind-br/claudeport/internal/logging"
)

func TestUnsupportedCall(t *testing.T) {
	u := NewUnsupported(logging.NewTestLogger(nil))

	result, ok := u.Call("getWindowsVersion")
	assert.True(t, ok)
	assert.Equal(t, `"10.0.0"`, result)

	_, ok = u.Call("launchMissiles")
	assert.False(t, ok)

	assert.False(t, u.Supported())
}

func TestUnsupportedCoversWholeSurface(t *testing.T) {
	u := NewUnsupported(logging.NewTestLogger(nil))

	for _, op := range Ops {
		result, ok := u.Call(op.Name)
		assert.True(t, ok, op.Name)
		assert.Equal(t, op.Result, result, op.Name)
	}
}

func TestRenderShimExportsEveryOp(t *testing.T) {
	src := renderShim()

	assert.Contains(t, src, "module.exports")
	assert.Contains(t, src, "KeyboardKey")
	for _, op := range Ops {
		assert.Contains(t, src, fmt.Sprintf("%s: unavailable(%q,", op.Name, op.Name), op.Name)
	}
}

func TestEmit(t *testing.T) {
	dir := t.TempDir()
	runner := &helpers.MockCommandRunner{}

	e := NewEmitter(runner, logging.NewTestLogger(nil), "npm")
	artifact, err := e.Emit(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, ModuleName, ArtifactName), artifact)

	// manifest and shim must exist before the build runs
	_, err = os.Stat(filepath.Join(dir, ModuleName, "package.json"))
	assert.NoError(t, err)
	content, err := os.ReadFile(artifact)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(content), "getCursorPosition"))

	// the build must run inside the module directory
	require.Len(t, runner.Calls, 1)
	assert.Equal(t, "npm", runner.Calls[0].Name)
	assert.Equal(t, []string{"run", "build"}, runner.Calls[0].Args)
	assert.Equal(t, filepath.Join(dir, ModuleName), runner.Calls[0].Dir)
}

func TestEmitBuildFailure(t *testing.T) {
	dir := t.TempDir()
	runner := &helpers.MockCommandRunner{
		RunCommandInDirFunc: func(ctx context.Context, cmdDir, name string, args ...string) (string, error) {
			return "npm ERR! broken", fmt.Errorf("exit status 1")
		},
	}

	e := NewEmitter(runner, logging.NewTestLogger(nil), "")
	_, err := e.Emit(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "binding build failed")
}
