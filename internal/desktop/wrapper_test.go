package desktop

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteWrapper(t *testing.T) {
	dir := t.TempDir()
	wrapperPath := filepath.Join(dir, "bin", "claude-desktop")

	err := WriteWrapper(wrapperPath, WrapperOptions{})
	if err != nil {
		t.Fatalf("WriteWrapper failed: %v", err)
	}

	info, err := os.Stat(wrapperPath)
	if err != nil {
		t.Fatalf("wrapper missing: %v", err)
	}
	if info.Mode()&0111 == 0 {
		t.Errorf("wrapper is not executable: %v", info.Mode())
	}

	content, err := os.ReadFile(wrapperPath)
	if err != nil {
		t.Fatalf("read wrapper: %v", err)
	}
	script := string(content)

	// The Wayland flags must be decided when the script runs, so the
	// generated text carries the conditional, never a pre-resolved flag
	// set.
	if !strings.Contains(script, `if [ -n "$WAYLAND_DISPLAY" ]`) {
		t.Error("wrapper should test WAYLAND_DISPLAY at launch time")
	}
	if !strings.Contains(script, "--ozone-platform=wayland") {
		t.Error("wrapper should carry the Wayland flags inside the conditional")
	}
	if !strings.Contains(script, "app.asar") {
		t.Error("wrapper should launch the packed archive")
	}
	if strings.Contains(script, "--no-sandbox") {
		t.Error("sandbox should stay enabled by default")
	}
	if !strings.Contains(script, "exec electron") {
		t.Errorf("wrapper should exec the default runtime:\n%s", script)
	}
}

// The output tree gets copied into ~/.local wholesale, so the script
// must find the bundle next to wherever it ends up, never at the path
// it was staged under.
func TestWriteWrapperRelocatable(t *testing.T) {
	staged := t.TempDir()
	wrapperPath := filepath.Join(staged, "bin", "claude-desktop")

	if err := WriteWrapper(wrapperPath, WrapperOptions{}); err != nil {
		t.Fatalf("WriteWrapper failed: %v", err)
	}

	content, err := os.ReadFile(wrapperPath)
	if err != nil {
		t.Fatalf("read wrapper: %v", err)
	}
	script := string(content)

	if !strings.Contains(script, `dirname "$(realpath "$0")"`) {
		t.Errorf("wrapper should resolve its own location:\n%s", script)
	}
	if !strings.Contains(script, "../lib/claude-desktop") {
		t.Errorf("wrapper should reach the bundle as a sibling of bin/:\n%s", script)
	}
	if strings.Contains(script, staged) {
		t.Errorf("wrapper must not bake in the staged tree path %s:\n%s", staged, script)
	}
}

func TestWriteWrapperOptions(t *testing.T) {
	dir := t.TempDir()
	wrapperPath := filepath.Join(dir, "claude-desktop")

	err := WriteWrapper(wrapperPath, WrapperOptions{
		ElectronCommand: "/opt/electron/electron",
		DisableSandbox:  true,
	})
	if err != nil {
		t.Fatalf("WriteWrapper failed: %v", err)
	}

	content, err := os.ReadFile(wrapperPath)
	if err != nil {
		t.Fatalf("read wrapper: %v", err)
	}
	script := string(content)

	if !strings.Contains(script, "/opt/electron/electron") {
		t.Error("wrapper should use the configured runtime")
	}
	if !strings.Contains(script, "--no-sandbox") {
		t.Error("wrapper should carry --no-sandbox when configured")
	}
}
