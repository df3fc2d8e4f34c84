package helpers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractVersionFromFilename(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"AnthropicClaude-0.12.55-full.nupkg", "0.12.55"},
		{"AnthropicClaude-1.2.3.4-full.nupkg", "1.2.3.4"},
		{"app-v2.0.1.nupkg", "2.0.1"},
		{"/work/installer/AnthropicClaude-0.9.0-full.nupkg", "0.9.0"},
		{"claude.nupkg", ""},
		{"noversion", ""},
	}

	for _, tc := range cases {
		if got := ExtractVersionFromFilename(tc.filename); got != tc.want {
			t.Errorf("ExtractVersionFromFilename(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}

func TestNormalizeFilename(t *testing.T) {
	cases := map[string]string{
		"Claude Desktop": "claude-desktop",
		"My_App v2":      "my-app-v2",
		"simple":         "simple",
	}

	for in, want := range cases {
		if got := NormalizeFilename(in); got != want {
			t.Errorf("NormalizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGenerateBuildID(t *testing.T) {
	id := GenerateBuildID("claude")
	if !strings.HasPrefix(id, "claude-") {
		t.Errorf("GenerateBuildID = %q, want claude- prefix", id)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")

	if err := os.WriteFile(src, []byte("content"), 0755); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "content" {
		t.Errorf("copied content = %q", got)
	}

	info, _ := os.Stat(dst)
	if info.Mode()&0111 == 0 {
		t.Error("executable bit not preserved")
	}
}

func TestCopyDir(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "copy")

	if err := os.MkdirAll(filepath.Join(src, "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "a.txt"), []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "nested", "b.txt"), []byte("b"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := CopyDir(src, dst); err != nil {
		t.Fatalf("CopyDir failed: %v", err)
	}

	for _, rel := range []string{"a.txt", "nested/b.txt"} {
		if _, err := os.Stat(filepath.Join(dst, rel)); err != nil {
			t.Errorf("missing %s after copy: %v", rel, err)
		}
	}
}

func TestFindByExtension(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.nupkg", "a.nupkg", "readme.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "c.NUPKG"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	matches, err := FindByExtension(dir, ".nupkg")
	if err != nil {
		t.Fatalf("FindByExtension failed: %v", err)
	}
	if len(matches) != 3 {
		t.Fatalf("matches = %v, want 3 entries", matches)
	}
	// sorted, case-insensitive extension match
	if filepath.Base(matches[0]) != "a.nupkg" {
		t.Errorf("first match = %s, want a.nupkg", matches[0])
	}
}

func TestFindByExtensionEmpty(t *testing.T) {
	matches, err := FindByExtension(t.TempDir(), ".nupkg")
	if err != nil {
		t.Fatalf("FindByExtension failed: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("matches = %v, want none", matches)
	}
}
