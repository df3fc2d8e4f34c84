package desktop

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/quantmind-br/claudeport/internal/core"
)

// Parse parses a .desktop file from a reader
func Parse(r io.Reader) (*core.DesktopEntry, error) {
	de := &core.DesktopEntry{}
	scanner := bufio.NewScanner(r)
	inDesktopEntry := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Check for [Desktop Entry] section
		if line == "[Desktop Entry]" {
			inDesktopEntry = true
			continue
		}

		// Parse key-value pairs
		if inDesktopEntry && strings.Contains(line, "=") {
			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			switch key {
			case "Type":
				de.Type = value
			case "Name":
				de.Name = value
			case "Exec":
				de.Exec = value
			case "Icon":
				de.Icon = value
			case "Comment":
				de.Comment = value
			case "Categories":
				de.Categories = parseSemicolonList(value)
			case "MimeType":
				de.MimeType = parseSemicolonList(value)
			case "Terminal":
				de.Terminal = value == "true"
			case "StartupWMClass":
				de.StartupWMClass = value
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan desktop file: %w", err)
	}

	return de, nil
}

// Write writes a .desktop file to a writer
func Write(w io.Writer, de *core.DesktopEntry) error {
	fmt.Fprintln(w, "[Desktop Entry]")
	fmt.Fprintf(w, "Type=%s\n", de.Type)
	fmt.Fprintf(w, "Name=%s\n", de.Name)
	fmt.Fprintf(w, "Exec=%s\n", de.Exec)

	if de.Icon != "" {
		fmt.Fprintf(w, "Icon=%s\n", de.Icon)
	}
	if de.Comment != "" {
		fmt.Fprintf(w, "Comment=%s\n", de.Comment)
	}
	if len(de.Categories) > 0 {
		fmt.Fprintf(w, "Categories=%s\n", strings.Join(de.Categories, ";")+";")
	}
	if len(de.MimeType) > 0 {
		fmt.Fprintf(w, "MimeType=%s\n", strings.Join(de.MimeType, ";")+";")
	}
	if de.Terminal {
		fmt.Fprintln(w, "Terminal=true")
	}
	if de.StartupWMClass != "" {
		fmt.Fprintf(w, "StartupWMClass=%s\n", de.StartupWMClass)
	}

	return nil
}

// Validate checks if the desktop entry has required fields
func Validate(de *core.DesktopEntry) error {
	if de.Type == "" {
		return fmt.Errorf("Type field is required")
	}
	if de.Name == "" {
		return fmt.Errorf("Name field is required")
	}
	if de.Exec == "" {
		return fmt.Errorf("Exec field is required")
	}
	return nil
}

// NewEntry builds the menu entry for the repackaged app. Icon and Exec
// carry bare names: the theme lookup resolves the hicolor sizes, and
// PATH resolves the launcher wherever the tree was copied, so the
// entry stays valid after the staged output is gone. The URI scheme
// association lets the desktop route claude:// links here.
func NewEntry() *core.DesktopEntry {
	return &core.DesktopEntry{
		Type:           "Application",
		Name:           "Claude",
		Comment:        "Claude Desktop for Linux",
		Icon:           core.AppName,
		Exec:           core.BundleDirName + " %u",
		Terminal:       false,
		Categories:     []string{"Office", "Utility", "Network"},
		MimeType:       []string{core.URIScheme},
		StartupWMClass: "Claude",
	}
}

// WriteDesktopFile writes a desktop entry to a file
func WriteDesktopFile(filePath string, de *core.DesktopEntry) error {
	if err := Validate(de); err != nil {
		return fmt.Errorf("invalid desktop entry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("create applications directory: %w", err)
	}

	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("create desktop file: %w", err)
	}
	defer f.Close()

	if err := Write(f, de); err != nil {
		return fmt.Errorf("write desktop file: %w", err)
	}

	return nil
}

// ParseDesktopFile reads and parses a .desktop file from disk
func ParseDesktopFile(filePath string) (*core.DesktopEntry, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open desktop file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

func parseSemicolonList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ";") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
