package fsops

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// CheckWritable checks if a path is writable
func CheckWritable(fs afero.Fs, path string) error {
	testFile := path + "/.write_test"
	f, err := fs.Create(testFile)
	if err != nil {
		return fmt.Errorf("path not writable: %w", err)
	}
	f.Close()
	fs.Remove(testFile)
	return nil
}

// EnsureDir ensures a directory exists with the given permissions
func EnsureDir(fs afero.Fs, path string, perm os.FileMode) error {
	if err := fs.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("ensure directory: %w", err)
	}
	return nil
}

// Exists checks if a path exists
func Exists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// IsDir checks if a path is a directory
func IsDir(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// ResetDir removes a directory tree and recreates it empty. The build uses
// this on the work and output dirs so a failed previous run leaves no trace.
func ResetDir(fs afero.Fs, path string, perm os.FileMode) error {
	if err := fs.RemoveAll(path); err != nil {
		return fmt.Errorf("remove directory: %w", err)
	}
	if err := fs.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("recreate directory: %w", err)
	}
	return nil
}

// CopyFile copies a file from src to dst
func CopyFile(fs afero.Fs, src, dst string) error {
	content, err := afero.ReadFile(fs, src)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	if err := afero.WriteFile(fs, dst, content, 0644); err != nil {
		return fmt.Errorf("write destination: %w", err)
	}

	return nil
}
