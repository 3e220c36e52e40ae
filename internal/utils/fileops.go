package utils

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// WriteFile writes data to a file, creating directories as needed
func WriteFile(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return afero.WriteFile(fs, path, data, perm)
}

// CreateFile creates or truncates a file, creating directories as needed
func CreateFile(fs afero.Fs, path string) (afero.File, error) {
	if err := EnsureDir(fs, filepath.Dir(path)); err != nil {
		return nil, err
	}
	return fs.Create(path)
}

// EnsureDir ensures a directory exists, creating it if necessary
func EnsureDir(fs afero.Fs, path string) error {
	return fs.MkdirAll(path, 0755)
}
