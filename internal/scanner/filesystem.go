package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ralt/apkstats/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// FileSystemScanner implements Scanner interface for filesystem scanning
type FileSystemScanner struct {
	fs afero.Fs
}

// NewFileSystemScanner creates a new filesystem scanner
func NewFileSystemScanner(fs afero.Fs) *FileSystemScanner {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileSystemScanner{fs: fs}
}

// Scan walks dir and returns every directory holding an AndroidManifest.xml.
// Found package directories are not descended into. Entries below dir that
// cannot be read are logged and skipped.
func (s *FileSystemScanner) Scan(ctx context.Context, dir string) ([]ScannedPackage, error) {
	var packages []ScannedPackage

	err := afero.Walk(s.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			logrus.Warnf("Skipping %s: %v", path, err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// Check context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !info.IsDir() {
			return nil
		}

		manifestPath := filepath.Join(path, models.ManifestFileName)
		manifestInfo, err := s.fs.Stat(manifestPath)
		if err != nil || manifestInfo.IsDir() {
			return nil
		}

		format, err := s.DetectFormat(manifestPath)
		if err != nil {
			logrus.Warnf("Failed to detect manifest format for %s: %v", manifestPath, err)
		}

		name, err := filepath.Rel(dir, path)
		if err != nil || name == "." {
			name = filepath.Base(path)
		}

		logrus.Debugf("Found %s manifest: %s", format, manifestPath)

		packages = append(packages, ScannedPackage{
			Path:   path,
			Name:   filepath.ToSlash(name),
			Format: format,
			Size:   manifestInfo.Size(),
		})

		return filepath.SkipDir
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	logrus.Infof("Found %d decompiled packages in %s", len(packages), dir)
	return packages, nil
}

// DetectFormat determines how the manifest at path is encoded
func (s *FileSystemScanner) DetectFormat(path string) (ManifestFormat, error) {
	return DetectManifestFormat(s.fs, path)
}
