package scanner

import "context"

// ManifestFormat represents how a package's AndroidManifest.xml is encoded
type ManifestFormat int

const (
	FormatUnknown ManifestFormat = iota
	FormatText
	FormatBinary
)

// String returns the string representation of ManifestFormat
func (f ManifestFormat) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// ScannedPackage represents a decompiled package directory found during scanning
type ScannedPackage struct {
	// Path is the decompiled directory
	Path string
	// Name is the directory relative to the scan root
	Name   string
	Format ManifestFormat
	// Size of the manifest file in bytes
	Size int64
}

// Scanner interface for finding decompiled packages
type Scanner interface {
	// Scan recursively scans a directory for decompiled packages
	Scan(ctx context.Context, dir string) ([]ScannedPackage, error)

	// DetectFormat determines how the manifest at path is encoded
	DetectFormat(path string) (ManifestFormat, error)
}
