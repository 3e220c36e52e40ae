package models

import "time"

// ExtractConfig contains configuration for a batch extraction run
type ExtractConfig struct {
	// Input/Output
	InputDir   string
	OutputFile string
	Format     string // json or yaml
	Compress   string // none, gzip, zstd, xz; empty picks from the output extension

	// Execution
	Workers int
	Timeout time.Duration

	// Metrics textfile for the node exporter, optional
	MetricsFile string

	// Signing
	GPGKeyPath    string
	GPGPassphrase string

	// Number of permissions listed in the run summary
	TopPermissions int
}
