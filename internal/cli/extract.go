package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/ralt/apkstats/internal/batch"
	"github.com/ralt/apkstats/internal/metrics"
	"github.com/ralt/apkstats/internal/models"
	"github.com/ralt/apkstats/internal/output"
	"github.com/ralt/apkstats/internal/report"
	"github.com/ralt/apkstats/internal/scanner"
	"github.com/ralt/apkstats/internal/signer"
	"github.com/ralt/apkstats/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewExtractCmd creates the extract command
func NewExtractCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract manifest statistics from decompiled packages",
		Long: `Scans the input directory for decompiled packages (directories holding an
AndroidManifest.xml), extracts one record per package and writes the records
to the output file with a checksum and optional GPG signature.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config := configFromViper(v)

			// Validate configuration
			if err := validateConfig(&config); err != nil {
				return err
			}

			logrus.Info("Starting manifest extraction...")
			logrus.Debugf("Configuration: %+v", redact(config))

			return runExtraction(cmd.Context(), afero.NewOsFs(), &config, cmd.OutOrStdout())
		},
	}

	// Input/Output flags
	cmd.Flags().StringP("input-dir", "i", ".", "Directory to scan for decompiled packages")
	cmd.Flags().StringP("output", "o", "apkstats.jsonl", "Output file; .gz, .zst and .xz extensions select compression")
	cmd.Flags().StringP("format", "f", "json", "Record format (json, yaml)")
	cmd.Flags().String("compress", "", "Compression (none, gzip, zstd, xz); defaults to the output extension")

	// Execution flags
	cmd.Flags().IntP("workers", "w", 0, "Concurrent extractions (0 uses all CPUs)")
	cmd.Flags().Duration("timeout", 30*time.Second, "Time limit for a single package (0 disables)")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics to this textfile")
	cmd.Flags().Int("top-permissions", 10, "Permissions listed in the run summary")

	// GPG signing flags
	cmd.Flags().StringP("gpg-key", "k", "", "Path to GPG private key used to sign the output")
	cmd.Flags().StringP("gpg-passphrase", "p", "", "GPG key passphrase")

	return cmd
}

func configFromViper(v *viper.Viper) models.ExtractConfig {
	return models.ExtractConfig{
		InputDir:       v.GetString("input-dir"),
		OutputFile:     v.GetString("output"),
		Format:         v.GetString("format"),
		Compress:       v.GetString("compress"),
		Workers:        v.GetInt("workers"),
		Timeout:        v.GetDuration("timeout"),
		MetricsFile:    v.GetString("metrics-file"),
		GPGKeyPath:     v.GetString("gpg-key"),
		GPGPassphrase:  v.GetString("gpg-passphrase"),
		TopPermissions: v.GetInt("top-permissions"),
	}
}

func validateConfig(config *models.ExtractConfig) error {
	if config.InputDir == "" {
		return &models.StatsError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("input-dir is required"),
		}
	}

	if config.OutputFile == "" {
		return &models.StatsError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("output is required"),
		}
	}

	if _, err := output.ParseFormat(config.Format); err != nil {
		return &models.StatsError{Type: models.ErrInvalidConfig, Err: err}
	}

	if _, err := utils.ParseCompression(config.Compress, config.OutputFile); err != nil {
		return &models.StatsError{Type: models.ErrInvalidConfig, Err: err}
	}

	if config.Workers < 0 {
		return &models.StatsError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("workers must not be negative"),
		}
	}

	if config.Timeout < 0 {
		return &models.StatsError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("timeout must not be negative"),
		}
	}

	if config.GPGPassphrase != "" && config.GPGKeyPath == "" {
		return &models.StatsError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("gpg-passphrase given without gpg-key"),
		}
	}

	return nil
}

func redact(config models.ExtractConfig) models.ExtractConfig {
	if config.GPGPassphrase != "" {
		config.GPGPassphrase = "***"
	}
	return config
}

func runExtraction(ctx context.Context, fs afero.Fs, config *models.ExtractConfig, out io.Writer) error {
	log := logrus.WithField("run", uuid.NewString())

	format, _ := output.ParseFormat(config.Format)
	compression, _ := utils.ParseCompression(config.Compress, config.OutputFile)

	// Step 1: Initialize signer before doing any work
	var gpgSigner signer.Signer
	if config.GPGKeyPath != "" {
		s, err := signer.NewGPGSigner(config.GPGKeyPath, config.GPGPassphrase)
		if err != nil {
			return &models.StatsError{
				Type: models.ErrSigning,
				Err:  fmt.Errorf("failed to initialize GPG signer: %w", err),
			}
		}
		gpgSigner = s
		log.Info("GPG signer initialized")
	}

	// Step 2: Scan for decompiled packages
	log.Infof("Scanning directory: %s", config.InputDir)
	sc := scanner.NewFileSystemScanner(fs)
	scanned, err := sc.Scan(ctx, config.InputDir)
	if err != nil {
		return &models.StatsError{
			Type: models.ErrFileOp,
			Err:  fmt.Errorf("failed to scan directory: %w", err),
		}
	}

	if len(scanned) == 0 {
		log.Warn("No decompiled packages found in input directory")
		return nil
	}

	// Step 3: Extract
	var m metrics.Metrics = metrics.Noop{}
	var prom *metrics.Prom
	if config.MetricsFile != "" {
		prom = metrics.NewProm("apkstats")
		m = prom
	}

	runner := &batch.Runner{
		Workers: config.Workers,
		Timeout: config.Timeout,
		Metrics: m,
		Fs:      fs,
		Logger:  log,
	}
	records, err := runner.Run(ctx, scanned)
	if merr, ok := err.(*multierror.Error); ok {
		log.Warnf("%d of %d packages failed", len(merr.Errors), len(scanned))
	} else if err != nil {
		return err
	}

	// Step 4: Write records
	w := output.NewWriter(fs, format, compression, gpgSigner)
	res, err := w.WriteFile(config.OutputFile, records)
	if err != nil {
		return err
	}
	log.Infof("Wrote %d records to %s (sha256 %s)", len(records), res.Path, res.SHA256)
	if res.SignaturePath != "" {
		log.Infof("Signature: %s (public key %s)", res.SignaturePath, res.PublicKeyPath)
	}

	if prom != nil {
		if err := prom.WriteTextfile(config.MetricsFile); err != nil {
			log.Warnf("Failed to write metrics to %s: %v", config.MetricsFile, err)
		}
	}

	report.Summarize(records, config.TopPermissions).Render(out)

	log.Info("Manifest extraction completed successfully!")
	return nil
}
