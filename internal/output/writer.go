// Package output serializes extraction results to disk.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ralt/apkstats/internal/models"
	"github.com/ralt/apkstats/internal/signer"
	"github.com/ralt/apkstats/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Format is a record serialization format
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case FormatJSON, "jsonl":
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q", name)
	}
}

// Encode writes records as JSON Lines or as a stream of YAML documents
func Encode(w io.Writer, format Format, records []*models.ApkData) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// Result describes the files produced by a write
type Result struct {
	Path          string
	SHA256        string
	Size          int64
	ChecksumPath  string
	SignaturePath string
	PublicKeyPath string
}

// Writer writes record files with their checksum and optional signature
type Writer struct {
	fs          afero.Fs
	format      Format
	compression utils.Compression
	signer      signer.Signer
}

// NewWriter creates a writer. s may be nil for unsigned output.
func NewWriter(fs afero.Fs, format Format, compression utils.Compression, s signer.Signer) *Writer {
	return &Writer{
		fs:          fs,
		format:      format,
		compression: compression,
		signer:      s,
	}
}

// WriteFile writes records to path, then <path>.sha256 and, when signing,
// <path>.asc and the verifying key as <path>.pub.asc
func (w *Writer) WriteFile(path string, records []*models.ApkData) (*Result, error) {
	if err := w.writeRecords(path, records); err != nil {
		return nil, &models.StatsError{
			Type: models.ErrOutput,
			Err:  fmt.Errorf("failed to write %s: %w", path, err),
		}
	}

	sums, err := utils.CalculateChecksums(w.fs, path)
	if err != nil {
		return nil, &models.StatsError{
			Type: models.ErrOutput,
			Err:  fmt.Errorf("failed to checksum %s: %w", path, err),
		}
	}

	result := &Result{
		Path:         path,
		SHA256:       sums.SHA256,
		Size:         sums.Size,
		ChecksumPath: path + ".sha256",
	}

	line := fmt.Sprintf("%s  %s\n", sums.SHA256, filepath.Base(path))
	if err := utils.WriteFile(w.fs, result.ChecksumPath, []byte(line), 0644); err != nil {
		return nil, &models.StatsError{
			Type: models.ErrOutput,
			Err:  fmt.Errorf("failed to write checksum: %w", err),
		}
	}

	if w.signer != nil {
		sigPath, err := w.sign(path)
		if err != nil {
			return nil, &models.StatsError{
				Type: models.ErrSigning,
				Err:  err,
			}
		}
		result.SignaturePath = sigPath
		logrus.Debugf("Signed %s", path)

		keyPath, err := w.exportPublicKey(path)
		if err != nil {
			return nil, &models.StatsError{
				Type: models.ErrSigning,
				Err:  err,
			}
		}
		result.PublicKeyPath = keyPath
	}

	return result, nil
}

func (w *Writer) writeRecords(path string, records []*models.ApkData) (err error) {
	f, err := utils.CreateFile(w.fs, path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	cw, err := utils.NewCompressWriter(f, w.compression)
	if err != nil {
		return err
	}

	if err := Encode(cw, w.format, records); err != nil {
		cw.Close()
		return err
	}
	return cw.Close()
}

func (w *Writer) sign(path string) (string, error) {
	f, err := w.fs.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sig, err := w.signer.SignDetached(f)
	if err != nil {
		return "", err
	}

	sigPath := path + ".asc"
	if err := utils.WriteFile(w.fs, sigPath, sig, 0644); err != nil {
		return "", fmt.Errorf("failed to write signature: %w", err)
	}
	return sigPath, nil
}

func (w *Writer) exportPublicKey(path string) (string, error) {
	key, err := w.signer.PublicKey()
	if err != nil {
		return "", fmt.Errorf("failed to export public key: %w", err)
	}

	keyPath := path + ".pub.asc"
	if err := utils.WriteFile(w.fs, keyPath, key, 0644); err != nil {
		return "", fmt.Errorf("failed to write public key: %w", err)
	}
	return keyPath, nil
}
