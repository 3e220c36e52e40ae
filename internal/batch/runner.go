// Package batch runs manifest extraction over many decompiled packages.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/ralt/apkstats/internal/manifest"
	"github.com/ralt/apkstats/internal/metrics"
	"github.com/ralt/apkstats/internal/models"
	"github.com/ralt/apkstats/internal/scanner"
	"github.com/ralt/apkstats/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Runner extracts manifests from scanned packages concurrently
type Runner struct {
	// Workers bounds concurrent extractions; zero uses GOMAXPROCS
	Workers int
	// Timeout bounds a single extraction; zero disables it
	Timeout time.Duration
	Metrics metrics.Metrics
	Fs      afero.Fs
	Logger  logrus.FieldLogger
}

// Run extracts every package and returns one record per package in input
// order. Per-package failures do not stop the run; they are recorded on the
// package's ApkData and returned together as a multierror.
func (r *Runner) Run(ctx context.Context, pkgs []scanner.ScannedPackage) ([]*models.ApkData, error) {
	r.setDefaults()

	results := make([]*models.ApkData, len(pkgs))
	var (
		mu   sync.Mutex
		errs *multierror.Error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Workers)

	for i, pkg := range pkgs {
		i, pkg := i, pkg
		r.Metrics.IncPackagesScanned(pkg.Format.String())

		g.Go(func() error {
			data, err := r.process(gctx, pkg)
			results[i] = data
			if err != nil {
				mu.Lock()
				errs = multierror.Append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}

	// Workers never return errors; package failures are collected above
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, errs.ErrorOrNil()
}

func (r *Runner) setDefaults() {
	if r.Workers <= 0 {
		r.Workers = runtime.GOMAXPROCS(0)
	}
	if r.Metrics == nil {
		r.Metrics = metrics.Noop{}
	}
	if r.Fs == nil {
		r.Fs = afero.NewOsFs()
	}
	if r.Logger == nil {
		r.Logger = logrus.StandardLogger()
	}
}

type extraction struct {
	record *models.AndroidManifestData
	sha256 string
	err    error
}

// process extracts one package. The extractor gets no sink: a timed out
// extraction keeps running in the background and must not touch data.
func (r *Runner) process(ctx context.Context, pkg scanner.ScannedPackage) (*models.ApkData, error) {
	apk := models.NewApkFile(pkg.Name, pkg.Path)
	data := models.NewApkData(apk)
	data.ManifestFormat = pkg.Format.String()

	log := r.Logger.WithField("apk", apk.Marker())

	extractor, err := manifest.New(apk, nil, manifest.WithFs(r.Fs), manifest.WithLogger(r.Logger))
	if err != nil {
		return r.fail(data, err, metrics.StatusFailed)
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	start := time.Now()
	done := make(chan extraction, 1)
	go func() {
		var res extraction
		if sums, err := utils.CalculateChecksums(r.Fs, apk.ManifestPath()); err == nil {
			res.sha256 = sums.SHA256
		} else {
			log.Debugf("Failed to checksum manifest: %v", err)
		}
		res.record, res.err = extractor.Extract()
		done <- res
	}()

	select {
	case res := <-done:
		r.Metrics.ObserveExtractionDuration(time.Since(start).Seconds())
		data.ManifestSHA256 = res.sha256
		data.SetAndroidManifest(res.record)
		if res.err != nil {
			return r.fail(data, withPackage(res.err, pkg.Name), metrics.StatusFailed)
		}
		r.Metrics.IncExtractions(metrics.StatusOK)
		return data, nil
	case <-ctx.Done():
		data.SetAndroidManifest(models.NewAndroidManifestData())
		log.Errorf("Extraction abandoned: %v", ctx.Err())
		return r.fail(data, &models.StatsError{
			Type:    models.ErrTimeout,
			Package: pkg.Name,
			Err:     fmt.Errorf("extraction abandoned: %w", ctx.Err()),
		}, metrics.StatusTimeout)
	}
}

func (r *Runner) fail(data *models.ApkData, err error, status string) (*models.ApkData, error) {
	if data.AndroidManifest == nil {
		data.SetAndroidManifest(models.NewAndroidManifestData())
	}
	data.Error = err.Error()
	r.Metrics.IncExtractions(status)
	return data, err
}

// withPackage tags an extraction error with the package name
func withPackage(err error, name string) error {
	var se *models.StatsError
	if errors.As(err, &se) {
		return &models.StatsError{Type: se.Type, Package: name, Err: se.Err}
	}
	return &models.StatsError{Type: models.ErrParse, Package: name, Err: err}
}
