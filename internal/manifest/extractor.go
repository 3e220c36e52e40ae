// Package manifest extracts the AndroidManifest.xml statistics of a
// decompiled package.
package manifest

import (
	"fmt"
	"path/filepath"

	"github.com/ralt/apkstats/internal/models"
	"github.com/ralt/apkstats/internal/xmldoc"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// PackageContext identifies the package being processed
type PackageContext interface {
	// DecompiledDirectory returns the directory the package was decompiled into
	DecompiledDirectory() string

	// Marker returns the tag prefixed to every log line about this package
	Marker() string
}

// ManifestSink receives the extracted record
type ManifestSink interface {
	SetAndroidManifest(m *models.AndroidManifestData)
}

// Option configures an Extractor
type Option func(*Extractor)

// WithLogger sets the logger used for progress and failure messages
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Extractor) {
		e.log = l
	}
}

// WithFs sets the filesystem the manifest is read from
func WithFs(fs afero.Fs) Option {
	return func(e *Extractor) {
		e.fs = fs
	}
}

// Extractor extracts the manifest record of one package
type Extractor struct {
	pkg  PackageContext
	sink ManifestSink
	fs   afero.Fs
	log  logrus.FieldLogger
}

// New creates an extractor for pkg. sink may be nil when the caller only
// wants the returned record. A pkg whose methods panic (such as a typed nil
// pointer) is accepted here and reported as an extraction failure.
func New(pkg PackageContext, sink ManifestSink, opts ...Option) (*Extractor, error) {
	if a, ok := pkg.(*models.ApkFile); pkg == nil || (ok && a == nil) {
		return nil, &models.StatsError{
			Type: models.ErrInvalidArgument,
			Err:  fmt.Errorf("package context is nil"),
		}
	}

	e := &Extractor{
		pkg:  pkg,
		sink: sink,
		fs:   afero.NewOsFs(),
		log:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Extract reads the package's AndroidManifest.xml and returns its record.
//
// The record is never nil. Failures are logged and stop extraction; the
// record then holds whatever was populated before the failure and the error
// is returned alongside it.
func (e *Extractor) Extract() (*models.AndroidManifestData, error) {
	record := models.NewAndroidManifestData()
	log := e.log.WithField("apk", e.marker())

	log.Trace("Started processing AndroidManifest")

	err := e.extractInto(record, log)
	if err != nil {
		log.Error(err)
	}

	if e.sink != nil {
		e.sink.SetAndroidManifest(record)
	}

	log.Trace("Finished processing of AndroidManifest")

	return record, err
}

func (e *Extractor) extractInto(record *models.AndroidManifestData, log logrus.FieldLogger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extraction aborted: %v", r)
		}
	}()

	path := filepath.Join(e.pkg.DecompiledDirectory(), models.ManifestFileName)
	doc, err := xmldoc.Load(e.fs, path)
	if err != nil {
		return err
	}

	if root := doc.Root(); root.FullTag() != "manifest" {
		log.Debugf("Document element is %s, not manifest", root.FullTag())
	}
	if n := doc.CountByTag("manifest"); n != 1 {
		log.Debugf("Expected a single manifest element, found %d", n)
	}

	for _, pass := range passes {
		pass(doc, record)
	}
	return nil
}

func (e *Extractor) marker() (m string) {
	defer func() {
		if r := recover(); r != nil {
			m = "[unknown]"
		}
	}()
	return e.pkg.Marker()
}
