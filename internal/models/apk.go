package models

import (
	"fmt"
	"path/filepath"
)

// ManifestFileName is the manifest's name inside a decompiled package
const ManifestFileName = "AndroidManifest.xml"

// ApkFile identifies one decompiled package
type ApkFile struct {
	Name          string
	DecompiledDir string
}

// NewApkFile creates an ApkFile, naming it after the directory when name is empty
func NewApkFile(name, decompiledDir string) *ApkFile {
	if name == "" {
		name = filepath.Base(decompiledDir)
	}
	return &ApkFile{Name: name, DecompiledDir: decompiledDir}
}

// DecompiledDirectory returns the directory holding the decompiled package
func (a *ApkFile) DecompiledDirectory() string {
	return a.DecompiledDir
}

// ManifestPath returns the expected location of AndroidManifest.xml
func (a *ApkFile) ManifestPath() string {
	return filepath.Join(a.DecompiledDir, ManifestFileName)
}

// Marker returns the tag used to correlate log lines with this package
func (a *ApkFile) Marker() string {
	return fmt.Sprintf("[%s]", a.Name)
}

// ApkData is the per-package statistics record
type ApkData struct {
	Name           string `json:"name" yaml:"name"`
	DecompiledDir  string `json:"decompiledDirectory" yaml:"decompiledDirectory"`
	ManifestFormat string `json:"manifestFormat,omitempty" yaml:"manifestFormat,omitempty"`
	ManifestSHA256 string `json:"manifestSha256,omitempty" yaml:"manifestSha256,omitempty"`
	Error          string `json:"error,omitempty" yaml:"error,omitempty"`

	AndroidManifest *AndroidManifestData `json:"androidManifest" yaml:"androidManifest"`
}

// NewApkData creates the statistics record for a package
func NewApkData(apk *ApkFile) *ApkData {
	return &ApkData{
		Name:          apk.Name,
		DecompiledDir: apk.DecompiledDir,
	}
}

// SetAndroidManifest attaches the manifest record
func (d *ApkData) SetAndroidManifest(m *AndroidManifestData) {
	d.AndroidManifest = m
}
