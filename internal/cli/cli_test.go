package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ralt/apkstats/internal/models"
	"github.com/ralt/apkstats/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const appManifest = `<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android" package="com.example.app" android:versionCode="12">
    <uses-permission android:name="android.permission.INTERNET"/>
    <application>
        <activity android:name=".Main"/>
        <receiver android:name=".Boot"/>
    </application>
</manifest>
`

func setupInput(t *testing.T) string {
	t.Helper()
	input := t.TempDir()

	for name, content := range map[string]string{
		"app":    appManifest,
		"broken": `<manifest package="x"`,
	} {
		dir := filepath.Join(input, name)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
		if err := os.WriteFile(filepath.Join(dir, models.ManifestFileName), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write manifest: %v", err)
		}
	}
	return input
}

func silenceLogs(t *testing.T) {
	t.Helper()
	orig := logrus.StandardLogger().Out
	logrus.SetOutput(io.Discard)
	t.Cleanup(func() { logrus.SetOutput(orig) })
}

func TestExtractCommand(t *testing.T) {
	silenceLogs(t)
	input := setupInput(t)
	outFile := filepath.Join(t.TempDir(), "records.jsonl.gz")
	metricsFile := filepath.Join(t.TempDir(), "apkstats.prom")

	var stdout bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetArgs([]string{"extract", "-i", input, "-o", outFile, "--metrics-file", metricsFile, "--workers", "2"})

	if err := root.Execute(); err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	f, err := os.Open(outFile)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	defer f.Close()

	r, err := utils.NewDecompressReader(f, utils.CompressionGzip)
	if err != nil {
		t.Fatalf("output is not gzip: %v", err)
	}

	records := map[string]models.ApkData{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		var rec models.ApkData
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("invalid record %s: %v", sc.Text(), err)
		}
		records[rec.Name] = rec
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	app := records["app"].AndroidManifest
	if app.PackageName != "com.example.app" || app.VersionCode != "12" || app.NumberOfBroadcastReceivers != 1 {
		t.Errorf("unexpected app record: %+v", app)
	}
	if records["broken"].Error == "" {
		t.Error("broken package should carry its error")
	}

	if _, err := os.Stat(outFile + ".sha256"); err != nil {
		t.Errorf("checksum file missing: %v", err)
	}
	if _, err := os.Stat(outFile + ".asc"); !os.IsNotExist(err) {
		t.Errorf("unsigned run should not produce a signature")
	}
	if data, err := os.ReadFile(metricsFile); err != nil || !strings.Contains(string(data), "apkstats_manifest_extractions_total") {
		t.Errorf("metrics textfile missing or incomplete: %v\n%s", err, data)
	}
	if !strings.Contains(stdout.String(), "ANDROID.PERMISSION.INTERNET") && !strings.Contains(stdout.String(), "android.permission.INTERNET") {
		t.Errorf("summary does not list permissions:\n%s", stdout.String())
	}
}

func TestExtractCommandConfigFile(t *testing.T) {
	silenceLogs(t)
	input := setupInput(t)
	outDir := t.TempDir()
	outFile := filepath.Join(outDir, "records.yaml")

	cfg := filepath.Join(outDir, "apkstats.yaml")
	content := "input-dir: " + input + "\noutput: " + outFile + "\nformat: yaml\n"
	if err := os.WriteFile(cfg, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"extract", "--config", cfg})
	if err := root.Execute(); err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	data, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !strings.Contains(string(data), "packageName: com.example.app") {
		t.Errorf("yaml output missing package name:\n%s", data)
	}
}

func TestManifestCommand(t *testing.T) {
	silenceLogs(t)
	input := setupInput(t)

	var stdout bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetArgs([]string{"manifest", filepath.Join(input, "app")})
	if err := root.Execute(); err != nil {
		t.Fatalf("manifest failed: %v", err)
	}

	var rec models.ApkData
	if err := json.Unmarshal(stdout.Bytes(), &rec); err != nil {
		t.Fatalf("invalid output %s: %v", stdout.String(), err)
	}
	if rec.AndroidManifest.PackageName != "com.example.app" {
		t.Errorf("PackageName = %q", rec.AndroidManifest.PackageName)
	}

	root = NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"manifest", "--strict", filepath.Join(input, "broken")})
	if err := root.Execute(); err == nil {
		t.Error("manifest --strict should fail for a malformed manifest")
	}
}

func TestValidateConfig(t *testing.T) {
	valid := models.ExtractConfig{InputDir: "in", OutputFile: "out.jsonl", Format: "json"}

	tests := []struct {
		name   string
		modify func(*models.ExtractConfig)
		ok     bool
	}{
		{"valid", func(*models.ExtractConfig) {}, true},
		{"missing input", func(c *models.ExtractConfig) { c.InputDir = "" }, false},
		{"missing output", func(c *models.ExtractConfig) { c.OutputFile = "" }, false},
		{"bad format", func(c *models.ExtractConfig) { c.Format = "csv" }, false},
		{"bad compression", func(c *models.ExtractConfig) { c.Compress = "lz4" }, false},
		{"negative workers", func(c *models.ExtractConfig) { c.Workers = -1 }, false},
		{"negative timeout", func(c *models.ExtractConfig) { c.Timeout = -time.Second }, false},
		{"passphrase without key", func(c *models.ExtractConfig) { c.GPGPassphrase = "secret" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			tt.modify(&config)
			err := validateConfig(&config)
			if (err == nil) != tt.ok {
				t.Errorf("validateConfig() error = %v, want ok %v", err, tt.ok)
			}
			if err != nil && !models.IsType(err, models.ErrInvalidConfig) {
				t.Errorf("validateConfig() error type = %v, want InvalidConfig", err)
			}
		})
	}
}

func TestRunExtractionEmptyInput(t *testing.T) {
	silenceLogs(t)
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("empty", 0755); err != nil {
		t.Fatal(err)
	}

	config := &models.ExtractConfig{InputDir: "empty", OutputFile: "out.jsonl", Format: "json"}
	if err := runExtraction(context.Background(), fs, config, io.Discard); err != nil {
		t.Fatalf("runExtraction() error: %v", err)
	}
	if exists, _ := afero.Exists(fs, "out.jsonl"); exists {
		t.Error("no output expected when no packages were found")
	}
}
