package utils

import (
	"bytes"
	"io"
	"testing"
)

func TestCompressionRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte(`{"packageName":"com.example"}`+"\n"), 64)

	for _, c := range []Compression{CompressionNone, CompressionGzip, CompressionZstd, CompressionXz} {
		t.Run(string(c), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewCompressWriter(&buf, c)
			if err != nil {
				t.Fatalf("NewCompressWriter() error: %v", err)
			}
			if _, err := w.Write(payload); err != nil {
				t.Fatalf("Write() error: %v", err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Close() error: %v", err)
			}

			r, err := NewDecompressReader(&buf, c)
			if err != nil {
				t.Fatalf("NewDecompressReader() error: %v", err)
			}
			defer r.Close()

			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("ReadAll() error: %v", err)
			}
			if !bytes.Equal(got, payload) {
				t.Errorf("round trip through %s changed the payload", c)
			}
		})
	}
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    Compression
		wantErr bool
	}{
		{"", "records.jsonl", CompressionNone, false},
		{"", "records.jsonl.gz", CompressionGzip, false},
		{"", "records.yaml.zst", CompressionZstd, false},
		{"", "records.jsonl.xz", CompressionXz, false},
		{"GZIP", "records.jsonl", CompressionGzip, false},
		{"none", "records.jsonl.gz", CompressionNone, false},
		{"bzip2", "records.jsonl", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.path, func(t *testing.T) {
			got, err := ParseCompression(tt.name, tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCompression() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCompression() = %q, want %q", got, tt.want)
			}
		})
	}
}
