package utils

import (
	"testing"

	"github.com/spf13/afero"
)

func TestCalculateChecksums(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := WriteFile(fs, "dir/test.txt", []byte("hello world"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	sums, err := CalculateChecksums(fs, "dir/test.txt")
	if err != nil {
		t.Fatalf("CalculateChecksums() error: %v", err)
	}

	// SHA256 of "hello world"
	expected := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if sums.SHA256 != expected {
		t.Errorf("SHA256 = %q, want %q", sums.SHA256, expected)
	}
	if sums.Size != 11 {
		t.Errorf("Size = %d, want 11", sums.Size)
	}
}
