package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "resume.txt")
	if err := os.WriteFile(file, []byte("text"), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"existing file", file, false},
		{"empty name", "", true},
		{"missing file", filepath.Join(dir, "missing.txt"), true},
		{"directory", dir, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInputFile(tt.path)
			if tt.wantErr && err == nil {
				t.Errorf("Expected error for %q", tt.path)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestValidateOutputFileCreatesDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "out.json")
	if err := ValidateOutputFile(target); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := os.Stat(filepath.Dir(target)); err != nil {
		t.Errorf("Expected directory to exist, got %v", err)
	}
	if err := ValidateOutputFile(""); err != nil {
		t.Errorf("Expected stdout to be valid, got %v", err)
	}
}

func TestFileKinds(t *testing.T) {
	tests := []struct {
		name     string
		text     bool
		document bool
	}{
		{"resume.TXT", true, false},
		{"data.json", true, false},
		{"notes.md", true, false},
		{"resume.PDF", false, true},
		{"resume.docx", false, true},
		{"resume.doc", false, false},
		{"noext", false, false},
	}

	for _, tt := range tests {
		if got := IsTextFile(tt.name); got != tt.text {
			t.Errorf("IsTextFile(%q): expected %t, got %t", tt.name, tt.text, got)
		}
		if got := IsDocumentFile(tt.name); got != tt.document {
			t.Errorf("IsDocumentFile(%q): expected %t, got %t", tt.name, tt.document, got)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := map[int64]string{
		512:             "512 B",
		1024:            "1.0 KB",
		1536:            "1.5 KB",
		5 * 1024 * 1024: "5.0 MB",
	}
	for size, want := range tests {
		if got := FormatFileSize(size); got != want {
			t.Errorf("FormatFileSize(%d): expected %q, got %q", size, want, got)
		}
	}
}
