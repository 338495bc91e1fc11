package common

import (
	"testing"
)

func TestValidateOutputFormat(t *testing.T) {
	supported := []string{"json", "text"}

	tests := []struct {
		name             string
		format           string
		supportedFormats []string
		expectedError    string
	}{
		{name: "json", format: "json", supportedFormats: supported},
		{name: "text", format: "text", supportedFormats: supported},
		{
			name:             "markdown is not offered",
			format:           "markdown",
			supportedFormats: supported,
			expectedError:    "unsupported output format 'markdown'. Supported formats: [json text]",
		},
		{
			name:             "case sensitive",
			format:           "JSON",
			supportedFormats: supported,
			expectedError:    "unsupported output format 'JSON'. Supported formats: [json text]",
		},
		{
			name:             "empty format string",
			format:           "",
			supportedFormats: supported,
			expectedError:    "unsupported output format ''. Supported formats: [json text]",
		},
		{name: "no restrictions", format: "xml", supportedFormats: nil},
		{
			name:             "single supported format",
			format:           "text",
			supportedFormats: []string{"json"},
			expectedError:    "unsupported output format 'text'. Supported formats: [json]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supportedFormats)

			if tt.expectedError == "" {
				if err != nil {
					t.Errorf("Expected no error but got: %v", err)
				}
				return
			}
			if err == nil {
				t.Errorf("Expected error but got none")
				return
			}
			if err.Error() != tt.expectedError {
				t.Errorf("Expected error '%s', got '%s'", tt.expectedError, err.Error())
			}
		})
	}
}

func TestGetSupportedFormats(t *testing.T) {
	formats := []string{"json", "text"}
	result := GetSupportedFormats(formats)
	if len(result) != 2 || result[0] != "json" || result[1] != "text" {
		t.Errorf("Expected [json text], got %v", result)
	}
}

func TestValidateDocumentFormat(t *testing.T) {
	for _, format := range []string{"docx", "pdf"} {
		if err := ValidateDocumentFormat(format); err != nil {
			t.Errorf("Expected %s to be valid, got %v", format, err)
		}
	}
	for _, format := range []string{"", "PDF", "odt"} {
		if err := ValidateDocumentFormat(format); err == nil {
			t.Errorf("Expected %q to be rejected", format)
		}
	}
}

func BenchmarkValidateOutputFormat(b *testing.B) {
	supportedFormats := []string{"json", "text"}

	b.Run("valid format", func(b *testing.B) {
		for b.Loop() {
			_ = ValidateOutputFormat("json", supportedFormats)
		}
	})

	b.Run("invalid format", func(b *testing.B) {
		for b.Loop() {
			_ = ValidateOutputFormat("xml", supportedFormats)
		}
	})
}
