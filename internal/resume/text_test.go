package resume

import (
	"strings"
	"testing"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2021-03-15", "March 2021"},
		{"03/15/2021", "March 2021"},
		{"15/03/2021", "March 2021"},
		{"September 2018", "September 2018"},
		{"Mar 2020", "March 2020"},
		{"2019", "January 2019"},
		{"Present", "Present"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := FormatDate(tt.input); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTruncateText(t *testing.T) {
	if got := TruncateText("hello world", 8); got != "hello..." {
		t.Errorf("Expected %q, got %q", "hello...", got)
	}
	if got := TruncateText("short", 10); got != "short" {
		t.Errorf("Expected text to be unchanged, got %q", got)
	}
}

func TestMergeBullets(t *testing.T) {
	got := MergeBullets([]string{"Led migration", "  ", "Cut costs 20%"})
	want := "• Led migration\n• Cut costs 20%"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if MergeBullets(nil) != "" {
		t.Error("Expected empty string for no bullets")
	}
}

func TestSanitizeFilename(t *testing.T) {
	if got := SanitizeFilename("my resume (final)!.pdf"); got != "my_resume_final.pdf" {
		t.Errorf("Expected %q, got %q", "my_resume_final.pdf", got)
	}

	long := strings.Repeat("a", 300)
	if got := SanitizeFilename(long); len(got) != 255 {
		t.Errorf("Expected length 255, got %d", len(got))
	}
}

func TestStats(t *testing.T) {
	stats := Stats("Built APIs. Led team!\n\nShipped v2")

	if stats.WordCount != 6 {
		t.Errorf("Expected 6 words, got %d", stats.WordCount)
	}
	if stats.LineCount != 2 {
		t.Errorf("Expected 2 lines, got %d", stats.LineCount)
	}
	if stats.SentenceCount != 2 {
		t.Errorf("Expected 2 sentences, got %d", stats.SentenceCount)
	}
}
