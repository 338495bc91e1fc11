package resume

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"resumeforge/internal/types"
)

const (
	truncateSuffix    = "..."
	maxFilenameLength = 255
	bulletPrefix      = "• "
	displayDateLayout = "January 2006"
)

// dateLayouts are tried in order; the first that parses wins.
var dateLayouts = []string{
	"2006-1-2",
	"1/2/2006",
	"2/1/2006",
	"January 2006",
	"Jan 2006",
	"2006",
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[^\w\s.-]`)
	sentenceEnd         = regexp.MustCompile(`[.!?]+(\s|$)`)
)

// FormatDate renders a recognised date as "January 2006". Unrecognised input is
// returned unchanged.
func FormatDate(date string) string {
	trimmed := strings.TrimSpace(date)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(displayDateLayout)
		}
	}
	return date
}

// TruncateText shortens text to at most maxLength runes, ending with "...".
func TruncateText(text string, maxLength int) string {
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}
	keep := max(maxLength-len(truncateSuffix), 0)
	runes := []rune(text)
	return string(runes[:keep]) + truncateSuffix
}

// MergeBullets formats non-blank points as a bulleted block.
func MergeBullets(points []string) string {
	lines := make([]string, 0, len(points))
	for _, p := range points {
		if strings.TrimSpace(p) == "" {
			continue
		}
		lines = append(lines, bulletPrefix+p)
	}
	return strings.Join(lines, "\n")
}

// SanitizeFilename strips characters that are unsafe in a download name.
func SanitizeFilename(name string) string {
	safe := unsafeFilenameChars.ReplaceAllString(name, "")
	safe = strings.ReplaceAll(safe, " ", "_")
	if runes := []rune(safe); len(runes) > maxFilenameLength {
		safe = string(runes[:maxFilenameLength])
	}
	return safe
}

// Stats summarises text for display.
func Stats(text string) types.TextStats {
	lines := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines++
		}
	}
	return types.TextStats{
		WordCount:     len(strings.Fields(text)),
		LineCount:     lines,
		CharCount:     utf8.RuneCountInString(text),
		SentenceCount: len(sentenceEnd.FindAllStringIndex(text, -1)),
	}
}
