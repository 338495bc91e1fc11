// Package resume holds the text side of resume handling: normalization, section
// segmentation, contact extraction and keyword analysis.
package resume

import (
	"math"
	"regexp"
	"strings"
)

// NormalizeLine lower-cases and trims a single line for header detection.
func NormalizeLine(line string) string {
	return strings.ToLower(strings.TrimSpace(line))
}

// Tokenize splits text on whitespace after lower-casing it.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// TokenSet returns the distinct lower-cased whitespace tokens of text.
func TokenSet(text string) map[string]struct{} {
	tokens := Tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}

// ContainsFold reports whether needle occurs in text ignoring case.
func ContainsFold(text, needle string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(needle))
}

// WholeWordPattern compiles a case-insensitive \b-anchored matcher for keyword.
func WholeWordPattern(keyword string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(strings.ToLower(keyword)) + `\b`)
}

// synonymPattern turns a header phrase into a pattern allowing any whitespace run
// between its words.
func synonymPattern(phrase string) string {
	words := strings.Fields(phrase)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(words, `\s+`)
}

// alternation compiles a case-insensitive, dot-all alternation of phrases in order.
func alternation(phrases []string) *regexp.Regexp {
	parts := make([]string, len(phrases))
	for i, p := range phrases {
		parts[i] = synonymPattern(p)
	}
	return regexp.MustCompile(`(?is)(?:` + strings.Join(parts, "|") + `)`)
}

// round2 rounds half to even at two decimals.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
