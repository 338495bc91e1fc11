package formatters

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"resumeforge/internal/scoring"
	"resumeforge/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "any", &GenericTextFormatter{})
	registry.RegisterFormatter("text", "ParsedResume", &ParsedResumeTextFormatter{})
	registry.RegisterFormatter("text", "ATSScoreResult", &ATSScoreTextFormatter{})
	registry.RegisterFormatter("text", "EnhancementResult", &EnhancementTextFormatter{})
	registry.RegisterFormatter("text", "Comparison", &ComparisonTextFormatter{})
	registry.RegisterFormatter("text", "JobMatchReport", &KeywordsTextFormatter{})
	registry.RegisterFormatter("text", "KeywordReport", &KeywordsTextFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted.
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ParsedResume, *types.ParsedResume:
		return "ParsedResume"
	case types.ATSScoreResult:
		return "ATSScoreResult"
	case types.EnhancementResult:
		return "EnhancementResult"
	case scoring.Comparison:
		return "Comparison"
	case types.JobMatchReport:
		return "JobMatchReport"
	case types.KeywordReport:
		return "KeywordReport"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// GenericTextFormatter renders any JSON-encodable value as indented text.
type GenericTextFormatter struct{}

func (gf *GenericTextFormatter) Format(data any) (string, error) {
	normalized, err := normalize(data)
	if err != nil {
		return "", err
	}
	var output strings.Builder
	writeValue(&output, normalized, 0)
	return output.String(), nil
}

func (gf *GenericTextFormatter) SupportedType() string {
	return "any"
}

// ParsedResumeTextFormatter handles text formatting for parsed resumes
type ParsedResumeTextFormatter struct{}

func (pf *ParsedResumeTextFormatter) Format(data any) (string, error) {
	var result types.ParsedResume
	switch v := data.(type) {
	case types.ParsedResume:
		result = v
	case *types.ParsedResume:
		result = *v
	default:
		return "", fmt.Errorf("expected ParsedResume, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== PARSED RESUME ===\n\n")
	output.WriteString(fmt.Sprintf("Email: %s\n", orNone(result.Email)))
	output.WriteString(fmt.Sprintf("Phone: %s\n", orNone(result.Phone)))
	output.WriteString(fmt.Sprintf("Words: %d\n", result.WordCount))
	output.WriteString(fmt.Sprintf("Lines: %d, sentences: %d, characters: %d\n",
		result.Stats.LineCount, result.Stats.SentenceCount, result.Stats.CharCount))
	output.WriteString(fmt.Sprintf("Pages: %d\n\n", result.PageCount))

	for _, section := range types.AllSections {
		content := result.Sections.Get(section)
		if content == "" {
			continue
		}
		output.WriteString(fmt.Sprintf("=== %s ===\n", strings.ToUpper(string(section))))
		output.WriteString(content)
		output.WriteString("\n\n")
	}

	return output.String(), nil
}

func (pf *ParsedResumeTextFormatter) SupportedType() string {
	return "ParsedResume"
}

// ATSScoreTextFormatter handles text formatting for ATS analyses
type ATSScoreTextFormatter struct{}

func (af *ATSScoreTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ATSScoreResult)
	if !ok {
		return "", fmt.Errorf("expected ATSScoreResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ATS ANALYSIS ===\n")
	output.WriteString(fmt.Sprintf("Score: %v/100\n\n", result.RawScore()))

	rest := make(map[string]any, len(result))
	for k, v := range result {
		if k != "score" {
			rest[k] = v
		}
	}
	normalized, err := normalize(rest)
	if err != nil {
		return "", err
	}
	writeValue(&output, normalized, 0)

	return output.String(), nil
}

func (af *ATSScoreTextFormatter) SupportedType() string {
	return "ATSScoreResult"
}

// EnhancementTextFormatter handles text formatting for enhance-and-rescore results
type EnhancementTextFormatter struct{}

func (ef *EnhancementTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.EnhancementResult)
	if !ok {
		return "", fmt.Errorf("expected EnhancementResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== SCORES ===\n")
	output.WriteString(fmt.Sprintf("Original: %v\n", result.OriginalScore))
	output.WriteString(fmt.Sprintf("Enhanced: %v\n\n", result.EnhancedScore))

	output.WriteString("=== IMPROVEMENTS ===\n")
	for _, improvement := range result.Improvements {
		output.WriteString(fmt.Sprintf("- %s\n", improvement))
	}
	output.WriteString("\n")

	suggestions, err := normalize(result.Suggestions)
	if err != nil {
		return "", err
	}
	if list, ok := suggestions.([]any); ok && len(list) > 0 {
		output.WriteString("=== SUGGESTIONS ===\n")
		writeValue(&output, list, 0)
		output.WriteString("\n")
	}

	enhanced, err := json.MarshalIndent(result.EnhancedData, "", "  ")
	if err != nil {
		return "", err
	}
	output.WriteString("=== ENHANCED RESUME ===\n")
	output.Write(enhanced)
	output.WriteString("\n")

	return output.String(), nil
}

func (ef *EnhancementTextFormatter) SupportedType() string {
	return "EnhancementResult"
}

// ComparisonTextFormatter handles text formatting for score comparisons
type ComparisonTextFormatter struct{}

func (cf *ComparisonTextFormatter) Format(data any) (string, error) {
	result, ok := data.(scoring.Comparison)
	if !ok {
		return "", fmt.Errorf("expected Comparison, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== SCORE COMPARISON ===\n")
	output.WriteString(fmt.Sprintf("Original: %.1f\n", result.Original))
	output.WriteString(fmt.Sprintf("Enhanced: %.1f\n", result.Enhanced))
	output.WriteString(fmt.Sprintf("Change:   %+.1f (%.1f%%)\n\n", result.Difference, result.PercentageImprovement))
	for _, message := range result.Messages {
		output.WriteString(message)
		output.WriteString("\n")
	}

	return output.String(), nil
}

func (cf *ComparisonTextFormatter) SupportedType() string {
	return "Comparison"
}

// KeywordsTextFormatter handles text formatting for keyword reports
type KeywordsTextFormatter struct{}

func (kf *KeywordsTextFormatter) Format(data any) (string, error) {
	var output strings.Builder

	switch result := data.(type) {
	case types.JobMatchReport:
		output.WriteString(fmt.Sprintf("Job match score: %.2f%%\n\n", result.MatchScore))
		writeKeywordGroups(&output, "RESUME KEYWORDS", result.ResumeKeywords)
		writeKeywordGroups(&output, "JOB KEYWORDS", result.JobKeywords)
		writeKeywordGroups(&output, "MISSING KEYWORDS", result.MissingByCategory)
	case types.KeywordReport:
		writeKeywordGroups(&output, "RESUME KEYWORDS", result.ResumeKeywords)
		writeKeywordGroups(&output, "JOB KEYWORDS", result.JobKeywords)
		writeKeywordGroups(&output, "MISSING KEYWORDS", result.MissingByCategory)
		writeTextAnalysis(&output, result.TextAnalysis)
	default:
		return "", fmt.Errorf("expected keyword report, got %T", data)
	}

	return output.String(), nil
}

func (kf *KeywordsTextFormatter) SupportedType() string {
	return "KeywordReport"
}

func writeKeywordGroups(output *strings.Builder, title string, groups map[string][]string) {
	if groups == nil {
		return
	}
	output.WriteString(fmt.Sprintf("=== %s ===\n", title))
	for _, category := range sortedKeys(groups) {
		words := groups[category]
		if len(words) == 0 {
			output.WriteString(fmt.Sprintf("%s: (none)\n", label(category)))
			continue
		}
		output.WriteString(fmt.Sprintf("%s: %s\n", label(category), strings.Join(words, ", ")))
	}
	output.WriteString("\n")
}

func writeTextAnalysis(output *strings.Builder, analysis types.TextAnalysis) {
	if len(analysis.KeywordCounts) == 0 && analysis.Stats.WordCount == 0 {
		return
	}
	output.WriteString("=== KEYWORD FREQUENCY ===\n")
	for _, word := range sortedKeys(analysis.KeywordCounts) {
		output.WriteString(fmt.Sprintf("%s: %d (%.2f%%)\n", word, analysis.KeywordCounts[word], analysis.KeywordDensity[word]))
	}
	stats := analysis.Stats
	output.WriteString(fmt.Sprintf("Words: %d, lines: %d, sentences: %d\n\n", stats.WordCount, stats.LineCount, stats.SentenceCount))

	var present []string
	for _, section := range types.AllSections {
		if analysis.Sections.Get(section) != "" {
			present = append(present, string(section))
		}
	}
	if len(present) > 0 {
		output.WriteString(fmt.Sprintf("Sections found: %s\n\n", strings.Join(present, ", ")))
	}
}

// normalize converts data into the generic JSON value tree.
func normalize(data any) (any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func writeValue(output *strings.Builder, v any, depth int) {
	indent := strings.Repeat("  ", depth)
	switch val := v.(type) {
	case map[string]any:
		for _, key := range sortedKeys(val) {
			child := val[key]
			switch child.(type) {
			case map[string]any, []any:
				output.WriteString(fmt.Sprintf("%s%s:\n", indent, label(key)))
				writeValue(output, child, depth+1)
			default:
				output.WriteString(fmt.Sprintf("%s%s: %s\n", indent, label(key), scalar(child)))
			}
		}
	case []any:
		if len(val) == 0 {
			output.WriteString(indent + "(none)\n")
		}
		for _, item := range val {
			switch item.(type) {
			case map[string]any, []any:
				output.WriteString(indent + "-\n")
				writeValue(output, item, depth+1)
			default:
				output.WriteString(fmt.Sprintf("%s- %s\n", indent, scalar(item)))
			}
		}
	default:
		output.WriteString(indent + scalar(val) + "\n")
	}
}

func scalar(v any) string {
	if v == nil {
		return "(none)"
	}
	return fmt.Sprint(v)
}

// label turns a snake_case key into a heading.
func label(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	if len(words) == 0 {
		return key
	}
	words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	return strings.Join(words, " ")
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
