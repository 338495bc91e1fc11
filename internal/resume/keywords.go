package resume

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"

	"resumeforge/internal/types"
)

// KeywordCategory is one of the fixed ATS keyword groups.
type KeywordCategory struct {
	Name  string
	Words []string
}

var atsKeywordCategories = []KeywordCategory{
	{"programming_languages", []string{"python", "javascript", "java", "csharp", "c++", "ruby", "php", "swift", "kotlin", "golang", "rust", "typescript", "sql"}},
	{"frameworks", []string{"react", "angular", "vue", "django", "flask", "fastapi", "spring", "express", "laravel", "asp.net"}},
	{"databases", []string{"sql", "mysql", "postgresql", "mongodb", "redis", "firebase", "dynamodb", "elasticsearch", "cassandra"}},
	{"tools", []string{"git", "docker", "kubernetes", "jenkins", "gitlab", "github", "jira", "aws", "azure", "gcp", "linux", "unix"}},
	{"soft_skills", []string{"leadership", "communication", "teamwork", "problem solving", "project management", "critical thinking", "collaboration"}},
}

// ATSKeywordCategories returns a copy of the keyword groups in their fixed order.
func ATSKeywordCategories() []KeywordCategory {
	out := make([]KeywordCategory, len(atsKeywordCategories))
	for i, c := range atsKeywordCategories {
		out[i] = KeywordCategory{Name: c.Name, Words: slices.Clone(c.Words)}
	}
	return out
}

// CountKeywords counts case-insensitive whole-word occurrences of each keyword.
func CountKeywords(text string, keywords []string) map[string]int {
	lower := strings.ToLower(text)
	counts := make(map[string]int, len(keywords))
	for _, kw := range keywords {
		counts[kw] = len(WholeWordPattern(kw).FindAllStringIndex(lower, -1))
	}
	return counts
}

// KeywordDensity is the percentage of whitespace tokens containing keyword.
func KeywordDensity(text, keyword string) float64 {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return 0
	}
	needle := strings.ToLower(keyword)
	hits := 0
	for _, tok := range tokens {
		if strings.Contains(tok, needle) {
			hits++
		}
	}
	return round2(float64(hits) / float64(len(tokens)) * 100)
}

// CategorizedATSKeywords lists, per category, the keywords found anywhere in text.
// Every category is present, possibly with an empty list.
func CategorizedATSKeywords(text string) map[string][]string {
	lower := strings.ToLower(text)
	found := make(map[string][]string, len(atsKeywordCategories))
	for _, c := range atsKeywordCategories {
		matches := []string{}
		for _, w := range c.Words {
			if strings.Contains(lower, w) {
				matches = append(matches, w)
			}
		}
		found[c.Name] = matches
	}
	return found
}

// JobMatchScore is the share of distinct job description tokens that also occur
// in the candidate's name, skills and experience, as a percentage capped at 100.
func JobMatchScore(data types.ResumeData, jobDescription string) float64 {
	jobTokens := TokenSet(jobDescription)
	if len(jobTokens) == 0 {
		return 0
	}

	resumeTokens := TokenSet(resumeMatchText(data))
	common := 0
	for tok := range jobTokens {
		if _, ok := resumeTokens[tok]; ok {
			common++
		}
	}

	score := float64(common) / float64(len(jobTokens)) * 100
	return round2(min(score, 100))
}

// resumeMatchText joins name, skills and the experience entries serialized
// with ", " and ": " separators and ASCII-only strings, so tokens split around
// punctuation the same way for every client.
func resumeMatchText(data types.ResumeData) string {
	record := data.Record()
	experience, ok := data["experience"]
	if !ok {
		experience = []any{}
	}
	return record.PersonalInfo.Name.String() + " " + strings.Join(record.Skills, " ") + " " + spacedJSON(experience)
}

// MatchReport combines the match score with the categorized keywords of both sides.
func MatchReport(data types.ResumeData, jobDescription string) types.JobMatchReport {
	resumeKeywords := CategorizedATSKeywords(resumeMatchText(data))
	jobKeywords := CategorizedATSKeywords(jobDescription)

	return types.JobMatchReport{
		MatchScore:        JobMatchScore(data, jobDescription),
		ResumeKeywords:    resumeKeywords,
		JobKeywords:       jobKeywords,
		MissingByCategory: missingByCategory(resumeKeywords, jobKeywords),
	}
}

// TextKeywordReport categorizes the keywords of plain resume text. Job
// keywords and gaps are filled only when a job description is given.
func TextKeywordReport(resumeText, jobDescription string) types.KeywordReport {
	report := types.KeywordReport{
		ResumeKeywords: CategorizedATSKeywords(resumeText),
		TextAnalysis:   AnalyzeText(resumeText),
	}
	if strings.TrimSpace(jobDescription) == "" {
		return report
	}
	report.JobKeywords = CategorizedATSKeywords(jobDescription)
	report.MissingByCategory = missingByCategory(report.ResumeKeywords, report.JobKeywords)
	return report
}

func missingByCategory(resumeKeywords, jobKeywords map[string][]string) map[string][]string {
	missing := make(map[string][]string, len(jobKeywords))
	for category, words := range jobKeywords {
		gaps := []string{}
		for _, w := range words {
			if !slices.Contains(resumeKeywords[category], w) {
				gaps = append(gaps, w)
			}
		}
		missing[category] = gaps
	}
	return missing
}

// AnalyzeText reads pasted resume text locally: sections split on header
// phrases, whole-word counts and density of every ATS keyword the text
// mentions, and text statistics.
func AnalyzeText(text string) types.TextAnalysis {
	categorized := CategorizedATSKeywords(text)
	found := []string{}
	for _, c := range atsKeywordCategories {
		for _, w := range categorized[c.Name] {
			if !slices.Contains(found, w) {
				found = append(found, w)
			}
		}
	}

	density := make(map[string]float64, len(found))
	for _, w := range found {
		density[w] = KeywordDensity(text, w)
	}

	return types.TextAnalysis{
		Sections:       SegmentByHeaders(text),
		KeywordCounts:  CountKeywords(text, found),
		KeywordDensity: density,
		Stats:          Stats(text),
	}
}

// spacedJSON encodes v with ", " and ": " separators and \uXXXX escapes for
// everything outside printable ASCII. Object keys come out sorted.
func spacedJSON(v any) string {
	var b strings.Builder
	writeSpacedJSON(&b, genericJSON(v))
	return b.String()
}

// genericJSON converts v into decoded JSON values, keeping number literals.
func genericJSON(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil
	}
	return out
}

func writeSpacedJSON(b *strings.Builder, v any) {
	switch val := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		fmt.Fprint(b, val)
	case json.Number:
		b.WriteString(val.String())
	case string:
		writeASCIIString(b, val)
	case []any:
		b.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				b.WriteString(", ")
			}
			writeSpacedJSON(b, item)
		}
		b.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			writeASCIIString(b, k)
			b.WriteString(": ")
			writeSpacedJSON(b, val[k])
		}
		b.WriteByte('}')
	}
}

func writeASCIIString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			switch {
			case r > 0xffff:
				hi, lo := utf16.EncodeRune(r)
				fmt.Fprintf(b, `\u%04x\u%04x`, hi, lo)
			case r < 0x20 || r > 0x7e:
				fmt.Fprintf(b, `\u%04x`, r)
			default:
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
}
