package resume

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"resumeforge/internal/types"
)

// maxHeaderLength bounds how long a line may be and still count as a section header.
const maxHeaderLength = 50

// headerSynonyms are the phrases that open each section in assembled resume text.
var headerSynonyms = map[types.Section][]string{
	types.SectionSummary:        {"professional summary", "objective", "about", "profile"},
	types.SectionExperience:     {"professional experience", "work history", "employment"},
	types.SectionEducation:      {"education", "academic"},
	types.SectionSkills:         {"skills", "technical skills"},
	types.SectionProjects:       {"projects", "portfolio", "work samples"},
	types.SectionCertifications: {"certification", "license"},
}

type lineKeywords struct {
	section  types.Section
	keywords []string
}

// lineHeaderKeywords drive line scanning. Order matters: the first section whose
// keyword appears in a header line wins.
var lineHeaderKeywords = []lineKeywords{
	{types.SectionEducation, []string{"education", "academic", "qualification", "degree", "university"}},
	{types.SectionExperience, []string{"experience", "work history", "employment", "professional experience"}},
	{types.SectionSkills, []string{"skills", "technical skills", "competencies", "abilities"}},
	{types.SectionProjects, []string{"projects", "portfolio", "work samples"}},
	{types.SectionCertifications, []string{"certifications", "certificates", "licenses", "awards"}},
	{types.SectionSummary, []string{"summary", "objective", "professional summary", "about", "profile"}},
}

// HeaderSynonyms returns a copy of the header phrases recognised for s.
func HeaderSynonyms(s types.Section) []string {
	return slices.Clone(headerSynonyms[s])
}

type sectionMatcher struct {
	section  types.Section
	header   *regexp.Regexp
	boundary *regexp.Regexp
}

var sectionMatchers = buildSectionMatchers()

func buildSectionMatchers() []sectionMatcher {
	matchers := make([]sectionMatcher, 0, len(types.AllSections))
	for _, s := range types.AllSections {
		var others []string
		for _, other := range types.AllSections {
			if other != s {
				others = append(others, headerSynonyms[other]...)
			}
		}
		matchers = append(matchers, sectionMatcher{
			section:  s,
			header:   alternation(headerSynonyms[s]),
			boundary: alternation(others),
		})
	}
	return matchers
}

// SegmentByHeaders splits assembled resume text into sections. Each section runs
// from the first occurrence of one of its header phrases to the nearest following
// header phrase of any other section, or to the end of the text.
func SegmentByHeaders(text string) types.SectionMap {
	var sections types.SectionMap
	for _, m := range sectionMatchers {
		loc := m.header.FindStringIndex(text)
		if loc == nil {
			continue
		}
		rest := text[loc[1]:]
		end := len(rest)
		if b := m.boundary.FindStringIndex(rest); b != nil {
			end = b[0]
		}
		sections = sections.With(m.section, strings.TrimSpace(rest[:end]))
	}
	return sections
}

// SegmentByLines splits raw extracted text by scanning for short header lines.
// Header lines are not content, and anything before the first header is dropped.
func SegmentByLines(text string) types.SectionMap {
	var (
		sections types.SectionMap
		current  types.Section
		content  []string
	)

	flush := func() {
		if current != "" && len(content) > 0 {
			sections = sections.With(current, strings.Join(content, "\n"))
		}
	}

	for _, line := range strings.Split(text, "\n") {
		normalized := NormalizeLine(line)
		if normalized == "" {
			continue
		}

		if next, ok := headerSection(normalized); ok {
			flush()
			current = next
			content = nil
			continue
		}

		if current != "" {
			content = append(content, line)
		}
	}
	flush()

	return sections
}

func headerSection(normalized string) (types.Section, bool) {
	if utf8.RuneCountInString(normalized) >= maxHeaderLength {
		return "", false
	}
	for _, entry := range lineHeaderKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(normalized, kw) {
				return entry.section, true
			}
		}
	}
	return "", false
}
