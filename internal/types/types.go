package types

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Section names a canonical resume section.
type Section string

const (
	SectionSummary        Section = "summary"
	SectionExperience     Section = "experience"
	SectionEducation      Section = "education"
	SectionSkills         Section = "skills"
	SectionProjects       Section = "projects"
	SectionCertifications Section = "certifications"
)

// AllSections lists the closed set of sections in output order.
var AllSections = []Section{
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionProjects,
	SectionCertifications,
}

// SectionMap holds the text of every canonical section. Unmatched sections are empty.
type SectionMap struct {
	Summary        string `json:"summary"`
	Experience     string `json:"experience"`
	Education      string `json:"education"`
	Skills         string `json:"skills"`
	Projects       string `json:"projects"`
	Certifications string `json:"certifications"`
}

// Get returns the content stored for s.
func (m SectionMap) Get(s Section) string {
	if p := m.field(s); p != nil {
		return *p
	}
	return ""
}

// With returns a copy of m with s set to content.
func (m SectionMap) With(s Section, content string) SectionMap {
	if p := m.field(s); p != nil {
		*p = content
	}
	return m
}

func (m *SectionMap) field(s Section) *string {
	switch s {
	case SectionSummary:
		return &m.Summary
	case SectionExperience:
		return &m.Experience
	case SectionEducation:
		return &m.Education
	case SectionSkills:
		return &m.Skills
	case SectionProjects:
		return &m.Projects
	case SectionCertifications:
		return &m.Certifications
	}
	return nil
}

// ParsedResume is the structured result of parsing one uploaded resume.
type ParsedResume struct {
	RawText   string     `json:"raw_text"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Sections  SectionMap `json:"sections"`
	WordCount int        `json:"word_count"`
	PageCount int        `json:"page_count"`
	Stats     TextStats  `json:"stats"`
}

// ResumeData is a caller-supplied resume record kept in its wire shape so that
// fields this service does not know about survive enhancement untouched.
type ResumeData map[string]any

// Record decodes the typed view of d. Missing or oddly typed fields read as empty.
func (d ResumeData) Record() ResumeRecord {
	rec, _ := d.Decode()
	return rec
}

// Decode is Record that also reports the first field whose JSON type did not
// fit. The returned record is usable either way.
func (d ResumeData) Decode() (ResumeRecord, error) {
	var rec ResumeRecord
	if len(d) == 0 {
		return rec, nil
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return rec, err
	}
	err = json.Unmarshal(raw, &rec)
	return rec, err
}

// ResumeRecord is the typed view of ResumeData used for rendering and matching.
type ResumeRecord struct {
	PersonalInfo   PersonalInfo `json:"personal_info"`
	Summary        Text         `json:"summary"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	Skills         StringList   `json:"skills"`
	Projects       []Project    `json:"projects"`
	Certifications StringList   `json:"certifications"`
}

// DefaultName stands in for a record that carries no name at all.
const DefaultName = "Your Name"

type PersonalInfo struct {
	Name     Text `json:"name"`
	Email    Text `json:"email"`
	Phone    Text `json:"phone"`
	Location Text `json:"location"`
	Website  Text `json:"website"`

	// NamePresent is set when the source carried a name key, even an empty one.
	NamePresent bool `json:"-"`
}

func (p *PersonalInfo) UnmarshalJSON(data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		// not an object: leave the contact details empty
		return nil
	}
	type plain PersonalInfo
	if err := json.Unmarshal(data, (*plain)(p)); err != nil {
		return err
	}
	_, p.NamePresent = keys["name"]
	return nil
}

// DisplayName is the name to print. An absent name reads as DefaultName; a
// present but empty one stays empty.
func (p PersonalInfo) DisplayName() string {
	if !p.NamePresent && p.Name == "" {
		return DefaultName
	}
	return p.Name.String()
}

type Experience struct {
	Position         Text       `json:"position"`
	Company          Text       `json:"company"`
	StartDate        Text       `json:"start_date"`
	EndDate          Text       `json:"end_date"`
	Location         Text       `json:"location"`
	Responsibilities StringList `json:"responsibilities"`
}

type Education struct {
	Degree      Text `json:"degree"`
	Field       Text `json:"field"`
	Institution Text `json:"institution"`
	StartDate   Text `json:"start_date"`
	EndDate     Text `json:"end_date"`
	GPA         Text `json:"gpa"`
}

type Project struct {
	Name         Text       `json:"name"`
	Description  Text       `json:"description"`
	Technologies StringList `json:"technologies"`
	Link         Text       `json:"link"`
}

// Text is a string that also accepts JSON numbers and booleans.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	*t = Text(scalarString(data))
	return nil
}

func (t Text) String() string { return string(t) }

// StringList accepts a JSON array of scalars or a single scalar.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			*l = nil
			return nil
		}
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s := scalarString(item); s != "" {
				out = append(out, s)
			}
		}
		*l = out
		return nil
	}
	if s := scalarString(data); s != "" {
		*l = StringList{s}
		return nil
	}
	*l = nil
	return nil
}

func scalarString(data []byte) string {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// ATSScoreResult is an ATS analysis in its wire shape. The fields are whatever the
// model produced; Score and Suggestions read them without coercing the payload.
type ATSScoreResult map[string]any

// Score returns the numeric score, or 0 when it is missing or not a number.
func (r ATSScoreResult) Score() float64 {
	switch v := r["score"].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	}
	return 0
}

// RawScore returns the score field exactly as received.
func (r ATSScoreResult) RawScore() any {
	return r["score"]
}

// Suggestions returns the suggestions field, or an empty list when absent.
func (r ATSScoreResult) Suggestions() any {
	if v, ok := r["suggestions"]; ok && v != nil {
		return v
	}
	return []any{}
}

// KeywordAnalysis is the AI keyword comparison in its wire shape.
type KeywordAnalysis map[string]any

// EnhancementResult is the outcome of a full enhance-and-rescore flow.
type EnhancementResult struct {
	EnhancedData  ResumeData `json:"enhanced_data"`
	OriginalScore any        `json:"original_score"`
	EnhancedScore any        `json:"enhanced_score"`
	Improvements  []string   `json:"improvements"`
	Suggestions   any        `json:"suggestions"`
}

// JobMatchReport is the locally computed match between a record and a job description.
type JobMatchReport struct {
	MatchScore        float64             `json:"match_score"`
	ResumeKeywords    map[string][]string `json:"resume_keywords"`
	JobKeywords       map[string][]string `json:"job_keywords"`
	MissingByCategory map[string][]string `json:"missing_by_category"`
}

// KeywordReport is the local keyword breakdown of plain resume text.
type KeywordReport struct {
	ResumeKeywords    map[string][]string `json:"resume_keywords"`
	JobKeywords       map[string][]string `json:"job_keywords,omitempty"`
	MissingByCategory map[string][]string `json:"missing_by_category,omitempty"`
	TextAnalysis      TextAnalysis        `json:"text_analysis"`
}

// TextAnalysis is the local reading of pasted resume text: header-delimited
// sections, whole-word counts and density of the ATS keywords it mentions,
// and text statistics.
type TextAnalysis struct {
	Sections       SectionMap         `json:"sections"`
	KeywordCounts  map[string]int     `json:"keyword_counts"`
	KeywordDensity map[string]float64 `json:"keyword_density"`
	Stats          TextStats          `json:"stats"`
}

// BulletPointsResult is the CLI view of rewritten bullet points.
type BulletPointsResult struct {
	EnhancedPoints []any  `json:"enhanced_points"`
	Merged         string `json:"merged"`
}

// TemplateInfo describes one resume template.
type TemplateInfo struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// TextStats summarises a block of resume text.
type TextStats struct {
	WordCount     int `json:"word_count"`
	LineCount     int `json:"line_count"`
	CharCount     int `json:"char_count"`
	SentenceCount int `json:"sentence_count"`
}
