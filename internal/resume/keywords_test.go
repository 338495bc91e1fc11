package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resumeforge/internal/types"
)

func TestCountKeywords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		keywords []string
		want     map[string]int
	}{
		{
			name:     "case insensitive whole words",
			text:     "Python is great, python rocks",
			keywords: []string{"python"},
			want:     map[string]int{"python": 2},
		},
		{
			name:     "partial words do not count",
			text:     "Golang and Go",
			keywords: []string{"Go"},
			want:     map[string]int{"Go": 1},
		},
		{
			name:     "zero counts are kept",
			text:     "Docker",
			keywords: []string{"docker", "kubernetes"},
			want:     map[string]int{"docker": 1, "kubernetes": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountKeywords(tt.text, tt.keywords))
		})
	}
}

func TestKeywordDensity(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		keyword string
		want    float64
	}{
		{"empty text", "", "x", 0},
		{"substring tokens", "java javascript", "java", 100},
		{"rounded", "Go is fun with golang tooling", "go", 33.33},
		{"case insensitive", "AWS aws Azure", "AWS", 66.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeywordDensity(tt.text, tt.keyword); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCategorizedATSKeywords(t *testing.T) {
	got := CategorizedATSKeywords("Experienced in Python, Docker and teamwork")

	assert.Equal(t, []string{"python"}, got["programming_languages"])
	assert.Equal(t, []string{"docker"}, got["tools"])
	assert.Equal(t, []string{"teamwork"}, got["soft_skills"])
	assert.Empty(t, got["frameworks"])
	assert.Empty(t, got["databases"])
	assert.Len(t, got, 5)
}

func TestCategorizedATSKeywordsSubstringMatch(t *testing.T) {
	// "javascript" also contains "java"; both are reported.
	got := CategorizedATSKeywords("JavaScript and PostgreSQL")

	assert.Equal(t, []string{"javascript", "java", "sql"}, got["programming_languages"])
	assert.Equal(t, []string{"sql", "postgresql"}, got["databases"])
}

func TestJobMatchScore(t *testing.T) {
	data := types.ResumeData{
		"personal_info": map[string]any{"name": "Jane"},
		"skills":        []any{"Go", "Kubernetes"},
	}

	tests := []struct {
		name string
		job  string
		want float64
	}{
		{"empty job description", "", 0},
		{"whitespace only", "   \n ", 0},
		{"half overlap", "Go Kubernetes Terraform AWS", 50},
		{"rounded", "go rust zig", 33.33},
		{"full overlap", "go GO kubernetes", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JobMatchScore(data, tt.job); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestJobMatchScoreUsesExperience(t *testing.T) {
	data := types.ResumeData{
		"experience": []any{map[string]any{
			"position":         "Engineer",
			"responsibilities": []any{"Built scalable APIs in production"},
		}},
	}

	// "scalable" and "in" sit between other words of the serialized experience.
	if got := JobMatchScore(data, "scalable in"); got != 100 {
		t.Errorf("Expected 100, got %v", got)
	}
}

func TestJobMatchScoreTokenizesExperienceWithSpacedSeparators(t *testing.T) {
	data := types.ResumeData{
		"experience": []any{map[string]any{"company": "Acme", "position": "Engineer"}},
	}

	// With ", " and ": " separators the quoted values stand as their own tokens.
	if got := JobMatchScore(data, `"acme", "engineer"}]`); got != 100 {
		t.Errorf("Expected 100, got %v", got)
	}
	if got := JobMatchScore(data, `"company":"acme"`); got != 0 {
		t.Errorf("Expected 0 for a compact token, got %v", got)
	}
}

func TestSpacedJSON(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"missing list", []any{}, "[]"},
		{"null", nil, "null"},
		{
			"object separators and key order",
			[]any{map[string]any{"position": "Engineer", "company": "Acme", "years": 3}},
			`[{"company": "Acme", "position": "Engineer", "years": 3}]`,
		},
		{"non-ascii escaped", "Café ☕", `"Caf\u00e9 \u2615"`},
		{"astral plane uses surrogates", "😀", `"\ud83d\ude00"`},
		{"control characters", "a\tb\n\"c\"", `"a\tb\n\"c\""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := spacedJSON(tt.in); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestMatchReport(t *testing.T) {
	data := types.ResumeData{"skills": []any{"python", "docker"}}

	report := MatchReport(data, "Looking for python, docker and kubernetes experience")

	assert.Equal(t, []string{"kubernetes"}, report.MissingByCategory["tools"])
	assert.Empty(t, report.MissingByCategory["programming_languages"])
	assert.Greater(t, report.MatchScore, 0.0)
}

func TestAnalyzeText(t *testing.T) {
	text := "PROFESSIONAL SUMMARY\nGo developer. Docker fan.\nSKILLS\ngolang, docker, docker"

	analysis := AnalyzeText(text)

	assert.Equal(t, "Go developer. Docker fan.", analysis.Sections.Summary)
	assert.Equal(t, "golang, docker, docker", analysis.Sections.Skills)
	assert.Equal(t, 3, analysis.KeywordCounts["docker"])
	assert.Equal(t, 1, analysis.KeywordCounts["golang"])
	assert.NotContains(t, analysis.KeywordCounts, "python")
	assert.Equal(t, 30.0, analysis.KeywordDensity["docker"])
	assert.Equal(t, 10, analysis.Stats.WordCount)
	assert.Equal(t, 4, analysis.Stats.LineCount)
}

func TestTextKeywordReport(t *testing.T) {
	t.Run("resume only", func(t *testing.T) {
		report := TextKeywordReport("Built services in Go with Docker", "")

		assert.Equal(t, []string{"docker"}, report.ResumeKeywords["tools"])
		assert.Nil(t, report.JobKeywords)
		assert.Nil(t, report.MissingByCategory)
	})

	t.Run("with job description", func(t *testing.T) {
		report := TextKeywordReport("Python and Docker", "Python, Docker, AWS")

		assert.Equal(t, []string{"aws"}, report.MissingByCategory["tools"])
		assert.Empty(t, report.MissingByCategory["programming_languages"])
	})
}

func TestKeywordAnalysisIsDeterministic(t *testing.T) {
	text := "Python, React, Docker, leadership"

	assert.Equal(t, CategorizedATSKeywords(text), CategorizedATSKeywords(text))
	assert.Equal(t, CountKeywords(text, []string{"react"}), CountKeywords(text, []string{"react"}))
}
