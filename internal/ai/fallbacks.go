package ai

import "resumeforge/internal/types"

const (
	defaultSummary = "Experienced professional with strong technical background and proven track record of delivering results."

	defaultCoverLetter = "Highly motivated professional with strong technical background seeking to leverage expertise in innovative projects."
)

// DefaultATSScore is the result reported when the model cannot be read.
func DefaultATSScore() types.ATSScoreResult {
	return types.ATSScoreResult{
		"score": float64(65),
		"missing_keywords": []any{
			"achievement metrics",
			"action verbs",
			"relevant certifications",
			"quantifiable results",
		},
		"suggestions": []any{
			"Add quantifiable achievements with numbers/percentages",
			"Use strong action verbs (Led, Developed, Implemented, etc.)",
			"Include relevant keywords from job description",
			"Ensure clear section headers (Experience, Education, Skills)",
			"Keep formatting simple and ATS-friendly (no tables or graphics)",
		},
		"sections_analysis": map[string]any{
			"contact_info": map[string]any{"score": float64(85), "issues": []any{}},
			"experience": map[string]any{"score": float64(70), "issues": []any{
				"Add more quantifiable results",
				"Use stronger action verbs",
			}},
			"education": map[string]any{"score": float64(80), "issues": []any{}},
			"skills": map[string]any{"score": float64(60), "issues": []any{
				"Add more relevant technical skills",
				"Include industry keywords",
			}},
		},
		"summary": "Resume has moderate ATS compatibility. Focus on quantifiable achievements and relevant keywords.",
	}
}

// CannedSuggestions are returned when the model answers without a list.
func CannedSuggestions() []string {
	return []string{
		"Add more quantifiable achievements with metrics",
		"Use stronger action verbs for better impact",
		"Include relevant industry keywords",
		"Keep formatting simple and ATS-friendly",
		"Tailor content to target position",
	}
}

// EmptyKeywordAnalysis is the keyword analysis with every list empty.
func EmptyKeywordAnalysis() types.KeywordAnalysis {
	return types.KeywordAnalysis{
		"resume_keywords":        []any{},
		"job_keywords":           []any{},
		"matched_keywords":       []any{},
		"missing_keywords":       []any{},
		"unique_resume_keywords": []any{},
	}
}
