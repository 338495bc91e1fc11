package ai

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// PromptData carries every value a prompt template may reference.
type PromptData struct {
	ResumeText     string
	JobDescription string
	ResumeJSON     string
	SectionName    string
	Content        string
	Context        string
	BulletsJSON    string
}

type promptText struct {
	System string
	User   string
}

// defaultPrompts holds the built-in prompts per operation. User prompts are
// text/template sources over PromptData.
var defaultPrompts = map[Operation]promptText{
	OpATSScore: {
		System: "You are an expert ATS (Applicant Tracking System) specialist.",
		User: `Analyze the following resume for ATS compatibility and provide a detailed analysis.

IMPORTANT: Return ONLY valid JSON in your response, no extra text before or after.

Resume Content:
---
{{.ResumeText}}
---
{{if .JobDescription}}
Target Job Description: ---{{.JobDescription}}---
{{end}}
Provide analysis with the following JSON format ONLY:
{
    "score": <number between 0 and 100>,
    "missing_keywords": [<list of important keywords that should be included>],
    "suggestions": [<list of specific, actionable improvement suggestions>],
    "sections_analysis": {
        "contact_info": {"score": <0-100>, "issues": [<list of issues or empty>]},
        "experience": {"score": <0-100>, "issues": [<list of issues or empty>]},
        "education": {"score": <0-100>, "issues": [<list of issues or empty>]},
        "skills": {"score": <0-100>, "issues": [<list of issues or empty>]}
    },
    "summary": "<brief summary of ATS compatibility>"
}

Rules:
- Score should be based on: formatting, structure, keyword optimization, ATS-friendly formatting
- Missing keywords should be industry-relevant and commonly searched
- Suggestions should be specific and actionable
- Return ONLY JSON, no markdown or extra text`,
	},
	OpKeywordAnalysis: {
		System: "You are an expert recruiter who analyzes resume and job description keywords.",
		User: `Analyze the keywords in the resume and job description.
Return ONLY valid JSON:

Resume:
{{.ResumeText}}

{{if .JobDescription}}Job Description: {{.JobDescription}}{{else}}No job description provided{{end}}

Return JSON format:
{
    "resume_keywords": [<list of important keywords from resume>],
    "job_keywords": [<list of important keywords from job description>],
    "matched_keywords": [<keywords present in both>],
    "missing_keywords": [<keywords from job not in resume>],
    "unique_resume_keywords": [<strong keywords unique to resume>]
}`,
	},
	OpEnhanceResume: {
		System: "You are an expert resume writer and ATS optimization specialist.",
		User: `Enhance the provided resume to:
1. Improve grammar, syntax, and professional language
2. Optimize keywords for ATS systems
3. Make achievements more impactful using strong action verbs
4. Quantify results wherever possible
5. Maintain professional tone and readability
6. Highlight leadership and impact

Resume Data to Enhance:
{{.ResumeJSON}}

{{if .JobDescription}}Target Job Description (for keyword optimization): {{.JobDescription}}{{else}}No specific job description provided{{end}}

IMPORTANT: Return the enhanced resume in the same JSON structure as above, with improved content.
Preserve all fields and structure. Return ONLY valid JSON, no extra text.

Enhanced Resume (JSON only):`,
	},
	OpEnhanceSection: {
		System: "You are an expert resume writer.",
		User: `Enhance the following {{.SectionName}} section of a resume:

Original Content:
{{.Content}}
{{if .Context}}
Context/Job Description: {{.Context}}
{{end}}
Improvements needed:
- Use stronger action verbs (Led, Developed, Implemented, Optimized, etc.)
- Include quantifiable metrics and results (numbers, percentages, improvements)
- Keep it concise and impactful
- Use keywords relevant to the role
- Maintain professional tone

Return ONLY the enhanced content without any explanation.`,
	},
	OpGenerateSummary: {
		System: "You are an expert resume writer who crafts professional summaries.",
		User: `Create a compelling professional summary (2-3 sentences) based on this resume data:
{{.ResumeJSON}}

The summary should:
- Highlight key strengths and years of experience
- Be concise and impactful
- Use professional language and power words
- Include relevant keywords
- Showcase unique value proposition
- Be suitable for ATS systems

Return ONLY the professional summary text, no additional explanation.`,
	},
	OpEnhanceBullets: {
		System: "You are an expert resume writer who sharpens achievement bullet points.",
		User: `Enhance these bullet points to be more impactful and ATS-friendly:

{{.BulletsJSON}}

For each bullet point:
- Start with a strong action verb
- Include quantifiable results if possible (numbers, percentages, improvements)
- Keep it concise (one line)
- Use professional language

Return ONLY a JSON array of enhanced bullet points, no explanation:
["enhanced point 1", "enhanced point 2", ...]`,
	},
	OpSuggestImprovements: {
		System: "You are an expert resume reviewer focused on ATS optimization and impact.",
		User: `Analyze this resume and provide 5-7 specific, actionable improvement suggestions:

{{.ResumeText}}

Suggestions should be:
- Specific and actionable
- Ranked by impact (most important first)
- Focused on ATS optimization and impact
- Practical to implement

Return ONLY a JSON array of strings:
["suggestion 1", "suggestion 2", ...]`,
	},
	OpCoverLetter: {
		System: "You are an expert career coach who writes cover letters.",
		User: `Generate a compelling cover letter opening (2-3 sentences) based on this resume:
{{.ResumeJSON}}

The opening should:
- Be engaging and professional
- Highlight key strengths
- Show enthusiasm and motivation
- Be suitable for tailoring to different roles

Return ONLY the cover letter opening, no extra text.`,
	},
}

// PromptOverrides returns configured system and user prompts for an
// operation; empty strings select the built-in text.
type PromptOverrides func(op Operation) (system, user string)

// PromptBuilder renders the prompts of every operation.
type PromptBuilder struct {
	system           map[Operation]string
	user             map[Operation]*template.Template
	useSystemPrompts bool
}

// NewPromptBuilder resolves overrides against the defaults and parses every
// user template up front so a broken override fails at startup.
func NewPromptBuilder(overrides PromptOverrides, useSystemPrompts bool) (*PromptBuilder, error) {
	b := &PromptBuilder{
		system:           make(map[Operation]string, len(defaultPrompts)),
		user:             make(map[Operation]*template.Template, len(defaultPrompts)),
		useSystemPrompts: useSystemPrompts,
	}

	for op, defaults := range defaultPrompts {
		var system, user string
		if overrides != nil {
			system, user = overrides(op)
		}
		b.system[op] = resolvePrompt(system, defaults.System)

		tmpl, err := template.New(string(op)).Option("missingkey=zero").Parse(resolvePrompt(user, defaults.User))
		if err != nil {
			return nil, fmt.Errorf("invalid %s user prompt: %w", op, err)
		}
		b.user[op] = tmpl
	}

	return b, nil
}

// Build renders the request for one operation.
func (b *PromptBuilder) Build(op Operation, data PromptData) (CompletionRequest, error) {
	tmpl, ok := b.user[op]
	if !ok {
		return CompletionRequest{}, fmt.Errorf("unknown AI operation %q", op)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return CompletionRequest{}, fmt.Errorf("render %s prompt: %w", op, err)
	}
	user := strings.TrimSpace(buf.String())
	system := b.system[op]

	if !b.useSystemPrompts && system != "" {
		return CompletionRequest{Operation: op, UserPrompt: system + "\n\n" + user}, nil
	}
	return CompletionRequest{Operation: op, SystemPrompt: system, UserPrompt: user}, nil
}

// resolvePrompt prefers a configured prompt over the built-in one.
func resolvePrompt(configured, fallback string) string {
	if strings.TrimSpace(configured) != "" {
		return configured
	}
	return fallback
}
