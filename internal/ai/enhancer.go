package ai

import (
	"context"
	"errors"
	"strings"

	"resumeforge/internal/types"
)

// Enhancer rewrites resume content with the model. Like Scorer it never
// fails; each method has its own substitute for an unusable answer.
type Enhancer struct {
	caller
}

// NewEnhancer creates an enhancer backed by completer.
func NewEnhancer(completer TextCompleter, prompts *PromptBuilder, opts Options) *Enhancer {
	return &Enhancer{caller: newCaller(completer, prompts, opts)}
}

// EnhanceContent returns an improved copy of data, or data itself when the
// model's answer cannot be read.
func (e *Enhancer) EnhanceContent(ctx context.Context, data types.ResumeData, jobDescription string) types.ResumeData {
	completion, err := e.complete(ctx, OpEnhanceResume, PromptData{
		ResumeJSON:     prettyJSON(data),
		JobDescription: jobDescription,
	})
	if err == nil {
		var enhanced types.ResumeData
		if enhanced, err = Interpret[types.ResumeData](completion, PayloadObject); err == nil {
			e.logger.Info("Resume content enhanced", "fields", len(enhanced))
			return enhanced
		}
	}

	e.fallback(ctx, OpEnhanceResume, err)
	return data
}

// EnhanceSection rewrites one free-text section. The original content is
// returned when the call fails or comes back empty.
func (e *Enhancer) EnhanceSection(ctx context.Context, sectionName, content, sectionContext string) string {
	return e.text(ctx, OpEnhanceSection, PromptData{
		SectionName: sectionName,
		Content:     content,
		Context:     sectionContext,
	}, content)
}

// GenerateSummary writes a two to three sentence professional summary.
func (e *Enhancer) GenerateSummary(ctx context.Context, data types.ResumeData) string {
	return e.text(ctx, OpGenerateSummary, PromptData{ResumeJSON: prettyJSON(data)}, defaultSummary)
}

// GenerateCoverLetter writes the opening of a cover letter.
func (e *Enhancer) GenerateCoverLetter(ctx context.Context, data types.ResumeData) string {
	return e.text(ctx, OpCoverLetter, PromptData{ResumeJSON: prettyJSON(data)}, defaultCoverLetter)
}

func (e *Enhancer) text(ctx context.Context, op Operation, data PromptData, fallback string) string {
	completion, err := e.complete(ctx, op, data)
	if err == nil {
		if trimmed := strings.TrimSpace(completion); trimmed != "" {
			return trimmed
		}
		err = ErrNoPayload
	}

	e.fallback(ctx, op, err)
	return fallback
}

// EnhanceBulletPoints rewrites each bullet. Whatever array the model answers
// with is passed through as decoded; the input is returned when there is none.
func (e *Enhancer) EnhanceBulletPoints(ctx context.Context, bullets []string) []any {
	completion, err := e.complete(ctx, OpEnhanceBullets, PromptData{BulletsJSON: prettyJSON(bullets)})
	if err == nil {
		var enhanced []any
		if enhanced, err = Interpret[[]any](completion, PayloadArray); err == nil {
			e.logger.Info("Bullet points enhanced", "count", len(enhanced))
			return enhanced
		}
	}

	e.fallback(ctx, OpEnhanceBullets, err)
	return toAnySlice(bullets)
}

// SuggestImprovements returns ranked suggestions for resumeText. An answer
// without any list yields the canned suggestions; a list that does not
// parse, or a failed call, yields none.
func (e *Enhancer) SuggestImprovements(ctx context.Context, resumeText string) []any {
	completion, err := e.complete(ctx, OpSuggestImprovements, PromptData{ResumeText: resumeText})
	if err == nil {
		var suggestions []any
		if suggestions, err = Interpret[[]any](completion, PayloadArray); err == nil {
			e.logger.Info("Improvement suggestions generated", "count", len(suggestions))
			return suggestions
		}
	}

	e.fallback(ctx, OpSuggestImprovements, err)
	if errors.Is(err, ErrNoPayload) {
		return toAnySlice(CannedSuggestions())
	}
	return []any{}
}

func toAnySlice(items []string) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
