package ai

import (
	"context"

	"resumeforge/internal/types"
)

// Scorer asks the model for ATS compatibility and keyword analyses.
// Its methods never fail: unusable answers are replaced by fixed defaults.
type Scorer struct {
	caller
}

// NewScorer creates a scorer backed by completer.
func NewScorer(completer TextCompleter, prompts *PromptBuilder, opts Options) *Scorer {
	return &Scorer{caller: newCaller(completer, prompts, opts)}
}

// CalculateScore returns the model's ATS analysis of resumeText, optionally
// against a job description.
func (s *Scorer) CalculateScore(ctx context.Context, resumeText, jobDescription string) types.ATSScoreResult {
	completion, err := s.complete(ctx, OpATSScore, PromptData{
		ResumeText:     resumeText,
		JobDescription: jobDescription,
	})
	if err == nil {
		var result types.ATSScoreResult
		if result, err = Interpret[types.ATSScoreResult](completion, PayloadObject); err == nil {
			s.logger.Info("ATS score calculated", "score", result.RawScore())
			return result
		}
	}

	s.fallback(ctx, OpATSScore, err)
	return DefaultATSScore()
}

// AnalyzeKeywords compares the keywords of a resume and a job description.
func (s *Scorer) AnalyzeKeywords(ctx context.Context, resumeText, jobDescription string) types.KeywordAnalysis {
	completion, err := s.complete(ctx, OpKeywordAnalysis, PromptData{
		ResumeText:     resumeText,
		JobDescription: jobDescription,
	})
	if err == nil {
		var analysis types.KeywordAnalysis
		if analysis, err = Interpret[types.KeywordAnalysis](completion, PayloadObject); err == nil {
			return analysis
		}
	}

	s.fallback(ctx, OpKeywordAnalysis, err)
	return EmptyKeywordAnalysis()
}
