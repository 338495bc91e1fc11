package ai

import (
	"context"
	"errors"
	"fmt"

	"resumeforge/internal/config"
	appErrors "resumeforge/internal/errors"
	"resumeforge/internal/scoring"
	"resumeforge/internal/types"
)

// Service bundles the scoring and enhancement halves of the AI layer.
// It is built once at startup and shared by all requests; the scorer and
// enhancer methods are promoted onto it.
type Service struct {
	*Scorer
	*Enhancer

	scoring     TextCompleter
	enhancement TextCompleter
	logger      *appErrors.Logger
}

// NewService creates Gemini-backed scorer and enhancer from configuration.
func NewService(ctx context.Context, cfg *config.Config, logger *appErrors.Logger, observer CallObserver) (*Service, error) {
	scoringCfg := cfg.GetScoringConfig()
	enhancementCfg := cfg.GetEnhancementConfig()

	scoringProvider, err := newProvider(ctx, "scoring", scoringCfg, logger)
	if err != nil {
		return nil, err
	}
	enhancementProvider, err := newProvider(ctx, "enhancement", enhancementCfg, logger)
	if err != nil {
		return nil, err
	}

	overrides := func(op Operation) (string, string) {
		return cfg.PromptFor(string(op))
	}
	scoringPrompts, err := NewPromptBuilder(overrides, *scoringCfg.UseSystemPrompts)
	if err != nil {
		return nil, appErrors.NewConfigError(appErrors.ErrCodeInvalidConfig, "Invalid scoring prompt", err)
	}
	enhancementPrompts, err := NewPromptBuilder(overrides, *enhancementCfg.UseSystemPrompts)
	if err != nil {
		return nil, appErrors.NewConfigError(appErrors.ErrCodeInvalidConfig, "Invalid enhancement prompt", err)
	}

	svc := NewServiceFromCompleters(
		scoringProvider, scoringPrompts, Options{Model: scoringCfg.Model, Observer: observer, Logger: logger},
		enhancementProvider, enhancementPrompts, Options{Model: enhancementCfg.Model, Observer: observer, Logger: logger},
	)

	logger.Debug("AI service initialized",
		"scoring_model", scoringCfg.Model,
		"scoring_timeout", *scoringCfg.Timeout,
		"enhancement_model", enhancementCfg.Model,
		"enhancement_timeout", *enhancementCfg.Timeout)
	return svc, nil
}

// NewServiceFromCompleters wires a service around arbitrary completers.
func NewServiceFromCompleters(
	scoringCompleter TextCompleter, scoringPrompts *PromptBuilder, scoringOpts Options,
	enhancementCompleter TextCompleter, enhancementPrompts *PromptBuilder, enhancementOpts Options,
) *Service {
	logger := scoringOpts.Logger
	if logger == nil {
		logger = appErrors.NewNopLogger()
	}
	return &Service{
		Scorer:      NewScorer(scoringCompleter, scoringPrompts, scoringOpts),
		Enhancer:    NewEnhancer(enhancementCompleter, enhancementPrompts, enhancementOpts),
		scoring:     scoringCompleter,
		enhancement: enhancementCompleter,
		logger:      logger,
	}
}

func newProvider(ctx context.Context, service string, cfg config.OperationAIConfig, logger *appErrors.Logger) (TextCompleter, error) {
	if cfg.APIKey == "" {
		return nil, appErrors.NewConfigError(appErrors.ErrCodeMissingAPIKey,
			"Gemini API key is not configured (set GEMINI_API_KEY or ai.apiKey)", nil).
			WithContext("service", service)
	}

	switch cfg.Provider {
	case "gemini":
		return NewGeminiProvider(ctx, service, cfg, logger)
	default:
		return nil, appErrors.NewConfigError(appErrors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", cfg.Provider), nil)
	}
}

// EnhanceAndScore scores the original record, enhances it, scores the result
// and compares the two scores.
func (s *Service) EnhanceAndScore(ctx context.Context, data types.ResumeData, jobDescription string) types.EnhancementResult {
	original := s.Scorer.CalculateScore(ctx, compactJSON(data), jobDescription)
	enhanced := s.Enhancer.EnhanceContent(ctx, data, jobDescription)
	enhancedScore := s.Scorer.CalculateScore(ctx, compactJSON(enhanced), jobDescription)

	improvements := scoring.CompareScores(original.Score(), enhancedScore.Score())
	s.logger.Info("Resume enhanced",
		"original_score", original.RawScore(),
		"enhanced_score", enhancedScore.RawScore())

	return types.EnhancementResult{
		EnhancedData:  enhanced,
		OriginalScore: original.RawScore(),
		EnhancedScore: enhancedScore.RawScore(),
		Improvements:  improvements,
		Suggestions:   enhancedScore.Suggestions(),
	}
}

// ModelInfo checks model availability for both services.
func (s *Service) ModelInfo(ctx context.Context) map[string]*ModelInfo {
	return map[string]*ModelInfo{
		"scoring":     s.scoring.GetModelInfo(ctx),
		"enhancement": s.enhancement.GetModelInfo(ctx),
	}
}

// CircuitBreakerStats reports breaker state for completers that track it.
func (s *Service) CircuitBreakerStats() map[string]any {
	stats := make(map[string]any, 2)
	for name, completer := range map[string]TextCompleter{"scoring": s.scoring, "enhancement": s.enhancement} {
		if reporter, ok := completer.(interface{ CircuitBreakerStats() map[string]any }); ok {
			stats[name] = reporter.CircuitBreakerStats()
		}
	}
	return stats
}

// Close releases both completers.
func (s *Service) Close() error {
	return errors.Join(s.scoring.Close(), s.enhancement.Close())
}
