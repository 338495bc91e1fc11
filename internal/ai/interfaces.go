package ai

import (
	"context"
	"time"
)

// Operation names one kind of model call. The values double as the keys of
// ai.prompts in the config file.
type Operation string

const (
	OpATSScore            Operation = "ats_score"
	OpKeywordAnalysis     Operation = "keyword_analysis"
	OpEnhanceResume       Operation = "enhance_resume"
	OpEnhanceSection      Operation = "enhance_section"
	OpGenerateSummary     Operation = "generate_summary"
	OpEnhanceBullets      Operation = "enhance_bullets"
	OpSuggestImprovements Operation = "suggest_improvements"
	OpCoverLetter         Operation = "cover_letter"
)

// CompletionRequest is a single prompt sent to a text completion backend.
type CompletionRequest struct {
	Operation    Operation
	SystemPrompt string
	UserPrompt   string
}

// TextCompleter turns a prompt into free-form model text.
type TextCompleter interface {
	Complete(ctx context.Context, req CompletionRequest) (string, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// CallObserver receives the outcome of every model call. Implemented by the
// observability package; nil observers are allowed everywhere.
type CallObserver interface {
	ObserveCompletion(ctx context.Context, op Operation, model string, duration time.Duration, usage *TokenUsage, err error)
	ObserveFallback(ctx context.Context, op Operation, reason string)
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
