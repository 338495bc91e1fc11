package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	appErrors "resumeforge/internal/errors"
	"resumeforge/internal/resume"
)

// Completions are logged at debug level cut to this many runes.
const completionPreviewLength = 200

// Options are the collaborators shared by Scorer and Enhancer.
type Options struct {
	Model    string
	Observer CallObserver
	Logger   *appErrors.Logger
}

// caller runs one operation against a completer and reports the outcome.
type caller struct {
	completer TextCompleter
	prompts   *PromptBuilder
	model     string
	observer  CallObserver
	logger    *appErrors.Logger
}

func newCaller(completer TextCompleter, prompts *PromptBuilder, opts Options) caller {
	logger := opts.Logger
	if logger == nil {
		logger = appErrors.NewNopLogger()
	}
	return caller{
		completer: completer,
		prompts:   prompts,
		model:     opts.Model,
		observer:  opts.Observer,
		logger:    logger,
	}
}

// complete renders the prompt for op and returns the raw completion.
func (c caller) complete(ctx context.Context, op Operation, data PromptData) (string, error) {
	req, err := c.prompts.Build(op, data)
	if err != nil {
		return "", err
	}

	start := time.Now()
	text, usage, err := c.completer.Complete(ctx, req)
	duration := time.Since(start)

	if c.observer != nil {
		c.observer.ObserveCompletion(ctx, op, c.model, duration, usage, err)
	}
	if err != nil {
		return "", err
	}

	c.logger.Debug("AI completion received",
		"operation", op,
		"duration_ms", duration.Milliseconds(),
		"completion_length", len(text),
		"completion_preview", resume.TruncateText(text, completionPreviewLength))
	return text, nil
}

// fallback records that op is answering with its substitute value.
func (c caller) fallback(ctx context.Context, op Operation, err error) {
	class := failureClass(err)
	c.logger.Warn("AI response unusable, using fallback",
		"operation", op,
		"failure", class,
		"error", err.Error())
	if c.observer != nil {
		c.observer.ObserveFallback(ctx, op, class)
	}
}

// prettyJSON renders v the way it is embedded in prompts.
func prettyJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "{}"
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

// compactJSON renders v as a single line for scoring prompts.
func compactJSON(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "{}"
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
