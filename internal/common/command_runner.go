package common

import (
	"context"
	"fmt"
	"sync"
	"time"

	"resumeforge/internal/ai"
	appErrors "resumeforge/internal/errors"
)

// CreateInputFunc defines how to create the specific operation input from file contents.
type CreateInputFunc[Input any] func(contents []string) (Input, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// OperationFunc is the signature shared by every file-based command operation.
type OperationFunc[Input, Output any] func(context.Context, Input) (Output, error)

// RunFileCommand reads the files named by args, builds the operation input,
// runs it and writes the formatted result. When usage is non-nil the model
// token totals collected during the run are logged afterwards.
func RunFileCommand[Input, Output any](
	ctx context.Context,
	logger *appErrors.Logger,
	usage *UsageRecorder,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	operation OperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	if logger == nil {
		logger = appErrors.NewNopLogger()
	}
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	contents, err := fileProcessor.ValidateAndReadFiles(args...)
	if err != nil {
		return err
	}

	input, err := createInput(contents)
	if err != nil {
		return fmt.Errorf("failed to create input from file contents: %w", err)
	}

	if logDetails != nil {
		logDetails(input, cmdConfig)
	}

	result, err := operation(ctx, input)
	if err != nil {
		return err
	}

	if usage != nil {
		if total := usage.Total(); total.Calls > 0 {
			logger.Info("AI token usage",
				"calls", total.Calls,
				"fallbacks", total.Fallbacks,
				"input_tokens", total.InputTokens,
				"output_tokens", total.OutputTokens,
				"total_tokens", total.TotalTokens)
		}
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}

// UsageTotals accumulates model usage over one command run.
type UsageTotals struct {
	Calls        int
	Fallbacks    int
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// UsageRecorder is an ai.CallObserver that sums token usage for CLI runs.
type UsageRecorder struct {
	mu     sync.Mutex
	totals UsageTotals
}

var _ ai.CallObserver = (*UsageRecorder)(nil)

func NewUsageRecorder() *UsageRecorder {
	return &UsageRecorder{}
}

func (u *UsageRecorder) ObserveCompletion(_ context.Context, _ ai.Operation, _ string, _ time.Duration, usage *ai.TokenUsage, _ error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.totals.Calls++
	if usage != nil {
		u.totals.InputTokens += usage.InputTokens
		u.totals.OutputTokens += usage.OutputTokens
		u.totals.TotalTokens += usage.TotalTokens
	}
}

func (u *UsageRecorder) ObserveFallback(_ context.Context, _ ai.Operation, _ string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.totals.Fallbacks++
}

// Total returns a snapshot of the accumulated usage.
func (u *UsageRecorder) Total() UsageTotals {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.totals
}
