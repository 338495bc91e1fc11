package ai

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fakeCompleter answers each operation from a queue of canned responses.
// The last response of a queue repeats once the queue is drained.
type fakeCompleter struct {
	mu        sync.Mutex
	responses map[Operation][]string
	errs      map[Operation]error
	requests  []CompletionRequest
	closed    bool
}

func newFakeCompleter() *fakeCompleter {
	return &fakeCompleter{
		responses: make(map[Operation][]string),
		errs:      make(map[Operation]error),
	}
}

func (f *fakeCompleter) respond(op Operation, completions ...string) *fakeCompleter {
	f.responses[op] = append(f.responses[op], completions...)
	return f
}

func (f *fakeCompleter) fail(op Operation, err error) *fakeCompleter {
	f.errs[op] = err
	return f
}

func (f *fakeCompleter) Complete(_ context.Context, req CompletionRequest) (string, *TokenUsage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, req)
	if err := f.errs[req.Operation]; err != nil {
		return "", nil, err
	}
	queue := f.responses[req.Operation]
	if len(queue) == 0 {
		return "", nil, nil
	}
	text := queue[0]
	if len(queue) > 1 {
		f.responses[req.Operation] = queue[1:]
	}
	return text, &TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}, nil
}

func (f *fakeCompleter) GetModelInfo(context.Context) *ModelInfo {
	return &ModelInfo{Name: "fake-model", Available: true}
}

func (f *fakeCompleter) Close() error {
	f.closed = true
	return nil
}

func (f *fakeCompleter) lastRequest() CompletionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return CompletionRequest{}
	}
	return f.requests[len(f.requests)-1]
}

type observedCall struct {
	op     Operation
	reason string
	err    error
}

// recordingObserver keeps every completion and fallback it is told about.
type recordingObserver struct {
	mu          sync.Mutex
	completions []observedCall
	fallbacks   []observedCall
}

func (r *recordingObserver) ObserveCompletion(_ context.Context, op Operation, _ string, _ time.Duration, _ *TokenUsage, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completions = append(r.completions, observedCall{op: op, err: err})
}

func (r *recordingObserver) ObserveFallback(_ context.Context, op Operation, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallbacks = append(r.fallbacks, observedCall{op: op, reason: reason})
}

func mustPromptBuilder(t *testing.T) *PromptBuilder {
	t.Helper()
	b, err := NewPromptBuilder(nil, true)
	if err != nil {
		t.Fatalf("Failed to build prompts: %v", err)
	}
	return b
}
