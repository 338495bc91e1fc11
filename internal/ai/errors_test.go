package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

type timeoutError struct{ timeout bool }

func (e timeoutError) Error() string   { return "net failure" }
func (e timeoutError) Timeout() bool   { return e.timeout }
func (e timeoutError) Temporary() bool { return false }

var _ net.Error = timeoutError{}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), ErrClassTimeout},
		{"breaker open", gobreaker.ErrOpenState, ErrClassCircuitOpen},
		{"breaker half-open limit", gobreaker.ErrTooManyRequests, ErrClassCircuitOpen},
		{"google api rate limit", &googleapi.Error{Code: 429}, ErrClassRateLimited},
		{"google api server error", &googleapi.Error{Code: 503}, ErrClassUnavailable},
		{"genai bad request", genai.APIError{Code: 400, Message: "bad"}, ErrClassClient},
		{"genai gateway timeout", fmt.Errorf("wrapped: %w", genai.APIError{Code: 504}), ErrClassTimeout},
		{"network timeout", timeoutError{timeout: true}, ErrClassTimeout},
		{"network", timeoutError{}, ErrClassNetwork},
		{"other", errors.New("boom"), ErrClassUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
