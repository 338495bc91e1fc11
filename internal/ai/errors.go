package ai

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// Failure classes attached to spans, logs and error metrics.
const (
	ErrClassTimeout     = "timeout"
	ErrClassRateLimited = "rate_limited"
	ErrClassUnavailable = "unavailable"
	ErrClassClient      = "client_error"
	ErrClassNetwork     = "network"
	ErrClassCircuitOpen = "circuit_open"
	ErrClassUnknown     = "unknown"
)

// ClassifyError maps a provider error onto a failure class.
func ClassifyError(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrClassCircuitOpen
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrClassTimeout
	}

	if code, ok := statusCode(err); ok {
		switch {
		case code == http.StatusTooManyRequests:
			return ErrClassRateLimited
		case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
			return ErrClassTimeout
		case code >= 500:
			return ErrClassUnavailable
		case code >= 400:
			return ErrClassClient
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return ErrClassTimeout
		}
		return ErrClassNetwork
	}

	return ErrClassUnknown
}

// statusCode digs the HTTP status out of the error types the Gemini SDK and
// the Google API client return.
func statusCode(err error) (int, bool) {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return genaiErr.Code, true
	}
	var genaiPtr *genai.APIError
	if errors.As(err, &genaiPtr) && genaiPtr != nil {
		return genaiPtr.Code, true
	}
	return 0, false
}
