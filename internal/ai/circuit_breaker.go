package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker/v2"

	"resumeforge/internal/config"
	appErrors "resumeforge/internal/errors"
)

// CircuitBreaker guards calls to one AI service. A nil breaker passes
// calls straight through.
type CircuitBreaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

type tripPolicy struct {
	minRequests      uint32
	failureThreshold float64
}

// NewCircuitBreaker builds a breaker named "AI-<service>" for completions.
func NewCircuitBreaker[T any](service string, cfg config.CircuitBreakerConfig, logger *appErrors.Logger) *CircuitBreaker[T] {
	return newBreaker[T](fmt.Sprintf("AI-%s", service), cfg, tripPolicy{
		minRequests:      cfg.MinRequests,
		failureThreshold: cfg.FailureThreshold,
	}, logger)
}

// NewModelCircuitBreaker builds the breaker used by model health checks. It
// trips later than the completion breaker since a failed check is cheap.
func NewModelCircuitBreaker[T any](service string, cfg config.CircuitBreakerConfig, logger *appErrors.Logger) *CircuitBreaker[T] {
	return newBreaker[T](fmt.Sprintf("AI-Model-%s", service), cfg, tripPolicy{
		minRequests:      5,
		failureThreshold: 0.8,
	}, logger)
}

func newBreaker[T any](name string, cfg config.CircuitBreakerConfig, policy tripPolicy, logger *appErrors.Logger) *CircuitBreaker[T] {
	if !cfg.Enabled {
		return nil
	}
	if logger == nil {
		logger = appErrors.NewNopLogger()
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= policy.minRequests && failureRatio >= policy.failureThreshold
		},
		// Cancelled requests do not count against the model.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String())
		},
	}

	return &CircuitBreaker[T]{cb: gobreaker.NewCircuitBreaker[T](settings)}
}

// Execute runs fn under the breaker.
func (b *CircuitBreaker[T]) Execute(fn func() (T, error)) (T, error) {
	if b == nil || b.cb == nil {
		return fn()
	}
	return b.cb.Execute(fn)
}

// Stats reports the breaker state for health and stats endpoints.
func (b *CircuitBreaker[T]) Stats() map[string]any {
	if b == nil || b.cb == nil {
		return map[string]any{"enabled": false}
	}
	counts := b.cb.Counts()
	return map[string]any{
		"enabled": true,
		"name":    b.cb.Name(),
		"state":   b.cb.State().String(),
		"counts": map[string]uint32{
			"requests":              counts.Requests,
			"total_successes":       counts.TotalSuccesses,
			"total_failures":        counts.TotalFailures,
			"consecutive_successes": counts.ConsecutiveSuccesses,
			"consecutive_failures":  counts.ConsecutiveFailures,
		},
	}
}

// IsHealthy reports whether the breaker is closed. Disabled breakers are healthy.
func (b *CircuitBreaker[T]) IsHealthy() bool {
	if b == nil || b.cb == nil {
		return true
	}
	return b.cb.State() == gobreaker.StateClosed
}
