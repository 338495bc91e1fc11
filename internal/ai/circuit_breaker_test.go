package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"

	"resumeforge/internal/config"
)

func breakerConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          60 * time.Second,
		MinRequests:      2,
		FailureThreshold: 0.5,
	}
}

func TestCircuitBreakerNames(t *testing.T) {
	scoring := NewCircuitBreaker[string]("scoring", breakerConfig(), nil)
	model := NewModelCircuitBreaker[string]("scoring", breakerConfig(), nil)

	tests := []struct {
		name  string
		stats map[string]any
		want  string
	}{
		{"completion breaker", scoring.Stats(), "AI-scoring"},
		{"model breaker", model.Stats(), "AI-Model-scoring"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.stats["name"] != tt.want {
				t.Errorf("Expected name %q, got %v", tt.want, tt.stats["name"])
			}
			if tt.stats["state"] != "closed" {
				t.Errorf("Expected initial state closed, got %v", tt.stats["state"])
			}
		})
	}
}

func TestCircuitBreakerTrips(t *testing.T) {
	cb := NewCircuitBreaker[string]("enhancement", breakerConfig(), nil)
	failure := errors.New("upstream 503")

	for i := 0; i < 2; i++ {
		if _, err := cb.Execute(func() (string, error) { return "", failure }); !errors.Is(err, failure) {
			t.Fatalf("Call %d: expected upstream error, got %v", i, err)
		}
	}

	if cb.IsHealthy() {
		t.Fatal("Expected breaker to be open after repeated failures")
	}

	called := false
	_, err := cb.Execute(func() (string, error) {
		called = true
		return "ok", nil
	})
	if called {
		t.Error("Open breaker must not run the call")
	}
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Expected ErrOpenState, got %v", err)
	}
	if class := ClassifyError(fmt.Errorf("wrapped: %w", err)); class != ErrClassCircuitOpen {
		t.Errorf("Expected %s, got %s", ErrClassCircuitOpen, class)
	}
}

func TestCircuitBreakerIgnoresCancellation(t *testing.T) {
	cb := NewCircuitBreaker[string]("scoring", breakerConfig(), nil)

	for i := 0; i < 5; i++ {
		_, _ = cb.Execute(func() (string, error) { return "", context.Canceled })
	}

	if !cb.IsHealthy() {
		t.Error("Cancelled calls should not trip the breaker")
	}
	counts := cb.Stats()["counts"].(map[string]uint32)
	if counts["total_failures"] != 0 {
		t.Errorf("Expected 0 failures, got %d", counts["total_failures"])
	}
}

func TestModelCircuitBreakerNeedsMoreFailures(t *testing.T) {
	cb := NewModelCircuitBreaker[string]("scoring", breakerConfig(), nil)
	failure := errors.New("not found")

	for i := 0; i < 4; i++ {
		_, _ = cb.Execute(func() (string, error) { return "", failure })
	}
	if !cb.IsHealthy() {
		t.Error("Model breaker should stay closed below five requests")
	}

	_, _ = cb.Execute(func() (string, error) { return "", failure })
	if cb.IsHealthy() {
		t.Error("Model breaker should open after five failed requests")
	}
}

func TestCircuitBreakerDisabled(t *testing.T) {
	cfg := breakerConfig()
	cfg.Enabled = false

	cb := NewCircuitBreaker[string]("scoring", cfg, nil)
	if cb != nil {
		t.Fatal("Expected nil breaker when disabled")
	}

	got, err := cb.Execute(func() (string, error) { return "passed", nil })
	if err != nil || got != "passed" {
		t.Errorf("Expected pass-through, got %q, %v", got, err)
	}
	if enabled := cb.Stats()["enabled"]; enabled != false {
		t.Errorf("Expected enabled=false, got %v", enabled)
	}
	if !cb.IsHealthy() {
		t.Error("Disabled breaker should report healthy")
	}
}
