package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"time"

	"resumeforge/internal/ai"
	appErrors "resumeforge/internal/errors"
)

// maxFormMemory bounds the in-memory part of multipart uploads.
const maxFormMemory = 10 << 20

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "AI Resume Builder API",
		"version": s.Version,
		"status":  "running",
		"api":     "/v1/api",
	})
}

// healthHandler reports service readiness including AI model availability.
// Any unavailable model marks the service degraded.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{
		"gemini_ai":          "ready",
		"pdf_parser":         "ready",
		"document_generator": "ready",
	}
	response := map[string]any{
		"status":   "healthy",
		"service":  "resumeforge",
		"version":  s.Version,
		"services": services,
	}

	overallHealthy := true
	if s.ai == nil {
		services["gemini_ai"] = "unavailable"
		overallHealthy = false
	} else {
		aiStatus := s.checkAIModelsHealth(r.Context())
		response["ai_models"] = aiStatus
		response["circuit_breakers"] = s.ai.CircuitBreakerStats()
		for _, info := range aiStatus {
			if info == nil || !info.Available {
				services["gemini_ai"] = "degraded"
				overallHealthy = false
			}
		}
	}
	if s.parser == nil {
		services["pdf_parser"] = "unavailable"
		overallHealthy = false
	}
	if s.generator == nil {
		services["document_generator"] = "unavailable"
		overallHealthy = false
	}

	status := http.StatusOK
	if !overallHealthy {
		response["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

// checkAIModelsHealth checks the models of both AI services within the
// configured health check timeout.
func (s *Server) checkAIModelsHealth(ctx context.Context) map[string]*ai.ModelInfo {
	timeout := s.AppConfig.Observability.HealthCheck.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return s.ai.ModelInfo(ctx)
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "resumeforge",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"auth_enabled":           len(s.APIKeys) > 0,
			"cors_origins":           s.CORS.AllowedOrigins,
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	if s.templates != nil {
		response["templates"] = len(s.templates.List())
	}

	writeJSON(w, http.StatusOK, response)
}

// parseJSONRequest parses JSON request body into the provided value
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return fmt.Errorf("content-type must be application/json")
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return bodyReadError(err)
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			log.Printf("Failed to close request body: %v", err)
		}
	}()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

// parseFormRequest parses url-encoded and multipart bodies.
func parseFormRequest(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(maxFormMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return bodyReadError(err)
	}
	return nil
}

func bodyReadError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return fmt.Errorf("request body too large (limit is %d bytes)", maxBytesErr.Limit)
	}
	return fmt.Errorf("failed to read request body: %w", err)
}

// writeJSON writes v with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, title, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:   title,
		Message: message,
	})
}

// writeAppError maps err onto a status code. Typed errors carry their own
// status and message; anything else is a 500.
func writeAppError(w http.ResponseWriter, title string, err error) {
	if appErr, ok := appErrors.AsAppError(err); ok {
		writeErrorResponse(w, title, appErr.Message, appErr.HTTPStatus())
		return
	}
	writeErrorResponse(w, title, err.Error(), http.StatusInternalServerError)
}
