package server

import (
	"fmt"
	"time"

	"resumeforge/internal/config"
)

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo() {
	s.displayEndpoints()
	s.displayAuthInfo()
	s.displayRequestLimitInfo()
	s.displayRateLimitInfo()
	s.displayCORSInfo()
}

func (s *Server) displayEndpoints() {
	fmt.Println("Available endpoints:")
	fmt.Println("  GET  /                                - Service info")
	fmt.Println("  GET  /health                          - Health check")
	fmt.Println("  GET  /stats                           - Server statistics")
	fmt.Println("  POST /v1/api/upload-resume            - Parse a PDF resume")
	fmt.Println("  POST /v1/api/calculate-ats-score      - ATS score")
	fmt.Println("  POST /v1/api/analyze-keywords         - Keyword analysis")
	fmt.Println("  POST /v1/api/enhance-resume           - Enhance and rescore")
	fmt.Println("  POST /v1/api/enhance-section          - Enhance one section")
	fmt.Println("  POST /v1/api/generate-summary         - Professional summary")
	fmt.Println("  POST /v1/api/generate-cover-letter    - Cover letter opening")
	fmt.Println("  POST /v1/api/enhance-bullet-points    - Rewrite bullet points")
	fmt.Println("  POST /v1/api/suggest-improvements     - Improvement suggestions")
	fmt.Println("  POST /v1/api/job-match                - Local job match report")
	fmt.Println("  POST /v1/api/generate-resume          - Download DOCX or PDF")
	fmt.Println("  GET  /v1/api/templates[/{name}]       - Resume templates")
}

func (s *Server) displayAuthInfo() {
	if len(s.APIKeys) > 0 {
		fmt.Printf("API authentication: ENABLED (%d keys configured)\n", len(s.APIKeys))
		fmt.Println("Include 'X-API-Key: <your-key>' header in requests to /v1/api")
	} else {
		fmt.Println("API authentication: DISABLED (no API keys configured)")
	}
}

func (s *Server) displayRequestLimitInfo() {
	if s.MaxRequestSize > 0 {
		fmt.Printf("Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Println("Request size limit: DISABLED")
		fmt.Println("WARNING: No request size limits configured!")
	}
}

func (s *Server) displayRateLimitInfo() {
	if s.RateLimiter != nil {
		fmt.Printf("Rate limiting: ENABLED (%d requests/%s, burst: %d)\n",
			s.RateLimit.RequestsPerMin, windowLabel(s.RateLimit), s.RateLimit.BurstCapacity)
		if s.RateLimit.ByAPIKey {
			fmt.Println("  - Per API key rate limiting enabled")
		}
		if s.RateLimit.ByIP {
			fmt.Println("  - Per IP address rate limiting enabled")
		}
	} else {
		fmt.Println("Rate limiting: DISABLED")
		fmt.Println("WARNING: No rate limiting configured!")
	}
}

func (s *Server) displayCORSInfo() {
	if len(s.CORS.AllowedOrigins) == 0 {
		fmt.Println("CORS: no browser origins allowed")
		return
	}
	fmt.Printf("CORS origins: %v (credentials: %t)\n", s.CORS.AllowedOrigins, s.CORS.AllowCredentials)
}

func windowLabel(cfg *config.RateLimitConfig) string {
	if cfg.Window <= 0 || cfg.Window == time.Minute {
		return "min"
	}
	return cfg.Window.String()
}
