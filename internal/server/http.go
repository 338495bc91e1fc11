package server

import (
	"context"
	"time"

	"resumeforge/internal/ai"
	"resumeforge/internal/config"
	"resumeforge/internal/document"
	appErrors "resumeforge/internal/errors"
	"resumeforge/internal/observability"
	"resumeforge/internal/types"
)

// ResumeParser turns an uploaded PDF into a parsed resume.
type ResumeParser interface {
	ParseResume(ctx context.Context, data []byte) (*types.ParsedResume, error)
}

// AIService is the model-backed half of the API. Its operations never fail;
// degraded answers come back as defaults.
type AIService interface {
	CalculateScore(ctx context.Context, resumeText, jobDescription string) types.ATSScoreResult
	AnalyzeKeywords(ctx context.Context, resumeText, jobDescription string) types.KeywordAnalysis
	EnhanceAndScore(ctx context.Context, data types.ResumeData, jobDescription string) types.EnhancementResult
	EnhanceSection(ctx context.Context, sectionName, content, sectionContext string) string
	GenerateSummary(ctx context.Context, data types.ResumeData) string
	GenerateCoverLetter(ctx context.Context, data types.ResumeData) string
	EnhanceBulletPoints(ctx context.Context, bullets []string) []any
	SuggestImprovements(ctx context.Context, resumeText string) []any
	ModelInfo(ctx context.Context) map[string]*ai.ModelInfo
	CircuitBreakerStats() map[string]any
}

// DocumentGenerator renders resume records into downloadable files.
type DocumentGenerator interface {
	Generate(ctx context.Context, data types.ResumeData, format string) (*document.Document, error)
}

// TemplateCatalog lists and loads resume templates.
type TemplateCatalog interface {
	List() []string
	Details() map[string]types.TemplateInfo
	Get(name string) (content string, found bool)
}

// Dependencies are the collaborators the handlers call into. A nil AI
// service makes the AI endpoints answer 503.
type Dependencies struct {
	Parser        ResumeParser
	AI            AIService
	Generator     DocumentGenerator
	Templates     TemplateCatalog
	Observability *observability.Manager
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// EnhanceRequest is the body of the enhance-resume and job-match endpoints.
type EnhanceRequest struct {
	ResumeData     types.ResumeData `json:"resume_data"`
	JobDescription string           `json:"job_description"`
}

type SectionRequest struct {
	SectionName string `json:"section_name"`
	Content     string `json:"content"`
	Context     string `json:"context"`
}

type BulletPointsRequest struct {
	BulletPoints []string `json:"bullet_points"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	TLSConfig config.TLSConfig
	CORS      config.CORSConfig

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	DefaultTemplate string

	parser    ResumeParser
	ai        AIService
	generator DocumentGenerator
	templates TemplateCatalog
	om        *observability.Manager

	Logger *appErrors.Logger
}

// NewServer creates a Server from the application configuration.
func NewServer(appCfg *config.Config, version string, deps Dependencies, logger *appErrors.Logger) (*Server, error) {
	if logger == nil {
		logger = appErrors.NewNopLogger()
	}

	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range appCfg.Server.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	rateLimit := appCfg.Server.RateLimit
	var rateLimiter *RateLimiter
	if rateLimit.Enabled {
		rateLimiter = NewRateLimiter(rateLimit.RequestsPerMin, rateLimit.Window, rateLimit.BurstCapacity, logger)
	}

	om := deps.Observability
	if om == nil {
		var err error
		om, err = observability.NewManager(observability.Options{ServiceName: "resumeforge"}, logger)
		if err != nil {
			return nil, err
		}
	}

	defaultTemplate := appCfg.Documents.DefaultTemplate
	if defaultTemplate == "" {
		defaultTemplate = "template1"
	}

	return &Server{
		Host:            appCfg.Server.Host,
		Port:            appCfg.Server.Port,
		Version:         version,
		AppConfig:       appCfg,
		TLSConfig:       appCfg.Server.TLS,
		CORS:            appCfg.Server.CORS,
		APIKeys:         apiKeyMap,
		ReadTimeout:     appCfg.Server.ReadTimeout,
		WriteTimeout:    appCfg.Server.WriteTimeout,
		IdleTimeout:     appCfg.Server.IdleTimeout,
		MaxRequestSize:  appCfg.Server.MaxRequestSize,
		RateLimit:       &rateLimit,
		RateLimiter:     rateLimiter,
		DefaultTemplate: defaultTemplate,
		parser:          deps.Parser,
		ai:              deps.AI,
		generator:       deps.Generator,
		templates:       deps.Templates,
		om:              om,
		Logger:          logger,
	}, nil
}
