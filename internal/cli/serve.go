package cli

import (
	"fmt"

	"resumeforge/internal/ai"
	"resumeforge/internal/document"
	"resumeforge/internal/observability"
	"resumeforge/internal/resume"
	"resumeforge/internal/server"
	"resumeforge/internal/templates"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the resume operations under /v1/api.

Public endpoints:
- GET /: service information
- GET /health: component and model health
- GET /stats: rate limiting statistics

API endpoints (POST unless noted):
- /v1/api/upload-resume, /v1/api/calculate-ats-score, /v1/api/analyze-keywords
- /v1/api/enhance-resume, /v1/api/enhance-section, /v1/api/enhance-bullet-points
- /v1/api/generate-summary, /v1/api/generate-cover-letter, /v1/api/suggest-improvements
- /v1/api/job-match, /v1/api/generate-resume
- GET /v1/api/templates, GET /v1/api/templates/{name}

Without a Gemini API key the server still starts; model-backed endpoints
answer 503 and /health reports the AI service as unavailable.

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled, server, mutual
- Use --cert-file and --key-file for TLS certificates
- Use --ca-file for mutual TLS client certificate verification`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("tls-mode", "", "TLS mode: disabled, server, mutual (overrides config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
	serveCmd.Flags().String("ca-file", "", "CA certificate file for client cert verification (PEM, overrides config)")
	serveCmd.Flags().Bool("watch-templates", false, "Reload the template catalog when its directory changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	env, err := envFrom(cmd)
	if err != nil {
		return err
	}
	cfg, logger := env.cfg, env.logger
	applyServeFlags(cmd, env)

	if err := cfg.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("invalid TLS configuration: %w", err)
	}

	om, err := observability.NewManager(observability.OptionsFromConfig(cfg, Version), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}

	deps := server.Dependencies{
		Parser:        resume.NewParser(document.NewPDFTextExtractor(logger), logger),
		Generator:     document.NewGenerator(document.NewOfficeConverter(cfg.Documents.Converter, logger), logger),
		Observability: om,
	}

	svc, err := ai.NewService(cmd.Context(), cfg, logger, om.Metrics())
	if err != nil {
		logger.Warn("AI service unavailable, model-backed endpoints will answer 503", "error", err.Error())
	} else {
		defer closeAIService(svc, logger)
		deps.AI = svc
	}

	catalog := templates.NewCatalog(cfg.Documents.TemplatesDir, logger)
	deps.Templates = catalog
	if cfg.Documents.WatchTemplates {
		watcher := templates.NewWatcher(catalog, 0, nil, logger)
		if err := watcher.Start(); err != nil {
			logger.Warn("Template watcher not started", "dir", catalog.Dir(), "error", err.Error())
		} else {
			defer func() {
				if err := watcher.Stop(); err != nil {
					logger.Warn("Failed to stop template watcher", "error", err.Error())
				}
			}()
		}
	}

	srv, err := server.NewServer(cfg, Version, deps, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Run(cmd.Context())
}

// applyServeFlags copies explicitly set flags over the loaded configuration.
// Configuration is loaded before cobra parses flags, so they cannot be bound.
func applyServeFlags(cmd *cobra.Command, env commandEnv) {
	flags := cmd.Flags()
	overrides := map[string]*string{
		"port":      &env.cfg.Server.Port,
		"host":      &env.cfg.Server.Host,
		"tls-mode":  &env.cfg.Server.TLS.Mode,
		"cert-file": &env.cfg.Server.TLS.CertFile,
		"key-file":  &env.cfg.Server.TLS.KeyFile,
		"ca-file":   &env.cfg.Server.TLS.CAFile,
	}
	for name, target := range overrides {
		if flags.Changed(name) {
			value, _ := flags.GetString(name)
			*target = value
			env.logger.Debug("Configuration overridden by flag", "flag", name)
		}
	}
	if flags.Changed("watch-templates") {
		env.cfg.Documents.WatchTemplates, _ = flags.GetBool("watch-templates")
	}
}
