package cli

import (
	"context"
	"fmt"

	"resumeforge/internal/config"
	appErrors "resumeforge/internal/errors"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = &cobra.Command{
	Use:   "resumeforge",
	Short: "Parse, score and enhance resumes",
	Long: `Resumeforge parses resume documents, scores them against applicant
tracking system heuristics, rewrites their content with a language model and
renders the result as Word or PDF documents. The serve command exposes the
same operations over HTTP.`,
	SilenceUsage: true,
}

// Execute runs the root command with cfg and logger attached to ctx.
func Execute(ctx context.Context, cfg *config.Config, logger *appErrors.Logger) error {
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg, nil
	}
	return nil, fmt.Errorf("config not found in context")
}

func getLoggerFromContext(ctx context.Context) (*appErrors.Logger, error) {
	if logger, ok := ctx.Value(loggerKey).(*appErrors.Logger); ok {
		return logger, nil
	}
	return nil, fmt.Errorf("logger not found in context")
}

func init() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(keywordsCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(enhanceCmd)
	rootCmd.AddCommand(sectionCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(coverLetterCmd)
	rootCmd.AddCommand(bulletsCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
