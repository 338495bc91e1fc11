package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumeforge/internal/ai"
	"resumeforge/internal/common"
	"resumeforge/internal/config"
	appErrors "resumeforge/internal/errors"
	"resumeforge/internal/resume"
	"resumeforge/internal/types"

	"github.com/spf13/cobra"
)

// commandEnv is what every command reads from the root context.
type commandEnv struct {
	cfg    *config.Config
	logger *appErrors.Logger
}

func envFrom(cmd *cobra.Command) (commandEnv, error) {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return commandEnv{}, err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return commandEnv{}, err
	}
	return commandEnv{cfg: cfg, logger: logger}, nil
}

// addOutputFlags registers --output and --format, with completion for the
// configured formats.
func addOutputFlags(cmd *cobra.Command, cmdConfig *common.CommandConfig) {
	cmd.Flags().StringVarP(&cmdConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&cmdConfig.OutputFormat, "format", "", "Output format: json or text")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return []string{}, cobra.ShellCompDirectiveError
		}
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

// resolveOutputFormat is shared by the PreRunE hooks: it applies the
// configured default format and validates the result.
func resolveOutputFormat(cmdConfig *common.CommandConfig) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if cmdConfig.OutputFormat == "" {
			cmdConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(cmdConfig.OutputFormat, cfg.App.SupportedFormats)
	}
}

// newAIService builds the model-backed service with a usage recorder attached.
func newAIService(cmd *cobra.Command, env commandEnv) (*ai.Service, *common.UsageRecorder, error) {
	usage := common.NewUsageRecorder()
	svc, err := ai.NewService(cmd.Context(), env.cfg, env.logger, usage)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create AI service: %w", err)
	}
	return svc, usage, nil
}

func closeAIService(svc *ai.Service, logger *appErrors.Logger) {
	if err := svc.Close(); err != nil {
		logger.Warn("Failed to close AI service", "error", err.Error())
	}
}

// decodeResumeData parses a JSON resume record file.
func decodeResumeData(content, filename string) (types.ResumeData, error) {
	var data types.ResumeData
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return nil, appErrors.NewValidationError(appErrors.ErrCodeInvalidFormat,
			fmt.Sprintf("%s is not a JSON resume object", filename), err)
	}
	if len(data) == 0 {
		return nil, appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest,
			fmt.Sprintf("%s contains no resume data", filename), nil)
	}
	return data, nil
}

// checkRecord returns the typed view of data. Mistyped fields are logged at
// debug level and contact details that do not validate as a warning.
func checkRecord(logger *appErrors.Logger, data types.ResumeData) (types.ResumeRecord, []string) {
	record, err := data.Decode()
	if err != nil {
		logger.Debug("Resume record has oddly typed fields", "error", err.Error())
	}
	issues := resume.ContactIssues(record.PersonalInfo)
	if len(issues) > 0 {
		logger.Warn("Resume record has malformed contact details", "issues", strings.Join(issues, "; "))
	}
	return record, issues
}

// optionalSecond returns contents[1] when a second file was given.
func optionalSecond(contents []string) string {
	if len(contents) > 1 {
		return contents[1]
	}
	return ""
}
