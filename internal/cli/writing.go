package cli

import (
	"context"
	"fmt"
	"strings"

	"resumeforge/internal/common"
	appErrors "resumeforge/internal/errors"
	"resumeforge/internal/types"

	"github.com/spf13/cobra"
)

var sectionCmd = &cobra.Command{
	Use:   "enhance-section [content-file]",
	Short: "Rewrite a single resume section",
	Long: `Ask the language model to rewrite the text of one resume section. When
the model is unreachable the original text is returned unchanged.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: resolveOutputFormat(&sectionConfig),
	RunE:    runSection,
}

var summaryCmd = &cobra.Command{
	Use:     "summary [resume-data.json]",
	Short:   "Write a professional summary for a resume record",
	Args:    cobra.ExactArgs(1),
	PreRunE: resolveOutputFormat(&summaryConfig),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRecordText(cmd, args, summaryConfig, "summary", func(ctx context.Context, gen recordTextGenerator, data types.ResumeData) string {
			return gen.GenerateSummary(ctx, data)
		})
	},
}

var coverLetterCmd = &cobra.Command{
	Use:     "cover-letter [resume-data.json]",
	Short:   "Write a cover letter opening for a resume record",
	Args:    cobra.ExactArgs(1),
	PreRunE: resolveOutputFormat(&coverLetterConfig),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRecordText(cmd, args, coverLetterConfig, "cover_letter", func(ctx context.Context, gen recordTextGenerator, data types.ResumeData) string {
			return gen.GenerateCoverLetter(ctx, data)
		})
	},
}

var (
	sectionConfig     common.CommandConfig
	summaryConfig     common.CommandConfig
	coverLetterConfig common.CommandConfig

	sectionName    string
	sectionContext string
)

func init() {
	addOutputFlags(sectionCmd, &sectionConfig)
	sectionCmd.Flags().StringVar(&sectionName, "section", "experience", "Name of the section being rewritten")
	sectionCmd.Flags().StringVar(&sectionContext, "context", "", "Extra context for the rewrite, such as the target role")

	addOutputFlags(summaryCmd, &summaryConfig)
	addOutputFlags(coverLetterCmd, &coverLetterConfig)
}

func runSection(cmd *cobra.Command, args []string) error {
	env, err := envFrom(cmd)
	if err != nil {
		return err
	}

	svc, usage, err := newAIService(cmd, env)
	if err != nil {
		return err
	}
	defer closeAIService(svc, env.logger)

	createInput := func(contents []string) (string, error) {
		if strings.TrimSpace(contents[0]) == "" {
			return "", appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest, "Section content cannot be empty", nil)
		}
		return contents[0], nil
	}

	logDetails := func(content string, cfg common.CommandConfig) {
		env.logger.Info("Enhancing section", "section", sectionName, "chars", len(content))
	}

	sectionOperation := func(ctx context.Context, content string) (map[string]string, error) {
		return map[string]string{
			"section_name":     sectionName,
			"enhanced_content": svc.EnhanceSection(ctx, sectionName, content, sectionContext),
		}, nil
	}

	if err := common.RunFileCommand(cmd.Context(), env.logger, usage, sectionConfig, args, createInput, sectionOperation, logDetails); err != nil {
		return fmt.Errorf("failed to enhance section: %w", err)
	}
	return nil
}

type recordTextGenerator interface {
	GenerateSummary(ctx context.Context, data types.ResumeData) string
	GenerateCoverLetter(ctx context.Context, data types.ResumeData) string
}

// runRecordText runs one of the record-to-text generations and reports the
// result under key.
func runRecordText(cmd *cobra.Command, args []string, cmdConfig common.CommandConfig, key string,
	generate func(context.Context, recordTextGenerator, types.ResumeData) string) error {
	env, err := envFrom(cmd)
	if err != nil {
		return err
	}

	svc, usage, err := newAIService(cmd, env)
	if err != nil {
		return err
	}
	defer closeAIService(svc, env.logger)

	createInput := func(contents []string) (types.ResumeData, error) {
		return decodeResumeData(contents[0], args[0])
	}

	logDetails := func(data types.ResumeData, cfg common.CommandConfig) {
		env.logger.Info("Generating text from resume record", "kind", key, "fields", len(data))
	}

	operation := func(ctx context.Context, data types.ResumeData) (map[string]string, error) {
		return map[string]string{key: generate(ctx, svc, data)}, nil
	}

	if err := common.RunFileCommand(cmd.Context(), env.logger, usage, cmdConfig, args, createInput, operation, logDetails); err != nil {
		return fmt.Errorf("failed to generate %s: %w", strings.ReplaceAll(key, "_", " "), err)
	}
	return nil
}
