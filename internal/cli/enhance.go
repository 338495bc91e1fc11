package cli

import (
	"context"
	"fmt"

	"resumeforge/internal/common"
	"resumeforge/internal/types"

	"github.com/spf13/cobra"
)

var enhanceCmd = &cobra.Command{
	Use:   "enhance [resume-data.json] [job-description-file]",
	Short: "Rewrite a resume record and compare scores",
	Long: `Score a structured resume record, ask the language model to rewrite its
summary, experience and skills (tailored to the job description when one is
given), score the result and report both scores with a comparison.

Fields of the record that the model does not return are kept unchanged.`,
	Args:    cobra.RangeArgs(1, 2),
	PreRunE: resolveOutputFormat(&enhanceConfig),
	RunE:    runEnhance,
}

var enhanceConfig common.CommandConfig

func init() {
	addOutputFlags(enhanceCmd, &enhanceConfig)
}

type enhanceInput struct {
	Data           types.ResumeData
	JobDescription string
}

func runEnhance(cmd *cobra.Command, args []string) error {
	env, err := envFrom(cmd)
	if err != nil {
		return err
	}

	svc, usage, err := newAIService(cmd, env)
	if err != nil {
		return err
	}
	defer closeAIService(svc, env.logger)

	createInput := func(contents []string) (enhanceInput, error) {
		data, err := decodeResumeData(contents[0], args[0])
		if err != nil {
			return enhanceInput{}, err
		}
		checkRecord(env.logger, data)
		return enhanceInput{Data: data, JobDescription: optionalSecond(contents)}, nil
	}

	logDetails := func(input enhanceInput, cfg common.CommandConfig) {
		env.logger.Info("Starting resume enhancement",
			"fields", len(input.Data),
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	enhanceOperation := func(ctx context.Context, input enhanceInput) (types.EnhancementResult, error) {
		return svc.EnhanceAndScore(ctx, input.Data, input.JobDescription), nil
	}

	if err := common.RunFileCommand(cmd.Context(), env.logger, usage, enhanceConfig, args, createInput, enhanceOperation, logDetails); err != nil {
		return fmt.Errorf("failed to enhance resume: %w", err)
	}
	env.logger.Info("Resume enhancement completed successfully")
	return nil
}
