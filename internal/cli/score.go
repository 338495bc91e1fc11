package cli

import (
	"context"
	"fmt"

	"resumeforge/internal/common"
	"resumeforge/internal/types"

	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [resume-file] [job-description-file]",
	Short: "Score a resume for applicant tracking systems",
	Long: `Ask the language model for an ATS compatibility analysis of a plain text
resume. The report carries a 0-100 score plus strengths, weaknesses and
suggestions. When a job description is given the resume is scored against it.

If the model is unreachable or answers with something that is not JSON, a
generic fallback analysis with a score of 65 is reported instead.`,
	Args:    cobra.RangeArgs(1, 2),
	PreRunE: resolveOutputFormat(&scoreConfig),
	RunE:    runScore,
}

var scoreConfig common.CommandConfig

func init() {
	addOutputFlags(scoreCmd, &scoreConfig)
}

type scoreInput struct {
	ResumeText     string
	JobDescription string
}

func runScore(cmd *cobra.Command, args []string) error {
	env, err := envFrom(cmd)
	if err != nil {
		return err
	}

	svc, usage, err := newAIService(cmd, env)
	if err != nil {
		return err
	}
	defer closeAIService(svc, env.logger)

	createInput := func(contents []string) (scoreInput, error) {
		return scoreInput{ResumeText: contents[0], JobDescription: optionalSecond(contents)}, nil
	}

	logDetails := func(input scoreInput, cfg common.CommandConfig) {
		env.logger.Info("Starting ATS scoring",
			"resume_chars", len(input.ResumeText),
			"job_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	scoreOperation := func(ctx context.Context, input scoreInput) (types.ATSScoreResult, error) {
		return svc.CalculateScore(ctx, input.ResumeText, input.JobDescription), nil
	}

	if err := common.RunFileCommand(cmd.Context(), env.logger, usage, scoreConfig, args, createInput, scoreOperation, logDetails); err != nil {
		return fmt.Errorf("failed to score resume: %w", err)
	}
	env.logger.Info("ATS scoring completed successfully")
	return nil
}
