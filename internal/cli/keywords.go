package cli

import (
	"context"
	"fmt"

	"resumeforge/internal/common"
	appErrors "resumeforge/internal/errors"
	"resumeforge/internal/resume"
	"resumeforge/internal/types"

	"github.com/spf13/cobra"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords [resume-file] [job-description-file]",
	Short: "Report the ATS keywords found in a resume",
	Long: `List the programming languages, frameworks, databases, tools and soft skills
mentioned in a plain text resume. With a job description, the keywords of the
posting and the ones the resume is missing are listed as well.

The report is computed locally. Pass --ai to ask the language model for a
keyword comparison instead; that mode requires a job description.`,
	Args:    cobra.RangeArgs(1, 2),
	PreRunE: resolveOutputFormat(&keywordsConfig),
	RunE:    runKeywords,
}

var matchCmd = &cobra.Command{
	Use:   "match [resume-data.json] [job-description-file]",
	Short: "Compute how well a resume record matches a job description",
	Long: `Compute the local job match score of a structured resume record: the share
of job description words found in the candidate's name, skills and experience.
The categorized keywords of both sides and the missing ones are reported too.`,
	Args:    cobra.ExactArgs(2),
	PreRunE: resolveOutputFormat(&matchConfig),
	RunE:    runMatch,
}

var (
	keywordsConfig common.CommandConfig
	matchConfig    common.CommandConfig
	keywordsUseAI  bool
)

func init() {
	addOutputFlags(keywordsCmd, &keywordsConfig)
	keywordsCmd.Flags().BoolVar(&keywordsUseAI, "ai", false, "Use the language model for the comparison")

	addOutputFlags(matchCmd, &matchConfig)
}

type keywordsInput struct {
	ResumeText     string
	JobDescription string
}

func runKeywords(cmd *cobra.Command, args []string) error {
	env, err := envFrom(cmd)
	if err != nil {
		return err
	}

	createInput := func(contents []string) (keywordsInput, error) {
		return keywordsInput{ResumeText: contents[0], JobDescription: optionalSecond(contents)}, nil
	}

	logDetails := func(input keywordsInput, cfg common.CommandConfig) {
		env.logger.Info("Starting keyword analysis",
			"resume_chars", len(input.ResumeText),
			"job_chars", len(input.JobDescription),
			"ai", keywordsUseAI,
			"output_format", cfg.OutputFormat)
	}

	if !keywordsUseAI {
		localOperation := func(_ context.Context, input keywordsInput) (types.KeywordReport, error) {
			return resume.TextKeywordReport(input.ResumeText, input.JobDescription), nil
		}
		return common.RunFileCommand(cmd.Context(), env.logger, nil, keywordsConfig, args, createInput, localOperation, logDetails)
	}

	if len(args) < 2 {
		return appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest,
			"--ai needs a job description file", nil)
	}

	svc, usage, err := newAIService(cmd, env)
	if err != nil {
		return err
	}
	defer closeAIService(svc, env.logger)

	aiOperation := func(ctx context.Context, input keywordsInput) (types.KeywordAnalysis, error) {
		return svc.AnalyzeKeywords(ctx, input.ResumeText, input.JobDescription), nil
	}

	if err := common.RunFileCommand(cmd.Context(), env.logger, usage, keywordsConfig, args, createInput, aiOperation, logDetails); err != nil {
		return fmt.Errorf("failed to analyze keywords: %w", err)
	}
	return nil
}

type matchInput struct {
	Data           types.ResumeData
	Record         types.ResumeRecord
	JobDescription string
}

func runMatch(cmd *cobra.Command, args []string) error {
	env, err := envFrom(cmd)
	if err != nil {
		return err
	}

	createInput := func(contents []string) (matchInput, error) {
		data, err := decodeResumeData(contents[0], args[0])
		if err != nil {
			return matchInput{}, err
		}
		record, _ := checkRecord(env.logger, data)
		return matchInput{Data: data, Record: record, JobDescription: contents[1]}, nil
	}

	logDetails := func(input matchInput, cfg common.CommandConfig) {
		env.logger.Info("Computing job match",
			"skills", len(input.Record.Skills),
			"experience_entries", len(input.Record.Experience),
			"job_chars", len(input.JobDescription))
	}

	matchOperation := func(_ context.Context, input matchInput) (types.JobMatchReport, error) {
		return resume.MatchReport(input.Data, input.JobDescription), nil
	}

	return common.RunFileCommand(cmd.Context(), env.logger, nil, matchConfig, args, createInput, matchOperation, logDetails)
}
