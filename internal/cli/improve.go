package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"resumeforge/internal/common"
	appErrors "resumeforge/internal/errors"
	"resumeforge/internal/resume"
	"resumeforge/internal/types"
	"resumeforge/internal/utils"

	"github.com/spf13/cobra"
)

var bulletsCmd = &cobra.Command{
	Use:   "bullets [bullets-file]",
	Short: "Rewrite resume bullet points",
	Long: `Ask the language model to rewrite bullet points with stronger action verbs
and measurable results. The file holds one bullet per line (leading "-", "*"
or "•" markers are stripped) or, for .json files, an array of strings.

The rewritten points are also printed as one bulleted block. When the model is
unreachable the bullets are returned unchanged.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: resolveOutputFormat(&bulletsConfig),
	RunE:    runBullets,
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [resume-file]",
	Short: "Suggest improvements for a resume",
	Long: `Ask the language model for a ranked list of specific improvements to a
plain text resume.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: resolveOutputFormat(&suggestConfig),
	RunE:    runSuggest,
}

var (
	bulletsConfig common.CommandConfig
	suggestConfig common.CommandConfig
)

func init() {
	addOutputFlags(bulletsCmd, &bulletsConfig)
	addOutputFlags(suggestCmd, &suggestConfig)
}

// readBullets splits a bullet file into trimmed points.
func readBullets(content, filename string) ([]string, error) {
	var bullets []string
	if utils.GetFileExtension(filename) == ".json" {
		if err := json.Unmarshal([]byte(content), &bullets); err != nil {
			return nil, appErrors.NewValidationError(appErrors.ErrCodeInvalidFormat,
				fmt.Sprintf("%s is not a JSON array of strings", filename), err)
		}
	} else {
		for line := range strings.SplitSeq(content, "\n") {
			line = strings.TrimSpace(line)
			line = strings.TrimSpace(strings.TrimLeft(line, "-*•"))
			if line != "" {
				bullets = append(bullets, line)
			}
		}
	}

	if len(bullets) == 0 {
		return nil, appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest,
			"bullet_points must be a non-empty list", nil)
	}
	return bullets, nil
}

// textPoints keeps the rewritten points that are plain strings.
func textPoints(points []any) []string {
	var out []string
	for _, point := range points {
		if s, ok := point.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func runBullets(cmd *cobra.Command, args []string) error {
	env, err := envFrom(cmd)
	if err != nil {
		return err
	}

	svc, usage, err := newAIService(cmd, env)
	if err != nil {
		return err
	}
	defer closeAIService(svc, env.logger)

	createInput := func(contents []string) ([]string, error) {
		return readBullets(contents[0], args[0])
	}

	logDetails := func(bullets []string, cfg common.CommandConfig) {
		env.logger.Info("Enhancing bullet points", "count", len(bullets))
	}

	bulletsOperation := func(ctx context.Context, bullets []string) (types.BulletPointsResult, error) {
		points := svc.EnhanceBulletPoints(ctx, bullets)
		return types.BulletPointsResult{EnhancedPoints: points, Merged: resume.MergeBullets(textPoints(points))}, nil
	}

	if err := common.RunFileCommand(cmd.Context(), env.logger, usage, bulletsConfig, args, createInput, bulletsOperation, logDetails); err != nil {
		return fmt.Errorf("failed to enhance bullet points: %w", err)
	}
	return nil
}

func runSuggest(cmd *cobra.Command, args []string) error {
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
			return "", appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest, "Resume text cannot be empty", nil)
		}
		return contents[0], nil
	}

	logDetails := func(text string, cfg common.CommandConfig) {
		env.logger.Info("Generating improvement suggestions", "resume_chars", len(text))
	}

	suggestOperation := func(ctx context.Context, text string) ([]any, error) {
		return svc.SuggestImprovements(ctx, text), nil
	}

	if err := common.RunFileCommand(cmd.Context(), env.logger, usage, suggestConfig, args, createInput, suggestOperation, logDetails); err != nil {
		return fmt.Errorf("failed to suggest improvements: %w", err)
	}
	return nil
}
