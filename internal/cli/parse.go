package cli

import (
	"fmt"

	"resumeforge/internal/common"
	"resumeforge/internal/document"
	appErrors "resumeforge/internal/errors"
	"resumeforge/internal/resume"
	"resumeforge/internal/types"
	"resumeforge/internal/utils"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [resume-file]",
	Short: "Extract contact details and sections from a resume",
	Long: `Parse a resume and report its email, phone number, word and page counts
and the text of each recognised section (summary, experience, education,
skills, projects, certifications).

PDF and Word (.docx) documents are read directly; any other file is treated
as plain text.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: resolveOutputFormat(&parseConfig),
	RunE:    runParse,
}

var parseConfig common.CommandConfig

func init() {
	addOutputFlags(parseCmd, &parseConfig)
}

func runParse(cmd *cobra.Command, args []string) error {
	env, err := envFrom(cmd)
	if err != nil {
		return err
	}

	filename := args[0]
	if err := utils.ValidateInputFile(filename); err != nil {
		return appErrors.NewValidationError("INVALID_INPUT_FILE",
			fmt.Sprintf("Invalid file %s", filename), err)
	}
	if maxSize := env.cfg.App.MaxFileSize; maxSize > 0 {
		if size := utils.FileSize(filename); size > maxSize {
			return appErrors.NewValidationError(appErrors.ErrCodeFileTooLarge,
				fmt.Sprintf("%s is %s, the limit is %s", filename, utils.FormatFileSize(size), utils.FormatFileSize(maxSize)), nil)
		}
	}

	data, err := common.NewFileProcessor(env.logger).ReadBytes(filename)
	if err != nil {
		return err
	}

	env.logger.Info("Parsing resume",
		"file", filename,
		"size", utils.FormatFileSize(int64(len(data))),
		"output_format", parseConfig.OutputFormat)

	parsed, err := parseResumeFile(cmd, env, filename, data)
	if err != nil {
		return fmt.Errorf("failed to parse resume: %w", err)
	}

	return common.NewOutputHandler(env.logger).HandleOutput(parsed, parseConfig)
}

func parseResumeFile(cmd *cobra.Command, env commandEnv, filename string, data []byte) (*types.ParsedResume, error) {
	switch utils.GetFileExtension(filename) {
	case ".pdf":
		parser := resume.NewParser(document.NewPDFTextExtractor(env.logger), env.logger)
		return parser.ParseResume(cmd.Context(), data)
	case ".docx":
		text, err := document.ExtractDocxText(data)
		if err != nil {
			return nil, err
		}
		return resume.ParseText(text), nil
	default:
		return resume.ParseText(string(data)), nil
	}
}
