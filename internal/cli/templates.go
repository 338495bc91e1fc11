package cli

import (
	"fmt"

	"resumeforge/internal/common"
	appErrors "resumeforge/internal/errors"
	"resumeforge/internal/templates"
	"resumeforge/internal/types"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage LaTeX resume templates",
}

var templatesListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List available templates",
	Args:    cobra.NoArgs,
	PreRunE: resolveOutputFormat(&templatesConfig),
	RunE:    runTemplatesList,
}

var templatesShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print a template, optionally filled from a resume record",
	Long: `Print the LaTeX source of a template. With --data, the NAME, EMAIL, PHONE,
LOCATION and WEBSITE placeholders are filled from the record's personal_info.
Unknown names fall back to the built-in default template.`,
	Args: cobra.ExactArgs(1),
	RunE: runTemplatesShow,
}

var templatesAddCmd = &cobra.Command{
	Use:   "add [name] [template-file]",
	Short: "Add a template to the templates directory",
	Args:  cobra.ExactArgs(2),
	RunE:  runTemplatesAdd,
}

var (
	templatesConfig  common.CommandConfig
	templatesData    string
	templatesShowOut string
)

func init() {
	addOutputFlags(templatesListCmd, &templatesConfig)
	templatesShowCmd.Flags().StringVar(&templatesData, "data", "", "Resume record (JSON) used to fill placeholders")
	templatesShowCmd.Flags().StringVarP(&templatesShowOut, "output", "o", "", "Output file path (default: stdout)")

	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesShowCmd)
	templatesCmd.AddCommand(templatesAddCmd)
}

func catalogFrom(env commandEnv) *templates.Catalog {
	return templates.NewCatalog(env.cfg.Documents.TemplatesDir, env.logger)
}

type templateListing struct {
	Templates []string                      `json:"templates"`
	Details   map[string]types.TemplateInfo `json:"details"`
}

func runTemplatesList(cmd *cobra.Command, args []string) error {
	env, err := envFrom(cmd)
	if err != nil {
		return err
	}

	catalog := catalogFrom(env)
	listing := templateListing{Templates: catalog.List(), Details: catalog.Details()}
	return common.NewOutputHandler(env.logger).HandleOutput(listing, templatesConfig)
}

func runTemplatesShow(cmd *cobra.Command, args []string) error {
	env, err := envFrom(cmd)
	if err != nil {
		return err
	}

	content, found := catalogFrom(env).Get(args[0])
	if !found {
		env.logger.Warn("Template not found, showing the default template", "template", args[0])
	}

	if templatesData != "" {
		raw, err := common.NewFileProcessor(env.logger).ValidateAndReadFiles(templatesData)
		if err != nil {
			return err
		}
		data, err := decodeResumeData(raw[0], templatesData)
		if err != nil {
			return err
		}
		record, _ := checkRecord(env.logger, data)
		content = templates.Populate(content, record)
	}

	fp := common.NewFileProcessor(env.logger)
	if templatesShowOut == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), content)
		return err
	}
	if err := fp.ValidateOutputFile(templatesShowOut); err != nil {
		return err
	}
	return fp.WriteFile(templatesShowOut, content)
}

func runTemplatesAdd(cmd *cobra.Command, args []string) error {
	env, err := envFrom(cmd)
	if err != nil {
		return err
	}

	contents, err := common.NewFileProcessor(env.logger).ValidateAndReadFiles(args[1])
	if err != nil {
		return err
	}
	if contents[0] == "" {
		return appErrors.NewValidationError(appErrors.ErrCodeInvalidRequest, "Template file is empty", nil)
	}

	return catalogFrom(env).Save(args[0], contents[0])
}
