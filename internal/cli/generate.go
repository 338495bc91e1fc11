package cli

import (
	"fmt"

	"resumeforge/internal/common"
	"resumeforge/internal/document"
	"resumeforge/internal/resume"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [resume-data.json]",
	Short: "Render a resume record as a Word or PDF document",
	Long: `Render a structured resume record as a Word document, or as a PDF when
--format pdf is given and the office converter is enabled. If PDF conversion
is unavailable the Word document is written instead, under a .docx name
unless --output is given.

The output defaults to resume_<template>.<format> in the current directory.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return common.ValidateDocumentFormat(generateFormat)
	},
	RunE: runGenerate,
}

var (
	generateFormat   string
	generateTemplate string
	generateOutput   string
)

func init() {
	generateCmd.Flags().StringVar(&generateFormat, "format", document.FormatDocx, "Document format: docx or pdf")
	generateCmd.Flags().StringVar(&generateTemplate, "template", "", "Template name used for the file name (default from config)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Output file path")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	env, err := envFrom(cmd)
	if err != nil {
		return err
	}

	content, err := common.NewFileProcessor(env.logger).ValidateAndReadFiles(args[0])
	if err != nil {
		return err
	}
	data, err := decodeResumeData(content[0], args[0])
	if err != nil {
		return err
	}
	checkRecord(env.logger, data)

	var converter document.Converter
	if env.cfg.Documents.Converter.Enabled {
		converter = document.NewOfficeConverter(env.cfg.Documents.Converter, env.logger)
	}
	generator := document.NewGenerator(converter, env.logger)

	doc, err := generator.Generate(cmd.Context(), data, generateFormat)
	if err != nil {
		return fmt.Errorf("failed to generate document: %w", err)
	}
	if doc.Degraded {
		env.logger.Warn("PDF conversion unavailable, the file contains a Word document")
	}

	template := generateTemplate
	if template == "" {
		template = env.cfg.Documents.DefaultTemplate
	}
	if template == "" {
		template = "template1"
	}

	output := generateOutput
	if output == "" {
		output = fmt.Sprintf("resume_%s.%s", resume.SanitizeFilename(template), doc.Extension)
	}

	return common.NewOutputHandler(env.logger).WriteDocument(output, doc.Data)
}
