package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"resumeforge/internal/common"
	"resumeforge/internal/config"
	appErrors "resumeforge/internal/errors"
	"resumeforge/internal/scoring"
	"resumeforge/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRecord = `{
  "personal_info": {"name": "Jane Doe", "email": "jane@example.com", "phone": "555-123-4567"},
  "summary": "Backend engineer",
  "skills": ["Python", "Docker"],
  "experience": [{"position": "Engineer", "company": "Acme", "responsibilities": ["Built APIs"]}]
}`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App: config.AppConfig{
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text"},
		},
		Documents: config.DocumentsConfig{
			TemplatesDir:    t.TempDir(),
			DefaultTemplate: "template1",
		},
	}
}

// resetCommandState clears flag-backed package state left by earlier runs.
func resetCommandState() {
	for _, c := range []*common.CommandConfig{
		&parseConfig, &scoreConfig, &keywordsConfig, &matchConfig, &enhanceConfig,
		&sectionConfig, &summaryConfig, &coverLetterConfig, &bulletsConfig,
		&suggestConfig, &compareConfig, &templatesConfig,
	} {
		*c = common.CommandConfig{}
	}
	keywordsUseAI = false
	generateFormat = "docx"
	generateTemplate = ""
	generateOutput = ""
	templatesData = ""
	templatesShowOut = ""
}

func runCLI(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	resetCommandState()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := Execute(context.Background(), cfg, appErrors.NewNopLogger())
	return out.String(), err
}

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, v))
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, testConfig(t), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "resumeforge version dev")
	assert.Contains(t, out, "Git commit: unknown")
}

func TestCompareCommand(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "compare.json")

	_, err := runCLI(t, testConfig(t), "compare", "40", "80", "-o", outPath)
	require.NoError(t, err)

	var result scoring.Comparison
	readJSON(t, outPath, &result)
	assert.Equal(t, 40.0, result.Difference)
	assert.Equal(t, 100.0, result.PercentageImprovement)
	require.Len(t, result.Messages, 2)
	assert.Contains(t, result.Messages[0], "Excellent improvement")

	_, err = runCLI(t, testConfig(t), "compare", "forty", "80")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeInvalidRequest))
}

func TestOutputFormatValidation(t *testing.T) {
	_, err := runCLI(t, testConfig(t), "compare", "40", "80", "--format", "markdown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format 'markdown'")
}

func TestTextOutput(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "compare.txt")

	_, err := runCLI(t, testConfig(t), "compare", "50", "52", "--format", "text", "-o", outPath)
	require.NoError(t, err)

	raw, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Score adjusted by 2.0 points")
}

func TestKeywordsCommand(t *testing.T) {
	dir := t.TempDir()
	resumePath := writeTemp(t, dir, "resume.txt", "Python developer using Docker")
	jobPath := writeTemp(t, dir, "job.txt", "Python, Docker, AWS")
	outPath := filepath.Join(dir, "keywords.json")

	_, err := runCLI(t, testConfig(t), "keywords", resumePath, jobPath, "-o", outPath)
	require.NoError(t, err)

	var report types.KeywordReport
	readJSON(t, outPath, &report)
	assert.Contains(t, report.ResumeKeywords["tools"], "docker")
	assert.Contains(t, report.MissingByCategory["tools"], "aws")
	assert.NotContains(t, report.MissingByCategory["tools"], "docker")
	assert.Equal(t, 1, report.TextAnalysis.KeywordCounts["python"])
	assert.Equal(t, 25.0, report.TextAnalysis.KeywordDensity["docker"])
	assert.Equal(t, 4, report.TextAnalysis.Stats.WordCount)

	_, err = runCLI(t, testConfig(t), "keywords", resumePath, "--ai")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeInvalidRequest))
}

func TestMatchCommand(t *testing.T) {
	dir := t.TempDir()
	dataPath := writeTemp(t, dir, "resume.json", sampleRecord)
	jobPath := writeTemp(t, dir, "job.txt", "Python Docker AWS")
	outPath := filepath.Join(dir, "match.json")

	_, err := runCLI(t, testConfig(t), "match", dataPath, jobPath, "-o", outPath)
	require.NoError(t, err)

	var report types.JobMatchReport
	readJSON(t, outPath, &report)
	assert.Greater(t, report.MatchScore, 0.0)
	assert.Contains(t, report.MissingByCategory["tools"], "aws")
}

func TestMatchCommandRejectsInvalidRecord(t *testing.T) {
	dir := t.TempDir()
	dataPath := writeTemp(t, dir, "resume.json", `["not", "an", "object"]`)
	jobPath := writeTemp(t, dir, "job.txt", "Python")

	_, err := runCLI(t, testConfig(t), "match", dataPath, jobPath)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeInvalidFormat))
}

func TestParseTextResume(t *testing.T) {
	dir := t.TempDir()
	resumePath := writeTemp(t, dir, "resume.txt", "Jane Doe\njane@example.com\n\nSkills\nGo, SQL\n")
	outPath := filepath.Join(dir, "parsed.json")

	_, err := runCLI(t, testConfig(t), "parse", resumePath, "-o", outPath)
	require.NoError(t, err)

	var parsed types.ParsedResume
	readJSON(t, outPath, &parsed)
	assert.Equal(t, "jane@example.com", parsed.Email)
	assert.Equal(t, 2, parsed.PageCount)
	assert.Equal(t, types.TextStats{WordCount: 6, LineCount: 4, CharCount: 42, SentenceCount: 0}, parsed.Stats)
}

func TestParseRejectsLargeFiles(t *testing.T) {
	cfg := testConfig(t)
	cfg.App.MaxFileSize = 4
	resumePath := writeTemp(t, t.TempDir(), "resume.txt", "far more than four bytes")

	_, err := runCLI(t, cfg, "parse", resumePath)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeFileTooLarge))
}

func TestGenerateAndParseDocx(t *testing.T) {
	dir := t.TempDir()
	dataPath := writeTemp(t, dir, "resume.json", sampleRecord)
	docxPath := filepath.Join(dir, "out", "resume.docx")

	_, err := runCLI(t, testConfig(t), "generate", dataPath, "-o", docxPath)
	require.NoError(t, err)

	outPath := filepath.Join(dir, "parsed.json")
	_, err = runCLI(t, testConfig(t), "parse", docxPath, "-o", outPath)
	require.NoError(t, err)

	var parsed types.ParsedResume
	readJSON(t, outPath, &parsed)
	assert.Contains(t, parsed.RawText, "Jane Doe")
	assert.Equal(t, "jane@example.com", parsed.Email)
}

func TestGeneratePDFFallsBackToDocx(t *testing.T) {
	dir := t.TempDir()
	dataPath := writeTemp(t, dir, "resume.json", sampleRecord)
	t.Chdir(dir)

	_, err := runCLI(t, testConfig(t), "generate", dataPath, "--format", "pdf", "--template", "modern")
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "resume_modern.docx"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("PK")), "expected Word content in the fallback file")

	_, err = runCLI(t, testConfig(t), "generate", dataPath, "--format", "odt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported document format")
}

func TestTemplatesCommands(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	templatePath := writeTemp(t, dir, "custom.tex", `\name{NAME} \email{EMAIL}`)
	dataPath := writeTemp(t, dir, "resume.json", sampleRecord)

	_, err := runCLI(t, cfg, "templates", "add", "custom", templatePath)
	require.NoError(t, err)

	listPath := filepath.Join(dir, "list.json")
	_, err = runCLI(t, cfg, "templates", "list", "-o", listPath)
	require.NoError(t, err)

	var listing templateListing
	readJSON(t, listPath, &listing)
	assert.Contains(t, listing.Templates, "custom")

	out, err := runCLI(t, cfg, "templates", "show", "custom", "--data", dataPath)
	require.NoError(t, err)
	assert.Equal(t, `\name{Jane Doe} \email{jane@example.com}`, out)

	_, err = runCLI(t, cfg, "templates", "add", "../escape", templatePath)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeInvalidRequest))
}

func TestAICommandsRequireAPIKey(t *testing.T) {
	dir := t.TempDir()
	resumePath := writeTemp(t, dir, "resume.txt", "Python developer")
	dataPath := writeTemp(t, dir, "resume.json", sampleRecord)

	cfg := testConfig(t)
	cfg.AI.Provider = "gemini"

	tests := []struct {
		name string
		args []string
	}{
		{"score", []string{"score", resumePath}},
		{"enhance", []string{"enhance", dataPath}},
		{"suggest", []string{"suggest", resumePath}},
		{"bullets", []string{"bullets", resumePath}},
		{"summary", []string{"summary", dataPath}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, cfg, tt.args...)
			assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeMissingAPIKey), "got %v", err)
		})
	}
}

func TestReadBullets(t *testing.T) {
	bullets, err := readBullets("- Built APIs\n* Led team\n\n• Cut costs\n", "bullets.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"Built APIs", "Led team", "Cut costs"}, bullets)

	bullets, err = readBullets(`["One", "Two"]`, "bullets.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"One", "Two"}, bullets)

	_, err = readBullets("\n  \n", "bullets.txt")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeInvalidRequest))

	_, err = readBullets(`{"a": 1}`, "bullets.json")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeInvalidFormat))
}

func TestTextPointsKeepsStrings(t *testing.T) {
	points := []any{"Led team", map[string]any{"text": "Cut costs"}, 42.0, "Shipped v2"}

	assert.Equal(t, []string{"Led team", "Shipped v2"}, textPoints(points))
	assert.Nil(t, textPoints(nil))
}
