package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"resumeforge/internal/config"
	appErrors "resumeforge/internal/errors"
)

// ErrConversionUnavailable means PDF output cannot be produced on this host.
var ErrConversionUnavailable = errors.New("pdf conversion unavailable")

// Converter turns a Word document into a PDF.
type Converter interface {
	ConvertToPDF(ctx context.Context, docx []byte) ([]byte, error)
}

// OfficeConverter shells out to a headless office suite.
type OfficeConverter struct {
	command string
	timeout time.Duration
	tempDir string
	logger  *appErrors.Logger
}

// NewOfficeConverter creates a converter from configuration. A disabled
// converter reports ErrConversionUnavailable for every call.
func NewOfficeConverter(cfg config.ConverterConfig, logger *appErrors.Logger) *OfficeConverter {
	if logger == nil {
		logger = appErrors.NewNopLogger()
	}
	command := cfg.Command
	if !cfg.Enabled {
		command = ""
	}
	return &OfficeConverter{
		command: command,
		timeout: cfg.Timeout,
		tempDir: os.TempDir(),
		logger:  logger,
	}
}

// ConvertToPDF writes docx to a scratch directory, runs
// "<command> --headless --convert-to pdf --outdir <dir> <file>" and reads the result.
func (c *OfficeConverter) ConvertToPDF(ctx context.Context, docx []byte) ([]byte, error) {
	if c.command == "" {
		return nil, ErrConversionUnavailable
	}
	binary, err := exec.LookPath(c.command)
	if err != nil {
		c.logger.Warn("PDF converter not found", "command", c.command, "error", err.Error())
		return nil, fmt.Errorf("%w: %v", ErrConversionUnavailable, err)
	}

	workDir, err := os.MkdirTemp(c.tempDir, "resumeforge-")
	if err != nil {
		return nil, appErrors.NewIOError("TEMP_DIR_FAILED", "Cannot create conversion directory", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			c.logger.Warn("Failed to remove conversion directory", "dir", workDir, "error", err.Error())
		}
	}()

	base := uuid.NewString()
	input := filepath.Join(workDir, base+".docx")
	if err := os.WriteFile(input, docx, 0600); err != nil {
		return nil, appErrors.NewIOError("FILE_WRITE_FAILED", "Cannot write conversion input", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, "--headless", "--convert-to", "pdf", "--outdir", workDir, input)
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		c.logger.Warn("PDF conversion failed",
			"command", c.command,
			"duration_ms", time.Since(start).Milliseconds(),
			"stderr", stderr.String(),
			"error", err.Error())
		return nil, fmt.Errorf("%w: %v", ErrConversionUnavailable, err)
	}

	out, err := os.ReadFile(filepath.Join(workDir, base+".pdf"))
	if err != nil {
		return nil, fmt.Errorf("%w: converter produced no output: %v", ErrConversionUnavailable, err)
	}

	c.logger.Debug("PDF conversion finished", "duration_ms", time.Since(start).Milliseconds(), "bytes", len(out))
	return out, nil
}
