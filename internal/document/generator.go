package document

import (
	"context"
	"errors"
	"fmt"

	appErrors "resumeforge/internal/errors"
	"resumeforge/internal/types"
)

// Output formats accepted by Generate.
const (
	FormatDocx = "docx"
	FormatPDF  = "pdf"

	PDFContentType = "application/pdf"
)

// Document is a generated file ready to be sent or saved.
type Document struct {
	Data        []byte
	ContentType string
	// Extension matches Data: a PDF request that fell back to Word
	// content gets "docx".
	Extension string
	Degraded  bool
}

// Generator renders records into the requested output format.
type Generator struct {
	converter Converter
	logger    *appErrors.Logger
}

// NewGenerator creates a generator. A nil converter disables PDF output.
func NewGenerator(converter Converter, logger *appErrors.Logger) *Generator {
	if logger == nil {
		logger = appErrors.NewNopLogger()
	}
	return &Generator{converter: converter, logger: logger}
}

// Generate renders data as docx or pdf. When PDF conversion is unavailable
// the Word document is returned instead with Degraded set.
func (g *Generator) Generate(ctx context.Context, data types.ResumeData, format string) (*Document, error) {
	if format != FormatDocx && format != FormatPDF {
		return nil, appErrors.NewValidationError(appErrors.ErrCodeInvalidFormat,
			fmt.Sprintf("Unsupported format: %s (use docx or pdf)", format), nil)
	}

	record, err := data.Decode()
	if err != nil {
		g.logger.Debug("Rendering resume with oddly typed fields left empty", "error", err.Error())
	}
	docx, err := RenderDocx(record)
	if err != nil {
		return nil, err
	}
	if format == FormatDocx {
		return &Document{Data: docx, ContentType: DocxContentType, Extension: FormatDocx}, nil
	}

	if g.converter != nil {
		pdf, err := g.converter.ConvertToPDF(ctx, docx)
		if err == nil {
			return &Document{Data: pdf, ContentType: PDFContentType, Extension: FormatPDF}, nil
		}
		if !errors.Is(err, ErrConversionUnavailable) {
			return nil, err
		}
		g.logger.Warn("PDF conversion unavailable, returning Word document", "error", err.Error())
	}

	return &Document{Data: docx, ContentType: DocxContentType, Extension: FormatDocx, Degraded: true}, nil
}
