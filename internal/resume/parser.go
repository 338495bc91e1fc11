package resume

import (
	"context"
	"strings"

	appErrors "resumeforge/internal/errors"
	"resumeforge/internal/types"
)

// TextExtractor pulls plain text out of an uploaded document.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// Parser turns uploaded resume files into ParsedResume values.
type Parser struct {
	extractor TextExtractor
	logger    *appErrors.Logger
}

// NewParser creates a parser backed by extractor.
func NewParser(extractor TextExtractor, logger *appErrors.Logger) *Parser {
	if logger == nil {
		logger = appErrors.NewNopLogger()
	}
	return &Parser{extractor: extractor, logger: logger}
}

// ParseResume extracts the document text and analyses it. Extraction failures are
// returned to the caller since nothing useful can be produced without the text.
func (p *Parser) ParseResume(ctx context.Context, data []byte) (*types.ParsedResume, error) {
	text, err := p.extractor.ExtractText(ctx, data)
	if err != nil {
		if _, ok := appErrors.AsAppError(err); ok {
			return nil, err
		}
		return nil, appErrors.NewIOError(appErrors.ErrCodePDFExtractionFailed, "failed to extract text from document", err)
	}

	parsed := ParseText(text)
	p.logger.Info("Resume parsed",
		"word_count", parsed.WordCount,
		"page_count", parsed.PageCount,
		"has_email", parsed.Email != "",
		"has_phone", parsed.Phone != "")
	return parsed, nil
}

// ParseText analyses already extracted resume text.
func ParseText(text string) *types.ParsedResume {
	return &types.ParsedResume{
		RawText:   text,
		Email:     ExtractEmail(text),
		Phone:     ExtractPhone(text),
		Sections:  SegmentByLines(text),
		WordCount: len(strings.Fields(text)),
		PageCount: len(strings.Split(text, "\n\n")),
		Stats:     Stats(text),
	}
}
