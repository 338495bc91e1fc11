// Package document reads uploaded resumes and renders generated ones.
package document

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	appErrors "resumeforge/internal/errors"
)

// PDFTextExtractor pulls the text layer out of PDF uploads.
type PDFTextExtractor struct {
	logger *appErrors.Logger
}

// NewPDFTextExtractor creates an extractor.
func NewPDFTextExtractor(logger *appErrors.Logger) *PDFTextExtractor {
	if logger == nil {
		logger = appErrors.NewNopLogger()
	}
	return &PDFTextExtractor{logger: logger}
}

// ExtractText returns the text of every page, one line per text row and pages
// joined by newlines. Pages without content are skipped.
func (e *PDFTextExtractor) ExtractText(ctx context.Context, data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", appErrors.NewValidationError(appErrors.ErrCodeInvalidFormat, "Empty PDF upload", nil)
	}

	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = appErrors.NewIOError(appErrors.ErrCodePDFExtractionFailed,
				"Failed to extract text from PDF", fmt.Errorf("pdf reader: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", appErrors.NewIOError(appErrors.ErrCodePDFExtractionFailed, "Failed to open PDF", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := pageText(page)
		if err != nil {
			return "", appErrors.NewIOError(appErrors.ErrCodePDFExtractionFailed,
				fmt.Sprintf("Failed to extract text from page %d", i), err)
		}
		pages = append(pages, content)
	}

	text = strings.Join(pages, "\n")
	e.logger.Debug("PDF text extracted", "pages", reader.NumPage(), "characters", len(text))
	return text, nil
}

// glyphGapRatio is the share of the font size a horizontal gap between two
// glyphs must exceed to count as a word break.
const glyphGapRatio = 0.2

// pageText rebuilds the lines of a page from positioned glyphs. Text objects
// that move between lines with Td or Tm come out one line per row. Pages whose
// glyphs carry no positions fall back to the content stream order.
func pageText(page pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf content: %v", r)
		}
	}()

	rows := make(map[int][]pdf.Text)
	for _, glyph := range page.Content().Text {
		if strings.TrimFunc(glyph.S, unicode.IsControl) == "" {
			continue
		}
		y := int(math.Round(glyph.Y))
		rows[y] = append(rows[y], glyph)
	}
	if len(rows) == 0 {
		return page.GetPlainText(nil)
	}

	positions := make([]int, 0, len(rows))
	for y := range rows {
		positions = append(positions, y)
	}
	// PDF y grows upwards.
	slices.Sort(positions)
	slices.Reverse(positions)

	lines := make([]string, 0, len(positions))
	for _, y := range positions {
		if line := rowText(rows[y]); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// rowText joins the glyphs of one row in x order, inserting a space where the
// gap between two glyphs is wider than glyphGapRatio of the font size.
func rowText(glyphs []pdf.Text) string {
	slices.SortStableFunc(glyphs, func(a, b pdf.Text) int {
		switch {
		case a.X < b.X:
			return -1
		case a.X > b.X:
			return 1
		}
		return 0
	})

	var line strings.Builder
	for i, glyph := range glyphs {
		if i > 0 {
			prev := glyphs[i-1]
			gap := glyph.X - (prev.X + prev.W)
			if gap > prev.FontSize*glyphGapRatio && !strings.HasSuffix(line.String(), " ") && glyph.S != " " {
				line.WriteByte(' ')
			}
		}
		line.WriteString(glyph.S)
	}
	return strings.TrimSpace(line.String())
}
