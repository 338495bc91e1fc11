package document

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeforge/internal/config"
	appErrors "resumeforge/internal/errors"
)

type fakeConverter struct {
	out   []byte
	err   error
	calls int
}

func (f *fakeConverter) ConvertToPDF(_ context.Context, _ []byte) ([]byte, error) {
	f.calls++
	return f.out, f.err
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name            string
		format          string
		converter       *fakeConverter
		wantContentType string
		wantExtension   string
		wantDegraded    bool
	}{
		{"docx", FormatDocx, &fakeConverter{}, DocxContentType, FormatDocx, false},
		{"pdf", FormatPDF, &fakeConverter{out: []byte("%PDF-1.7")}, PDFContentType, FormatPDF, false},
		{"pdf without converter", FormatPDF, &fakeConverter{err: ErrConversionUnavailable}, DocxContentType, FormatDocx, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewGenerator(tt.converter, nil)
			doc, err := gen.Generate(t.Context(), sampleRecord(), tt.format)
			require.NoError(t, err)

			assert.Equal(t, tt.wantContentType, doc.ContentType)
			assert.Equal(t, tt.wantExtension, doc.Extension)
			assert.Equal(t, tt.wantDegraded, doc.Degraded)
			assert.NotEmpty(t, doc.Data)
		})
	}
}

func TestGenerateRejectsUnknownFormat(t *testing.T) {
	_, err := NewGenerator(nil, nil).Generate(t.Context(), sampleRecord(), "odt")
	assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeInvalidFormat))
}

func TestGeneratePropagatesConverterFailure(t *testing.T) {
	boom := errors.New("disk full")
	_, err := NewGenerator(&fakeConverter{err: boom}, nil).Generate(t.Context(), sampleRecord(), FormatPDF)
	assert.ErrorIs(t, err, boom)
}

func TestOfficeConverterUnavailable(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		c := NewOfficeConverter(config.ConverterConfig{Enabled: false, Command: "libreoffice"}, nil)
		_, err := c.ConvertToPDF(t.Context(), []byte("docx"))
		assert.ErrorIs(t, err, ErrConversionUnavailable)
	})

	t.Run("missing binary", func(t *testing.T) {
		c := NewOfficeConverter(config.ConverterConfig{
			Enabled: true,
			Command: "resumeforge-no-such-office-binary",
			Timeout: time.Second,
		}, nil)
		_, err := c.ConvertToPDF(t.Context(), []byte("docx"))
		assert.ErrorIs(t, err, ErrConversionUnavailable)
	})
}
