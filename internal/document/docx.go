package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nguyenthenguyen/docx"

	appErrors "resumeforge/internal/errors"
	"resumeforge/internal/resume"
	"resumeforge/internal/types"
)

const (
	wordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

	packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

	documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

	// Half-points.
	nameSize    = 32
	headingSize = 26
	bodySize    = 22
)

// DocxContentType is the media type of generated Word documents.
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// RenderDocx lays out a resume record as a Word document. The layout carries
// a numbered placeholder in every text run and the docx library substitutes
// the record's text into them, escaping it for WordprocessingML.
func RenderDocx(record types.ResumeRecord) ([]byte, error) {
	layout, values := resumeBody(record)
	pkg, err := wordPackage(wrapBody(layout))
	if err != nil {
		return nil, appErrors.NewDocumentError(appErrors.ErrCodeDocumentRenderFailed, "Failed to assemble document layout", err)
	}

	replacer, err := docx.ReadDocxFromMemory(bytes.NewReader(pkg), int64(len(pkg)))
	if err != nil {
		return nil, appErrors.NewDocumentError(appErrors.ErrCodeDocumentRenderFailed, "Failed to open document layout", err)
	}
	defer func() { _ = replacer.Close() }()

	doc := replacer.Editable()
	// Last to first, so text already substituted never shadows a placeholder
	// that precedes it.
	for i := len(values) - 1; i >= 0; i-- {
		if err := doc.Replace(placeholder(i), values[i], 1); err != nil {
			return nil, appErrors.NewDocumentError(appErrors.ErrCodeDocumentRenderFailed, "Failed to fill document text", err)
		}
	}

	var out bytes.Buffer
	if err := doc.Write(&out); err != nil {
		return nil, appErrors.NewDocumentError(appErrors.ErrCodeDocumentRenderFailed, "Failed to write document", err)
	}
	return out.Bytes(), nil
}

// wordPackage zips a minimal Word package around documentXML.
func wordPackage(documentXML string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct{ name, body string }{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", packageRelsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/document.xml", documentXML},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, err
		}
		if _, err := io.WriteString(w, part.body); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func placeholder(i int) string {
	return fmt.Sprintf("{{F%d}}", i)
}

// resumeBody returns the paragraph layout of record and the text of its runs
// in placeholder order.
func resumeBody(record types.ResumeRecord) (string, []string) {
	var b bodyBuilder
	info := record.PersonalInfo

	b.paragraph(info.DisplayName(), runStyle{bold: true, size: nameSize, center: true})

	contact := []string{info.Email.String(), info.Phone.String()}
	for _, optional := range []string{info.Location.String(), info.Website.String()} {
		if optional != "" {
			contact = append(contact, optional)
		}
	}
	b.paragraph(strings.Join(contact, " | "), runStyle{size: bodySize, center: true})

	if record.Summary != "" {
		b.heading("PROFESSIONAL SUMMARY")
		b.paragraph(record.Summary.String(), runStyle{size: bodySize})
	}

	if len(record.Experience) > 0 {
		b.heading("PROFESSIONAL EXPERIENCE")
		for _, exp := range record.Experience {
			b.paragraph(fmt.Sprintf("%s at %s", exp.Position, exp.Company), runStyle{bold: true, size: bodySize})
			dates := dateRange(exp.StartDate, exp.EndDate)
			if exp.Location != "" {
				dates += " | " + exp.Location.String()
			}
			b.paragraph(dates, runStyle{italic: true, size: bodySize})
			for _, item := range exp.Responsibilities {
				b.bullet(item)
			}
		}
	}

	if len(record.Education) > 0 {
		b.heading("EDUCATION")
		for _, edu := range record.Education {
			b.paragraph(fmt.Sprintf("%s in %s", edu.Degree, edu.Field), runStyle{bold: true, size: bodySize})
			line := edu.Institution.String()
			if edu.StartDate != "" || edu.EndDate != "" {
				line += " | " + dateRange(edu.StartDate, edu.EndDate)
			}
			if edu.GPA != "" {
				line += " | GPA: " + edu.GPA.String()
			}
			b.paragraph(line, runStyle{size: bodySize})
		}
	}

	if len(record.Skills) > 0 {
		b.heading("SKILLS")
		b.paragraph(strings.Join(record.Skills, ", "), runStyle{size: bodySize})
	}

	if len(record.Projects) > 0 {
		b.heading("PROJECTS")
		for _, project := range record.Projects {
			b.paragraph(project.Name.String(), runStyle{bold: true, size: bodySize})
			if project.Description != "" {
				b.paragraph(project.Description.String(), runStyle{size: bodySize})
			}
			if len(project.Technologies) > 0 {
				b.paragraph("Technologies: "+strings.Join(project.Technologies, ", "), runStyle{italic: true, size: bodySize})
			}
			if project.Link != "" {
				b.paragraph(project.Link.String(), runStyle{size: bodySize})
			}
		}
	}

	if len(record.Certifications) > 0 {
		b.heading("CERTIFICATIONS")
		for _, cert := range record.Certifications {
			b.bullet(cert)
		}
	}

	return b.String(), b.values
}

// dateRange renders "start - end", spelling out recognised dates. Bare years
// stay as written.
func dateRange(start, end types.Text) string {
	return displayDate(start) + " - " + displayDate(end)
}

func displayDate(date types.Text) string {
	s := strings.TrimSpace(date.String())
	if len(s) == 4 {
		if _, err := strconv.Atoi(s); err == nil {
			return s
		}
	}
	return resume.FormatDate(s)
}

type runStyle struct {
	bold   bool
	italic bool
	center bool
	size   int
}

// bodyBuilder accumulates WordprocessingML paragraphs. Run text is kept aside
// in values and the run holds its placeholder.
type bodyBuilder struct {
	strings.Builder
	values []string
}

func (b *bodyBuilder) heading(text string) {
	b.paragraph(text, runStyle{bold: true, size: headingSize})
}

func (b *bodyBuilder) bullet(text string) {
	b.paragraph("• "+text, runStyle{size: bodySize})
}

func (b *bodyBuilder) paragraph(text string, style runStyle) {
	b.WriteString("<w:p>")
	if style.center {
		b.WriteString(`<w:pPr><w:jc w:val="center"/></w:pPr>`)
	}
	b.WriteString("<w:r><w:rPr>")
	if style.bold {
		b.WriteString("<w:b/>")
	}
	if style.italic {
		b.WriteString("<w:i/>")
	}
	fmt.Fprintf(b, `<w:sz w:val="%d"/>`, style.size)
	b.WriteString(`</w:rPr><w:t xml:space="preserve">`)
	b.WriteString(placeholder(len(b.values)))
	b.values = append(b.values, text)
	b.WriteString("</w:t></w:r></w:p>")
}

func wrapBody(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="` + wordNamespace + `"><w:body>` + body +
		`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/>` +
		`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440"/></w:sectPr>` +
		`</w:body></w:document>`
}

// ExtractDocxText returns the paragraphs of a Word document, one per line.
func ExtractDocxText(data []byte) (string, error) {
	replacer, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", appErrors.NewIOError(appErrors.ErrCodeDocxReadFailed, "Failed to open Word document", err)
	}
	defer func() { _ = replacer.Close() }()

	text, err := paragraphsText(replacer.Editable().GetContent())
	if err != nil {
		return "", appErrors.NewIOError(appErrors.ErrCodeDocxReadFailed, "Failed to read Word document body", err)
	}
	return text, nil
}

func paragraphsText(documentXML string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(documentXML))
	var (
		lines   []string
		current strings.Builder
		inText  bool
	)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				current.WriteByte('\t')
			case "br":
				current.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				lines = append(lines, current.String())
				current.Reset()
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}
