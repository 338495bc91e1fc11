package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"resumeforge/internal/document"
	"resumeforge/internal/resume"
	"resumeforge/internal/templates"
	"resumeforge/internal/types"
)

var errAIUnavailable = errors.New("AI service is not configured")

// startSpan opens the handler span for one API operation.
func (s *Server) startSpan(r *http.Request, operation string) (context.Context, trace.Span) {
	ctx, span := s.om.Tracer("resumeforge.api").Start(r.Context(), "api."+operation)
	span.SetAttributes(attribute.String("operation", operation))
	return ctx, span
}

// reject records a client error on the span and answers 400.
func reject(w http.ResponseWriter, span trace.Span, title, message string) {
	span.RecordError(errors.New(message))
	span.SetAttributes(attribute.String("error.type", "validation"))
	writeErrorResponse(w, title, message, http.StatusBadRequest)
}

func (s *Server) aiReady(w http.ResponseWriter, span trace.Span) bool {
	if s.ai != nil {
		return true
	}
	span.RecordError(errAIUnavailable)
	span.SetAttributes(attribute.String("error.type", "service_unavailable"))
	writeErrorResponse(w, "AI service unavailable", errAIUnavailable.Error(), http.StatusServiceUnavailable)
	return false
}

func (s *Server) uploadResumeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "upload_resume")
	defer span.End()

	if err := parseFormRequest(r); err != nil {
		reject(w, span, "Invalid request body", err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		reject(w, span, "Missing file", "file field is required")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		reject(w, span, "Only PDF files are supported", fmt.Sprintf("unsupported file: %s", header.Filename))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		reject(w, span, "Invalid request body", err.Error())
		return
	}
	span.SetAttributes(attribute.Int("request.file_size", len(data)))
	s.Logger.Info("File uploaded", "filename", header.Filename, "size", len(data))

	parsed, err := s.parser.ParseResume(ctx, data)
	s.om.Metrics().RecordResumeParsed(ctx, err == nil)
	if err != nil {
		span.RecordError(err)
		s.Logger.LogError(err, "Error parsing resume", "filename", header.Filename)
		writeAppError(w, "Error parsing resume", err)
		return
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("resume.word_count", parsed.WordCount),
		attribute.Int("resume.page_count", parsed.PageCount),
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Resume parsed successfully",
		"data":    parsed,
	})
}

func (s *Server) calculateScoreHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "calculate_ats_score")
	defer span.End()

	if err := parseFormRequest(r); err != nil {
		reject(w, span, "Invalid request body", err.Error())
		return
	}
	resumeText := r.FormValue("resume_text")
	jobDescription := r.FormValue("job_description")
	if strings.TrimSpace(resumeText) == "" {
		reject(w, span, "Resume text cannot be empty", "resume_text field is required")
		return
	}
	if !s.aiReady(w, span) {
		return
	}

	span.SetAttributes(
		attribute.Int("request.resume_length", len(resumeText)),
		attribute.Int("request.job_length", len(jobDescription)),
	)

	result := s.ai.CalculateScore(ctx, resumeText, jobDescription)
	s.om.Metrics().RecordScoreCalculated(ctx, jobDescription != "")
	span.SetAttributes(attribute.Float64("ats.score", result.Score()))

	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "success",
		"data":          result,
		"text_analysis": resume.AnalyzeText(resumeText),
	})
}

func (s *Server) analyzeKeywordsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "analyze_keywords")
	defer span.End()

	if err := parseFormRequest(r); err != nil {
		reject(w, span, "Invalid request body", err.Error())
		return
	}
	resumeText := r.FormValue("resume_text")
	jobDescription := r.FormValue("job_description")
	if strings.TrimSpace(resumeText) == "" {
		reject(w, span, "Resume text cannot be empty", "resume_text field is required")
		return
	}
	if !s.aiReady(w, span) {
		return
	}

	analysis := s.ai.AnalyzeKeywords(ctx, resumeText, jobDescription)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"data": map[string]any{
			"analysis":        analysis,
			"resume_keywords": resume.CategorizedATSKeywords(resumeText),
			"job_keywords":    resume.CategorizedATSKeywords(jobDescription),
			"text_analysis":   resume.AnalyzeText(resumeText),
		},
	})
}

func (s *Server) enhanceResumeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "enhance_resume")
	defer span.End()

	var req EnhanceRequest
	if err := parseJSONRequest(r, &req); err != nil {
		reject(w, span, "Invalid request body", err.Error())
		return
	}
	if len(req.ResumeData) == 0 {
		reject(w, span, "Resume data is required", "resume_data field is required")
		return
	}
	if !s.aiReady(w, span) {
		return
	}

	warnings := s.checkRecord(span, req.ResumeData)
	result := s.ai.EnhanceAndScore(ctx, req.ResumeData, req.JobDescription)
	s.om.Metrics().RecordResumeEnhanced(ctx)
	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("improvements_count", len(result.Improvements)),
	)

	body := map[string]any{"status": "success", "data": result}
	if len(warnings) > 0 {
		body["contact_warnings"] = warnings
	}
	writeJSON(w, http.StatusOK, body)
}

// checkRecord reports contact details of data that are present but malformed.
// Fields whose JSON type does not fit are only logged.
func (s *Server) checkRecord(span trace.Span, data types.ResumeData) []string {
	record, err := data.Decode()
	if err != nil {
		s.Logger.Debug("Resume record has oddly typed fields", "error", err.Error())
	}
	issues := resume.ContactIssues(record.PersonalInfo)
	if len(issues) > 0 {
		span.SetAttributes(attribute.Int("resume.contact_issues", len(issues)))
		s.Logger.Warn("Resume record has malformed contact details", "issues", issues)
	}
	return issues
}

func (s *Server) enhanceSectionHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "enhance_section")
	defer span.End()

	var req SectionRequest
	if err := parseJSONRequest(r, &req); err != nil {
		reject(w, span, "Invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		reject(w, span, "Section content cannot be empty", "content field is required")
		return
	}
	if !s.aiReady(w, span) {
		return
	}

	span.SetAttributes(attribute.String("section.name", req.SectionName))
	enhanced := s.ai.EnhanceSection(ctx, req.SectionName, req.Content, req.Context)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "success",
		"section_name":     req.SectionName,
		"enhanced_content": enhanced,
	})
}

func (s *Server) generateSummaryHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "generate_summary")
	defer span.End()

	data, ok := s.readResumeData(w, r, span)
	if !ok || !s.aiReady(w, span) {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"summary": s.ai.GenerateSummary(ctx, data),
	})
}

func (s *Server) generateCoverLetterHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "generate_cover_letter")
	defer span.End()

	data, ok := s.readResumeData(w, r, span)
	if !ok || !s.aiReady(w, span) {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "success",
		"cover_letter": s.ai.GenerateCoverLetter(ctx, data),
	})
}

// readResumeData decodes a body that is the resume record itself.
func (s *Server) readResumeData(w http.ResponseWriter, r *http.Request, span trace.Span) (types.ResumeData, bool) {
	var data types.ResumeData
	if err := parseJSONRequest(r, &data); err != nil {
		reject(w, span, "Invalid request body", err.Error())
		return nil, false
	}
	if len(data) == 0 {
		reject(w, span, "Resume data is required", "request body must be a non-empty resume object")
		return nil, false
	}
	return data, true
}

func (s *Server) enhanceBulletPointsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "enhance_bullet_points")
	defer span.End()

	var raw json.RawMessage
	if err := parseJSONRequest(r, &raw); err != nil {
		reject(w, span, "Invalid request body", err.Error())
		return
	}
	bullets, err := decodeBulletPoints(raw)
	if err != nil || len(bullets) == 0 {
		reject(w, span, "Invalid bullet points", "bullet_points must be a non-empty list")
		return
	}
	if !s.aiReady(w, span) {
		return
	}

	span.SetAttributes(attribute.Int("request.bullet_count", len(bullets)))
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "success",
		"enhanced_points": s.ai.EnhanceBulletPoints(ctx, bullets),
	})
}

// decodeBulletPoints accepts a bare JSON array or {"bullet_points": [...]}.
func decodeBulletPoints(raw json.RawMessage) ([]string, error) {
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		var bullets []string
		err := json.Unmarshal(raw, &bullets)
		return bullets, err
	}
	var req BulletPointsRequest
	err := json.Unmarshal(raw, &req)
	return req.BulletPoints, err
}

func (s *Server) suggestImprovementsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "suggest_improvements")
	defer span.End()

	if err := parseFormRequest(r); err != nil {
		reject(w, span, "Invalid request body", err.Error())
		return
	}
	resumeText := r.FormValue("resume_text")
	if strings.TrimSpace(resumeText) == "" {
		reject(w, span, "Resume text cannot be empty", "resume_text field is required")
		return
	}
	if !s.aiReady(w, span) {
		return
	}

	suggestions := s.ai.SuggestImprovements(ctx, resumeText)
	span.SetAttributes(attribute.Int("suggestions_count", len(suggestions)))
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "suggestions": suggestions})
}

func (s *Server) jobMatchHandler(w http.ResponseWriter, r *http.Request) {
	_, span := s.startSpan(r, "job_match")
	defer span.End()

	var req EnhanceRequest
	if err := parseJSONRequest(r, &req); err != nil {
		reject(w, span, "Invalid request body", err.Error())
		return
	}
	if len(req.ResumeData) == 0 {
		reject(w, span, "Resume data is required", "resume_data field is required")
		return
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		reject(w, span, "Job description cannot be empty", "job_description field is required")
		return
	}

	warnings := s.checkRecord(span, req.ResumeData)
	report := resume.MatchReport(req.ResumeData, req.JobDescription)
	span.SetAttributes(attribute.Float64("match.score", report.MatchScore))

	body := map[string]any{"status": "success", "data": report}
	if len(warnings) > 0 {
		body["contact_warnings"] = warnings
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) generateResumeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.startSpan(r, "generate_resume")
	defer span.End()

	template := r.URL.Query().Get("template")
	if template == "" {
		template = s.DefaultTemplate
	}
	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = document.FormatDocx
	}
	span.SetAttributes(
		attribute.String("document.template", template),
		attribute.String("document.format", format),
	)

	data, ok := s.readResumeData(w, r, span)
	if !ok {
		return
	}
	warnings := s.checkRecord(span, data)

	doc, err := s.generator.Generate(ctx, data, format)
	if err != nil {
		span.RecordError(err)
		s.Logger.LogError(err, "Error generating resume", "template", template, "format", format)
		writeAppError(w, "Error generating resume", err)
		return
	}
	s.om.Metrics().RecordDocumentGenerated(ctx, template, format, doc.Degraded)
	span.SetAttributes(attribute.Bool("document.degraded", doc.Degraded))

	filename := fmt.Sprintf("resume_%s.%s", resume.SanitizeFilename(template), doc.Extension)
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	if doc.Degraded {
		w.Header().Set("X-Conversion-Degraded", "true")
	}
	if len(warnings) > 0 {
		w.Header().Set("X-Contact-Warnings", strings.Join(warnings, "; "))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Data); err != nil {
		s.Logger.LogError(err, "Failed to write generated document")
	}
}

func (s *Server) listTemplatesHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "success",
		"templates": s.templates.List(),
		"details":   s.templates.Details(),
	})
}

// getTemplateHandler returns one template. Contact query parameters
// (name, email, phone, location, website) fill its placeholders.
func (s *Server) getTemplateHandler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	content, found := s.templates.Get(name)

	query := r.URL.Query()
	populated := false
	if query.Has("name") || query.Has("email") || query.Has("phone") || query.Has("location") || query.Has("website") {
		content = templates.Populate(content, types.ResumeRecord{PersonalInfo: types.PersonalInfo{
			Name:     types.Text(query.Get("name")),
			Email:    types.Text(query.Get("email")),
			Phone:    types.Text(query.Get("phone")),
			Location: types.Text(query.Get("location")),
			Website:  types.Text(query.Get("website")),

			NamePresent: query.Has("name"),
		}})
		populated = true
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "success",
		"name":      name,
		"found":     found,
		"populated": populated,
		"content":   content,
	})
}
