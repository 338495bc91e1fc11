package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeforge/internal/ai"
	"resumeforge/internal/config"
	"resumeforge/internal/document"
	appErrors "resumeforge/internal/errors"
	"resumeforge/internal/resume"
	"resumeforge/internal/templates"
	"resumeforge/internal/types"
)

const sampleResume = `Jane Doe
jane@example.com
+1 555 123 4567

Summary
Backend engineer building Go services.

Skills
Go, Kubernetes, PostgreSQL`

type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	return f.text, f.err
}

type fakeAI struct {
	models      map[string]*ai.ModelInfo
	lastJD      string
	lastBullets []string
}

func (f *fakeAI) CalculateScore(ctx context.Context, resumeText, jobDescription string) types.ATSScoreResult {
	f.lastJD = jobDescription
	return types.ATSScoreResult{"score": 82.0, "suggestions": []any{"Add metrics"}}
}

func (f *fakeAI) AnalyzeKeywords(ctx context.Context, resumeText, jobDescription string) types.KeywordAnalysis {
	return types.KeywordAnalysis{"matching_keywords": []any{"go"}}
}

func (f *fakeAI) EnhanceAndScore(ctx context.Context, data types.ResumeData, jobDescription string) types.EnhancementResult {
	f.lastJD = jobDescription
	return types.EnhancementResult{
		EnhancedData:  data,
		OriginalScore: 60.0,
		EnhancedScore: 80.0,
		Improvements:  []string{"Score increased"},
		Suggestions:   []any{},
	}
}

func (f *fakeAI) EnhanceSection(ctx context.Context, sectionName, content, sectionContext string) string {
	return strings.ToUpper(content)
}

func (f *fakeAI) GenerateSummary(ctx context.Context, data types.ResumeData) string {
	return "Seasoned engineer."
}

func (f *fakeAI) GenerateCoverLetter(ctx context.Context, data types.ResumeData) string {
	return "Dear Hiring Manager,"
}

func (f *fakeAI) EnhanceBulletPoints(ctx context.Context, bullets []string) []any {
	f.lastBullets = bullets
	out := make([]any, len(bullets))
	for i, b := range bullets {
		out[i] = "Led " + b
	}
	return out
}

func (f *fakeAI) SuggestImprovements(ctx context.Context, resumeText string) []any {
	return []any{"Quantify achievements"}
}

func (f *fakeAI) ModelInfo(ctx context.Context) map[string]*ai.ModelInfo {
	if f.models != nil {
		return f.models
	}
	return map[string]*ai.ModelInfo{
		"scoring":     {Name: "gemini-2.0-flash", Available: true},
		"enhancement": {Name: "gemini-2.0-flash", Available: true},
	}
}

func (f *fakeAI) CircuitBreakerStats() map[string]any {
	return map[string]any{}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:           "127.0.0.1",
			Port:           "0",
			MaxRequestSize: 1 << 20,
			TLS:            config.TLSConfig{Mode: "disabled"},
			CORS:           config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}, AllowCredentials: true},
		},
		Documents: config.DocumentsConfig{DefaultTemplate: "template1"},
		Observability: config.ObservabilityConfig{
			HealthCheck: config.HealthCheckConfig{Timeout: time.Second},
		},
	}
}

func testDependencies(t *testing.T, aiService AIService) Dependencies {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "template1.tex"), []byte(`\name{NAME} \email{EMAIL}`), 0600))

	return Dependencies{
		Parser:    resume.NewParser(fakeExtractor{text: sampleResume}, nil),
		AI:        aiService,
		Generator: document.NewGenerator(nil, nil),
		Templates: templates.NewCatalog(dir, nil),
	}
}

func newTestServer(t *testing.T, cfg *config.Config, deps Dependencies) http.Handler {
	t.Helper()
	s, err := NewServer(cfg, "test", deps, nil)
	require.NoError(t, err)
	if s.RateLimiter != nil {
		t.Cleanup(s.RateLimiter.Close)
	}
	return s.Handler()
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func formRequest(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/api/upload-resume", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRootAndHealth(t *testing.T) {
	h := newTestServer(t, testConfig(), testDependencies(t, &fakeAI{}))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "AI Resume Builder API", body["message"])
	assert.Equal(t, "running", body["status"])

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, map[string]any{
		"gemini_ai":          "ready",
		"pdf_parser":         "ready",
		"document_generator": "ready",
	}, body["services"])
}

func TestHealthDegraded(t *testing.T) {
	t.Run("unavailable model", func(t *testing.T) {
		fake := &fakeAI{models: map[string]*ai.ModelInfo{
			"scoring":     {Name: "m", Available: true},
			"enhancement": {Name: "m", Error: "Failed to get model info: boom"},
		}}
		h := newTestServer(t, testConfig(), testDependencies(t, fake))

		rec := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "degraded", body["status"])
		assert.Equal(t, "degraded", body["services"].(map[string]any)["gemini_ai"])
	})

	t.Run("no AI service", func(t *testing.T) {
		h := newTestServer(t, testConfig(), testDependencies(t, nil))

		rec := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "unavailable", body["services"].(map[string]any)["gemini_ai"])
	})
}

func TestUploadResume(t *testing.T) {
	h := newTestServer(t, testConfig(), testDependencies(t, &fakeAI{}))

	t.Run("parses pdf", func(t *testing.T) {
		rec := serve(h, uploadRequest(t, "resume.pdf", []byte("%PDF-1.4")))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decodeBody(t, rec)
		assert.Equal(t, "success", body["status"])
		assert.Equal(t, "Resume parsed successfully", body["message"])
		data := body["data"].(map[string]any)
		assert.Equal(t, "jane@example.com", data["email"])
	})

	t.Run("rejects other extensions", func(t *testing.T) {
		rec := serve(h, uploadRequest(t, "resume.docx", []byte("PK")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Only PDF files are supported", decodeBody(t, rec)["error"])
	})

	t.Run("missing file", func(t *testing.T) {
		req := formRequest("/v1/api/upload-resume", url.Values{"other": {"x"}})
		rec := serve(h, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Missing file", decodeBody(t, rec)["error"])
	})
}

func TestUploadResumeExtractionFailure(t *testing.T) {
	deps := testDependencies(t, &fakeAI{})
	deps.Parser = resume.NewParser(fakeExtractor{
		err: appErrors.NewValidationError(appErrors.ErrCodeInvalidFormat, "Empty PDF upload", nil),
	}, nil)
	h := newTestServer(t, testConfig(), deps)

	rec := serve(h, uploadRequest(t, "resume.pdf", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Error parsing resume", body["error"])
	assert.Equal(t, "Empty PDF upload", body["message"])
}

func TestCalculateScore(t *testing.T) {
	fake := &fakeAI{}
	h := newTestServer(t, testConfig(), testDependencies(t, fake))

	rec := serve(h, formRequest("/v1/api/calculate-ats-score", url.Values{"resume_text": {"   "}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Resume text cannot be empty", decodeBody(t, rec)["error"])

	rec = serve(h, formRequest("/v1/api/calculate-ats-score", url.Values{
		"resume_text":     {sampleResume},
		"job_description": {"Go developer"},
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, 82.0, body["data"].(map[string]any)["score"])
	assert.Equal(t, "Go developer", fake.lastJD)

	analysis := body["text_analysis"].(map[string]any)
	assert.Contains(t, analysis, "sections")
	assert.Contains(t, analysis["keyword_counts"], "kubernetes")
	assert.Equal(t, 7.0, analysis["stats"].(map[string]any)["line_count"])
}

func TestAnalyzeKeywords(t *testing.T) {
	h := newTestServer(t, testConfig(), testDependencies(t, &fakeAI{}))

	rec := serve(h, formRequest("/v1/api/analyze-keywords", url.Values{
		"resume_text":     {"Led a team using Python and AWS"},
		"job_description": {"Python developer"},
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]any)
	assert.Contains(t, data, "analysis")
	assert.Contains(t, data, "resume_keywords")
	assert.Contains(t, data, "job_keywords")

	analysis := data["text_analysis"].(map[string]any)
	assert.Equal(t, 1.0, analysis["keyword_counts"].(map[string]any)["python"])
	assert.Equal(t, 7.0, analysis["stats"].(map[string]any)["word_count"])
}

func TestAIUnavailable(t *testing.T) {
	h := newTestServer(t, testConfig(), testDependencies(t, nil))

	rec := serve(h, formRequest("/v1/api/calculate-ats-score", url.Values{"resume_text": {sampleResume}}))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "AI service unavailable", decodeBody(t, rec)["error"])
}

func TestEnhanceResume(t *testing.T) {
	fake := &fakeAI{}
	h := newTestServer(t, testConfig(), testDependencies(t, fake))

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"missing record", `{"job_description": "Go"}`, http.StatusBadRequest, "Resume data is required"},
		{"empty record", `{"resume_data": {}}`, http.StatusBadRequest, "Resume data is required"},
		{"malformed json", `{"resume_data":`, http.StatusBadRequest, "Invalid request body"},
		{"success", `{"resume_data": {"skills": ["Go"]}, "job_description": "Go"}`, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, jsonRequest(http.MethodPost, "/v1/api/enhance-resume", tt.body))
			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
				return
			}
			data := body["data"].(map[string]any)
			assert.Equal(t, 60.0, data["original_score"])
			assert.Equal(t, 80.0, data["enhanced_score"])
			assert.Equal(t, "Go", fake.lastJD)
		})
	}
}

func TestEnhanceResumeRequiresJSON(t *testing.T) {
	h := newTestServer(t, testConfig(), testDependencies(t, &fakeAI{}))

	req := httptest.NewRequest(http.MethodPost, "/v1/api/enhance-resume", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	rec := serve(h, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "content-type must be application/json", decodeBody(t, rec)["message"])
}

func TestTextGenerationEndpoints(t *testing.T) {
	h := newTestServer(t, testConfig(), testDependencies(t, &fakeAI{}))

	rec := serve(h, jsonRequest(http.MethodPost, "/v1/api/generate-summary", `{"skills": ["Go"]}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Seasoned engineer.", decodeBody(t, rec)["summary"])

	rec = serve(h, jsonRequest(http.MethodPost, "/v1/api/generate-cover-letter", `{"skills": ["Go"]}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Dear Hiring Manager,", decodeBody(t, rec)["cover_letter"])

	rec = serve(h, jsonRequest(http.MethodPost, "/v1/api/generate-summary", `null`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Resume data is required", decodeBody(t, rec)["error"])

	rec = serve(h, jsonRequest(http.MethodPost, "/v1/api/enhance-section",
		`{"section_name": "summary", "content": "built apis"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "BUILT APIS", decodeBody(t, rec)["enhanced_content"])

	rec = serve(h, formRequest("/v1/api/suggest-improvements", url.Values{"resume_text": {sampleResume}}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"Quantify achievements"}, decodeBody(t, rec)["suggestions"])
}

func TestEnhanceBulletPoints(t *testing.T) {
	fake := &fakeAI{}
	h := newTestServer(t, testConfig(), testDependencies(t, fake))

	tests := []struct {
		name       string
		body       string
		wantStatus int
		want       []any
	}{
		{"bare array", `["shipped api", "fixed bugs"]`, http.StatusOK, []any{"Led shipped api", "Led fixed bugs"}},
		{"wrapped", `{"bullet_points": ["shipped api"]}`, http.StatusOK, []any{"Led shipped api"}},
		{"empty list", `[]`, http.StatusBadRequest, nil},
		{"not strings", `[1, 2]`, http.StatusBadRequest, nil},
		{"missing field", `{"points": ["x"]}`, http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, jsonRequest(http.MethodPost, "/v1/api/enhance-bullet-points", tt.body))
			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, "bullet_points must be a non-empty list", body["message"])
				return
			}
			assert.Equal(t, tt.want, body["enhanced_points"])
		})
	}
}

func TestJobMatch(t *testing.T) {
	h := newTestServer(t, testConfig(), testDependencies(t, nil))

	rec := serve(h, jsonRequest(http.MethodPost, "/v1/api/job-match",
		`{"resume_data": {"skills": ["python", "aws"]}, "job_description": "python aws"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decodeBody(t, rec)["data"].(map[string]any)
	assert.Contains(t, data, "match_score")
	assert.Contains(t, data, "missing_by_category")

	assert.NotContains(t, decodeBody(t, rec), "contact_warnings")

	rec = serve(h, jsonRequest(http.MethodPost, "/v1/api/job-match", `{"resume_data": {"skills": ["go"]}}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Job description cannot be empty", decodeBody(t, rec)["error"])
}

func TestContactWarnings(t *testing.T) {
	h := newTestServer(t, testConfig(), testDependencies(t, &fakeAI{}))
	record := `{"personal_info": {"name": "Jane", "email": "jane-at-example", "phone": "12"}, "skills": ["go"]}`

	rec := serve(h, jsonRequest(http.MethodPost, "/v1/api/job-match",
		`{"resume_data": `+record+`, "job_description": "go"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	warnings := decodeBody(t, rec)["contact_warnings"].([]any)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "jane-at-example")
	assert.Contains(t, warnings[1], "personal_info.phone")

	rec = serve(h, jsonRequest(http.MethodPost, "/v1/api/enhance-resume", `{"resume_data": `+record+`}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decodeBody(t, rec)["contact_warnings"], 2)

	rec = serve(h, jsonRequest(http.MethodPost, "/v1/api/generate-resume?format=docx", record))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("X-Contact-Warnings"), `personal_info.email "jane-at-example" is not a valid email address`)
}

func TestGenerateResume(t *testing.T) {
	h := newTestServer(t, testConfig(), testDependencies(t, nil))
	record := `{"personal_info": {"name": "Jane Doe"}, "skills": ["Go"]}`

	t.Run("docx", func(t *testing.T) {
		rec := serve(h, jsonRequest(http.MethodPost, "/v1/api/generate-resume?format=docx", record))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, document.DocxContentType, rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="resume_template1.docx"`, rec.Header().Get("Content-Disposition"))
		assert.Empty(t, rec.Header().Get("X-Conversion-Degraded"))

		text, err := document.ExtractDocxText(rec.Body.Bytes())
		require.NoError(t, err)
		assert.Contains(t, text, "Jane Doe")
	})

	t.Run("pdf without converter", func(t *testing.T) {
		rec := serve(h, jsonRequest(http.MethodPost, "/v1/api/generate-resume?template=template2&format=pdf", record))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, document.DocxContentType, rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="resume_template2.docx"`, rec.Header().Get("Content-Disposition"))
		assert.Equal(t, "true", rec.Header().Get("X-Conversion-Degraded"))
	})

	t.Run("unknown format", func(t *testing.T) {
		rec := serve(h, jsonRequest(http.MethodPost, "/v1/api/generate-resume?format=odt", record))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Error generating resume", decodeBody(t, rec)["error"])
	})
}

func TestTemplates(t *testing.T) {
	h := newTestServer(t, testConfig(), testDependencies(t, nil))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/v1/api/templates", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, []any{"template1"}, body["templates"])
	assert.Contains(t, body["details"], "template1")

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/v1/api/templates/template1?name=Jane&email=j%40x.io", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, true, body["found"])
	assert.Equal(t, true, body["populated"])
	assert.Equal(t, `\name{Jane} \email{j@x.io}`, body["content"])

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/v1/api/templates/missing", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, false, body["found"])
	assert.Equal(t, false, body["populated"])
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(t, testConfig(), testDependencies(t, nil))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/v1/api/enhance-resume", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	cfg.Server.APIKeys = []string{"operator-key-123"}
	h := newTestServer(t, cfg, testDependencies(t, nil))

	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
	}{
		{"missing key", "", "", http.StatusUnauthorized},
		{"wrong key", "X-API-Key", "nope", http.StatusUnauthorized},
		{"x-api-key", "X-API-Key", "operator-key-123", http.StatusOK},
		{"bearer", "Authorization", "Bearer operator-key-123", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/api/templates", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := serve(h, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	// stats stays public
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/stats", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RateLimit = config.RateLimitConfig{
		Enabled:        true,
		RequestsPerMin: 1,
		BurstCapacity:  1,
		ByIP:           true,
		Window:         time.Minute,
	}
	h := newTestServer(t, cfg, testDependencies(t, nil))

	first := serve(h, httptest.NewRequest(http.MethodGet, "/v1/api/templates", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := serve(h, httptest.NewRequest(http.MethodGet, "/v1/api/templates", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "Rate limit exceeded", decodeBody(t, second)["error"])

	other := httptest.NewRequest(http.MethodGet, "/v1/api/templates", nil)
	other.Header.Set("X-Forwarded-For", "203.0.113.9")
	assert.Equal(t, http.StatusOK, serve(h, other).Code)
}

func TestCORS(t *testing.T) {
	h := newTestServer(t, testConfig(), testDependencies(t, nil))

	preflight := httptest.NewRequest(http.MethodOptions, "/v1/api/enhance-resume", nil)
	preflight.Header.Set("Origin", "http://localhost:3000")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := serve(h, preflight)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	foreign := httptest.NewRequest(http.MethodGet, "/", nil)
	foreign.Header.Set("Origin", "https://evil.example")
	rec = serve(h, foreign)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	h := newTestServer(t, testConfig(), testDependencies(t, nil))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec = serve(h, req)
	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
}

func TestRequestSizeLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.MaxRequestSize = 64
	h := newTestServer(t, cfg, testDependencies(t, &fakeAI{}))

	body := `{"resume_data": {"summary": "` + strings.Repeat("x", 200) + `"}}`
	rec := serve(h, jsonRequest(http.MethodPost, "/v1/api/enhance-resume", body))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "request body too large (limit is 64 bytes)", decodeBody(t, rec)["message"])
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded for", map[string]string{"X-Forwarded-For": "junk, 198.51.100.7, 10.0.0.1"}, "192.0.2.1:1234", "198.51.100.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.8"}, "192.0.2.1:1234", "198.51.100.8"},
		{"remote addr", nil, "192.0.2.1:1234", "192.0.2.1"},
		{"remote without port", nil, "192.0.2.1", "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	if got := maskAPIKey("short"); got != "****" {
		t.Errorf("Expected ****, got %q", got)
	}
	if got := maskAPIKey("abcdefghijkl"); got != "abcdefgh****" {
		t.Errorf("Expected abcdefgh****, got %q", got)
	}
}

func TestConfigureTLS(t *testing.T) {
	s, err := NewServer(testConfig(), "test", Dependencies{}, nil)
	require.NoError(t, err)

	httpServer := &http.Server{Addr: "127.0.0.1:0"}
	require.NoError(t, s.configureTLS(httpServer))
	assert.Nil(t, httpServer.TLSConfig)

	s.TLSConfig.Mode = "bogus"
	assert.Error(t, s.configureTLS(httpServer))

	s.TLSConfig.Mode = "server"
	err = s.configureTLS(httpServer)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TLS certificate and key are required")
}

func TestTLSHelpers(t *testing.T) {
	assert.NotZero(t, getCipherSuiteID("TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256"))
	assert.Zero(t, getCipherSuiteID("TLS_MADE_UP"))
	assert.Equal(t, uint16(0x0304), tlsVersion("1.3"))
	assert.Equal(t, uint16(0x0303), tlsVersion(""))
}

func TestRateLimiterStats(t *testing.T) {
	rl := NewRateLimiter(120, time.Minute, 5, nil)
	defer rl.Close()

	assert.True(t, rl.Allow("ip:1"))
	stats := rl.GetStats()
	assert.Equal(t, 1, stats["active_limiters"])
	assert.InDelta(t, 2.0, stats["rate_per_second"], 1e-9)
	assert.Equal(t, 5, stats["burst_capacity"])

	rl.cleanup(-time.Second)
	assert.Equal(t, 0, rl.GetStats()["active_limiters"])
}

func TestRunStopsOnCancel(t *testing.T) {
	s, err := NewServer(testConfig(), "test", Dependencies{}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}
