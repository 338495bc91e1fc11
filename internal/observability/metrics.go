package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"resumeforge/internal/ai"
)

// Metrics holds the custom instruments of the service.
type Metrics struct {
	aiDuration  metric.Float64Histogram
	aiRequests  metric.Int64Counter
	aiErrors    metric.Int64Counter
	aiTokens    metric.Int64Histogram
	aiFallbacks metric.Int64Counter

	resumesParsed       metric.Int64Counter
	scoresCalculated    metric.Int64Counter
	resumesEnhanced     metric.Int64Counter
	documentsGenerated  metric.Int64Counter
	conversionsDegraded metric.Int64Counter
	rateLimitHits       metric.Int64Counter
}

var _ ai.CallObserver = (*Metrics)(nil)

func newMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.aiDuration, err = meter.Float64Histogram("resumeforge_ai_processing_duration_seconds",
		metric.WithDescription("Time spent waiting for AI completions"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("failed to create AI duration metric: %w", err)
	}
	if m.aiTokens, err = meter.Int64Histogram("resumeforge_ai_token_usage",
		metric.WithDescription("Token usage per AI completion"),
		metric.WithUnit("tokens")); err != nil {
		return nil, fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
	}{
		{&m.aiRequests, "resumeforge_ai_requests_total", "Total number of AI requests"},
		{&m.aiErrors, "resumeforge_ai_errors_total", "Total number of failed AI requests"},
		{&m.aiFallbacks, "resumeforge_ai_fallbacks_total", "Total number of AI answers replaced by a fallback"},
		{&m.resumesParsed, "resumeforge_resumes_parsed_total", "Total number of resumes parsed"},
		{&m.scoresCalculated, "resumeforge_scores_calculated_total", "Total number of ATS scores calculated"},
		{&m.resumesEnhanced, "resumeforge_resumes_enhanced_total", "Total number of resumes enhanced"},
		{&m.documentsGenerated, "resumeforge_documents_generated_total", "Total number of resume documents generated"},
		{&m.conversionsDegraded, "resumeforge_conversions_degraded_total", "PDF requests answered with a Word document"},
		{&m.rateLimitHits, "resumeforge_rate_limit_hits_total", "Total number of rate limited requests"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.description))
		if err != nil {
			return nil, fmt.Errorf("failed to create %s metric: %w", c.name, err)
		}
		*c.target = counter
	}

	return m, nil
}

// ObserveCompletion records duration, outcome and token usage of one model call.
func (m *Metrics) ObserveCompletion(ctx context.Context, op ai.Operation, model string, duration time.Duration, usage *ai.TokenUsage, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("operation", string(op)),
		attribute.String("model", model),
		attribute.Bool("success", err == nil),
	}
	m.aiDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.aiRequests.Add(ctx, 1, metric.WithAttributes(attrs...))

	if err != nil {
		m.aiErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("operation", string(op)),
			attribute.String("error_class", ai.ClassifyError(err)),
		))
	}

	if usage == nil {
		return
	}
	for _, t := range []struct {
		kind  string
		value int64
	}{
		{"input", usage.InputTokens},
		{"output", usage.OutputTokens},
		{"total", usage.TotalTokens},
	} {
		m.aiTokens.Record(ctx, t.value, metric.WithAttributes(
			attribute.String("operation", string(op)),
			attribute.String("token_type", t.kind),
		))
	}
}

// ObserveFallback counts answers replaced by their fallback value.
func (m *Metrics) ObserveFallback(ctx context.Context, op ai.Operation, reason string) {
	m.aiFallbacks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", string(op)),
		attribute.String("reason", reason),
	))
}

func (m *Metrics) RecordResumeParsed(ctx context.Context, success bool) {
	m.resumesParsed.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}

func (m *Metrics) RecordScoreCalculated(ctx context.Context, withJobDescription bool) {
	m.scoresCalculated.Add(ctx, 1, metric.WithAttributes(attribute.Bool("job_description", withJobDescription)))
}

func (m *Metrics) RecordResumeEnhanced(ctx context.Context) {
	m.resumesEnhanced.Add(ctx, 1)
}

// RecordDocumentGenerated counts generated files; degraded marks a PDF
// request answered with Word content.
func (m *Metrics) RecordDocumentGenerated(ctx context.Context, template, format string, degraded bool) {
	m.documentsGenerated.Add(ctx, 1, metric.WithAttributes(
		attribute.String("template", template),
		attribute.String("format", format),
	))
	if degraded {
		m.conversionsDegraded.Add(ctx, 1)
	}
}

func (m *Metrics) RecordRateLimitHit(ctx context.Context, limitType string) {
	m.rateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("limit_type", limitType)))
}
