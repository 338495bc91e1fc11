package observability

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"resumeforge/internal/config"
)

// Options holds the resolved observability settings.
type Options struct {
	ServiceName        string
	ServiceVersion     string
	ServiceInstance    string
	Enabled            bool
	ConsoleOutput      bool
	PrettyPrint        bool
	SampleRate         float64
	CollectionInterval time.Duration
	Prometheus         PrometheusOptions
	OTLP               config.OTLPConfig
}

// OptionsFromConfig derives observability options from cfg. version fills
// in when no service version is configured.
func OptionsFromConfig(cfg *config.Config, version string) Options {
	if cfg == nil {
		return Options{
			ServiceName:        "resumeforge",
			ServiceVersion:     version,
			ServiceInstance:    "resumeforge-1",
			Enabled:            true,
			ConsoleOutput:      true,
			PrettyPrint:        true,
			SampleRate:         1.0,
			CollectionInterval: 15 * time.Second,
		}
	}

	obs := cfg.Observability
	serviceVersion := obs.ServiceVersion
	if serviceVersion == "" {
		serviceVersion = version
	}
	interval := obs.Metrics.CollectionInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}

	return Options{
		ServiceName:        obs.ServiceName,
		ServiceVersion:     serviceVersion,
		ServiceInstance:    obs.ServiceInstance,
		Enabled:            obs.Enabled,
		ConsoleOutput:      obs.ConsoleOutput,
		PrettyPrint:        obs.Console.PrettyPrint,
		SampleRate:         obs.SampleRate,
		CollectionInterval: interval,
		Prometheus: PrometheusOptions{
			Enabled:  obs.Prometheus.Enabled,
			Endpoint: obs.Prometheus.Endpoint,
			Port:     obs.Prometheus.Port,
		},
		OTLP: obs.OTLP,
	}
}

// RouteSpanMiddleware names the request span after the matched route pattern
// and tags it with the request ID.
func RouteSpanMiddleware(m *Manager, requestID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !m.opts.Enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := m.Tracer("resumeforge.http").Start(r.Context(), r.Method+" "+r.URL.Path)
			defer span.End()

			span.SetAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", r.URL.Path),
				attribute.String("http.user_agent", r.UserAgent()),
			)
			if requestID != nil {
				span.SetAttributes(attribute.String("request.id", requestID(r)))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
