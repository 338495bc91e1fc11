// Package observability sets up OpenTelemetry tracing and metrics.
package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	appErrors "resumeforge/internal/errors"
)

// Manager owns the tracer and meter providers and the service metrics.
type Manager struct {
	opts           Options
	logger         *appErrors.Logger
	resource       *resource.Resource
	tracerProvider *trace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	metrics        *Metrics
	shutdownFuncs  []func(context.Context) error
}

// NewManager initializes OpenTelemetry. A disabled manager hands out no-op
// tracers and metrics.
func NewManager(opts Options, logger *appErrors.Logger) (*Manager, error) {
	if logger == nil {
		logger = appErrors.NewNopLogger()
	}
	m := &Manager{opts: opts, logger: logger}

	if !opts.Enabled {
		metrics, err := newMetrics(noopmetric.NewMeterProvider().Meter(opts.ServiceName))
		if err != nil {
			return nil, err
		}
		m.metrics = metrics
		return m, nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(opts.ServiceName),
			semconv.ServiceVersion(opts.ServiceVersion),
			attribute.String("service.instance.id", opts.ServiceInstance),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	m.resource = res

	if err := m.initTracing(); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := m.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.Info("Observability initialized",
		"service", opts.ServiceName,
		"console", opts.ConsoleOutput,
		"otlp", opts.OTLP.Enabled,
		"prometheus", opts.Prometheus.Enabled)
	return m, nil
}

func (m *Manager) initTracing() error {
	var (
		exporter trace.SpanExporter
		err      error
	)
	switch {
	case m.opts.ConsoleOutput:
		var stdoutOpts []stdouttrace.Option
		if m.opts.PrettyPrint {
			stdoutOpts = append(stdoutOpts, stdouttrace.WithPrettyPrint())
		}
		exporter, err = stdouttrace.New(stdoutOpts...)
	case m.opts.OTLP.Enabled:
		httpOpts := []otlptracehttp.Option{otlptracehttp.WithEndpointURL(m.opts.OTLP.Endpoint)}
		if m.opts.OTLP.Insecure {
			httpOpts = append(httpOpts, otlptracehttp.WithInsecure())
		}
		if len(m.opts.OTLP.Headers) > 0 {
			httpOpts = append(httpOpts, otlptracehttp.WithHeaders(m.opts.OTLP.Headers))
		}
		exporter, err = otlptracehttp.New(context.Background(), httpOpts...)
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tpOpts := []trace.TracerProviderOption{
		trace.WithResource(m.resource),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(m.opts.SampleRate))),
	}
	if exporter != nil {
		tpOpts = append(tpOpts, trace.WithBatcher(exporter))
	}
	tp := trace.NewTracerProvider(tpOpts...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	m.tracerProvider = tp
	m.shutdownFuncs = append(m.shutdownFuncs, tp.Shutdown)
	return nil
}

func (m *Manager) initMetrics() error {
	var readers []sdkmetric.Reader

	if m.opts.ConsoleOutput {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(m.opts.CollectionInterval)))
	}

	if m.opts.OTLP.Enabled {
		httpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpointURL(m.opts.OTLP.Endpoint)}
		if m.opts.OTLP.Insecure {
			httpOpts = append(httpOpts, otlpmetrichttp.WithInsecure())
		}
		if len(m.opts.OTLP.Headers) > 0 {
			httpOpts = append(httpOpts, otlpmetrichttp.WithHeaders(m.opts.OTLP.Headers))
		}
		exporter, err := otlpmetrichttp.New(context.Background(), httpOpts...)
		if err != nil {
			return fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(m.opts.CollectionInterval)))
	}

	if m.opts.Prometheus.Enabled {
		reader, mux, err := newPrometheusReader(m.opts.Prometheus)
		if err != nil {
			return err
		}
		readers = append(readers, reader)
		server := startPrometheusServer(mux, m.opts.Prometheus.Port, m.logger)
		m.shutdownFuncs = append(m.shutdownFuncs, shutdownServer(server))
	}

	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}

	mpOpts := []sdkmetric.Option{sdkmetric.WithResource(m.resource)}
	for _, reader := range readers {
		mpOpts = append(mpOpts, sdkmetric.WithReader(reader))
	}
	mp := sdkmetric.NewMeterProvider(mpOpts...)

	otel.SetMeterProvider(mp)
	m.meterProvider = mp
	m.shutdownFuncs = append(m.shutdownFuncs, mp.Shutdown)

	metrics, err := newMetrics(mp.Meter(m.opts.ServiceName))
	if err != nil {
		return err
	}
	m.metrics = metrics
	return nil
}

// Metrics returns the service metrics. Never nil.
func (m *Manager) Metrics() *Metrics {
	return m.metrics
}

// HTTPMiddleware instruments handlers with otelhttp.
func (m *Manager) HTTPMiddleware() func(http.Handler) http.Handler {
	if !m.opts.Enabled {
		return func(h http.Handler) http.Handler { return h }
	}
	return otelhttp.NewMiddleware(
		m.opts.ServiceName,
		otelhttp.WithTracerProvider(m.tracerProvider),
		otelhttp.WithMeterProvider(m.meterProvider),
	)
}

// Tracer returns a tracer for the service
func (m *Manager) Tracer(name string) oteltrace.Tracer {
	if !m.opts.Enabled {
		return noop.NewTracerProvider().Tracer(name)
	}
	return m.tracerProvider.Tracer(name)
}

// Shutdown flushes exporters and stops the metrics server.
func (m *Manager) Shutdown(ctx context.Context) error {
	var errs []error
	for i := len(m.shutdownFuncs) - 1; i >= 0; i-- {
		if err := m.shutdownFuncs[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
