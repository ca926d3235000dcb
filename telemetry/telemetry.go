package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/pantryshop/storefront/config"
	"github.com/pantryshop/storefront/constants"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests received.",
		},
		[]string{"handler", "method", "code"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)
	diagnosticResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_diagnostic_responses_total",
			Help: "Requests answered by the diagnostic handler because the application failed to load.",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, diagnosticResponsesTotal)
}

// Init sets up the tracer provider from cfg.Tracing and returns its shutdown
// function. Supported exporters: "" (disabled), "stdout", "otlp".
func Init(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if cfg == nil || cfg.Tracing.Exporter == constants.TracingExporterNone {
		return noop, nil
	}
	serviceName := cfg.Tracing.ServiceName
	if serviceName == "" {
		serviceName = constants.DefaultServiceName
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return noop, fmt.Errorf("tracing resource: %w", err)
	}

	var exp sdktrace.SpanExporter
	switch cfg.Tracing.Exporter {
	case constants.TracingExporterStdout:
		exp, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case constants.TracingExporterOTLP:
		var opts []otlptracehttp.Option
		if cfg.Tracing.Endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpointURL(cfg.Tracing.Endpoint))
		}
		exp, err = otlptracehttp.New(ctx, opts...)
	default:
		return noop, fmt.Errorf("unsupported tracing exporter: %s", cfg.Tracing.Exporter)
	}
	if err != nil {
		return noop, fmt.Errorf("tracing exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// WrapHandler applies tracing, Prometheus metrics, and otelhttp middleware.
func WrapHandler(name string, next http.Handler) http.Handler {
	h := otelhttp.NewHandler(next, name)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rw, r)
		httpRequestsTotal.WithLabelValues(name, r.Method, strconv.Itoa(rw.status)).Inc()
		httpRequestDuration.WithLabelValues(name, r.Method).Observe(time.Since(start).Seconds())
	})
}

// DiagnosticServed counts a request answered by the diagnostic handler.
func DiagnosticServed(kind string) {
	diagnosticResponsesTotal.WithLabelValues(kind).Inc()
}

type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// MetricsHandler returns the Prometheus metrics endpoint handler.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
