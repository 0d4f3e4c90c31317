// Package tracing installs the process-wide OpenTelemetry tracer provider.
// Without an endpoint the global no-op provider stays in place and spans
// cost next to nothing.
package tracing

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Default configuration constants.
const (
	DefaultServiceName = "careermap"
	DefaultSampleRate  = 1.0
)

// ShutdownFunc flushes and stops the provider.
type ShutdownFunc func(ctx context.Context) error

type settings struct {
	endpoint    string
	insecure    bool
	sampleRate  float64
	serviceName string
	version     string
	exporter    sdktrace.SpanExporter
}

// Option configures Init.
type Option func(*settings)

// WithEndpoint sets the OTLP/HTTP collector endpoint (host:port, an
// http:// or https:// prefix is accepted).
func WithEndpoint(endpoint string) Option {
	return func(s *settings) { s.endpoint = strings.TrimSpace(endpoint) }
}

// WithInsecure disables TLS towards the collector.
func WithInsecure(insecure bool) Option {
	return func(s *settings) { s.insecure = insecure }
}

// WithSampleRate sets the ratio of root spans that are sampled.
func WithSampleRate(rate float64) Option {
	return func(s *settings) { s.sampleRate = rate }
}

// WithServiceName sets the service.name resource attribute.
func WithServiceName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.serviceName = name
		}
	}
}

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) Option {
	return func(s *settings) { s.version = version }
}

// WithExporter replaces the OTLP exporter, mainly for tests.
func WithExporter(exp sdktrace.SpanExporter) Option {
	return func(s *settings) { s.exporter = exp }
}

// Init installs a tracer provider when an endpoint or exporter is
// configured. The returned func is always safe to call.
func Init(ctx context.Context, opts ...Option) (ShutdownFunc, error) {
	s := settings{sampleRate: DefaultSampleRate, serviceName: DefaultServiceName}
	for _, opt := range opts {
		opt(&s)
	}
	noop := func(context.Context) error { return nil }

	exp := s.exporter
	if exp == nil {
		if s.endpoint == "" {
			return noop, nil
		}
		httpOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(stripScheme(s.endpoint))}
		if s.insecure || strings.HasPrefix(s.endpoint, "http://") {
			httpOpts = append(httpOpts, otlptracehttp.WithInsecure())
		}
		var err error
		exp, err = otlptracehttp.New(ctx, httpOpts...)
		if err != nil {
			return noop, fmt.Errorf("creating trace exporter: %w", err)
		}
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(s.serviceName),
		semconv.ServiceVersion(s.version),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sampler(s.sampleRate))),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown, nil
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

func stripScheme(endpoint string) string {
	endpoint = strings.TrimPrefix(endpoint, "https://")
	return strings.TrimPrefix(endpoint, "http://")
}
