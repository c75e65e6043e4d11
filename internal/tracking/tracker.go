// Package tracking forwards unexpected failures to an OpenTelemetry
// collector. Without a DSN every call is a no-op.
package tracking

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/prezadito/data-detective-sub001/internal/config"
)

const (
	ServiceName    = "datadetective"
	ServiceVersion = "1.0.0"
	tracerName     = "github.com/prezadito/data-detective-sub001/internal/tracking"
)

type Tracker struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	logger   zerolog.Logger
}

func New(ctx context.Context, cfg config.TrackingConfig, logger zerolog.Logger) (*Tracker, error) {
	if !cfg.Enabled() {
		logger.Info().Msg("Error tracking disabled")
		return Disabled(logger), nil
	}

	opts := []otlptracegrpc.Option{}
	if strings.Contains(cfg.DSN, "://") {
		opts = append(opts, otlptracegrpc.WithEndpointURL(cfg.DSN))
	} else {
		opts = append(opts, otlptracegrpc.WithEndpoint(cfg.DSN))
	}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	t := newTracker(sdktrace.WithBatcher(exporter), cfg, logger)

	logger.Info().
		Str("dsn", cfg.DSN).
		Float64("sample_rate", cfg.SampleRate).
		Str("environment", cfg.Environment).
		Msg("Error tracking initialized")

	return t, nil
}

// Disabled returns a tracker that records nothing.
func Disabled(logger zerolog.Logger) *Tracker {
	return &Tracker{
		tracer: noop.NewTracerProvider().Tracer(tracerName),
		logger: logger,
	}
}

func newTracker(processor sdktrace.TracerProviderOption, cfg config.TrackingConfig, logger zerolog.Logger) *Tracker {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(ServiceVersion),
	}
	if cfg.Environment != "" {
		attrs = append(attrs, attribute.String("deployment.environment", cfg.Environment))
	}

	var sampler sdktrace.Sampler
	switch cfg.SampleRate {
	case 1.0:
		sampler = sdktrace.AlwaysSample()
	case 0.0:
		sampler = sdktrace.NeverSample()
	default:
		sampler = sdktrace.TraceIDRatioBased(cfg.SampleRate)
	}

	provider := sdktrace.NewTracerProvider(
		processor,
		sdktrace.WithResource(resource.NewWithAttributes(semconv.SchemaURL, attrs...)),
		sdktrace.WithSampler(sampler),
	)

	return &Tracker{
		provider: provider,
		tracer:   provider.Tracer(tracerName),
		logger:   logger,
	}
}

func (t *Tracker) Enabled() bool {
	return t != nil && t.provider != nil
}

// StartSpan opens a span for one unit of work, e.g. a page request.
func (t *Tracker) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// CaptureError records err on a dedicated span.
func (t *Tracker) CaptureError(ctx context.Context, err error, attrs ...attribute.KeyValue) {
	if err == nil || !t.Enabled() {
		return
	}

	_, span := t.tracer.Start(ctx, "error", trace.WithAttributes(attrs...))
	span.RecordError(err, trace.WithStackTrace(true))
	span.SetStatus(codes.Error, err.Error())
	span.End()
}

// CapturePanic records a recovered panic together with its stack.
func (t *Tracker) CapturePanic(ctx context.Context, recovered interface{}, stack []byte, attrs ...attribute.KeyValue) {
	if !t.Enabled() {
		return
	}

	attrs = append(attrs, attribute.String("panic.stack", string(stack)))
	t.CaptureError(ctx, fmt.Errorf("panic: %v", recovered), attrs...)
}

func (t *Tracker) Shutdown(ctx context.Context) error {
	if !t.Enabled() {
		return nil
	}

	if err := t.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown tracker: %w", err)
	}
	return nil
}
