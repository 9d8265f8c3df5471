// Package tracing configures OpenTelemetry for mimic. Games are traced as
// one span each, with an event per completed level.
package tracing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/zjrosen/mimic/internal/config"
	"github.com/zjrosen/mimic/internal/log"
)

// ServiceName is reported as the service.name resource attribute.
const ServiceName = "mimic"

// Shutdown flushes and stops tracing.
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

// Setup installs a global tracer provider according to cfg. When tracing is
// disabled the global provider is left as the no-op default.
func Setup(ctx context.Context, cfg config.TracingConfig) (Shutdown, error) {
	if !cfg.Enabled {
		return noop, nil
	}

	var (
		exp     sdktrace.SpanExporter
		closeFn = func() error { return nil }
	)
	switch cfg.Exporter {
	case "stdout":
		if cfg.Path == "" {
			return nil, errors.New("tracing.path is required for the stdout exporter")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0750); err != nil {
			return nil, fmt.Errorf("creating trace directory: %w", err)
		}
		f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) //nolint:gosec // G304: path comes from user config
		if err != nil {
			return nil, fmt.Errorf("opening trace file: %w", err)
		}
		exp, err = stdouttrace.New(stdouttrace.WithWriter(f))
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("creating stdout exporter: %w", err)
		}
		closeFn = f.Close
	case "otlp":
		var err error
		exp, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("creating otlp exporter: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown trace exporter %q", cfg.Exporter)
	}

	tp := NewProvider(exp)
	otel.SetTracerProvider(tp)
	log.Info(log.CatConfig, "Tracing enabled", "exporter", cfg.Exporter)

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), closeFn())
	}, nil
}

// NewProvider builds a tracer provider that batches spans to exp.
func NewProvider(exp sdktrace.SpanExporter) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", ServiceName),
		)),
	)
}
