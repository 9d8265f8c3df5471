package tracing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/mimic/internal/config"
)

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TracingConfig{})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestSetup_StdoutWritesSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	path := filepath.Join(t.TempDir(), "traces", "spans.json")
	shutdown, err := Setup(context.Background(), config.TracingConfig{
		Enabled:  true,
		Exporter: "stdout",
		Path:     path,
	})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "game")
	span.End()
	require.NoError(t, shutdown(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"Name":"game"`)
	require.Contains(t, string(data), ServiceName)
}

func TestSetup_Errors(t *testing.T) {
	_, err := Setup(context.Background(), config.TracingConfig{Enabled: true, Exporter: "stdout"})
	require.Error(t, err)

	_, err = Setup(context.Background(), config.TracingConfig{Enabled: true, Exporter: "zipkin"})
	require.Error(t, err)
}

func TestNewProvider_UsesExporter(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp := NewProvider(exp)

	_, span := tp.Tracer("test").Start(context.Background(), "level")
	span.End()
	require.NoError(t, tp.ForceFlush(context.Background()))

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	require.Equal(t, "level", spans[0].Name)
}
