package telemetry

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/odvcencio/lattice/pkg/ui/runtime"

// Span names opened by the frame driver.
const (
	SpanFrame  = "frame"
	SpanLayout = "frame.layout"
	SpanDraw   = "frame.draw"
)

// Common attribute keys for frame tracing
var (
	AttrFrame      = attribute.Key("lattice.frame")
	AttrEvents     = attribute.Key("lattice.events")
	AttrCells      = attribute.Key("lattice.cells_written")
	AttrErrorCode  = attribute.Key("lattice.error_code")
	AttrFullRedraw = attribute.Key("lattice.full_redraw")
)

// TracerProvider holds the OpenTelemetry tracer provider
type TracerProvider struct {
	provider *sdktrace.TracerProvider
}

// NewTracerProvider exports spans as JSON lines to w and installs the
// provider globally.
func NewTracerProvider(w io.Writer, serviceName string) (*TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(provider)

	return &TracerProvider{provider: provider}, nil
}

// Tracer returns a tracer from this provider.
func (tp *TracerProvider) Tracer() trace.Tracer {
	return tp.provider.Tracer(tracerName)
}

// Shutdown flushes pending spans and stops the provider.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	return tp.provider.Shutdown(ctx)
}

// Tracer returns the global frame tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}
