package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/Jayasakthi-07/foodie/internal/config"
)

const serviceName = "foodie"

// metricsOut receives periodically exported metrics.
var metricsOut io.Writer = os.Stdout

// Instruments bundles the process-wide tracer and meter providers.
type Instruments struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	// Reader collects metrics on demand.
	Reader *sdkmetric.ManualReader

	shutdown func(context.Context) error
}

// New configures OpenTelemetry tracing and metrics for the process.
// Spans are written to stdout only when TraceStdout is enabled. Metrics are
// always collectable through Reader and, with MetricsStdout, are also pushed
// to stdout every MetricsInterval.
func New(cfg *config.Config, logger *slog.Logger) (*Instruments, error) {
	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	traceOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if cfg.TraceStdout {
		exporter, err := stdouttrace.New()
		if err != nil {
			return nil, err
		}
		traceOpts = append(traceOpts, sdktrace.WithBatcher(exporter))
		logger.Info("tracing to stdout enabled")
	}
	tracerProvider := sdktrace.NewTracerProvider(traceOpts...)
	otel.SetTracerProvider(tracerProvider)

	reader := sdkmetric.NewManualReader()
	meterOpts := []sdkmetric.Option{
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	}
	if cfg.MetricsStdout {
		exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(metricsOut))
		if err != nil {
			return nil, err
		}
		var readerOpts []sdkmetric.PeriodicReaderOption
		if cfg.MetricsInterval > 0 {
			readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricsInterval))
		}
		meterOpts = append(meterOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)))
		logger.Info("metrics export to stdout enabled", slog.Duration("interval", cfg.MetricsInterval))
	}
	meterProvider := sdkmetric.NewMeterProvider(meterOpts...)
	otel.SetMeterProvider(meterProvider)

	return &Instruments{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
		Reader:         reader,
		shutdown: func(ctx context.Context) error {
			return errors.Join(meterProvider.Shutdown(ctx), tracerProvider.Shutdown(ctx))
		},
	}, nil
}

// Tracer returns a named tracer from the configured provider.
func (i *Instruments) Tracer(name string) trace.Tracer {
	if i == nil || i.TracerProvider == nil {
		return otel.Tracer(name)
	}
	return i.TracerProvider.Tracer(name)
}

// Meter returns a named meter from the configured provider.
func (i *Instruments) Meter(name string) metric.Meter {
	if i == nil || i.MeterProvider == nil {
		return metricnoop.NewMeterProvider().Meter(name)
	}
	return i.MeterProvider.Meter(name)
}

// Shutdown flushes pending telemetry.
func (i *Instruments) Shutdown(ctx context.Context) error {
	if i == nil || i.shutdown == nil {
		return nil
	}
	return i.shutdown(ctx)
}
