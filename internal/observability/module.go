package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

// Module provides OpenTelemetry instruments and flushes them on shutdown.
var Module = fx.Options(
	fx.Provide(
		New,
		func(inst *Instruments) trace.TracerProvider { return inst.TracerProvider },
	),
	fx.Invoke(func(lc fx.Lifecycle, inst *Instruments) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return inst.Shutdown(ctx)
			},
		})
	}),
)
