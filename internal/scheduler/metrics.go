package scheduler

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Jayasakthi-07/foodie/internal/domain/model"
)

const (
	stageFetch   = "fetch"
	stageWrite   = "write"
	stagePublish = "publish"
)

type schedulerMetrics struct {
	transitions   metric.Int64Counter
	activations   metric.Int64Counter
	failures      metric.Int64Counter
	cycleDuration metric.Float64Histogram
}

func newSchedulerMetrics(m metric.Meter) schedulerMetrics {
	if m == nil {
		return schedulerMetrics{}
	}
	transitions, _ := m.Int64Counter("scheduler.transitions", metric.WithDescription("Order status transitions applied by the auto-progress poller"))
	activations, _ := m.Int64Counter("scheduler.activations", metric.WithDescription("Scheduled orders released into the pipeline"))
	failures, _ := m.Int64Counter("scheduler.failures", metric.WithDescription("Per-order and batch failures"))
	cycleDuration, _ := m.Float64Histogram("scheduler.cycle.duration", metric.WithUnit("s"), metric.WithDescription("Duration of a poll cycle"))
	return schedulerMetrics{
		transitions:   transitions,
		activations:   activations,
		failures:      failures,
		cycleDuration: cycleDuration,
	}
}

func (m schedulerMetrics) recordTransition(ctx context.Context, status model.OrderStatus) {
	if m.transitions != nil {
		m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(status))))
	}
}

func (m schedulerMetrics) recordActivation(ctx context.Context) {
	if m.activations != nil {
		m.activations.Add(ctx, 1)
	}
}

func (m schedulerMetrics) recordFailure(ctx context.Context, poller, stage string) {
	if m.failures != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("poller", poller),
			attribute.String("stage", stage),
		))
	}
}

func (m schedulerMetrics) recordCycle(ctx context.Context, poller string, elapsed time.Duration) {
	if m.cycleDuration != nil {
		m.cycleDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("poller", poller)))
	}
}
