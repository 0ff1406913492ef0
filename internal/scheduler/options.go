package scheduler

import (
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const (
	tracerName            = "github.com/Jayasakthi-07/foodie/internal/scheduler"
	defaultWorkers        = 4
	defaultPublishTimeout = 5 * time.Second
)

type settings struct {
	now            func() time.Time
	workers        int
	publishTimeout time.Duration
	tracer         trace.Tracer
	metrics        schedulerMetrics
}

// Option customises a poller.
type Option func(*settings)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithWorkers bounds how many orders are handled concurrently in a cycle.
func WithWorkers(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.workers = n
		}
	}
}

func WithPublishTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *settings) {
		if tr != nil {
			s.tracer = tr
		}
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *settings) {
		s.metrics = newSchedulerMetrics(m)
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		now:            time.Now,
		workers:        defaultWorkers,
		publishTimeout: defaultPublishTimeout,
		tracer:         nooptrace.NewTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}
