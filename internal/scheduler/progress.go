package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	domainErrors "github.com/Jayasakthi-07/foodie/internal/domain/errors"
	"github.com/Jayasakthi-07/foodie/internal/domain/model"
	"github.com/Jayasakthi-07/foodie/internal/lifecycle"
	"github.com/Jayasakthi-07/foodie/internal/notify"
)

const (
	progressPoller          = "auto_progress"
	defaultProgressInterval = 5 * time.Second
)

// ProgressStore is the subset of the order store used by AutoProgressor.
type ProgressStore interface {
	FindActive(ctx context.Context) ([]model.Order, error)
	TransitionStatus(ctx context.Context, id string, from, to model.OrderStatus, deliveredAt *time.Time) (*model.Order, error)
}

// AutoProgressor moves live orders along the timeline based on their age.
type AutoProgressor struct {
	loop

	store     ProgressStore
	publisher notify.Publisher
	timeline  lifecycle.Timeline
	logger    *slog.Logger
	settings
}

// NewAutoProgressor constructs the auto-progress poller. The first cycle runs
// as soon as the poller starts.
func NewAutoProgressor(store ProgressStore, publisher notify.Publisher, timeline lifecycle.Timeline, interval time.Duration, logger *slog.Logger, opts ...Option) *AutoProgressor {
	if interval <= 0 {
		interval = defaultProgressInterval
	}
	p := &AutoProgressor{
		store:     store,
		publisher: publisher,
		timeline:  timeline,
		logger:    logger.With(slog.String("poller", progressPoller)),
		settings:  newSettings(opts),
	}
	p.loop = loop{
		interval:  interval,
		immediate: true,
		cycle: func(ctx context.Context) {
			_, _ = p.RunCycle(ctx)
		},
	}
	return p
}

// RunCycle fetches all non-terminal orders and advances each one to the status
// its age calls for. Only a failed fetch is returned as an error.
func (p *AutoProgressor) RunCycle(ctx context.Context) (CycleReport, error) {
	started := time.Now()
	ctx, span := p.tracer.Start(ctx, "AutoProgressor.RunCycle")
	defer span.End()
	defer func() { p.metrics.recordCycle(ctx, progressPoller, time.Since(started)) }()

	orders, err := p.store.FindActive(ctx)
	if err != nil {
		p.metrics.recordFailure(ctx, progressPoller, stageFetch)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.logger.Error("fetch active orders failed", slog.String("error", err.Error()))
		return CycleReport{}, fmt.Errorf("fetch active orders: %w", err)
	}

	now := p.now()
	var t tally
	g := new(errgroup.Group)
	g.SetLimit(p.workers)
	for _, order := range orders {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			t.add(p.advance(ctx, order, now))
			return nil
		})
	}
	_ = g.Wait()

	report := t.snapshot(len(orders))
	span.SetAttributes(
		attribute.Int("orders.fetched", report.Fetched),
		attribute.Int("orders.advanced", report.Applied),
		attribute.Int("orders.failed", report.Failed),
	)
	if report.Applied > 0 || report.Failed > 0 {
		p.logger.Info("auto-progress cycle finished",
			slog.Int("fetched", report.Fetched),
			slog.Int("advanced", report.Applied),
			slog.Int("failed", report.Failed),
		)
	}
	return report, nil
}

func (p *AutoProgressor) advance(ctx context.Context, order model.Order, now time.Time) outcome {
	if lifecycle.IsTerminal(order.Status) {
		return outcomeUnchanged
	}
	if !lifecycle.IsKnown(order.Status) || order.CreatedAt.IsZero() {
		p.logger.Warn("skipping malformed order",
			slog.String("order_id", order.ID),
			slog.String("status", string(order.Status)),
		)
		return outcomeMalformed
	}
	if order.AwaitingActivation() {
		return outcomeDormant
	}

	age := now.Sub(order.CreatedAt)
	target := p.timeline.StatusAt(age)
	if !lifecycle.Advances(order.Status, target) {
		return outcomeUnchanged
	}
	if ctx.Err() != nil {
		return outcomeFailed
	}

	var deliveredAt *time.Time
	if target == model.OrderStatusDelivered {
		at := now
		deliveredAt = &at
	}

	updated, err := p.store.TransitionStatus(ctx, order.ID, order.Status, target, deliveredAt)
	switch {
	case errors.Is(err, domainErrors.ErrStatusConflict):
		p.logger.Debug("order changed concurrently, retrying next cycle", slog.String("order_id", order.ID))
		return outcomeConflict
	case errors.Is(err, domainErrors.ErrNotFound):
		p.logger.Warn("order disappeared before transition", slog.String("order_id", order.ID))
		return outcomeConflict
	case err != nil:
		p.metrics.recordFailure(ctx, progressPoller, stageWrite)
		p.logger.Error("advance order failed",
			slog.String("order_id", order.ID),
			slog.String("target", string(target)),
			slog.String("error", err.Error()),
		)
		return outcomeFailed
	}

	if updated == nil {
		o := order
		o.Status = target
		o.DeliveredAt = deliveredAt
		updated = &o
	}
	p.metrics.recordTransition(ctx, target)
	p.logger.Debug("order advanced",
		slog.String("order_id", order.ID),
		slog.String("from", string(order.Status)),
		slog.String("to", string(target)),
		slog.Duration("age", age),
	)

	p.publish(ctx, *updated)
	return outcomeApplied
}

func (p *AutoProgressor) publish(ctx context.Context, order model.Order) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.publishTimeout)
	defer cancel()

	event := notify.NewOrderUpdated(order)
	if err := notify.PublishAll(pubCtx, p.publisher, event, notify.UpdatedTopics(order.ID, order.UserID)...); err != nil {
		p.metrics.recordFailure(ctx, progressPoller, stagePublish)
		p.logger.Warn("publish order update failed",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}
}
