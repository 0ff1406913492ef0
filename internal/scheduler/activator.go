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
	"github.com/Jayasakthi-07/foodie/internal/notify"
)

const (
	activationPoller          = "activator"
	defaultActivationInterval = time.Minute
)

// ActivationStore is the subset of the order store used by Activator.
type ActivationStore interface {
	FindDueScheduled(ctx context.Context, now time.Time) ([]model.Order, error)
	TransitionStatus(ctx context.Context, id string, from, to model.OrderStatus, deliveredAt *time.Time) (*model.Order, error)
}

// Activator releases scheduled orders into the live pipeline once their
// start time has come.
type Activator struct {
	loop

	store     ActivationStore
	publisher notify.Publisher
	logger    *slog.Logger
	settings
}

// NewActivator constructs the scheduled-order poller. The first cycle runs one
// interval after start.
func NewActivator(store ActivationStore, publisher notify.Publisher, interval time.Duration, logger *slog.Logger, opts ...Option) *Activator {
	if interval <= 0 {
		interval = defaultActivationInterval
	}
	a := &Activator{
		store:     store,
		publisher: publisher,
		logger:    logger.With(slog.String("poller", activationPoller)),
		settings:  newSettings(opts),
	}
	a.loop = loop{
		interval: interval,
		cycle: func(ctx context.Context) {
			_, _ = a.RunCycle(ctx)
		},
	}
	return a
}

// RunCycle confirms every pending order whose scheduled time has passed.
func (a *Activator) RunCycle(ctx context.Context) (CycleReport, error) {
	started := time.Now()
	ctx, span := a.tracer.Start(ctx, "Activator.RunCycle")
	defer span.End()
	defer func() { a.metrics.recordCycle(ctx, activationPoller, time.Since(started)) }()

	now := a.now()
	orders, err := a.store.FindDueScheduled(ctx, now)
	if err != nil {
		a.metrics.recordFailure(ctx, activationPoller, stageFetch)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		a.logger.Error("fetch scheduled orders failed", slog.String("error", err.Error()))
		return CycleReport{}, fmt.Errorf("fetch scheduled orders: %w", err)
	}

	var t tally
	g := new(errgroup.Group)
	g.SetLimit(a.workers)
	for _, order := range orders {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			t.add(a.activate(ctx, order, now))
			return nil
		})
	}
	_ = g.Wait()

	report := t.snapshot(len(orders))
	span.SetAttributes(
		attribute.Int("orders.fetched", report.Fetched),
		attribute.Int("orders.activated", report.Applied),
		attribute.Int("orders.failed", report.Failed),
	)
	if report.Fetched > 0 {
		a.logger.Info("activation cycle finished",
			slog.Int("fetched", report.Fetched),
			slog.Int("activated", report.Applied),
			slog.Int("failed", report.Failed),
		)
	}
	return report, nil
}

func (a *Activator) activate(ctx context.Context, order model.Order, now time.Time) outcome {
	if !order.DueForActivation(now) {
		return outcomeUnchanged
	}
	if ctx.Err() != nil {
		return outcomeFailed
	}

	updated, err := a.store.TransitionStatus(ctx, order.ID, model.OrderStatusPending, model.OrderStatusConfirmed, nil)
	switch {
	case errors.Is(err, domainErrors.ErrStatusConflict), errors.Is(err, domainErrors.ErrNotFound):
		a.logger.Debug("scheduled order already handled", slog.String("order_id", order.ID))
		return outcomeConflict
	case err != nil:
		a.metrics.recordFailure(ctx, activationPoller, stageWrite)
		a.logger.Error("activate scheduled order failed",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		return outcomeFailed
	}

	if updated == nil {
		o := order
		o.Status = model.OrderStatusConfirmed
		updated = &o
	}
	a.metrics.recordActivation(ctx)
	a.logger.Info("scheduled order activated",
		slog.String("order_id", updated.ID),
		slog.Time("scheduled_at", *order.ScheduledAt),
	)

	a.publish(ctx, *updated)
	return outcomeApplied
}

func (a *Activator) publish(ctx context.Context, order model.Order) {
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.publishTimeout)
	defer cancel()

	event := notify.NewOrderCreated(order)
	topics := notify.CreatedTopics(order.ID, order.UserID, order.RestaurantID)
	if err := notify.PublishAll(pubCtx, a.publisher, event, topics...); err != nil {
		a.metrics.recordFailure(ctx, activationPoller, stagePublish)
		a.logger.Warn("publish order activation failed",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}
}
