package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Jayasakthi-07/foodie/internal/config"
	domainErrors "github.com/Jayasakthi-07/foodie/internal/domain/errors"
	"github.com/Jayasakthi-07/foodie/internal/domain/model"
	"github.com/Jayasakthi-07/foodie/internal/domain/repository"
	"github.com/Jayasakthi-07/foodie/internal/lifecycle"
	"github.com/Jayasakthi-07/foodie/internal/notify"
)

const (
	createAttempts = 3

	customerPageLimit = 10
	staffPageLimit    = 20
	maxPageLimit      = 100
)

// PlaceOrder carries the customer-supplied part of a new order.
type PlaceOrder struct {
	RestaurantID string
	Notes        string
	ScheduledAt  *time.Time
}

// Viewer identifies who is looking at an order.
type Viewer struct {
	UserID string
	Role   model.Role
}

// CanSee reports whether viewer may read order.
func (v Viewer) CanSee(order model.Order) bool {
	return order.UserID == v.UserID || v.Role.IsStaff()
}

// Progress describes the next automatic step of an order.
type Progress struct {
	Next model.OrderStatus
	In   time.Duration
}

// OrderUseCase encapsulates order placement, lookup and cancellation.
type OrderUseCase struct {
	orders         repository.OrderRepository
	publisher      notify.Publisher
	timeline       lifecycle.Timeline
	maxAhead       time.Duration
	publishTimeout time.Duration
	logger         *slog.Logger
	now            func() time.Time
	number         func(time.Time) string
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, publisher notify.Publisher, cfg *config.Config, logger *slog.Logger) *OrderUseCase {
	timeline := cfg.Timeline
	if timeline == (lifecycle.Timeline{}) {
		timeline = lifecycle.DefaultTimeline
	}
	return &OrderUseCase{
		orders:         orders,
		publisher:      publisher,
		timeline:       timeline,
		maxAhead:       cfg.MaxScheduleAhead,
		publishTimeout: cfg.PublishTimeout,
		logger:         logger,
		now:            time.Now,
		number:         orderNumber,
	}
}

// Place validates and stores a new pending order.
// Orders without a schedule are announced right away; scheduled ones are
// announced by the activator once due.
func (u *OrderUseCase) Place(ctx context.Context, userID string, in PlaceOrder) (*model.Order, error) {
	restaurantID := strings.TrimSpace(in.RestaurantID)
	if userID == "" || restaurantID == "" {
		return nil, domainErrors.ErrInvalidOrder
	}

	now := u.now()
	var scheduledAt *time.Time
	if in.ScheduledAt != nil {
		at := in.ScheduledAt.UTC()
		if !at.After(now) || (u.maxAhead > 0 && at.After(now.Add(u.maxAhead))) {
			return nil, domainErrors.ErrInvalidSchedule
		}
		scheduledAt = &at
	}

	order := &model.Order{
		UserID:       userID,
		RestaurantID: restaurantID,
		Status:       model.OrderStatusPending,
		Notes:        strings.TrimSpace(in.Notes),
		ScheduledAt:  scheduledAt,
	}

	var (
		created *model.Order
		err     error
	)
	for attempt := 0; attempt < createAttempts; attempt++ {
		order.ID = uuid.NewString()
		order.Number = u.number(now)
		created, err = u.orders.Create(ctx, order)
		if !errors.Is(err, domainErrors.ErrAlreadyExists) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	u.logger.Info("order placed",
		slog.String("order_id", created.ID),
		slog.String("number", created.Number),
		slog.Bool("scheduled", created.ScheduledAt != nil),
	)

	if created.ScheduledAt == nil {
		u.publish(ctx, notify.NewOrderCreated(*created),
			notify.CreatedTopics(created.ID, created.UserID, created.RestaurantID))
	}
	return created, nil
}

// Get returns an order the viewer is allowed to see.
func (u *OrderUseCase) Get(ctx context.Context, viewer Viewer, id string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.CanSee(*order) {
		return nil, domainErrors.ErrForbidden
	}
	return order, nil
}

// ListByUser returns one page of the user's orders, newest first.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID string, q model.OrderQuery) (model.OrderPage, error) {
	if userID == "" {
		return model.OrderPage{}, domainErrors.ErrInvalidQuery
	}
	q.RestaurantID = ""
	return u.list(ctx, model.OrderFilter{UserID: userID}, q, customerPageLimit)
}

// ListAll returns one page of every order matching q. Staff only.
func (u *OrderUseCase) ListAll(ctx context.Context, viewer Viewer, q model.OrderQuery) (model.OrderPage, error) {
	if !viewer.Role.IsStaff() {
		return model.OrderPage{}, domainErrors.ErrForbidden
	}
	return u.list(ctx, model.OrderFilter{RestaurantID: strings.TrimSpace(q.RestaurantID)}, q, staffPageLimit)
}

func (u *OrderUseCase) list(ctx context.Context, filter model.OrderFilter, q model.OrderQuery, defaultLimit int) (model.OrderPage, error) {
	if q.Status != "" && !lifecycle.IsKnown(q.Status) {
		return model.OrderPage{}, domainErrors.ErrInvalidQuery
	}
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	switch {
	case limit <= 0:
		limit = defaultLimit
	case limit > maxPageLimit:
		limit = maxPageLimit
	}

	filter.Status = q.Status
	filter.Limit = limit
	filter.Offset = (page - 1) * limit
	orders, total, err := u.orders.List(ctx, filter)
	if err != nil {
		return model.OrderPage{}, err
	}
	return model.OrderPage{Orders: orders, Page: page, Limit: limit, Total: total}, nil
}

// SetStatus moves an order to status on behalf of staff.
// Moves must go forward along the progression; cancelling is allowed from any
// non-terminal status.
func (u *OrderUseCase) SetStatus(ctx context.Context, viewer Viewer, id string, status model.OrderStatus) (*model.Order, error) {
	if !viewer.Role.IsStaff() {
		return nil, domainErrors.ErrForbidden
	}
	if !lifecycle.IsKnown(status) {
		return nil, domainErrors.ErrInvalidStatus
	}

	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !lifecycle.CanSet(order.Status, status) {
		return nil, domainErrors.ErrInvalidTransition
	}

	var deliveredAt *time.Time
	if status == model.OrderStatusDelivered {
		at := u.now().UTC()
		deliveredAt = &at
	}
	updated, err := u.orders.TransitionStatus(ctx, id, order.Status, status, deliveredAt)
	if err != nil {
		return nil, err
	}

	u.logger.Info("order status set",
		slog.String("order_id", id),
		slog.String("from", string(order.Status)),
		slog.String("to", string(status)),
		slog.String("by", viewer.UserID),
	)
	u.publish(ctx, notify.NewOrderUpdated(*updated), notify.UpdatedTopics(updated.ID, updated.UserID))
	return updated, nil
}

// Cancel moves the caller's own order to cancelled.
func (u *OrderUseCase) Cancel(ctx context.Context, userID, id string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domainErrors.ErrForbidden
	}
	if lifecycle.IsTerminal(order.Status) {
		return nil, domainErrors.ErrOrderNotCancellable
	}

	cancelled, err := u.orders.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}

	u.logger.Info("order cancelled", slog.String("order_id", id), slog.String("previous_status", string(order.Status)))
	u.publish(ctx, notify.NewOrderUpdated(*cancelled), notify.UpdatedTopics(cancelled.ID, cancelled.UserID))
	return cancelled, nil
}

// Progress reports the next automatic status of order and how long until it.
// Terminal and dormant orders have no upcoming step.
func (u *OrderUseCase) Progress(order model.Order) (Progress, bool) {
	if lifecycle.IsTerminal(order.Status) || order.AwaitingActivation() || order.CreatedAt.IsZero() {
		return Progress{}, false
	}
	next, in, ok := u.timeline.NextTransition(u.now().Sub(order.CreatedAt))
	if !ok || !lifecycle.Advances(order.Status, next) {
		return Progress{}, false
	}
	return Progress{Next: next, In: in}, true
}

func (u *OrderUseCase) publish(ctx context.Context, event notify.Event, topics []string) {
	ctx = context.WithoutCancel(ctx)
	if u.publishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.publishTimeout)
		defer cancel()
	}
	if err := notify.PublishAll(ctx, u.publisher, event, topics...); err != nil {
		u.logger.Warn("publish order event failed", slog.String("event", event.Name), slog.Any("error", err))
	}
}

// orderNumber renders a human readable order number such as ORDLX3K2F1A0042.
func orderNumber(at time.Time) string {
	stamp := strings.ToUpper(strconv.FormatInt(at.UnixMilli(), 36))
	return fmt.Sprintf("ORD%s%04d", stamp, rand.IntN(10000))
}
