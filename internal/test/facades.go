package test

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Jayasakthi-07/foodie/internal/domain/model"
	"github.com/Jayasakthi-07/foodie/internal/notify/ws"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	PlaceFn    func(context.Context, string, string, string, *time.Time) (*model.Order, error)
	OrderFn    func(context.Context, *model.User, string) (*model.Order, error)
	OrdersFn   func(context.Context, string, model.OrderQuery) (model.OrderPage, error)
	CancelFn   func(context.Context, string, string) (*model.Order, error)
	NextStepFn func(model.Order) (model.OrderStatus, time.Duration, bool)
}

// PlaceOrder delegates to provided function or returns a pending order.
func (s OrderFacadeStub) PlaceOrder(ctx context.Context, userID, restaurantID, notes string, scheduledAt *time.Time) (*model.Order, error) {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, userID, restaurantID, notes, scheduledAt)
	}
	return &model.Order{ID: "order-1", Number: "ORD1", UserID: userID, RestaurantID: restaurantID,
		Status: model.OrderStatusPending, Notes: notes, ScheduledAt: scheduledAt}, nil
}

// Order returns an order owned by the viewer unless overridden.
func (s OrderFacadeStub) Order(ctx context.Context, viewer *model.User, orderID string) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, viewer, orderID)
	}
	return &model.Order{ID: orderID, UserID: viewer.ID, Status: model.OrderStatusPreparing}, nil
}

// Orders returns a single-order page for given user.
func (s OrderFacadeStub) Orders(ctx context.Context, userID string, q model.OrderQuery) (model.OrderPage, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, userID, q)
	}
	return model.OrderPage{
		Orders: []model.Order{{ID: "order-1", UserID: userID, Status: model.OrderStatusConfirmed}},
		Page:   1, Limit: 10, Total: 1,
	}, nil
}

// CancelOrder returns a cancelled order unless overridden.
func (s OrderFacadeStub) CancelOrder(ctx context.Context, userID, orderID string) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, userID, orderID)
	}
	return &model.Order{ID: orderID, UserID: userID, Status: model.OrderStatusCancelled}, nil
}

// NextStep reports no upcoming status unless overridden.
func (s OrderFacadeStub) NextStep(order model.Order) (model.OrderStatus, time.Duration, bool) {
	if s.NextStepFn != nil {
		return s.NextStepFn(order)
	}
	return "", 0, false
}

// AdminFacadeStub provides controllable behaviour for back-office endpoints.
type AdminFacadeStub struct {
	AllOrdersFn  func(context.Context, *model.User, model.OrderQuery) (model.OrderPage, error)
	SetStatusFn  func(context.Context, *model.User, string, model.OrderStatus) (*model.Order, error)
	AssignRoleFn func(context.Context, *model.User, string, model.Role) (*model.User, error)
}

// AllOrders returns an empty page unless overridden.
func (s AdminFacadeStub) AllOrders(ctx context.Context, viewer *model.User, q model.OrderQuery) (model.OrderPage, error) {
	if s.AllOrdersFn != nil {
		return s.AllOrdersFn(ctx, viewer, q)
	}
	return model.OrderPage{Page: 1, Limit: 20}, nil
}

// SetOrderStatus returns the order in the requested status unless overridden.
func (s AdminFacadeStub) SetOrderStatus(ctx context.Context, viewer *model.User, orderID string, status model.OrderStatus) (*model.Order, error) {
	if s.SetStatusFn != nil {
		return s.SetStatusFn(ctx, viewer, orderID, status)
	}
	return &model.Order{ID: orderID, Status: status}, nil
}

// AssignRole returns the user with the new role unless overridden.
func (s AdminFacadeStub) AssignRole(ctx context.Context, viewer *model.User, userID string, role model.Role) (*model.User, error) {
	if s.AssignRoleFn != nil {
		return s.AssignRoleFn(ctx, viewer, userID, role)
	}
	return &model.User{ID: userID, Role: role}, nil
}

// HealthFacadeStub reports configured health.
type HealthFacadeStub struct {
	Err error
}

// Health returns the configured error.
func (s HealthFacadeStub) Health(context.Context) error {
	return s.Err
}

// SocketServerStub records websocket attach requests.
type SocketServerStub struct {
	mu         sync.Mutex
	Identities []ws.Identity
	Err        error
}

// ServeWS records identity and answers 101 unless Err is set.
func (s *SocketServerStub) ServeWS(w http.ResponseWriter, r *http.Request, identity ws.Identity) error {
	s.mu.Lock()
	s.Identities = append(s.Identities, identity)
	s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	w.WriteHeader(http.StatusSwitchingProtocols)
	return nil
}

// Served returns recorded identities.
func (s *SocketServerStub) Served() []ws.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ws.Identity, len(s.Identities))
	copy(out, s.Identities)
	return out
}
