package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Jayasakthi-07/foodie/internal/domain/model"
	"github.com/Jayasakthi-07/foodie/internal/notify/ws"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string) (*model.User, string, error)
	Authenticate(ctx context.Context, login, password string) (*model.User, string, error)
	Identify(ctx context.Context, token string) (*model.User, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, userID, restaurantID, notes string, scheduledAt *time.Time) (*model.Order, error)
	Order(ctx context.Context, viewer *model.User, orderID string) (*model.Order, error)
	Orders(ctx context.Context, userID string, q model.OrderQuery) (model.OrderPage, error)
	CancelOrder(ctx context.Context, userID, orderID string) (*model.Order, error)
	NextStep(order model.Order) (model.OrderStatus, time.Duration, bool)
}

// AdminFacade holds the back-office operations available to staff.
type AdminFacade interface {
	AllOrders(ctx context.Context, viewer *model.User, q model.OrderQuery) (model.OrderPage, error)
	SetOrderStatus(ctx context.Context, viewer *model.User, orderID string, status model.OrderStatus) (*model.Order, error)
	AssignRole(ctx context.Context, viewer *model.User, userID string, role model.Role) (*model.User, error)
}

// HealthFacade reports readiness of backing services.
type HealthFacade interface {
	Health(ctx context.Context) error
}

// FoodieFacade aggregates the full set of operations used across handlers.
type FoodieFacade interface {
	AuthFacade
	OrderFacade
	AdminFacade
	HealthFacade
}

// SocketServer attaches upgraded connections to the notification hub.
type SocketServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request, identity ws.Identity) error
}
