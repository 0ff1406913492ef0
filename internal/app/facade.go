package app

import (
	"context"
	"errors"
	"time"

	domainErrors "github.com/Jayasakthi-07/foodie/internal/domain/errors"
	"github.com/Jayasakthi-07/foodie/internal/domain/model"
	"github.com/Jayasakthi-07/foodie/internal/domain/repository"
	pkgAuth "github.com/Jayasakthi-07/foodie/internal/pkg/auth"
	"github.com/Jayasakthi-07/foodie/internal/usecase"
)

// FoodieFacade exposes use cases to the transport layer.
type FoodieFacade struct {
	auth   *usecase.AuthUseCase
	orders *usecase.OrderUseCase
	health repository.HealthChecker
}

func NewFoodieFacade(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase, health repository.HealthChecker) *FoodieFacade {
	return &FoodieFacade{auth: auth, orders: orders, health: health}
}

// Register signs up a customer and returns the account with its token.
func (f *FoodieFacade) Register(ctx context.Context, login, password string) (*model.User, string, error) {
	return f.auth.Register(ctx, login, password)
}

func (f *FoodieFacade) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, login, password)
}

// Identify resolves token to its user. Tokens of deleted users are invalid.
func (f *FoodieFacade) Identify(ctx context.Context, token string) (*model.User, error) {
	userID, err := f.auth.ParseToken(token)
	if err != nil {
		return nil, err
	}
	user, err := f.auth.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, pkgAuth.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func (f *FoodieFacade) PlaceOrder(ctx context.Context, userID, restaurantID, notes string, scheduledAt *time.Time) (*model.Order, error) {
	return f.orders.Place(ctx, userID, usecase.PlaceOrder{
		RestaurantID: restaurantID,
		Notes:        notes,
		ScheduledAt:  scheduledAt,
	})
}

func (f *FoodieFacade) Order(ctx context.Context, viewer *model.User, orderID string) (*model.Order, error) {
	return f.orders.Get(ctx, viewerOf(viewer), orderID)
}

func (f *FoodieFacade) Orders(ctx context.Context, userID string, q model.OrderQuery) (model.OrderPage, error) {
	return f.orders.ListByUser(ctx, userID, q)
}

func (f *FoodieFacade) CancelOrder(ctx context.Context, userID, orderID string) (*model.Order, error) {
	return f.orders.Cancel(ctx, userID, orderID)
}

func (f *FoodieFacade) NextStep(order model.Order) (model.OrderStatus, time.Duration, bool) {
	progress, ok := f.orders.Progress(order)
	return progress.Next, progress.In, ok
}

func (f *FoodieFacade) AllOrders(ctx context.Context, viewer *model.User, q model.OrderQuery) (model.OrderPage, error) {
	return f.orders.ListAll(ctx, viewerOf(viewer), q)
}

func (f *FoodieFacade) SetOrderStatus(ctx context.Context, viewer *model.User, orderID string, status model.OrderStatus) (*model.Order, error) {
	return f.orders.SetStatus(ctx, viewerOf(viewer), orderID, status)
}

func (f *FoodieFacade) AssignRole(ctx context.Context, viewer *model.User, userID string, role model.Role) (*model.User, error) {
	return f.auth.AssignRole(ctx, viewerOf(viewer), userID, role)
}

func viewerOf(u *model.User) usecase.Viewer {
	return usecase.Viewer{UserID: u.ID, Role: u.Role}
}

func (f *FoodieFacade) Health(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
