package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jayasakthi-07/foodie/internal/config"
	domainErrors "github.com/Jayasakthi-07/foodie/internal/domain/errors"
	"github.com/Jayasakthi-07/foodie/internal/domain/model"
	"github.com/Jayasakthi-07/foodie/internal/lifecycle"
	"github.com/Jayasakthi-07/foodie/internal/notify"
	pkgAuth "github.com/Jayasakthi-07/foodie/internal/pkg/auth"
	testhelpers "github.com/Jayasakthi-07/foodie/internal/test"
	"github.com/Jayasakthi-07/foodie/internal/usecase"
)

type facadeFixture struct {
	facade    *FoodieFacade
	users     *testhelpers.UserRepositoryStub
	orders    *testhelpers.OrderStore
	publisher *testhelpers.PublisherStub
	health    *testhelpers.HealthCheckerStub
}

func newFacade(t *testing.T) facadeFixture {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	users := testhelpers.NewUserRepositoryStub()
	strategy := testhelpers.StrategyStub{
		IssueFn: func(userID string) (string, error) { return "token:" + userID, nil },
		ParseFn: func(token string) (string, error) {
			if len(token) <= len("token:") {
				return "", pkgAuth.ErrInvalidToken
			}
			return token[len("token:"):], nil
		},
	}
	authUC := usecase.NewAuthUseCase(users, testhelpers.HasherStub{}, strategy)

	orders := testhelpers.NewOrderStore()
	publisher := &testhelpers.PublisherStub{}
	cfg := &config.Config{Timeline: lifecycle.DefaultTimeline, MaxScheduleAhead: 24 * time.Hour, PublishTimeout: time.Second}
	orderUC := usecase.NewOrderUseCase(orders, publisher, cfg, logger)

	health := &testhelpers.HealthCheckerStub{}
	return facadeFixture{
		facade:    NewFoodieFacade(authUC, orderUC, health),
		users:     users,
		orders:    orders,
		publisher: publisher,
		health:    health,
	}
}

func TestFoodieFacadeAuth(t *testing.T) {
	f := newFacade(t)
	ctx := context.Background()

	registered, token, err := f.facade.Register(ctx, "chef", "pass")
	require.NoError(t, err)
	assert.Equal(t, "token:user-1", token)
	assert.Equal(t, model.RoleCustomer, registered.Role)

	_, token, err = f.facade.Authenticate(ctx, "chef", "pass")
	require.NoError(t, err)

	user, err := f.facade.Identify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "chef", user.Login)
	assert.Equal(t, model.RoleCustomer, user.Role)

	_, err = f.facade.Identify(ctx, "token:user-404")
	assert.ErrorIs(t, err, pkgAuth.ErrInvalidToken)

	_, err = f.facade.Identify(ctx, "garbage")
	assert.ErrorIs(t, err, pkgAuth.ErrInvalidToken)

	f.users.Err = errors.New("db down")
	_, err = f.facade.Identify(ctx, token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, pkgAuth.ErrInvalidToken)
}

func TestFoodieFacadeOrders(t *testing.T) {
	f := newFacade(t)
	ctx := context.Background()

	order, err := f.facade.PlaceOrder(ctx, "user-1", "rest-1", "extra napkins", nil)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Len(t, f.publisher.ForTopic(notify.RestaurantTopic("rest-1")), 1)

	listed, err := f.facade.Orders(ctx, "user-1", model.OrderQuery{})
	require.NoError(t, err)
	require.Len(t, listed.Orders, 1)
	assert.Equal(t, 1, listed.Total)

	got, err := f.facade.Order(ctx, &model.User{ID: "admin", Role: model.RoleAdmin}, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = f.facade.Order(ctx, &model.User{ID: "user-2", Role: model.RoleCustomer}, order.ID)
	assert.ErrorIs(t, err, domainErrors.ErrForbidden)

	next, in, ok := f.facade.NextStep(*got)
	require.True(t, ok)
	assert.Equal(t, model.OrderStatusConfirmed, next)
	assert.Greater(t, in, time.Duration(0))

	cancelled, err := f.facade.CancelOrder(ctx, "user-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCancelled, cancelled.Status)

	_, _, ok = f.facade.NextStep(*cancelled)
	assert.False(t, ok)
}

func TestFoodieFacadeAdmin(t *testing.T) {
	f := newFacade(t)
	ctx := context.Background()

	root, err := usecase.NewAuthUseCase(f.users, testhelpers.HasherStub{}, testhelpers.StrategyStub{}).EnsureAdmin(ctx, "root", "pass")
	require.NoError(t, err)
	chef, _, err := f.facade.Register(ctx, "chef", "pass")
	require.NoError(t, err)

	_, err = f.facade.AssignRole(ctx, chef, chef.ID, model.RoleAdmin)
	assert.ErrorIs(t, err, domainErrors.ErrForbidden)

	promoted, err := f.facade.AssignRole(ctx, root, chef.ID, model.RoleRestaurantManager)
	require.NoError(t, err)
	assert.Equal(t, model.RoleRestaurantManager, promoted.Role)

	order, err := f.facade.PlaceOrder(ctx, "user-9", "rest-1", "", nil)
	require.NoError(t, err)

	all, err := f.facade.AllOrders(ctx, promoted, model.OrderQuery{RestaurantID: "rest-1"})
	require.NoError(t, err)
	require.Len(t, all.Orders, 1)

	_, err = f.facade.AllOrders(ctx, &model.User{ID: "user-9", Role: model.RoleCustomer}, model.OrderQuery{})
	assert.ErrorIs(t, err, domainErrors.ErrForbidden)

	f.publisher.Reset()
	updated, err := f.facade.SetOrderStatus(ctx, root, order.ID, model.OrderStatusReady)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusReady, updated.Status)
	assert.Len(t, f.publisher.ForTopic(notify.UserTopic("user-9")), 1)
}

func TestFoodieFacadeHealth(t *testing.T) {
	f := newFacade(t)
	assert.NoError(t, f.facade.Health(context.Background()))

	f.health.Err = errors.New("ping failed")
	assert.Error(t, f.facade.Health(context.Background()))
}
