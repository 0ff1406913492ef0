package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/Jayasakthi-07/foodie/internal/config"
	"github.com/Jayasakthi-07/foodie/internal/domain/repository"
	"github.com/Jayasakthi-07/foodie/internal/lifecycle"
	"github.com/Jayasakthi-07/foodie/internal/notify"
	"github.com/Jayasakthi-07/foodie/internal/notify/broker"
	"github.com/Jayasakthi-07/foodie/internal/notify/ws"
	"github.com/Jayasakthi-07/foodie/internal/observability"
	"github.com/Jayasakthi-07/foodie/internal/scheduler"
	"github.com/Jayasakthi-07/foodie/internal/usecase"
)

const instrumentationName = "github.com/Jayasakthi-07/foodie/internal/scheduler"

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		NewFoodieFacade,
		newHTTPServer,
		newHub,
		newPublisher,
		newAutoProgressor,
		newActivator,
	),
	fx.Invoke(registerAdminSeed, registerLifecycle),
)

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type hubParams struct {
	fx.In

	Logger *slog.Logger
	Orders repository.OrderRepository `optional:"true"`
}

// newHub builds the websocket hub. Customers may join the room of an order
// only when the order store confirms they placed it.
func newHub(p hubParams) *ws.Hub {
	var opts []ws.Option
	if p.Orders != nil {
		opts = append(opts, ws.WithOrderOwner(orderOwner(p.Orders)))
	}
	return ws.NewHub(p.Logger, opts...)
}

func orderOwner(orders repository.OrderRepository) ws.OrderOwnerFunc {
	return func(ctx context.Context, orderID string) (string, error) {
		order, err := orders.GetByID(ctx, orderID)
		if err != nil {
			return "", err
		}
		return order.UserID, nil
	}
}

type seedParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
	Auth      *usecase.AuthUseCase
}

// registerAdminSeed makes sure the configured admin account exists before the
// server starts accepting requests. Public registration only creates customers.
func registerAdminSeed(p seedParams) {
	if p.Config.AdminLogin == "" {
		return
	}
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			admin, err := p.Auth.EnsureAdmin(ctx, p.Config.AdminLogin, p.Config.AdminPassword)
			if err != nil {
				return fmt.Errorf("ensure admin account: %w", err)
			}
			p.Logger.Info("admin account ready", slog.String("user_id", admin.ID), slog.String("login", admin.Login))
			return nil
		},
	})
}

// brokerDialer is replaced in tests.
var brokerDialer = func(url, exchange string, logger *slog.Logger) (brokerMirror, error) {
	p, err := broker.New(url, exchange, logger)
	if err != nil {
		return nil, err
	}
	return p, nil
}

type brokerMirror interface {
	notify.Publisher
	Close() error
}

type publisherParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
	Hub       *ws.Hub
}

// newPublisher fans events out to websocket subscribers and, when a broker
// is configured, mirrors them to the message exchange.
func newPublisher(p publisherParams) (notify.Publisher, error) {
	fanout := notify.Fanout{p.Hub}
	if p.Config.BrokerURL == "" {
		return fanout, nil
	}

	mirror, err := brokerDialer(p.Config.BrokerURL, p.Config.BrokerExchange, p.Logger)
	if err != nil {
		return nil, fmt.Errorf("connect broker: %w", err)
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return mirror.Close()
		},
	})
	p.Logger.Info("broker mirror enabled", slog.String("exchange", p.Config.BrokerExchange))
	return append(fanout, mirror), nil
}

type pollerParams struct {
	fx.In

	Orders      repository.OrderRepository
	Publisher   notify.Publisher
	Config      *config.Config
	Logger      *slog.Logger
	Instruments *observability.Instruments `optional:"true"`
}

func (p pollerParams) options() []scheduler.Option {
	return []scheduler.Option{
		scheduler.WithWorkers(p.Config.WorkerPoolSize),
		scheduler.WithPublishTimeout(p.Config.PublishTimeout),
		scheduler.WithTracer(p.Instruments.Tracer(instrumentationName)),
		scheduler.WithMeter(p.Instruments.Meter(instrumentationName)),
	}
}

func newAutoProgressor(p pollerParams) *scheduler.AutoProgressor {
	timeline := p.Config.Timeline
	if timeline == (lifecycle.Timeline{}) {
		timeline = lifecycle.DefaultTimeline
	}
	return scheduler.NewAutoProgressor(p.Orders, p.Publisher, timeline, p.Config.ProgressInterval, p.Logger, p.options()...)
}

func newActivator(p pollerParams) *scheduler.Activator {
	return scheduler.NewActivator(p.Orders, p.Publisher, p.Config.ActivationInterval, p.Logger, p.options()...)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Hub        *ws.Hub
	Progressor *scheduler.AutoProgressor
	Activator  *scheduler.Activator
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting foodie",
				slog.String("addr", p.Server.Addr),
				slog.String("timeline", p.Config.Timeline.String()),
			)
			// Background loops outlive the start context.
			runCtx := context.WithoutCancel(ctx)
			p.Hub.Start(runCtx)
			p.Progressor.Start(runCtx)
			p.Activator.Start(runCtx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Progressor.Stop()
			p.Activator.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			err := p.Server.Shutdown(shutdownCtx)
			p.Hub.Stop()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("foodie stopped")
			return nil
		},
	})
}
