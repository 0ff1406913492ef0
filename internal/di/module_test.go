package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/Jayasakthi-07/foodie/internal/app"
	"github.com/Jayasakthi-07/foodie/internal/config"
	"github.com/Jayasakthi-07/foodie/internal/domain/repository"
	"github.com/Jayasakthi-07/foodie/internal/lifecycle"
	"github.com/Jayasakthi-07/foodie/internal/notify/ws"
	"github.com/Jayasakthi-07/foodie/internal/scheduler"
	"github.com/Jayasakthi-07/foodie/internal/storage/postgres"
	"github.com/Jayasakthi-07/foodie/internal/test"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		RunAddress:         ":0",
		DatabaseURI:        "postgres://stub",
		JWTSecret:          "secret",
		ProgressInterval:   time.Second,
		ActivationInterval: time.Second,
		Timeline:           lifecycle.DefaultTimeline,
		WorkerPoolSize:     1,
		PublishTimeout:     time.Second,
		ShutdownTimeout:    time.Millisecond,
		MaxScheduleAhead:   time.Hour,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	var (
		facade     *app.FoodieFacade
		engine     *gin.Engine
		hub        *ws.Hub
		progressor *scheduler.AutoProgressor
		activator  *scheduler.Activator
	)
	fxApp := fx.New(
		fx.NopLogger,
		fx.Provide(func() context.Context { return context.Background() }),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.UserRepository(test.NewUserRepositoryStub())),
			fx.Replace(repository.OrderRepository(test.NewOrderStore())),
			fx.Replace(repository.HealthChecker(test.HealthCheckerStub{})),
		),
		fx.Populate(&facade, &engine, &hub, &progressor, &activator),
	)

	require.NoError(t, fxApp.Err())
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	require.NotNil(t, facade)
	require.NotNil(t, engine)
	require.NotNil(t, hub)
	require.NotNil(t, progressor)
	require.NotNil(t, activator)
}
