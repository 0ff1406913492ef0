package di

import (
	"go.uber.org/fx"

	"github.com/Jayasakthi-07/foodie/internal/app"
	"github.com/Jayasakthi-07/foodie/internal/config"
	"github.com/Jayasakthi-07/foodie/internal/logger"
	"github.com/Jayasakthi-07/foodie/internal/notify/ws"
	"github.com/Jayasakthi-07/foodie/internal/observability"
	"github.com/Jayasakthi-07/foodie/internal/pkg/auth"
	"github.com/Jayasakthi-07/foodie/internal/server/http/handlers"
	"github.com/Jayasakthi-07/foodie/internal/server/http/router"
	"github.com/Jayasakthi-07/foodie/internal/storage/postgres"
	"github.com/Jayasakthi-07/foodie/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		observability.Module,
		auth.Module,
		postgres.Module,
		usecase.Module,
		fx.Provide(
			func(f *app.FoodieFacade) handlers.FoodieFacade { return f },
			func(h *ws.Hub) handlers.SocketServer { return h },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
