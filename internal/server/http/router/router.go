package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/Jayasakthi-07/foodie/internal/server/http/handlers"
	"github.com/Jayasakthi-07/foodie/internal/server/http/middleware"
)

const (
	serviceName = "foodie"
	// maxRequestBody caps inflated request bodies.
	maxRequestBody = 1 << 20
)

// Params lists router dependencies. TracerProvider falls back to the otel global.
type Params struct {
	fx.In

	Facade         handlers.FoodieFacade
	Sockets        handlers.SocketServer
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider `optional:"true"`
}

// Setup configures gin router with handlers and middleware.
func Setup(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	var otelOpts []otelgin.Option
	if p.TracerProvider != nil {
		otelOpts = append(otelOpts, otelgin.WithTracerProvider(p.TracerProvider))
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(otelgin.Middleware(serviceName, otelOpts...))
	engine.Use(middleware.RequestLogger(p.Logger))
	engine.Use(middleware.DecompressRequest(maxRequestBody))
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/ws"})))

	authHandler := handlers.NewAuthHandler(p.Facade)
	orderHandler := handlers.NewOrderHandler(p.Facade)
	adminHandler := handlers.NewAdminHandler(p.Facade)
	healthHandler := handlers.NewHealthHandler(p.Facade)
	socketHandler := handlers.NewSocketHandler(p.Sockets, p.Logger)

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	orders := api.Group("/orders")
	orders.Use(middleware.AuthRequired(p.Facade))
	orders.POST("", orderHandler.Create)
	orders.GET("", orderHandler.List)
	orders.GET("/:id", orderHandler.Get)
	orders.PUT("/:id/cancel", orderHandler.Cancel)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(p.Facade), middleware.StaffRequired())
	admin.GET("/orders", adminHandler.ListOrders)
	admin.PUT("/orders/:id/status", adminHandler.SetStatus)
	admin.PUT("/users/:id/role", adminHandler.AssignRole)

	engine.GET("/ws", middleware.SocketAuth(p.Facade), socketHandler.Connect)

	return engine
}
