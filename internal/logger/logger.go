package logger

import (
	"log/slog"
	"os"

	"github.com/Jayasakthi-07/foodie/internal/config"
)

// New creates a preconfigured slog.Logger.
func New(cfg *config.Config) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})
	return slog.New(handler).With(slog.String("service", "foodie"))
}
