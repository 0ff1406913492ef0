package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v8"

	"github.com/Jayasakthi-07/foodie/internal/lifecycle"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress         string             `env:"RUN_ADDRESS" envDefault:":8080"`
	DatabaseURI        string             `env:"DATABASE_URI"`
	JWTSecret          string             `env:"JWT_SECRET" envDefault:"change-me-in-production"`
	JWTSecretFile      string             `env:"JWT_SECRET_FILE"`
	BcryptCost         int                `env:"BCRYPT_COST" envDefault:"10"`
	ProgressInterval   time.Duration      `env:"PROGRESS_INTERVAL" envDefault:"5s"`
	ActivationInterval time.Duration      `env:"ACTIVATION_INTERVAL" envDefault:"60s"`
	Timeline           lifecycle.Timeline `env:"ORDER_TIMELINE"`
	WorkerPoolSize     int                `env:"WORKER_POOL_SIZE" envDefault:"4"`
	PublishTimeout     time.Duration      `env:"PUBLISH_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout    time.Duration      `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MaxScheduleAhead   time.Duration      `env:"MAX_SCHEDULE_AHEAD" envDefault:"168h"`
	BrokerURL          string             `env:"BROKER_URL"`
	BrokerExchange     string             `env:"BROKER_EXCHANGE" envDefault:"foodie.orders"`
	LogLevel           slog.Level         `env:"LOG_LEVEL" envDefault:"info"`
	TraceStdout        bool               `env:"TRACE_STDOUT"`
	MetricsStdout      bool               `env:"METRICS_STDOUT"`
	MetricsInterval    time.Duration      `env:"METRICS_INTERVAL" envDefault:"60s"`
	AdminLogin         string             `env:"ADMIN_LOGIN"`
	AdminPassword      string             `env:"ADMIN_PASSWORD"`
}

const (
	defaultProgressInterval   = 5 * time.Second
	defaultActivationInterval = time.Minute
	defaultWorkerPoolSize     = 4
	defaultBcryptCost         = 10
	defaultPublishTimeout     = 5 * time.Second
	defaultShutdownTimeout    = 10 * time.Second
	defaultMaxScheduleAhead   = 7 * 24 * time.Hour
	defaultBrokerExchange     = "foodie.orders"
	defaultMetricsInterval    = time.Minute
)

// Load parses configuration from environment variables and flags.
func Load() (*Config, error) {
	return load(os.Args[1:], nil)
}

// load reads environ (the process environment when nil), then applies flags.
func load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{Timeline: lifecycle.DefaultTimeline}

	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("foodie", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.IntVar(&cfg.BcryptCost, "bcrypt-cost", cfg.BcryptCost, "bcrypt cost for stored passwords")
	fs.DurationVar(&cfg.ProgressInterval, "progress-interval", cfg.ProgressInterval, "Interval between auto-progress cycles")
	fs.DurationVar(&cfg.ActivationInterval, "activation-interval", cfg.ActivationInterval, "Interval between scheduled order activation cycles")
	fs.TextVar(&cfg.Timeline, "timeline", cfg.Timeline, "Order status thresholds, e.g. confirmed=30s,preparing=1m")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of orders processed concurrently per cycle")
	fs.DurationVar(&cfg.PublishTimeout, "publish-timeout", cfg.PublishTimeout, "Timeout for a single notification publish")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "Graceful shutdown timeout")
	fs.DurationVar(&cfg.MaxScheduleAhead, "max-schedule-ahead", cfg.MaxScheduleAhead, "How far in advance orders may be scheduled")
	fs.StringVar(&cfg.BrokerURL, "broker-url", cfg.BrokerURL, "RabbitMQ URL for mirroring notifications")
	fs.StringVar(&cfg.BrokerExchange, "broker-exchange", cfg.BrokerExchange, "RabbitMQ topic exchange name")
	fs.TextVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	fs.BoolVar(&cfg.MetricsStdout, "metrics-stdout", cfg.MetricsStdout, "Periodically export metrics to stdout")
	fs.DurationVar(&cfg.MetricsInterval, "metrics-interval", cfg.MetricsInterval, "Interval between metric exports")
	fs.StringVar(&cfg.AdminLogin, "admin-login", cfg.AdminLogin, "Login of the admin account ensured at startup")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if cfg.JWTSecretFile != "" {
		content, err := os.ReadFile(cfg.JWTSecretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = string(content)
	}

	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = defaultProgressInterval
	}

	if cfg.ActivationInterval <= 0 {
		cfg.ActivationInterval = defaultActivationInterval
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.BcryptCost <= 0 {
		cfg.BcryptCost = defaultBcryptCost
	}

	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = defaultPublishTimeout
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.MaxScheduleAhead <= 0 {
		cfg.MaxScheduleAhead = defaultMaxScheduleAhead
	}

	if cfg.BrokerExchange == "" {
		cfg.BrokerExchange = defaultBrokerExchange
	}

	if cfg.MetricsInterval <= 0 {
		cfg.MetricsInterval = defaultMetricsInterval
	}

	if cfg.AdminLogin != "" && cfg.AdminPassword == "" {
		return nil, fmt.Errorf("admin password must be provided with admin login")
	}

	if err := cfg.Timeline.Validate(); err != nil {
		return nil, fmt.Errorf("invalid order timeline: %w", err)
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}
