package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-retry"

	"github.com/sundayezeilo/passwordgen/internal/config"
	"github.com/sundayezeilo/passwordgen/internal/generator"
	"github.com/sundayezeilo/passwordgen/internal/idgen"
	"github.com/sundayezeilo/passwordgen/internal/metrics"
	"github.com/sundayezeilo/passwordgen/internal/passwords"
	"github.com/sundayezeilo/passwordgen/internal/server"
	"github.com/sundayezeilo/passwordgen/internal/wordlist"
	"github.com/sundayezeilo/passwordgen/securerand"
)

// App holds the application dependencies and configuration.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	DBPool  *pgxpool.Pool
	Metrics *metrics.Metrics
	Server  *server.Server
	Handler *passwords.Handler
}

// New initializes and returns a new App instance with all dependencies wired up.
func New(ctx context.Context) (*App, error) {
	if err := loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogger(cfg.App.LogLevel)

	logger.Info("starting application",
		"env", cfg.App.Environment,
		"version", cfg.Observability.ServiceVersion,
	)

	m := metrics.New()

	source, dbPool, err := wordSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	settings := cfg.Settings()
	rnd := securerand.New()

	// The word list is loaded lazily on the first passphrase request.
	provider := wordlist.NewProvider(wordlist.ProviderConfig{
		Source: source,
		Logger: logger,
		OnLoad: m.SetWordListSize,
	})

	registry := generator.NewRegistry(
		generator.NewPolicy(settings, rnd),
		generator.NewUniform(settings, rnd),
		generator.NewPassphrase(settings, provider, rnd),
	)

	svc := passwords.NewService(registry, settings, &passwords.ServiceConfig{
		IDGenerator: idgen.New(cfg.Generator.IDVersion()),
		Recorder:    m,
	})
	handler := passwords.NewHandler(passwords.HandlerConfig{
		Service:  svc,
		Logger:   logger,
		Settings: settings,
	})

	var opts []server.Option
	if cfg.Observability.MetricsEnabled {
		opts = append(opts, server.WithMetrics(m.Handler()))
	}
	srv := server.New(cfg, logger, handler, opts...)

	logger.Info("application initialized",
		"port", cfg.Server.Port,
		"wordlist", source.String(),
		"metrics", cfg.Observability.MetricsEnabled,
	)

	return &App{
		Config:  cfg,
		Logger:  logger,
		DBPool:  dbPool,
		Metrics: m,
		Server:  srv,
		Handler: handler,
	}, nil
}

// Start starts the application server.
func (a *App) Start(ctx context.Context) error {
	a.Logger.Info("server starting",
		"addr", a.Config.Server.Addr(),
	)

	if err := a.Server.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown() error {
	a.Logger.Info("shutting down application")

	if a.DBPool != nil {
		a.DBPool.Close()
		a.Logger.Info("database connection closed")
	}

	return nil
}

// wordSource picks the passphrase corpus backend. The pool is nil unless
// the corpus lives in Postgres.
func wordSource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (wordlist.Source, *pgxpool.Pool, error) {
	if cfg.Passphrase.Source != config.WordListSourcePostgres {
		return wordlist.NewFileSource(cfg.Passphrase.Path), nil, nil
	}

	pool, err := connectDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return wordlist.NewPostgresSource(pool, cfg.Passphrase.Table), pool, nil
}

// loadEnv loads .env file only in non-production environments.
func loadEnv() error {
	env := os.Getenv("APP_ENV")
	if env == "development" || env == "test" {
		if err := godotenv.Load(); err != nil {
			log.Println("no .env file found.")
		}
	}
	return nil
}

// setupLogger creates a structured logger based on the log level.
func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}

// connectDatabase establishes a connection to the PostgreSQL database.
func connectDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolConfig.MaxConns = cfg.Database.MaxConns
	poolConfig.MinConns = cfg.Database.MinConns

	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// The database may still be starting when the service comes up.
	backoff := retry.WithMaxRetries(uint64(cfg.Database.ConnectRetries), retry.NewExponential(250*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			logger.Warn("database ping failed", "error", err.Error())
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")

	return pool, nil
}
